// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package admin

import (
	"html/template"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/square/flowlimit/logging"
)

type uiHandler struct {
	a           Administrable
	t           *template.Template
	htmlFiles   []string
	development bool
}

func serveUI(a Administrable, mux *http.ServeMux, assetsDirectory string, development bool) {
	files, err := ioutil.ReadDir(assetsDirectory)
	if err != nil {
		logging.Printf("Cannot read admin assets directory %v: %v; not serving UI.", assetsDirectory, err)
		return
	}

	htmlFiles := make([]string, 0)
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".html") {
			htmlFiles = append(htmlFiles, assetsDirectory+"/"+f.Name())
		}
	}

	if len(htmlFiles) == 0 {
		logging.Printf("No templates in %v; not serving UI.", assetsDirectory)
		return
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/", http.StatusMovedPermanently)
	})
	mux.Handle("/admin/", &uiHandler{a, reloadTemplates(htmlFiles), htmlFiles, development})
	mux.Handle("/js/", http.FileServer(http.Dir(assetsDirectory)))
}

func reloadTemplates(files []string) *template.Template {
	return template.Must(template.New("admin").ParseFiles(files...))
}

func (h *uiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.development {
		// Pick up template edits without a restart.
		h.t = reloadTemplates(h.htmlFiles)
	}

	path := r.URL.Path[len("/admin/"):]

	tpl := "index.html"
	if path != "" && path != "/" {
		tpl = path
	}

	if err := h.t.ExecuteTemplate(w, tpl, h.a.Configs()); err != nil {
		logging.Printf("Error rendering admin template %v: %v", tpl, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
