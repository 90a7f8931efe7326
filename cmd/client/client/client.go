// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

// Package implements a CLI for administering and exercising the flowlimit service.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"gopkg.in/alecthomas/kingpin.v2"

	fpb "github.com/square/flowlimit/protos"
)

var (
	app     = kingpin.New("flowlimit-cli", "The flowlimit CLI tool.")
	verbose = app.Flag("verbose", "Verbose output").Short('v').Default("false").Bool()
	host    = app.Flag("host", "Admin host address").Short('h').Default("localhost").String()
	port    = app.Flag("port", "Admin host port").Short('p').Default("8080").Int()
	grpcSrv = app.Flag("grpc", "gRPC endpoint address").Default("localhost:10990").String()

	// show
	show     = app.Command("show", "Show configuration for the entire service, or for a single flow.")
	output   = show.Flag("out", "Send output to file.").Short('o').String()
	showFlow = show.Arg("flow", "Only show config for a given flow.").String()

	// add
	add      = app.Command("add", "Adds a flow to a running configuration.")
	addFile  = add.Flag("file", "File from which to read the flow config.").Short('f').String()
	addFlow  = add.Arg("flow", "Flow to add.").Required().String()

	// remove
	remove     = app.Command("remove", "Removes a flow from a running configuration.")
	removeFlow = remove.Arg("flow", "Flow to remove.").Required().String()

	// update
	update     = app.Command("update", "Updates a flow in a running configuration.")
	updateFile = update.Flag("file", "File from which to read the flow config.").Short('f').String()
	updateFlow = update.Arg("flow", "Flow to update.").Required().String()

	// take
	take       = app.Command("take", "Takes tokens from a flow over gRPC, blocking until admitted.")
	takeFlow   = take.Arg("flow", "Flow to take from.").Required().String()
	takeTokens = take.Arg("tokens", "Number of tokens.").Required().Int64()

	// load
	load         = app.Command("load", "Issues a paced stream of takes against a flow.")
	loadFlow     = load.Arg("flow", "Flow to load.").Required().String()
	loadRate     = load.Flag("rate", "Requests per second to issue.").Default("10").Float64()
	loadBurst    = load.Flag("burst", "Pacing burst.").Default("1").Int()
	loadTokens   = load.Flag("tokens", "Tokens per request.").Default("1").Int64()
	loadDuration = load.Flag("duration", "How long to run.").Default("10s").Duration()
)

func RunClient(args []string) {
	switch kingpin.MustParse(app.Parse(args)) {
	case show.FullCommand():
		doShow(*showFlow)
	case add.FullCommand():
		doAdd(*addFlow)
	case remove.FullCommand():
		doRemove(*removeFlow)
	case update.FullCommand():
		doUpdate(*updateFlow)
	case take.FullCommand():
		doTake(*takeFlow, *takeTokens)
	case load.FullCommand():
		doLoad(*loadFlow, *loadRate, *loadBurst, *loadTokens, *loadDuration)
	default:
		kingpin.FatalUsage("Unknown command; should never happen.")
	}
}

func doShow(flow string) {
	logf("Called show(flow=%v)\n", flow)
	resp := connectToServer("GET", createUrl(flow))
	defer func() { _ = resp.Body.Close() }()
	body, e := ioutil.ReadAll(resp.Body)
	kingpin.FatalIfError(e, "Error reading HTTP response")

	if *output == "" {
		fmt.Println(string(body))
	} else {
		logf("Writing to %v\n", *output)
		kingpin.FatalIfError(ioutil.WriteFile(*output, body, 0644), "Cannot write to file %v", *output)
	}
}

func doAdd(flow string) {
	logf("Called add(flow=%v)\n", flow)
	cfgBytes := readCfg(*addFile)
	resp := connectToServer("POST", createUrl(flow), cfgBytes)
	_ = resp.Body.Close()
}

func doRemove(flow string) {
	logf("Called remove(flow=%v)\n", flow)
	resp := connectToServer("DELETE", createUrl(flow))
	_ = resp.Body.Close()
}

func doUpdate(flow string) {
	logf("Called update(flow=%v)\n", flow)
	cfgBytes := readCfg(*updateFile)
	resp := connectToServer("PUT", createUrl(flow), cfgBytes)
	_ = resp.Body.Close()
}

func doTake(flow string, tokens int64) {
	c := dialGrpc()

	start := time.Now()
	rsp, err := c.Take(context.Background(), &fpb.TakeRequest{
		FlowName:  &flow,
		NumTokens: &tokens})
	kingpin.FatalIfError(err, "Take failed")

	fmt.Printf("%v: granted %v tokens in %v\n", rsp.GetStatus(), rsp.GetGranted(), time.Since(start))
}

// doLoad issues takes at a fixed pace, reporting admissions per second. The pacing limiter
// shapes the request stream on the client side; the server's flow does the real shaping.
func doLoad(flow string, reqRate float64, burst int, tokens int64, duration time.Duration) {
	c := dialGrpc()
	limiter := rate.NewLimiter(rate.Limit(reqRate), burst)

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	var issued, admitted int64
	start := time.Now()

	for {
		if err := limiter.Wait(ctx); err != nil {
			break
		}

		issued++
		rsp, err := c.Take(ctx, &fpb.TakeRequest{FlowName: &flow, NumTokens: &tokens})
		if err == nil && rsp.GetStatus() == fpb.Status_OK {
			admitted++
		}
	}

	elapsed := time.Since(start)
	fmt.Printf("Issued %v takes, %v admitted in %v (%.1f admits/sec)\n",
		issued, admitted, elapsed, float64(admitted)/elapsed.Seconds())
}

func dialGrpc() fpb.FlowLimitClient {
	conn, err := grpc.Dial(*grpcSrv, grpc.WithInsecure())
	kingpin.FatalIfError(err, "Cannot connect to gRPC endpoint %v", *grpcSrv)
	return fpb.NewFlowLimitClient(conn)
}

func readCfg(f string) []byte {
	var cfgBytes []byte
	var e error

	if f == "" {
		f = "STDIN"
		cfgBytes, e = ioutil.ReadAll(os.Stdin)
	} else {
		cfgBytes, e = ioutil.ReadFile(f)
	}

	kingpin.FatalIfError(e, "Could not read config from %v", f)
	logf("Read config %v from %v\n", string(cfgBytes), f)
	validateJSON(cfgBytes)
	return cfgBytes
}

func validateJSON(j []byte) {
	var js map[string]interface{}
	kingpin.FatalIfError(json.Unmarshal(j, &js), "Config is not valid JSON")
}

func createUrl(flow string) string {
	url := fmt.Sprintf("http://%v:%v/api/flows", *host, *port)
	if flow != "" {
		url = fmt.Sprintf("%v/%v", url, flow)
	}

	return url
}

func connectToServer(method, url string, body ...[]byte) *http.Response {
	logf("%v %v\n", method, url)

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body[0])
	}

	req, e := http.NewRequest(method, url, reader)
	kingpin.FatalIfError(e, "Could not create request")

	resp, e := http.DefaultClient.Do(req)
	kingpin.FatalIfError(e, "Could not talk to server")

	if resp.StatusCode != http.StatusOK {
		kingpin.Fatalf("Server returned %v", resp.Status)
	}

	return resp
}

func logf(format string, args ...interface{}) {
	if *verbose {
		fmt.Printf(format, args...)
	}
}
