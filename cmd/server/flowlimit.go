// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

package main

import (
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/square/flowlimit"
	"github.com/square/flowlimit/config"
	"github.com/square/flowlimit/logging"
	"github.com/square/flowlimit/metrics"
	"github.com/square/flowlimit/rpc/grpc"
	qhttp "github.com/square/flowlimit/rpc/http"
	"github.com/square/flowlimit/stats"
)

var (
	app        = kingpin.New("flowlimit", "The flowlimit server.")
	adminAddr  = app.Flag("admin", "Admin console address.").Default("localhost:8080").String()
	grpcAddr   = app.Flag("grpc", "gRPC endpoint address.").Default("localhost:10990").String()
	httpAddr   = app.Flag("http", "HTTP endpoint address.").Default("localhost:10991").String()
	configFile = app.Flag("config", "YAML config file with initial flows.").Short('c').String()
	diskPath   = app.Flag("persist", "Persist configs to this file instead of memory.").Short('p').String()
	assetsDir  = app.Flag("assets", "Admin UI assets directory.").Default("admin/public").String()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg := config.NewDefaultServiceConfig()
	if *configFile != "" {
		cfg = config.ReadConfigFromFile(*configFile)
	}

	var persister config.ConfigPersister
	if *diskPath != "" {
		p, err := config.NewDiskConfigPersister(*diskPath)
		if err != nil {
			logging.Fatalf("Cannot persist configs to %v: %v", *diskPath, err)
		}

		if err := p.PersistAndNotify("", cfg); err != nil {
			logging.Fatalf("Cannot persist initial config: %v", err)
		}

		persister = p
	} else {
		persister = config.NewMemoryConfig(cfg)
	}

	server := flowlimit.New(persister,
		grpc.New(*grpcAddr),
		qhttp.New(*httpAddr))
	server.SetStatsListener(stats.NewMemoryStatsListener())

	waitMetrics := metrics.New()
	server.SetListener(waitMetrics.HandleEvent, 100)
	if _, e := server.Start(); e != nil {
		panic(e)
	}

	// Serve Admin Console
	logging.Printf("Starting admin server on %v\n", *adminAddr)
	sm := http.NewServeMux()
	server.ServeAdminConsole(sm, *assetsDir, true)
	go func() { _ = http.ListenAndServe(*adminAddr, sm) }()

	// Block until SIGTERM or SIGINT
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT)

	var shutdown sync.WaitGroup
	shutdown.Add(1)

	go func() {
		<-sigs
		shutdown.Done()
	}()

	shutdown.Wait()

	for _, flow := range waitMetrics.Flows() {
		logging.Printf("Flow %v: p99 wait %v, max wait %v", flow,
			waitMetrics.WaitTimeAtQuantile(flow, 99), waitMetrics.MaxWaitTime(flow))
	}

	_, _ = server.Stop()
}
