// netwatch-server serves the network behavior analyzer over HTTP.
//
// Usage:
//
//	netwatch-server -config netwatch.yaml
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-netwatch/pkg/api"
	"github.com/dd0wney/cluso-netwatch/pkg/config"
	"github.com/dd0wney/cluso-netwatch/pkg/logging"
	"github.com/dd0wney/cluso-netwatch/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))
	reg := metrics.NewRegistry()
	server := api.NewServer(cfg, logger, reg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", logging.Error(err))
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("signal received", logging.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", logging.Error(err))
			os.Exit(1)
		}
	}
}
