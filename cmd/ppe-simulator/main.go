package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"ppe-monitor/internal/logger"
	"ppe-monitor/internal/models"
	"ppe-monitor/internal/simulator"
)

func main() {
	addr := flag.String("addr", ":8765", "Listen address")
	prefix := flag.String("path-prefix", "/ws/monitor", "Stream path prefix")
	rate := flag.Float64("rate", 2, "Frames per second")
	logLevel := flag.String("log-level", "INFO", "Log level")
	flag.Parse()

	logger.SetLevel(*logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Infof("Received signal %v, shutting down...", sig)
		cancel()
	}()

	srv := simulator.NewServer(simulator.Config{
		Addr:       *addr,
		PathPrefix: *prefix,
		Rate:       *rate,
	}, models.DefaultLabels())

	if err := srv.Run(ctx); err != nil {
		logger.Fatalf("Simulator failed: %v", err)
	}
}
