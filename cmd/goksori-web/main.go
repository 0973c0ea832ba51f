package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"goksori/internal/config"
	"goksori/internal/httpapi"
	"goksori/internal/util"
	"goksori/pkg/goksori"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("GOKSORI_CONFIG"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	util.SetDefault(logger)

	client := goksori.NewClient(cfg.API.BaseURL,
		goksori.WithTimeout(cfg.API.Timeout),
		goksori.WithLogger(logger),
	)

	srv, err := httpapi.NewServer(client, cfg, logger, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating web server: %v\n", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Web.Host, strconv.Itoa(cfg.Web.Port)),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Info("web server listening", "addr", httpServer.Addr, "api", cfg.API.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down web server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
