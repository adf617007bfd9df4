package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"citrusflow/config"
	"citrusflow/internal/dashboard"
	"citrusflow/internal/export"
	"citrusflow/internal/ingest"
	"citrusflow/internal/pipeline"
	"citrusflow/logger"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	inputPath := flag.String("input", "", "Order CSV path (overrides input.path)")
	serveDashboard := flag.Bool("dashboard", false, "Serve the dashboard even if disabled in config")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}
	if *inputPath != "" {
		cfg.Input.Path = *inputPath
	}
	if *serveDashboard {
		cfg.Dashboard.Enabled = true
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Citrusflow.Name,
		"version": cfg.Citrusflow.Version,
	}).Info("starting citrusflow")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipe := pipeline.New(cfg)
	if err := pipe.Load(); err != nil {
		if errors.Is(err, ingest.ErrNoInput) {
			log.WithFields(logger.Fields{"path": cfg.Input.Path}).
				Error("input CSV not found; check input.path or the -input flag")
			os.Exit(1)
		}
		log.WithError(err).Error("failed to load input")
		os.Exit(1)
	}

	logReport(log, pipe)

	if cfg.Storage.Export.Enabled {
		exporter, err := export.New(cfg)
		if err != nil {
			log.WithError(err).Warn("export disabled: exporter setup failed")
		} else {
			summaries, err := pipe.Sellers()
			if err == nil {
				_, err = exporter.Export(ctx, summaries)
			}
			if err != nil {
				log.WithError(err).Warn("seller summary export failed")
			}
		}
	}

	server, err := dashboard.NewServer(cfg.Dashboard, pipe, log)
	if err != nil {
		log.WithError(err).Error("failed to create dashboard server")
		os.Exit(1)
	}
	if server == nil {
		log.Info("dashboard disabled; analysis complete")
		return
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run(ctx, cfg.Citrusflow.Name)
	}()
	log.WithFields(logger.Fields{"address": server.Address()}).Info("dashboard started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")
		cancel()
	case err := <-serverErr:
		if err != nil {
			log.WithError(err).Error("dashboard server failed")
			os.Exit(1)
		}
		return
	}

	select {
	case <-serverErr:
		log.Info("graceful shutdown completed")
	case <-time.After(30 * time.Second):
		log.Warn("graceful shutdown timeout exceeded")
	}

	log.Info("citrusflow stopped")
}

func logReport(log *logger.Log, pipe *pipeline.Pipeline) {
	overview, err := pipe.Overview()
	if err != nil {
		log.WithError(err).Warn("failed to compute overview")
		return
	}
	log.WithFields(logger.Fields{
		"total_revenue":   overview.TotalRevenue,
		"orders":          overview.OrderCount,
		"customers":       overview.CustomerCount,
		"sellers":         overview.SellerCount,
		"repurchase_rate": overview.RepurchaseRate,
	}).Info("dataset overview")

	summaries, err := pipe.Sellers()
	if err != nil {
		log.WithError(err).Warn("failed to compute seller summaries")
		return
	}
	top := summaries
	if len(top) > 5 {
		top = top[:5]
	}
	for i, s := range top {
		log.WithFields(logger.Fields{
			"rank":            i + 1,
			"seller":          s.Seller,
			"total_revenue":   s.TotalRevenue,
			"orders":          s.OrderCount,
			"margin_rate":     s.MarginRate,
			"repurchase_rate": s.RepurchaseRate,
		}).Info("top seller")
	}
}
