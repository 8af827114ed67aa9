package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sykell/page-analyzer/internal/api"
	"github.com/sykell/page-analyzer/internal/config"
	"github.com/sykell/page-analyzer/internal/crawler"
	"github.com/sykell/page-analyzer/internal/db"
	"github.com/sykell/page-analyzer/internal/logging"
	"github.com/sykell/page-analyzer/internal/metrics"
	"github.com/sykell/page-analyzer/internal/service"
)

func main() {
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "page-analyzer",
		Short:        "Fetch pages, count their headings and links, and serve the results over HTTP.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfgFile)
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", os.Getenv("PAGES_CONFIG"), "path to a config file (yaml, json or toml)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	metrics.Init()

	log.Info("initializing database", zap.String("driver", cfg.DB.Driver))
	dbConn, err := db.InitDB(cfg.Database(), log)
	if err != nil {
		log.Error("failed to initialize database", zap.Error(err))
		return err
	}

	store := service.NewPageStore(dbConn)
	extractor := crawler.NewExtractor(cfg.Crawler(), log.Named("crawler"))
	analyzer := service.NewAnalyzer(extractor, store, log.Named("analyzer"))

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.Deps{
		Creator: analyzer,
		Pages:   store,
		Log:     log,
	})

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := dbConn.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}

	log.Info("server exited")
	return nil
}
