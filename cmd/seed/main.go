package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sykell/page-analyzer/internal/config"
	"github.com/sykell/page-analyzer/internal/crawler"
	"github.com/sykell/page-analyzer/internal/db"
	"github.com/sykell/page-analyzer/internal/logging"
	"github.com/sykell/page-analyzer/internal/service"
)

// SeedConfig holds seed configuration
type SeedConfig struct {
	ConfigFile  string
	ContinueErr bool
}

func newSeedCmd() *cobra.Command {
	seedCfg := &SeedConfig{}

	cmd := &cobra.Command{
		Use:   "seed URL [URL...]",
		Short: "Fetch the given URLs and store one page record per URL.",
		Long: `seed runs the same fetch and persist pipeline as POST /page/create for
each URL in order, printing the assigned object ids.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(seedCfg.ConfigFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			dbConn, err := db.InitDB(cfg.Database(), log)
			if err != nil {
				return err
			}

			analyzer := service.NewAnalyzer(
				crawler.NewExtractor(cfg.Crawler(), log.Named("crawler")),
				service.NewPageStore(dbConn),
				log.Named("analyzer"),
			)
			return seed(cmd.Context(), analyzer, args, seedCfg.ContinueErr, cmd.OutOrStdout(), log)
		},
	}

	cmd.Flags().StringVar(&seedCfg.ConfigFile, "config", os.Getenv("PAGES_CONFIG"), "path to a config file")
	cmd.Flags().BoolVar(&seedCfg.ContinueErr, "continue-on-error", false, "keep seeding after a URL fails")

	return cmd
}

type pageAnalyzer interface {
	Analyze(ctx context.Context, address string) (*db.Page, error)
}

// seed creates one page per URL sequentially.
func seed(ctx context.Context, analyzer pageAnalyzer, urls []string, continueOnErr bool, out io.Writer, log *zap.Logger) error {
	var errs []error
	for _, address := range urls {
		if address == "" {
			errs = append(errs, errors.New("url cannot be empty"))
			if !continueOnErr {
				break
			}
			continue
		}

		page, err := analyzer.Analyze(ctx, address)
		if err != nil {
			log.Error("failed to seed page", zap.String("url", address), zap.Error(err))
			errs = append(errs, err)
			if !continueOnErr {
				break
			}
			continue
		}
		fmt.Fprintf(out, "%d\t%s\n", page.ID, address)
	}
	return errors.Join(errs...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newSeedCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
