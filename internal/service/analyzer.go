package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sykell/page-analyzer/internal/crawler"
	"github.com/sykell/page-analyzer/internal/db"
	"github.com/sykell/page-analyzer/internal/metrics"
)

// Extractor fetches a URL and returns its heading counts and links.
type Extractor interface {
	Extract(ctx context.Context, address string) (*crawler.Result, error)
}

// Analyzer runs the fetch, extract and persist pipeline for one URL.
type Analyzer struct {
	extractor Extractor
	pages     PageRepository
	log       *zap.Logger
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(extractor Extractor, pages PageRepository, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{extractor: extractor, pages: pages, log: log}
}

// Analyze fetches address and stores the result as a new page. Nothing is
// stored when the fetch fails; the returned error then wraps *crawler.FetchError.
func (a *Analyzer) Analyze(ctx context.Context, address string) (*db.Page, error) {
	result, err := a.extractor.Extract(ctx, address)
	if err != nil {
		metrics.ObserveFetch(metrics.FetchFailed)
		return nil, fmt.Errorf("extract %s: %w", address, err)
	}
	metrics.ObserveFetch(metrics.FetchSucceeded)

	page := NewPageFromResult(address, result)
	if err := a.pages.CreatePage(ctx, page); err != nil {
		return nil, err
	}
	metrics.ObservePageCreated()

	a.log.Info("page stored",
		zap.Uint("page_id", page.ID),
		zap.String("url", address),
		zap.Int("links", len(page.Links)),
	)
	return page, nil
}
