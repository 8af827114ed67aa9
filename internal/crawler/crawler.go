package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Config holds crawler configuration
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// DefaultConfig returns default crawler configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		UserAgent:    "page-analyzer/1.0",
		MaxBodyBytes: 10 << 20,
	}
}

// Result holds the structural data extracted from one HTML document.
type Result struct {
	H1Count int      `json:"h1_count"`
	H2Count int      `json:"h2_count"`
	H3Count int      `json:"h3_count"`
	Links   []string `json:"links"`
}

// ErrBodyTooLarge is wrapped by FetchError when a page exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// FetchError reports a failed fetch or parse of an upstream document.
type FetchError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Extractor fetches pages over HTTP and extracts heading counts and links.
// It is safe for concurrent use.
type Extractor struct {
	client *http.Client
	config *Config
	log    *zap.Logger
}

// NewExtractor creates a new extractor
func NewExtractor(config *Config, log *zap.Logger) *Extractor {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Extractor{
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		config: config,
		log:    log,
	}
}

// Extract downloads address and parses the response body.
func (e *Extractor) Extract(ctx context.Context, address string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, &FetchError{URL: address, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", e.config.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: address, Err: fmt.Errorf("failed to fetch URL: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: address, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var body io.Reader = resp.Body
	if limit := e.config.MaxBodyBytes; limit > 0 {
		data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
		if err != nil {
			return nil, &FetchError{URL: address, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
		}
		if int64(len(data)) > limit {
			return nil, &FetchError{URL: address, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, limit)}
		}
		body = bytes.NewReader(data)
	}

	result, err := e.ParseDocument(body)
	if err != nil {
		return nil, &FetchError{URL: address, StatusCode: resp.StatusCode, Err: err}
	}

	e.log.Debug("page extracted",
		zap.String("url", address),
		zap.Int("h1", result.H1Count),
		zap.Int("h2", result.H2Count),
		zap.Int("h3", result.H3Count),
		zap.Int("links", len(result.Links)),
	)
	return result, nil
}

// ParseDocument parses an HTML stream and counts h1-h3 tags and anchor hrefs.
func (e *Extractor) ParseDocument(r io.Reader) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return &Result{
		H1Count: doc.Find("h1").Length(),
		H2Count: doc.Find("h2").Length(),
		H3Count: doc.Find("h3").Length(),
		Links:   collectLinks(doc),
	}, nil
}

// collectLinks returns raw href values in document order
func collectLinks(doc *goquery.Document) []string {
	links := make([]string, 0)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, exists := sel.Attr("href"); exists {
			links = append(links, href)
		}
	})
	return links
}
