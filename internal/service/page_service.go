package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sykell/page-analyzer/internal/crawler"
	"github.com/sykell/page-analyzer/internal/db"
)

// ErrPageNotFound is returned when no page has the requested id.
var ErrPageNotFound = errors.New("page not found")

// PageRepository is the append-only page store used by the API.
type PageRepository interface {
	CreatePage(ctx context.Context, page *db.Page) error
	GetPageByID(ctx context.Context, id uint) (*db.Page, error)
	ListPages(ctx context.Context, order Order) ([]db.Page, error)
}

// PageStore implements PageRepository on top of GORM.
type PageStore struct {
	db *gorm.DB
}

// NewPageStore wraps an open database connection.
func NewPageStore(dbConn *gorm.DB) *PageStore {
	return &PageStore{db: dbConn}
}

// CreatePage inserts page and fills in its ID and CreatedAt.
func (s *PageStore) CreatePage(ctx context.Context, page *db.Page) error {
	if page.URL == "" {
		return fmt.Errorf("url cannot be empty")
	}
	if page.Links == nil {
		page.Links = []string{}
	}

	if err := s.db.WithContext(ctx).Create(page).Error; err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	return nil
}

// GetPageByID retrieves a page by ID
func (s *PageStore) GetPageByID(ctx context.Context, id uint) (*db.Page, error) {
	var page db.Page
	err := s.db.WithContext(ctx).First(&page, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get page %d: %w", id, err)
	}
	return &page, nil
}

// ListPages returns every page sorted by order, ties broken by id.
func (s *PageStore) ListPages(ctx context.Context, order Order) ([]db.Page, error) {
	column, ok := order.Column()
	if !ok {
		return nil, ErrInvalidOrder
	}

	pages := make([]db.Page, 0)
	err := s.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: order.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Find(&pages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

// NewPageFromResult builds an unsaved page from extraction output.
func NewPageFromResult(address string, result *crawler.Result) *db.Page {
	links := result.Links
	if links == nil {
		links = []string{}
	}
	return &db.Page{
		URL:     address,
		H1Count: result.H1Count,
		H2Count: result.H2Count,
		H3Count: result.H3Count,
		Links:   links,
	}
}
