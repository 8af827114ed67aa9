package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/sykell/page-analyzer/internal/crawler"
	"github.com/sykell/page-analyzer/internal/db"
	"github.com/sykell/page-analyzer/internal/service"
)

// Fixed client-facing error messages.
const (
	errURLRequired  = "URL is required"
	errPageNotFound = "Page not found"
	errInvalidOrder = "Invalid order parameter"
	errFetchFailed  = "Failed to fetch page"
	errInternal     = "Internal server error"
)

// CreatePageRequest represents the page creation request. The url field may
// arrive as form data or JSON.
type CreatePageRequest struct {
	URL string `form:"url" json:"url"`
}

// CreatePageResponse carries the id assigned to a new page.
type CreatePageResponse struct {
	ObjectID uint `json:"object_id"`
}

// PageResponse is the get-by-id shape.
type PageResponse struct {
	H1    int      `json:"h1"`
	H2    int      `json:"h2"`
	H3    int      `json:"h3"`
	Links []string `json:"a"`
}

// PageListItem is the list shape; unlike PageResponse it includes url and created_at.
type PageListItem struct {
	H1        int       `json:"h1"`
	H2        int       `json:"h2"`
	H3        int       `json:"h3"`
	Links     []string  `json:"a"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url"`
}

// PageCreator runs the fetch and persist pipeline for a URL.
type PageCreator interface {
	Analyze(ctx context.Context, address string) (*db.Page, error)
}

// CreatePageHandler handles page creation
func CreatePageHandler(creator PageCreator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePageRequest
		if err := c.ShouldBindWith(&req, bodyBinding(c.ContentType())); err != nil {
			log.Debug("create page bind error", zap.Error(err))
		}

		if strings.TrimSpace(req.URL) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": errURLRequired})
			return
		}

		page, err := creator.Analyze(c.Request.Context(), req.URL)
		if err != nil {
			_ = c.Error(err)
			var fetchErr *crawler.FetchError
			if errors.As(err, &fetchErr) {
				log.Warn("failed to fetch page", zap.String("url", req.URL), zap.Int("status", fetchErr.StatusCode), zap.Error(err))
				c.JSON(http.StatusBadGateway, gin.H{"error": errFetchFailed})
				return
			}
			log.Error("failed to create page", zap.String("url", req.URL), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternal})
			return
		}

		c.JSON(http.StatusOK, CreatePageResponse{ObjectID: page.ID})
	}
}

// GetPageHandler handles retrieving a single page
func GetPageHandler(pages service.PageRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, strconv.IntSize)
		if err != nil || id == 0 {
			// only integer ids address a page
			c.JSON(http.StatusNotFound, gin.H{"error": errPageNotFound})
			return
		}

		page, err := pages.GetPageByID(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, service.ErrPageNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": errPageNotFound})
				return
			}
			_ = c.Error(err)
			log.Error("failed to fetch page", zap.Uint64("page_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternal})
			return
		}

		c.JSON(http.StatusOK, PageResponse{
			H1:    page.H1Count,
			H2:    page.H2Count,
			H3:    page.H3Count,
			Links: nonNil(page.Links),
		})
	}
}

// ListPagesHandler handles page listing with an optional order parameter
func ListPagesHandler(pages service.PageRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order := service.DefaultOrder
		if raw, ok := c.GetQuery("order"); ok {
			parsed, err := service.ParseOrder(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidOrder})
				return
			}
			order = parsed
		}

		records, err := pages.ListPages(c.Request.Context(), order)
		if err != nil {
			_ = c.Error(err)
			log.Error("failed to list pages", zap.Stringer("order", order), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternal})
			return
		}

		items := make([]PageListItem, 0, len(records))
		for _, p := range records {
			items = append(items, PageListItem{
				H1:        p.H1Count,
				H2:        p.H2Count,
				H3:        p.H3Count,
				Links:     nonNil(p.Links),
				CreatedAt: p.CreatedAt,
				URL:       p.URL,
			})
		}

		c.JSON(http.StatusOK, items)
	}
}

// bodyBinding picks a binding that reads only the request body, never the
// query string.
func bodyBinding(contentType string) binding.Binding {
	switch contentType {
	case binding.MIMEJSON:
		return binding.JSON
	case binding.MIMEMultipartPOSTForm:
		return binding.FormMultipart
	default:
		return binding.FormPost
	}
}

func nonNil(links []string) []string {
	if links == nil {
		return []string{}
	}
	return links
}
