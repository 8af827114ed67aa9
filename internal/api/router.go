package api

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sykell/page-analyzer/internal/metrics"
	"github.com/sykell/page-analyzer/internal/middleware"
	"github.com/sykell/page-analyzer/internal/service"
)

//go:embed openapi.json
var openAPIDocument []byte

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Creator PageCreator
	Pages   service.PageRepository
	Log     *zap.Logger
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(deps Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log.Named("http")))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"service":   "page-analyzer",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", openAPIDocument)
	})

	pages := r.Group("/page")
	{
		pages.POST("/create", CreatePageHandler(deps.Creator, log))
		pages.GET("/list", ListPagesHandler(deps.Pages, log))
		pages.GET("/:id", GetPageHandler(deps.Pages, log))
	}

	return r
}
