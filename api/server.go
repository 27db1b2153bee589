package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"newsdash/config"
	"newsdash/metrics"
	"newsdash/orchestrator"
	sharedtypes "newsdash/shared/types"
	"newsdash/types"
)

// AuthRealm is the basic-auth realm shown by browsers.
const AuthRealm = "News Dashboard"

// Store is the persistence the handlers read and mutate.
type Store interface {
	ListArticles(ctx context.Context, f types.ArticleFilter) ([]types.Article, error)
	MarkRead(ctx context.Context, id int64) error
	ToggleSaved(ctx context.Context, id int64) (bool, error)
	ListActiveSources(ctx context.Context) ([]types.Source, error)
	AddSource(ctx context.Context, src types.Source) (types.Source, error)
	Stats(ctx context.Context) (types.Stats, error)
}

// Runner starts fetch runs. Every run goes through one guard.
type Runner interface {
	Trigger(ctx context.Context, trigger orchestrator.Trigger) (orchestrator.RunResult, error)
	FetchSourceNow(ctx context.Context, src types.Source) (orchestrator.RunResult, error)
	Status() sharedtypes.StatusResponse
}

// Deps are the collaborators of the HTTP API.
type Deps struct {
	Store     Store
	Runner    Runner
	Auth      config.AuthConfig
	PublicDir string
	Logger    *slog.Logger
}

type handler struct {
	Deps
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	h := &handler{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery())
	if d.Auth.Enabled() {
		r.Use(gin.BasicAuthForRealm(gin.Accounts{d.Auth.User: d.Auth.Password}, AuthRealm))
	}

	g := r.Group("/api")
	RegisterHealthRoutes(g)
	RegisterArticleRoutes(g, h)
	RegisterSourceRoutes(g, h)
	RegisterFetchRoutes(g, h)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if d.PublicDir != "" {
		if info, err := os.Stat(d.PublicDir); err == nil && info.IsDir() {
			r.NoRoute(gin.WrapH(http.FileServer(http.Dir(d.PublicDir))))
		}
	}
	return r
}

func errorJSON(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
