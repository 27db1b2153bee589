package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"newsdash/rssfeeds"
	"newsdash/storage"
	"newsdash/types"
)

// RegisterArticleRoutes registers article-related routes.
func RegisterArticleRoutes(g *gin.RouterGroup, h *handler) {
	g.GET("/articles", h.listArticles)
	g.POST("/articles/:id/read", h.markRead)
	g.POST("/articles/:id/save", h.toggleSaved)
	g.GET("/stats", h.stats)
}

// listArticles handles GET /api/articles?unread=true&saved=true&category=X&limit=N&rank=score
func (h *handler) listArticles(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	filter := types.ArticleFilter{
		Unread:   c.Query("unread") == "true",
		Saved:    c.Query("saved") == "true",
		Category: c.Query("category"),
		Limit:    limit,
	}

	articles, err := h.Store.ListArticles(c.Request.Context(), filter)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	if c.Query("rank") == "score" {
		for i := range articles {
			articles[i].Score = float64(rssfeeds.ScoreArticle(&articles[i]))
		}
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].Score > articles[j].Score
		})
	}
	c.JSON(http.StatusOK, articles)
}

// markRead handles POST /api/articles/:id/read
func (h *handler) markRead(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		return
	}
	if err := h.Store.MarkRead(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// toggleSaved handles POST /api/articles/:id/save
func (h *handler) toggleSaved(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		return
	}
	saved, err := h.Store.ToggleSaved(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "is_saved": saved})
}

// stats handles GET /api/stats
func (h *handler) stats(c *gin.Context) {
	st, err := h.Store.Stats(c.Request.Context())
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func articleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return 0, false
	}
	return id, true
}

func storeError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		errorJSON(c, http.StatusNotFound, err)
		return
	}
	errorJSON(c, http.StatusInternalServerError, err)
}
