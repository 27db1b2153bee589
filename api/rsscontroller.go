package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsdash/orchestrator"
	"newsdash/storage"
	"newsdash/types"
)

// RegisterSourceRoutes registers feed source endpoints.
func RegisterSourceRoutes(g *gin.RouterGroup, h *handler) {
	g.GET("/sources", h.listSources)
	g.POST("/sources", h.addSource)
}

// RegisterFetchRoutes registers on-demand fetch endpoints.
func RegisterFetchRoutes(g *gin.RouterGroup, h *handler) {
	g.POST("/fetch", h.fetchAll)
	g.GET("/fetch/status", h.fetchStatus)
}

type addSourceRequest struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// listSources handles GET /api/sources
func (h *handler) listSources(c *gin.Context) {
	sources, err := h.Store.ListActiveSources(c.Request.Context())
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, sources)
}

// addSource handles POST /api/sources. The new source is fetched once before
// responding; a failing first fetch does not undo the add. While another run
// holds the guard the source is left for the next run and 202 is returned.
func (h *handler) addSource(c *gin.Context) {
	var req addSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if req.URL == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL and name are required"})
		return
	}

	src, err := h.Store.AddSource(c.Request.Context(), types.Source{Name: req.Name, URL: req.URL, Category: req.Category})
	if errors.Is(err, storage.ErrSourceExists) {
		errorJSON(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	res, err := h.Runner.FetchSourceNow(c.Request.Context(), src)
	if errors.Is(err, orchestrator.ErrRunInProgress) {
		h.Logger.Info("Initial fetch deferred: run in progress", "source", src.Name)
		c.JSON(http.StatusAccepted, gin.H{
			"success":  true,
			"message":  fmt.Sprintf("Feed %q added; it will be fetched on the next run", src.Name),
			"sourceId": src.ID,
			"articles": 0,
			"queued":   true,
		})
		return
	}
	if err != nil {
		h.Logger.Error("Initial fetch failed", "source", src.Name, "error", err)
	}
	h.Logger.Info("Fetched initial articles", "source", src.Name, "articles", res.Count())

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  fmt.Sprintf("Feed %q added successfully", src.Name),
		"sourceId": src.ID,
		"articles": res.Count(),
		"queued":   false,
	})
}

// fetchAll handles POST /api/fetch
func (h *handler) fetchAll(c *gin.Context) {
	res, err := h.Runner.Trigger(c.Request.Context(), orchestrator.TriggerManual)
	if errors.Is(err, orchestrator.ErrRunInProgress) {
		errorJSON(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Fetched %d new articles", res.Count()),
		"run_id":  res.RunID,
		"count":   res.Count(),
	})
}

// fetchStatus handles GET /api/fetch/status
func (h *handler) fetchStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.Runner.Status())
}
