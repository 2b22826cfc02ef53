package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akarvir/url-shortener/cache"
	"github.com/akarvir/url-shortener/services"
	"github.com/akarvir/url-shortener/storage"
)

// Codes longer than this, or containing a dot, are never treated as short
// codes; they fall through to static asset handling.
const maxCodeLength = 10

type Handler struct {
	service   *services.Shortener
	cache     cache.LinkCache // nil when no cache is configured
	baseURL   string
	staticDir string
}

func New(service *services.Shortener, linkCache cache.LinkCache, baseURL, staticDir string) *Handler {
	return &Handler{
		service:   service,
		cache:     linkCache,
		baseURL:   baseURL,
		staticDir: staticDir,
	}
}

func (h *Handler) Register(router *gin.Engine) {
	router.POST("/api/shorten", h.Shorten)
	router.GET("/api/stats/:code", h.Stats)
	router.GET("/api/health", h.Health)
	router.GET("/api/recent", h.Recent)
	router.GET("/:code", h.Redirect)
	router.NoRoute(h.Fallback)
}

type ShortenRequest struct {
	URL string `json:"url" binding:"required"`
}

func (h *Handler) Shorten(c *gin.Context) {
	var req ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	result, err := h.service.Shorten(c.Request.Context(), req.URL, h.resolveBaseURL(c))
	if err != nil {
		if errors.Is(err, services.ErrInvalidURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL format"})
			return
		}
		log.Printf("Error shortening URL: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create short URL"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Stats(c *gin.Context) {
	code := c.Param("code")

	link, err := h.service.Stats(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "URL not found"})
			return
		}
		log.Printf("Error fetching stats for %s: %v", code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"short_code":   link.ShortCode,
		"original_url": link.OriginalURL,
		"click_count":  link.ClickCount,
		"created_at":   link.CreatedAt,
	})
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.service.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
		"supabase": "operational",
	})
}

func (h *Handler) Recent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 0
	}

	links, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		log.Printf("Error fetching recent URLs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"urls":  links,
		"total": len(links),
	})
}

// Redirect resolves a short code, counts the click and issues a 302. Paths
// that cannot be short codes are handed to the static file collaborator.
func (h *Handler) Redirect(c *gin.Context) {
	code := c.Param("code")
	if strings.Contains(code, ".") || len(code) > maxCodeLength {
		h.serveStatic(c, code)
		return
	}

	ctx := c.Request.Context()

	if h.cache != nil {
		target, err := h.cache.Get(ctx, code)
		switch {
		case err == nil:
			c.Header("X-Cache", "HIT")
			if err := h.service.RecordClick(ctx, code); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					// Stale entry for a row that no longer exists.
					_ = h.cache.Delete(ctx, code)
					c.JSON(http.StatusNotFound, gin.H{"error": "Short code not found"})
					return
				}
				log.Printf("Error counting click for %s: %v", code, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			c.Redirect(http.StatusFound, target)
			return
		case !errors.Is(err, cache.ErrCacheMiss):
			log.Printf("Cache lookup failed for %s: %v", code, err)
		}
		c.Header("X-Cache", "MISS")
	}

	link, err := h.service.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Short code not found"})
			return
		}
		log.Printf("Error resolving %s: %v", code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, code, link.OriginalURL); err != nil {
			log.Printf("Cache store failed for %s: %v", code, err)
		}
	}

	c.Redirect(http.StatusFound, link.OriginalURL)
}

// Fallback catches everything the explicit routes did not match. Precedence:
// unmatched api/ paths get a JSON 404, an exact static asset match wins over
// a short-code lookup, and anything else gets the app shell.
func (h *Handler) Fallback(c *gin.Context) {
	path := strings.TrimPrefix(c.Request.URL.Path, "/")

	if strings.HasPrefix(path, "api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
		return
	}

	if path != "" && h.staticFileExists(path) {
		c.File(filepath.Join(h.staticDir, path))
		return
	}

	if isCodeCandidate(path) {
		link, err := h.service.Resolve(c.Request.Context(), path)
		if err == nil {
			c.Redirect(http.StatusFound, link.OriginalURL)
			return
		}
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Error checking short code %s: %v", path, err)
		}
	}

	h.serveAppShell(c)
}

func (h *Handler) resolveBaseURL(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func isCodeCandidate(path string) bool {
	return path != "" && len(path) <= maxCodeLength &&
		!strings.Contains(path, ".") && !strings.Contains(path, "/")
}

func (h *Handler) staticFileExists(path string) bool {
	if strings.Contains(path, "..") {
		return false
	}
	info, err := os.Stat(filepath.Join(h.staticDir, path))
	return err == nil && !info.IsDir()
}

func (h *Handler) serveStatic(c *gin.Context, name string) {
	if h.staticFileExists(name) {
		c.File(filepath.Join(h.staticDir, name))
		return
	}
	h.serveAppShell(c)
}

func (h *Handler) serveAppShell(c *gin.Context) {
	index := filepath.Join(h.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.File(index)
}
