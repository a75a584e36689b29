package search

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"podhub/internal/api"
	"podhub/internal/itunes"
	"podhub/internal/podcast"
	"podhub/pkg/models"
)

type Handler struct {
	Service *Service
	Repo    *podcast.Repo
	Dev     bool // expose error details in responses
}

func NewHandler(svc *Service, repo *podcast.Repo, dev bool) *Handler {
	return &Handler{Service: svc, Repo: repo, Dev: dev}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.search)                     // GET /search
	rg.GET("/history", h.history)            // GET /search/history
	rg.GET("/popular-terms", h.popularTerms) // GET /search/popular-terms
}

func (h *Handler) search(c *gin.Context) {
	q := Query{
		Term:    c.Query("term"),
		Media:   c.Query("media"),
		Country: c.Query("country"),
	}

	if s := strings.TrimSpace(c.Query("limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			api.Error(c, http.StatusBadRequest, "limit must be an integer", h.details(err))
			return
		}
		q.Limit = n
	}

	results, err := h.Service.SearchAndStore(c.Request.Context(), q)
	if err != nil {
		status, msg := classify(err)
		if status >= http.StatusInternalServerError {
			log.Printf("[search] search %q failed: %v", q.Term, err)
		}
		api.Error(c, status, msg, h.details(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       results,
		"count":      len(results),
		"searchTerm": strings.TrimSpace(q.Term),
	})
}

func (h *Handler) history(c *gin.Context) {
	term := strings.TrimSpace(c.Query("term"))

	var (
		rows []models.Podcast
		err  error
	)
	if term != "" {
		rows, err = h.Repo.ByTerm(c.Request.Context(), term)
	} else {
		rows, err = h.Repo.Recent(c.Request.Context(), 100)
	}
	if err != nil {
		log.Printf("[search] history failed: %v", err)
		api.Error(c, http.StatusInternalServerError, "failed to fetch search history", h.details(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
		"count":   len(rows),
	})
}

func (h *Handler) popularTerms(c *gin.Context) {
	terms, err := h.Repo.PopularTerms(c.Request.Context(), 10)
	if err != nil {
		log.Printf("[search] popular terms failed: %v", err)
		api.Error(c, http.StatusInternalServerError, "failed to fetch popular search terms", h.details(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    terms,
	})
}

// classify maps pipeline failures to status codes: validation 400, upstream
// timeout 408, upstream unavailable or malformed 502, anything else 500.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidTerm),
		errors.Is(err, ErrInvalidMedia),
		errors.Is(err, ErrInvalidLimit):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, itunes.ErrTimeout):
		return http.StatusRequestTimeout, "iTunes API request timeout"
	case errors.Is(err, itunes.ErrUpstreamUnavailable),
		errors.Is(err, itunes.ErrUpstreamProtocol):
		return http.StatusBadGateway, "iTunes API error"
	default:
		return http.StatusInternalServerError, "internal server error during search"
	}
}

func (h *Handler) details(err error) string {
	if !h.Dev || err == nil {
		return ""
	}
	return err.Error()
}
