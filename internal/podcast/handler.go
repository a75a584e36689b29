package podcast

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"podhub/internal/api"
)

type Handler struct {
	Repo *Repo
	Dev  bool
}

func NewHandler(repo *Repo, dev bool) *Handler {
	return &Handler{Repo: repo, Dev: dev}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)        // GET /podcasts
	rg.GET("/:id", h.getByID) // GET /podcasts/:id
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Artist: c.Query("artist"),
		Genre:  c.Query("genre"),
		Limit:  parseInt(c.Query("limit"), 20),
		Offset: parseInt(c.Query("offset"), 0),
	}

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		log.Printf("[podcast] count failed: %v", err)
		api.Error(c, http.StatusInternalServerError, "count failed", h.details(err))
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		log.Printf("[podcast] list failed: %v", err)
		api.Error(c, http.StatusInternalServerError, "list failed", h.details(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id := c.Param("id")
	p, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[podcast] get %s failed: %v", id, err)
		api.Error(c, http.StatusInternalServerError, "get failed", h.details(err))
		return
	}
	if p == nil {
		api.Error(c, http.StatusNotFound, "podcast not found", "")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) details(err error) string {
	if !h.Dev || err == nil {
		return ""
	}
	return err.Error()
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
