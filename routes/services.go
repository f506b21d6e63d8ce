package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"styledecor-server/errs"
	"styledecor-server/guards"
	"styledecor-server/middleware"
	"styledecor-server/models"
	"styledecor-server/services"
)

// CatalogHandler is the plain CRUD surface over service listings. Reads are
// public; writes are admin-only.
type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterPublic wires the read-only catalog routes.
func (h *CatalogHandler) RegisterPublic(r *gin.RouterGroup) {
	r.GET("/services", h.list)
	r.GET("/services/:id", h.get)
}

// Register wires the admin catalog routes onto an authenticated group.
func (h *CatalogHandler) Register(r *gin.RouterGroup) {
	r.POST("/services", h.create)
	r.PUT("/services/:id", h.update)
	r.DELETE("/services/:id", h.delete)
}

func (h *CatalogHandler) list(c *gin.Context) {
	listings, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *CatalogHandler) get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	listing, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *CatalogHandler) create(c *gin.Context) {
	if err := guards.RequireRole(middleware.CurrentUser(c), models.RoleAdmin); err != nil {
		respondError(c, err)
		return
	}

	var req models.ServiceUpsert
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Wrap(errs.KindInvalidInput, "invalid service payload", err))
		return
	}

	listing, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h *CatalogHandler) update(c *gin.Context) {
	if err := guards.RequireRole(middleware.CurrentUser(c), models.RoleAdmin); err != nil {
		respondError(c, err)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.ServiceUpsert
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Wrap(errs.KindInvalidInput, "invalid service payload", err))
		return
	}

	if err := h.catalog.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CatalogHandler) delete(c *gin.Context) {
	if err := guards.RequireRole(middleware.CurrentUser(c), models.RoleAdmin); err != nil {
		respondError(c, err)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}
