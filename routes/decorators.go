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

// DecoratorHandler exposes the decorator application lifecycle and the
// manual availability toggle.
type DecoratorHandler struct {
	decorators *services.DecoratorService
	users      *services.UserService
}

func NewDecoratorHandler(decorators *services.DecoratorService, users *services.UserService) *DecoratorHandler {
	return &DecoratorHandler{decorators: decorators, users: users}
}

func (h *DecoratorHandler) Register(r *gin.RouterGroup) {
	r.POST("/decorators/apply", h.apply)
	r.GET("/decorators", h.list)
	r.GET("/decorators/me", h.me)
	r.PATCH("/decorators/:id/status", h.updateStatus)
	r.PATCH("/decorators/:id/work-status", h.updateWorkStatus)
	r.DELETE("/decorators/:id", h.delete)
}

func (h *DecoratorHandler) apply(c *gin.Context) {
	var req models.DecoratorApplication
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Wrap(errs.KindInvalidInput, "invalid application payload", err))
		return
	}
	// Applications are tied to the authenticated principal.
	req.Email = middleware.CallerEmail(c)

	decorator, err := h.decorators.Apply(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, decorator)
}

func (h *DecoratorHandler) list(c *gin.Context) {
	status := models.DecoratorStatus(c.Query("status"))

	// Non-admins only see the approved roster.
	if guards.RequireRole(middleware.CurrentUser(c), models.RoleAdmin) != nil {
		status = models.DecoratorStatusApproved
	}

	decorators, err := h.decorators.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decorators)
}

func (h *DecoratorHandler) me(c *gin.Context) {
	decorator, err := h.decorators.GetByEmail(c.Request.Context(), middleware.CallerEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decorator)
}

func (h *DecoratorHandler) updateStatus(c *gin.Context) {
	if err := guards.RequireRole(middleware.CurrentUser(c), models.RoleAdmin); err != nil {
		respondError(c, err)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Status models.DecoratorStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Wrap(errs.KindInvalidInput, "status is required", err))
		return
	}

	ctx := c.Request.Context()
	if err := h.decorators.UpdateStatus(ctx, id, req.Status); err != nil {
		respondError(c, err)
		return
	}

	// Approval promotes the principal so role checks recognize the
	// decorator. Best-effort: the account may not exist yet.
	if req.Status == models.DecoratorStatusApproved {
		if decorator, err := h.decorators.Get(ctx, id); err == nil {
			_ = h.users.SetRole(ctx, decorator.Email, models.RoleDecorator)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "decorator " + string(req.Status)})
}

func (h *DecoratorHandler) updateWorkStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		WorkStatus models.DecoratorWorkStatus `json:"work_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Wrap(errs.KindInvalidInput, "work_status is required", err))
		return
	}

	err = h.decorators.SetWorkStatus(c.Request.Context(), middleware.CurrentUser(c), middleware.CallerEmail(c), id, req.WorkStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "work status updated to " + string(req.WorkStatus)})
}

func (h *DecoratorHandler) delete(c *gin.Context) {
	if err := guards.RequireRole(middleware.CurrentUser(c), models.RoleAdmin); err != nil {
		respondError(c, err)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.decorators.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}
