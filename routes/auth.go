package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"styledecor-server/errs"
	"styledecor-server/guards"
	"styledecor-server/middleware"
	"styledecor-server/models"
	"styledecor-server/services"
)

// AuthHandler issues credentials and serves principal lookups.
type AuthHandler struct {
	users  *services.UserService
	tokens *services.TokenService
}

func NewAuthHandler(users *services.UserService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// RegisterPublic wires the unauthenticated auth routes.
func (h *AuthHandler) RegisterPublic(r *gin.RouterGroup) {
	r.POST("/auth/register", h.register)
	r.POST("/auth/login", h.login)
}

// Register wires the authenticated principal routes.
func (h *AuthHandler) Register(r *gin.RouterGroup) {
	r.GET("/auth/me", h.me)
	r.GET("/users/:email/role", h.role)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Wrap(errs.KindInvalidInput, "name, email and password are required", err))
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.Email, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Wrap(errs.KindInvalidInput, "email and password are required", err))
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.Email, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, errs.New(errs.KindNotFound, "user not found"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// role returns the role for an email. Admins may look up anyone; everyone
// else only themselves.
func (h *AuthHandler) role(c *gin.Context) {
	email := strings.ToLower(c.Param("email"))
	if guards.RequireRole(middleware.CurrentUser(c), models.RoleAdmin) != nil {
		if email != strings.ToLower(middleware.CallerEmail(c)) {
			respondError(c, errs.New(errs.KindForbidden, "you may only look up your own role"))
			return
		}
	}

	user, err := h.users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": user.Role})
}
