package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/fruitable/internal/auth/application"
	"github.com/wyfcoding/fruitable/internal/auth/domain"
	cartapp "github.com/wyfcoding/fruitable/internal/cart/application"
	"github.com/wyfcoding/fruitable/pkg/logger"
	"github.com/wyfcoding/fruitable/pkg/middleware"
)

const cartHeaderName = "X-Cart-ID"

type Handler struct {
	svc  *application.AuthService
	cart *cartapp.CartCommandService
}

func NewHandler(svc *application.AuthService, cart *cartapp.CartCommandService) *Handler {
	return &Handler{svc: svc, cart: cart}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

func (h *Handler) RegisterAuthRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/auth")
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me)
}

func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.svc.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email, "username": user.Username})
}

// Login issues a token and, when the caller carried a guest cart, folds it
// into the user's persisted cart.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if guestID := h.guestID(c); guestID != "" {
		if err := h.cart.MergeGuestCart(c.Request.Context(), guestID, res.UserID); err != nil {
			logger.Warn(c.Request.Context(), "guest cart merge failed", "user_id", res.UserID, "error", err)
		} else {
			c.SetCookie("cart_id", "", -1, "/", "", false, true)
		}
	}

	c.JSON(http.StatusOK, gin.H{"token": res.Token, "expires_at": res.ExpiresAt})
}

func (h *Handler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	tok := strings.TrimPrefix(header, "Bearer ")
	if tok == "" || tok == header {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing bearer token"})
		return
	}
	if err := h.svc.Logout(c.Request.Context(), tok); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email, "username": user.Username})
}

func (h *Handler) guestID(c *gin.Context) string {
	if id := c.GetHeader(cartHeaderName); id != "" {
		return id
	}
	if id, err := c.Cookie("cart_id"); err == nil {
		return id
	}
	return ""
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, domain.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		logger.Error(c.Request.Context(), "auth request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
