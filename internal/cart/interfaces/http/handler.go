package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wyfcoding/fruitable/internal/cart/application"
	"github.com/wyfcoding/fruitable/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/fruitable/internal/catalog/domain"
	"github.com/wyfcoding/fruitable/pkg/metrics"
	"github.com/wyfcoding/fruitable/pkg/middleware"
)

const (
	cartCookieName = "cart_id"
	cartHeaderName = "X-Cart-ID"
	cartCookieAge  = 14 * 24 * 3600
)

type Handler struct {
	cmd   *application.CartCommandService
	query *application.CartQueryService
	m     *metrics.Metrics
}

func NewHandler(cmd *application.CartCommandService, query *application.CartQueryService, m *metrics.Metrics) *Handler {
	return &Handler{cmd: cmd, query: query, m: m}
}

// RegisterRoutes mounts the cart API; the group carries OptionalAuth so both
// logged-in users and guests reach it.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/cart")
	g.GET("", h.GetCart)
	g.POST("/items/:productID", h.MutateItem)
}

// RegisterAuthRoutes mounts the operations tied to a persisted order.
func (h *Handler) RegisterAuthRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/cart")
	g.PUT("/shipping-address", h.SetShippingAddress)
	g.POST("/merge", h.MergeGuestCart)
}

func (h *Handler) GetCart(c *gin.Context) {
	ref := h.cartRef(c, false)
	if ref.UserID == 0 && ref.GuestID == "" {
		// Nothing identifies a cart yet; that is an empty cart, not an error.
		c.JSON(http.StatusOK, domain.BuildCart(nil))
		return
	}
	info, err := h.query.Info(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) MutateItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	action, err := domain.ParseAction(req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	ref := h.cartRef(c, true)
	if err := h.cmd.Mutate(c.Request.Context(), ref, uint(productID), action); err != nil {
		respondError(c, err)
		return
	}
	h.m.CartMutationsTotal.WithLabelValues(string(action)).Inc()

	info, err := h.query.Info(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) SetShippingAddress(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
		Region  string `json:"region"`
		City    string `json:"city"`
		ZipCode string `json:"zip_code"`
		Mobile  string `json:"mobile"`
		Email   string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.cmd.SetShippingAddress(c.Request.Context(), middleware.UserID(c), application.SetShippingAddressCommand{
		Address: req.Address,
		Region:  req.Region,
		City:    req.City,
		ZipCode: req.ZipCode,
		Mobile:  req.Mobile,
		Email:   req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MergeGuestCart folds the caller's guest cart into their persisted order,
// typically right after login.
func (h *Handler) MergeGuestCart(c *gin.Context) {
	guestID := h.guestID(c)
	if guestID == "" {
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.cmd.MergeGuestCart(c.Request.Context(), guestID, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie(cartCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// cartRef resolves whose cart the request targets. For anonymous mutations a
// fresh cart id is issued and sent back as a cookie.
func (h *Handler) cartRef(c *gin.Context, issue bool) domain.CartRef {
	if userID := middleware.UserID(c); userID != 0 {
		return domain.CartRef{UserID: userID}
	}
	guestID := h.guestID(c)
	if guestID == "" && issue {
		guestID = uuid.New().String()
		c.SetCookie(cartCookieName, guestID, cartCookieAge, "/", "", false, true)
		c.Header(cartHeaderName, guestID)
	}
	return domain.CartRef{GuestID: guestID}
}

func (h *Handler) guestID(c *gin.Context) string {
	if id := c.GetHeader(cartHeaderName); id != "" {
		return id
	}
	if id, err := c.Cookie(cartCookieName); err == nil {
		return id
	}
	return ""
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, catalogdomain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no cart identifier supplied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
