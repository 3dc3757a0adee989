package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	cartdomain "github.com/wyfcoding/fruitable/internal/cart/domain"
	"github.com/wyfcoding/fruitable/internal/checkout/application"
	"github.com/wyfcoding/fruitable/internal/checkout/domain"
	"github.com/wyfcoding/fruitable/pkg/metrics"
	"github.com/wyfcoding/fruitable/pkg/middleware"
)

const cartHeaderName = "X-Cart-ID"

type Handler struct {
	svc *application.CheckoutService
	m   *metrics.Metrics
}

func NewHandler(svc *application.CheckoutService, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, m: m}
}

// RegisterRoutes mounts the session endpoint under OptionalAuth so guest
// carts can check out too.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/checkout")
	g.POST("/session", h.CreateSession)
}

// RegisterCallbackRoutes mounts the processor-facing completion endpoint.
func (h *Handler) RegisterCallbackRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/checkout")
	g.POST("/orders/:id/complete", h.CompleteOrder)
}

func (h *Handler) CreateSession(c *gin.Context) {
	ref := cartdomain.CartRef{UserID: middleware.UserID(c)}
	if ref.UserID == 0 {
		if id := c.GetHeader(cartHeaderName); id != "" {
			ref.GuestID = id
		} else if id, err := c.Cookie("cart_id"); err == nil {
			ref.GuestID = id
		}
	}

	session, err := h.svc.CreateSession(c.Request.Context(), ref)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			h.m.CheckoutSessionsTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": "cart is empty"})
		case errors.Is(err, domain.ErrPaymentFailed):
			h.m.CheckoutSessionsTotal.WithLabelValues("failed").Inc()
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment processor unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	h.m.CheckoutSessionsTotal.WithLabelValues("created").Inc()
	c.JSON(http.StatusOK, gin.H{"session_id": session.ID, "redirect_url": session.URL})
}

func (h *Handler) CompleteOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	if err := h.svc.Complete(c.Request.Context(), uint(orderID)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	h.m.OrdersCompletedTotal.Inc()
	c.Status(http.StatusNoContent)
}
