package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/wyfcoding/fruitable/internal/catalog/domain"
	"github.com/wyfcoding/fruitable/internal/review/application"
	"github.com/wyfcoding/fruitable/internal/review/domain"
	"github.com/wyfcoding/fruitable/pkg/metrics"
	"github.com/wyfcoding/fruitable/pkg/middleware"
)

type Handler struct {
	svc *application.ReviewApplicationService
	m   *metrics.Metrics
}

func NewHandler(svc *application.ReviewApplicationService, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, m: m}
}

// RegisterRoutes mounts the read side; the caller passes the public group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1")
	g.GET("/products/:id/rating/average", h.AverageRating)
	g.GET("/products/:id/reviews", h.ListReviews)
}

// RegisterAuthRoutes mounts the operations that require a logged-in user.
func (h *Handler) RegisterAuthRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1")
	g.POST("/products/:id/rating", h.Rate)
	g.GET("/products/:id/rating", h.UserRating)
	g.POST("/products/:id/reviews", h.SubmitReview)
}

func (h *Handler) Rate(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req struct {
		Value int `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.UserID(c)
	if err := h.svc.Rate(c.Request.Context(), userID, uint(productID), req.Value); err != nil {
		respondError(c, err)
		return
	}
	h.m.RatingsTotal.Inc()
	c.Status(http.StatusNoContent)
}

func (h *Handler) UserRating(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	value, err := h.svc.UserRating(c.Request.Context(), middleware.UserID(c), uint(productID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": value})
}

func (h *Handler) AverageRating(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	average, err := h.svc.AverageRating(c.Request.Context(), uint(productID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average_rating": average})
}

func (h *Handler) SubmitReview(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req struct {
		Text   string `json:"text" binding:"required"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Rating int    `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.SubmitReview(c.Request.Context(), application.SubmitReviewCommand{
		AuthorID:  middleware.UserID(c),
		ProductID: uint(productID),
		Text:      req.Text,
		Name:      req.Name,
		Email:     req.Email,
		Rating:    req.Rating,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.m.ReviewsTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) ListReviews(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	reviews, err := h.svc.ListReviews(c.Request.Context(), uint(productID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, catalogdomain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidRating), errors.Is(err, domain.ErrEmptyReview):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
