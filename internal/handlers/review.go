// internal/handlers/review.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/services"
	"github.com/javajoker/catalog-backend/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// GET /reviews
func (h *ReviewHandler) GetReviews(c *gin.Context) {
	reviews, err := h.reviewService.List(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err, i18n.KeyReviewNotFound)
		return
	}

	if len(reviews) == 0 {
		utils.NotFoundResponse(c, i18n.KeyReviewsEmpty)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"reviews": reviews,
	})
}

// GET /products/:slug/reviews
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListByProductSlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, i18n.KeyProductNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"reviews": reviews,
	})
}

// POST /reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req services.AddReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Add(c.Request.Context(), &req, p)
	if err != nil {
		respondError(c, err, i18n.KeyProductNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.CreatedResponse(c, gin.H{
		"review":  review,
		"message": i18n.T(lang, i18n.KeyReviewCreated),
	})
}

// DELETE /reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	p, ok := principal(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), id, p); err != nil {
		respondError(c, err, i18n.KeyReviewNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReviewDeleted),
	})
}
