// internal/services/review_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/catalog-backend/internal/cache"
	"github.com/javajoker/catalog-backend/internal/database"
	"github.com/javajoker/catalog-backend/internal/events"
	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/observability"
	"github.com/javajoker/catalog-backend/internal/utils"
)

type ReviewService struct {
	db                   *gorm.DB
	authorizationService *AuthorizationService
	ratings              RatingAggregator
	effects              sideEffects
}

type AddReviewRequest struct {
	ProductID uint64  `json:"product_id" validate:"required"`
	Grade     *int    `json:"grade" validate:"required,gte=0,lte=5"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

func NewReviewService(db *gorm.DB, authorizationService *AuthorizationService, publisher events.Publisher, listings cache.ListingCache) *ReviewService {
	if authorizationService == nil {
		authorizationService = NewAuthorizationService()
	}
	return &ReviewService{
		db:                   db,
		authorizationService: authorizationService,
		effects:              newSideEffects(publisher, listings),
	}
}

// Add records a customer review and folds its grade into the product rating
// within one transaction. The grade is checked before anything is written.
func (s *ReviewService) Add(ctx context.Context, req *AddReviewRequest, principal models.Principal) (*models.Review, error) {
	ctx, span := observability.StartSpan(ctx, "ReviewService.Add")
	defer span.End()

	if err := utils.ValidateStruct(req); err != nil {
		return nil, newValidationError(err)
	}

	if err := s.authorizationService.RequireRole(principal, models.RoleCustomer); err != nil {
		return nil, err
	}

	var (
		review models.Review
		rating RatingResult
	)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.ratings.LockProduct(ctx, tx, req.ProductID); err != nil {
			return err
		}

		var err error
		rating, err = s.ratings.Recompute(ctx, tx, req.ProductID, ReviewAdded{Grade: *req.Grade})
		if err != nil {
			return err
		}

		review = models.Review{
			Comment:   req.Comment,
			Grade:     *req.Grade,
			Status:    models.StatusActive,
			ProductID: req.ProductID,
			UserID:    principal.ID,
		}
		if err := tx.WithContext(ctx).Create(&review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	observability.ReviewMutationsTotal.WithLabelValues("added").Inc()

	ev := events.NewEvent(events.EventTypeReviewAdded, models.EntityReview, review.ID)
	ev.ProductID = review.ProductID
	ev.ActorID = principal.ID
	s.effects.afterCommit(ctx, ev, events.RatingChanged(review.ProductID, rating.Rating, rating.Count))

	return &review, nil
}

// Delete soft-deletes an active review and recomputes the product rating
// without it. With no reviews left the rating drops to zero.
func (s *ReviewService) Delete(ctx context.Context, reviewID uint64, principal models.Principal) error {
	ctx, span := observability.StartSpan(ctx, "ReviewService.Delete")
	defer span.End()

	if err := s.authorizationService.RequireRole(principal, models.RoleAdmin); err != nil {
		return err
	}

	var (
		review models.Review
		rating RatingResult
	)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Where("id = ? AND status = ?", reviewID, models.StatusActive).
			Take(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		// Reviews of a soft-deleted product can still be removed, so the lock
		// here does not require the product to be active.
		var locked models.Product
		if err := tx.WithContext(ctx).
			Clauses(lockForUpdate).
			Select("id").
			Where("id = ?", review.ProductID).
			Take(&locked).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to lock product: %w", err)
		}

		var err error
		rating, err = s.ratings.Recompute(ctx, tx, review.ProductID, ReviewRemoved{ReviewID: review.ID})
		if err != nil {
			return err
		}

		return retireReview(ctx, tx, review.ID)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	observability.ReviewMutationsTotal.WithLabelValues("removed").Inc()

	ev := events.NewEvent(events.EventTypeReviewRemoved, models.EntityReview, review.ID)
	ev.ProductID = review.ProductID
	ev.ActorID = principal.ID
	s.effects.afterCommit(ctx, ev, events.RatingChanged(review.ProductID, rating.Rating, rating.Count))

	return nil
}

// List returns active reviews in creation order. When productID is given the
// product must exist, active or not.
func (s *ReviewService) List(ctx context.Context, productID *uint64) ([]models.Review, error) {
	query := s.db.WithContext(ctx).Where("status = ?", models.StatusActive)

	if productID != nil {
		var count int64
		if err := s.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", *productID).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			return nil, ErrProductNotFound
		}
		query = query.Where("product_id = ?", *productID)
	}

	reviews := []models.Review{}
	if err := query.Order("created_at ASC").Order("id ASC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	return reviews, nil
}

// ListByProductSlug resolves a product by slug and lists its reviews.
func (s *ReviewService) ListByProductSlug(ctx context.Context, slug string) ([]models.Review, error) {
	var ids []uint64
	if err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("slug = ?", slug).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrProductNotFound
	}
	return s.List(ctx, &ids[0])
}

// retireReview flips an active review to inactive. A review another writer
// already retired reads as not found.
func retireReview(ctx context.Context, tx *gorm.DB, reviewID uint64) error {
	result := tx.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ? AND status = ?", reviewID, models.StatusActive).
		Update("status", models.StatusInactive)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
