// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/catalog-backend/internal/cache"
	"github.com/javajoker/catalog-backend/internal/database"
	"github.com/javajoker/catalog-backend/internal/events"
	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/observability"
	"github.com/javajoker/catalog-backend/internal/utils"
)

type ProductService struct {
	db                   *gorm.DB
	authorizationService *AuthorizationService
	slugs                SlugRegistry
	hierarchy            HierarchyResolver
	visibility           VisibilityFilter
	ratings              RatingAggregator
	effects              sideEffects
}

// ProductRequest carries the full writable field set. Updates replace every
// field.
type ProductRequest struct {
	Name        string `json:"name" validate:"required,max=50,slugable"`
	Description string `json:"description" validate:"max=5000"`
	Price       int64  `json:"price" validate:"gte=0"`
	ImageURL    string `json:"image_url" validate:"omitempty,max=512"`
	Stock       int    `json:"stock"`
	CategoryID  uint64 `json:"category_id" validate:"required"`
}

func NewProductService(db *gorm.DB, authorizationService *AuthorizationService, publisher events.Publisher, listings cache.ListingCache) *ProductService {
	if authorizationService == nil {
		authorizationService = NewAuthorizationService()
	}
	return &ProductService{
		db:                   db,
		authorizationService: authorizationService,
		effects:              newSideEffects(publisher, listings),
	}
}

// CreateOrReactivate inserts a product, or overwrites a soft-deleted product
// holding the same slug and flips it back to active under the same id. The
// reactivated rating is recomputed from whatever active reviews it still has.
func (s *ProductService) CreateOrReactivate(ctx context.Context, req *ProductRequest, ownerID uint64) (*models.Product, bool, error) {
	ctx, span := observability.StartSpan(ctx, "ProductService.CreateOrReactivate")
	defer span.End()

	if err := utils.ValidateStruct(req); err != nil {
		return nil, false, newValidationError(err)
	}

	slug := utils.DeriveSlug(req.Name)
	var (
		product     models.Product
		reactivated bool
	)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := requireCategory(ctx, tx, req.CategoryID); err != nil {
			return err
		}

		reservation, err := s.slugs.Reserve(ctx, tx, models.EntityProduct, slug, 0)
		if err != nil {
			return err
		}

		switch reservation.Outcome {
		case SlugConflict:
			observability.SlugConflictsTotal.WithLabelValues(string(models.EntityProduct)).Inc()
			return conflictf("product with slug %q already exists", slug)

		case SlugReactivatable:
			reactivated = true
			if err := reclaim(ctx, tx, models.EntityProduct, reservation.ExistingID, slug, productColumns(req, map[string]interface{}{
				"owner_id": ownerID,
			})); err != nil {
				return err
			}
			if _, err := s.ratings.Recompute(ctx, tx, reservation.ExistingID, nil); err != nil {
				return err
			}
			return tx.WithContext(ctx).First(&product, reservation.ExistingID).Error
		}

		product = models.Product{
			Name:        req.Name,
			Slug:        slug,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Stock:       req.Stock,
			Rating:      0,
			Status:      models.StatusActive,
			CategoryID:  req.CategoryID,
			OwnerID:     ownerID,
		}
		if err := tx.WithContext(ctx).Create(&product).Error; err != nil {
			return translateWriteError(err, "product", slug)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, false, err
	}

	mode, eventType := "created", events.EventTypeProductCreated
	if reactivated {
		mode, eventType = "reactivated", events.EventTypeProductReactivated
	}
	observability.ProductsCreatedTotal.WithLabelValues(mode).Inc()

	ev := events.NewEvent(eventType, models.EntityProduct, product.ID)
	ev.Slug = product.Slug
	ev.ProductID = product.ID
	ev.ActorID = ownerID
	s.effects.afterCommit(ctx, ev)

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"slug":       product.Slug,
		"owner_id":   ownerID,
		"mode":       mode,
	}).Info("Product saved")

	return &product, reactivated, nil
}

// Update replaces the fields of an active product. Renames recompute the
// slug; any other record holding the new slug is a conflict.
func (s *ProductService) Update(ctx context.Context, slug string, req *ProductRequest, principal models.Principal) (*models.Product, error) {
	ctx, span := observability.StartSpan(ctx, "ProductService.Update")
	defer span.End()

	if err := utils.ValidateStruct(req); err != nil {
		return nil, newValidationError(err)
	}

	newSlug := utils.DeriveSlug(req.Name)
	var product models.Product

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Where("slug = ? AND status = ?", slug, models.StatusActive).
			Take(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := s.authorizationService.CanModifyProduct(principal, &product); err != nil {
			return err
		}

		if req.CategoryID != product.CategoryID {
			if err := requireCategory(ctx, tx, req.CategoryID); err != nil {
				return err
			}
		}

		if newSlug != product.Slug {
			reservation, err := s.slugs.Reserve(ctx, tx, models.EntityProduct, newSlug, product.ID)
			if err != nil {
				return err
			}
			if reservation.Outcome != SlugFresh {
				observability.SlugConflictsTotal.WithLabelValues(string(models.EntityProduct)).Inc()
				return conflictf("product with slug %q already exists", newSlug)
			}
		}

		if err := tx.WithContext(ctx).
			Model(&product).
			Updates(productColumns(req, map[string]interface{}{"slug": newSlug})).Error; err != nil {
			return translateWriteError(err, "product", newSlug)
		}

		return tx.WithContext(ctx).First(&product, product.ID).Error
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ev := events.NewEvent(events.EventTypeProductUpdated, models.EntityProduct, product.ID)
	ev.Slug = product.Slug
	ev.ProductID = product.ID
	ev.ActorID = principal.ID
	s.effects.afterCommit(ctx, ev)

	return &product, nil
}

// Deactivate soft-deletes an active product. Its reviews are kept.
func (s *ProductService) Deactivate(ctx context.Context, id uint64, principal models.Principal) error {
	ctx, span := observability.StartSpan(ctx, "ProductService.Deactivate")
	defer span.End()

	var product models.Product
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Where("id = ? AND status = ?", id, models.StatusActive).
			Take(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := s.authorizationService.CanModifyProduct(principal, &product); err != nil {
			return err
		}

		if err := tx.WithContext(ctx).
			Model(&product).
			Update("status", models.StatusInactive).Error; err != nil {
			return fmt.Errorf("failed to deactivate product: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	observability.ProductsDeactivatedTotal.Inc()

	ev := events.NewEvent(events.EventTypeProductDeactivated, models.EntityProduct, product.ID)
	ev.Slug = product.Slug
	ev.ProductID = product.ID
	ev.ActorID = principal.ID
	s.effects.afterCommit(ctx, ev)

	return nil
}

// List returns the visible products, restricted to scope when it is
// non-empty. Results are served from the listing cache when possible.
func (s *ProductService) List(ctx context.Context, scope []uint64) ([]models.Product, error) {
	ctx, span := observability.StartSpan(ctx, "ProductService.List")
	defer span.End()

	cached, ok, err := s.effects.listings.GetProducts(ctx, scope)
	switch {
	case err != nil:
		observability.ListingCacheRequests.WithLabelValues("error").Inc()
		logrus.WithError(err).Warn("Listing cache lookup failed")
	case ok:
		observability.ListingCacheRequests.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		observability.ListingCacheRequests.WithLabelValues("miss").Inc()
	}

	products, err := s.visibility.ListVisible(ctx, s.db, scope)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.effects.listings.SetProducts(ctx, scope, products); err != nil {
		logrus.WithError(err).Warn("Failed to store listing in cache")
	}

	return products, nil
}

// ListByCategorySlug lists the visible products of a category and all of its
// descendants.
func (s *ProductService) ListByCategorySlug(ctx context.Context, slug string) ([]models.Product, error) {
	scope, err := s.hierarchy.ExpandBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, scopeIDs(scope))
}

// ListByCategory is ListByCategorySlug keyed by id.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID uint64) ([]models.Product, error) {
	scope, err := s.hierarchy.Expand(ctx, s.db, categoryID)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, scopeIDs(scope))
}

// GetBySlug returns an active product regardless of stock or category state.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, models.StatusActive).
		Take(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func productColumns(req *ProductRequest, extra map[string]interface{}) map[string]interface{} {
	columns := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"price":       req.Price,
		"image_url":   req.ImageURL,
		"stock":       req.Stock,
		"category_id": req.CategoryID,
	}
	for k, v := range extra {
		columns[k] = v
	}
	return columns
}

func requireCategory(ctx context.Context, tx *gorm.DB, id uint64) error {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ? AND status = ?", id, models.StatusActive).
		Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
