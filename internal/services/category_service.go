// internal/services/category_service.go
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

type CategoryService struct {
	db        *gorm.DB
	slugs     SlugRegistry
	hierarchy HierarchyResolver
	effects   sideEffects
}

type CategoryRequest struct {
	Name     string  `json:"name" validate:"required,max=50,slugable"`
	ParentID *uint64 `json:"parent_id,omitempty"`
}

func NewCategoryService(db *gorm.DB, publisher events.Publisher, listings cache.ListingCache) *CategoryService {
	return &CategoryService{
		db:      db,
		effects: newSideEffects(publisher, listings),
	}
}

// Create inserts a category, or brings back a soft-deleted one holding the
// same slug with the new name and parent.
func (s *CategoryService) Create(ctx context.Context, req *CategoryRequest) (*models.Category, error) {
	ctx, span := observability.StartSpan(ctx, "CategoryService.Create")
	defer span.End()

	if err := utils.ValidateStruct(req); err != nil {
		return nil, newValidationError(err)
	}

	slug := utils.DeriveSlug(req.Name)
	var category models.Category

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if req.ParentID != nil {
			if err := s.requireActiveCategory(ctx, tx, *req.ParentID); err != nil {
				return err
			}
		}

		reservation, err := s.slugs.Reserve(ctx, tx, models.EntityCategory, slug, 0)
		if err != nil {
			return err
		}

		switch reservation.Outcome {
		case SlugConflict:
			observability.SlugConflictsTotal.WithLabelValues(string(models.EntityCategory)).Inc()
			return conflictf("category with slug %q already exists", slug)

		case SlugReactivatable:
			if err := reclaim(ctx, tx, models.EntityCategory, reservation.ExistingID, slug, map[string]interface{}{
				"name":      req.Name,
				"parent_id": req.ParentID,
			}); err != nil {
				return err
			}
			return tx.WithContext(ctx).First(&category, reservation.ExistingID).Error
		}

		category = models.Category{
			Name:     req.Name,
			Slug:     slug,
			ParentID: req.ParentID,
			Status:   models.StatusActive,
		}
		if err := tx.WithContext(ctx).Create(&category).Error; err != nil {
			return translateWriteError(err, "category", slug)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ev := events.NewEvent(events.EventTypeCategoryCreated, models.EntityCategory, category.ID)
	ev.Slug = category.Slug
	s.effects.afterCommit(ctx, ev)

	logrus.WithFields(logrus.Fields{
		"category_id": category.ID,
		"slug":        category.Slug,
	}).Info("Category created")

	return &category, nil
}

// Update renames and/or re-parents an active category. A parent that would
// place the category beneath itself is rejected.
func (s *CategoryService) Update(ctx context.Context, slug string, req *CategoryRequest) (*models.Category, error) {
	ctx, span := observability.StartSpan(ctx, "CategoryService.Update")
	defer span.End()

	if err := utils.ValidateStruct(req); err != nil {
		return nil, newValidationError(err)
	}

	newSlug := utils.DeriveSlug(req.Name)
	var category models.Category

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Where("slug = ? AND status = ?", slug, models.StatusActive).
			Take(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if req.ParentID != nil {
			if err := s.requireActiveCategory(ctx, tx, *req.ParentID); err != nil {
				return err
			}
			cycle, err := s.hierarchy.IsDescendant(ctx, tx, *req.ParentID, category.ID)
			if err != nil {
				return err
			}
			if cycle {
				return &ValidationError{Fields: map[string]string{"parent_id": "cycle"}}
			}
		}

		if newSlug != category.Slug {
			reservation, err := s.slugs.Reserve(ctx, tx, models.EntityCategory, newSlug, category.ID)
			if err != nil {
				return err
			}
			if reservation.Outcome != SlugFresh {
				observability.SlugConflictsTotal.WithLabelValues(string(models.EntityCategory)).Inc()
				return conflictf("category with slug %q already exists", newSlug)
			}
		}

		if err := tx.WithContext(ctx).
			Model(&category).
			Updates(map[string]interface{}{
				"name":      req.Name,
				"slug":      newSlug,
				"parent_id": req.ParentID,
			}).Error; err != nil {
			return translateWriteError(err, "category", newSlug)
		}

		return tx.WithContext(ctx).First(&category, category.ID).Error
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ev := events.NewEvent(events.EventTypeCategoryUpdated, models.EntityCategory, category.ID)
	ev.Slug = category.Slug
	s.effects.afterCommit(ctx, ev)

	return &category, nil
}

// Deactivate soft-deletes a category. Its products stay active but drop out
// of every visible listing while the category is inactive.
func (s *CategoryService) Deactivate(ctx context.Context, slug string) error {
	ctx, span := observability.StartSpan(ctx, "CategoryService.Deactivate")
	defer span.End()

	var category models.Category
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Where("slug = ? AND status = ?", slug, models.StatusActive).
			Take(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.WithContext(ctx).
			Model(&category).
			Update("status", models.StatusInactive).Error; err != nil {
			return fmt.Errorf("failed to deactivate category: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	observability.CategoriesDeactivatedTotal.Inc()

	ev := events.NewEvent(events.EventTypeCategoryDeactivated, models.EntityCategory, category.ID)
	ev.Slug = category.Slug
	s.effects.afterCommit(ctx, ev)

	return nil
}

// List returns active categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.StatusActive).
		Order("name ASC").
		Order("id ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) requireActiveCategory(ctx context.Context, tx *gorm.DB, id uint64) error {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ? AND status = ?", id, models.StatusActive).
		Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return ErrParentNotFound
	}
	return nil
}

// translateWriteError maps a unique-index violation from a racing writer to
// ErrConflict.
func translateWriteError(err error, entity, slug string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflictf("%s with slug %q already exists", entity, slug)
	}
	return fmt.Errorf("failed to save %s: %w", entity, err)
}
