// internal/services/visibility.go
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/catalog-backend/internal/models"
)

// VisibilityFilter selects the live catalog: active products with stock in
// an active category.
type VisibilityFilter struct{}

// ListVisible orders by name as stored. An empty scope means catalog-wide.
// No match yields an empty slice, never an error.
func (VisibilityFilter) ListVisible(ctx context.Context, tx *gorm.DB, scope []uint64) ([]models.Product, error) {
	query := tx.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.status = ?", models.StatusActive).
		Where("categories.status = ?", models.StatusActive).
		Where("products.stock > 0")

	if len(scope) > 0 {
		query = query.Where("products.category_id IN ?", scope)
	}

	products := []models.Product{}
	if err := query.Order("products.name ASC").Order("products.id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch visible products: %w", err)
	}

	return products, nil
}
