// internal/services/rating.go
package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/observability"
)

// ReviewMutation is the change a recompute folds in. A nil mutation
// recomputes from the stored review set as is.
type ReviewMutation interface {
	reviewMutation()
}

// ReviewAdded is a review about to be inserted in the same transaction.
type ReviewAdded struct {
	Grade int
}

// ReviewRemoved is an active review about to be deactivated.
type ReviewRemoved struct {
	ReviewID uint64
}

func (ReviewAdded) reviewMutation()   {}
func (ReviewRemoved) reviewMutation() {}

type RatingResult struct {
	Rating float64
	Count  int64
}

var lockForUpdate = clause.Locking{Strength: "UPDATE"}

// RatingAggregator keeps Product.Rating equal to the rounded mean of the
// product's active review grades.
type RatingAggregator struct{}

// LockProduct takes the row lock on an active product that serializes every
// rating recompute for it. Backends without row locks ignore the clause.
func (RatingAggregator) LockProduct(ctx context.Context, tx *gorm.DB, productID uint64) (*models.Product, error) {
	var products []models.Product
	err := tx.WithContext(ctx).
		Clauses(lockForUpdate).
		Where("id = ? AND status = ?", productID, models.StatusActive).
		Limit(1).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}
	return &products[0], nil
}

// Recompute reads the active grades, applies the mutation and writes the new
// rating and count back to the product. Callers hold the product lock.
func (RatingAggregator) Recompute(ctx context.Context, tx *gorm.DB, productID uint64, mutation ReviewMutation) (RatingResult, error) {
	start := time.Now()
	defer func() {
		observability.RatingRecomputeLatency.Observe(time.Since(start).Seconds())
	}()

	query := tx.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ? AND status = ?", productID, models.StatusActive)

	if removed, ok := mutation.(ReviewRemoved); ok {
		query = query.Where("id <> ?", removed.ReviewID)
	}

	var grades []int
	if err := query.Pluck("grade", &grades).Error; err != nil {
		return RatingResult{}, fmt.Errorf("failed to load review grades: %w", err)
	}

	if added, ok := mutation.(ReviewAdded); ok {
		grades = append(grades, added.Grade)
	}

	result := aggregate(grades)

	err := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":       result.Rating,
			"review_count": result.Count,
		}).Error
	if err != nil {
		return RatingResult{}, fmt.Errorf("failed to store product rating: %w", err)
	}

	return result, nil
}

// aggregate computes the mean in tenths with integer arithmetic. A mean lying
// exactly halfway between two tenths rounds to the even tenth, so 3.25 is 3.2
// and 3.35 is 3.4.
func aggregate(grades []int) RatingResult {
	n := int64(len(grades))
	if n == 0 {
		return RatingResult{Rating: 0, Count: 0}
	}

	var sum int64
	for _, g := range grades {
		sum += int64(g)
	}

	tenths, rem := (10*sum)/n, (10*sum)%n
	if 2*rem > n || (2*rem == n && tenths%2 == 1) {
		tenths++
	}
	return RatingResult{Rating: float64(tenths) / 10, Count: n}
}
