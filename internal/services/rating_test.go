package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		grades []int
		want   RatingResult
	}{
		{"no reviews", nil, RatingResult{Rating: 0, Count: 0}},
		{"single", []int{5}, RatingResult{Rating: 5.0, Count: 1}},
		{"half", []int{3, 4}, RatingResult{Rating: 3.5, Count: 2}},
		{"rounds down", []int{1, 1, 2}, RatingResult{Rating: 1.3, Count: 3}},
		{"rounds up", []int{1, 2, 2}, RatingResult{Rating: 1.7, Count: 3}},
		{"tie to even below", []int{3, 3, 3, 4}, RatingResult{Rating: 3.2, Count: 4}},
		{"tie to even above", []int{3, 4, 4, 4}, RatingResult{Rating: 3.8, Count: 4}},
		{"tie at zero", []int{0, 0, 0, 1}, RatingResult{Rating: 0.2, Count: 4}},
		{"tie near top", []int{4, 4, 4, 5}, RatingResult{Rating: 4.2, Count: 4}},
		{"zeros", []int{0, 0}, RatingResult{Rating: 0, Count: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aggregate(tt.grades))
		})
	}
}

func TestRecomputeFoldsMutation(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	category := c.mustCategory(t, "Audio", nil)
	product := c.mustProduct(t, "Headphones", category.ID, 3, supplier)
	first := c.mustReview(t, product.ID, 4)
	c.mustReview(t, product.ID, 2)

	var added, removed RatingResult
	err := c.db.Transaction(func(tx *gorm.DB) error {
		var err error
		added, err = RatingAggregator{}.Recompute(ctx, tx, product.ID, ReviewAdded{Grade: 5})
		if err != nil {
			return err
		}
		removed, err = RatingAggregator{}.Recompute(ctx, tx, product.ID, ReviewRemoved{ReviewID: first.ID})
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, RatingResult{Rating: 3.7, Count: 3}, added)
	assert.Equal(t, RatingResult{Rating: 2.0, Count: 1}, removed)

	stored := c.reload(t, product.ID)
	assert.Equal(t, 2.0, stored.Rating)
	assert.Equal(t, int64(1), stored.ReviewCount)
}

func TestLockProductRequiresActiveProduct(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	category := c.mustCategory(t, "Audio", nil)
	product := c.mustProduct(t, "Speaker", category.ID, 3, supplier)

	locked, err := RatingAggregator{}.LockProduct(ctx, c.db, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, locked.ID)

	require.NoError(t, c.products.Deactivate(ctx, product.ID, admin))

	_, err = RatingAggregator{}.LockProduct(ctx, c.db, product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
