package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/catalog-backend/internal/models"
)

func TestListingKeyNormalizesScope(t *testing.T) {
	assert.Equal(t, "catalog:g0:products:all", listingKey(0, nil))
	assert.Equal(t, "catalog:g3:products:1,2,5", listingKey(3, []uint64{5, 1, 2, 5}))
	assert.Equal(t, listingKey(1, []uint64{2, 1}), listingKey(1, []uint64{1, 2}))
	assert.NotEqual(t, listingKey(1, []uint64{1}), listingKey(2, []uint64{1}))
}

func TestListingKeyDoesNotMutateScope(t *testing.T) {
	scope := []uint64{3, 1, 2}
	listingKey(0, scope)
	assert.Equal(t, []uint64{3, 1, 2}, scope)
}

func TestNopListingCacheNeverHits(t *testing.T) {
	var c ListingCache = NopListingCache{}
	ctx := context.Background()

	require.NoError(t, c.SetProducts(ctx, nil, []models.Product{{Name: "Phone"}}))
	_, hit, err := c.GetProducts(ctx, nil)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(ctx))
}
