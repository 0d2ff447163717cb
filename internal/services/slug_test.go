package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/catalog-backend/internal/models"
)

func TestReserveOutcomes(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	registry := SlugRegistry{}

	electronics := c.mustCategory(t, "Electronics", nil)
	phone := c.mustProduct(t, "Phone", electronics.ID, 5, supplier)

	res, err := registry.Reserve(ctx, c.db, models.EntityProduct, "tablet", 0)
	require.NoError(t, err)
	assert.Equal(t, SlugFresh, res.Outcome)

	res, err = registry.Reserve(ctx, c.db, models.EntityProduct, "phone", 0)
	require.NoError(t, err)
	assert.Equal(t, Reservation{Outcome: SlugConflict, ExistingID: phone.ID}, res)

	// The record being renamed never collides with itself.
	res, err = registry.Reserve(ctx, c.db, models.EntityProduct, "phone", phone.ID)
	require.NoError(t, err)
	assert.Equal(t, SlugFresh, res.Outcome)

	require.NoError(t, c.products.Deactivate(ctx, phone.ID, supplier))

	res, err = registry.Reserve(ctx, c.db, models.EntityProduct, "phone", 0)
	require.NoError(t, err)
	assert.Equal(t, Reservation{Outcome: SlugReactivatable, ExistingID: phone.ID}, res)

	// Kinds have separate namespaces.
	res, err = registry.Reserve(ctx, c.db, models.EntityCategory, "phone", 0)
	require.NoError(t, err)
	assert.Equal(t, SlugFresh, res.Outcome)
}

func TestReserveRejectsUnsluggedKind(t *testing.T) {
	c := newTestCatalog(t)

	_, err := SlugRegistry{}.Reserve(context.Background(), c.db, models.EntityReview, "x", 0)
	assert.Error(t, err)
}

func TestSlugOutcomeString(t *testing.T) {
	assert.Equal(t, "fresh", SlugFresh.String())
	assert.Equal(t, "reactivatable", SlugReactivatable.String())
	assert.Equal(t, "conflict", SlugConflict.String())
}

func TestReclaimRefusesRecordReactivatedSinceReserve(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	electronics := c.mustCategory(t, "Electronics", nil)
	phone := c.mustProduct(t, "Phone", electronics.ID, 5, supplier)
	require.NoError(t, c.products.Deactivate(ctx, phone.ID, supplier))

	stale, err := SlugRegistry{}.Reserve(ctx, c.db, models.EntityProduct, "phone", 0)
	require.NoError(t, err)
	require.Equal(t, SlugReactivatable, stale.Outcome)

	// Another writer takes the record back before the stale reservation is used.
	_, reactivated, err := c.products.CreateOrReactivate(ctx, &ProductRequest{Name: "Phone", Stock: 1, CategoryID: electronics.ID}, otherSupplier.ID)
	require.NoError(t, err)
	require.True(t, reactivated)

	err = reclaim(ctx, c.db, models.EntityProduct, stale.ExistingID, "phone", map[string]interface{}{"owner_id": supplier.ID})
	assert.ErrorIs(t, err, ErrConflict)

	var stored models.Product
	require.NoError(t, c.db.First(&stored, phone.ID).Error)
	assert.Equal(t, otherSupplier.ID, stored.OwnerID)
	assert.Equal(t, models.StatusActive, stored.Status)

	books := c.mustCategory(t, "Books", nil)
	err = reclaim(ctx, c.db, models.EntityCategory, books.ID, "books", map[string]interface{}{"name": "Books"})
	assert.ErrorIs(t, err, ErrConflict)
}
