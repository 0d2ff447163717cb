package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/catalog-backend/internal/models"
)

func TestExpandIncludesEveryDescendant(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	electronics := c.mustCategory(t, "Electronics", nil)
	phones := c.mustCategory(t, "Phones", &electronics.ID)
	smartphones := c.mustCategory(t, "Smartphones", &phones.ID)
	laptops := c.mustCategory(t, "Laptops", &electronics.ID)
	books := c.mustCategory(t, "Books", nil)

	scope, err := HierarchyResolver{}.Expand(ctx, c.db, electronics.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{electronics.ID, phones.ID, smartphones.ID, laptops.ID}, scopeIDs(scope))
	assert.NotContains(t, scope, books.ID)

	scope, err = HierarchyResolver{}.Expand(ctx, c.db, smartphones.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{smartphones.ID}, scopeIDs(scope))
}

func TestExpandRejectsMissingOrInactiveRoot(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	_, err := HierarchyResolver{}.Expand(ctx, c.db, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	garden := c.mustCategory(t, "Garden", nil)
	require.NoError(t, c.categories.Deactivate(ctx, garden.Slug))

	_, err = HierarchyResolver{}.Expand(ctx, c.db, garden.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = HierarchyResolver{}.ExpandBySlug(ctx, c.db, "garden")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestExpandTerminatesOnCyclicParents(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	a := c.mustCategory(t, "Alpha", nil)
	b := c.mustCategory(t, "Beta", &a.ID)

	// Corrupt the tree directly; the service layer refuses to build cycles.
	require.NoError(t, c.db.Model(&models.Category{}).Where("id = ?", a.ID).Update("parent_id", b.ID).Error)

	scope, err := HierarchyResolver{}.Expand(ctx, c.db, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{a.ID, b.ID}, scopeIDs(scope))
}

func TestIsDescendant(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	root := c.mustCategory(t, "Root", nil)
	child := c.mustCategory(t, "Child", &root.ID)
	grandchild := c.mustCategory(t, "Grandchild", &child.ID)

	ok, err := HierarchyResolver{}.IsDescendant(ctx, c.db, grandchild.ID, root.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HierarchyResolver{}.IsDescendant(ctx, c.db, root.ID, grandchild.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
