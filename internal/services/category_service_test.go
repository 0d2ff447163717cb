package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/catalog-backend/internal/events"
	"github.com/javajoker/catalog-backend/internal/models"
)

func TestCategoryCreate(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	electronics, err := c.categories.Create(ctx, &CategoryRequest{Name: "Electronics"})
	require.NoError(t, err)
	assert.Equal(t, "electronics", electronics.Slug)
	assert.Nil(t, electronics.ParentID)
	assert.Equal(t, models.StatusActive, electronics.Status)

	phones, err := c.categories.Create(ctx, &CategoryRequest{Name: "Mobile Phones", ParentID: &electronics.ID})
	require.NoError(t, err)
	assert.Equal(t, "mobile-phones", phones.Slug)
	require.NotNil(t, phones.ParentID)
	assert.Equal(t, electronics.ID, *phones.ParentID)

	assert.Equal(t, []events.EventType{events.EventTypeCategoryCreated, events.EventTypeCategoryCreated}, c.publisher.types())
}

func TestCategoryCreateRejectsMissingParent(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.categories.Create(context.Background(), &CategoryRequest{Name: "Orphan", ParentID: ptr(999)})
	assert.ErrorIs(t, err, ErrParentNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, c.db.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, c.publisher.types())
}

func TestCategoryCreateConflictsOnActiveSlug(t *testing.T) {
	c := newTestCatalog(t)
	c.mustCategory(t, "Phone Case", nil)

	_, err := c.categories.Create(context.Background(), &CategoryRequest{Name: "phone case"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCategoryCreateReactivatesSoftDeleted(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	parent := c.mustCategory(t, "Home", nil)
	old := c.mustCategory(t, "Garden", nil)
	require.NoError(t, c.categories.Deactivate(ctx, old.Slug))

	revived, err := c.categories.Create(ctx, &CategoryRequest{Name: "GARDEN", ParentID: &parent.ID})
	require.NoError(t, err)
	assert.Equal(t, old.ID, revived.ID)
	assert.Equal(t, "GARDEN", revived.Name)
	assert.Equal(t, models.StatusActive, revived.Status)
	require.NotNil(t, revived.ParentID)
	assert.Equal(t, parent.ID, *revived.ParentID)
}

func TestCategoryCreateValidatesName(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	_, err := c.categories.Create(ctx, &CategoryRequest{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "required", validationFields(t, err)["name"])

	_, err = c.categories.Create(ctx, &CategoryRequest{Name: "!!!"})
	assert.Equal(t, "slugable", validationFields(t, err)["name"])

	_, err = c.categories.Create(ctx, &CategoryRequest{Name: strings.Repeat("x", 51)})
	assert.Equal(t, "max", validationFields(t, err)["name"])

	_, err = c.categories.Create(ctx, &CategoryRequest{Name: strings.Repeat("x", 50)})
	assert.NoError(t, err)
}

func TestCategoryUpdate(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	electronics := c.mustCategory(t, "Electronics", nil)
	c.mustCategory(t, "Books", nil)
	gadgets := c.mustCategory(t, "Gadgets", nil)

	updated, err := c.categories.Update(ctx, "gadgets", &CategoryRequest{Name: "Smart Gadgets", ParentID: &electronics.ID})
	require.NoError(t, err)
	assert.Equal(t, gadgets.ID, updated.ID)
	assert.Equal(t, "smart-gadgets", updated.Slug)
	require.NotNil(t, updated.ParentID)
	assert.Equal(t, electronics.ID, *updated.ParentID)

	// Same name keeps its own slug.
	_, err = c.categories.Update(ctx, "smart-gadgets", &CategoryRequest{Name: "Smart gadgets"})
	require.NoError(t, err)

	_, err = c.categories.Update(ctx, "smart-gadgets", &CategoryRequest{Name: "Books"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = c.categories.Update(ctx, "missing", &CategoryRequest{Name: "Whatever"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = c.categories.Update(ctx, "books", &CategoryRequest{Name: "Books", ParentID: ptr(999)})
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestCategoryUpdateConflictsWithInactiveHolder(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	c.mustCategory(t, "Toys", nil)
	require.NoError(t, c.categories.Deactivate(ctx, "toys"))
	c.mustCategory(t, "Games", nil)

	_, err := c.categories.Update(ctx, "games", &CategoryRequest{Name: "Toys"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCategoryUpdateRejectsCycle(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	root := c.mustCategory(t, "Root", nil)
	child := c.mustCategory(t, "Child", &root.ID)

	_, err := c.categories.Update(ctx, "root", &CategoryRequest{Name: "Root", ParentID: &child.ID})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "cycle", validationFields(t, err)["parent_id"])

	_, err = c.categories.Update(ctx, "root", &CategoryRequest{Name: "Root", ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCategoryDeactivateAndList(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	c.mustCategory(t, "Toys", nil)
	c.mustCategory(t, "Audio", nil)
	c.mustCategory(t, "Books", nil)

	require.NoError(t, c.categories.Deactivate(ctx, "books"))
	assert.ErrorIs(t, c.categories.Deactivate(ctx, "books"), ErrCategoryNotFound)
	assert.ErrorIs(t, c.categories.Deactivate(ctx, "nope"), ErrNotFound)

	categories, err := c.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Audio", categories[0].Name)
	assert.Equal(t, "Toys", categories[1].Name)
}
