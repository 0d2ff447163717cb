package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/javajoker/catalog-backend/internal/cache"
	"github.com/javajoker/catalog-backend/internal/database"
	"github.com/javajoker/catalog-backend/internal/events"
	"github.com/javajoker/catalog-backend/internal/models"
)

var (
	admin         = models.Principal{ID: 1, Role: models.RoleAdmin}
	supplier      = models.Principal{ID: 2, Role: models.RoleSupplier}
	otherSupplier = models.Principal{ID: 3, Role: models.RoleSupplier}
	customer      = models.Principal{ID: 4, Role: models.RoleCustomer}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evs ...events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evs...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

// memoryListingCache is a map-backed cache that records invalidations.
type memoryListingCache struct {
	mu            sync.Mutex
	entries       map[string][]models.Product
	invalidations int
}

func newMemoryListingCache() *memoryListingCache {
	return &memoryListingCache{entries: map[string][]models.Product{}}
}

func scopeKey(scope []uint64) string {
	return fmt.Sprint(scope)
}

func (c *memoryListingCache) GetProducts(_ context.Context, scope []uint64) ([]models.Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	products, ok := c.entries[scopeKey(scope)]
	return products, ok, nil
}

func (c *memoryListingCache) SetProducts(_ context.Context, scope []uint64, products []models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[scopeKey(scope)] = products
	return nil
}

func (c *memoryListingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]models.Product{}
	c.invalidations++
	return nil
}

var _ cache.ListingCache = (*memoryListingCache)(nil)

type testCatalog struct {
	db         *gorm.DB
	publisher  *recordingPublisher
	listings   *memoryListingCache
	categories *CategoryService
	products   *ProductService
	reviews    *ReviewService
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), "silent")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func newTestCatalog(t *testing.T) *testCatalog {
	t.Helper()
	db := openTestDB(t)
	publisher := &recordingPublisher{}
	listings := newMemoryListingCache()
	authz := NewAuthorizationService()

	return &testCatalog{
		db:         db,
		publisher:  publisher,
		listings:   listings,
		categories: NewCategoryService(db, publisher, listings),
		products:   NewProductService(db, authz, publisher, listings),
		reviews:    NewReviewService(db, authz, publisher, listings),
	}
}

func (c *testCatalog) mustCategory(t *testing.T, name string, parentID *uint64) *models.Category {
	t.Helper()
	category, err := c.categories.Create(context.Background(), &CategoryRequest{Name: name, ParentID: parentID})
	require.NoError(t, err)
	return category
}

func (c *testCatalog) mustProduct(t *testing.T, name string, categoryID uint64, stock int, owner models.Principal) *models.Product {
	t.Helper()
	product, _, err := c.products.CreateOrReactivate(context.Background(), &ProductRequest{
		Name:       name,
		Price:      1000,
		Stock:      stock,
		CategoryID: categoryID,
	}, owner.ID)
	require.NoError(t, err)
	return product
}

func (c *testCatalog) mustReview(t *testing.T, productID uint64, g int) *models.Review {
	t.Helper()
	review, err := c.reviews.Add(context.Background(), &AddReviewRequest{ProductID: productID, Grade: grade(g)}, customer)
	require.NoError(t, err)
	return review
}

func (c *testCatalog) reload(t *testing.T, productID uint64) models.Product {
	t.Helper()
	var product models.Product
	require.NoError(t, c.db.First(&product, productID).Error)
	return product
}

func grade(g int) *int { return &g }

func ptr(id uint64) *uint64 { return &id }

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
	return ve.Fields
}
