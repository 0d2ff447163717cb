package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

// CatalogFlowSuite walks a product through its whole lifecycle.
type CatalogFlowSuite struct {
	suite.Suite
	catalog *testCatalog
	ctx     context.Context
}

func (s *CatalogFlowSuite) SetupTest() {
	s.catalog = newTestCatalog(s.T())
	s.ctx = context.Background()
}

func (s *CatalogFlowSuite) TestLifecycle() {
	c := s.catalog

	electronics, err := c.categories.Create(s.ctx, &CategoryRequest{Name: "Electronics"})
	s.Require().NoError(err)

	phone, reactivated, err := c.products.CreateOrReactivate(s.ctx, &ProductRequest{
		Name: "Phone", Price: 49900, Stock: 3, CategoryID: electronics.ID,
	}, supplier.ID)
	s.Require().NoError(err)
	s.False(reactivated)

	listed, err := c.products.ListByCategorySlug(s.ctx, "electronics")
	s.Require().NoError(err)
	s.Equal([]string{"Phone"}, names(listed))

	c.mustReview(s.T(), phone.ID, 5)
	s.Equal(5.0, c.reload(s.T(), phone.ID).Rating)

	s.Require().NoError(c.products.Deactivate(s.ctx, phone.ID, supplier))

	listed, err = c.products.List(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(listed)

	again, reactivated, err := c.products.CreateOrReactivate(s.ctx, &ProductRequest{
		Name: "phone", Price: 39900, Stock: 1, CategoryID: electronics.ID,
	}, supplier.ID)
	s.Require().NoError(err)
	s.True(reactivated)
	s.Equal(phone.ID, again.ID)

	listed, err = c.products.List(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal([]string{"phone"}, names(listed))

	s.Require().NoError(c.categories.Deactivate(s.ctx, "electronics"))

	listed, err = c.products.List(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(listed)

	// The product itself is still addressable by slug.
	_, err = c.products.GetBySlug(s.ctx, "phone")
	s.NoError(err)
}

func TestCatalogFlowSuite(t *testing.T) {
	suite.Run(t, new(CatalogFlowSuite))
}
