package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/javajoker/catalog-backend/internal/models"
)

func TestCanModifyProduct(t *testing.T) {
	authz := NewAuthorizationService()
	owned := &models.Product{BaseModel: models.BaseModel{ID: 10}, OwnerID: supplier.ID}

	tests := []struct {
		name      string
		principal models.Principal
		allowed   bool
	}{
		{"admin on any product", admin, true},
		{"supplier on own product", supplier, true},
		{"supplier on another's product", otherSupplier, false},
		{"customer", customer, false},
		{"unknown role", models.Principal{ID: supplier.ID, Role: "guest"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.CanModifyProduct(tt.principal, owned)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	authz := NewAuthorizationService()

	assert.NoError(t, authz.RequireRole(customer, models.RoleCustomer))
	assert.NoError(t, authz.RequireRole(admin, models.RoleSupplier, models.RoleAdmin))
	assert.ErrorIs(t, authz.RequireRole(supplier, models.RoleCustomer), ErrForbidden)
	assert.ErrorIs(t, authz.RequireRole(admin, models.RoleCustomer), ErrForbidden)
}
