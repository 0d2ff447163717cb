// internal/services/authorization_service.go
package services

import (
	"fmt"

	"github.com/javajoker/catalog-backend/internal/models"
)

// AuthorizationService holds the ownership and role rules the core enforces
// once the gate has authenticated a principal.
type AuthorizationService struct{}

func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// CanModifyProduct allows admins on any product and suppliers on their own.
func (s *AuthorizationService) CanModifyProduct(principal models.Principal, product *models.Product) error {
	switch principal.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleSupplier:
		if product != nil && product.OwnerID == principal.ID {
			return nil
		}
		return fmt.Errorf("%w: product %d belongs to another supplier", ErrForbidden, productID(product))
	}
	return fmt.Errorf("%w: role %q cannot modify products", ErrForbidden, principal.Role)
}

func (s *AuthorizationService) RequireRole(principal models.Principal, roles ...models.Role) error {
	if principal.Is(roles...) {
		return nil
	}
	return fmt.Errorf("%w: role %q not permitted", ErrForbidden, principal.Role)
}

func productID(p *models.Product) uint64 {
	if p == nil {
		return 0
	}
	return p.ID
}
