// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAccessDenied     = "auth.access_denied"

	// Categories
	KeyCategoryCreated     = "category.created"
	KeyCategoryUpdated     = "category.updated"
	KeyCategoryDeleted     = "category.deleted"
	KeyCategoryNotFound    = "category.not_found"
	KeyParentNotFound   = "category.parent_not_found"

	// Products
	KeyProductCreated     = "product.created"
	KeyProductReactivated = "product.reactivated"
	KeyProductUpdated     = "product.updated"
	KeyProductDeleted     = "product.deleted"
	KeyProductNotFound    = "product.not_found"
	KeyProductsEmpty      = "product.empty"
	KeyProductExists      = "product.exists"

	// Reviews
	KeyReviewCreated  = "review.created"
	KeyReviewDeleted  = "review.deleted"
	KeyReviewNotFound = "review.not_found"
	KeyReviewsEmpty   = "review.empty"

	// Generic
	KeyNotFound          = "generic.not_found"
	KeyConflict          = "generic.conflict"
	KeyValidationInvalid = "validation.invalid"
	KeyRateLimited       = "generic.rate_limited"
	KeyInternalError     = "generic.internal_error"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
)
