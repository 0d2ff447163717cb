// internal/handlers/category.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/services"
	"github.com/javajoker/catalog-backend/internal/utils"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
	productService  *services.ProductService
}

func NewCategoryHandler(categoryService *services.CategoryService, productService *services.ProductService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		productService:  productService,
	}
}

// GET /categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, i18n.KeyCategoryNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"categories": categories,
	})
}

// POST /categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, i18n.KeyCategoryNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.CreatedResponse(c, gin.H{
		"category": category,
		"message":  i18n.T(lang, i18n.KeyCategoryCreated),
	})
}

// PUT /categories/:slug
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		respondError(c, err, i18n.KeyCategoryNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"category": category,
		"message":  i18n.T(lang, i18n.KeyCategoryUpdated),
	})
}

// DELETE /categories/:slug
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.categoryService.Deactivate(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err, i18n.KeyCategoryNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCategoryDeleted),
	})
}

// GET /categories/:slug/products
func (h *CategoryHandler) GetCategoryProducts(c *gin.Context) {
	products, err := h.productService.ListByCategorySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, i18n.KeyCategoryNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
	})
}
