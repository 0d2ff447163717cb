// internal/handlers/product.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/services"
	"github.com/javajoker/catalog-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
	}
}

// GET /products
//
// Repeated category_id parameters restrict the listing to exactly those
// categories. An empty catalog-wide listing answers 404.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var scope []uint64
	for _, raw := range c.QueryArray("category_id") {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "category_id"), nil)
			return
		}
		scope = append(scope, id)
	}

	products, err := h.productService.List(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err, i18n.KeyProductNotFound)
		return
	}

	if len(products) == 0 && len(scope) == 0 {
		utils.NotFoundResponse(c, i18n.KeyProductsEmpty)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
	})
}

// GET /products/:slug
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, i18n.KeyProductNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req services.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, reactivated, err := h.productService.CreateOrReactivate(c.Request.Context(), &req, p.ID)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			utils.ConflictResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyProductExists))
			return
		}
		respondError(c, err, i18n.KeyProductNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	message := i18n.T(lang, i18n.KeyProductCreated)
	if reactivated {
		message = i18n.T(lang, i18n.KeyProductReactivated)
	}

	utils.CreatedResponse(c, gin.H{
		"product":     product,
		"reactivated": reactivated,
		"message":     message,
	})
}

// PUT /products/:slug
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req services.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("slug"), &req, p)
	if err != nil {
		respondError(c, err, i18n.KeyProductNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"product": product,
		"message": i18n.T(lang, i18n.KeyProductUpdated),
	})
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	p, ok := principal(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	if err := h.productService.Deactivate(c.Request.Context(), id, p); err != nil {
		respondError(c, err, i18n.KeyProductNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// POST /products/images
func (h *ProductHandler) UploadProductImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if _, ok := principal(c); !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), "no images uploaded")
		return
	}

	uploaded := make([]*services.UploadResult, 0, len(files))
	rejected := make([]string, 0)

	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			rejected = append(rejected, fileHeader.Filename)
			continue
		}

		result, err := h.storageService.UploadProductImage(c.Request.Context(), file, fileHeader.Size)
		file.Close()

		if err != nil {
			if !errors.Is(err, services.ErrValidation) {
				logrus.WithError(err).WithField("filename", fileHeader.Filename).Error("Failed to store product image")
			}
			rejected = append(rejected, fileHeader.Filename)
			continue
		}

		uploaded = append(uploaded, result)
	}

	if len(uploaded) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), gin.H{"rejected": rejected})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyFileUploadSuccess),
		"images":   uploaded,
		"rejected": rejected,
	})
}
