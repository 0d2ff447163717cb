// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/services"
	"github.com/javajoker/catalog-backend/internal/utils"
)

// respondError maps a core error to its HTTP envelope. notFoundKey names the
// message for lookups that miss.
func respondError(c *gin.Context, err error, notFoundKey string) {
	lang := utils.GetLangFromContext(c)

	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.ValidationErrorResponse(c, ve.Fields)
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, "", err.Error())
	case errors.Is(err, services.ErrParentNotFound):
		// The parent is part of the request body, so a missing one is the
		// client's input error rather than a missing resource.
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyParentNotFound), nil)
	case errors.Is(err, services.ErrCategoryNotFound):
		utils.NotFoundResponse(c, i18n.KeyCategoryNotFound)
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
	case errors.Is(err, services.ErrReviewNotFound):
		utils.NotFoundResponse(c, i18n.KeyReviewNotFound)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, notFoundKey)
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, "")
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": utils.GetRequestIDFromContext(c),
		}).Error("Request failed")
		utils.InternalErrorResponse(c)
	}
}

// bindJSON binds the body and answers 400 itself when it cannot.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
	}
	return p, ok
}
