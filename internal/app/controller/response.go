package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/service"
	apperrors "github.com/geekcommerce/geek-commerce-backend/internal/errors"
	"github.com/geekcommerce/geek-commerce-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error onto a status and error code.
// Validation is checked first since a dangling reference is both invalid
// input and a missing record.
func respondServiceError(c *gin.Context, err error, resource string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrValidation):
		code := apperrors.ValidationInvalidInput
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			code = apperrors.OrderInvalidStatus
		case errors.Is(err, service.ErrInvalidImageType):
			code = apperrors.UploadInvalidFileType
		}
		log.Warn("Rejected invalid input", map[string]interface{}{
			"resource": resource,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, code, err.Error())

	case errors.Is(err, service.ErrNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, err.Error())

	case errors.Is(err, service.ErrReferenced):
		apperrors.Conflict(c, apperrors.ResourceInUse, err.Error())

	case errors.Is(err, service.ErrConflict):
		code := apperrors.ResourceConflict
		switch {
		case errors.Is(err, service.ErrSlugConflict), errors.Is(err, service.ErrSKUConflict):
			code = apperrors.ResourceAlreadyExists
		case errors.Is(err, service.ErrInvalidStatusTransition):
			code = apperrors.OrderInvalidTransition
		case errors.Is(err, service.ErrOrderNotEditable):
			code = apperrors.OrderNotEditable
		}
		apperrors.Conflict(c, code, err.Error())

	case errors.Is(err, service.ErrStorageUnavailable):
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadFailed, err.Error())

	default:
		log.Error("Request failed", err, map[string]interface{}{
			"resource": resource,
		})
		apperrors.ParseAndRespond(c, err, resource)
	}
}

// parseID reads a numeric path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			"param": param,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+param)
		return 0, false
	}
	return uint(id), true
}

// queryUint parses an optional numeric query parameter.
func queryUint(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid "+key)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, key string) (*bool, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid "+key)
		return nil, false
	}
	return &v, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return false
	}
	return true
}
