// controllers/common.go
package controllers

import (
	"errors"
	"net/http"

	"pawtrack-backend/services"
	"pawtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var svc *services.Registry

// Init hands the service registry to the handlers. Called once from main
// before the router starts.
func Init(registry *services.Registry) {
	svc = registry
}

// CompanyID extracts the authenticated company from the request context
func CompanyID(c *gin.Context) (uuid.UUID, bool) {
	companyID, exists := c.Get("companyId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Company ID not found in context")
		return uuid.Nil, false
	}
	raw, ok := companyID.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid company ID claim")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid company ID format")
		return uuid.Nil, false
	}
	return id, true
}

// UserID extracts the authenticated user from the request context
func UserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	raw, ok := userID.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID claim")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return id, true
}

// ParseIDParam parses a uuid path parameter
func ParseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// RespondServiceError maps the service error taxonomy to HTTP codes
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrStaleDraft):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrNothingToBill),
		errors.Is(err, services.ErrEmptyDraft),
		errors.Is(err, services.ErrUnknownServiceType):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDeliveryNotConfigured),
		errors.Is(err, services.ErrDeliveryFailed):
		utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal error")
	}
}
