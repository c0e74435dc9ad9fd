// controllers/service_type.go
package controllers

import (
	"errors"
	"net/http"

	"pawtrack-backend/config"
	"pawtrack-backend/models"
	"pawtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateServiceTypeInput defines the expected JSON structure for creating a service type
type CreateServiceTypeInput struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	ClientPrice     decimal.Decimal `json:"clientPrice" binding:"required"`
	StaffEarnings   decimal.Decimal `json:"staffEarnings" binding:"required"`
	DurationMinutes int             `json:"durationMinutes" binding:"min=0"`
	Category        string          `json:"category"`
}

// UpdateServiceTypeInput defines the expected JSON structure for updating a service type
type UpdateServiceTypeInput struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	ClientPrice     *decimal.Decimal `json:"clientPrice"`
	StaffEarnings   *decimal.Decimal `json:"staffEarnings"`
	DurationMinutes *int             `json:"durationMinutes"`
	Category        *string          `json:"category"`
	IsActive        *bool            `json:"isActive"`
}

// CreateServiceType creates a new service type for the company
func CreateServiceType(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	var input CreateServiceTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.ClientPrice.IsNegative() || input.StaffEarnings.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Rates cannot be negative")
		return
	}

	serviceType := models.ServiceType{
		ID:              uuid.New(),
		CompanyID:       companyID,
		Name:            input.Name,
		Description:     input.Description,
		ClientPrice:     input.ClientPrice.Round(2),
		StaffEarnings:   input.StaffEarnings.Round(2),
		DurationMinutes: input.DurationMinutes,
		Category:        input.Category,
		IsActive:        true,
	}

	if err := config.DB.Create(&serviceType).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service type")
		return
	}

	c.JSON(http.StatusCreated, serviceType)
}

// GetServiceTypes retrieves all service types for the company
func GetServiceTypes(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	var serviceTypes []models.ServiceType
	if err := config.DB.Where("company_id = ?", companyID).
		Find(&serviceTypes).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve service types")
		return
	}

	c.JSON(http.StatusOK, serviceTypes)
}

// GetServiceType retrieves a specific service type by ID
func GetServiceType(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	serviceTypeID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var serviceType models.ServiceType
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, serviceTypeID).
		First(&serviceType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service type not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, serviceType)
}

// UpdateServiceType updates an existing service type
func UpdateServiceType(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	serviceTypeID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateServiceTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var serviceType models.ServiceType
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, serviceTypeID).
		First(&serviceType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service type not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		serviceType.Name = *input.Name
	}
	if input.Description != nil {
		serviceType.Description = *input.Description
	}
	if input.ClientPrice != nil {
		if input.ClientPrice.IsNegative() {
			utils.RespondWithError(c, http.StatusBadRequest, "Rates cannot be negative")
			return
		}
		serviceType.ClientPrice = input.ClientPrice.Round(2)
	}
	if input.StaffEarnings != nil {
		if input.StaffEarnings.IsNegative() {
			utils.RespondWithError(c, http.StatusBadRequest, "Rates cannot be negative")
			return
		}
		serviceType.StaffEarnings = input.StaffEarnings.Round(2)
	}
	if input.DurationMinutes != nil {
		serviceType.DurationMinutes = *input.DurationMinutes
	}
	if input.Category != nil {
		serviceType.Category = *input.Category
	}
	if input.IsActive != nil {
		serviceType.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&serviceType).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service type")
		return
	}

	c.JSON(http.StatusOK, serviceType)
}
