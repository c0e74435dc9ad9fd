// controllers/billing_plan.go
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

// CreateBillingPlanInput defines the expected JSON structure for creating
// a billing plan. An empty service type list makes the discount apply to
// every service.
type CreateBillingPlanInput struct {
	Name            string          `json:"name" binding:"required"`
	DiscountPercent decimal.Decimal `json:"discountPercent" binding:"required"`
	ServiceTypeIDs  []uuid.UUID     `json:"serviceTypeIds"`
}

// CreateBillingPlan creates a billing plan
func CreateBillingPlan(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	var input CreateBillingPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.DiscountPercent.IsNegative() || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		utils.RespondWithError(c, http.StatusBadRequest, "Discount must be between 0 and 100")
		return
	}

	plan := models.BillingPlan{
		ID:              uuid.New(),
		CompanyID:       companyID,
		Name:            input.Name,
		DiscountPercent: input.DiscountPercent.Round(2),
		IsActive:        true,
	}

	if len(input.ServiceTypeIDs) > 0 {
		var serviceTypes []models.ServiceType
		if err := config.DB.Where("company_id = ? AND id IN ?", companyID, input.ServiceTypeIDs).
			Find(&serviceTypes).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if len(serviceTypes) != len(input.ServiceTypeIDs) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown service type in plan")
			return
		}
		plan.ServiceTypes = serviceTypes
	}

	if err := config.DB.Create(&plan).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create billing plan")
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// GetBillingPlans retrieves all billing plans for the company
func GetBillingPlans(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	var plans []models.BillingPlan
	if err := config.DB.Preload("ServiceTypes").
		Where("company_id = ?", companyID).
		Find(&plans).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve billing plans")
		return
	}

	c.JSON(http.StatusOK, plans)
}

// GetBillingPlan retrieves a specific billing plan by ID
func GetBillingPlan(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	planID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var plan models.BillingPlan
	if err := config.DB.Preload("ServiceTypes").
		Where("company_id = ? AND id = ?", companyID, planID).
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Billing plan not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}
