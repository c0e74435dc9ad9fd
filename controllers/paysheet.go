// controllers/paysheet.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"pawtrack-backend/config"
	"pawtrack-backend/models"
	"pawtrack-backend/services"
	"pawtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmitPaysheetInput carries the edited draft lines back from the client
type SubmitPaysheetInput struct {
	StaffID uuid.UUID             `json:"staffId" binding:"required"`
	Lines   []services.SubmitLine `json:"lines" binding:"required,min=1"`
}

// GetPaysheetDraft prices a staff member's unclaimed completed
// appointments as an editable draft
func GetPaysheetDraft(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	staffID, err := uuid.Parse(c.Query("staffId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid staffId")
		return
	}

	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid asOf, expected RFC3339")
			return
		}
		asOf = parsed
	}

	draft, err := svc.Paysheets.CurrentDraft(companyID, staffID, asOf)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// SubmitPaysheet persists a draft as a pending paysheet
func SubmitPaysheet(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	var input SubmitPaysheetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	paysheet, err := svc.Paysheets.Submit(companyID, input.StaffID, input.Lines)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, paysheet)
}

// GetPaysheets retrieves paysheets, optionally filtered by staff or status
func GetPaysheets(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Staff").Where("company_id = ?", companyID)
	if staffID := c.Query("staffId"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var paysheets []models.Paysheet
	if err := query.Order("period_end DESC").Find(&paysheets).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve paysheets")
		return
	}

	c.JSON(http.StatusOK, paysheets)
}

// GetPaysheet retrieves a specific paysheet by ID
func GetPaysheet(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	paysheetID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var paysheet models.Paysheet
	if err := config.DB.Preload("Lines").Preload("Staff").
		Where("company_id = ? AND id = ?", companyID, paysheetID).
		First(&paysheet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Paysheet not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, paysheet)
}

// ApprovePaysheet moves a pending paysheet to approved
func ApprovePaysheet(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	paysheetID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	paysheet, err := svc.Paysheets.Approve(companyID, paysheetID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, paysheet)
}

// MarkPaysheetPaid records payment on an approved paysheet
func MarkPaysheetPaid(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	paysheetID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var input MarkPaidInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	paysheet, err := svc.Paysheets.MarkPaid(companyID, paysheetID, input.Method)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, paysheet)
}
