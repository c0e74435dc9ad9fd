// controllers/report.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"pawtrack-backend/config"
	"pawtrack-backend/models"
	"pawtrack-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetAgingReport partitions open invoices into day-overdue buckets
func GetAgingReport(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid asOf, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	report, err := svc.Aging.ComputeAging(companyID, asOf)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func reportYear(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid year")
		return 0, false
	}
	return year, true
}

// Get1099Report rolls up paid paysheets per staff member for a year
func Get1099Report(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	year, ok := reportYear(c)
	if !ok {
		return
	}

	summaries, err := svc.TaxReport.Report(companyID, year)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "staff": summaries})
}

// Get1099StaffDetail returns one staff member's yearly earnings with the
// underlying paysheets
func Get1099StaffDetail(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	staffID, ok := ParseIDParam(c, "staffId")
	if !ok {
		return
	}
	year, ok := reportYear(c)
	if !ok {
		return
	}

	detail, err := svc.TaxReport.StaffDetail(companyID, staffID, year)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetDeliveryLogs lists invoice delivery attempts
func GetDeliveryLogs(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	query := config.DB.Where("company_id = ?", companyID)
	if invoiceID := c.Query("invoiceId"); invoiceID != "" {
		query = query.Where("invoice_id = ?", invoiceID)
	}

	var logs []models.DeliveryLog
	if err := query.Order("sent_at DESC").Limit(200).Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve delivery logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}
