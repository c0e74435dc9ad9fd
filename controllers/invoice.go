// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"pawtrack-backend/config"
	"pawtrack-backend/models"
	"pawtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerateInvoiceInput defines the expected JSON structure for generating
// an invoice over a billing period
type GenerateInvoiceInput struct {
	ClientID    uuid.UUID `json:"clientId" binding:"required"`
	PeriodStart time.Time `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time `json:"periodEnd" binding:"required"`
}

// ManualInvoiceInput defines the expected JSON structure for invoicing an
// explicit set of appointments
type ManualInvoiceInput struct {
	ClientID       uuid.UUID   `json:"clientId" binding:"required"`
	AppointmentIDs []uuid.UUID `json:"appointmentIds" binding:"required,min=1"`
}

// AutoGenerateInput selects the billing cycle to run
type AutoGenerateInput struct {
	Cycle models.BillingCycle `json:"cycle" binding:"required,oneof=daily weekly monthly"`
}

// MarkPaidInput records how an invoice was paid
type MarkPaidInput struct {
	Method string `json:"method" binding:"required"`
}

// GenerateInvoice bills a client's unbilled completed appointments for a period
func GenerateInvoice(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	var input GenerateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.PeriodEnd.Before(input.PeriodStart) {
		utils.RespondWithError(c, http.StatusBadRequest, "Period end before period start")
		return
	}

	invoice, err := svc.Invoices.GenerateInvoice(companyID, input.ClientID, input.PeriodStart, input.PeriodEnd)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GenerateManualInvoice bills an explicit set of appointments
func GenerateManualInvoice(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	var input ManualInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoice, err := svc.Invoices.GenerateManualInvoice(companyID, input.ClientID, input.AppointmentIDs)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// AutoGenerateInvoices runs one auto-generate batch for a billing cycle
func AutoGenerateInvoices(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	var input AutoGenerateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	summary, err := svc.Invoices.AutoGenerate(companyID, input.Cycle)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetInvoices retrieves invoices, optionally filtered by client or status
func GetInvoices(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Appointments").Preload("Client").
		Where("company_id = ?", companyID)
	if clientID := c.Query("clientId"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []models.Invoice
	if err := query.Order("created_at DESC").Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice by ID
func GetInvoice(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	invoiceID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Appointments.ServiceType").Preload("Client").
		Where("company_id = ? AND id = ?", companyID, invoiceID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// ApproveInvoice marks an invoice review-approved
func ApproveInvoice(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	invoiceID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := svc.Workflow.Approve(companyID, invoiceID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// SendInvoiceEmail delivers an invoice by email
func SendInvoiceEmail(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	invoiceID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := svc.Workflow.SendEmail(companyID, invoiceID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// SendInvoiceSMS delivers an invoice by SMS
func SendInvoiceSMS(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	invoiceID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := svc.Workflow.SendSMS(companyID, invoiceID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// MassSendInvoices sends every approved-but-unsent invoice
func MassSendInvoices(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	summary, err := svc.Workflow.MassSend(companyID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// MarkInvoicePaid records payment on an invoice
func MarkInvoicePaid(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	invoiceID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var input MarkPaidInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoice, err := svc.Workflow.MarkPaid(companyID, invoiceID, input.Method)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice deletes an invoice and releases its appointments
func DeleteInvoice(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	invoiceID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := svc.Workflow.Delete(companyID, invoiceID); err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// ResetClientInvoiced releases all of a client's invoiced appointments.
// Destructive admin escape hatch; the action is audit-logged.
func ResetClientInvoiced(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	userID, ok := UserID(c)
	if !ok {
		return
	}
	clientID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	released, err := svc.Invoices.ResetInvoiced(companyID, clientID, userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointmentsReleased": released})
}
