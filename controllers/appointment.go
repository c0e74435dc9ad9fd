// controllers/appointment.go
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

// CreateAppointmentInput defines the expected JSON structure for scheduling
type CreateAppointmentInput struct {
	ClientID        uuid.UUID  `json:"clientId" binding:"required"`
	StaffID         uuid.UUID  `json:"staffId" binding:"required"`
	PetID           *uuid.UUID `json:"petId"`
	ServiceTypeID   uuid.UUID  `json:"serviceTypeId" binding:"required"`
	ScheduledAt     time.Time  `json:"scheduledAt" binding:"required"`
	DurationMinutes int        `json:"durationMinutes" binding:"min=0"`
	Notes           string     `json:"notes"`
}

// CreateAppointment schedules a new appointment
func CreateAppointment(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate client and service type exist in the same company
	var client models.Client
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, input.ClientID).
		First(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
		return
	}
	var serviceType models.ServiceType
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, input.ServiceTypeID).
		First(&serviceType).Error; err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Service type not found")
		return
	}
	var staff models.Staff
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, input.StaffID).
		First(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Staff not found")
		return
	}

	appointment := models.Appointment{
		ID:              uuid.New(),
		CompanyID:       companyID,
		ClientID:        input.ClientID,
		StaffID:         input.StaffID,
		PetID:           input.PetID,
		ServiceTypeID:   input.ServiceTypeID,
		ScheduledAt:     input.ScheduledAt,
		DurationMinutes: input.DurationMinutes,
		Status:          models.AppointmentScheduled,
		Notes:           input.Notes,
	}
	if appointment.DurationMinutes == 0 {
		appointment.DurationMinutes = serviceType.DurationMinutes
	}

	if err := config.DB.Create(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments retrieves appointments, optionally filtered by client,
// staff or status
func GetAppointments(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("ServiceType").Where("company_id = ?", companyID)
	if clientID := c.Query("clientId"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if staffID := c.Query("staffId"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if unbilled := c.Query("unbilled"); unbilled == "true" {
		query = query.Where("invoiced = ?", false)
	}

	var appointments []models.Appointment
	if err := query.Order("scheduled_at DESC").Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// appointmentStatusTransitions is the closed set of permitted moves.
var appointmentStatusTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.AppointmentScheduled:  {models.AppointmentInProgress, models.AppointmentCompleted, models.AppointmentCancelled},
	models.AppointmentInProgress: {models.AppointmentCompleted, models.AppointmentCancelled},
	models.AppointmentCompleted:  {},
	models.AppointmentCancelled:  {},
}

func setAppointmentStatus(c *gin.Context, to models.AppointmentStatus) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	appointmentID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, appointmentID).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	allowed := false
	for _, next := range appointmentStatusTransitions[appointment.Status] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		utils.RespondWithError(c, http.StatusUnprocessableEntity,
			"Cannot move appointment from "+string(appointment.Status)+" to "+string(to))
		return
	}

	if err := config.DB.Model(&appointment).Update("status", to).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}
	appointment.Status = to

	c.JSON(http.StatusOK, appointment)
}

// CompleteAppointment marks an appointment completed, making it eligible
// for invoicing and payroll
func CompleteAppointment(c *gin.Context) {
	setAppointmentStatus(c, models.AppointmentCompleted)
}

// CancelAppointment cancels an appointment
func CancelAppointment(c *gin.Context) {
	setAppointmentStatus(c, models.AppointmentCancelled)
}
