// controllers/client.go
package controllers

import (
	"errors"
	"net/http"

	"pawtrack-backend/config"
	"pawtrack-backend/models"
	"pawtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateClientInput defines the expected JSON structure for creating a client
type CreateClientInput struct {
	Name          string              `json:"name" binding:"required"`
	Phone         string              `json:"phone" binding:"required"`
	Email         *string             `json:"email"`
	Address       string              `json:"address"`
	Notes         string              `json:"notes"`
	BillingPlanID *uuid.UUID          `json:"billingPlanId"`
	BillingCycle  models.BillingCycle `json:"billingCycle" binding:"omitempty,oneof=daily weekly monthly"`
}

// UpdateClientInput defines the expected JSON structure for updating a client
type UpdateClientInput struct {
	Name          *string              `json:"name"`
	Phone         *string              `json:"phone"`
	Email         *string              `json:"email"`
	Address       *string              `json:"address"`
	Notes         *string              `json:"notes"`
	BillingPlanID *uuid.UUID           `json:"billingPlanId"`
	BillingCycle  *models.BillingCycle `json:"billingCycle" binding:"omitempty,oneof=daily weekly monthly"`
	IsActive      *bool                `json:"isActive"`
}

// CreatePetInput defines the expected JSON structure for adding a pet
type CreatePetInput struct {
	Name    string `json:"name" binding:"required"`
	Species string `json:"species"`
	Breed   string `json:"breed"`
	Notes   string `json:"notes"`
}

// CreateClient creates a new client for the company
func CreateClient(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	userID, ok := UserID(c)
	if !ok {
		return
	}

	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate phone format
	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if phone already exists for this company
	var existingClient models.Client
	if err := config.DB.Where("company_id = ? AND phone = ?", companyID, input.Phone).
		First(&existingClient).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Client with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	client := models.Client{
		ID:              uuid.New(),
		CompanyID:       companyID,
		CreatedByUserID: userID,
		Name:            input.Name,
		Phone:           input.Phone,
		Address:         input.Address,
		Notes:           input.Notes,
		BillingPlanID:   input.BillingPlanID,
		IsActive:        true,
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.BillingCycle != "" {
		client.BillingCycle = input.BillingCycle
	}

	if err := config.DB.Create(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients retrieves all clients for the company
func GetClients(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}

	var clients []models.Client
	if err := config.DB.Preload("Pets").Preload("BillingPlan").
		Where("company_id = ?", companyID).
		Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClient retrieves a specific client by ID
func GetClient(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	clientID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := config.DB.Preload("Pets").Preload("BillingPlan.ServiceTypes").
		Where("company_id = ? AND id = ?", companyID, clientID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient updates an existing client
func UpdateClient(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	clientID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, clientID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		client.Phone = *input.Phone
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.Notes != nil {
		client.Notes = *input.Notes
	}
	if input.BillingPlanID != nil {
		client.BillingPlanID = input.BillingPlanID
	}
	if input.BillingCycle != nil {
		client.BillingCycle = *input.BillingCycle
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, client)
}

// AddPet adds a pet to a client
func AddPet(c *gin.Context) {
	companyID, ok := CompanyID(c)
	if !ok {
		return
	}
	clientID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var input CreatePetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.Where("company_id = ? AND id = ?", companyID, clientID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	pet := models.Pet{
		ID:       uuid.New(),
		ClientID: client.ID,
		Name:     input.Name,
		Species:  input.Species,
		Breed:    input.Breed,
		Notes:    input.Notes,
		IsActive: true,
	}
	if pet.Species == "" {
		pet.Species = "dog"
	}

	if err := config.DB.Create(&pet).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create pet")
		return
	}

	c.JSON(http.StatusCreated, pet)
}
