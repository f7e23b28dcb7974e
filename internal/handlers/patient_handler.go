package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Miguel-EMC/clinic-api/internal/models"
)

type patientRequest struct {
	FirstName      string `json:"firstName" binding:"required,max=100"`
	LastName       string `json:"lastName" binding:"required,max=100"`
	DateOfBirth    string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	ContactNumber  string `json:"contactNumber" binding:"required,max=20"`
	Email          string `json:"email" binding:"required,email"`
	Address        string `json:"address" binding:"omitempty,max=255"`
	MedicalHistory string `json:"medicalHistory" binding:"omitempty,max=10000"`
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients := make([]models.Patient, 0)
	if err := h.DB.WithContext(c).Order("last_name, first_name").Find(&patients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patients"})
		return
	}

	c.JSON(http.StatusOK, patients)
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient := models.Patient{
		ID:             uuid.NewString(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		ContactNumber:  req.ContactNumber,
		Email:          req.Email,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
	}
	if req.DateOfBirth != "" {
		dob, _ := time.Parse("2006-01-02", req.DateOfBirth)
		patient.DateOfBirth = &dob
	}

	if err := h.DB.WithContext(c).Create(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create patient"})
		return
	}

	c.JSON(http.StatusCreated, patient)
}

// GetPatient returns one record. Staff and doctors see any patient, a patient
// account only its own record.
func (h *Handler) GetPatient(c *gin.Context) {
	var patient models.Patient
	err := h.DB.WithContext(c).First(&patient, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patient"})
		return
	}

	if c.GetString("userRole") == models.RolePatient && patient.UserID != c.GetString("userID") {
		// hide other patients' records, same response as a missing one
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	c.JSON(http.StatusOK, patient)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var patient models.Patient
	err := h.DB.WithContext(c).First(&patient, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patient"})
		return
	}

	var req struct {
		FirstName      *string `json:"firstName" binding:"omitempty,max=100"`
		LastName       *string `json:"lastName" binding:"omitempty,max=100"`
		DateOfBirth    *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
		ContactNumber  *string `json:"contactNumber" binding:"omitempty,max=20"`
		Email          *string `json:"email" binding:"omitempty,email"`
		Address        *string `json:"address" binding:"omitempty,max=255"`
		MedicalHistory *string `json:"medicalHistory" binding:"omitempty,max=10000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]any{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.DateOfBirth != nil {
		dob, _ := time.Parse("2006-01-02", *req.DateOfBirth)
		updates["date_of_birth"] = dob
	}
	if req.ContactNumber != nil {
		updates["contact_number"] = *req.ContactNumber
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.MedicalHistory != nil {
		updates["medical_history"] = *req.MedicalHistory
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.DB.WithContext(c).Model(&patient).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update patient"})
		return
	}

	c.JSON(http.StatusOK, patient)
}

// DeletePatient soft-deletes the record.
func (h *Handler) DeletePatient(c *gin.Context) {
	result := h.DB.WithContext(c).Delete(&models.Patient{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete patient"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
