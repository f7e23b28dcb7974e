package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Miguel-EMC/clinic-api/internal/models"
)

const doctorListCacheKey = "doctors:list"
const doctorListCacheTTL = 5 * time.Minute

type doctorRequest struct {
	FirstName     string `json:"firstName" binding:"required,max=100"`
	LastName      string `json:"lastName" binding:"required,max=100"`
	Qualification string `json:"qualification" binding:"required,max=120"`
	ContactNumber string `json:"contactNumber" binding:"required,max=20"`
	Email         string `json:"email" binding:"required,email"`
	Address       string `json:"address" binding:"omitempty,max=255"`
	Biography     string `json:"biography" binding:"omitempty,max=5000"`
	IsOnVacation  *bool  `json:"isOnVacation"`
}

// ListDoctors serves the doctor directory, backed by a short-lived cache.
func (h *Handler) ListDoctors(c *gin.Context) {
	if cached, ok := h.Cache.Get(c, doctorListCacheKey); ok {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	doctors := make([]models.Doctor, 0)
	if err := h.DB.WithContext(c).Order("last_name, first_name").Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve doctors"})
		return
	}

	if payload, err := json.Marshal(doctors); err == nil {
		h.Cache.Set(c, doctorListCacheKey, payload, doctorListCacheTTL)
	}

	c.JSON(http.StatusOK, doctors)
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req doctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctor := models.Doctor{
		ID:            uuid.NewString(),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Qualification: req.Qualification,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Address:       req.Address,
		Biography:     req.Biography,
	}
	if req.IsOnVacation != nil {
		doctor.IsOnVacation = *req.IsOnVacation
	}

	if err := h.DB.WithContext(c).Create(&doctor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create doctor"})
		return
	}

	h.Cache.Delete(c, doctorListCacheKey)
	c.JSON(http.StatusCreated, doctor)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	var doctor models.Doctor
	err := h.DB.WithContext(c).First(&doctor, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve doctor"})
		return
	}

	c.JSON(http.StatusOK, doctor)
}

// UpdateDoctor applies a partial update; only the fields present in the body
// change.
func (h *Handler) UpdateDoctor(c *gin.Context) {
	var doctor models.Doctor
	err := h.DB.WithContext(c).First(&doctor, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve doctor"})
		return
	}

	var req struct {
		FirstName     *string `json:"firstName" binding:"omitempty,max=100"`
		LastName      *string `json:"lastName" binding:"omitempty,max=100"`
		Qualification *string `json:"qualification" binding:"omitempty,max=120"`
		ContactNumber *string `json:"contactNumber" binding:"omitempty,max=20"`
		Email         *string `json:"email" binding:"omitempty,email"`
		Address       *string `json:"address" binding:"omitempty,max=255"`
		Biography     *string `json:"biography" binding:"omitempty,max=5000"`
		IsOnVacation  *bool   `json:"isOnVacation"`
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
	if req.Qualification != nil {
		updates["qualification"] = *req.Qualification
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
	if req.Biography != nil {
		updates["biography"] = *req.Biography
	}
	if req.IsOnVacation != nil {
		updates["is_on_vacation"] = *req.IsOnVacation
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.DB.WithContext(c).Model(&doctor).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update doctor"})
		return
	}

	h.Cache.Delete(c, doctorListCacheKey)
	c.JSON(http.StatusOK, doctor)
}

// DeleteDoctor soft-deletes the record.
func (h *Handler) DeleteDoctor(c *gin.Context) {
	result := h.DB.WithContext(c).Delete(&models.Doctor{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete doctor"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}

	h.Cache.Delete(c, doctorListCacheKey)
	c.Status(http.StatusNoContent)
}

// GetDoctorAppointments lists all appointments booked with one doctor.
func (h *Handler) GetDoctorAppointments(c *gin.Context) {
	doctorID := c.Param("id")

	var doctor models.Doctor
	if err := h.DB.WithContext(c).First(&doctor, "id = ?", doctorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}

	appointments := make([]models.Appointment, 0)
	if err := h.DB.WithContext(c).
		Where("doctor_id = ?", doctorID).
		Order("start_time").
		Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointments"})
		return
	}

	c.JSON(http.StatusOK, appointments)
}
