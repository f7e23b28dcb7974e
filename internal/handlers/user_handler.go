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

// GetCurrentUser returns the profile of the authenticated account.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID := c.GetString("userID")

	var user models.User
	err := h.DB.WithContext(c).Preload("Profile").First(&user, "id = ?", userID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateCurrentUser lets a user change their own account fields.
func (h *Handler) UpdateCurrentUser(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		FullName string `json:"fullName" binding:"omitempty,max=120"`
		Phone    string `json:"phone" binding:"omitempty,max=20"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]any{}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	result := h.DB.WithContext(c).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user profile"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// GetProfile returns the extended profile, 404 when none exists yet.
func (h *Handler) GetProfile(c *gin.Context) {
	userID := c.GetString("userID")

	var profile models.Profile
	err := h.DB.WithContext(c).First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

type upsertProfileRequest struct {
	Bio         string `json:"bio" binding:"omitempty,max=2000"`
	AvatarURL   string `json:"avatarUrl" binding:"omitempty,url,max=500"`
	DateOfBirth string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Address     string `json:"address" binding:"omitempty,max=255"`
}

// UpsertProfile creates or updates the one-to-one profile of the caller.
func (h *Handler) UpsertProfile(c *gin.Context) {
	userID := c.GetString("userID")

	var req upsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		t, _ := time.Parse("2006-01-02", req.DateOfBirth)
		dob = &t
	}

	var profile models.Profile
	err := h.DB.WithContext(c).First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{ID: uuid.NewString(), UserID: userID}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	profile.Bio = req.Bio
	profile.AvatarURL = req.AvatarURL
	profile.Address = req.Address
	if dob != nil {
		profile.DateOfBirth = dob
	}

	if err := h.DB.WithContext(c).Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
