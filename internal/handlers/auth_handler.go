package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Miguel-EMC/clinic-api/internal/models"
	"github.com/Miguel-EMC/clinic-api/internal/utils"
)

type RegisterUserRequest struct {
	FullName string `json:"fullName" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=patient doctor staff"`
	Phone    string `json:"phone" binding:"required,max=20"`
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RolePatient
	}

	user := models.User{
		ID:       uuid.NewString(),
		FullName: req.FullName,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     role,
		Phone:    req.Phone,
	}

	var existing models.User
	if err := h.DB.WithContext(c).First(&existing, "email = ?", req.Email).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}

	if err := h.DB.WithContext(c).Create(&user).Error; err != nil {
		log.Printf("RegisterUser: create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User
	err := h.DB.WithContext(c).First(&user, "email = ?", loginReq.Email).Error
	if err != nil || !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	refresh, err := h.issueRefreshToken(c, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"token": token, "refreshToken": refresh, "user": user})
}

// Refresh rotates the refresh token and issues a fresh access token. A revoked
// token presented here means the raw token leaked, so the whole family is
// revoked.
func (h *Handler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var rt models.RefreshToken
	err := h.DB.WithContext(c).First(&rt, "token_hash = ?", utils.HashRefreshToken(req.RefreshToken)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	if rt.Revoked {
		h.revokeAllTokens(c, rt.UserID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	if time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired"})
		return
	}

	var user models.User
	if err := h.DB.WithContext(c).First(&user, "id = ?", rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	newRaw, newHash, err := utils.GenerateRefreshToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}
	newID := uuid.NewString()

	// rotate: revoke old, insert replacement, link them
	err = h.DB.WithContext(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).
			Updates(map[string]any{"revoked": true, "replaced_by": newID}).Error; err != nil {
			return err
		}
		return tx.Create(&models.RefreshToken{
			ID:        newID,
			UserID:    rt.UserID,
			TokenHash: newHash,
			ExpiresAt: time.Now().Add(h.RefreshTTL),
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "refreshToken": newRaw})
}

// Logout revokes every refresh token of the authenticated user.
func (h *Handler) Logout(c *gin.Context) {
	userID := c.GetString("userID")
	h.revokeAllTokens(c, userID)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) issueRefreshToken(c *gin.Context, userID string) (string, error) {
	raw, hash, err := utils.GenerateRefreshToken()
	if err != nil {
		return "", err
	}
	err = h.DB.WithContext(c).Create(&models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(h.RefreshTTL),
	}).Error
	if err != nil {
		return "", err
	}
	return raw, nil
}

func (h *Handler) revokeAllTokens(c *gin.Context, userID string) {
	if err := h.DB.WithContext(c).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error; err != nil {
		log.Printf("Failed to revoke refresh tokens for user %s: %v", userID, err)
	}
}
