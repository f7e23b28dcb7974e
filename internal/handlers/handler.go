package handlers

import (
	"time"

	"gorm.io/gorm"

	"github.com/Miguel-EMC/clinic-api/internal/cache"
	"github.com/Miguel-EMC/clinic-api/internal/repository"
	"github.com/Miguel-EMC/clinic-api/internal/services"
)

// Handler carries the shared dependencies for every route.
type Handler struct {
	DB              *gorm.DB
	Cache           *cache.Cache
	NotificationSvc *services.NotificationService
	Posts           *services.PostService
	Categories      repository.CategoryRepository

	RefreshTTL time.Duration
	startedAt  time.Time
}

func NewHandler(db *gorm.DB, c *cache.Cache, notificationSvc *services.NotificationService,
	posts *services.PostService, categories repository.CategoryRepository, refreshTTL time.Duration) *Handler {
	return &Handler{
		DB:              db,
		Cache:           c,
		NotificationSvc: notificationSvc,
		Posts:           posts,
		Categories:      categories,
		RefreshTTL:      refreshTTL,
		startedAt:       time.Now(),
	}
}
