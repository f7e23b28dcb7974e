package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Miguel-EMC/clinic-api/internal/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id string) error
}

type GormCategoryRepository struct{ db *gorm.DB }

var _ CategoryRepository = (*GormCategoryRepository)(nil)

func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *GormCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}
