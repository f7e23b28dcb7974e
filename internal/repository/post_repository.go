package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Miguel-EMC/clinic-api/internal/models"
)

// PostFilter narrows List results. Zero value lists published posts only.
type PostFilter struct {
	AuthorID       string // restrict to one author
	IncludeDrafts  bool   // only honored together with AuthorID
	Page, PageSize int
}

// PostRepository is the persistence contract for the blog module. The publish
// pipeline is tested against a mock of this interface.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	ByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, f PostFilter) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	ReplaceCategories(ctx context.Context, post *models.Post, categoryIDs []string) error
}

type GormPostRepository struct{ db *gorm.DB }

var _ PostRepository = (*GormPostRepository)(nil)

func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *GormPostRepository) ByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Categories").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormPostRepository) List(ctx context.Context, f PostFilter) ([]models.Post, error) {
	q := r.db.WithContext(ctx).Preload("Categories").Order("created_at DESC")

	if f.AuthorID != "" {
		q = q.Where("author_id = ?", f.AuthorID)
		if !f.IncludeDrafts {
			q = q.Where("published = ?", true)
		}
	} else {
		q = q.Where("published = ?", true)
	}

	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.PageSize).Limit(f.PageSize)
	}

	posts := make([]models.Post, 0)
	err := q.Find(&posts).Error
	return posts, err
}

func (r *GormPostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *GormPostRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error
}

func (r *GormPostRepository) ReplaceCategories(ctx context.Context, post *models.Post, categoryIDs []string) error {
	var categories []models.Category
	if len(categoryIDs) > 0 {
		if err := r.db.WithContext(ctx).Find(&categories, "id IN ?", categoryIDs).Error; err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Model(post).Association("Categories").Replace(&categories)
}
