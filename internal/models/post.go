package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	AuthorID      string         `gorm:"size:36;index" json:"authorId"`
	Title         string         `gorm:"size:200" json:"title"`
	Content       string         `gorm:"type:text" json:"content"`
	Summary       string         `gorm:"type:text" json:"summary"`
	CoverImageURL string         `gorm:"size:500" json:"coverImageUrl"`
	Published     bool           `gorm:"default:false;index" json:"published"`
	PublishedAt   *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Author     User       `gorm:"foreignKey:AuthorID" json:"-"`
	Categories []Category `gorm:"many2many:post_categories" json:"categories"`
}

type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
