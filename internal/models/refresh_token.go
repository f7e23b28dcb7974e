package models

import "time"

// RefreshToken stores only the sha256 of the raw token. On rotation the old
// row is revoked and points at its replacement so reuse of a stale token can
// be detected and the whole family revoked.
type RefreshToken struct {
	ID         string `gorm:"primaryKey;size:36"`
	UserID     string `gorm:"size:36;index"`
	TokenHash  string `gorm:"size:64;uniqueIndex"`
	ExpiresAt  time.Time
	Revoked    bool    `gorm:"default:false"`
	ReplacedBy *string `gorm:"size:36"`
	CreatedAt  time.Time
}
