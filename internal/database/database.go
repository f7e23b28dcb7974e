package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Miguel-EMC/clinic-api/internal/models"
)

// Connect opens the Postgres connection and migrates the schema.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.RefreshToken{},
		&models.Doctor{},
		&models.Patient{},
		&models.Appointment{},
		&models.Category{},
		&models.Post{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
