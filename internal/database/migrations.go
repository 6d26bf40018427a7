package database

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/models"
	"github.com/solvento/hrcore/pkg/logger"
)

// Migrate applies the schema for every model the service persists.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.BusinessGroup{},
		&models.Company{},
		&models.Branch{},
		&models.Position{},
		&models.Department{},
		&models.Employee{},
		&models.UserScope{},
		&models.UserPermission{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// SeedDefaults creates the initial administrator account when no admin user
// exists yet. The credentials come from configuration; the password is never
// stored in the clear.
func SeedDefaults(db *gorm.DB, adminEmail, adminPassword string) error {
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var existing models.User
	err := db.Where("role = ? AND is_deleted = ?", models.RoleAdmin, false).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check for admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    adminEmail,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	admin.IsActive = true

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	logger.WithModule("database").Info("seeded initial admin user")
	return nil
}
