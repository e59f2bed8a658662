package database

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	Logger "github.com/iamstorage888/Caridad-BPS-Final-1-sub000/pkg/logger"
)

// Models lists every table of the portal in creation order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Household{},
		&models.Resident{},
		&models.Blotter{},
		&models.ArchivedBlotter{},
		&models.IncidentType{},
		&models.DocumentRequest{},
		&models.OperationLog{},
	}
}

// Migrate runs the configured migration mode: "drop" recreates every table,
// anything else only adds missing tables and columns.
func Migrate(db *gorm.DB, mode string) error {
	if mode == "drop" {
		Logger.Warning("running in drop mode, every table will be recreated")
		return DropAndRecreateTables(db)
	}
	return AutoMigrate(db)
}

// AutoMigrate adds missing tables and columns
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	Logger.Info("database migration completed")
	return nil
}

// DropAndRecreateTables drops every portal table and migrates again
func DropAndRecreateTables(db *gorm.DB) error {
	tables := Models()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return AutoMigrate(db)
}

// EnsureAdminExists creates the default admin account when no admin exists.
// It returns true when an account was created.
func EnsureAdminExists(db *gorm.DB, username, password string) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if password == "" {
		return false, fmt.Errorf("no admin account exists and DEFAULT_ADMIN_PASSWORD is not set")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash default admin password: %w", err)
	}
	admin := models.User{
		Username: username,
		Password: string(hashed),
		FullName: "Barangay Administrator",
		Role:     models.RoleAdmin,
		Status:   models.UserStatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("create default admin: %w", err)
	}
	Logger.Info("default admin account %q created", username)
	return true, nil
}
