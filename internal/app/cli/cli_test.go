package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
)

// useSQLite points the commands at a fresh sqlite file and returns a handle to it.
func useSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DBDriver:             "sqlite",
		DBPath:               filepath.Join(t.TempDir(), "portal.db"),
		DBLogLevel:           "silent",
		DBMigrationMode:      "auto",
		DefaultAdminUsername: "admin",
		DefaultAdminPassword: "admin-pass-123",
	}
	origLoad, origOpen := loadConfig, openDB
	var handle *gorm.DB
	loadConfig = func() (*config.Config, error) { return cfg, nil }
	openDB = func(c *config.Config) (*gorm.DB, error) {
		if handle != nil {
			return handle, nil
		}
		db, err := origOpen(c)
		handle = db
		return db, err
	}
	t.Cleanup(func() {
		loadConfig, openDB = origLoad, origOpen
		if handle != nil {
			if sqlDB, err := handle.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	})

	db, err := openDB(cfg)
	require.NoError(t, err)
	return db
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--env-file", ""}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		migrateDrop = false
		newUsername, newRole, newPassword, newFullName = "", string(models.RoleStaff), "", ""
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestMigrateCreatesTablesAndAdmin(t *testing.T) {
	db := useSQLite(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migration completed.")
	assert.Contains(t, out, `Default admin account "admin" created.`)

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)

	// second run keeps the existing admin
	out, err = run(t, "migrate")
	require.NoError(t, err)
	assert.NotContains(t, out, "created")
}

func TestCreateUser(t *testing.T) {
	db := useSQLite(t)
	_, err := run(t, "migrate")
	require.NoError(t, err)

	out, err := run(t, "create-user", "--username", "  maria ", "--role", "secretary", "--password", "secret-123")
	require.NoError(t, err)
	assert.Contains(t, out, `Created secretary account "maria"`)

	var user models.User
	require.NoError(t, db.Where("username = ?", "maria").First(&user).Error)
	assert.Equal(t, models.RoleSecretary, user.Role)
	assert.NotEqual(t, "secret-123", user.Password)

	_, err = run(t, "create-user", "--username", "maria", "--password", "secret-123")
	assert.Error(t, err)
}

func TestCreateUserNeedsPassword(t *testing.T) {
	useSQLite(t)
	t.Setenv("BPS_USER_PASSWORD", "")

	_, err := run(t, "create-user", "--username", "juan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password is required")
}

func TestCreateUserPasswordFromEnv(t *testing.T) {
	db := useSQLite(t)
	_, err := run(t, "migrate")
	require.NoError(t, err)
	t.Setenv("BPS_USER_PASSWORD", "from-env-123")

	_, err = run(t, "create-user", "--username", "juan")
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.Where("username = ?", "juan").First(&user).Error)
	assert.Equal(t, models.RoleStaff, user.Role)
}

func TestNextHousehold(t *testing.T) {
	db := useSQLite(t)
	_, err := run(t, "migrate")
	require.NoError(t, err)

	out, err := run(t, "next-household")
	require.NoError(t, err)
	assert.Equal(t, "HH-001\n", out)

	require.NoError(t, db.Create(&models.Household{HouseholdNumber: "HH-007", Purok: "1"}).Error)
	out, err = run(t, "next-household")
	require.NoError(t, err)
	assert.Equal(t, "HH-008\n", out)
}

func TestReconcileArchivesStaleBlotters(t *testing.T) {
	db := useSQLite(t)
	_, err := run(t, "migrate")
	require.NoError(t, err)

	stale := models.Blotter{BlotterFields: models.BlotterFields{
		Complainant:  "Ana Cruz",
		Respondent:   "Ben Reyes",
		IncidentType: "Theft",
		IncidentDate: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		Location:     "Purok 2",
		Details:      "bicycle taken",
		Status:       models.BlotterStatusClosed,
	}}
	require.NoError(t, db.Create(&stale).Error)

	out, err := run(t, "reconcile")
	require.NoError(t, err)
	assert.Contains(t, out, "Duplicates removed: 0")
	assert.Contains(t, out, "Archived: 1")

	var active, archived int64
	require.NoError(t, db.Model(&models.Blotter{}).Count(&active).Error)
	require.NoError(t, db.Model(&models.ArchivedBlotter{}).Where("original_id = ?", stale.ID).Count(&archived).Error)
	assert.Zero(t, active)
	assert.Equal(t, int64(1), archived)
}
