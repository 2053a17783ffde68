package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/caresync/caresync/internal/config"
	"github.com/caresync/caresync/internal/models"
	"github.com/caresync/caresync/internal/vault"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.HealthRecord{},
		&models.RecordAccess{},
		&models.Appointment{},
		&models.AccessLog{},
		&models.HealthMetric{},
	))
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-secret",
		JWTAccessExpiry:      30 * time.Minute,
		MaxFileSize:          1 << 20,
		AuditLogDefaultLimit: 100,
	}
}

func newTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	key, err := vault.GenerateKey()
	require.NoError(t, err)
	v, err := vault.New(key, 1<<20)
	require.NoError(t, err)
	return v
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password-123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		FullName:     "Test " + username,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
