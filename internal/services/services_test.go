package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskrhq/taskr-backend/internal/config"
	"github.com/taskrhq/taskr-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.RefreshToken{},
		&models.SystemLog{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	}
}

func createUser(t *testing.T, db *gorm.DB, name, email, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTask(t *testing.T, db *gorm.DB, owner *models.User, name string, priority int) *models.Task {
	t.Helper()

	task := &models.Task{
		ID:         uuid.New(),
		Name:       name,
		DueDate:    time.Now().AddDate(0, 0, 7),
		Priority:   priority,
		PostedDate: time.Now(),
		Status:     models.StatusOpen,
		OwnerID:    owner.ID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
