package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskrhq/taskr-backend/internal/config"
	"github.com/taskrhq/taskr-backend/internal/middleware"
	"github.com/taskrhq/taskr-backend/internal/models"
	"github.com/taskrhq/taskr-backend/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestApp wires the real route table against an in-memory database so
// tests exercise the same middleware chain as production.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
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

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	}

	authHandler := NewAuthHandler(services.NewAuthService(db, cfg))
	taskHandler := NewTaskHandler(services.NewTaskService(db))

	app := fiber.New()
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	tasks := api.Group("/tasks", middleware.JWTProtected(cfg))
	tasks.Get("/", taskHandler.List)
	tasks.Post("/", taskHandler.Create)
	tasks.Post("/:id/complete", taskHandler.Complete)
	tasks.Delete("/:id", taskHandler.Delete)

	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/users", authHandler.ListUsers)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func doJSONArray(t *testing.T, app *fiber.App, method, path, token string) []map[string]interface{} {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return parsed
}

func registerUser(t *testing.T, app *fiber.App, name, email, password string) {
	t.Helper()
	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password, "confirm": password,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func loginUser(t *testing.T, app *fiber.App, name, password string) (accessToken, refreshToken string) {
	t.Helper()
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{
		"name": name, "password": password,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return body["access_token"].(string), body["refresh_token"].(string)
}

// createAdmin writes the user row directly with role=admin; there is no
// promotion endpoint.
func createAdmin(t *testing.T, db *gorm.DB, name string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("allpowerful"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    name + "@realpython.com",
		Password: string(hash),
		Role:     models.RoleAdmin,
	}).Error)
}
