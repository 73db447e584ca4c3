package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Fletcher",
		"email":    "fletcher@realpython.com",
		"password": "python101",
		"confirm":  "python101",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Thanks for registering. Please login.", body["message"])
}

func TestRegisterFieldErrors(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Fletcher",
		"email":    "fletcher@realpython.com",
		"password": "python101",
		"confirm":  "",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	fields, ok := body["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "This field is required.", fields["confirm"])
}

func TestRegisterDuplicate(t *testing.T) {
	app, _ := setupTestApp(t)
	registerUser(t, app, "Fletcher", "fletcher@realpython.com", "python101")

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Fletcher",
		"email":    "fletcher@realpython.com",
		"password": "python101",
		"confirm":  "python101",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Oh no! That username and/or email already exist. Please try again.", body["message"])
}

func TestLoginEndpoint(t *testing.T) {
	app, _ := setupTestApp(t)
	registerUser(t, app, "Fletcher", "fletcher@realpython.com", "python101")

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{
		"name": "Fletcher", "password": "python101",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "You are logged in. Enjoy!", body["message"])
	assert.NotEmpty(t, body["access_token"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, _ := setupTestApp(t)
	registerUser(t, app, "Fletcher", "fletcher@realpython.com", "python101")

	// Never-registered name and wrong password yield the same message.
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{
		"name": "foo", "password": "bar",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid username or password.", body["message"])

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{
		"name": "Fletcher", "password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid username or password.", body["message"])
}

func TestLogoutAfterLogin(t *testing.T) {
	app, _ := setupTestApp(t)
	registerUser(t, app, "Fletcher", "fletcher@realpython.com", "python101")
	access, refresh := loginUser(t, app, "Fletcher", "python101")

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/logout", access, map[string]string{
		"refresh_token": refresh,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "You are logged out. Bye. :(", body["message"])

	// A mutation attempt with no credentials behaves as unauthenticated.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/tasks/", "", map[string]interface{}{
		"name": "Go to the bank", "due_date": "2026-09-05", "priority": 1,
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutWithoutSessionEmitsNoConfirmation(t *testing.T) {
	app, _ := setupTestApp(t)

	// No token at all: unauthorized, no goodbye.
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/logout", "", map[string]string{
		"refresh_token": "whatever",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.NotEqual(t, "You are logged out. Bye. :(", body["message"])

	// Valid access token but no live refresh session: silent no-op.
	registerUser(t, app, "Fletcher", "fletcher@realpython.com", "python101")
	access, refresh := loginUser(t, app, "Fletcher", "python101")
	_, _ = doJSON(t, app, fiber.MethodPost, "/api/auth/logout", access, map[string]string{
		"refresh_token": refresh,
	})

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/auth/logout", access, map[string]string{
		"refresh_token": refresh,
	})
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, body)
}

func TestAdminUsersEndpointRequiresAdmin(t *testing.T) {
	app, db := setupTestApp(t)
	registerUser(t, app, "Fletcher", "fletcher@realpython.com", "python101")
	access, _ := loginUser(t, app, "Fletcher", "python101")

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/admin/users", access, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin access required", body["message"])

	createAdmin(t, db, "Superman")
	adminAccess, _ := loginUser(t, app, "Superman", "allpowerful")

	users := doJSONArray(t, app, fiber.MethodGet, "/api/admin/users", adminAccess)
	assert.Len(t, users, 2)
}
