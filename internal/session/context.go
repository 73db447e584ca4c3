// Package session extracts the authenticated identity for the current
// request from JWT claims stored in Fiber locals. Core operations take the
// actor as an explicit parameter instead of reading this ambient state, so
// everything downstream of a handler stays testable in isolation.
package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskrhq/taskr-backend/internal/authz"
	"github.com/taskrhq/taskr-backend/internal/models"
)

// CurrentActor extracts the acting user's id and role from JWT claims in
// context. Returns an error when the request carries no valid session.
func CurrentActor(c *fiber.Ctx) (authz.Actor, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return authz.Actor{}, errors.New("no session in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authz.Actor{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return authz.Actor{}, errors.New("missing sub claim")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return authz.Actor{}, err
	}

	role := models.Role(fallbackRole(claims))
	if !role.Valid() {
		return authz.Actor{}, errors.New("unknown role claim")
	}

	return authz.Actor{ID: userID, Role: role}, nil
}

func fallbackRole(claims jwt.MapClaims) string {
	if role, ok := claims["role"].(string); ok && role != "" {
		return role
	}
	return string(models.RoleUser)
}
