package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/taskrhq/taskr-backend/internal/config"
	"github.com/taskrhq/taskr-backend/internal/dto"
	"github.com/taskrhq/taskr-backend/internal/models"
	"github.com/taskrhq/taskr-backend/internal/session"
	"gorm.io/gorm"
)

// AdminRequired checks, in order:
// 1. Config-based admin names/IDs
// 2. The user's Role column in the DB (the JWT role claim alone is not
//    trusted for admin surfaces)
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminNames := parseCSV(cfg.AdminNames)
	adminUserIDs := parseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		actor, err := session.CurrentActor(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminUserIDs, actor.ID.String()) {
			return c.Next()
		}

		var user models.User
		if err := db.First(&user, "id = ?", actor.ID).Error; err == nil {
			if user.Role == models.RoleAdmin || contains(adminNames, user.Name) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
