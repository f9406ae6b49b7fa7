package handlers

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"merchant-portal/internal/config"
	"merchant-portal/internal/services/theme"
)

type RevalidateThemeRequest struct {
	Slug string `json:"slug"`
}

// RevalidateTheme is the webhook the CMS calls after a tenant's theme
// changes. Authenticated by a static bearer secret.
func RevalidateTheme(c *fiber.Ctx) error {
	secret := config.AppConfig.Revalidate.Secret
	token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Não autorizado",
		})
	}

	var req RevalidateThemeRequest
	if err := c.BodyParser(&req); err != nil || req.Slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Informe o slug do tenant",
		})
	}

	theme.InvalidateOne(req.Slug)

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Tema revalidado: " + req.Slug,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
