package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
	"merchant-portal/internal/services/theme"
)

func GetThemes(c *fiber.Ctx) error {
	var themes []models.TenantTheme
	if err := database.DB.Order("subdomain asc").Find(&themes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(themes)
}

// GetCurrentTheme resolves the theme for the request's subdomain through
// the cache, falling back to default tokens.
func GetCurrentTheme(c *fiber.Ctx) error {
	tenant, _ := c.Locals("tenant").(string)

	t, err := theme.GetByTenant(tenant)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if t == nil {
		return c.JSON(fiber.Map{
			"subdomain":       tenant,
			"display_name":    "Portal",
			"primary_color":   models.DefaultPrimaryColor,
			"secondary_color": models.DefaultSecondaryColor,
		})
	}
	return c.JSON(t)
}

type ThemeRequest struct {
	Subdomain      string `json:"subdomain"`
	DisplayName    string `json:"display_name"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	LogoURL        string `json:"logo_url"`
}

func CreateTheme(c *fiber.Ctx) error {
	var req ThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}
	if req.Subdomain == "" || req.DisplayName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Subdomínio e nome são obrigatórios",
		})
	}

	t := models.TenantTheme{
		Subdomain:      req.Subdomain,
		DisplayName:    req.DisplayName,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		LogoURL:        req.LogoURL,
	}
	if err := database.DB.Create(&t).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	theme.InvalidateOne(t.Subdomain)
	return c.Status(fiber.StatusCreated).JSON(t)
}

func UpdateTheme(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var t models.TenantTheme
	if err := database.DB.First(&t, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Tema não encontrado",
		})
	}

	var req ThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}

	if req.DisplayName != "" {
		t.DisplayName = req.DisplayName
	}
	t.PrimaryColor = req.PrimaryColor
	t.SecondaryColor = req.SecondaryColor
	t.LogoURL = req.LogoURL

	if err := database.DB.Save(&t).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	theme.InvalidateOne(t.Subdomain)
	return c.JSON(t)
}

func DeleteTheme(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var t models.TenantTheme
	if err := database.DB.First(&t, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Tema não encontrado",
		})
	}

	if err := database.DB.Delete(&t).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	theme.InvalidateOne(t.Subdomain)
	return c.JSON(fiber.Map{"success": true})
}
