package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
)

func GetTerminals(c *fiber.Ctx) error {
	q := database.DB.Order("created_at desc")
	if merchantID := c.Query("merchant_id"); merchantID != "" {
		q = q.Where("merchant_id = ?", merchantID)
	}

	var terminals []models.Terminal
	if err := q.Limit(200).Find(&terminals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(terminals)
}

type TerminalRequest struct {
	MerchantID   uint   `json:"merchant_id"`
	LogicalID    string `json:"logical_id"`
	SerialNumber string `json:"serial_number"`
	Model        string `json:"model"`
	CaptureMode  string `json:"capture_mode"`
}

func CreateTerminal(c *fiber.Ctx) error {
	var req TerminalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}
	if req.MerchantID == 0 || req.LogicalID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Estabelecimento e identificador lógico são obrigatórios",
		})
	}

	var merchant models.Merchant
	if err := database.DB.First(&merchant, req.MerchantID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Estabelecimento não encontrado",
		})
	}

	terminal := models.Terminal{
		MerchantID:   req.MerchantID,
		LogicalID:    req.LogicalID,
		SerialNumber: req.SerialNumber,
		Model:        req.Model,
		CaptureMode:  req.CaptureMode,
		Active:       true,
	}
	if err := database.DB.Create(&terminal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(terminal)
}

type TerminalToggleRequest struct {
	Active bool `json:"active"`
}

func ToggleTerminal(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var req TerminalToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}

	result := database.DB.Model(&models.Terminal{}).Where("id = ?", id).Update("active", req.Active)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": result.Error.Error(),
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Terminal não encontrado",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

func DeleteTerminal(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}
	if err := database.DB.Delete(&models.Terminal{}, id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"success": true})
}
