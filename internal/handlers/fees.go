package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
)

func GetFeePlans(c *fiber.Ctx) error {
	var plans []models.FeePlan
	if err := database.DB.Preload("Rates").Order("created_at desc").Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(plans)
}

type FeeRateRequest struct {
	PaymentType      string          `json:"payment_type"`
	CardBrand        string          `json:"card_brand"`
	Installments     int             `json:"installments"`
	MDRPercent       decimal.Decimal `json:"mdr_percent"`
	AnticipationRate decimal.Decimal `json:"anticipation_rate"`
}

type FeePlanRequest struct {
	Name   string           `json:"name"`
	Tenant string           `json:"tenant"`
	Rates  []FeeRateRequest `json:"rates"`
}

func CreateFeePlan(c *fiber.Ctx) error {
	var req FeePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nome do plano é obrigatório",
		})
	}
	for _, r := range req.Rates {
		if r.PaymentType == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Tipo de pagamento é obrigatório em cada taxa",
			})
		}
		if r.MDRPercent.IsNegative() || r.AnticipationRate.IsNegative() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Taxas não podem ser negativas",
			})
		}
	}

	plan := models.FeePlan{
		Name:   req.Name,
		Tenant: req.Tenant,
		Active: true,
	}
	for _, r := range req.Rates {
		installments := r.Installments
		if installments <= 0 {
			installments = 1
		}
		plan.Rates = append(plan.Rates, models.FeeRate{
			PaymentType:      r.PaymentType,
			CardBrand:        r.CardBrand,
			Installments:     installments,
			MDRPercent:       r.MDRPercent,
			AnticipationRate: r.AnticipationRate,
		})
	}

	if err := database.DB.Create(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func DeleteFeePlan(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var inUse int64
	database.DB.Model(&models.Merchant{}).Where("fee_plan_id = ?", id).Count(&inUse)
	if inUse > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Plano em uso por estabelecimentos ativos",
		})
	}

	if err := database.DB.Delete(&models.FeePlan{}, id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"success": true})
}
