package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
)

func GetMerchants(c *fiber.Ctx) error {
	q := database.DB.Order("created_at desc")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if tenant := c.Query("tenant"); tenant != "" {
		q = q.Where("tenant = ?", tenant)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("legal_name LIKE ? OR trade_name LIKE ? OR document LIKE ?", like, like, like)
	}

	var merchants []models.Merchant
	if err := q.Limit(200).Find(&merchants).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(merchants)
}

func GetMerchant(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var merchant models.Merchant
	if err := database.DB.Preload("Terminals").First(&merchant, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Estabelecimento não encontrado",
		})
	}
	return c.JSON(merchant)
}

type MerchantRequest struct {
	LegalName string `json:"legal_name"`
	TradeName string `json:"trade_name"`
	Document  string `json:"document"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	MCC       string `json:"mcc"`
	Tenant    string `json:"tenant"`
	FeePlanID *uint  `json:"fee_plan_id"`
}

func CreateMerchant(c *fiber.Ctx) error {
	var req MerchantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}
	if req.LegalName == "" || req.Document == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Razão social e documento são obrigatórios",
		})
	}

	merchant := models.Merchant{
		LegalName: req.LegalName,
		TradeName: req.TradeName,
		Document:  req.Document,
		Email:     req.Email,
		Phone:     req.Phone,
		MCC:       req.MCC,
		Tenant:    req.Tenant,
		FeePlanID: req.FeePlanID,
		Status:    models.MerchantPending,
	}
	if err := database.DB.Create(&merchant).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(merchant)
}

func UpdateMerchant(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var merchant models.Merchant
	if err := database.DB.First(&merchant, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Estabelecimento não encontrado",
		})
	}

	var req MerchantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}

	merchant.LegalName = req.LegalName
	merchant.TradeName = req.TradeName
	merchant.Email = req.Email
	merchant.Phone = req.Phone
	merchant.MCC = req.MCC
	merchant.FeePlanID = req.FeePlanID

	if err := database.DB.Save(&merchant).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(merchant)
}

type MerchantStatusRequest struct {
	Status string `json:"status"`
}

// SetMerchantStatus moves a merchant through the onboarding pipeline.
func SetMerchantStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var req MerchantStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}

	switch req.Status {
	case models.MerchantApproved, models.MerchantRejected, models.MerchantBlocked, models.MerchantPending:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status inválido: " + req.Status,
		})
	}

	var merchant models.Merchant
	if err := database.DB.First(&merchant, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Estabelecimento não encontrado",
		})
	}

	merchant.Status = req.Status
	if req.Status == models.MerchantApproved {
		now := time.Now()
		merchant.ApprovedAt = &now
	}

	if err := database.DB.Save(&merchant).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	logActivity(c, c.Locals("userID").(uint), "merchant_status", merchant.LegalName+" -> "+req.Status)
	return c.JSON(merchant)
}
