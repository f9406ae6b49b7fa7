package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
)

func GetAnticipations(c *fiber.Ctx) error {
	q := database.DB.Preload("Merchant").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if merchantID := c.Query("merchant_id"); merchantID != "" {
		q = q.Where("merchant_id = ?", merchantID)
	}

	var requests []models.AnticipationRequest
	if err := q.Limit(200).Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(requests)
}

type AnticipationRequestBody struct {
	MerchantID uint            `json:"merchant_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// CreateAnticipation opens a receivables-advance request for an approved
// merchant with a fee plan.
func CreateAnticipation(c *fiber.Ctx) error {
	var req AnticipationRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}
	if req.MerchantID == 0 || !req.Amount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Estabelecimento e valor positivo são obrigatórios",
		})
	}

	var merchant models.Merchant
	if err := database.DB.First(&merchant, req.MerchantID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Estabelecimento não encontrado",
		})
	}
	if merchant.Status != models.MerchantApproved {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Estabelecimento não está aprovado",
		})
	}
	if merchant.FeePlanID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Estabelecimento sem plano de taxas",
		})
	}

	request := models.AnticipationRequest{
		MerchantID:      req.MerchantID,
		RequestedAmount: req.Amount,
		Status:          models.AnticipationRequested,
	}
	if err := database.DB.Create(&request).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

type AnticipationReviewRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

// ReviewAnticipation approves or rejects a pending request. On approval the
// fee is computed from the merchant's fee plan (highest anticipation rate
// among the plan's rates, one month of advance).
func ReviewAnticipation(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var req AnticipationReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}

	var request models.AnticipationRequest
	if err := database.DB.First(&request, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Solicitação não encontrada",
		})
	}
	if request.Status != models.AnticipationRequested {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Solicitação já revisada",
		})
	}

	userID := c.Locals("userID").(uint)
	now := time.Now()
	request.ReviewedBy = &userID
	request.ReviewedAt = &now
	request.ReviewNote = req.Note

	if !req.Approve {
		request.Status = models.AnticipationRejected
	} else {
		rate, err := anticipationRate(request.MerchantID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Falha ao calcular taxa de antecipação",
			})
		}
		request.FeeAmount = request.RequestedAmount.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
		request.NetAmount = request.RequestedAmount.Sub(request.FeeAmount)
		request.Status = models.AnticipationApproved
	}

	if err := database.DB.Save(&request).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	logActivity(c, userID, "anticipation_review", request.Status)
	return c.JSON(request)
}

func anticipationRate(merchantID uint) (decimal.Decimal, error) {
	var merchant models.Merchant
	if err := database.DB.First(&merchant, merchantID).Error; err != nil {
		return decimal.Zero, err
	}
	if merchant.FeePlanID == nil {
		return decimal.Zero, nil
	}

	var rates []models.FeeRate
	if err := database.DB.Where("fee_plan_id = ?", *merchant.FeePlanID).Find(&rates).Error; err != nil {
		return decimal.Zero, err
	}

	max := decimal.Zero
	for _, r := range rates {
		if r.AnticipationRate.GreaterThan(max) {
			max = r.AnticipationRate
		}
	}
	return max, nil
}
