package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
	"merchant-portal/internal/services/period"
	"merchant-portal/internal/services/report"
)

// GetTransactions lists transactions for a period code plus the same filter
// query parameters the report filters support.
func GetTransactions(c *fiber.Ctx) error {
	code := c.Query("period", period.Today)
	w, err := period.ComputeWindowAt(time.Now(), code, c.Query("start_time"), c.Query("end_time"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Período inválido: " + code,
		})
	}

	var filters []models.ReportFilter
	for _, kind := range models.FilterKinds {
		if v := c.Query(kind); v != "" {
			filters = append(filters, models.ReportFilter{
				Kind:     kind,
				Value:    v,
				ValueEnd: c.Query(kind + "_end"),
			})
		}
	}

	q, err := report.TransactionQuery(w, filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao consultar transações",
		})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	size := c.QueryInt("page_size", 50)
	if size < 1 {
		size = 50
	}
	if size > 200 {
		size = 200
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao consultar transações",
		})
	}

	var rows []models.Transaction
	err = q.Order("captured_at asc").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao consultar transações",
		})
	}

	return c.JSON(fiber.Map{
		"total":  total,
		"page":   page,
		"window": fiber.Map{"start": w.Start, "end": w.End},
		"items":  rows,
	})
}

func GetSettlements(c *fiber.Ctx) error {
	q := database.DB.Order("created_at desc")
	if merchantID := c.Query("merchant_id"); merchantID != "" {
		q = q.Where("merchant_id = ?", merchantID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var settlements []models.Settlement
	if err := q.Limit(200).Find(&settlements).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(settlements)
}
