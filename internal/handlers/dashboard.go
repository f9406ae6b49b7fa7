package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
	"merchant-portal/internal/services/monitor"
	"merchant-portal/internal/services/period"
)

// GetDashboard aggregates the counters shown on the admin landing page.
func GetDashboard(c *fiber.Ctx) error {
	var merchants, pendingMerchants, terminals, pendingExecutions int64
	database.DB.Model(&models.Merchant{}).Count(&merchants)
	database.DB.Model(&models.Merchant{}).Where("status = ?", models.MerchantPending).Count(&pendingMerchants)
	database.DB.Model(&models.Terminal{}).Where("active = ?", true).Count(&terminals)
	database.DB.Model(&models.ScheduledExecution{}).Where("status = ?", models.ExecutionPending).Count(&pendingExecutions)

	today, err := period.ComputeWindowAt(time.Now(), period.Today, "", "")
	var transactionsToday int64
	if err == nil {
		database.DB.Model(&models.Transaction{}).
			Where("captured_at BETWEEN ? AND ?", today.Start, today.End).
			Count(&transactionsToday)
	}

	return c.JSON(fiber.Map{
		"merchants":          merchants,
		"pending_merchants":  pendingMerchants,
		"active_terminals":   terminals,
		"pending_executions": pendingExecutions,
		"transactions_today": transactionsToday,
	})
}

func GetSystemStats(c *fiber.Ctx) error {
	stats, err := monitor.GetSystemStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get system stats",
		})
	}
	return c.JSON(stats)
}
