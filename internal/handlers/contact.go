package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"merchant-portal/internal/config"
	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
	"merchant-portal/internal/services/mailer"
)

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SubmitContact handles the public marketing-site form. The route carries
// the per-IP rate limiter; the message is stored and forwarded to the
// back-office mailbox.
func SubmitContact(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nome, e-mail e mensagem são obrigatórios",
		})
	}

	tenant, _ := c.Locals("tenant").(string)
	msg := models.ContactMessage{
		Tenant:  tenant,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		IP:      c.IP(),
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao registrar mensagem",
		})
	}

	// Forward to the back office; a mail failure must not fail the form.
	sender := mailer.NewSMTPSender(config.AppConfig.SMTP)
	body := "<p><strong>" + req.Name + "</strong> (" + req.Email + ")</p><p>" + req.Message + "</p>"
	if err := sender.Send([]string{config.AppConfig.Admin.Email}, "Novo contato pelo site", body); err != nil {
		log.Printf("WARNING: failed to forward contact message %d: %v", msg.ID, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
