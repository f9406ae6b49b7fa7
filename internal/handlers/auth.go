package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pquerna/otp/totp"

	"merchant-portal/internal/database"
	"merchant-portal/internal/middleware"
	"merchant-portal/internal/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type LoginResponse struct {
	Token       string        `json:"token"`
	User        *UserResponse `json:"user"`
	Requires2FA bool          `json:"requires_2fa,omitempty"`
}

type UserResponse struct {
	ID               uint   `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	Tenant           string `json:"tenant"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
}

// logActivity records an audit trail entry; failures are silently dropped
// so auditing never breaks the request.
func logActivity(c *fiber.Ctx, userID uint, action, details string) {
	database.DB.Create(&models.ActivityLog{
		UserID:  userID,
		Action:  action,
		Details: details,
		IP:      c.IP(),
	})
}

func toUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		Role:             user.Role,
		Tenant:           user.Tenant,
		TwoFactorEnabled: user.TwoFactorEnabled,
	}
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var user models.User
	result := database.DB.Where("username = ?", req.Username).First(&user)
	if result.Error != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if user.TwoFactorEnabled {
		if req.TOTPCode == "" {
			return c.Status(fiber.StatusOK).JSON(LoginResponse{
				Requires2FA: true,
			})
		}

		if !totp.Validate(req.TOTPCode, user.TwoFactorSecret) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid 2FA code",
			})
		}
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, user.Role, user.Tenant)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		HTTPOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		MaxAge:   86400,
		Path:     "/",
	})

	logActivity(c, user.ID, "login", "")

	return c.JSON(LoginResponse{
		Token: token,
		User:  toUserResponse(&user),
	})
}

func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		HTTPOnly: true,
		MaxAge:   -1,
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

func GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(toUserResponse(&user))
}

type Setup2FAResponse struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"`
}

func Setup2FA(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Merchant Portal",
		AccountName: user.Username,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate 2FA secret",
		})
	}

	// Save secret temporarily (user needs to verify before enabling)
	user.TwoFactorSecret = key.Secret()
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save 2FA secret",
		})
	}

	return c.JSON(Setup2FAResponse{
		Secret: key.Secret(),
		QRCode: key.URL(),
	})
}

type Verify2FARequest struct {
	Code string `json:"code"`
}

func Verify2FA(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req Verify2FARequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if user.TwoFactorSecret == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "2FA not set up",
		})
	}

	if !totp.Validate(req.Code, user.TwoFactorSecret) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid 2FA code",
		})
	}

	user.TwoFactorEnabled = true
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to enable 2FA",
		})
	}

	return c.JSON(fiber.Map{
		"message": "2FA enabled successfully",
	})
}

func Disable2FA(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	user.TwoFactorEnabled = false
	user.TwoFactorSecret = ""
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to disable 2FA",
		})
	}

	return c.JSON(fiber.Map{
		"message": "2FA disabled successfully",
	})
}
