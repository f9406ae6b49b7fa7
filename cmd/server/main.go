package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"merchant-portal/internal/config"
	"merchant-portal/internal/database"
	"merchant-portal/internal/handlers"
	"merchant-portal/internal/middleware"
	"merchant-portal/internal/models"
	"merchant-portal/internal/services/cron"
	"merchant-portal/internal/services/dock"
	"merchant-portal/internal/services/mailer"
	"merchant-portal/internal/services/report"
	"merchant-portal/internal/services/storage"
	ws "merchant-portal/internal/services/websocket"
)

func main() {
	// Load .env file if exists
	godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Override with .env PORT if set
	if envPort := os.Getenv("PORT"); envPort != "" {
		if port, err := strconv.Atoi(envPort); err == nil {
			cfg.Server.Port = port
		}
	}

	_, err = database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.ActivityLog{},
		&models.Merchant{},
		&models.Terminal{},
		&models.Transaction{},
		&models.Settlement{},
		&models.FeePlan{},
		&models.FeeRate{},
		&models.AnticipationRequest{},
		&models.ReportDefinition{},
		&models.ReportFilter{},
		&models.ScheduledExecution{},
		&models.TenantTheme{},
		&models.JobRun{},
		&models.ContactMessage{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	createDefaultAdmin(cfg)

	// Background plumbing: websocket hub, report pipeline, Dock client, cron.
	ws.InitHub()

	store, err := storage.NewS3Store(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to configure artifact storage: %v", err)
	}
	report.Init(store, mailer.NewSMTPSender(cfg.SMTP), cfg.Storage.KeyPrefix)
	report.StartWorker()

	dock.Init(cfg.Dock.BaseURL, cfg.Dock.APIToken)
	cron.Init(cfg.Cron)

	// Setup template engine
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/base",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: false,
	}))
	app.Use(middleware.TenantResolver())

	// Static files
	app.Static("/static", "./web/static")

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	setupRoutes(app, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Merchant portal starting on http://%s", addr)
	log.Fatal(app.Listen(addr))
}

func setupRoutes(app *fiber.App, cfg *config.Config) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/login")
	})

	app.Get("/login", func(c *fiber.Ctx) error {
		return c.Render("pages/login", fiber.Map{
			"Title": "Login - Portal",
		})
	})

	// API routes - Public
	api := app.Group("/api")
	api.Post("/auth/login", handlers.Login)
	api.Get("/theme", handlers.GetCurrentTheme)
	api.Post("/contact", middleware.RateLimit(cfg.RateLimit), handlers.SubmitContact)

	// Scheduler entrypoints for external cron services. Scheduling runs
	// inline; execution only acks and wakes the worker.
	api.Get("/cron/report-schedule", handlers.TriggerReportSchedule)
	api.Get("/cron/report-execution", handlers.TriggerReportExecution)
	api.Post("/cron/report-execution", handlers.TriggerReportExecution)

	// Theme cache invalidation, bearer-token protected.
	api.Post("/revalidate/theme", handlers.RevalidateTheme)

	// API routes - Protected
	protected := api.Group("/", middleware.AuthRequired())
	protected.Post("/auth/logout", handlers.Logout)
	protected.Get("/auth/profile", handlers.GetProfile)
	protected.Post("/auth/2fa/setup", handlers.Setup2FA)
	protected.Post("/auth/2fa/verify", handlers.Verify2FA)
	protected.Post("/auth/2fa/disable", handlers.Disable2FA)

	// Dashboard API
	protected.Get("/dashboard", handlers.GetDashboard)
	protected.Get("/system/stats", handlers.GetSystemStats)
	protected.Get("/jobs/runs", handlers.GetJobRuns)

	// Merchants API
	protected.Get("/merchants", handlers.GetMerchants)
	protected.Get("/merchants/:id", handlers.GetMerchant)
	protected.Post("/merchants", middleware.RoleRequired(models.RoleOperator), handlers.CreateMerchant)
	protected.Put("/merchants/:id", middleware.RoleRequired(models.RoleOperator), handlers.UpdateMerchant)
	protected.Post("/merchants/:id/status", middleware.AdminRequired(), handlers.SetMerchantStatus)

	// Terminals API
	protected.Get("/terminals", handlers.GetTerminals)
	protected.Post("/terminals", middleware.RoleRequired(models.RoleOperator), handlers.CreateTerminal)
	protected.Post("/terminals/:id/toggle", middleware.RoleRequired(models.RoleOperator), handlers.ToggleTerminal)
	protected.Delete("/terminals/:id", middleware.AdminRequired(), handlers.DeleteTerminal)

	// Transactions and settlements API
	protected.Get("/transactions", handlers.GetTransactions)
	protected.Get("/transactions/export", handlers.ExportTransactions)
	protected.Get("/settlements", handlers.GetSettlements)

	// Fee plans API
	protected.Get("/fees/plans", handlers.GetFeePlans)
	protected.Post("/fees/plans", middleware.AdminRequired(), handlers.CreateFeePlan)
	protected.Delete("/fees/plans/:id", middleware.AdminRequired(), handlers.DeleteFeePlan)

	// Anticipation API
	protected.Get("/anticipations", handlers.GetAnticipations)
	protected.Post("/anticipations", middleware.RoleRequired(models.RoleOperator), handlers.CreateAnticipation)
	protected.Post("/anticipations/:id/review", middleware.AdminRequired(), handlers.ReviewAnticipation)

	// Report definitions API
	protected.Get("/reports/definitions", handlers.GetReportDefinitions)
	protected.Get("/reports/definitions/:id", handlers.GetReportDefinition)
	protected.Post("/reports/definitions", middleware.RoleRequired(models.RoleOperator), handlers.CreateReportDefinition)
	protected.Put("/reports/definitions/:id", middleware.RoleRequired(models.RoleOperator), handlers.UpdateReportDefinition)
	protected.Delete("/reports/definitions/:id", middleware.AdminRequired(), handlers.DeleteReportDefinition)
	protected.Get("/reports/executions", handlers.GetScheduledExecutions)

	// Themes API (admin manages tenant branding)
	protected.Get("/themes", middleware.AdminRequired(), handlers.GetThemes)
	protected.Post("/themes", middleware.AdminRequired(), handlers.CreateTheme)
	protected.Put("/themes/:id", middleware.AdminRequired(), handlers.UpdateTheme)
	protected.Delete("/themes/:id", middleware.AdminRequired(), handlers.DeleteTheme)

	// WebSocket: job run events and system stats
	app.Get("/ws/jobs", websocket.New(ws.HandleWebSocket))

	// Dashboard pages (protected via cookie)
	dashboard := app.Group("/dashboard")
	dashboard.Get("/", func(c *fiber.Ctx) error {
		return c.Render("pages/dashboard", fiber.Map{
			"Title":  "Dashboard - Portal",
			"Active": "dashboard",
		})
	})
	dashboard.Get("/merchants", func(c *fiber.Ctx) error {
		return c.Render("pages/merchants", fiber.Map{
			"Title":  "Estabelecimentos - Portal",
			"Active": "merchants",
		})
	})
	dashboard.Get("/transactions", func(c *fiber.Ctx) error {
		return c.Render("pages/transactions", fiber.Map{
			"Title":  "Transações - Portal",
			"Active": "transactions",
		})
	})
	dashboard.Get("/reports", func(c *fiber.Ctx) error {
		return c.Render("pages/reports", fiber.Map{
			"Title":  "Relatórios - Portal",
			"Active": "reports",
		})
	})
	dashboard.Get("/anticipations", func(c *fiber.Ctx) error {
		return c.Render("pages/anticipations", fiber.Map{
			"Title":  "Antecipações - Portal",
			"Active": "anticipations",
		})
	})
	dashboard.Get("/settings", func(c *fiber.Ctx) error {
		return c.Render("pages/settings", fiber.Map{
			"Title": "Configurações - Portal",
			"Path":  "/dashboard/settings",
		})
	})
}

func createDefaultAdmin(cfg *config.Config) {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	admin := models.User{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Role:     models.RoleAdmin,
	}
	admin.SetPassword(cfg.Admin.Password)

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to create default admin: %v", err)
	} else {
		log.Printf("Default admin user created: %s", cfg.Admin.Username)
	}
}
