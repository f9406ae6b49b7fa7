package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
	"merchant-portal/internal/services/period"
	"merchant-portal/internal/services/recurrence"
	"merchant-portal/internal/services/report"
)

var validRecurrenceCodes = map[string]bool{
	recurrence.Daily: true, recurrence.Weekly: true, recurrence.Monthly: true,
}

var validPeriodCodes = map[string]bool{
	period.Today: true, period.Yesterday: true,
	period.ThisWeek: true, period.LastWeek: true,
	period.ThisMonth: true, period.LastMonth: true,
}

var validFilterKinds = func() map[string]bool {
	m := make(map[string]bool, len(models.FilterKinds))
	for _, k := range models.FilterKinds {
		m[k] = true
	}
	return m
}()

type ReportFilterRequest struct {
	Kind     string `json:"kind"`
	Value    string `json:"value"`
	ValueEnd string `json:"value_end"`
}

type ReportDefinitionRequest struct {
	Title          string                `json:"title"`
	Tenant         string                `json:"tenant"`
	RecurrenceCode string                `json:"recurrence_code"`
	DayOfWeek      string                `json:"day_of_week"`
	DayOfMonth     string                `json:"day_of_month"`
	PeriodCode     string                `json:"period_code"`
	StartTime      string                `json:"start_time"`
	EndTime        string                `json:"end_time"`
	ShippingTime   string                `json:"shipping_time"`
	OutputFormat   string                `json:"output_format"`
	Recipients     string                `json:"recipients"`
	Active         *bool                 `json:"active"`
	Filters        []ReportFilterRequest `json:"filters"`
}

func (r *ReportDefinitionRequest) validate() string {
	if r.Title == "" {
		return "Título é obrigatório"
	}
	if !validRecurrenceCodes[r.RecurrenceCode] {
		return "Código de recorrência inválido: " + r.RecurrenceCode
	}
	if !validPeriodCodes[r.PeriodCode] {
		return "Código de período inválido: " + r.PeriodCode
	}
	if r.RecurrenceCode == recurrence.Weekly && r.DayOfWeek == "" {
		return "Informe o dia da semana para recorrência semanal"
	}
	if r.RecurrenceCode == recurrence.Monthly {
		if d, err := strconv.Atoi(r.DayOfMonth); err != nil || d < 1 || d > 31 {
			return "Dia do mês inválido: " + r.DayOfMonth
		}
	}
	for _, hhmm := range []string{r.StartTime, r.EndTime, r.ShippingTime} {
		if hhmm == "" {
			continue
		}
		if _, err := time.Parse("15:04", hhmm); err != nil {
			return "Horário inválido: " + hhmm
		}
	}
	for _, f := range r.Filters {
		if !validFilterKinds[f.Kind] {
			return "Filtro desconhecido: " + f.Kind
		}
		if f.Value == "" {
			return "Filtro sem valor: " + f.Kind
		}
	}
	return ""
}

func GetReportDefinitions(c *fiber.Ctx) error {
	var defs []models.ReportDefinition
	if err := database.DB.Preload("Filters").Order("created_at desc").Find(&defs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(defs)
}

func GetReportDefinition(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var def models.ReportDefinition
	if err := database.DB.Preload("Filters").First(&def, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Relatório não encontrado",
		})
	}
	return c.JSON(def)
}

func CreateReportDefinition(c *fiber.Ctx) error {
	var req ReportDefinitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	def := models.ReportDefinition{
		Title:          req.Title,
		Tenant:         req.Tenant,
		RecurrenceCode: req.RecurrenceCode,
		DayOfWeek:      req.DayOfWeek,
		DayOfMonth:     req.DayOfMonth,
		PeriodCode:     req.PeriodCode,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		ShippingTime:   req.ShippingTime,
		OutputFormat:   req.OutputFormat,
		Recipients:     req.Recipients,
		Active:         true,
	}
	if def.OutputFormat == "" {
		def.OutputFormat = "xlsx"
	}
	for _, f := range req.Filters {
		def.Filters = append(def.Filters, models.ReportFilter{
			Kind:     f.Kind,
			Value:    f.Value,
			ValueEnd: f.ValueEnd,
		})
	}

	if err := database.DB.Create(&def).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(def)
}

func UpdateReportDefinition(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var def models.ReportDefinition
	if err := database.DB.First(&def, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Relatório não encontrado",
		})
	}

	var req ReportDefinitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	def.Title = req.Title
	def.Tenant = req.Tenant
	def.RecurrenceCode = req.RecurrenceCode
	def.DayOfWeek = req.DayOfWeek
	def.DayOfMonth = req.DayOfMonth
	def.PeriodCode = req.PeriodCode
	def.StartTime = req.StartTime
	def.EndTime = req.EndTime
	def.ShippingTime = req.ShippingTime
	def.Recipients = req.Recipients
	if req.OutputFormat != "" {
		def.OutputFormat = req.OutputFormat
	}
	if req.Active != nil {
		def.Active = *req.Active
	}

	// Replace the filter set wholesale; partial filter edits are not a thing
	// in the admin UI.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("definition_id = ?", def.ID).Delete(&models.ReportFilter{}).Error; err != nil {
			return err
		}
		for _, f := range req.Filters {
			filter := models.ReportFilter{
				DefinitionID: def.ID,
				Kind:         f.Kind,
				Value:        f.Value,
				ValueEnd:     f.ValueEnd,
			}
			if err := tx.Create(&filter).Error; err != nil {
				return err
			}
		}
		return tx.Save(&def).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	database.DB.Preload("Filters").First(&def, def.ID)
	return c.JSON(def)
}

func DeleteReportDefinition(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}
	if err := database.DB.Delete(&models.ReportDefinition{}, id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetScheduledExecutions lists executions, optionally filtered by status.
func GetScheduledExecutions(c *fiber.Ctx) error {
	q := database.DB.Preload("Definition").Order("fire_at desc").Limit(200)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var execs []models.ScheduledExecution
	if err := q.Find(&execs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(execs)
}

// ExportTransactions generates an on-demand spreadsheet for the given period
// code and filter query parameters, returned as a direct download.
func ExportTransactions(c *fiber.Ctx) error {
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

	rows, err := report.QueryTransactions(w, filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao consultar transações",
		})
	}

	artifact, err := report.BuildSpreadsheet(w, rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao gerar planilha",
		})
	}

	filename := fmt.Sprintf("transacoes-%s.xlsx", w.Start.Format("20060102"))
	c.Set(fiber.HeaderContentType, report.ContentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(artifact)
}
