// Package report implements the scheduled report pipeline: deciding which
// definitions fire, resolving their data windows, and turning matching
// transactions into uploaded, delivered spreadsheet artifacts.
package report

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
	"merchant-portal/internal/services/mailer"
	"merchant-portal/internal/services/period"
	"merchant-portal/internal/services/storage"
)

var (
	store     storage.Store
	sender    mailer.Sender
	keyPrefix = "reports/"
	nowFunc   = time.Now
)

// Init wires the executor's external collaborators once at boot.
func Init(s storage.Store, m mailer.Sender, prefix string) {
	store = s
	sender = m
	if prefix != "" {
		keyPrefix = prefix
	}
}

// Execute runs the full pipeline for one definition: load, window, query,
// serialize, upload, deliver. It either fully succeeds, returning the
// artifact key, or fails at whichever step errors — there is no partial
// success state.
func Execute(definitionID uint) (string, error) {
	var def models.ReportDefinition
	if err := database.DB.Preload("Filters").First(&def, definitionID).Error; err != nil {
		return "", fmt.Errorf("failed to load report definition %d: %w", definitionID, err)
	}

	window, err := period.ComputeWindowAt(nowFunc(), def.PeriodCode, def.StartTime, def.EndTime)
	if err != nil {
		return "", err
	}

	rows, err := QueryTransactions(window, def.Filters)
	if err != nil {
		return "", fmt.Errorf("failed to query report data: %w", err)
	}

	artifact, err := BuildSpreadsheet(window, rows)
	if err != nil {
		return "", err
	}

	key := keyPrefix + artifactName(def.Title, window)
	ctx := context.Background()
	if err := store.Put(ctx, key, artifact, ContentTypeXLSX); err != nil {
		return "", err
	}

	if recipients := def.RecipientList(); len(recipients) > 0 {
		url, err := store.PresignGet(ctx, key, 7*24*time.Hour)
		if err != nil {
			return "", fmt.Errorf("failed to presign artifact link: %w", err)
		}
		subject := fmt.Sprintf("Relatório: %s", def.Title)
		if err := sender.Send(recipients, subject, mailer.ReportBody(def.Title, url)); err != nil {
			return "", fmt.Errorf("failed to deliver report email: %w", err)
		}
	}

	log.Printf("Report %q executed: %d rows, artifact %s", def.Title, len(rows), key)
	return key, nil
}

// artifactName builds a deterministic-prefix, collision-free object name.
func artifactName(title string, w period.Window) string {
	slug := strings.ToLower(title)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return fmt.Sprintf("%s-%s-%s.xlsx", slug, w.Start.Format("20060102"), uuid.NewString()[:8])
}
