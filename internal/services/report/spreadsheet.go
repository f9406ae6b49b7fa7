package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"merchant-portal/internal/models"
	"merchant-portal/internal/services/period"
)

// ContentTypeXLSX is the content type of generated artifacts.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var spreadsheetHeaders = []string{
	"NSU", "Data/Hora", "Estabelecimento", "Terminal", "Bandeira",
	"Forma de Pagamento", "Status", "Captura", "Entrada", "Ciclo",
	"Liquidação", "Valor Bruto", "Valor Líquido",
}

// BuildSpreadsheet serializes transactions into an XLSX byte buffer with a
// human-readable sheet name covering the data window.
func BuildSpreadsheet(w period.Window, rows []models.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("%s a %s", w.Start.Format("02-01-2006"), w.End.Format("02-01-2006"))
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, header := range spreadsheetHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, tx := range rows {
		terminal := ""
		if tx.TerminalID != nil {
			terminal = fmt.Sprintf("%d", *tx.TerminalID)
		}
		values := []interface{}{
			tx.NSU,
			tx.CapturedAt.In(period.Location).Format("02/01/2006 15:04:05"),
			tx.MerchantID,
			terminal,
			tx.CardBrand,
			tx.PaymentType,
			tx.Status,
			tx.CaptureMode,
			tx.EntryMode,
			tx.Cycle,
			tx.PayoutID,
			tx.Amount.StringFixed(2),
			tx.NetAmount.StringFixed(2),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
