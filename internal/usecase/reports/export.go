package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"opevents/internal/domain/event"
	"opevents/internal/errs"
)

// Column order and operator-facing headers for the export sheet.
var exportColumns = []struct {
	header string
	width  float64
	value  func(e event.Event) string
}{
	{"ID", 10, func(e event.Event) string { return e.ID }},
	{"Persona que Detecta", 24, func(e event.Event) string { return e.Reporter }},
	{"Tipo de Impacto", 20, func(e event.Event) string { return e.Category }},
	{"Causa", 28, func(e event.Event) string { return e.Cause }},
	{"No. Proyecto", 14, func(e event.Event) string { return e.ProjectNumber }},
	{"No. Parte / Plano", 18, func(e event.Event) string { return e.PartNumber }},
	{"Responsable", 24, func(e event.Event) string { return e.Assignee }},
	{"Comentarios", 40, func(e event.Event) string { return e.Comments }},
	{"Fecha de Hallazgo", 18, func(e event.Event) string {
		if e.DetectedAt.IsZero() {
			return ""
		}
		return e.DetectedAt.Format("02/01/2006 15:04")
	}},
	{"Status", 12, func(e event.Event) string { return string(e.Status) }},
	{"Acción Correctiva", 40, func(e event.Event) string { return e.CorrectiveAction }},
	{"Acción Preventiva", 40, func(e event.Event) string { return e.PreventiveAction }},
	{"Fecha Plan", 14, func(e event.Event) string {
		if e.PlannedAt == nil {
			return ""
		}
		return e.PlannedAt.Format("02/01/2006")
	}},
	{"Fecha Real de Cierre", 18, func(e event.Event) string {
		if e.ClosedAt == nil {
			return ""
		}
		return e.ClosedAt.Format("02/01/2006")
	}},
}

// Export renders the event set as a spreadsheet with the full listing
// plus cause and impact Pareto summaries, returned as xlsx bytes.
func Export(events []event.Event) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const eventsSheet = "Eventos"
	if err := f.SetSheetName(f.GetSheetName(0), eventsSheet); err != nil {
		return nil, errs.Wrap(err, "rename sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"0078D4"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, errs.Wrap(err, "create header style")
	}

	for i, col := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, errs.Wrap(err, "resolve header cell")
		}
		if err := f.SetCellValue(eventsSheet, cell, col.header); err != nil {
			return nil, errs.Wrap(err, "write header")
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, errs.Wrap(err, "resolve column name")
		}
		if err := f.SetColWidth(eventsSheet, name, name, col.width); err != nil {
			return nil, errs.Wrap(err, "set column width")
		}
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(exportColumns), 1)
	if err != nil {
		return nil, errs.Wrap(err, "resolve header range")
	}
	if err := f.SetCellStyle(eventsSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, errs.Wrap(err, "style header")
	}

	for rowIdx, e := range events {
		for colIdx, col := range exportColumns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, errs.Wrap(err, "resolve data cell")
			}
			if err := f.SetCellValue(eventsSheet, cell, col.value(e)); err != nil {
				return nil, errs.Wrap(err, "write cell")
			}
		}
	}

	if err := writeSummarySheet(f, "Resumen Causas", "Causa", Pareto(events, event.FieldCause), headerStyle); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, "Resumen Impacto", "Tipo de Impacto", Pareto(events, event.FieldCategory), headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errs.Wrap(err, "serialize workbook")
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, sheet, label string, rows []ParetoRow, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return errs.Wrap(err, "create summary sheet")
	}

	headers := []string{label, "Eventos", "Acumulado", "% Acumulado"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return errs.Wrap(err, "resolve summary header cell")
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return errs.Wrap(err, "write summary header")
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", headerStyle); err != nil {
		return errs.Wrap(err, "style summary header")
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return errs.Wrap(err, "set summary column width")
	}
	if err := f.SetColWidth(sheet, "B", "D", 14); err != nil {
		return errs.Wrap(err, "set summary column width")
	}

	for i, row := range rows {
		n := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", n), row.Category); err != nil {
			return errs.Wrap(err, "write summary row")
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", n), row.Count); err != nil {
			return errs.Wrap(err, "write summary row")
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("C%d", n), row.Cumulative); err != nil {
			return errs.Wrap(err, "write summary row")
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("D%d", n), row.CumulativePercent); err != nil {
			return errs.Wrap(err, "write summary row")
		}
	}
	return nil
}
