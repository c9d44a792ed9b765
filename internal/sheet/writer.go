package sheet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"calciumcli/internal/errors"
	"calciumcli/pkg/contracts/domain"
)

// SummarySheetName is the sheet holding the per-region, per-treatment
// statistics table.
const SummarySheetName = "Summary"

var summaryHeader = []interface{}{
	"Region", "Treatment", "Scenario", "Base", "Base Std", "Peak", "Peak Time (sec)", "Delta", "Area",
}

// Write serializes an analysis report to an xlsx workbook at path.
// The workbook carries two sheets: an audit sheet with the full
// time/concentration series and treatment labels, and a summary sheet
// with one row per (region, treatment) result. The file is saved only
// once everything has been written, so a failed run leaves no partial
// output behind.
func Write(ctx context.Context, logger *slog.Logger, path string, report *domain.AnalysisReport) error {
	f := excelize.NewFile()
	defer f.Close()

	auditSheet := report.SheetName + " analysis"
	f.SetSheetName(f.GetSheetName(0), auditSheet)
	if err := writeAuditSheet(f, auditSheet, report); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheetName); err != nil {
		return errors.NewStorageError("failed to create summary sheet", err)
	}
	if err := writeSummarySheet(f, report); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save output workbook", err)
	}

	logger.InfoContext(ctx, "wrote analysis workbook",
		slog.String("path", path),
		slog.Int("regions", len(report.Regions)),
		slog.Int("results", len(report.Results)))

	return nil
}

// writeAuditSheet writes the converted series: time, treatment
// labels, and one concentration column per region. Region headers are
// written as "Ratio <label>" so the generated sheet still satisfies
// the input column contract and can be fed back through the reader.
func writeAuditSheet(f *excelize.File, sheet string, report *domain.AnalysisReport) error {
	header := []interface{}{"Time (sec)", "Labels"}
	for _, region := range report.Regions {
		header = append(header, fmt.Sprintf("Ratio %s", region.DisplayLabel))
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	labelAt := make(map[int]string, len(report.Events))
	for _, ev := range report.Events {
		labelAt[ev.Row] = ev.Label
	}

	for i, tp := range report.Time {
		row := make([]interface{}, 0, len(report.Regions)+2)
		row = append(row, tp.Seconds)
		if label, ok := labelAt[tp.Row]; ok {
			row = append(row, label)
		} else {
			row = append(row, "")
		}
		for _, series := range report.Concentrations {
			row = append(row, series[i])
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, report *domain.AnalysisReport) error {
	if err := setRow(f, SummarySheetName, 1, summaryHeader); err != nil {
		return err
	}
	for i, res := range report.Results {
		row := []interface{}{
			res.Region,
			res.Treatment,
			int(res.Scenario),
			res.Base,
			res.BaseStd,
			res.Peak,
			res.PeakTime,
			res.Delta,
			res.Area,
		}
		if err := setRow(f, SummarySheetName, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.NewStorageError("failed to address output cell", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.NewStorageError("failed to write output row", err).
			WithContext("row", row)
	}
	return nil
}
