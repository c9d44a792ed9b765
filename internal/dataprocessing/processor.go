package dataprocessing

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"calciumcli/internal/config"
	"calciumcli/internal/errors"
	"calciumcli/internal/sheet"
	"calciumcli/pkg/contracts/domain"
)

// Pipeline runs the whole conversion in one synchronous pass:
// read → classify → convert → segment → compute → write. Each stage
// consumes the immutable output of the previous one; any error aborts
// the run before the output file is written.
type Pipeline struct {
	logger *slog.Logger
	opts   config.Options
}

// NewPipeline creates a conversion pipeline for the given options.
func NewPipeline(logger *slog.Logger, opts config.Options) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger, opts: opts}
}

// Convert processes the input workbook and writes the analysis
// workbook next to it, returning the output path.
func (p *Pipeline) Convert(ctx context.Context) (string, error) {
	read, err := sheet.Read(ctx, p.logger, p.opts.InputFile)
	if err != nil {
		return "", err
	}
	table := &read.Table

	layout, err := Classify(ctx, p.logger, table, config.RunLabel(p.opts.InputFile))
	if err != nil {
		return "", err
	}

	concentrations, err := convertRegions(table, layout.Regions)
	if err != nil {
		return "", err
	}

	events := CollectLabelEvents(table, layout.LabelsColumn)
	episodes, err := BuildEpisodes(ctx, p.logger, events, table.RowCount())
	if err != nil {
		return "", err
	}
	assignments := ResolveAssignments(episodes)

	engine := NewEngine(p.logger, p.opts)
	results := engine.Compute(ctx, layout.Time, layout.Regions, episodes, assignments, concentrations)

	report := &domain.AnalysisReport{
		SheetName:      read.SheetName,
		Time:           layout.Time,
		Concentrations: concentrations,
		Regions:        layout.Regions,
		Events:         events,
		Episodes:       episodes,
		Assignments:    assignments,
		Results:        results,
	}

	outPath := config.OutputPath(p.opts.InputFile)
	if err := sheet.Write(ctx, p.logger, outPath, report); err != nil {
		return "", err
	}
	return outPath, nil
}

// convertRegions maps every ratio cell to a calcium concentration,
// one series per region aligned with the table rows. A ratio at the
// calibration maximum is fatal and reported with its column and row.
func convertRegions(table *domain.Table, regions []domain.RegionColumn) ([][]float64, error) {
	series := make([][]float64, len(regions))
	for i, region := range regions {
		series[i] = make([]float64, table.RowCount())
		for row := 0; row < table.RowCount(); row++ {
			// Cells were already validated as numeric by the
			// classifier.
			ratio := mustParseFloat(table.Cell(region.Column, row))
			c, err := Concentration(ratio)
			if err != nil {
				if appErr, ok := err.(*errors.AppError); ok {
					return nil, appErr.WithContext("column", region.Header).WithContext("row", row)
				}
				return nil, err
			}
			series[i][row] = c
		}
	}
	return series, nil
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
