package dataprocessing

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"calciumcli/internal/errors"
	"calciumcli/pkg/contracts/domain"
)

// Header substrings identifying the column roles. Matching is
// case-insensitive.
const (
	timeHeaderMatch   = "time"
	labelsHeaderMatch = "labels"
	ratioHeaderMatch  = "ratio"
)

// Classify inspects the table headers and resolves the Time column,
// the Labels column and the contiguous block of Ratio columns, then
// validates the cell contents of the columns the pipeline computes
// from. runLabel, when non-empty, prefixes the region display labels.
//
// When several headers match Time or Labels the first match wins and
// a warning is logged.
func Classify(ctx context.Context, logger *slog.Logger, table *domain.Table, runLabel string) (*domain.SheetLayout, error) {
	timeCol, err := findColumn(ctx, logger, table.Headers, timeHeaderMatch)
	if err != nil {
		return nil, err
	}
	labelsCol, err := findColumn(ctx, logger, table.Headers, labelsHeaderMatch)
	if err != nil {
		return nil, err
	}

	ratioCols := findAll(table.Headers, ratioHeaderMatch)
	if len(ratioCols) == 0 {
		return nil, errors.NewMissingColumnError("Ratio")
	}
	if ratioCols[len(ratioCols)-1]-ratioCols[0]+1 != len(ratioCols) {
		headers := make([]string, len(ratioCols))
		for i, c := range ratioCols {
			headers[i] = table.Headers[c]
		}
		return nil, errors.NewNonAdjacentColumnsError(headers)
	}

	regions := buildRegions(table.Headers, ratioCols, runLabel)

	timePoints, err := validateTimeColumn(table, timeCol)
	if err != nil {
		return nil, err
	}
	for _, region := range regions {
		if err := validateRatioColumn(table, region.Column); err != nil {
			return nil, err
		}
	}

	logger.InfoContext(ctx, "classified sheet columns",
		slog.String("time_column", table.Headers[timeCol]),
		slog.String("labels_column", table.Headers[labelsCol]),
		slog.Int("regions", len(regions)))

	return &domain.SheetLayout{
		TimeColumn:   timeCol,
		LabelsColumn: labelsCol,
		Regions:      regions,
		Time:         timePoints,
	}, nil
}

// findColumn locates the single column whose header contains match.
// First match wins; additional matches are reported as a warning.
func findColumn(ctx context.Context, logger *slog.Logger, headers []string, match string) (int, error) {
	cols := findAll(headers, match)
	if len(cols) == 0 {
		return 0, errors.NewMissingColumnError(match)
	}
	if len(cols) > 1 {
		logger.WarnContext(ctx, "multiple columns match header, using first",
			slog.String("match", match),
			slog.String("header", headers[cols[0]]),
			slog.Int("matches", len(cols)))
	}
	return cols[0], nil
}

func findAll(headers []string, match string) []int {
	var cols []int
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), match) {
			cols = append(cols, i)
		}
	}
	return cols
}

// buildRegions extracts a region label from every ratio header: the
// first integer in the header text, or a fallback for headers with no
// number. Fallbacks count upward from one past the highest explicit
// label so they can never collide with one.
func buildRegions(headers []string, ratioCols []int, runLabel string) []domain.RegionColumn {
	regions := make([]domain.RegionColumn, 0, len(ratioCols))

	maxExplicit := 0
	for _, c := range ratioCols {
		if n, ok := firstInteger(headers[c]); ok && n > maxExplicit {
			maxExplicit = n
		}
	}

	nextFallback := maxExplicit + 1
	for _, c := range ratioCols {
		label, ok := firstInteger(headers[c])
		if !ok {
			label = nextFallback
			nextFallback++
		}
		regions = append(regions, domain.RegionColumn{
			Column:       c,
			Header:       headers[c],
			Label:        label,
			DisplayLabel: runLabel + strconv.Itoa(label),
		})
	}
	return regions
}

// firstInteger returns the first run of digits in s as an integer.
func firstInteger(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, err := strconv.Atoi(s[start:i])
			return n, err == nil
		}
	}
	if start >= 0 {
		n, err := strconv.Atoi(s[start:])
		return n, err == nil
	}
	return 0, false
}

// validateTimeColumn checks the Time column for blanks, parse
// failures and out-of-order timestamps, and returns the parsed time
// series.
func validateTimeColumn(table *domain.Table, col int) ([]domain.TimePoint, error) {
	header := table.Headers[col]
	points := make([]domain.TimePoint, 0, table.RowCount())

	prev := 0.0
	for row := 0; row < table.RowCount(); row++ {
		cell := strings.TrimSpace(table.Cell(col, row))
		if cell == "" {
			return nil, errors.NewInvalidDataError(header, row, nil).
				WithContext("reason", "blank time cell")
		}
		seconds, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, errors.NewInvalidDataError(header, row, err)
		}
		if row > 0 && seconds < prev {
			return nil, errors.NewInvalidDataError(header, row, nil).
				WithContext("reason", "time values must be non-decreasing")
		}
		prev = seconds
		points = append(points, domain.TimePoint{Row: row, Seconds: seconds})
	}
	return points, nil
}

// validateRatioColumn checks a Ratio column for blanks and
// non-numeric cells.
func validateRatioColumn(table *domain.Table, col int) error {
	header := table.Headers[col]
	for row := 0; row < table.RowCount(); row++ {
		cell := strings.TrimSpace(table.Cell(col, row))
		if cell == "" {
			return errors.NewInvalidDataError(header, row, nil).
				WithContext("reason", "blank ratio cell")
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return errors.NewInvalidDataError(header, row, err)
		}
	}
	return nil
}
