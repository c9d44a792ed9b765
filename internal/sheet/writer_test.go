package sheet

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"calciumcli/pkg/contracts/domain"
)

func sampleReport() *domain.AnalysisReport {
	return &domain.AnalysisReport{
		SheetName: "Sheet1",
		Time: []domain.TimePoint{
			{Row: 0, Seconds: 0}, {Row: 1, Seconds: 6}, {Row: 2, Seconds: 12}, {Row: 3, Seconds: 18},
		},
		Concentrations: [][]float64{{10, 11, 40, 12}},
		Regions: []domain.RegionColumn{
			{Column: 2, Header: "Ratio 1", Label: 1, DisplayLabel: "A1"},
		},
		Events: []domain.LabelEvent{
			{Row: 0, Label: "STD"},
			{Row: 2, Label: "CCK"},
		},
		Episodes: []domain.Episode{
			{StartRow: 0, EndRow: 1, Label: "STD", Kind: domain.EpisodeBaseline},
			{StartRow: 2, EndRow: 3, Label: "CCK", Kind: domain.EpisodeTreatment},
		},
		Assignments: []domain.TreatmentAssignment{
			{Treatment: 1, Anterior: 0, Posterior: -1, Scenario: domain.ScenarioTail},
		},
		Results: []domain.RegionResult{
			{
				Region: "A1", Treatment: "CCK", Scenario: domain.ScenarioTail,
				Base: 10.5, BaseStd: 0.7, Peak: 40, PeakTime: 12, Delta: 29.5, Area: 250,
			},
		},
	}
}

func TestWriteProducesAuditAndSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	report := sampleReport()

	require.NoError(t, Write(context.Background(), slog.Default(), path, report))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Equal(t, []string{"Sheet1 analysis", SummarySheetName}, sheets)

	audit, err := f.GetRows("Sheet1 analysis")
	require.NoError(t, err)
	require.Len(t, audit, 5)
	assert.Equal(t, []string{"Time (sec)", "Labels", "Ratio A1"}, audit[0])
	assert.Equal(t, "STD", audit[1][1])
	assert.Equal(t, "CCK", audit[3][1])
	got, err := strconv.ParseFloat(audit[3][2], 64)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, got, 1e-9)

	summary, err := f.GetRows(SummarySheetName)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "A1", summary[1][0])
	assert.Equal(t, "CCK", summary[1][1])
	assert.Equal(t, "3", summary[1][2])
	delta, err := strconv.ParseFloat(summary[1][7], 64)
	require.NoError(t, err)
	assert.InDelta(t, 29.5, delta, 1e-9)
}

func TestWriteFailsOnBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.xlsx")

	err := Write(context.Background(), slog.Default(), path, sampleReport())
	assert.Error(t, err)
}
