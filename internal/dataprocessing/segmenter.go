package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"calciumcli/internal/errors"
	"calciumcli/pkg/contracts/domain"
)

// Labels marking a standard-bath baseline period. Comparison is an
// exact case-insensitive match; any other label is a treatment.
var baselineLabels = []string{"STD", "Standard Bath"}

// standardBathLabel is the label given to the synthetic leading
// baseline when data rows precede the first explicit label.
const standardBathLabel = "STD"

// IsBaselineLabel reports whether a raw label denotes a standard-bath
// baseline period.
func IsBaselineLabel(label string) bool {
	for _, b := range baselineLabels {
		if strings.EqualFold(strings.TrimSpace(label), b) {
			return true
		}
	}
	return false
}

// CollectLabelEvents walks the Labels column in row order and returns
// an event for every non-blank cell. Cells containing "/60" are clock
// readings written into the labels column by the acquisition
// software, not treatment labels, and are skipped.
func CollectLabelEvents(table *domain.Table, labelsCol int) []domain.LabelEvent {
	var events []domain.LabelEvent
	for row := 0; row < table.RowCount(); row++ {
		cell := strings.TrimSpace(table.Cell(labelsCol, row))
		if cell == "" || strings.Contains(cell, "/60") {
			continue
		}
		events = append(events, domain.LabelEvent{Row: row, Label: cell})
	}
	return events
}

// BuildEpisodes partitions all data rows into contiguous episodes,
// one per label event, each spanning from its event row up to the row
// before the next event (or the last row). Rows before the first
// explicit label are folded into a synthetic leading standard-bath
// episode, so the episodes always cover every row exactly once.
//
// Fails with NoLabelsError when there are no events at all, and with
// MissingBaselineError when the recording does not open with a
// baseline: every treatment needs an earlier baseline to supply its
// reference base.
func BuildEpisodes(ctx context.Context, logger *slog.Logger, events []domain.LabelEvent, rowCount int) ([]domain.Episode, error) {
	if len(events) == 0 {
		return nil, errors.NewNoLabelsError()
	}

	if events[0].Row > 0 {
		logger.InfoContext(ctx, "rows precede first label, assuming leading standard bath",
			slog.Int("rows", events[0].Row))
		events = append([]domain.LabelEvent{{Row: 0, Label: standardBathLabel}}, events...)
	}

	episodes := make([]domain.Episode, 0, len(events))
	for i, ev := range events {
		end := rowCount - 1
		if i+1 < len(events) {
			end = events[i+1].Row - 1
		}
		kind := domain.EpisodeTreatment
		if IsBaselineLabel(ev.Label) {
			kind = domain.EpisodeBaseline
		}
		episodes = append(episodes, domain.Episode{
			StartRow: ev.Row,
			EndRow:   end,
			Label:    ev.Label,
			Kind:     kind,
		})
	}

	if episodes[0].Kind != domain.EpisodeBaseline {
		return nil, errors.NewMissingBaselineError(episodes[0].Label)
	}

	logger.InfoContext(ctx, "segmented recording into episodes",
		slog.Int("episodes", len(episodes)))

	return episodes, nil
}

// ResolveAssignments pairs every treatment episode with its reference
// baselines and classifies it into exactly one scenario:
//
//   - ScenarioWashout: baselines immediately precede and follow the
//     treatment; the statistics window is the treatment plus the
//     following wash.
//   - ScenarioStacked: another treatment immediately precedes; the
//     anterior baseline is the nearest earlier one, and the window is
//     the treatment's own rows.
//   - ScenarioTail: a baseline immediately precedes but none follows;
//     the window is the treatment's own rows.
//
// The posterior baseline is considered only at the position directly
// after the treatment; a later baseline beyond an intervening
// treatment never extends the window.
func ResolveAssignments(episodes []domain.Episode) []domain.TreatmentAssignment {
	var assignments []domain.TreatmentAssignment
	for k, ep := range episodes {
		if ep.Kind != domain.EpisodeTreatment {
			continue
		}

		anterior := -1
		for i := k - 1; i >= 0; i-- {
			if episodes[i].Kind == domain.EpisodeBaseline {
				anterior = i
				break
			}
		}
		// anterior always exists: BuildEpisodes guarantees episode 0
		// is a baseline.

		posterior := -1
		if k+1 < len(episodes) && episodes[k+1].Kind == domain.EpisodeBaseline {
			posterior = k + 1
		}

		var scenario domain.Scenario
		switch {
		case episodes[k-1].Kind != domain.EpisodeBaseline:
			scenario = domain.ScenarioStacked
		case posterior >= 0:
			scenario = domain.ScenarioWashout
		default:
			scenario = domain.ScenarioTail
		}

		assignments = append(assignments, domain.TreatmentAssignment{
			Treatment: k,
			Anterior:  anterior,
			Posterior: posterior,
			Scenario:  scenario,
		})
	}
	return assignments
}
