package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"calciumcli/internal/config"
	"calciumcli/pkg/contracts/domain"
)

// peakTopValues is how many of the highest concentrations are
// averaged in peak mode 2.
const peakTopValues = 3

// Engine computes the per-region, per-treatment statistics. It is
// stateless apart from its configuration and deterministic given the
// same episodes, regions and options.
type Engine struct {
	logger *slog.Logger
	opts   config.Options
}

// NewEngine creates a statistics engine with the given options.
func NewEngine(logger *slog.Logger, opts config.Options) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, opts: opts}
}

// Compute derives base, peak, delta and area for every (treatment
// episode, region) pair. concentrations holds one converted series
// per region, aligned with time; both are indexed by data row.
func (e *Engine) Compute(
	ctx context.Context,
	time []domain.TimePoint,
	regions []domain.RegionColumn,
	episodes []domain.Episode,
	assignments []domain.TreatmentAssignment,
	concentrations [][]float64,
) []domain.RegionResult {
	results := make([]domain.RegionResult, 0, len(assignments)*len(regions))

	for _, assignment := range assignments {
		treatment := episodes[assignment.Treatment]
		window := e.statsWindow(episodes, assignment)

		for r, region := range regions {
			series := concentrations[r]

			base, baseStd := e.computeBase(episodes[assignment.Anterior], series)
			peak, peakTime := e.computePeak(time, series, window)
			area := e.computeArea(time, series, window)

			results = append(results, domain.RegionResult{
				Region:    region.DisplayLabel,
				Treatment: treatment.Label,
				Scenario:  assignment.Scenario,
				Base:      base,
				BaseStd:   baseStd,
				Peak:      peak,
				PeakTime:  peakTime,
				Delta:     peak - base,
				Area:      area,
			})
		}

		e.logger.InfoContext(ctx, "computed treatment statistics",
			slog.String("treatment", treatment.Label),
			slog.Int("scenario", int(assignment.Scenario)),
			slog.Int("regions", len(regions)))
	}

	return results
}

// statsWindow returns the inclusive row span peak and area are
// computed over: the treatment's rows, extended through the following
// wash in the washout scenario.
func (e *Engine) statsWindow(episodes []domain.Episode, a domain.TreatmentAssignment) domain.Episode {
	window := episodes[a.Treatment]
	if a.Scenario == domain.ScenarioWashout && a.Posterior >= 0 {
		window.EndRow = episodes[a.Posterior].EndRow
	}
	return window
}

// computeBase averages the anterior baseline's concentrations,
// restricted to the last BaseCycles rows when configured (0 averages
// the whole window). The sample standard deviation over the same rows
// accompanies the mean; a single-row window has no spread and reports
// zero.
func (e *Engine) computeBase(anterior domain.Episode, series []float64) (base, baseStd float64) {
	vals := series[anterior.StartRow : anterior.EndRow+1]
	if n := e.opts.BaseCycles; n > 0 && n < len(vals) {
		vals = vals[len(vals)-n:]
	}
	base = stat.Mean(vals, nil)
	if len(vals) >= 2 {
		baseStd = stat.StdDev(vals, nil)
	}
	return base, baseStd
}

// computePeak finds the peak concentration inside the window,
// restricted to rows within PostStdSearchSeconds of the window start.
// Mode 1 reports the single highest value; mode 2 the mean of the
// three highest (or of all values when fewer exist). Peak time is the
// timestamp of the maximum either way.
func (e *Engine) computePeak(time []domain.TimePoint, series []float64, window domain.Episode) (peak, peakTime float64) {
	start, end := e.restrictWindow(time, window)
	vals := series[start : end+1]

	maxIdx := floats.MaxIdx(vals)
	peakTime = time[start+maxIdx].Seconds

	if e.opts.PeakMode == config.PeakAverageOfThree {
		top := append([]float64(nil), vals...)
		sort.Sort(sort.Reverse(sort.Float64Slice(top)))
		if len(top) > peakTopValues {
			top = top[:peakTopValues]
		}
		return stat.Mean(top, nil), peakTime
	}
	return vals[maxIdx], peakTime
}

// computeArea integrates the concentration over the restricted window
// by the trapezoidal rule, with the time column as the abscissa. A
// window of fewer than two rows has zero area.
func (e *Engine) computeArea(time []domain.TimePoint, series []float64, window domain.Episode) float64 {
	start, end := e.restrictWindow(time, window)
	if end-start < 1 {
		return 0
	}
	xs := make([]float64, 0, end-start+1)
	for row := start; row <= end; row++ {
		xs = append(xs, time[row].Seconds)
	}
	return integrate.Trapezoidal(xs, series[start:end+1])
}

// restrictWindow clips an episode's row span to the rows whose
// timestamp falls within PostStdSearchSeconds of the span's start.
// The first row always survives the restriction.
func (e *Engine) restrictWindow(time []domain.TimePoint, window domain.Episode) (start, end int) {
	start, end = window.StartRow, window.EndRow
	cutoff := time[start].Seconds + e.opts.PostStdSearchSeconds
	for end > start && time[end].Seconds > cutoff {
		end--
	}
	return start, end
}
