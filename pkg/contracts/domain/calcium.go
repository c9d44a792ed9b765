package domain

// Table is the immutable in-memory image of one worksheet: ordered
// column headers and, for each header, the column's cell values
// aligned by row index. Row 0 is the first data row; the header row
// is not part of the columns.
type Table struct {
	Headers []string   `json:"headers"`
	Columns [][]string `json:"columns"`
}

// RowCount returns the number of data rows. All columns share the
// same length.
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0])
}

// Cell returns the raw cell text at (column, row).
func (t *Table) Cell(col, row int) string {
	return t.Columns[col][row]
}

// TimePoint pairs a data row index with its timestamp in seconds.
type TimePoint struct {
	Row     int     `json:"row"`
	Seconds float64 `json:"seconds"`
}

// RegionColumn identifies one Ratio column, i.e. one imaged cell
// region.
type RegionColumn struct {
	// Column is the position of the column in the source table.
	Column int `json:"column"`
	// Header is the original header text.
	Header string `json:"header"`
	// Label is the region number: the first integer found in the
	// header, or an assigned fallback that never collides with an
	// explicit one.
	Label int `json:"label"`
	// DisplayLabel is the label shown in the output workbook,
	// optionally prefixed with the run letter from the input
	// filename (e.g. "A3").
	DisplayLabel string `json:"display_label"`
}

// SheetLayout is the resolved column structure of an input sheet.
type SheetLayout struct {
	TimeColumn   int            `json:"time_column"`
	LabelsColumn int            `json:"labels_column"`
	Regions      []RegionColumn `json:"regions"`
	Time         []TimePoint    `json:"time"`
}

// LabelEvent is a non-blank cell in the Labels column: the row where
// a new treatment period starts, together with its raw label text.
type LabelEvent struct {
	Row   int    `json:"row"`
	Label string `json:"label"`
}

// EpisodeKind classifies an episode as standard-bath baseline or
// drug treatment.
type EpisodeKind string

const (
	EpisodeBaseline  EpisodeKind = "baseline"
	EpisodeTreatment EpisodeKind = "treatment"
)

// Episode is a maximal contiguous run of rows under one treatment
// label, from its label event up to (not including) the next one.
type Episode struct {
	StartRow int         `json:"start_row"`
	EndRow   int         `json:"end_row"` // inclusive
	Label    string      `json:"label"`
	Kind     EpisodeKind `json:"kind"`
}

// RowSpan returns the number of rows the episode covers.
func (e Episode) RowSpan() int {
	return e.EndRow - e.StartRow + 1
}

// Scenario describes how a treatment episode relates to its
// surrounding baselines, which decides the rows its statistics are
// computed over.
type Scenario int

const (
	// ScenarioWashout: the treatment is immediately flanked by
	// baselines on both sides. Peak and area are searched across the
	// treatment rows plus the following wash rows.
	ScenarioWashout Scenario = 1
	// ScenarioStacked: another treatment immediately precedes this
	// one; the reference baseline is the nearest earlier baseline.
	// Statistics use the treatment's own rows only.
	ScenarioStacked Scenario = 2
	// ScenarioTail: no baseline immediately follows the treatment.
	// Statistics use the treatment's own rows only.
	ScenarioTail Scenario = 3
)

// TreatmentAssignment pairs a treatment episode with its reference
// baselines. Indices refer to positions in the episode sequence.
type TreatmentAssignment struct {
	Treatment int      `json:"treatment"`
	Anterior  int      `json:"anterior"`
	Posterior int      `json:"posterior"` // -1 when absent
	Scenario  Scenario `json:"scenario"`
}

// RegionResult holds the derived statistics for one (treatment
// episode, region) pair.
type RegionResult struct {
	Region    string   `json:"region"`
	Treatment string   `json:"treatment"`
	Scenario  Scenario `json:"scenario"`
	Base      float64  `json:"base"`
	BaseStd   float64  `json:"base_std"`
	Peak      float64  `json:"peak"`
	PeakTime  float64  `json:"peak_time"`
	Delta     float64  `json:"delta"`
	Area      float64  `json:"area"`
}

// AnalysisReport is everything the writer needs to produce the
// annotated output workbook.
type AnalysisReport struct {
	SheetName string `json:"sheet_name"`
	// Time holds one timestamp per data row.
	Time []TimePoint `json:"time"`
	// Concentrations holds, per region (same order as Regions), the
	// full converted concentration series aligned with Time.
	Concentrations [][]float64    `json:"concentrations"`
	Regions        []RegionColumn `json:"regions"`
	Events         []LabelEvent   `json:"events"`
	Episodes       []Episode      `json:"episodes"`
	Assignments    []TreatmentAssignment `json:"assignments"`
	Results        []RegionResult        `json:"results"`
}
