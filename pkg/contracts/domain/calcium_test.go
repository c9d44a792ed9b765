package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableRowCountAndCell(t *testing.T) {
	table := Table{
		Headers: []string{"Time", "Ratio 1"},
		Columns: [][]string{{"0", "6"}, {"1.1", "1.2"}},
	}

	assert.Equal(t, 2, table.RowCount())
	assert.Equal(t, "1.2", table.Cell(1, 1))

	empty := Table{}
	assert.Equal(t, 0, empty.RowCount())
}

func TestEpisodeRowSpan(t *testing.T) {
	assert.Equal(t, 1, Episode{StartRow: 4, EndRow: 4}.RowSpan())
	assert.Equal(t, 6, Episode{StartRow: 2, EndRow: 7}.RowSpan())
}
