// Package sheet is the workbook I/O boundary of the converter: it
// loads an input worksheet into an immutable in-memory table and
// serializes a finished analysis report back out as xlsx. All
// spreadsheet specifics (excelize, cell addressing) stay inside this
// package.
package sheet

import (
	"context"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"calciumcli/internal/errors"
	"calciumcli/pkg/contracts/domain"
)

// ReadResult is the loaded table together with the name of the sheet
// it came from, used to title the output workbook.
type ReadResult struct {
	Table     domain.Table
	SheetName string
}

// Read loads the first worksheet of an xlsx file into a Table. The
// first row is taken as headers; every following row is data. Ragged
// rows are padded with blank cells so all columns share one length.
func Read(ctx context.Context, logger *slog.Logger, path string) (*ReadResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParsingError("workbook contains no sheets", nil)
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.NewParsingError("failed to read sheet rows", err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParsingError("sheet has no header row", nil).
			WithContext("sheet", sheetName)
	}

	headers := rows[0]
	if len(headers) == 0 {
		return nil, errors.NewParsingError("header row is empty", nil).
			WithContext("sheet", sheetName)
	}

	table := domain.Table{
		Headers: headers,
		Columns: make([][]string, len(headers)),
	}
	dataRows := rows[1:]
	for c := range table.Columns {
		table.Columns[c] = make([]string, len(dataRows))
	}
	for r, row := range dataRows {
		for c := 0; c < len(headers) && c < len(row); c++ {
			table.Columns[c][r] = row[c]
		}
	}

	logger.InfoContext(ctx, "loaded worksheet",
		slog.String("sheet", sheetName),
		slog.Int("columns", len(headers)),
		slog.Int("rows", len(dataRows)))

	return &ReadResult{Table: table, SheetName: sheetName}, nil
}
