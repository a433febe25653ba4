// Package importer turns an uploaded case-tracking workbook into canonical
// employee records: row parsing, identity grouping, visa-state resolution
// and the reconcile step that replaces or merges the record set.
package importer

import (
	"bytes"
	"fmt"
	"strings"

	"visadesk-data/internal/domain"
	"visadesk-data/internal/schema"

	"github.com/xuri/excelize/v2"
)

// ParsedFile is the outcome of reading one workbook: the normalized header
// row, the surviving data rows, and the header validation warning state.
type ParsedFile struct {
	Headers       []string
	Rows          []*domain.RawRow
	Validation    schema.Validation
	RowsRead      int
	RowsDiscarded int
}

// ReadWorkbook parses the first sheet of an xlsx file. Row 1 is the header
// row; data rows in which every cell is empty are discarded. Dates are kept
// as raw cell text, interpretation is deferred to the visa resolver.
func ReadWorkbook(data []byte) (*ParsedFile, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet %q is empty", sheet)
	}

	// Header row: trim, drop blank columns, substitute canonical names.
	type column struct {
		header string
		idx    int
	}
	var cols []column
	headers := make([]string, 0, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		n := schema.NormalizeHeader(h)
		cols = append(cols, column{header: n, idx: i})
		headers = append(headers, n)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("worksheet %q has no header row", sheet)
	}

	parsed := &ParsedFile{
		Headers:    headers,
		Validation: schema.ValidateHeaders(headers),
	}
	for r := 1; r < len(rows); r++ {
		parsed.RowsRead++
		row := domain.NewRawRow()
		for _, c := range cols {
			var grid string
			if c.idx < len(rows[r]) {
				grid = rows[r][c.idx]
			}
			row.Set(c.header, resolveCell(f, sheet, c.idx+1, r+1, grid))
		}
		if row.Empty() {
			parsed.RowsDiscarded++
			continue
		}
		parsed.Rows = append(parsed.Rows, row)
	}
	return parsed, nil
}

// resolveCell picks the best available representation of a cell. GetRows
// already yields the computed result for formula cells and plain text for
// simple ones; when that comes back empty we fall back to concatenated
// rich-text runs, then to forcing a formula calculation. A cell with no
// usable representation is null.
func resolveCell(f *excelize.File, sheet string, col, row int, grid string) any {
	if grid != "" {
		return grid
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil
	}
	if runs, err := f.GetCellRichText(sheet, axis); err == nil && len(runs) > 0 {
		var b strings.Builder
		for _, run := range runs {
			b.WriteString(run.Text)
		}
		if s := b.String(); s != "" {
			return s
		}
	}
	if formula, err := f.GetCellFormula(sheet, axis); err == nil && formula != "" {
		if v, err := f.CalcCellValue(sheet, axis); err == nil && v != "" {
			return v
		}
	}
	return nil
}
