package httpapi

import (
	"bytes"
	"fmt"

	"visadesk-data/internal/service"

	"github.com/xuri/excelize/v2"
)

// exportLeadHeaders are the fixed columns written before the union of raw
// row headers.
var exportLeadHeaders = []string{
	"Employee ID",
	"First Name",
	"Last Name",
	"Department",
	"Title",
}

// GenerateEmployeesExport renders the record set as an xlsx workbook. Each
// raw history row becomes one sheet row prefixed with the owning record's
// scalar fields; records without history still get a single row.
func GenerateEmployeesExport(items []*service.EmployeeListItem) ([]byte, error) {
	f := excelize.NewFile()
	// Don't defer Close() here, WriteTo needs the file open.

	sheetName := "Employees"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	// Union of raw-row headers in first-seen order.
	var rawHeaders []string
	seen := map[string]bool{}
	for _, e := range items {
		for _, row := range e.RawRows {
			for _, k := range row.Keys() {
				if !seen[k] {
					seen[k] = true
					rawHeaders = append(rawHeaders, k)
				}
			}
		}
	}
	headers := append(append([]string{}, exportLeadHeaders...), rawHeaders...)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	rowNum := 1
	writeRow := func(values []any) error {
		rowNum++
		for col, v := range values {
			if v == nil || v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
		return nil
	}

	for _, e := range items {
		lead := []any{e.ID, e.FirstName, e.LastName, e.Department, e.Title}
		if len(e.RawRows) == 0 {
			if err := writeRow(lead); err != nil {
				f.Close()
				return nil, err
			}
			continue
		}
		for _, row := range e.RawRows {
			values := append([]any{}, lead...)
			for _, k := range rawHeaders {
				v, _ := row.Get(k)
				values = append(values, v)
			}
			if err := writeRow(values); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}
