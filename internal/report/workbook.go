package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/locvowork/employee_records/internal/domain"
)

// Workbook renders records and a summary into an .xlsx file.
type Workbook struct {
	layout Layout
}

func NewWorkbook(layout Layout) *Workbook {
	return &Workbook{layout: layout}
}

// Write builds the workbook and writes it to w.
func (wb *Workbook) Write(w io.Writer, records []domain.Employee, summary domain.Summary) error {
	if err := wb.layout.Validate(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, sheet := range wb.layout.Sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet.Name, err)
		}

		row := 1
		if sheet.Title != "" {
			if err := setRow(f, sheet.Name, row, []interface{}{sheet.Title}, titleStyle); err != nil {
				return err
			}
			row += 2
		}

		switch sheet.Kind {
		case SheetKindRecords:
			err = writeRecordsSheet(f, sheet, row, headerStyle, records)
		case SheetKindSummary:
			err = writeSummarySheet(f, sheet.Name, row, headerStyle, summary)
		}
		if err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRecordsSheet(f *excelize.File, sheet SheetLayout, row, headerStyle int, records []domain.Employee) error {
	headers := make([]interface{}, len(sheet.Columns))
	for i, col := range sheet.Columns {
		headers[i] = col.Header
		if col.Width > 0 {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(sheet.Name, name, name, col.Width); err != nil {
				return fmt.Errorf("set column width: %w", err)
			}
		}
	}
	if err := setRow(f, sheet.Name, row, headers, headerStyle); err != nil {
		return err
	}

	for _, e := range records {
		row++
		values := make([]interface{}, len(sheet.Columns))
		for i, col := range sheet.Columns {
			values[i] = fieldValues[col.Field](e)
		}
		if err := setRow(f, sheet.Name, row, values, 0); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sheet string, row, headerStyle int, s domain.Summary) error {
	if err := setRow(f, sheet, row, []interface{}{"Metric", "Value"}, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 48); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 90); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	lines := [][]interface{}{
		{"Reference year", s.ReferenceYear},
		{"Total employees", s.Total},
		{"Highest seniority", formatOptional(s.HighestSeniority)},
		{"Lowest salary level", formatOptional(s.LowestSalary)},
		{"Male employees", s.MaleCount},
		{"Female employees", s.FemaleCount},
	}
	if s.LastName != "" {
		lines = append(lines, []interface{}{fmt.Sprintf("Employees with last name %q", s.LastName), s.LastNameCount})
	}
	lines = append(lines, []interface{}{fmt.Sprintf("At least %d years of service", s.ThresholdYears), s.AboveThreshold})
	if s.Seniority != nil {
		lines = append(lines,
			[]interface{}{"Minimum employment year", s.Seniority.MinEmploymentYear},
			[]interface{}{"Maximum employment year", s.Seniority.MaxEmploymentYear},
			[]interface{}{"Total number of years", s.Seniority.SpanYears},
			[]interface{}{"Average years of service", s.Seniority.AverageYearsOfService},
		)
	}

	for _, line := range lines {
		row++
		if err := setRow(f, sheet, row, line, 0); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d of %s: %w", row, sheet, err)
	}
	if style == 0 || len(values) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, last, style)
}
