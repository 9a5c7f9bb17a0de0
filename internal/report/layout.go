package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/locvowork/employee_records/internal/domain"
)

const (
	SheetKindRecords = "records"
	SheetKindSummary = "summary"
)

// Layout describes the sheets of an exported workbook.
type Layout struct {
	Sheets []SheetLayout `yaml:"sheets"`
}

// SheetLayout describes one sheet. Records sheets list every employee using
// Columns; summary sheets list the aggregate query results.
type SheetLayout struct {
	Name    string         `yaml:"name"`
	Kind    string         `yaml:"kind"`
	Title   string         `yaml:"title"`
	Columns []ColumnLayout `yaml:"columns"`
}

// ColumnLayout maps one employee field to a column.
type ColumnLayout struct {
	Field  string  `yaml:"field"`
	Header string  `yaml:"header"`
	Width  float64 `yaml:"width"`
}

var fieldValues = map[string]func(domain.Employee) interface{}{
	"id":                 func(e domain.Employee) interface{} { return e.ID },
	"full_name":          func(e domain.Employee) interface{} { return e.FullName },
	"last_name":          func(e domain.Employee) interface{} { return e.LastName() },
	"gender":             func(e domain.Employee) interface{} { return e.Gender.String() },
	"year_of_birth":      func(e domain.Employee) interface{} { return e.YearOfBirth },
	"address":            func(e domain.Employee) interface{} { return e.Address },
	"salary_level":       func(e domain.Employee) interface{} { return e.SalaryLevel },
	"year_of_employment": func(e domain.Employee) interface{} { return e.YearOfEmployment },
}

// DefaultLayout is used when no layout file is configured.
func DefaultLayout() Layout {
	return Layout{
		Sheets: []SheetLayout{
			{
				Name:  "Employees",
				Kind:  SheetKindRecords,
				Title: "Employee Records",
				Columns: []ColumnLayout{
					{Field: "id", Header: "ID", Width: 8},
					{Field: "full_name", Header: "Name", Width: 28},
					{Field: "gender", Header: "Gender", Width: 8},
					{Field: "year_of_birth", Header: "Year of Birth", Width: 14},
					{Field: "address", Header: "Address", Width: 32},
					{Field: "salary_level", Header: "Salary Level", Width: 14},
					{Field: "year_of_employment", Header: "Year of Employment", Width: 20},
				},
			},
			{
				Name:  "Summary",
				Kind:  SheetKindSummary,
				Title: "Summary",
			},
		},
	}
}

// LoadLayout reads a YAML layout file. An empty path yields DefaultLayout.
func LoadLayout(path string) (Layout, error) {
	if path == "" {
		return DefaultLayout(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open layout file: %w", err)
	}
	defer f.Close()

	var layout Layout
	if err := yaml.NewDecoder(f).Decode(&layout); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

// Validate checks sheet kinds and column fields.
func (l Layout) Validate() error {
	if len(l.Sheets) == 0 {
		return fmt.Errorf("layout has no sheets")
	}
	seen := make(map[string]bool, len(l.Sheets))
	for _, sheet := range l.Sheets {
		if sheet.Name == "" {
			return fmt.Errorf("layout sheet has no name")
		}
		if seen[sheet.Name] {
			return fmt.Errorf("duplicate sheet name %q", sheet.Name)
		}
		seen[sheet.Name] = true

		switch sheet.Kind {
		case SheetKindRecords:
			if len(sheet.Columns) == 0 {
				return fmt.Errorf("sheet %q has no columns", sheet.Name)
			}
			for _, col := range sheet.Columns {
				if _, ok := fieldValues[col.Field]; !ok {
					return fmt.Errorf("sheet %q: unknown field %q", sheet.Name, col.Field)
				}
			}
		case SheetKindSummary:
		default:
			return fmt.Errorf("sheet %q: unknown kind %q", sheet.Name, sheet.Kind)
		}
	}
	return nil
}
