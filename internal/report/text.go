// Package report renders store contents and query results for people:
// plain text for the console and Excel workbooks for download.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/locvowork/employee_records/internal/domain"
)

// FormatRecord renders one record on a single line.
func FormatRecord(e domain.Employee) string {
	return fmt.Sprintf("ID: %d, Name: %s, Gender: %s, Year of Birth: %d, Address: %s, Salary Level: %s, Year of Employment: %d",
		e.ID, e.FullName, e.Gender, e.YearOfBirth, e.Address, formatSalary(e.SalaryLevel), e.YearOfEmployment)
}

func formatSalary(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteRecords writes one line per record, in the order given.
func WriteRecords(w io.Writer, records []domain.Employee) error {
	for _, e := range records {
		if _, err := fmt.Fprintln(w, FormatRecord(e)); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary writes each aggregate result with a descriptive label.
func WriteSummary(w io.Writer, s domain.Summary) error {
	ew := &errWriter{w: w}

	ew.printf("Total employees: %d\n", s.Total)
	ew.printf("Highest seniority: %s\n", formatOptional(s.HighestSeniority))
	ew.printf("Lowest salary level: %s\n", formatOptional(s.LowestSalary))
	ew.printf("Male employees: %d\n", s.MaleCount)
	ew.printf("Female employees: %d\n", s.FemaleCount)
	if s.LastName != "" {
		ew.printf("Employees with last name %q: %d\n", s.LastName, s.LastNameCount)
	}
	ew.printf("Employees with at least %d years of service as of %d: %d\n", s.ThresholdYears, s.ReferenceYear, s.AboveThreshold)

	ew.printf("Seniority statistics:\n")
	if s.Seniority == nil {
		ew.printf("  none\n")
		return ew.err
	}
	ew.printf("  Minimum employment year: %d\n", s.Seniority.MinEmploymentYear)
	ew.printf("  Maximum employment year: %d\n", s.Seniority.MaxEmploymentYear)
	ew.printf("  Total number of years: %d\n", s.Seniority.SpanYears)
	ew.printf("  Average years of service: %.2f\n", s.Seniority.AverageYearsOfService)
	return ew.err
}

func formatOptional(e *domain.Employee) string {
	if e == nil {
		return "none"
	}
	return FormatRecord(*e)
}

// errWriter stops writing after the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
