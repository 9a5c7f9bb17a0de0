package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Gender is a single-character gender marker, usually 'M' or 'F'.
type Gender rune

const (
	GenderMale   Gender = 'M'
	GenderFemale Gender = 'F'
)

// Matches reports whether g and other are the same letter, ignoring case.
func (g Gender) Matches(other Gender) bool {
	return unicode.ToUpper(rune(g)) == unicode.ToUpper(rune(other))
}

func (g Gender) String() string {
	if g == 0 {
		return ""
	}
	return string(rune(g))
}

// MarshalText renders the gender as its one-character string form.
func (g Gender) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText accepts exactly one character.
func (g *Gender) UnmarshalText(text []byte) error {
	parsed, err := ParseGender(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseGender takes the first character of a trimmed, non-empty field.
func ParseGender(raw string) (Gender, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("gender is empty")
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError {
		return 0, fmt.Errorf("gender %q is not valid UTF-8", value)
	}
	return Gender(r), nil
}

// Employee is one employee record.
type Employee struct {
	ID               int     `json:"id" db:"id"`
	FullName         string  `json:"full_name" db:"full_name"`
	Gender           Gender  `json:"gender" db:"gender"`
	YearOfBirth      int     `json:"year_of_birth" db:"year_of_birth"`
	Address          string  `json:"address" db:"address"`
	SalaryLevel      float64 `json:"salary_level" db:"salary_level"`
	YearOfEmployment int     `json:"year_of_employment" db:"year_of_employment"`
}

// LastName returns the part of FullName after its final space, or the
// whole name when it contains no space.
func (e Employee) LastName() string {
	idx := strings.LastIndexByte(e.FullName, ' ')
	return e.FullName[idx+1:]
}

// YearsOfService is the number of whole years between YearOfEmployment and referenceYear.
func (e Employee) YearsOfService(referenceYear int) int {
	return referenceYear - e.YearOfEmployment
}

// SeniorityStats summarises employment years across a set of records.
type SeniorityStats struct {
	Count                 int     `json:"count"`
	MinEmploymentYear     int     `json:"min_employment_year"`
	MaxEmploymentYear     int     `json:"max_employment_year"`
	SpanYears             int     `json:"span_years"` // MaxEmploymentYear - MinEmploymentYear + 1
	// AverageYearsOfService is the mean of referenceYear - YearOfEmployment
	// over all records, not SpanYears divided by Count.
	AverageYearsOfService float64 `json:"average_years_of_service"`
}

// Summary collects the aggregate queries answered over a store.
type Summary struct {
	ReferenceYear    int             `json:"reference_year"`
	Total            int             `json:"total"`
	HighestSeniority *Employee       `json:"highest_seniority"`
	LowestSalary     *Employee       `json:"lowest_salary"`
	MaleCount        int             `json:"male_count"`
	FemaleCount      int             `json:"female_count"`
	LastName         string          `json:"last_name,omitempty"`
	LastNameCount    int             `json:"last_name_count"`
	ThresholdYears   int             `json:"threshold_years"`
	AboveThreshold   int             `json:"above_threshold"`
	Seniority        *SeniorityStats `json:"seniority"`
}

// LineError describes one input line that was skipped while decoding.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// Snapshot is the result of reading a persisted set of records.
type Snapshot struct {
	Records []Employee
	Skipped []LineError
}
