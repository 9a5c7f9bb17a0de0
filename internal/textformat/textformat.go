// Package textformat reads and writes employee records as comma-separated
// text, one record per line:
//
//	id,fullName,gender,yearOfBirth,address,salaryLevel,yearOfEmployment
//
// Fields are trimmed of surrounding whitespace when read and may not contain
// commas, double quotes or line breaks. The older whitespace-separated layout
// with underscores standing in for spaces is not supported.
package textformat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/locvowork/employee_records/internal/domain"
)

// FieldCount is the number of fields in one record line.
const FieldCount = 7

// maxLineSize bounds a single record line.
const maxLineSize = 1 << 20

var (
	ErrFieldCount       = errors.New("wrong number of fields")
	ErrInvalidNumber    = errors.New("invalid number")
	ErrInvalidGender    = errors.New("invalid gender")
	ErrUnsupportedField = errors.New("unsupported field content")
)

// Decode reads every record from r. Lines that cannot be parsed are skipped
// and reported in the returned LineError slice; the error result is reserved
// for failures of r itself.
func Decode(r io.Reader) ([]domain.Employee, []domain.LineError, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		records []domain.Employee
		skipped []domain.LineError
		line    int
	)
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		e, err := ParseLine(text)
		if err != nil {
			skipped = append(skipped, domain.LineError{Line: line, Err: err})
			continue
		}
		records = append(records, e)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read records after line %d: %w", line, err)
	}
	return records, skipped, nil
}

// ParseRecord builds an employee from the seven fields of one line.
func ParseRecord(fields []string) (domain.Employee, error) {
	if len(fields) != FieldCount {
		return domain.Employee{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), FieldCount)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
		if strings.ContainsRune(fields[i], '"') {
			return domain.Employee{}, fmt.Errorf("%w: field %d contains a quote", ErrUnsupportedField, i+1)
		}
	}

	var (
		e   domain.Employee
		err error
	)
	if e.ID, err = parseInt("id", fields[0]); err != nil {
		return domain.Employee{}, err
	}
	e.FullName = fields[1]
	if e.Gender, err = domain.ParseGender(fields[2]); err != nil {
		return domain.Employee{}, fmt.Errorf("%w: %v", ErrInvalidGender, err)
	}
	if e.YearOfBirth, err = parseInt("year of birth", fields[3]); err != nil {
		return domain.Employee{}, err
	}
	e.Address = fields[4]
	if e.SalaryLevel, err = parseFloat("salary level", fields[5]); err != nil {
		return domain.Employee{}, err
	}
	if e.YearOfEmployment, err = parseInt("year of employment", fields[6]); err != nil {
		return domain.Employee{}, err
	}
	return e, nil
}

// ParseLine parses a single record line, e.g. a value given on the command line.
func ParseLine(line string) (domain.Employee, error) {
	return ParseRecord(strings.Split(line, ","))
}

func parseInt(name, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidNumber, name, raw)
	}
	return v, nil
}

func parseFloat(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidNumber, name, raw)
	}
	return v, nil
}

// Encode writes records to w in order, one line each.
func Encode(w io.Writer, records []domain.Employee) error {
	bw := bufio.NewWriter(w)
	for _, e := range records {
		fields, err := FormatRecord(e)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return fmt.Errorf("write record %d: %w", e.ID, err)
		}
	}
	return bw.Flush()
}

// FormatRecord renders e as its seven text fields.
func FormatRecord(e domain.Employee) ([]string, error) {
	if e.Gender == 0 {
		return nil, fmt.Errorf("%w: record %d has no gender", ErrUnsupportedField, e.ID)
	}
	if math.IsNaN(e.SalaryLevel) || math.IsInf(e.SalaryLevel, 0) {
		return nil, fmt.Errorf("%w: record %d salary level %v", ErrUnsupportedField, e.ID, e.SalaryLevel)
	}
	fields := []string{
		strconv.Itoa(e.ID),
		e.FullName,
		e.Gender.String(),
		strconv.Itoa(e.YearOfBirth),
		e.Address,
		strconv.FormatFloat(e.SalaryLevel, 'f', -1, 64),
		strconv.Itoa(e.YearOfEmployment),
	}
	for _, f := range fields {
		if strings.ContainsAny(f, ",\"\r\n") {
			return nil, fmt.Errorf("%w: record %d field %q", ErrUnsupportedField, e.ID, f)
		}
	}
	return fields, nil
}
