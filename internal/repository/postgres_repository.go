package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/repository/builder"
)

const (
	employeeTable = "employees"
	// Postgres allows at most 65535 bind parameters per statement.
	insertBatchSize = 500
)

var employeeColumns = []string{
	"position", "id", "full_name", "gender", "year_of_birth", "address", "salary_level", "year_of_employment",
}

const createEmployeeTable = `CREATE TABLE IF NOT EXISTS employees (
	position           INTEGER PRIMARY KEY,
	id                 INTEGER NOT NULL,
	full_name          TEXT NOT NULL,
	gender             TEXT NOT NULL,
	year_of_birth      INTEGER NOT NULL,
	address            TEXT NOT NULL,
	salary_level       DOUBLE PRECISION NOT NULL,
	year_of_employment INTEGER NOT NULL
)`

// PostgresRepository mirrors the ordered record set into a Postgres table.
// The position column preserves enumeration order, including the relative
// order of records that share an ID.
type PostgresRepository struct {
	db *sql.DB
}

var _ domain.SnapshotRepository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a new instance of PostgresRepository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the employees table when it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createEmployeeTable); err != nil {
		return fmt.Errorf("create employees table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Load(ctx context.Context) (domain.Snapshot, error) {
	query, args := builder.NewSQLBuilder().
		Select(employeeColumns[1:]...).
		From(employeeTable).
		OrderBy("position ASC").
		Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var snapshot domain.Snapshot
	line := 0
	for rows.Next() {
		line++
		var (
			e      domain.Employee
			gender string
		)
		if err := rows.Scan(&e.ID, &e.FullName, &gender, &e.YearOfBirth, &e.Address, &e.SalaryLevel, &e.YearOfEmployment); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan employee: %w", err)
		}
		if e.Gender, err = domain.ParseGender(gender); err != nil {
			snapshot.Skipped = append(snapshot.Skipped, domain.LineError{Line: line, Err: err})
			continue
		}
		snapshot.Records = append(snapshot.Records, e)
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("iterate employees: %w", err)
	}
	return snapshot, nil
}

// Save replaces the table contents with records in a single transaction.
func (r *PostgresRepository) Save(ctx context.Context, records []domain.Employee) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args := builder.NewSQLBuilder().Delete(employeeTable).Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear employees: %w", err)
	}

	for start := 0; start < len(records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		query, args := insertQuery(records[start:end], start)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert employees %d-%d: %w", start, end-1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit employees: %w", err)
	}
	return nil
}

func insertQuery(batch []domain.Employee, offset int) (string, []interface{}) {
	b := builder.NewSQLBuilder().Insert(employeeTable, employeeColumns...)
	for i, e := range batch {
		b.Values(offset+i, e.ID, e.FullName, e.Gender.String(), e.YearOfBirth, e.Address, e.SalaryLevel, e.YearOfEmployment)
	}
	return b.Build()
}
