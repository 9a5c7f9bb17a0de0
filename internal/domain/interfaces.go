package domain

import "context"

// EmployeeStore is the ordered in-memory collection of employee records.
type EmployeeStore interface {
	Insert(e Employee)
	Remove(id int) bool
	Reset(records []Employee)
	Get(id int) (Employee, bool)
	All() []Employee
	Len() int

	// Aggregate queries
	HighestSeniority() (Employee, bool)
	LowestSalary() (Employee, bool)
	CountByGender(g Gender) int
	CountByLastName(name string) int
	CountBySeniorityThreshold(years, referenceYear int) int
	SeniorityStats(referenceYear int) (SeniorityStats, bool)
}

// SnapshotRepository persists and restores the full ordered record set.
type SnapshotRepository interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, records []Employee) error
}
