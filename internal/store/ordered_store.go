// Package store holds the ordered in-memory employee collection.
package store

import (
	"sort"
	"sync"

	"github.com/locvowork/employee_records/internal/domain"
)

// OrderedStore keeps employee records sorted ascending by ID.
//
// Records sharing an ID are all retained. A newly inserted record goes
// immediately before the first existing record whose ID is >= its own, so
// among equal IDs the most recent insert is enumerated first.
type OrderedStore struct {
	mu      sync.RWMutex
	records []domain.Employee
}

var _ domain.EmployeeStore = (*OrderedStore)(nil)

// New returns an empty store.
func New() *OrderedStore {
	return &OrderedStore{}
}

// lowerBound returns the first index whose ID is >= id. Callers hold mu.
func (s *OrderedStore) lowerBound(id int) int {
	return sort.Search(len(s.records), func(i int) bool {
		return s.records[i].ID >= id
	})
}

// Insert places e in ID order. It never fails.
func (s *OrderedStore) Insert(e domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(e)
}

func (s *OrderedStore) insertLocked(e domain.Employee) {
	idx := s.lowerBound(e.ID)
	s.records = append(s.records, domain.Employee{})
	copy(s.records[idx+1:], s.records[idx:])
	s.records[idx] = e
}

// Remove deletes the first record with the given ID and reports whether one
// was found. An absent ID leaves the store unchanged.
func (s *OrderedStore) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.lowerBound(id)
	if idx == len(s.records) || s.records[idx].ID != id {
		return false
	}
	copy(s.records[idx:], s.records[idx+1:])
	s.records[len(s.records)-1] = domain.Employee{}
	s.records = s.records[:len(s.records)-1]
	return true
}

// Reset replaces the whole collection with records, inserted in the order given.
func (s *OrderedStore) Reset(records []domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]domain.Employee, 0, len(records))
	for _, e := range records {
		s.insertLocked(e)
	}
}

// Get returns the first record with the given ID.
func (s *OrderedStore) Get(id int) (domain.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.lowerBound(id)
	if idx == len(s.records) || s.records[idx].ID != id {
		return domain.Employee{}, false
	}
	return s.records[idx], true
}

// All returns a copy of the records in ascending ID order.
func (s *OrderedStore) All() []domain.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Employee, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records, duplicates included.
func (s *OrderedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// HighestSeniority returns the record with the earliest YearOfEmployment.
// Ties go to the record enumerated first.
func (s *OrderedStore) HighestSeniority() (domain.Employee, bool) {
	return s.minBy(func(a, b domain.Employee) bool {
		return a.YearOfEmployment < b.YearOfEmployment
	})
}

// LowestSalary returns the record with the smallest SalaryLevel.
// Ties go to the record enumerated first.
func (s *OrderedStore) LowestSalary() (domain.Employee, bool) {
	return s.minBy(func(a, b domain.Employee) bool {
		return a.SalaryLevel < b.SalaryLevel
	})
}

func (s *OrderedStore) minBy(less func(a, b domain.Employee) bool) (domain.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return domain.Employee{}, false
	}
	best := 0
	for i := 1; i < len(s.records); i++ {
		if less(s.records[i], s.records[best]) {
			best = i
		}
	}
	return s.records[best], true
}

// CountByGender counts records whose gender matches g, ignoring case.
func (s *OrderedStore) CountByGender(g domain.Gender) int {
	return s.count(func(e domain.Employee) bool {
		return e.Gender.Matches(g)
	})
}

// CountByLastName counts records whose last name equals name exactly.
func (s *OrderedStore) CountByLastName(name string) int {
	return s.count(func(e domain.Employee) bool {
		return e.LastName() == name
	})
}

// CountBySeniorityThreshold counts records employed for at least years
// as of referenceYear.
func (s *OrderedStore) CountBySeniorityThreshold(years, referenceYear int) int {
	return s.count(func(e domain.Employee) bool {
		return e.YearsOfService(referenceYear) >= years
	})
}

func (s *OrderedStore) count(match func(domain.Employee) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.records {
		if match(e) {
			n++
		}
	}
	return n
}

// SeniorityStats reports the employment-year range and the average years of
// service as of referenceYear. It returns false for an empty store.
func (s *OrderedStore) SeniorityStats(referenceYear int) (domain.SeniorityStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return domain.SeniorityStats{}, false
	}

	stats := domain.SeniorityStats{
		Count:             len(s.records),
		MinEmploymentYear: s.records[0].YearOfEmployment,
		MaxEmploymentYear: s.records[0].YearOfEmployment,
	}
	total := 0
	for _, e := range s.records {
		if e.YearOfEmployment < stats.MinEmploymentYear {
			stats.MinEmploymentYear = e.YearOfEmployment
		}
		if e.YearOfEmployment > stats.MaxEmploymentYear {
			stats.MaxEmploymentYear = e.YearOfEmployment
		}
		total += e.YearsOfService(referenceYear)
	}
	stats.SpanYears = stats.MaxEmploymentYear - stats.MinEmploymentYear + 1
	stats.AverageYearsOfService = float64(total) / float64(len(s.records))
	return stats, true
}
