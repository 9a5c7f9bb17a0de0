package service

import (
	"context"
	"io"
	"strings"

	"github.com/locvowork/employee_records/internal/apperror"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/report"
	"github.com/locvowork/employee_records/internal/textformat"
)

// SummaryQuery holds the caller-supplied parameters of the aggregate queries.
type SummaryQuery struct {
	ReferenceYear  int
	ThresholdYears int
	LastName       string
}

// LoadResult reports how many records a load inserted and which lines it skipped.
type LoadResult struct {
	Loaded  int                `json:"loaded"`
	Skipped []domain.LineError `json:"-"`
}

// EmployeeService is the application-facing API over the employee store.
type EmployeeService interface {
	Load(ctx context.Context) (LoadResult, error)
	Save(ctx context.Context) error
	Push(ctx context.Context) error
	Pull(ctx context.Context) (LoadResult, error)

	Add(ctx context.Context, e domain.Employee) (domain.Employee, error)
	Remove(ctx context.Context, id int) bool
	Get(ctx context.Context, id int) (domain.Employee, error)
	List(ctx context.Context) []domain.Employee

	Summary(ctx context.Context, q SummaryQuery) domain.Summary
	ExportWorkbook(ctx context.Context, w io.Writer, q SummaryQuery) error
}

type employeeService struct {
	store     domain.EmployeeStore
	snapshots domain.SnapshotRepository
	mirror    domain.SnapshotRepository
	workbook  *report.Workbook
}

// Option configures optional collaborators of the service.
type Option func(*employeeService)

// WithMirror enables Push and Pull against a secondary repository.
func WithMirror(repo domain.SnapshotRepository) Option {
	return func(s *employeeService) {
		s.mirror = repo
	}
}

// WithWorkbook sets the workbook used by ExportWorkbook.
func WithWorkbook(wb *report.Workbook) Option {
	return func(s *employeeService) {
		if wb != nil {
			s.workbook = wb
		}
	}
}

// NewEmployeeService creates a service over store, persisting through snapshots.
func NewEmployeeService(store domain.EmployeeStore, snapshots domain.SnapshotRepository, opts ...Option) EmployeeService {
	s := &employeeService{
		store:     store,
		snapshots: snapshots,
		workbook:  report.NewWorkbook(report.DefaultLayout()),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ==================== Persistence ====================

// Load replaces the store contents with the primary snapshot. When the
// snapshot cannot be read the store keeps its previous contents.
func (s *employeeService) Load(ctx context.Context) (LoadResult, error) {
	return s.loadFrom(ctx, s.snapshots, "snapshot")
}

func (s *employeeService) Save(ctx context.Context) error {
	records := s.store.All()
	if err := s.snapshots.Save(ctx, records); err != nil {
		logger.ErrorLog(ctx, "Failed to save snapshot: %v", err)
		return err
	}
	logger.InfoLog(ctx, "Saved %d employees", len(records))
	return nil
}

// Push copies the current store contents to the mirror.
func (s *employeeService) Push(ctx context.Context) error {
	if s.mirror == nil {
		return errMirrorDisabled
	}
	records := s.store.All()
	if err := s.mirror.Save(ctx, records); err != nil {
		logger.ErrorLog(ctx, "Failed to push employees to mirror: %v", err)
		return err
	}
	logger.InfoLog(ctx, "Pushed %d employees to mirror", len(records))
	return nil
}

// Pull replaces the store contents with the mirror's snapshot.
func (s *employeeService) Pull(ctx context.Context) (LoadResult, error) {
	if s.mirror == nil {
		return LoadResult{}, errMirrorDisabled
	}
	return s.loadFrom(ctx, s.mirror, "mirror")
}

var errMirrorDisabled = apperror.New(apperror.CodeValidation, "database mirror is disabled")

func (s *employeeService) loadFrom(ctx context.Context, repo domain.SnapshotRepository, source string) (LoadResult, error) {
	snapshot, err := repo.Load(ctx)
	if err != nil {
		logger.ErrorLog(ctx, "Failed to load %s: %v", source, err)
		return LoadResult{}, err
	}

	for _, skipped := range snapshot.Skipped {
		logger.WarnLog(ctx, "Skipping malformed %s record at line %d: %v", source, skipped.Line, skipped.Err)
	}
	s.store.Reset(snapshot.Records)

	logger.InfoLog(ctx, "Loaded %d employees from %s, skipped %d", len(snapshot.Records), source, len(snapshot.Skipped))
	return LoadResult{Loaded: len(snapshot.Records), Skipped: snapshot.Skipped}, nil
}

// ==================== Records ====================

// Add validates e and inserts it. Duplicate IDs are accepted.
func (s *employeeService) Add(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	e.FullName = strings.TrimSpace(e.FullName)
	e.Address = strings.TrimSpace(e.Address)
	if e.FullName == "" {
		return domain.Employee{}, apperror.New(apperror.CodeValidation, "full_name is required")
	}
	if _, err := textformat.FormatRecord(e); err != nil {
		return domain.Employee{}, apperror.Wrap(apperror.CodeValidation, "employee cannot be stored", err)
	}

	s.store.Insert(e)
	logger.InfoLog(ctx, "Added employee %d", e.ID)
	return e, nil
}

// Remove deletes the first employee with id and reports whether one existed.
func (s *employeeService) Remove(ctx context.Context, id int) bool {
	removed := s.store.Remove(id)
	if removed {
		logger.InfoLog(ctx, "Removed employee %d", id)
	} else {
		logger.DebugLog(ctx, "No employee %d to remove", id)
	}
	return removed
}

func (s *employeeService) Get(ctx context.Context, id int) (domain.Employee, error) {
	e, ok := s.store.Get(id)
	if !ok {
		return domain.Employee{}, apperror.New(apperror.CodeNotFound, "employee not found")
	}
	return e, nil
}

func (s *employeeService) List(ctx context.Context) []domain.Employee {
	return s.store.All()
}

// ==================== Queries ====================

func (s *employeeService) Summary(ctx context.Context, q SummaryQuery) domain.Summary {
	summary := domain.Summary{
		ReferenceYear:  q.ReferenceYear,
		Total:          s.store.Len(),
		MaleCount:      s.store.CountByGender(domain.GenderMale),
		FemaleCount:    s.store.CountByGender(domain.GenderFemale),
		LastName:       q.LastName,
		ThresholdYears: q.ThresholdYears,
		AboveThreshold: s.store.CountBySeniorityThreshold(q.ThresholdYears, q.ReferenceYear),
	}
	if e, ok := s.store.HighestSeniority(); ok {
		summary.HighestSeniority = &e
	}
	if e, ok := s.store.LowestSalary(); ok {
		summary.LowestSalary = &e
	}
	if q.LastName != "" {
		summary.LastNameCount = s.store.CountByLastName(q.LastName)
	}
	if stats, ok := s.store.SeniorityStats(q.ReferenceYear); ok {
		summary.Seniority = &stats
	}
	return summary
}

// ExportWorkbook writes the records and their summary as an Excel workbook.
func (s *employeeService) ExportWorkbook(ctx context.Context, w io.Writer, q SummaryQuery) error {
	if err := s.workbook.Write(w, s.store.All(), s.Summary(ctx, q)); err != nil {
		logger.ErrorLog(ctx, "Failed to export workbook: %v", err)
		return err
	}
	return nil
}
