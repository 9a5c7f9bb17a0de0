package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/locvowork/employee_records/internal/apperror"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/repository"
	"github.com/locvowork/employee_records/internal/store"
)

type memoryRepository struct {
	snapshot domain.Snapshot
	saved    []domain.Employee
	loadErr  error
	saveErr  error
}

func (r *memoryRepository) Load(ctx context.Context) (domain.Snapshot, error) {
	if r.loadErr != nil {
		return domain.Snapshot{}, r.loadErr
	}
	return r.snapshot, nil
}

func (r *memoryRepository) Save(ctx context.Context, records []domain.Employee) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = records
	return nil
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	logger.SetLogger(zerolog.New(buf).Level(zerolog.DebugLevel))
	t.Cleanup(func() { logger.SetLogger(zerolog.Nop()) })
	return buf
}

func writeDataFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employee_data.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestLoadSkipsMalformedLineWithWarning(t *testing.T) {
	logs := captureLogs(t)
	path := writeDataFile(t,
		"1,An Nguyễn,M,1990,Hanoi,3.5,2014",
		"2,Binh Tran,F,1985,Da Nang,2.75,2010",
		"3,Broken Line,F,19x5,Hue,1,2000",
		"4,Mai Nguyễn,F,1992,Hue,4,2019",
	)
	st := store.New()
	st.Insert(domain.Employee{ID: 99, FullName: "Stale Record", Gender: 'M'})
	svc := NewEmployeeService(st, repository.NewFileRepository(path))

	result, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Loaded)
	_, stale := st.Get(99)
	assert.False(t, stale, "load replaces previous contents")
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 3, result.Skipped[0].Line)
	assert.Equal(t, 3, st.Len())
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "line 3")
}

func TestLoadFailureKeepsStore(t *testing.T) {
	captureLogs(t)
	st := store.New()
	st.Insert(domain.Employee{ID: 5, FullName: "Existing", Gender: 'M'})
	svc := NewEmployeeService(st, repository.NewFileRepository(filepath.Join(t.TempDir(), "missing.txt")))

	_, err := svc.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.GetCode(err))
	require.Equal(t, 1, st.Len())
	assert.Equal(t, "Existing", st.All()[0].FullName)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	captureLogs(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "employee_data.txt")

	original := store.New()
	svc := NewEmployeeService(original, repository.NewFileRepository(path))
	for _, e := range []domain.Employee{
		{ID: 3, FullName: "Mai Nguyễn", Gender: 'F', YearOfBirth: 1992, Address: "Hue", SalaryLevel: 4.25, YearOfEmployment: 2019},
		{ID: 1, FullName: "An Nguyễn", Gender: 'M', YearOfBirth: 1990, Address: "Hanoi", SalaryLevel: 3.5, YearOfEmployment: 2014},
		{ID: 2, FullName: "Binh Tran", Gender: 'F', YearOfBirth: 1985, Address: "Da Nang", SalaryLevel: 2.75, YearOfEmployment: 2010},
	} {
		_, err := svc.Add(ctx, e)
		require.NoError(t, err)
	}
	require.NoError(t, svc.Save(ctx))

	reloaded := store.New()
	_, err := NewEmployeeService(reloaded, repository.NewFileRepository(path)).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, original.All(), reloaded.All())
}

func TestAddValidation(t *testing.T) {
	captureLogs(t)
	svc := NewEmployeeService(store.New(), &memoryRepository{})

	testCases := map[string]domain.Employee{
		"missing name":   {ID: 1, Gender: 'M'},
		"missing gender": {ID: 1, FullName: "An Nguyễn"},
		"comma in name":  {ID: 1, FullName: "Nguyễn, An", Gender: 'M'},
	}
	for name, e := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), e)
			assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))
		})
	}

	added, err := svc.Add(context.Background(), domain.Employee{ID: 1, FullName: "  An Nguyễn ", Gender: 'M'})
	require.NoError(t, err)
	assert.Equal(t, "An Nguyễn", added.FullName)
}

func TestRemoveAndGet(t *testing.T) {
	captureLogs(t)
	ctx := context.Background()
	svc := NewEmployeeService(store.New(), &memoryRepository{})
	_, err := svc.Add(ctx, domain.Employee{ID: 1, FullName: "An", Gender: 'M'})
	require.NoError(t, err)

	assert.False(t, svc.Remove(ctx, 2))
	assert.Len(t, svc.List(ctx), 1)

	_, err = svc.Get(ctx, 1)
	require.NoError(t, err)

	assert.True(t, svc.Remove(ctx, 1))
	_, err = svc.Get(ctx, 1)
	assert.Equal(t, apperror.CodeNotFound, apperror.GetCode(err))
}

func TestSummary(t *testing.T) {
	st := store.New()
	st.Reset([]domain.Employee{
		{ID: 1, FullName: "An Nguyễn", Gender: 'M', SalaryLevel: 3, YearOfEmployment: 2014},
		{ID: 2, FullName: "Binh Tran", Gender: 'f', SalaryLevel: 2, YearOfEmployment: 2015},
		{ID: 3, FullName: "Mai Nguyễn", Gender: 'F', SalaryLevel: 2, YearOfEmployment: 2014},
	})
	svc := NewEmployeeService(st, &memoryRepository{})

	summary := svc.Summary(context.Background(), SummaryQuery{ReferenceYear: 2024, ThresholdYears: 10, LastName: "Nguyễn"})
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.MaleCount)
	assert.Equal(t, 2, summary.FemaleCount)
	assert.Equal(t, 2, summary.LastNameCount)
	assert.Equal(t, 2, summary.AboveThreshold)
	require.NotNil(t, summary.HighestSeniority)
	assert.Equal(t, 1, summary.HighestSeniority.ID)
	require.NotNil(t, summary.LowestSalary)
	assert.Equal(t, 2, summary.LowestSalary.ID)
	require.NotNil(t, summary.Seniority)
	assert.Equal(t, 2, summary.Seniority.SpanYears)

	empty := NewEmployeeService(store.New(), &memoryRepository{}).Summary(context.Background(), SummaryQuery{ReferenceYear: 2024})
	assert.Nil(t, empty.HighestSeniority)
	assert.Nil(t, empty.LowestSalary)
	assert.Nil(t, empty.Seniority)
}

func TestPushPull(t *testing.T) {
	captureLogs(t)
	ctx := context.Background()

	t.Run("disabled mirror", func(t *testing.T) {
		svc := NewEmployeeService(store.New(), &memoryRepository{})
		assert.Equal(t, apperror.CodeValidation, apperror.GetCode(svc.Push(ctx)))
		_, err := svc.Pull(ctx)
		assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))
	})

	t.Run("push copies store", func(t *testing.T) {
		mirror := &memoryRepository{}
		st := store.New()
		st.Insert(domain.Employee{ID: 1, FullName: "An", Gender: 'M'})
		svc := NewEmployeeService(st, &memoryRepository{}, WithMirror(mirror))

		require.NoError(t, svc.Push(ctx))
		assert.Equal(t, st.All(), mirror.saved)
	})

	t.Run("failed pull keeps store", func(t *testing.T) {
		mirror := &memoryRepository{loadErr: errors.New("connection refused")}
		st := store.New()
		st.Insert(domain.Employee{ID: 1, FullName: "An", Gender: 'M'})
		svc := NewEmployeeService(st, &memoryRepository{}, WithMirror(mirror))

		_, err := svc.Pull(ctx)
		require.Error(t, err)
		assert.Equal(t, 1, st.Len())
	})

	t.Run("pull replaces store", func(t *testing.T) {
		mirror := &memoryRepository{snapshot: domain.Snapshot{Records: []domain.Employee{
			{ID: 8, FullName: "Cher", Gender: 'F'},
			{ID: 7, FullName: "Binh", Gender: 'F'},
		}}}
		st := store.New()
		st.Insert(domain.Employee{ID: 1, FullName: "An", Gender: 'M'})
		svc := NewEmployeeService(st, &memoryRepository{}, WithMirror(mirror))

		result, err := svc.Pull(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Loaded)
		all := st.All()
		require.Len(t, all, 2)
		assert.Equal(t, 7, all[0].ID)
	})
}

func TestExportWorkbook(t *testing.T) {
	st := store.New()
	st.Insert(domain.Employee{ID: 1, FullName: "An Nguyễn", Gender: 'M', YearOfEmployment: 2014})
	svc := NewEmployeeService(st, &memoryRepository{})

	var buf bytes.Buffer
	require.NoError(t, svc.ExportWorkbook(context.Background(), &buf, SummaryQuery{ReferenceYear: 2024, ThresholdYears: 10}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Summary")
}
