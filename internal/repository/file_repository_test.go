package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_records/internal/apperror"
	"github.com/locvowork/employee_records/internal/domain"
)

func sampleEmployees() []domain.Employee {
	return []domain.Employee{
		{ID: 1, FullName: "An Nguyễn", Gender: 'M', YearOfBirth: 1990, Address: "Hanoi", SalaryLevel: 3.5, YearOfEmployment: 2014},
		{ID: 2, FullName: "Binh Tran", Gender: 'F', YearOfBirth: 1985, Address: "Da Nang", SalaryLevel: 2.75, YearOfEmployment: 2010},
		{ID: 3, FullName: "Mai Nguyễn", Gender: 'F', YearOfBirth: 1992, Address: "Hue", SalaryLevel: 4, YearOfEmployment: 2019},
	}
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "employee_data.txt"))

	require.NoError(t, repo.Save(ctx, sampleEmployees()))

	snapshot, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Skipped)
	assert.Equal(t, sampleEmployees(), snapshot.Records)
}

func TestFileRepositoryLoadMissingFile(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "absent.txt"))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.GetCode(err))
}

func TestFileRepositoryLoadReportsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employee_data.txt")
	content := "1,An Nguyễn,M,1990,Hanoi,3.5,2014\n" +
		"2,Binh Tran,F,1985\n" +
		"3,Mai Nguyễn,F,1992,Hue,4,2019\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	snapshot, err := NewFileRepository(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snapshot.Records, 2)
	require.Len(t, snapshot.Skipped, 1)
	assert.Equal(t, 2, snapshot.Skipped[0].Line)
}

func TestFileRepositoryFailedSaveKeepsPreviousFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "employee_data.txt")
	repo := NewFileRepository(path)
	require.NoError(t, repo.Save(ctx, sampleEmployees()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	bad := append(sampleEmployees(), domain.Employee{ID: 9, FullName: "Tran, Binh", Gender: 'M'})
	err = repo.Save(ctx, bad)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be cleaned up")
}
