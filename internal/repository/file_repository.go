package repository

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/locvowork/employee_records/internal/apperror"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/textformat"
)

// FileRepository keeps snapshots in a comma-separated text file.
type FileRepository struct {
	path string
}

var _ domain.SnapshotRepository = (*FileRepository)(nil)

// NewFileRepository creates a repository backed by the file at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Path() string {
	return r.path
}

// Load reads every well-formed record from the file. Malformed lines are
// returned in Snapshot.Skipped.
func (r *FileRepository) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Snapshot{}, apperror.Wrap(apperror.CodeNotFound, "data file not found", err)
		}
		return domain.Snapshot{}, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	records, skipped, err := textformat.Decode(bufio.NewReader(f))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read data file %s: %w", r.path, err)
	}
	return domain.Snapshot{Records: records, Skipped: skipped}, nil
}

// Save writes records to a temporary file next to the target and renames it
// into place, so a failed save leaves the previous file intact.
func (r *FileRepository) Save(ctx context.Context, records []domain.Employee) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	w := bufio.NewWriter(tmp)
	if err = textformat.Encode(w, records); err != nil {
		return apperror.Wrap(apperror.CodeValidation, "record cannot be saved", err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync data file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	if err = os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
