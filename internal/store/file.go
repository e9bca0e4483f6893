package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rickgao/bfo-scripmaster/internal/model"
)

// FileStore keeps each table as a CSV file named after the table.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on
// the first write.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{dir: dir}
}

func (s *FileStore) path(name string) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid table name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

// Exists reports whether the table file is present.
func (s *FileStore) Exists(_ context.Context, name string) (bool, error) {
	p, err := s.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", p, err)
}

// LastModified returns the file's modification time.
func (s *FileStore) LastModified(_ context.Context, name string) (time.Time, error) {
	p, err := s.path(name)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("stat %s: %w", p, err)
	}
	return info.ModTime(), nil
}

// Read parses the CSV file. Columns are matched by header name, so files
// with extra or reordered columns still load.
func (s *FileStore) Read(_ context.Context, name string) (model.Table, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.Table{}, nil
		}
		return nil, fmt.Errorf("read header %s: %w", p, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}

	table := model.Table{}
	values := make([]string, len(model.Columns))
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		for i, col := range model.Columns {
			values[i] = ""
			if j, ok := index[col]; ok && j < len(row) {
				values[i] = row[j]
			}
		}
		table = append(table, model.RecordFromValues(values))
	}
	return table, nil
}

// Write replaces the file atomically via a temporary file in the same
// directory.
func (s *FileStore) Write(_ context.Context, name string, table model.Table) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(model.Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range table {
		if err := w.Write(rec.Values()); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("replace %s: %w", p, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
