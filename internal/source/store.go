package source

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/theirongolddev/soiree/internal/model"
	"github.com/theirongolddev/soiree/internal/ticket"
)

// Store is the durable record file. It holds no records itself: Load returns
// a fresh set and Persist overwrites the file with the set it is given.
type Store struct {
	path     string
	rounding ticket.Rounding
}

// NewStore returns a store for the CSV file at path.
func NewStore(path string, rounding ticket.Rounding) *Store {
	return &Store{path: path, rounding: rounding}
}

// Path returns the record file location.
func (s *Store) Path() string {
	return s.path
}

// Rounding returns the ticket rounding applied when records are re-derived.
func (s *Store) Rounding() ticket.Rounding {
	return s.rounding
}

// Exists reports whether the record file is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Stat returns the mtime and size of the record file. ok is false when the
// file does not exist yet.
func (s *Store) Stat() (FileInfo, bool, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileInfo{}, false, nil
		}
		return FileInfo{}, false, fmt.Errorf("%w: %w", model.ErrIO, err)
	}
	return FileInfo{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size()}, true, nil
}

// Load reads the record file. A missing file is the first run, not an
// error: it yields an empty set.
func (s *Store) Load() (ParseResult, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ParseResult{Records: model.RecordSet{}}, nil
		}
		return ParseResult{}, fmt.Errorf("%w: reading %s: %w", model.ErrIO, s.path, err)
	}

	result, err := Parse(bytes.NewReader(data), s.rounding)
	if err != nil {
		return ParseResult{}, fmt.Errorf("%w: parsing %s: %w", model.ErrIO, s.path, err)
	}
	return result, nil
}

// Persist overwrites the record file with set. The write goes to a temp
// file first and is renamed into place, so a failed write never truncates
// existing data.
func (s *Store) Persist(set model.RecordSet) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("%w: creating data dir: %w", model.ErrIO, err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, set); err != nil {
		return fmt.Errorf("%w: encoding records: %w", model.ErrIO, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("%w: writing %s: %w", model.ErrIO, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: replacing %s: %w", model.ErrIO, s.path, err)
	}
	return nil
}
