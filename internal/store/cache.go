// Package store provides a SQLite-backed cache of parsed record files.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/soiree/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed record caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Tracked is the file state a cached record set was parsed from.
type Tracked struct {
	MtimeNs   int64
	SizeBytes int64
	Rounding  string
	Rederived int
	ParsedAt  time.Time
}

// GetTrackedFile returns the tracking row for filePath. ok is false when the
// file has never been cached.
func (c *Cache) GetTrackedFile(filePath string) (Tracked, bool, error) {
	var t Tracked
	var parsedAt string
	err := c.db.QueryRow(`SELECT mtime_ns, size_bytes, rounding, rederived, parsed_at
		FROM file_tracker WHERE file_path = ?`, filePath).
		Scan(&t.MtimeNs, &t.SizeBytes, &t.Rounding, &t.Rederived, &parsedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Tracked{}, false, nil
	}
	if err != nil {
		return Tracked{}, false, err
	}
	t.ParsedAt, _ = time.Parse(time.RFC3339, parsedAt)
	return t, true, nil
}

// SaveRecords replaces the cached records of filePath and its tracking info
// in one transaction.
func (c *Cache) SaveRecords(filePath string, set model.RecordSet, t Tracked) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM records WHERE file_path = ?", filePath); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO records
		(file_path, seq, event_date, participants, revenue, average_ticket)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range set {
		_, err = stmt.Exec(filePath, i, r.Date.Format(model.DateLayout), r.Participants,
			r.Revenue.String(), r.AverageTicket.String())
		if err != nil {
			return err
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker
		(file_path, mtime_ns, size_bytes, rounding, rederived, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		filePath, t.MtimeNs, t.SizeBytes, t.Rounding, t.Rederived, now)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadRecords reads the cached records of filePath in file order.
func (c *Cache) LoadRecords(filePath string) (model.RecordSet, error) {
	rows, err := c.db.Query(`SELECT event_date, participants, revenue, average_ticket
		FROM records WHERE file_path = ? ORDER BY seq`, filePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	set := model.RecordSet{}
	for rows.Next() {
		var r model.EventRecord
		var date, revenue, avg string
		if err := rows.Scan(&date, &r.Participants, &revenue, &avg); err != nil {
			return nil, err
		}
		if r.Date, err = model.ParseDate(date); err != nil {
			return nil, fmt.Errorf("cached date %q: %w", date, err)
		}
		if r.Revenue, err = decimal.NewFromString(revenue); err != nil {
			return nil, fmt.Errorf("cached revenue %q: %w", revenue, err)
		}
		if r.AverageTicket, err = decimal.NewFromString(avg); err != nil {
			return nil, fmt.Errorf("cached ticket %q: %w", avg, err)
		}
		set = append(set, r)
	}
	return set, rows.Err()
}

// DeleteFile removes the cached records and tracking entry of filePath.
func (c *Cache) DeleteFile(filePath string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM records WHERE file_path = ?", filePath); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordCount returns the number of cached records across all files.
func (c *Cache) RecordCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}
