package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
    file_path            TEXT NOT NULL,
    seq                  INTEGER NOT NULL,
    event_date           TEXT NOT NULL,
    participants         INTEGER NOT NULL,
    revenue              TEXT NOT NULL,
    average_ticket       TEXT NOT NULL,
    PRIMARY KEY (file_path, seq)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    rounding             TEXT NOT NULL,
    rederived            INTEGER NOT NULL DEFAULT 0,
    parsed_at            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_date ON records(event_date);
`
