package replay

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS seen_messages (
	message_id TEXT PRIMARY KEY,
	seen_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_seen_at ON seen_messages(seen_at);
`

// SQLite is a replay store backed by a SQLite database, for deployments where
// the seen set must survive restarts.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenSQLite opens (creating if needed) a SQLite-backed store at path,
// retaining identifiers for ttl. A zero ttl retains them forever.
func OpenSQLite(path string, ttl time.Duration) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open replay database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize replay schema: %w", err)
	}

	return &SQLite{db: db, ttl: ttl, now: time.Now}, nil
}

// Seen reports whether the message identifier is within the retention window.
func (s *SQLite) Seen(ctx context.Context, messageID string) (bool, error) {
	var seenAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT seen_at FROM seen_messages WHERE message_id = ?`, messageID,
	).Scan(&seenAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("replay lookup: %w", err)
	}

	if s.ttl > 0 && time.Unix(seenAt, 0).Before(s.now().Add(-s.ttl)) {
		return false, nil
	}
	return true, nil
}

// Remember records the message identifier, refreshing it if already present.
func (s *SQLite) Remember(ctx context.Context, messageID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO seen_messages (message_id, seen_at) VALUES (?, ?)
		 ON CONFLICT(message_id) DO UPDATE SET seen_at = excluded.seen_at`,
		messageID, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("replay remember: %w", err)
	}
	return nil
}

// Prune deletes entries outside the retention window. Deployments run it
// periodically; Seen treats expired rows as unseen either way.
func (s *SQLite) Prune(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}
	cutoff := s.now().Add(-s.ttl).Unix()
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM seen_messages WHERE seen_at < ?`, cutoff,
	); err != nil {
		return fmt.Errorf("replay prune: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
