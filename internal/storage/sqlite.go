// Package storage provides SQLite-based persistence for NoCtrl records.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run and level records.
// It is safe for concurrent use by multiple sessions.
type Store struct {
	db *sql.DB
}

// RunEntry represents one finished play session.
type RunEntry struct {
	ID         int64
	Pack       string
	Player     string // Local user or SSH user name
	StartLevel int
	Level      int // Level reached
	Cleared    int
	Moves      int
	Won        bool
	CreatedAt  time.Time
}

// ClearEntry represents one cleared level.
type ClearEntry struct {
	ID        int64
	Pack      string
	Level     int
	Player    string
	Moves     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SQLite allows one writer; SSH sessions share this store.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pack TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			start_level INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL,
			cleared INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(pack, cleared DESC, moves ASC);

		CREATE TABLE IF NOT EXISTS level_clears (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pack TEXT NOT NULL,
			level INTEGER NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			moves INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_level_clears_best ON level_clears(pack, level, moves ASC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(run RunEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (pack, player, start_level, level, cleared, moves, won)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Pack, run.Player, run.StartLevel, run.Level, run.Cleared, run.Moves, run.Won,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveClear records a cleared level.
// Returns the ID of the inserted record.
func (s *Store) SaveClear(clear ClearEntry) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO level_clears (pack, level, player, moves) VALUES (?, ?, ?, ?)",
		clear.Pack, clear.Level, clear.Player, clear.Moves,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save level clear: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the best runs for a pack.
// Results are ordered by levels cleared descending, then moves ascending.
func (s *Store) TopRuns(pack string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, pack, player, start_level, level, cleared, moves, won, created_at
		 FROM runs
		 WHERE pack = ?
		 ORDER BY cleared DESC, moves ASC, id ASC
		 LIMIT ?`,
		pack, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Pack, &e.Player, &e.StartLevel, &e.Level,
			&e.Cleared, &e.Moves, &e.Won, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestClears returns the fewest-moves clear of every level of a pack,
// ordered by level number.
func (s *Store) BestClears(pack string) ([]ClearEntry, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.pack, c.level, c.player, c.moves, c.created_at
		 FROM level_clears c
		 WHERE c.pack = ? AND c.id = (
			SELECT b.id FROM level_clears b
			WHERE b.pack = c.pack AND b.level = c.level
			ORDER BY b.moves ASC, b.id ASC
			LIMIT 1
		 )
		 ORDER BY c.level ASC`,
		pack,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level clears: %w", err)
	}
	defer rows.Close()

	var entries []ClearEntry
	for rows.Next() {
		var e ClearEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Pack, &e.Level, &e.Player, &e.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestMoves returns the fewest moves a level was cleared in.
// The second result is false if the level was never cleared.
func (s *Store) BestMoves(pack string, level int) (int, bool, error) {
	var moves sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MIN(moves) FROM level_clears WHERE pack = ? AND level = ?",
		pack, level,
	).Scan(&moves)
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best moves: %w", err)
	}

	if !moves.Valid {
		return 0, false, nil
	}
	return int(moves.Int64), true, nil
}

// HighestLevel returns the highest level number ever cleared in a pack.
// Returns -1 if no level was cleared.
func (s *Store) HighestLevel(pack string) (int, error) {
	var level sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(level) FROM level_clears WHERE pack = ?",
		pack,
	).Scan(&level)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query highest level: %w", err)
	}

	if !level.Valid {
		return -1, nil
	}
	return int(level.Int64), nil
}

// PackStats contains aggregated statistics for a level pack.
type PackStats struct {
	Pack       string
	Runs       int
	Wins       int
	BestClears int
	TotalMoves int64
	LastPlayed time.Time
}

// GetPackStats retrieves aggregated statistics for a pack.
func (s *Store) GetPackStats(pack string) (*PackStats, error) {
	stats := &PackStats{Pack: pack}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0), COALESCE(MAX(cleared), 0), COALESCE(SUM(moves), 0)
		 FROM runs WHERE pack = ?`,
		pack,
	).Scan(&stats.Runs, &stats.Wins, &stats.BestClears, &stats.TotalMoves)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get pack stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE pack = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		pack,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// ClearPack deletes all records of a pack.
func (s *Store) ClearPack(pack string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE pack = ?", pack); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM level_clears WHERE pack = ?", pack); err != nil {
		return fmt.Errorf("storage: cannot clear level records: %w", err)
	}
	return nil
}

// parseTime converts a DATETIME column, which the driver may return as
// time.Time or as text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
