// internal/store/sqlite.go
//
// SQLite-backed Archive.
// Responsibilities:
//   - Opening SQLite with safe defaults (busy timeout, foreign keys; WAL for
//     file databases).
//   - Applying embedded migrations from assets/sql (idempotent, recorded in
//     _migrations).
//   - Storing finished matches with histories encoded as JSON.
//
// The default DSN is a shared in-memory database, so nothing survives a
// process restart.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-arena/assets"
	"github.com/robalobadob/wordle-arena/internal/game"
)

// tsLayout is fixed-width so finished_at sorts lexically.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultDSN keeps the archive in memory for the life of the process.
const DefaultDSN = "file:arena?mode=memory&cache=shared"

// SQLite is an Archive over database/sql.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens dsn, applies migrations and returns the archive.
func OpenSQLite(dsn string) (*SQLite, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }

// openDB opens (and creates if missing) a SQLite database.
func openDB(dsn string) (*sql.DB, error) {
	inMemory := strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, ":memory:")

	// Ensure directory exists for ./data/arena.db, etc.
	if !inMemory && !strings.HasPrefix(dsn, "file:") {
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	params := "_busy_timeout=5000&_foreign_keys=on"
	if !inMemory {
		params += "&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn+sep+params)
	if err != nil {
		return nil, err
	}
	if inMemory {
		// A shared in-memory database lives only while a connection is open.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// migrate applies *.sql files from fsys in lexical order, skipping files
// already recorded in _migrations.
func migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

func (s *SQLite) Save(ctx context.Context, m Match) error {
	one, err := json.Marshal(m.HistoryOne)
	if err != nil {
		return fmt.Errorf("encode history one: %w", err)
	}
	two, err := json.Marshal(m.HistoryTwo)
	if err != nil {
		return fmt.Errorf("encode history two: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO matches
            (id, secret_word, winner, total_turns, max_turns, history_one, history_two, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, string(m.SecretWord), string(m.Winner), m.TotalTurns, m.MaxTurns,
		string(one), string(two),
		m.StartedAt.UTC().Format(tsLayout), m.FinishedAt.UTC().Format(tsLayout),
	)
	return err
}

const matchColumns = `id, secret_word, winner, total_turns, max_turns, history_one, history_two, started_at, finished_at`

func (s *SQLite) Get(ctx context.Context, id string) (Match, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id=?`, id)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Match{}, ErrNotFound
	}
	return m, err
}

func (s *SQLite) Recent(ctx context.Context, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+matchColumns+`
        FROM matches
        ORDER BY finished_at DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Match, 0, limit)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (Match, error) {
	var (
		m                 Match
		secret, winner    string
		one, two          string
		started, finished string
	)
	if err := row.Scan(&m.ID, &secret, &winner, &m.TotalTurns, &m.MaxTurns, &one, &two, &started, &finished); err != nil {
		return Match{}, err
	}
	m.SecretWord = game.Word(secret)
	m.Winner = game.Winner(winner)
	if err := json.Unmarshal([]byte(one), &m.HistoryOne); err != nil {
		return Match{}, fmt.Errorf("decode history one: %w", err)
	}
	if err := json.Unmarshal([]byte(two), &m.HistoryTwo); err != nil {
		return Match{}, fmt.Errorf("decode history two: %w", err)
	}
	m.StartedAt, _ = time.Parse(tsLayout, started)
	m.FinishedAt, _ = time.Parse(tsLayout, finished)
	return m, nil
}
