package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Transcript is one question/answer exchange written to the pass-through log.
// It is never read back by the chat itself.
type Transcript struct {
	ID         string
	Source     string // "chat", "server" or "ask"
	Question   string
	Answer     string
	Failed     bool
	Model      string
	DurationMS int64
	CreatedAt  time.Time
}

type TranscriptLog struct {
	db *sql.DB
}

// NewTranscriptLog opens (or creates) transcripts.db inside dataDir.
func NewTranscriptLog(dataDir string) (*TranscriptLog, error) {
	return OpenTranscriptLog(filepath.Join(dataDir, "transcripts.db"))
}

// OpenTranscriptLog opens a transcript database at an explicit path.
// ":memory:" is accepted for tests.
func OpenTranscriptLog(dbPath string) (*TranscriptLog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases coherent and
	// serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	tl := &TranscriptLog{db: db}

	if err := tl.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return tl, nil
}

func (tl *TranscriptLog) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transcripts (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		failed INTEGER NOT NULL DEFAULT 0,
		model TEXT,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transcripts_created ON transcripts(created_at);
	`

	if _, err := tl.db.Exec(schema); err != nil {
		return err
	}

	if err := tl.migrateSchema(); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	return nil
}

// migrateSchema adds columns introduced after the first release
func (tl *TranscriptLog) migrateSchema() error {
	hasDuration, err := tl.columnExists("transcripts", "duration_ms")
	if err != nil {
		return fmt.Errorf("failed to check for duration_ms column: %w", err)
	}

	if !hasDuration {
		if _, err := tl.db.Exec(`ALTER TABLE transcripts ADD COLUMN duration_ms INTEGER DEFAULT 0`); err != nil {
			return fmt.Errorf("failed to add duration_ms column: %w", err)
		}
	}

	return nil
}

// columnExists checks if a column exists in a table using PRAGMA table_info
func (tl *TranscriptLog) columnExists(tableName, columnName string) (bool, error) {
	rows, err := tl.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var dataType string
		var notNull int
		var defaultValue interface{}
		var pk int

		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return false, err
		}
		if name == columnName {
			return true, nil
		}
	}

	return false, rows.Err()
}

// Record appends t to the log, filling in ID and CreatedAt when unset.
func (tl *TranscriptLog) Record(ctx context.Context, t Transcript) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO transcripts (id, source, question, answer, failed, model, duration_ms, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tl.db.ExecContext(ctx, query,
		t.ID,
		t.Source,
		t.Question,
		t.Answer,
		t.Failed,
		t.Model,
		t.DurationMS,
		t.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record transcript: %w", err)
	}
	return nil
}

// Recent returns up to limit transcripts, newest first.
func (tl *TranscriptLog) Recent(ctx context.Context, limit int) ([]Transcript, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT id, source, question, answer, failed, model, duration_ms, created_at
	FROM transcripts
	ORDER BY created_at DESC
	LIMIT ?
	`

	rows, err := tl.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transcript
	for rows.Next() {
		var t Transcript
		var model sql.NullString
		if err := rows.Scan(
			&t.ID,
			&t.Source,
			&t.Question,
			&t.Answer,
			&t.Failed,
			&model,
			&t.DurationMS,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		t.Model = model.String
		out = append(out, t)
	}

	return out, rows.Err()
}

func (tl *TranscriptLog) Count(ctx context.Context) (int, error) {
	var n int
	err := tl.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transcripts`).Scan(&n)
	return n, err
}

// Prune deletes transcripts older than cutoff and reports how many went.
func (tl *TranscriptLog) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := tl.db.ExecContext(ctx, `DELETE FROM transcripts WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune transcripts: %w", err)
	}
	return result.RowsAffected()
}

func (tl *TranscriptLog) Close() error {
	if tl.db != nil {
		return tl.db.Close()
	}
	return nil
}
