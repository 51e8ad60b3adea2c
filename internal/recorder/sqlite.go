package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists prediction history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] prediction recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			user_id        INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			timeframe      TEXT NOT NULL,
			direction      TEXT,
			confidence     REAL,
			trend_strength REAL,
			risk           TEXT,
			levels         TEXT,
			rationale      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ts ON predictions(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_user ON predictions(user_id)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Record(e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := e.Prediction
	levelsJSON, err := json.Marshal(p.Levels)
	if err != nil {
		return fmt.Errorf("encode levels: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO predictions
		(timestamp, user_id, symbol, timeframe, direction, confidence, trend_strength, risk, levels, rationale)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), e.UserID, p.Symbol, p.Timeframe,
		string(p.Direction), p.Confidence, p.TrendStrength, string(p.Risk),
		string(levelsJSON), p.Rationale,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing prediction recorder")
	return r.db.Close()
}
