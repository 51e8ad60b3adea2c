package quota

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists per-user quota counters to a SQLite database.
type SQLiteStore struct {
	db            *sql.DB
	mu            sync.Mutex
	dailyLimit    int
	referralBonus int
	now           func() time.Time // overridable in tests
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, dailyLimit, referralBonus int) (*SQLiteStore, error) {
	if dailyLimit <= 0 {
		return nil, fmt.Errorf("daily limit must be positive, got %d", dailyLimit)
	}
	if referralBonus < 0 {
		return nil, fmt.Errorf("referral bonus must not be negative, got %d", referralBonus)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so health-check reads don't block bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:            db,
		dailyLimit:    dailyLimit,
		referralBonus: referralBonus,
		now:           time.Now,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] quota store opened: %s (limit=%d bonus=%d)", dbPath, dailyLimit, referralBonus)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS users (
		user_id      INTEGER PRIMARY KEY,
		daily_used   INTEGER NOT NULL DEFAULT 0,
		referrals    INTEGER NOT NULL DEFAULT 0,
		last_updated TEXT    NOT NULL
	)`)
	return err
}

func (s *SQLiteStore) today() string {
	return s.now().UTC().Format("2006-01-02")
}

// Remaining returns the user's remaining predictions for today, creating the
// row on first contact and lazily resetting counters from previous days.
func (s *SQLiteStore) Remaining(userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()

	var dailyUsed int
	var lastUpdated string
	err := s.db.QueryRow("SELECT daily_used, last_updated FROM users WHERE user_id = ?", userID).
		Scan(&dailyUsed, &lastUpdated)
	switch {
	case err == sql.ErrNoRows:
		if _, err := s.db.Exec(
			"INSERT INTO users (user_id, daily_used, last_updated) VALUES (?, 0, ?)",
			userID, today,
		); err != nil {
			return 0, fmt.Errorf("create user %d: %w", userID, err)
		}
		return s.dailyLimit, nil
	case err != nil:
		return 0, fmt.Errorf("query user %d: %w", userID, err)
	}

	if lastUpdated < today {
		if _, err := s.db.Exec(
			"UPDATE users SET daily_used = 0, last_updated = ? WHERE user_id = ?",
			today, userID,
		); err != nil {
			return 0, fmt.Errorf("reset user %d: %w", userID, err)
		}
		return s.dailyLimit, nil
	}

	remaining := s.dailyLimit - dailyUsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Consume records one served prediction for the user.
func (s *SQLiteStore) Consume(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	if _, err := s.db.Exec(
		"INSERT OR IGNORE INTO users (user_id, daily_used, last_updated) VALUES (?, 0, ?)",
		userID, today,
	); err != nil {
		return fmt.Errorf("ensure user %d: %w", userID, err)
	}
	if _, err := s.db.Exec(
		"UPDATE users SET daily_used = daily_used + 1 WHERE user_id = ?",
		userID,
	); err != nil {
		return fmt.Errorf("consume quota for user %d: %w", userID, err)
	}
	return nil
}

// AddReferral credits the referrer: one more referral on record, and today's
// used counter reduced by the bonus (never below zero), which effectively
// grants extra predictions for the day.
func (s *SQLiteStore) AddReferral(referrerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	if _, err := s.db.Exec(
		"INSERT OR IGNORE INTO users (user_id, daily_used, last_updated) VALUES (?, 0, ?)",
		referrerID, today,
	); err != nil {
		return fmt.Errorf("ensure referrer %d: %w", referrerID, err)
	}
	if _, err := s.db.Exec(
		`UPDATE users
		 SET referrals = referrals + 1,
		     daily_used = CASE
		         WHEN daily_used >= ? THEN daily_used - ?
		         ELSE 0
		     END
		 WHERE user_id = ?`,
		s.referralBonus, s.referralBonus, referrerID,
	); err != nil {
		return fmt.Errorf("add referral for user %d: %w", referrerID, err)
	}
	return nil
}

// ResetAll zeroes every daily counter. Run from the midnight cron sweep.
func (s *SQLiteStore) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE users SET daily_used = 0, last_updated = ?", s.today())
	if err != nil {
		return fmt.Errorf("reset all quotas: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		log.Printf("[INFO] daily quota reset: %d users", n)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping() error {
	return s.db.Ping()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing quota store")
	return s.db.Close()
}
