// Package scheduler runs the periodic maintenance tasks: the UTC-midnight
// quota sweep and the exchange symbol refresh.
package scheduler

import (
	"fmt"
	"log"

	"CandleSage/internal/bot"
	"CandleSage/internal/quota"

	"github.com/robfig/cron/v3"
)

const (
	// Quota counters reset at midnight UTC.
	quotaResetCron = "0 0 0 * * *"
	// Symbol set refresh every six hours.
	symbolRefreshCron = "0 0 */6 * * *"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron    *cron.Cron
	Quota   quota.Store
	Handler *bot.Handler
}

// NewScheduler creates a scheduler with second-granularity cron expressions.
func NewScheduler(store quota.Store, handler *bot.Handler) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Quota:   store,
		Handler: handler,
	}
}

// RegisterAll registers the quota sweep and the symbol refresh.
func (s *Scheduler) RegisterAll() error {
	if _, err := s.Cron.AddFunc(quotaResetCron, s.quotaSweep); err != nil {
		return fmt.Errorf("register quota sweep: %w", err)
	}
	if _, err := s.Cron.AddFunc(symbolRefreshCron, s.symbolRefresh); err != nil {
		return fmt.Errorf("register symbol refresh: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) quotaSweep() {
	log.Println("[INFO] running daily quota sweep")
	if err := s.Quota.ResetAll(); err != nil {
		log.Printf("[ERROR] quota sweep: %v", err)
	}
}

func (s *Scheduler) symbolRefresh() {
	log.Println("[INFO] running symbol refresh")
	if err := s.Handler.RefreshSymbols(); err != nil {
		log.Printf("[WARN] symbol refresh: %v", err)
	}
}
