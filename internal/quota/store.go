// Package quota tracks per-user daily prediction allowances with referral
// bonuses. Counters reset each UTC day.
package quota

// Store is the per-user daily counter consulted before every prediction.
type Store interface {
	// Remaining returns how many predictions the user has left today,
	// creating the user on first contact.
	Remaining(userID int64) (int, error)
	// Consume records one served prediction for the user.
	Consume(userID int64) error
	// AddReferral credits the referrer with bonus predictions for today and
	// bumps their referral count.
	AddReferral(referrerID int64) error
	// ResetAll zeroes every user's daily counter. Run at UTC midnight; the
	// per-row lazy reset in Remaining covers missed runs.
	ResetAll() error
	// Ping verifies the backing store is reachable (health checks).
	Ping() error
	Close() error
}
