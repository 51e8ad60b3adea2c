package recorder

import "CandleSage/internal/model"

// Entry holds one served prediction for the history log.
type Entry struct {
	UserID     int64
	Prediction *model.Prediction
}

// Recorder persists served predictions for later analysis.
type Recorder interface {
	Record(e *Entry) error
	Close() error
}
