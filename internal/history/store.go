package history

import (
	"time"
)

// Record is one answered question. SearchResults is empty for answers that
// never touched the search path.
type Record struct {
	ID            int64
	SessionID     string
	Query         string
	Source        string
	Response      string
	SearchResults string
	CreatedAt     time.Time
}

// Store answer transcript storage interface
type Store interface {
	// CreateSession starts a new transcript session and returns its ID
	CreateSession() (string, error)

	// SaveRecord appends a record to a session
	SaveRecord(sessionID string, rec *Record) error

	// RecentRecords returns the most recent records, newest first
	RecentRecords(limit int) ([]*Record, error)

	// Close connection
	Close() error
}
