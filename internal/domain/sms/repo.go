package sms

import "context"

// Repository defines the persistence interface for the dispatch log.
type Repository interface {
	// Insert writes one log entry. Called once per attempted send, right
	// after the attempt.
	Insert(ctx context.Context, entry *LogEntry) error

	// List returns all log entries newest-first, each joined with the
	// patient's display name.
	List(ctx context.Context) ([]*LogView, error)
}
