package sms

import (
	"errors"
	"time"
)

// ErrValidation covers missing or empty required input.
var ErrValidation = errors.New("missing required input")

// Statuses recorded for each attempted send.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// LogEntry maps to the sms_logs table: one row per attempted send, written
// immediately after the attempt with the real transport outcome.
type LogEntry struct {
	ID              int64     `db:"sms_log_id"`
	PatientID       int64     `db:"patient_id"`
	RecipientNumber string    `db:"recipient_number"`
	Message         string    `db:"message"`
	Status          string    `db:"status"`
	SentAt          time.Time `db:"sent_at"`
}

// LogView is a log entry joined with the patient's display name.
type LogView struct {
	ID              int64     `db:"sms_log_id"`
	PatientID       int64     `db:"patient_id"`
	PatientName     string    `db:"patient_name"`
	RecipientNumber string    `db:"recipient_number"`
	Message         string    `db:"message"`
	Status          string    `db:"status"`
	SentAt          time.Time `db:"sent_at"`
}

// RecipientResult is the per-recipient outcome reported by a dispatch.
type RecipientResult struct {
	Recipient int64  `json:"recipient"`
	To        string `json:"to"`
	Status    string `json:"status"`
}

// DispatchResult aggregates one dispatch call across all target cities.
type DispatchResult struct {
	SentCount   int
	FailedCount int
	Details     []RecipientResult
}
