package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/starkeyhf/clinic-api/internal/domain/patient"
	smsgw "github.com/starkeyhf/clinic-api/internal/platform/sms"
)

// RecipientSource resolves the recipients for one target city.
type RecipientSource interface {
	RecipientsByCity(ctx context.Context, city string) ([]patient.Recipient, error)
}

// Service dispatches one message to every patient with a mobile number in a
// set of target cities, recording one log entry per attempted send.
type Service struct {
	logs       Repository
	recipients RecipientSource
	sender     smsgw.Sender
	logger     zerolog.Logger

	now func() time.Time
}

func NewService(logs Repository, recipients RecipientSource, sender smsgw.Sender, logger zerolog.Logger) *Service {
	return &Service{
		logs:       logs,
		recipients: recipients,
		sender:     sender,
		logger:     logger,
		now:        time.Now,
	}
}

// Dispatch sends message to every resolved recipient, city by city, strictly
// in the caller-supplied order. Duplicate city entries are not deduplicated:
// each occurrence re-queries and re-notifies, matching how callers have
// always used this endpoint.
//
// Each send is synchronous. The outcome is classified solely by whether the
// transport accepted the message; a failed or timed-out send is logged as
// "failed" and the loop moves on — a transport failure never aborts the
// dispatch. The log entry for an attempt is written immediately after that
// attempt so a crash mid-loop cannot lose outcomes that already happened.
// Results are aggregated and returned only once every city is processed.
func (s *Service) Dispatch(ctx context.Context, cities []string, message string) (*DispatchResult, error) {
	if len(cities) == 0 || message == "" {
		return nil, fmt.Errorf("%w: cities and message are required", ErrValidation)
	}

	result := &DispatchResult{Details: []RecipientResult{}}
	for _, city := range cities {
		recipients, err := s.recipients.RecipientsByCity(ctx, city)
		if err != nil {
			return nil, fmt.Errorf("resolve recipients for %q: %w", city, err)
		}

		for _, rcpt := range recipients {
			status := StatusSent
			if err := s.sender.Send(ctx, rcpt.MobileNumber, message); err != nil {
				status = StatusFailed
				s.logger.Warn().
					Err(err).
					Int64("patient_id", rcpt.PatientID).
					Str("to", rcpt.MobileNumber).
					Msg("sms send failed")
			}

			entry := &LogEntry{
				PatientID:       rcpt.PatientID,
				RecipientNumber: rcpt.MobileNumber,
				Message:         message,
				Status:          status,
				SentAt:          s.now(),
			}
			if err := s.logs.Insert(ctx, entry); err != nil {
				return nil, fmt.Errorf("record dispatch log for patient %d: %w", rcpt.PatientID, err)
			}

			if status == StatusSent {
				result.SentCount++
			} else {
				result.FailedCount++
			}
			result.Details = append(result.Details, RecipientResult{
				Recipient: rcpt.PatientID,
				To:        rcpt.MobileNumber,
				Status:    status,
			})
		}
	}

	return result, nil
}

// Logs returns the full dispatch log, newest first.
func (s *Service) Logs(ctx context.Context) ([]*LogView, error) {
	views, err := s.logs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch sms logs: %w", err)
	}
	return views, nil
}
