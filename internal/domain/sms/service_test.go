package sms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/starkeyhf/clinic-api/internal/domain/patient"
	smsgw "github.com/starkeyhf/clinic-api/internal/platform/sms"
)

// -- Mocks --

type mockLogRepo struct {
	entries    []*LogEntry
	views      []*LogView
	failInsert bool
	failList   bool
}

func (m *mockLogRepo) Insert(_ context.Context, entry *LogEntry) error {
	if m.failInsert {
		return errors.New("insert failed")
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockLogRepo) List(_ context.Context) ([]*LogView, error) {
	if m.failList {
		return nil, errors.New("list failed")
	}
	return m.views, nil
}

type mockRecipients struct {
	byCity map[string][]patient.Recipient
	fail   bool

	queries []string
}

func (m *mockRecipients) RecipientsByCity(_ context.Context, city string) ([]patient.Recipient, error) {
	if m.fail {
		return nil, errors.New("query failed")
	}
	m.queries = append(m.queries, city)
	return m.byCity[city], nil
}

func newDispatchService(logs *mockLogRepo, recipients *mockRecipients, sender smsgw.Sender) *Service {
	svc := NewService(logs, recipients, sender, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC) }
	return svc
}

// -- Dispatch --

func TestDispatch_Validation(t *testing.T) {
	svc := newDispatchService(&mockLogRepo{}, &mockRecipients{}, &smsgw.MockSender{})

	if _, err := svc.Dispatch(context.Background(), nil, "hello"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty cities, got %v", err)
	}
	if _, err := svc.Dispatch(context.Background(), []string{"Harare"}, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty message, got %v", err)
	}
}

func TestDispatch_OneLogPerRecipientWithRealOutcome(t *testing.T) {
	logs := &mockLogRepo{}
	recipients := &mockRecipients{byCity: map[string][]patient.Recipient{
		"Harare": {
			{PatientID: 1, MobileNumber: "263771111111"},
			{PatientID: 2, MobileNumber: "263772222222"},
		},
	}}
	sender := &smsgw.MockSender{FailFor: map[string]bool{"263772222222": true}}
	svc := newDispatchService(logs, recipients, sender)

	result, err := svc.Dispatch(context.Background(), []string{"Harare"}, "clinic tomorrow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SentCount != 1 || result.FailedCount != 1 {
		t.Errorf("expected 1 sent / 1 failed, got %d/%d", result.SentCount, result.FailedCount)
	}
	if len(logs.entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(logs.entries))
	}
	if logs.entries[0].Status != StatusSent || logs.entries[1].Status != StatusFailed {
		t.Errorf("log statuses must reflect transport outcomes: %s, %s",
			logs.entries[0].Status, logs.entries[1].Status)
	}
	for _, e := range logs.entries {
		if e.Message != "clinic tomorrow" {
			t.Errorf("unexpected message in log: %q", e.Message)
		}
	}
}

func TestDispatch_DuplicateCitiesReNotify(t *testing.T) {
	logs := &mockLogRepo{}
	recipients := &mockRecipients{byCity: map[string][]patient.Recipient{
		"Springfield": {
			{PatientID: 1, MobileNumber: "100"},
			{PatientID: 2, MobileNumber: "200"},
		},
	}}
	sender := &smsgw.MockSender{}
	svc := newDispatchService(logs, recipients, sender)

	result, err := svc.Dispatch(context.Background(), []string{"Springfield", "Springfield"}, "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two recipients times two duplicate city entries: four sends, four logs.
	if len(logs.entries) != 4 {
		t.Errorf("expected 4 log entries, got %d", len(logs.entries))
	}
	if len(sender.Calls()) != 4 {
		t.Errorf("expected 4 sends, got %d", len(sender.Calls()))
	}
	if result.SentCount != 4 {
		t.Errorf("expected 4 sent, got %d", result.SentCount)
	}
	if len(recipients.queries) != 2 {
		t.Errorf("expected each duplicate city to re-query, got %v", recipients.queries)
	}
}

func TestDispatch_CitiesProcessedInCallerOrder(t *testing.T) {
	logs := &mockLogRepo{}
	recipients := &mockRecipients{byCity: map[string][]patient.Recipient{
		"Bulawayo": {{PatientID: 1, MobileNumber: "100"}},
		"Harare":   {{PatientID: 2, MobileNumber: "200"}},
	}}
	svc := newDispatchService(logs, recipients, &smsgw.MockSender{})

	if _, err := svc.Dispatch(context.Background(), []string{"Harare", "Bulawayo"}, "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recipients.queries) != 2 || recipients.queries[0] != "Harare" || recipients.queries[1] != "Bulawayo" {
		t.Errorf("expected caller-supplied order, got %v", recipients.queries)
	}
	if logs.entries[0].PatientID != 2 || logs.entries[1].PatientID != 1 {
		t.Errorf("expected logs in dispatch order, got %d then %d",
			logs.entries[0].PatientID, logs.entries[1].PatientID)
	}
}

func TestDispatch_TransportFailureNeverAbortsLoop(t *testing.T) {
	logs := &mockLogRepo{}
	recipients := &mockRecipients{byCity: map[string][]patient.Recipient{
		"Harare": {
			{PatientID: 1, MobileNumber: "100"},
			{PatientID: 2, MobileNumber: "200"},
			{PatientID: 3, MobileNumber: "300"},
		},
	}}
	sender := &smsgw.MockSender{ShouldFail: true, FailError: "gateway down"}
	svc := newDispatchService(logs, recipients, sender)

	result, err := svc.Dispatch(context.Background(), []string{"Harare"}, "hi")
	if err != nil {
		t.Fatalf("transport failures must not abort the dispatch: %v", err)
	}
	if result.FailedCount != 3 || result.SentCount != 0 {
		t.Errorf("expected 0 sent / 3 failed, got %d/%d", result.SentCount, result.FailedCount)
	}
	if len(logs.entries) != 3 {
		t.Errorf("expected a log entry per attempted send, got %d", len(logs.entries))
	}
}

func TestDispatch_LogWriteFailureSurfaces(t *testing.T) {
	logs := &mockLogRepo{failInsert: true}
	recipients := &mockRecipients{byCity: map[string][]patient.Recipient{
		"Harare": {{PatientID: 1, MobileNumber: "100"}},
	}}
	svc := newDispatchService(logs, recipients, &smsgw.MockSender{})

	if _, err := svc.Dispatch(context.Background(), []string{"Harare"}, "hi"); err == nil {
		t.Error("expected persistence error to surface")
	}
}

func TestDispatch_RecipientQueryFailureSurfaces(t *testing.T) {
	svc := newDispatchService(&mockLogRepo{}, &mockRecipients{fail: true}, &smsgw.MockSender{})

	if _, err := svc.Dispatch(context.Background(), []string{"Harare"}, "hi"); err == nil {
		t.Error("expected recipient query error to surface")
	}
}

func TestDispatch_PerRecipientDetails(t *testing.T) {
	logs := &mockLogRepo{}
	recipients := &mockRecipients{byCity: map[string][]patient.Recipient{
		"Harare": {
			{PatientID: 1, MobileNumber: "100"},
			{PatientID: 2, MobileNumber: "200"},
		},
	}}
	sender := &smsgw.MockSender{FailFor: map[string]bool{"200": true}}
	svc := newDispatchService(logs, recipients, sender)

	result, err := svc.Dispatch(context.Background(), []string{"Harare"}, "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(result.Details))
	}
	if result.Details[0] != (RecipientResult{Recipient: 1, To: "100", Status: StatusSent}) {
		t.Errorf("unexpected first detail: %+v", result.Details[0])
	}
	if result.Details[1] != (RecipientResult{Recipient: 2, To: "200", Status: StatusFailed}) {
		t.Errorf("unexpected second detail: %+v", result.Details[1])
	}
}

// -- Logs --

func TestLogs_ReturnsViews(t *testing.T) {
	views := []*LogView{
		{ID: 2, PatientID: 1, PatientName: "Tari Moyo", Status: StatusSent},
		{ID: 1, PatientID: 9, PatientName: "Unknown", Status: StatusFailed},
	}
	svc := newDispatchService(&mockLogRepo{views: views}, &mockRecipients{}, &smsgw.MockSender{})

	got, err := svc.Logs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 {
		t.Errorf("unexpected views: %+v", got)
	}
}

func TestLogs_ErrorWrapped(t *testing.T) {
	svc := newDispatchService(&mockLogRepo{failList: true}, &mockRecipients{}, &smsgw.MockSender{})

	if _, err := svc.Logs(context.Background()); err == nil {
		t.Error("expected error from failing list")
	}
}
