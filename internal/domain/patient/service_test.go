package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// -- Mock Repository --

type mockRepo struct {
	patients []*Patient
	failWith error
}

func (m *mockRepo) Search(_ context.Context, f Filter) ([]*Patient, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}

	var out []*Patient
	for _, p := range m.patients {
		if matches(p, f) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepo) RecipientsByCity(_ context.Context, city string) ([]Recipient, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}

	var out []Recipient
	for _, p := range m.patients {
		if p.CityOrVillage == nil || *p.CityOrVillage != city {
			continue
		}
		if p.MobileNumber == nil || *p.MobileNumber == "" {
			continue
		}
		out = append(out, Recipient{PatientID: p.ID, MobileNumber: *p.MobileNumber})
	}
	return out, nil
}

func matches(p *Patient, f Filter) bool {
	if f.PatientID != "" && f.PatientID != fmt.Sprint(p.ID) {
		return false
	}
	contains := func(s *string, sub string) bool {
		return s != nil && strings.Contains(strings.ToLower(*s), strings.ToLower(sub))
	}
	if f.Surname != "" && !strings.Contains(strings.ToLower(p.Surname), strings.ToLower(f.Surname)) {
		return false
	}
	if f.FirstName != "" && !strings.Contains(strings.ToLower(p.FirstName), strings.ToLower(f.FirstName)) {
		return false
	}
	if f.School != "" && !contains(p.SchoolName, f.School) {
		return false
	}
	if f.City != "" && !contains(p.CityOrVillage, f.City) {
		return false
	}
	return true
}

func strPtr(s string) *string { return &s }

func samplePatients() []*Patient {
	b1 := time.Date(2010, 6, 15, 0, 0, 0, 0, time.UTC)
	b2 := time.Date(1985, 1, 2, 0, 0, 0, 0, time.UTC)
	return []*Patient{
		{
			ID: 1, SHFID: strPtr("SHF-001"), FirstName: "Tari", Surname: "Moyo",
			Birthdate: &b1, Gender: strPtr("F"), MobileNumber: strPtr("263771111111"),
			CityOrVillage: strPtr("Harare"), SchoolName: strPtr("Central Primary"),
			EducationLevel: strPtr("Primary"), EmploymentStatus: strPtr("Student"),
		},
		{
			ID: 2, FirstName: "Blessing", Surname: "Ncube",
			Birthdate: &b2, MobileNumber: strPtr("263772222222"),
			CityOrVillage: strPtr("Bulawayo"),
		},
		{
			ID: 3, FirstName: "Rudo", Surname: "Moyo",
			CityOrVillage: strPtr("Harare"),
		},
	}
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestSearch_ProjectionShape(t *testing.T) {
	svc := newTestService(&mockRepo{patients: samplePatients()})

	results, err := svc.Search(context.Background(), Filter{PatientID: "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.Name != "Tari Moyo" {
		t.Errorf("expected concatenated name, got %q", r.Name)
	}
	if r.Age == nil || *r.Age != 16 {
		t.Errorf("expected age 16, got %v", r.Age)
	}
	if r.Birthdate == nil || *r.Birthdate != "2010-06-15" {
		t.Errorf("unexpected birthdate: %v", r.Birthdate)
	}
	if r.Mobile == nil || *r.Mobile != "263771111111" {
		t.Errorf("unexpected mobile: %v", r.Mobile)
	}
	if r.School == nil || *r.School != "Central Primary" {
		t.Errorf("unexpected school: %v", r.School)
	}
}

func TestSearch_NilBirthdateMeansNilAge(t *testing.T) {
	svc := newTestService(&mockRepo{patients: samplePatients()})

	results, err := svc.Search(context.Background(), Filter{PatientID: "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Age != nil || results[0].Birthdate != nil {
		t.Errorf("expected nil age and birthdate, got %v %v", results[0].Age, results[0].Birthdate)
	}
}

func TestSearch_EmptyFilterReturnsEverything_Idempotent(t *testing.T) {
	svc := newTestService(&mockRepo{patients: samplePatients()})

	first, err := svc.Search(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Search(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected full table both times, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].PatientID != second[i].PatientID {
			t.Errorf("result %d differs between identical searches", i)
		}
	}
}

func TestSearch_ZeroRowsIsNotAnError(t *testing.T) {
	svc := newTestService(&mockRepo{patients: samplePatients()})

	results, err := svc.Search(context.Background(), Filter{Surname: "zzz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result, got %d", len(results))
	}
}

func TestSearch_QueryErrorWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	svc := newTestService(&mockRepo{failWith: boom})

	_, err := svc.Search(context.Background(), Filter{})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped query error, got %v", err)
	}
}

func TestYearsBetween_FloorsPartialYears(t *testing.T) {
	today := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		birth time.Time
		want  int
	}{
		{time.Date(2000, 8, 28, 0, 0, 0, 0, time.UTC), 26}, // birthday today
		{time.Date(2000, 8, 29, 0, 0, 0, 0, time.UTC), 25}, // birthday tomorrow
		{time.Date(2000, 8, 27, 0, 0, 0, 0, time.UTC), 26}, // birthday yesterday
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tc := range cases {
		if got := yearsBetween(tc.birth, today); got != tc.want {
			t.Errorf("yearsBetween(%s): expected %d, got %d", tc.birth.Format("2006-01-02"), tc.want, got)
		}
	}
}
