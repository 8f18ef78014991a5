package patient

import (
	"context"
	"fmt"
	"time"
)

// Service runs patient searches and projects rows into the fixed output
// shape.
type Service struct {
	repo Repository

	// now feeds the age computation so it can be pinned in tests.
	now func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Search executes the filtered query and projects each row. An empty filter
// returns the whole table; callers that care should check Filter.IsEmpty
// first. Zero matching rows is a normal empty result, not an error.
func (s *Service) Search(ctx context.Context, f Filter) ([]*SearchResult, error) {
	patients, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("patient search: %w", err)
	}

	results := make([]*SearchResult, 0, len(patients))
	today := s.now()
	for _, p := range patients {
		results = append(results, project(p, today))
	}
	return results, nil
}

// project maps a patient row onto the contract's output shape: concatenated
// display name and an age in whole years computed from the birthdate.
func project(p *Patient, today time.Time) *SearchResult {
	r := &SearchResult{
		PatientID:  p.ID,
		SHFID:      p.SHFID,
		Name:       p.FirstName + " " + p.Surname,
		Gender:     p.Gender,
		Mobile:     p.MobileNumber,
		School:     p.SchoolName,
		Education:  p.EducationLevel,
		Employment: p.EmploymentStatus,
	}
	if p.Birthdate != nil {
		b := p.Birthdate.Format("2006-01-02")
		r.Birthdate = &b
		age := yearsBetween(*p.Birthdate, today)
		r.Age = &age
	}
	return r
}

// yearsBetween returns complete years elapsed from birth to today.
func yearsBetween(birth, today time.Time) int {
	years := today.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(today) {
		years--
	}
	return years
}
