package patient

import "context"

// Repository defines the read-only persistence interface for patients.
type Repository interface {
	// Search runs a filtered query over the patients table. An empty filter
	// returns every row.
	Search(ctx context.Context, f Filter) ([]*Patient, error)

	// RecipientsByCity returns the patients in a city that have a non-null,
	// non-empty mobile number.
	RecipientsByCity(ctx context.Context, city string) ([]Recipient, error)
}
