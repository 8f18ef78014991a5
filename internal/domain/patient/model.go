package patient

import "time"

// Patient maps to the patients table. This service only reads it; the
// registry that owns the table lives elsewhere.
type Patient struct {
	ID               int64      `db:"id"`
	SHFID            *string    `db:"shf_id"`
	FirstName        string     `db:"first_name"`
	Surname          string     `db:"surname"`
	Birthdate        *time.Time `db:"birthdate"`
	Gender           *string    `db:"gender"`
	MobileNumber     *string    `db:"mobile_number"`
	CityOrVillage    *string    `db:"city_or_village"`
	SchoolName       *string    `db:"school_name"`
	EducationLevel   *string    `db:"education_level"`
	EmploymentStatus *string    `db:"employment_status"`
}

// SearchResult is the fixed projection returned by patient search. JSON keys
// follow the API contract, display-style names included.
type SearchResult struct {
	PatientID  int64   `json:"SHF Patient ID"`
	SHFID      *string `json:"shf_id"`
	Name       string  `json:"Name"`
	Age        *int    `json:"Age"`
	Birthdate  *string `json:"Birthdate"`
	Gender     *string `json:"Gender"`
	Mobile     *string `json:"Mobile"`
	School     *string `json:"School"`
	Education  *string `json:"Education"`
	Employment *string `json:"Employment"`
}

// Recipient is the minimal view used by SMS dispatch: a patient with a
// usable mobile number.
type Recipient struct {
	PatientID    int64
	MobileNumber string
}
