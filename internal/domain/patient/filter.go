package patient

import (
	sq "github.com/Masterminds/squirrel"
)

// MatchMode selects how a search field is compared against its column.
type MatchMode int

const (
	// MatchExact compares with equality. Used for identity-typed fields.
	MatchExact MatchMode = iota
	// MatchSubstring compares case-insensitively with wildcards on both
	// sides. Used for free-text fields.
	MatchSubstring
)

// filterField declares one recognized search field. The set of fields and
// their match modes is closed; anything else a caller sends is ignored rather
// than interpreted.
type filterField struct {
	name   string
	column string
	mode   MatchMode
}

var searchFields = []filterField{
	{name: "PatientID", column: "id", mode: MatchExact},
	{name: "Surname", column: "surname", mode: MatchSubstring},
	{name: "FirstName", column: "first_name", mode: MatchSubstring},
	{name: "School", column: "school_name", mode: MatchSubstring},
	{name: "City", column: "city_or_village", mode: MatchSubstring},
}

// Filter holds the optional search fields a caller supplied. Empty fields do
// not filter.
type Filter struct {
	PatientID string
	Surname   string
	FirstName string
	School    string
	City      string
}

func (f Filter) value(name string) string {
	switch name {
	case "PatientID":
		return f.PatientID
	case "Surname":
		return f.Surname
	case "FirstName":
		return f.FirstName
	case "School":
		return f.School
	case "City":
		return f.City
	}
	return ""
}

// IsEmpty reports whether no field was supplied, meaning the query runs
// unfiltered over the whole table.
func (f Filter) IsEmpty() bool {
	for _, fd := range searchFields {
		if f.value(fd.name) != "" {
			return false
		}
	}
	return true
}

// apply appends one predicate per supplied field, AND-combined. Values ride
// as bound parameters; nothing is interpolated into the statement text.
func (f Filter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	for _, fd := range searchFields {
		v := f.value(fd.name)
		if v == "" {
			continue
		}
		switch fd.mode {
		case MatchExact:
			b = b.Where(sq.Eq{fd.column: v})
		case MatchSubstring:
			b = b.Where(sq.ILike{fd.column: "%" + v + "%"})
		}
	}
	return b
}

const patientColumns = "id, shf_id, first_name, surname, birthdate, gender, " +
	"mobile_number, city_or_village, school_name, education_level, employment_status"

// buildSearch assembles the parameterized search statement for a filter.
func buildSearch(f Filter) (string, []interface{}, error) {
	b := sq.Select(patientColumns).
		From("patients").
		PlaceholderFormat(sq.Dollar)
	return f.apply(b).ToSql()
}
