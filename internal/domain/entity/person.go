package entity

import (
	"time"

	"github.com/google/uuid"
)

// Relation describes how a covered person is related to the account holder.
type Relation string

const (
	RelationSpouse  Relation = "spouse"
	RelationChild   Relation = "child"
	RelationParent  Relation = "parent"
	RelationSibling Relation = "sibling"
	RelationOther   Relation = "other"
)

// String returns the string representation of the Relation.
func (r Relation) String() string {
	return string(r)
}

// IsValid checks if the Relation is a valid value.
func (r Relation) IsValid() bool {
	switch r {
	case RelationSpouse, RelationChild, RelationParent, RelationSibling, RelationOther:
		return true
	default:
		return false
	}
}

// Label returns the Persian display label for the relation.
func (r Relation) Label() string {
	switch r {
	case RelationSpouse:
		return "همسر"
	case RelationChild:
		return "فرزند"
	case RelationParent:
		return "والدین"
	case RelationSibling:
		return "خواهر/برادر"
	case RelationOther:
		return "سایر"
	default:
		return "نامشخص"
	}
}

// ValidNationalCode reports whether code is a well-formed 10-digit
// Iranian national code with a valid check digit.
func ValidNationalCode(code string) bool {
	if len(code) != 10 {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		d := code[i]
		if d < '0' || d > '9' {
			return false
		}
		sum += int(d-'0') * (10 - i)
	}
	check := code[9]
	if check < '0' || check > '9' {
		return false
	}

	rem := sum % 11
	if rem < 2 {
		return int(check-'0') == rem
	}

	return int(check-'0') == 11-rem
}

// Person is a family member covered under a user's insurance
// registration. Each person belongs to exactly one account and is
// unique per account by national code.
type Person struct {
	ID           uuid.UUID // The unique identifier for this person.
	UserID       uuid.UUID // The account this person belongs to.
	FirstName    string    // The person's given name.
	LastName     string    // The person's family name.
	NationalCode string    // The person's 10-digit national code, unique per account.
	BirthDate    time.Time // Date of birth, date precision only.
	Relation     Relation  // Relationship to the account holder.
	CreatedAt    time.Time // Timestamp of when this person was registered.
	UpdatedAt    time.Time // Timestamp of the last modification.
}

// FullName returns the person's display name.
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Age returns the person's age in whole years at the given time.
func (p *Person) Age(now time.Time) int {
	age := now.Year() - p.BirthDate.Year()
	if now.YearDay() < p.BirthDate.YearDay() {
		age--
	}
	if age < 0 {
		age = 0
	}

	return age
}
