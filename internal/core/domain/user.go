package domain

import "time"

// DateLayout is the wire format of birth dates.
const DateLayout = "2006-01-02"

// ParseBirthDate parses a strict YYYY-MM-DD date for the named field.
func ParseBirthDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, MissingField(field)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, InvalidField(field, "must be a date formatted as YYYY-MM-DD")
	}
	return t, nil
}

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	BirthDate    time.Time
	CreatedAt    time.Time
}

// Caller is the verified identity behind a bearer token.
type Caller struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	BirthDate time.Time
}

func (u *User) Caller() *Caller {
	return &Caller{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		BirthDate: u.BirthDate,
	}
}

// UserPatch carries the mutable profile fields. Nil means "leave untouched".
type UserPatch struct {
	FirstName *string
	LastName  *string
	BirthDate *time.Time

	// Immutable names identity-defining keys (id, email, password) the
	// client tried to set. A patch carrying any is rejected.
	Immutable []string

	// Malformed is the first problem found reading the request body. It is
	// only reported to the account owner.
	Malformed error
}

func (p UserPatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.BirthDate != nil {
		u.BirthDate = *p.BirthDate
	}
}
