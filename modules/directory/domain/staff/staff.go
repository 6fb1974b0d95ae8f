package staff

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

// Staff is a person on the institution's payroll: the holder side of
// role assignments and the subject of employments.
type Staff struct {
	id        uuid.UUID
	staffNo   string
	firstName string
	lastName  string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

func New(staffNo, firstName, lastName, email string) (Staff, error) {
	staffNo = strings.TrimSpace(staffNo)
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.ToLower(strings.TrimSpace(email))
	if staffNo == "" {
		return Staff{}, serrors.Validation("DIRECTORY_INVALID_STAFF_NO", "staff number is required")
	}
	if firstName == "" || lastName == "" {
		return Staff{}, serrors.Validation("DIRECTORY_INVALID_NAME", "first and last name are required")
	}
	now := time.Now().UTC()
	return Staff{
		id:        uuid.New(),
		staffNo:   staffNo,
		firstName: firstName,
		lastName:  lastName,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func Hydrate(id uuid.UUID, staffNo, firstName, lastName, email string, createdAt, updatedAt time.Time) Staff {
	return Staff{
		id:        id,
		staffNo:   staffNo,
		firstName: firstName,
		lastName:  lastName,
		email:     email,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (s Staff) ID() uuid.UUID        { return s.id }
func (s Staff) StaffNo() string      { return s.staffNo }
func (s Staff) FirstName() string    { return s.firstName }
func (s Staff) LastName() string     { return s.lastName }
func (s Staff) Email() string        { return s.email }
func (s Staff) CreatedAt() time.Time { return s.createdAt }
func (s Staff) UpdatedAt() time.Time { return s.updatedAt }

func (s Staff) DisplayName() string {
	return s.firstName + " " + s.lastName
}
