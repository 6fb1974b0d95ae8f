package department

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

// Department is an academic department, the entity a head is assigned
// to. Departments are reference data: they are created once and edited
// rarely, so the aggregate stays deliberately small.
type Department struct {
	id        uuid.UUID
	code      string
	name      string
	createdAt time.Time
	updatedAt time.Time
}

func New(code, name string) (Department, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" {
		return Department{}, serrors.Validation("DIRECTORY_INVALID_CODE", "department code is required")
	}
	if name == "" {
		return Department{}, serrors.Validation("DIRECTORY_INVALID_NAME", "department name is required")
	}
	now := time.Now().UTC()
	return Department{
		id:        uuid.New(),
		code:      code,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func Hydrate(id uuid.UUID, code, name string, createdAt, updatedAt time.Time) Department {
	return Department{
		id:        id,
		code:      code,
		name:      name,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (d Department) ID() uuid.UUID        { return d.id }
func (d Department) Code() string         { return d.code }
func (d Department) Name() string         { return d.name }
func (d Department) CreatedAt() time.Time { return d.createdAt }
func (d Department) UpdatedAt() time.Time { return d.updatedAt }

func (d Department) Renamed(name string) (Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Department{}, serrors.Validation("DIRECTORY_INVALID_NAME", "department name is required")
	}
	d.name = name
	d.updatedAt = time.Now().UTC()
	return d, nil
}
