package program

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

// Program is a study program offered by a department, the entity a
// coordinator is assigned to.
type Program struct {
	id           uuid.UUID
	departmentID uuid.UUID
	code         string
	name         string
	createdAt    time.Time
	updatedAt    time.Time
}

func New(departmentID uuid.UUID, code, name string) (Program, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if departmentID == uuid.Nil {
		return Program{}, serrors.Validation("DIRECTORY_INVALID_DEPARTMENT", "department id is required")
	}
	if code == "" {
		return Program{}, serrors.Validation("DIRECTORY_INVALID_CODE", "program code is required")
	}
	if name == "" {
		return Program{}, serrors.Validation("DIRECTORY_INVALID_NAME", "program name is required")
	}
	now := time.Now().UTC()
	return Program{
		id:           uuid.New(),
		departmentID: departmentID,
		code:         code,
		name:         name,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func Hydrate(id, departmentID uuid.UUID, code, name string, createdAt, updatedAt time.Time) Program {
	return Program{
		id:           id,
		departmentID: departmentID,
		code:         code,
		name:         name,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (p Program) ID() uuid.UUID           { return p.id }
func (p Program) DepartmentID() uuid.UUID { return p.departmentID }
func (p Program) Code() string            { return p.code }
func (p Program) Name() string            { return p.name }
func (p Program) CreatedAt() time.Time    { return p.createdAt }
func (p Program) UpdatedAt() time.Time    { return p.updatedAt }
