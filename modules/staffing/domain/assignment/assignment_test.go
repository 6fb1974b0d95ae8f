package assignment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

func TestNewNormalizesStartDate(t *testing.T) {
	start := time.Date(2024, 1, 1, 15, 30, 45, 0, time.FixedZone("PGT", 10*3600))
	a, err := New(uuid.New(), uuid.New(), RoleHead, start)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), a.StartDate())
	require.True(t, a.IsOpen())
	require.NotEqual(t, uuid.Nil, a.ID())
}

func TestNewRequiredFields(t *testing.T) {
	entity := uuid.New()
	holder := uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := New(uuid.Nil, holder, RoleHead, start)
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	_, err = New(entity, uuid.Nil, RoleHead, start)
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	_, err = New(entity, holder, Role("dean"), start)
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	_, err = New(entity, holder, RoleCoordinator, time.Time{})
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))
}

func TestClosedEnforcesOrdering(t *testing.T) {
	a, err := New(uuid.New(), uuid.New(), RoleCoordinator, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	closed, err := a.Closed(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.False(t, closed.IsOpen())
	require.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *closed.EndDate())

	_, err = a.Closed(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC))
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("head")
	require.NoError(t, err)
	require.Equal(t, RoleHead, role)

	_, err = ParseRole("registrar")
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))
}
