package employment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

func TestNewValidation(t *testing.T) {
	staff := uuid.New()
	dept := uuid.New()
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	e, err := New(staff, dept, true, start)
	require.NoError(t, err)
	require.True(t, e.IsOpen())
	require.True(t, e.IsPrimary())

	_, err = New(uuid.Nil, dept, false, start)
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	_, err = New(staff, uuid.Nil, false, start)
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	_, err = New(staff, dept, false, time.Time{})
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))
}

func TestClosedRejectsEarlierEnd(t *testing.T) {
	e, err := New(uuid.New(), uuid.New(), false, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = e.Closed(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	closed, err := e.Closed(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.False(t, closed.IsOpen())
}
