package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emabi2002/npiams-sub001/modules/staffing/infrastructure/persistence"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

func newEmploymentFixture() (*EmploymentService, *stubPublisher) {
	publisher := &stubPublisher{}
	repo := persistence.NewMemoryEmploymentRepository()
	svc := NewEmploymentService(repo, persistence.NewMemoryTransactor(repo), publisher)
	return svc, publisher
}

func TestAttachAllowsConcurrentOpenEmployments(t *testing.T) {
	svc, publisher := newEmploymentFixture()
	ctx := context.Background()
	carol := uuid.New()
	deptA := uuid.New()
	deptB := uuid.New()

	first, err := svc.Attach(ctx, carol, deptA, false, date(2024, 1, 1))
	require.NoError(t, err)
	second, err := svc.Attach(ctx, carol, deptB, false, date(2024, 2, 1))
	require.NoError(t, err)

	entries, err := svc.ListForStaff(ctx, carol)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.True(t, e.IsCurrent)
		require.True(t, e.Employment.IsOpen())
	}
	require.NotEqual(t, first.ID(), second.ID())
	require.Equal(t, []string{"employment.attached", "employment.attached"}, publisher.events)
}

func TestAttachPrimaryDemotesPreviousPrimary(t *testing.T) {
	svc, _ := newEmploymentFixture()
	ctx := context.Background()
	carol := uuid.New()

	first, err := svc.Attach(ctx, carol, uuid.New(), true, date(2024, 1, 1))
	require.NoError(t, err)
	second, err := svc.Attach(ctx, carol, uuid.New(), true, date(2024, 3, 1))
	require.NoError(t, err)

	entries, err := svc.ListForStaff(ctx, carol)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	primaries := 0
	for _, e := range entries {
		if e.Employment.IsPrimary() {
			primaries++
			require.Equal(t, second.ID(), e.Employment.ID())
		} else {
			require.Equal(t, first.ID(), e.Employment.ID())
		}
	}
	require.Equal(t, 1, primaries)
}

func TestSetPrimaryMovesFlag(t *testing.T) {
	svc, publisher := newEmploymentFixture()
	ctx := context.Background()
	carol := uuid.New()

	first, err := svc.Attach(ctx, carol, uuid.New(), true, date(2024, 1, 1))
	require.NoError(t, err)
	_, err = svc.Attach(ctx, carol, uuid.New(), true, date(2024, 2, 1))
	require.NoError(t, err)

	updated, err := svc.SetPrimary(ctx, carol, first.ID())
	require.NoError(t, err)
	require.True(t, updated.IsPrimary())

	entries, err := svc.ListForStaff(ctx, carol)
	require.NoError(t, err)
	primaries := 0
	for _, e := range entries {
		if e.Employment.IsPrimary() {
			primaries++
			require.Equal(t, first.ID(), e.Employment.ID())
		}
	}
	require.Equal(t, 1, primaries)
	require.Contains(t, publisher.events, "employment.primary_changed")
}

func TestSetPrimaryRejectsForeignOrClosedEmployment(t *testing.T) {
	svc, _ := newEmploymentFixture()
	ctx := context.Background()
	carol := uuid.New()

	emp, err := svc.Attach(ctx, carol, uuid.New(), false, date(2024, 1, 1))
	require.NoError(t, err)

	_, err = svc.SetPrimary(ctx, uuid.New(), emp.ID())
	require.True(t, serrors.IsClass(err, serrors.ClassNotFound), "other staff's employment: %v", err)

	_, err = svc.SetPrimary(ctx, carol, uuid.New())
	require.True(t, serrors.IsClass(err, serrors.ClassNotFound))

	_, err = svc.End(ctx, carol, emp.ID(), date(2024, 6, 1))
	require.NoError(t, err)
	_, err = svc.SetPrimary(ctx, carol, emp.ID())
	require.True(t, serrors.IsClass(err, serrors.ClassNotFound), "closed employment: %v", err)
}

func TestEndClosesOnlyTargetEmployment(t *testing.T) {
	svc, publisher := newEmploymentFixture()
	ctx := context.Background()
	carol := uuid.New()

	first, err := svc.Attach(ctx, carol, uuid.New(), true, date(2024, 1, 1))
	require.NoError(t, err)
	_, err = svc.Attach(ctx, carol, uuid.New(), false, date(2024, 2, 1))
	require.NoError(t, err)

	ended, err := svc.End(ctx, carol, first.ID(), date(2024, 7, 1))
	require.NoError(t, err)
	require.False(t, ended.IsOpen())
	require.Equal(t, date(2024, 7, 1), *ended.EndDate())

	entries, err := svc.ListForStaff(ctx, carol)
	require.NoError(t, err)
	open := 0
	for _, e := range entries {
		if e.IsCurrent {
			open++
			require.NotEqual(t, first.ID(), e.Employment.ID())
		}
	}
	require.Equal(t, 1, open)
	require.Contains(t, publisher.events, "employment.ended")
}

func TestEndValidation(t *testing.T) {
	svc, _ := newEmploymentFixture()
	ctx := context.Background()
	carol := uuid.New()

	emp, err := svc.Attach(ctx, carol, uuid.New(), false, date(2024, 3, 1))
	require.NoError(t, err)

	_, err = svc.End(ctx, carol, emp.ID(), time.Time{})
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	// End date may not precede the start date.
	_, err = svc.End(ctx, carol, emp.ID(), date(2024, 1, 1))
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	_, err = svc.End(ctx, uuid.New(), emp.ID(), date(2024, 6, 1))
	require.True(t, serrors.IsClass(err, serrors.ClassNotFound))
}

func TestAttachValidation(t *testing.T) {
	svc, _ := newEmploymentFixture()
	ctx := context.Background()

	_, err := svc.Attach(ctx, uuid.Nil, uuid.New(), false, date(2024, 1, 1))
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	_, err = svc.Attach(ctx, uuid.New(), uuid.Nil, false, date(2024, 1, 1))
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	_, err = svc.Attach(ctx, uuid.New(), uuid.New(), false, time.Time{})
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))
}
