package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emabi2002/npiams-sub001/modules/staffing/domain/assignment"
	"github.com/emabi2002/npiams-sub001/modules/staffing/infrastructure/persistence"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

type stubPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *stubPublisher) Publish(args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(args) > 0 {
		if name, ok := args[0].(string); ok {
			p.events = append(p.events, name)
		}
	}
}

func (p *stubPublisher) Subscribe(handler interface{})   {}
func (p *stubPublisher) Unsubscribe(handler interface{}) {}
func (p *stubPublisher) Clear()                          {}
func (p *stubPublisher) SubscribersCount() int           { return 0 }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newAssignmentFixture() (*AssignmentService, *persistence.MemoryAssignmentRepository, *stubPublisher) {
	repo := persistence.NewMemoryAssignmentRepository()
	publisher := &stubPublisher{}
	svc := NewAssignmentService(repo, persistence.NewMemoryTransactor(repo), publisher)
	return svc, repo, publisher
}

func TestAssignThenResolve(t *testing.T) {
	svc, _, publisher := newAssignmentFixture()
	ctx := context.Background()
	dept := uuid.New()
	alice := uuid.New()

	created, err := svc.Assign(ctx, dept, assignment.RoleHead, alice, date(2024, 1, 1))
	require.NoError(t, err)
	require.True(t, created.IsOpen())

	open, ok, err := svc.Resolve(ctx, dept, assignment.RoleHead)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, alice, open.HolderID())
	require.Equal(t, date(2024, 1, 1), open.StartDate())
	require.Equal(t, []string{"assignment.created"}, publisher.events)
}

func TestResolveWithoutHolder(t *testing.T) {
	svc, _, _ := newAssignmentFixture()

	_, ok, err := svc.Resolve(context.Background(), uuid.New(), assignment.RoleHead)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSuccessionClosesPredecessor(t *testing.T) {
	svc, _, _ := newAssignmentFixture()
	ctx := context.Background()
	dept := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.Assign(ctx, dept, assignment.RoleHead, alice, date(2024, 1, 1))
	require.NoError(t, err)
	_, err = svc.Assign(ctx, dept, assignment.RoleHead, bob, date(2024, 6, 1))
	require.NoError(t, err)

	entries, err := svc.History(ctx, dept, assignment.RoleHead)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, bob, entries[0].Assignment.HolderID())
	require.Equal(t, date(2024, 6, 1), entries[0].Assignment.StartDate())
	require.Nil(t, entries[0].Assignment.EndDate())
	require.True(t, entries[0].IsCurrent)

	require.Equal(t, alice, entries[1].Assignment.HolderID())
	require.Equal(t, date(2024, 1, 1), entries[1].Assignment.StartDate())
	require.NotNil(t, entries[1].Assignment.EndDate())
	require.Equal(t, date(2024, 6, 1), *entries[1].Assignment.EndDate())
	require.False(t, entries[1].IsCurrent)
}

func TestNoGapAcrossTransitions(t *testing.T) {
	svc, _, _ := newAssignmentFixture()
	ctx := context.Background()
	prog := uuid.New()

	starts := []time.Time{
		date(2023, 1, 1),
		date(2023, 7, 1),
		date(2024, 2, 15),
		date(2024, 9, 1),
	}
	for _, start := range starts {
		_, err := svc.Assign(ctx, prog, assignment.RoleCoordinator, uuid.New(), start)
		require.NoError(t, err)
	}

	entries, err := svc.History(ctx, prog, assignment.RoleCoordinator)
	require.NoError(t, err)
	require.Len(t, entries, len(starts))

	// Consecutive records share a boundary: the earlier record ends the
	// day the later one starts.
	for i := 0; i < len(entries)-1; i++ {
		later := entries[i].Assignment
		earlier := entries[i+1].Assignment
		require.NotNil(t, earlier.EndDate())
		require.Equal(t, later.StartDate(), *earlier.EndDate())
	}
}

func TestHistoryGrowsByOnePerAssign(t *testing.T) {
	svc, _, _ := newAssignmentFixture()
	ctx := context.Background()
	dept := uuid.New()

	for i := 1; i <= 5; i++ {
		_, err := svc.Assign(ctx, dept, assignment.RoleHead, uuid.New(), date(2024, time.Month(i), 1))
		require.NoError(t, err)

		entries, err := svc.History(ctx, dept, assignment.RoleHead)
		require.NoError(t, err)
		require.Len(t, entries, i)
	}
}

func TestSameHolderReassignmentProducesTwoRecords(t *testing.T) {
	svc, _, _ := newAssignmentFixture()
	ctx := context.Background()
	dept := uuid.New()
	alice := uuid.New()

	first, err := svc.Assign(ctx, dept, assignment.RoleHead, alice, date(2024, 1, 1))
	require.NoError(t, err)
	second, err := svc.Assign(ctx, dept, assignment.RoleHead, alice, date(2024, 3, 1))
	require.NoError(t, err)
	require.NotEqual(t, first.ID(), second.ID())

	entries, err := svc.History(ctx, dept, assignment.RoleHead)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.True(t, entries[0].IsCurrent)
	require.False(t, entries[1].IsCurrent)
}

func TestSameDayReassignmentOrdersByInsertion(t *testing.T) {
	svc, _, _ := newAssignmentFixture()
	ctx := context.Background()
	dept := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.Assign(ctx, dept, assignment.RoleHead, alice, date(2024, 5, 1))
	require.NoError(t, err)
	_, err = svc.Assign(ctx, dept, assignment.RoleHead, bob, date(2024, 5, 1))
	require.NoError(t, err)

	entries, err := svc.History(ctx, dept, assignment.RoleHead)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, bob, entries[0].Assignment.HolderID(), "most recently created first")
	require.Equal(t, alice, entries[1].Assignment.HolderID())
}

func TestAssignValidation(t *testing.T) {
	svc, _, _ := newAssignmentFixture()
	ctx := context.Background()

	_, err := svc.Assign(ctx, uuid.Nil, assignment.RoleHead, uuid.New(), date(2024, 1, 1))
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	_, err = svc.Assign(ctx, uuid.New(), assignment.RoleHead, uuid.Nil, date(2024, 1, 1))
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	_, err = svc.Assign(ctx, uuid.New(), assignment.Role("provost"), uuid.New(), date(2024, 1, 1))
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))

	_, err = svc.Assign(ctx, uuid.New(), assignment.RoleHead, uuid.New(), time.Time{})
	require.True(t, serrors.IsClass(err, serrors.ClassValidation))
}

func TestIdempotentReads(t *testing.T) {
	svc, _, _ := newAssignmentFixture()
	ctx := context.Background()
	dept := uuid.New()

	_, err := svc.Assign(ctx, dept, assignment.RoleHead, uuid.New(), date(2024, 1, 1))
	require.NoError(t, err)
	_, err = svc.Assign(ctx, dept, assignment.RoleHead, uuid.New(), date(2024, 4, 1))
	require.NoError(t, err)

	first, ok1, err := svc.Resolve(ctx, dept, assignment.RoleHead)
	require.NoError(t, err)
	second, ok2, err := svc.Resolve(ctx, dept, assignment.RoleHead)
	require.NoError(t, err)
	require.Equal(t, ok1, ok2)
	require.Equal(t, first, second)

	h1, err := svc.History(ctx, dept, assignment.RoleHead)
	require.NoError(t, err)
	h2, err := svc.History(ctx, dept, assignment.RoleHead)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestResolveReportsDuplicateOpen(t *testing.T) {
	svc, repo, _ := newAssignmentFixture()
	ctx := context.Background()
	dept := uuid.New()

	// Corrupt the store directly: two open records for the same pair.
	a1, err := assignment.New(dept, uuid.New(), assignment.RoleHead, date(2024, 1, 1))
	require.NoError(t, err)
	a2, err := assignment.New(dept, uuid.New(), assignment.RoleHead, date(2024, 2, 1))
	require.NoError(t, err)
	repo.Seed(a1)
	repo.Seed(a2)

	_, _, err = svc.Resolve(ctx, dept, assignment.RoleHead)
	require.True(t, serrors.IsClass(err, serrors.ClassIntegrity))
}

func TestConcurrentAssignKeepsSingleOpenHolder(t *testing.T) {
	svc, _, _ := newAssignmentFixture()
	ctx := context.Background()
	prog := uuid.New()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Assign(ctx, prog, assignment.RoleCoordinator, uuid.New(), date(2024, 3, 1))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.True(t, serrors.IsClass(err, serrors.ClassConflict), "unexpected error: %v", err)
	}
	require.GreaterOrEqual(t, succeeded, 1)

	open, ok, err := svc.Resolve(ctx, prog, assignment.RoleCoordinator)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, open.IsOpen())

	entries, err := svc.History(ctx, prog, assignment.RoleCoordinator)
	require.NoError(t, err)
	require.Len(t, entries, succeeded)

	currents := 0
	for _, e := range entries {
		if e.IsCurrent {
			currents++
		}
	}
	require.Equal(t, 1, currents)
}

// conflictOnceRepo makes the first insert lose the race, exercising the
// engine's single retry.
type conflictOnceRepo struct {
	assignment.Repository
	mu       sync.Mutex
	conflict bool
	inserts  int
}

func (r *conflictOnceRepo) Insert(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	r.mu.Lock()
	r.inserts++
	first := !r.conflict
	r.conflict = true
	r.mu.Unlock()
	if first {
		return assignment.Assignment{}, serrors.Conflict("STAFFING_TRANSITION_CONFLICT", "another open assignment exists for this entity and role", nil)
	}
	return r.Repository.Insert(ctx, a)
}

func TestAssignRetriesConflictOnce(t *testing.T) {
	mem := persistence.NewMemoryAssignmentRepository()
	repo := &conflictOnceRepo{Repository: mem}
	svc := NewAssignmentService(repo, persistence.NewMemoryTransactor(mem), &stubPublisher{})
	ctx := context.Background()
	dept := uuid.New()

	created, err := svc.Assign(ctx, dept, assignment.RoleHead, uuid.New(), date(2024, 1, 1))
	require.NoError(t, err)
	require.True(t, created.IsOpen())
	require.Equal(t, 2, repo.inserts)
}

type alwaysConflictRepo struct {
	assignment.Repository
	inserts int
}

func (r *alwaysConflictRepo) Insert(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	r.inserts++
	return assignment.Assignment{}, serrors.Conflict("STAFFING_TRANSITION_CONFLICT", "another open assignment exists for this entity and role", nil)
}

func TestAssignSurfacesConflictAfterRetry(t *testing.T) {
	mem := persistence.NewMemoryAssignmentRepository()
	repo := &alwaysConflictRepo{Repository: mem}
	svc := NewAssignmentService(repo, persistence.NewMemoryTransactor(mem), &stubPublisher{})

	_, err := svc.Assign(context.Background(), uuid.New(), assignment.RoleHead, uuid.New(), date(2024, 1, 1))
	require.True(t, serrors.IsClass(err, serrors.ClassConflict))
	require.Equal(t, 2, repo.inserts, "exactly one internal retry")
}

// brokenInsertRepo fails inserts on demand with a non-conflict error,
// simulating a store failure mid-transition.
type brokenInsertRepo struct {
	assignment.Repository
	broken bool
}

func (r *brokenInsertRepo) Insert(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	if r.broken {
		return assignment.Assignment{}, serrors.Internal("STAFFING_INTERNAL", "write failed", nil)
	}
	return r.Repository.Insert(ctx, a)
}

func TestFailedTransitionRollsBackClose(t *testing.T) {
	mem := persistence.NewMemoryAssignmentRepository()
	repo := &brokenInsertRepo{Repository: mem}
	svc := NewAssignmentService(repo, persistence.NewMemoryTransactor(mem), &stubPublisher{})
	ctx := context.Background()
	dept := uuid.New()
	alice := uuid.New()

	_, err := svc.Assign(ctx, dept, assignment.RoleHead, alice, date(2024, 1, 1))
	require.NoError(t, err)

	repo.broken = true
	_, err = svc.Assign(ctx, dept, assignment.RoleHead, uuid.New(), date(2024, 6, 1))
	require.Error(t, err)

	// The close of alice's record must not survive the failed insert.
	open, ok, err := svc.Resolve(ctx, dept, assignment.RoleHead)
	require.NoError(t, err)
	require.True(t, ok, "previous holder must remain open after a failed transition")
	require.Equal(t, alice, open.HolderID())
	require.True(t, open.IsOpen())

	entries, err := svc.History(ctx, dept, assignment.RoleHead)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
