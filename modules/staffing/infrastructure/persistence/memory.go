package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emabi2002/npiams-sub001/modules/staffing/domain/assignment"
	"github.com/emabi2002/npiams-sub001/modules/staffing/domain/employment"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

// In-memory counterparts of the Postgres repositories. They enforce the
// same invariants the schema enforces (single open holder, primary
// uniqueness, date ordering) so services behave identically against
// either backing store. Used by tests and local tooling.

type MemoryAssignmentRepository struct {
	mu      sync.RWMutex
	records []assignment.Assignment
	nextSeq int64
}

func NewMemoryAssignmentRepository() *MemoryAssignmentRepository {
	return &MemoryAssignmentRepository{}
}

func (r *MemoryAssignmentRepository) Insert(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.EndDate() != nil && a.EndDate().Before(a.StartDate()) {
		return assignment.Assignment{}, serrors.Validation("STAFFING_INVALID_END", "end date precedes start date")
	}
	if a.IsOpen() {
		for _, existing := range r.records {
			if existing.EntityID() == a.EntityID() && existing.Role() == a.Role() && existing.IsOpen() {
				// Mirrors the partial unique index: the second committer
				// loses.
				return assignment.Assignment{}, serrors.Conflict(
					"STAFFING_TRANSITION_CONFLICT",
					"another open assignment exists for this entity and role",
					nil,
				)
			}
		}
	}

	r.nextSeq++
	stored := assignment.Hydrate(
		a.ID(), a.EntityID(), a.HolderID(), a.Role(),
		a.StartDate(), a.EndDate(), r.nextSeq, time.Now().UTC(),
	)
	r.records = append(r.records, stored)
	return stored, nil
}

// Seed stores a record without invariant checks. Tests use it to set up
// corrupted states the repository must detect.
func (r *MemoryAssignmentRepository) Seed(a assignment.Assignment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSeq++
	r.records = append(r.records, assignment.Hydrate(
		a.ID(), a.EntityID(), a.HolderID(), a.Role(),
		a.StartDate(), a.EndDate(), r.nextSeq, time.Now().UTC(),
	))
}

func (r *MemoryAssignmentRepository) FindOpen(ctx context.Context, entityID uuid.UUID, role assignment.Role) (assignment.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findOpenLocked(entityID, role)
}

func (r *MemoryAssignmentRepository) FindOpenForUpdate(ctx context.Context, entityID uuid.UUID, role assignment.Role) (assignment.Assignment, bool, error) {
	return r.FindOpen(ctx, entityID, role)
}

func (r *MemoryAssignmentRepository) findOpenLocked(entityID uuid.UUID, role assignment.Role) (assignment.Assignment, bool, error) {
	var found []assignment.Assignment
	for _, a := range r.records {
		if a.EntityID() == entityID && a.Role() == role && a.IsOpen() {
			found = append(found, a)
		}
	}
	switch len(found) {
	case 0:
		return assignment.Assignment{}, false, nil
	case 1:
		return found[0], true, nil
	default:
		return assignment.Assignment{}, false, serrors.Integrity(
			"STAFFING_DUPLICATE_OPEN",
			"more than one open assignment for entity/role; manual correction required",
		)
	}
}

func (r *MemoryAssignmentRepository) ListHistory(_ context.Context, entityID uuid.UUID, role assignment.Role) ([]assignment.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []assignment.Assignment
	for _, a := range r.records {
		if a.EntityID() == entityID && a.Role() == role {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate().Equal(out[j].StartDate()) {
			return out[i].StartDate().After(out[j].StartDate())
		}
		return out[i].Seq() > out[j].Seq()
	})
	return out, nil
}

func (r *MemoryAssignmentRepository) Close(_ context.Context, id uuid.UUID, endDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.records {
		if a.ID() == id {
			closed, err := a.Closed(endDate)
			if err != nil {
				return err
			}
			r.records[i] = closed
			return nil
		}
	}
	return serrors.NotFound("STAFFING_ASSIGNMENT_NOT_FOUND", "role assignment not found")
}

type MemoryEmploymentRepository struct {
	mu      sync.RWMutex
	records []employment.Employment
	nextSeq int64
}

func NewMemoryEmploymentRepository() *MemoryEmploymentRepository {
	return &MemoryEmploymentRepository{}
}

func (r *MemoryEmploymentRepository) Insert(_ context.Context, e employment.Employment) (employment.Employment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.EndDate() != nil && e.EndDate().Before(e.StartDate()) {
		return employment.Employment{}, serrors.Validation("STAFFING_INVALID_END", "end date precedes start date")
	}
	if e.IsPrimary() && e.IsOpen() {
		for _, existing := range r.records {
			if existing.StaffID() == e.StaffID() && existing.IsPrimary() && existing.IsOpen() {
				return employment.Employment{}, serrors.Conflict(
					"STAFFING_PRIMARY_CONFLICT",
					"staff member already has an open primary employment",
					nil,
				)
			}
		}
	}

	r.nextSeq++
	stored := employment.Hydrate(
		e.ID(), e.StaffID(), e.DepartmentID(), e.IsPrimary(),
		e.StartDate(), e.EndDate(), r.nextSeq, time.Now().UTC(),
	)
	r.records = append(r.records, stored)
	return stored, nil
}

func (r *MemoryEmploymentRepository) GetByID(_ context.Context, id uuid.UUID) (employment.Employment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.records {
		if e.ID() == id {
			return e, nil
		}
	}
	return employment.Employment{}, serrors.NotFound("STAFFING_EMPLOYMENT_NOT_FOUND", "employment not found")
}

func (r *MemoryEmploymentRepository) ListForStaff(_ context.Context, staffID uuid.UUID) ([]employment.Employment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []employment.Employment
	for _, e := range r.records {
		if e.StaffID() == staffID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate().Equal(out[j].StartDate()) {
			return out[i].StartDate().After(out[j].StartDate())
		}
		return out[i].Seq() > out[j].Seq()
	})
	return out, nil
}

func (r *MemoryEmploymentRepository) ListOpenForStaffForUpdate(_ context.Context, staffID uuid.UUID) ([]employment.Employment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []employment.Employment
	for _, e := range r.records {
		if e.StaffID() == staffID && e.IsOpen() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq() < out[j].Seq() })
	return out, nil
}

func (r *MemoryEmploymentRepository) SetPrimaryFlag(_ context.Context, id uuid.UUID, isPrimary bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.records {
		if e.ID() == id {
			r.records[i] = employment.Hydrate(
				e.ID(), e.StaffID(), e.DepartmentID(), isPrimary,
				e.StartDate(), e.EndDate(), e.Seq(), e.CreatedAt(),
			)
			return nil
		}
	}
	return serrors.NotFound("STAFFING_EMPLOYMENT_NOT_FOUND", "employment not found")
}

func (r *MemoryEmploymentRepository) Close(_ context.Context, id uuid.UUID, endDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.records {
		if e.ID() == id {
			closed, err := e.Closed(endDate)
			if err != nil {
				return err
			}
			r.records[i] = closed
			return nil
		}
	}
	return serrors.NotFound("STAFFING_EMPLOYMENT_NOT_FOUND", "employment not found")
}

// MemoryStore is a repository whose state the MemoryTransactor can
// capture and roll back.
type MemoryStore interface {
	snapshot() any
	restore(state any)
}

type assignmentState struct {
	records []assignment.Assignment
	nextSeq int64
}

func (r *MemoryAssignmentRepository) snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]assignment.Assignment, len(r.records))
	copy(records, r.records)
	return assignmentState{records: records, nextSeq: r.nextSeq}
}

func (r *MemoryAssignmentRepository) restore(state any) {
	s := state.(assignmentState)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = s.records
	r.nextSeq = s.nextSeq
}

type employmentState struct {
	records []employment.Employment
	nextSeq int64
}

func (r *MemoryEmploymentRepository) snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]employment.Employment, len(r.records))
	copy(records, r.records)
	return employmentState{records: records, nextSeq: r.nextSeq}
}

func (r *MemoryEmploymentRepository) restore(state any) {
	s := state.(employmentState)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = s.records
	r.nextSeq = s.nextSeq
}

// MemoryTransactor serializes writers through one mutex and rolls its
// stores back to their pre-callback state when the callback fails, so a
// close followed by a failed insert does not leave a record closed with
// no successor. Readers do not go through it.
type MemoryTransactor struct {
	mu     sync.Mutex
	stores []MemoryStore
}

func NewMemoryTransactor(stores ...MemoryStore) *MemoryTransactor {
	return &MemoryTransactor{stores: stores}
}

func (t *MemoryTransactor) InTx(ctx context.Context, fn func(context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	states := make([]any, len(t.stores))
	for i, s := range t.stores {
		states[i] = s.snapshot()
	}
	if err := fn(ctx); err != nil {
		for i, s := range t.stores {
			s.restore(states[i])
		}
		return err
	}
	return nil
}
