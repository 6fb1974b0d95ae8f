package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/emabi2002/npiams-sub001/modules/directory/domain/department"
	"github.com/emabi2002/npiams-sub001/modules/directory/domain/program"
	"github.com/emabi2002/npiams-sub001/modules/directory/domain/staff"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

// In-memory repositories backing unit tests. They enforce the same
// uniqueness rules as the SQL schema.

type MemoryDepartmentRepository struct {
	mu      sync.RWMutex
	records []department.Department
}

func NewMemoryDepartmentRepository() *MemoryDepartmentRepository {
	return &MemoryDepartmentRepository{}
}

func (r *MemoryDepartmentRepository) Insert(_ context.Context, d department.Department) (department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.Code() == d.Code() {
			return department.Department{}, serrors.Conflict("DIRECTORY_CODE_TAKEN", "department code already in use", nil)
		}
	}
	r.records = append(r.records, d)
	return d, nil
}

func (r *MemoryDepartmentRepository) Update(_ context.Context, d department.Department) (department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.records {
		if existing.ID() == d.ID() {
			r.records[i] = d
			return d, nil
		}
	}
	return department.Department{}, serrors.NotFound("DIRECTORY_DEPARTMENT_NOT_FOUND", "department not found")
}

func (r *MemoryDepartmentRepository) GetByID(_ context.Context, id uuid.UUID) (department.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.records {
		if d.ID() == id {
			return d, nil
		}
	}
	return department.Department{}, serrors.NotFound("DIRECTORY_DEPARTMENT_NOT_FOUND", "department not found")
}

func (r *MemoryDepartmentRepository) GetByCode(_ context.Context, code string) (department.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.records {
		if d.Code() == code {
			return d, nil
		}
	}
	return department.Department{}, serrors.NotFound("DIRECTORY_DEPARTMENT_NOT_FOUND", "department not found")
}

func (r *MemoryDepartmentRepository) List(_ context.Context) ([]department.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]department.Department, len(r.records))
	copy(out, r.records)
	sort.Slice(out, func(i, j int) bool { return out[i].Code() < out[j].Code() })
	return out, nil
}

// MemoryTransactor serializes writers through one mutex.
type MemoryTransactor struct {
	mu sync.Mutex
}

func NewMemoryTransactor() *MemoryTransactor {
	return &MemoryTransactor{}
}

func (t *MemoryTransactor) InTx(ctx context.Context, fn func(context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type MemoryProgramRepository struct {
	mu      sync.RWMutex
	records []program.Program
}

func NewMemoryProgramRepository() *MemoryProgramRepository {
	return &MemoryProgramRepository{}
}

func (r *MemoryProgramRepository) Insert(_ context.Context, p program.Program) (program.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.Code() == p.Code() {
			return program.Program{}, serrors.Conflict("DIRECTORY_CODE_TAKEN", "program code already in use", nil)
		}
	}
	r.records = append(r.records, p)
	return p, nil
}

func (r *MemoryProgramRepository) GetByID(_ context.Context, id uuid.UUID) (program.Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.records {
		if p.ID() == id {
			return p, nil
		}
	}
	return program.Program{}, serrors.NotFound("DIRECTORY_PROGRAM_NOT_FOUND", "program not found")
}

func (r *MemoryProgramRepository) List(_ context.Context) ([]program.Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]program.Program, len(r.records))
	copy(out, r.records)
	sort.Slice(out, func(i, j int) bool { return out[i].Code() < out[j].Code() })
	return out, nil
}

func (r *MemoryProgramRepository) ListForDepartment(_ context.Context, departmentID uuid.UUID) ([]program.Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []program.Program
	for _, p := range r.records {
		if p.DepartmentID() == departmentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code() < out[j].Code() })
	return out, nil
}

type MemoryStaffRepository struct {
	mu      sync.RWMutex
	records []staff.Staff
}

func NewMemoryStaffRepository() *MemoryStaffRepository {
	return &MemoryStaffRepository{}
}

func (r *MemoryStaffRepository) Insert(_ context.Context, s staff.Staff) (staff.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.StaffNo() == s.StaffNo() {
			return staff.Staff{}, serrors.Conflict("DIRECTORY_STAFF_NO_TAKEN", "staff number already in use", nil)
		}
	}
	r.records = append(r.records, s)
	return s, nil
}

func (r *MemoryStaffRepository) GetByID(_ context.Context, id uuid.UUID) (staff.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.records {
		if s.ID() == id {
			return s, nil
		}
	}
	return staff.Staff{}, serrors.NotFound("DIRECTORY_STAFF_NOT_FOUND", "staff member not found")
}

func (r *MemoryStaffRepository) GetMany(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]staff.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make(map[uuid.UUID]staff.Staff, len(ids))
	for _, s := range r.records {
		if _, ok := want[s.ID()]; ok {
			out[s.ID()] = s
		}
	}
	return out, nil
}

func (r *MemoryStaffRepository) List(_ context.Context) ([]staff.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]staff.Staff, len(r.records))
	copy(out, r.records)
	sort.Slice(out, func(i, j int) bool { return out[i].StaffNo() < out[j].StaffNo() })
	return out, nil
}
