package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	directoryservices "github.com/emabi2002/npiams-sub001/modules/directory/services"
	"github.com/emabi2002/npiams-sub001/modules/staffing/domain/assignment"
	staffingservices "github.com/emabi2002/npiams-sub001/modules/staffing/services"
	"github.com/emabi2002/npiams-sub001/pkg/composables"
)

// newSeedCmd loads a small demonstration dataset: two departments with
// programs, a handful of staff and an initial head assignment each.
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a demonstration dataset into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, pool, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := app.Migrations().Apply(cmd.Context()); err != nil {
				return err
			}

			ctx := composables.WithPool(cmd.Context(), pool)
			departments := app.Service(directoryservices.DepartmentService{}).(*directoryservices.DepartmentService)
			programs := app.Service(directoryservices.ProgramService{}).(*directoryservices.ProgramService)
			staffSvc := app.Service(directoryservices.StaffService{}).(*directoryservices.StaffService)
			assignments := app.Service(staffingservices.AssignmentService{}).(*staffingservices.AssignmentService)
			employments := app.Service(staffingservices.EmploymentService{}).(*staffingservices.EmploymentService)

			return seed(ctx, seedServices{
				departments: departments,
				programs:    programs,
				staff:       staffSvc,
				assignments: assignments,
				employments: employments,
			})
		},
	}
}

type seedServices struct {
	departments *directoryservices.DepartmentService
	programs    *directoryservices.ProgramService
	staff       *directoryservices.StaffService
	assignments *staffingservices.AssignmentService
	employments *staffingservices.EmploymentService
}

func seed(ctx context.Context, s seedServices) error {
	today := time.Now().UTC()

	type deptSeed struct {
		code, name string
		programs   []string
		head       [4]string // staff_no, first, last, email
	}
	seeds := []deptSeed{
		{
			code:     "BUS",
			name:     "Business Studies",
			programs: []string{"DIP-ACC", "DIP-MGT"},
			head:     [4]string{"NPI-0101", "Alice", "Kama", "alice.kama@example.edu"},
		},
		{
			code:     "ENG",
			name:     "Engineering",
			programs: []string{"DIP-CIV", "DIP-ELE"},
			head:     [4]string{"NPI-0102", "Robert", "Toua", "robert.toua@example.edu"},
		},
	}

	for _, ds := range seeds {
		dept, err := s.departments.Create(ctx, ds.code, ds.name)
		if err != nil {
			return fmt.Errorf("seed department %s: %w", ds.code, err)
		}

		head, err := s.staff.Create(ctx, ds.head[0], ds.head[1], ds.head[2], ds.head[3])
		if err != nil {
			return fmt.Errorf("seed staff %s: %w", ds.head[0], err)
		}
		if _, err := s.employments.Attach(ctx, head.ID(), dept.ID(), true, today); err != nil {
			return fmt.Errorf("seed employment for %s: %w", ds.head[0], err)
		}
		if _, err := s.assignments.Assign(ctx, dept.ID(), assignment.RoleHead, head.ID(), today); err != nil {
			return fmt.Errorf("seed head of %s: %w", ds.code, err)
		}

		for _, code := range ds.programs {
			prog, err := s.programs.Create(ctx, dept.ID(), code, code)
			if err != nil {
				return fmt.Errorf("seed program %s: %w", code, err)
			}
			if _, err := s.assignments.Assign(ctx, prog.ID(), assignment.RoleCoordinator, head.ID(), today); err != nil {
				return fmt.Errorf("seed coordinator of %s: %w", code, err)
			}
		}
	}
	return nil
}
