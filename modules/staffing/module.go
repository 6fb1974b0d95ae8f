package staffing

import (
	"embed"

	"github.com/emabi2002/npiams-sub001/modules/staffing/infrastructure/persistence"
	"github.com/emabi2002/npiams-sub001/modules/staffing/presentation/controllers"
	"github.com/emabi2002/npiams-sub001/modules/staffing/services"
	"github.com/emabi2002/npiams-sub001/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema("staffing", &MigrationFiles, "infrastructure/persistence/schema")
	tx := persistence.NewTransactor()
	app.RegisterServices(
		services.NewAssignmentService(persistence.NewAssignmentRepository(), tx, app.EventPublisher()),
		services.NewEmploymentService(persistence.NewEmploymentRepository(), tx, app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewStaffingAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "staffing"
}
