package directory

import (
	"embed"

	"github.com/emabi2002/npiams-sub001/modules/directory/infrastructure/persistence"
	"github.com/emabi2002/npiams-sub001/modules/directory/presentation/controllers"
	"github.com/emabi2002/npiams-sub001/modules/directory/services"
	"github.com/emabi2002/npiams-sub001/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema("directory", &MigrationFiles, "infrastructure/persistence/schema")
	tx := persistence.NewTransactor()
	app.RegisterServices(
		services.NewDepartmentService(persistence.NewDepartmentRepository(), tx, app.EventPublisher()),
		services.NewProgramService(persistence.NewProgramRepository(), tx, app.EventPublisher()),
		services.NewStaffService(persistence.NewStaffRepository(), tx, app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewDirectoryAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "directory"
}
