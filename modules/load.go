package modules

import (
	"github.com/emabi2002/npiams-sub001/modules/directory"
	"github.com/emabi2002/npiams-sub001/modules/staffing"
	"github.com/emabi2002/npiams-sub001/pkg/application"
)

// BuiltInModules lists every module in registration order. Directory
// registers first so staffing can resolve its services.
var BuiltInModules = []application.Module{
	directory.NewModule(),
	staffing.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	modules := make([]application.Module, 0, len(BuiltInModules)+len(externalModules))
	modules = append(modules, BuiltInModules...)
	modules = append(modules, externalModules...)
	return application.Load(app, modules...)
}
