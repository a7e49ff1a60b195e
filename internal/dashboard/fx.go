package dashboard

import (
	"github.com/arclear/arclear/internal/dashboard/repository"
	"github.com/arclear/arclear/internal/dashboard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dashboard.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
