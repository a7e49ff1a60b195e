package activity

import (
	"github.com/arclear/arclear/internal/activity/repository"
	"github.com/arclear/arclear/internal/activity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("activity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
