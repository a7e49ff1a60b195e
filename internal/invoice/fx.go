package invoice

import (
	"github.com/arclear/arclear/internal/invoice/repository"
	"github.com/arclear/arclear/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
