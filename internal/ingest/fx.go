package ingest

import (
	"github.com/arclear/arclear/internal/ingest/repository"
	"github.com/arclear/arclear/internal/ingest/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ingest.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
