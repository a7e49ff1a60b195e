package observability

import (
	"github.com/arclear/arclear/internal/observability/logger"
	"github.com/arclear/arclear/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		logger.New,
		metrics.NewHTTPMetrics,
		metrics.NewIngestMetrics,
	),
)
