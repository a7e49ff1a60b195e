package customer

import (
	"github.com/arclear/arclear/internal/customer/domain"
	"github.com/arclear/arclear/internal/customer/repository"
	"github.com/arclear/arclear/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(func() domain.Matcher { return domain.ExactMatcher{} }),
	fx.Provide(service.New),
)
