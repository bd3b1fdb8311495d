package reporting

import (
	"github.com/hli122/salesops-analytics-db/internal/reporting/repository"
	"github.com/hli122/salesops-analytics-db/internal/reporting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reporting.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
