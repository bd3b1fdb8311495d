package quality

import (
	"github.com/hli122/salesops-analytics-db/internal/quality/repository"
	"github.com/hli122/salesops-analytics-db/internal/quality/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quality.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
