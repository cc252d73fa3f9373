package overview

import (
	"github.com/smallbiznis/opsboard/internal/overview/service"
	"go.uber.org/fx"
)

var Module = fx.Module("overview.service",
	fx.Provide(service.New),
)
