package history

import (
	"github.com/smallbiznis/opsboard/internal/history/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("history.repository",
	fx.Provide(repository.Provide),
)
