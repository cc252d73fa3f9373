package main

import (
	"github.com/smallbiznis/opsboard/internal/clock"
	"github.com/smallbiznis/opsboard/internal/config"
	"github.com/smallbiznis/opsboard/internal/logger"
	"github.com/smallbiznis/opsboard/internal/server"
	"github.com/smallbiznis/opsboard/pkg/db"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		db.Module,
		server.Module,
	).Run()
}
