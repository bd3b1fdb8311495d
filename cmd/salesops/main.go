package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/hli122/salesops-analytics-db/internal/config"
	"github.com/hli122/salesops-analytics-db/internal/migration"
	"github.com/hli122/salesops-analytics-db/internal/observability"
	"github.com/hli122/salesops-analytics-db/internal/server"
	"github.com/hli122/salesops-analytics-db/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional Domains
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
