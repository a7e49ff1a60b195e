package main

import (
	"github.com/arclear/arclear/internal/clock"
	"github.com/arclear/arclear/internal/config"
	"github.com/arclear/arclear/internal/migration"
	"github.com/arclear/arclear/internal/observability"
	"github.com/arclear/arclear/internal/server"
	"github.com/arclear/arclear/pkg/db"
	"github.com/arclear/arclear/pkg/telemetry"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		telemetry.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
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
