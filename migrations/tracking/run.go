package main

import (
	"embed"

	"github.com/ghuser/steritrack/pkg/config"
	"github.com/ghuser/steritrack/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := migrator.RunMigrations(cfg.TrackingDatabaseURL, MigrationsFS); err != nil {
		panic(err)
	}
}
