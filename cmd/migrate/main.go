// Package main applies the inventory schema migrations.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Robak132/MacrosCompanionModules/internal/config"
	"github.com/Robak132/MacrosCompanionModules/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	dir := flag.String("dir", "migrations", "directory holding the migration files")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if !cfg.Database.Enabled {
		log.Fatalf("database.enabled is false in %s; nothing to migrate", *configPath)
	}

	res, err := postgres.Migrate(cfg.Database.DSN(), *dir, *direction, *steps)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	elapsed := time.Since(start)
	if !res.Changed {
		fmt.Fprintf(os.Stdout, "no changes (version=%d dirty=%v) [%s]\n", res.Version, res.Dirty, elapsed)
	} else {
		fmt.Fprintf(os.Stdout, "migrated %s to version=%d dirty=%v [%s]\n", *direction, res.Version, res.Dirty, elapsed)
	}
}
