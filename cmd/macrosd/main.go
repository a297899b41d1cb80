// Package main runs the macros companion daemon: the chat command service,
// the inventory store and this peer's side of the transfer relay.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Robak132/MacrosCompanionModules/internal/config"
	"github.com/Robak132/MacrosCompanionModules/internal/observability"
	"github.com/Robak132/MacrosCompanionModules/internal/relay"
	"github.com/Robak132/MacrosCompanionModules/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	console := flag.Bool("console", false, "read chat commands from stdin and print replies to stdout")
	user := flag.String("user", "gm", "chat user id the console speaks as")
	seedOnly := flag.Bool("seed", false, "write the party file into the database and exit")
	hashSecret := flag.String("hash-secret", "", "print the bcrypt hash of a relay secret and exit")
	flag.Parse()

	if *hashSecret != "" {
		hash, err := relay.HashSecret(*hashSecret)
		if err != nil {
			log.Fatalf("hashing secret: %v", err)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, observability.PeerRole(cfg.Relay.Authoritative))
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	app, cleanup, err := initApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("initializing", zap.Error(err))
	}
	defer cleanup()

	if *seedOnly {
		if err := seed(ctx, app, logger); err != nil {
			logger.Fatal("seeding", zap.Error(err))
		}
		return
	}

	lifecycle := server.NewLifecycle(logger)
	if app.Peer.Service != nil {
		lifecycle.Add(app.Peer.Name, app.Peer.Service)
	}
	if *console {
		lifecycle.AddTerminal("console", NewConsole(app.Chat, os.Stdin, os.Stdout, *user, logger))
	}

	logger.Info("macrosd initialized",
		zap.String("region", cfg.Market.CurrentRegion),
		zap.String("currency_mode", cfg.Market.CurrencyMode),
		zap.String("peer", app.Peer.Name),
		zap.Bool("console", *console),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		cleanup()
		logger.Sync()
		os.Exit(1)
	}
}
