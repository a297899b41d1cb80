package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Robak132/MacrosCompanionModules/internal/chat"
	"github.com/Robak132/MacrosCompanionModules/internal/config"
	"github.com/Robak132/MacrosCompanionModules/internal/game/alcohol"
	"github.com/Robak132/MacrosCompanionModules/internal/game/condition"
	"github.com/Robak132/MacrosCompanionModules/internal/game/dice"
	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
	"github.com/Robak132/MacrosCompanionModules/internal/game/money"
	"github.com/Robak132/MacrosCompanionModules/internal/game/xp"
	"github.com/Robak132/MacrosCompanionModules/internal/i18n"
	"github.com/Robak132/MacrosCompanionModules/internal/party"
	"github.com/Robak132/MacrosCompanionModules/internal/relay"
	"github.com/Robak132/MacrosCompanionModules/internal/scripting"
	"github.com/Robak132/MacrosCompanionModules/internal/server"
	"github.com/Robak132/MacrosCompanionModules/internal/storage/postgres"
)

// App is everything macrosd runs.
type App struct {
	Chat   *chat.Service
	Store  chat.ActorStore
	Party  *party.Party
	Peer   *Peer
	Seeder Seeder
}

// Peer is this process's side of the transfer relay. Service is nil when
// there is nothing to run: a non-authoritative peer with no peer URL.
type Peer struct {
	Name    string
	Relay   inventory.Relay
	Service server.Service
}

// Seeder writes party actors into a persistent store. It is nil for the
// in-memory store, which is always seeded from the party file.
type Seeder interface {
	SaveActor(ctx context.Context, a inventory.Actor) error
}

func provideRoller(logger *zap.Logger) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
}

func provideRegions(cfg config.Config) (*money.RegionSet, error) {
	regions, err := money.LoadRegions(cfg.Market.RegionsFile)
	if err != nil {
		return nil, err
	}
	return money.NewRegionSet(regions, cfg.Market.CurrentRegion)
}

func provideCatalog(cfg config.Config) (*inventory.Registry, error) {
	defs, err := inventory.LoadItems(cfg.Content.ItemsDir)
	if err != nil {
		return nil, err
	}
	reg := inventory.NewRegistry()
	for _, d := range defs {
		if err := reg.RegisterItem(d); err != nil {
			return nil, fmt.Errorf("registering item %q: %w", d.ID, err)
		}
	}
	return reg, nil
}

func provideParty(cfg config.Config, catalog *inventory.Registry) (*party.Party, error) {
	if cfg.Content.PartyFile == "" {
		return party.New(nil, catalog)
	}
	return party.Load(cfg.Content.PartyFile, catalog)
}

// provideStore opens the postgres store when the database is enabled and
// otherwise seeds an in-memory store from the party.
func provideStore(ctx context.Context, cfg config.Config, p *party.Party, logger *zap.Logger) (chat.ActorStore, func(), error) {
	if !cfg.Database.Enabled {
		logger.Info("using in-memory inventory store", zap.Int("actors", len(p.Members)))
		return inventory.NewMemoryStore(p.Actors()...), func() {}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Name),
	)
	return pool.Inventory(), pool.Close, nil
}

func provideSeeder(s chat.ActorStore) Seeder {
	if seeder, ok := s.(Seeder); ok {
		return seeder
	}
	return nil
}

func provideInventoryStore(s chat.ActorStore) inventory.Store {
	return s
}

func provideMarket(regions *money.RegionSet, store inventory.Store, logger *zap.Logger) money.Service {
	svc := money.NewService(regions, chat.NewInventoryHoldings(store), money.AutoAllocate)
	return money.NewLoggingService(logger, svc)
}

// providePeer picks the relay role from configuration.
func providePeer(cfg config.Config, resolver *inventory.Resolver, logger *zap.Logger) (*Peer, error) {
	rc := cfg.Relay
	switch {
	case rc.Authoritative:
		srv, err := relay.NewServer(relay.ServerConfig{
			Addr:        rc.Addr(),
			SecretHash:  rc.SecretHash,
			ReadTimeout: rc.ReadTimeout,
		}, resolver, logger)
		if err != nil {
			return nil, err
		}
		return &Peer{Name: "relay-server", Service: srv}, nil
	case rc.PeerURL != "":
		client := relay.NewClient(relay.ClientConfig{
			URL:           rc.PeerURL,
			Secret:        rc.Secret,
			WriteTimeout:  rc.WriteTimeout,
			RetryInterval: rc.RetryInterval,
		}, logger)
		return &Peer{Name: "relay-client", Relay: client, Service: client}, nil
	}
	logger.Warn("no authoritative peer configured; transfers to other actors will be refused")
	return &Peer{Name: "offline"}, nil
}

func provideDispatcher(cfg config.Config, resolver *inventory.Resolver, peer *Peer, logger *zap.Logger) *inventory.Dispatcher {
	return inventory.NewDispatcher(resolver, peer.Relay, cfg.Relay.Authoritative, logger)
}

func provideTracker(cfg config.Config, p *party.Party, roller *dice.Roller, logger *zap.Logger) (*alcohol.Tracker, error) {
	reg, err := condition.LoadDirectory(cfg.Content.ConditionsDir)
	if err != nil {
		return nil, err
	}
	ladder, err := alcohol.NewLadder(reg, alcohol.Group)
	if err != nil {
		return nil, err
	}
	table, err := alcohol.LoadTable(cfg.Content.StinkingDrunkTable)
	if err != nil {
		return nil, err
	}
	return alcohol.NewTracker(alcohol.NewMemoryStore(p.Drinkers()...), ladder, table, roller, logger), nil
}

func provideXP(p *party.Party, logger *zap.Logger) *xp.Service {
	return xp.NewService(xp.NewMemoryStore(p.Recipients()...), logger)
}

func providePrinter(cfg config.Config) (*i18n.Printer, error) {
	bundle, err := i18n.Load(cfg.Content.LocalesDir)
	if err != nil {
		return nil, err
	}
	return bundle.Printer(cfg.I18n.Locale)
}

// provideHooks loads the global hook scripts and, for every region with a
// subdirectory of the same key, that region's scripts.
func provideHooks(cfg config.Config, roller *dice.Roller, regions *money.RegionSet, store inventory.Store, logger *zap.Logger) (*scripting.Manager, func(), error) {
	dir := cfg.Content.ScriptsDir
	if dir == "" {
		return nil, func() {}, nil
	}
	m := scripting.NewManager(roller, logger, 0)
	m.ActorName = func(id string) (string, bool) {
		a, err := store.Actor(context.Background(), id)
		if err != nil {
			return "", false
		}
		return a.Name, true
	}
	if err := m.LoadGlobal(dir); err != nil {
		m.Close()
		return nil, nil, err
	}
	for _, r := range regions.Regions() {
		scoped := filepath.Join(dir, r.Key)
		if info, err := os.Stat(scoped); err != nil || !info.IsDir() {
			continue
		}
		if err := m.LoadScope(r.Key, scoped); err != nil {
			m.Close()
			return nil, nil, err
		}
		logger.Info("region scripts loaded", zap.String("region", r.Key))
	}
	return m, m.Close, nil
}

func provideRoster(cfg config.Config) chat.Roster {
	roster := make(chat.StaticRoster, 0, len(cfg.Players))
	for _, p := range cfg.Players {
		roster = append(roster, chat.Player{
			UserID:  p.UserID,
			Name:    p.Name,
			ActorID: p.ActorID,
			GM:      p.GM,
			Active:  p.Active,
		})
	}
	return roster
}

func provideBoard() *chat.Board {
	return chat.NewBoard(nil)
}

func provideChat(d chat.Deps, cfg config.Config) (*chat.Service, error) {
	mode, err := chat.ParseCurrencyMode(cfg.Market.CurrencyMode)
	if err != nil {
		return nil, err
	}
	return chat.NewService(d, chat.Options{
		Mode:            mode,
		TransferEnabled: cfg.Transfer.Enabled,
		Session:         cfg.Session.Name,
	})
}

// seed writes every party actor into the persistent store.
func seed(ctx context.Context, app *App, logger *zap.Logger) error {
	if app.Seeder == nil {
		return errors.New("seeding needs database.enabled: the in-memory store is seeded on every start")
	}
	for _, a := range app.Party.Actors() {
		if err := app.Seeder.SaveActor(ctx, a); err != nil {
			return err
		}
		logger.Info("seeded actor", zap.String("actor", a.ID), zap.Int("items", len(a.Entries)))
	}
	return nil
}
