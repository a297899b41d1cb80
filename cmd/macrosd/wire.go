//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/Robak132/MacrosCompanionModules/internal/chat"
	"github.com/Robak132/MacrosCompanionModules/internal/config"
	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
)

var contentSet = wire.NewSet(
	provideRoller,
	provideRegions,
	provideCatalog,
	provideParty,
	provideTracker,
	provideXP,
	providePrinter,
	provideHooks,
)

var storeSet = wire.NewSet(
	provideStore,
	provideSeeder,
	provideInventoryStore,
	provideMarket,
)

var relaySet = wire.NewSet(
	inventory.NewResolver,
	providePeer,
	provideDispatcher,
)

func initApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		contentSet,
		storeSet,
		relaySet,
		provideRoster,
		provideBoard,
		wire.Struct(new(chat.Deps), "*"),
		provideChat,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
