package chat_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Robak132/MacrosCompanionModules/internal/chat"
	"github.com/Robak132/MacrosCompanionModules/internal/game/alcohol"
	"github.com/Robak132/MacrosCompanionModules/internal/game/condition"
	"github.com/Robak132/MacrosCompanionModules/internal/game/dice"
	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
	"github.com/Robak132/MacrosCompanionModules/internal/game/money"
	"github.com/Robak132/MacrosCompanionModules/internal/game/xp"
	"github.com/Robak132/MacrosCompanionModules/internal/i18n"
	"github.com/Robak132/MacrosCompanionModules/internal/scripting"
)

const (
	gm   = "u-gm"
	anna = "u-anna"
	bert = "u-bert"
)

func regionSet(t testing.TB) *money.RegionSet {
	t.Helper()
	empire := &money.Region{
		Key:  "empire",
		Name: "Empire",
		Coins: []money.Coin{
			{Key: "gc", Name: "Gold Crown", Value: 240},
			{Key: "ss", Name: "Silver Shilling", Value: 12},
			{Key: "bp", Name: "Brass Penny", Value: 1},
		},
		ExchangeRates: map[string]float64{"bretonnia": 1.25},
	}
	bretonnia := &money.Region{
		Key:  "bretonnia",
		Name: "Bretonnia",
		Coins: []money.Coin{
			{Key: "ecu", Name: "Ecu", Value: 240},
			{Key: "denier", Name: "Denier", Value: 1},
		},
	}
	set, err := money.NewRegionSet([]*money.Region{empire, bretonnia}, "empire")
	require.NoError(t, err)
	return set
}

func coin(id, name string, qty, value int) inventory.Entry {
	return inventory.Entry{
		ItemID:      id,
		Name:        name,
		Kind:        inventory.KindMoney,
		Quantity:    qty,
		Encumbrance: chat.CoinEncumbrance,
		CoinValue:   value,
	}
}

func actors() []inventory.Actor {
	return []inventory.Actor{
		{
			ID:             "anna",
			Name:           "Anna",
			MaxEncumbrance: 30,
			Entries: []inventory.Entry{
				coin("anna-gc", "Gold Crown", 2, 240),
				coin("anna-ss", "Silver Shilling", 5, 12),
				coin("anna-bp", "Brass Penny", 3, 1),
				coin("anna-ecu", "Ecu", 1, 240),
				{ItemID: "anna-rope", Name: "Rope (10 yards)", Kind: inventory.KindTrapping, Quantity: 10, Encumbrance: 1},
				{ItemID: "anna-cloak", Name: "Cloak", Kind: inventory.KindArmour, Quantity: 1, Encumbrance: 1,
					Equipped: true, Worn: true, WeighsLessEquipped: true},
				{ItemID: "anna-pack", Name: "Backpack", Kind: inventory.KindContainer, Quantity: 1, Encumbrance: 1,
					Capacity: 5, Equipped: true, WeighsLessEquipped: true},
				{ItemID: "anna-blanket", Name: "Blanket", Kind: inventory.KindTrapping, Quantity: 1, Encumbrance: 1,
					Location: "anna-pack"},
			},
		},
		{
			ID:             "bert",
			Name:           "Bert",
			MaxEncumbrance: 40,
			Entries: []inventory.Entry{
				coin("bert-gc", "Gold Crown", 0, 240),
				coin("bert-ss", "Silver Shilling", 0, 12),
				coin("bert-bp", "Brass Penny", 0, 1),
				{ItemID: "bert-sack", Name: "Sack", Kind: inventory.KindContainer, Quantity: 1, Encumbrance: 1, Capacity: 2},
			},
		},
	}
}

type fakeRelay struct {
	online bool
	mu     sync.Mutex
	sent   []inventory.TransferRequest
}

func (r *fakeRelay) Send(_ context.Context, req inventory.TransferRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, req)
	return nil
}

func (r *fakeRelay) AuthorityOnline() bool { return r.online }

type setup struct {
	opts      chat.Options
	alloc     money.Allocator
	relay     *fakeRelay
	locale    string
	faces     []int
	noHooks   bool
	nonAuthor bool
}

type fixture struct {
	svc     *chat.Service
	store   *inventory.MemoryStore
	board   *chat.Board
	xp      *xp.MemoryStore
	drinker *alcohol.MemoryStore
}

func defaultSetup() setup {
	return setup{
		opts: chat.Options{
			Mode:            chat.CurrencyOverride,
			TransferEnabled: true,
			Session:         "7",
			Now:             func() time.Time { return time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC) },
		},
		locale: "en-US",
	}
}

func newFixture(t *testing.T, s setup) *fixture {
	t.Helper()
	logger := zap.NewNop()
	store := inventory.NewMemoryStore(actors()...)

	faces := s.faces
	if len(faces) == 0 {
		faces = []int{50}
	}
	roller := dice.NewLoggedRoller(dice.NewSequenceSource(faces...), logger)

	reg, err := condition.LoadDirectory("../../content/conditions")
	require.NoError(t, err)
	ladder, err := alcohol.NewLadder(reg, alcohol.Group)
	require.NoError(t, err)
	table, err := alcohol.LoadTable("../../content/tables/stinking-drunk.yaml")
	require.NoError(t, err)
	drinkers := alcohol.NewMemoryStore(
		alcohol.Drinker{ID: "anna", Name: "Anna", Toughness: 35},
		alcohol.Drinker{ID: "bert", Name: "Bert", Toughness: 40},
	)

	xpStore := xp.NewMemoryStore(
		xp.Recipient{ActorID: "anna", Name: "Anna", Total: 100, Current: 20, Modifier: xp.Full, Enabled: true},
		xp.Recipient{ActorID: "bert", Name: "Bert", Total: 40, Current: 5, Modifier: xp.Half, Enabled: true},
	)

	bundle, err := i18n.Load("../../content/locales")
	require.NoError(t, err)
	printer, err := bundle.Printer(s.locale)
	require.NoError(t, err)

	var hooks *scripting.Manager
	if !s.noHooks {
		hooks = scripting.NewManager(roller, logger, 0)
		require.NoError(t, hooks.LoadGlobal("../../content/scripts"))
		t.Cleanup(hooks.Close)
	}

	var relay inventory.Relay
	if s.relay != nil {
		relay = s.relay
	}
	resolver := inventory.NewResolver(store, logger)
	next := 0
	board := chat.NewBoard(func() string {
		next++
		return fmt.Sprintf("c%d", next)
	})

	svc, err := chat.NewService(chat.Deps{
		Market:    money.NewService(regionSet(t), chat.NewInventoryHoldings(store), s.alloc),
		Inventory: store,
		Transfers: inventory.NewDispatcher(resolver, relay, !s.nonAuthor, logger),
		Alcohol:   alcohol.NewTracker(drinkers, ladder, table, roller, logger),
		XP:        xp.NewService(xpStore, logger),
		Roster: chat.StaticRoster{
			{UserID: gm, Name: "GM", GM: true, Active: true},
			{UserID: anna, Name: "Anna", ActorID: "anna", Active: true},
			{UserID: bert, Name: "Bert", ActorID: "bert", Active: true},
			{UserID: "u-away", Name: "Carl", ActorID: "carl"},
		},
		Printer: printer,
		Hooks:   hooks,
		Board:   board,
		Logger:  logger,
	}, s.opts)
	require.NoError(t, err)
	return &fixture{svc: svc, store: store, board: board, xp: xpStore, drinker: drinkers}
}

func (f *fixture) say(user, line string) string {
	return f.svc.Handle(context.Background(), user, line)
}

func (f *fixture) quantity(t *testing.T, actorID, itemID string) int {
	t.Helper()
	a, err := f.store.Actor(context.Background(), actorID)
	require.NoError(t, err)
	e, ok := a.Entry(itemID)
	require.True(t, ok, "no item %s on %s", itemID, actorID)
	return e.Quantity
}

func (f *fixture) quantityByName(t *testing.T, actorID, name string) int {
	t.Helper()
	a, err := f.store.Actor(context.Background(), actorID)
	require.NoError(t, err)
	total := 0
	for _, e := range a.Entries {
		if strings.EqualFold(e.Name, name) {
			total += e.Quantity
		}
	}
	return total
}
