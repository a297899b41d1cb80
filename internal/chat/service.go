package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Robak132/MacrosCompanionModules/internal/game/alcohol"
	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
	"github.com/Robak132/MacrosCompanionModules/internal/game/money"
	"github.com/Robak132/MacrosCompanionModules/internal/game/xp"
	"github.com/Robak132/MacrosCompanionModules/internal/i18n"
	"github.com/Robak132/MacrosCompanionModules/internal/scripting"
)

// CurrencyMode controls how far foreign currencies take part in payments.
type CurrencyMode string

const (
	// CurrencyDisable accepts only the current region and never converts.
	CurrencyDisable CurrencyMode = "disable"
	// CurrencyCompatibility accepts any region but always pays strictly.
	CurrencyCompatibility CurrencyMode = "compatibility"
	// CurrencyOverride honours the requested region and strict flag.
	CurrencyOverride CurrencyMode = "override"
)

// ParseCurrencyMode validates s as a CurrencyMode.
func ParseCurrencyMode(s string) (CurrencyMode, error) {
	switch m := CurrencyMode(strings.ToLower(strings.TrimSpace(s))); m {
	case CurrencyDisable, CurrencyCompatibility, CurrencyOverride:
		return m, nil
	}
	return "", fmt.Errorf("currency mode must be one of disable, compatibility, override; got %q", s)
}

// DefaultReason is the XP reason used when the GM gives none.
const DefaultReason = "Session %session% (%date%)"

// ActorStore is an inventory store that can list its actors.
type ActorStore interface {
	inventory.Store
	Actors(ctx context.Context) ([]inventory.Actor, error)
}

// Deps are the services the chat handlers drive. Hooks may be nil.
type Deps struct {
	Market    money.Service
	Inventory ActorStore
	Transfers *inventory.Dispatcher
	Alcohol   *alcohol.Tracker
	XP        *xp.Service
	Roster    Roster
	Printer   *i18n.Printer
	Hooks     *scripting.Manager
	Board     *Board
	Logger    *zap.Logger
}

// Options tune handler behaviour.
type Options struct {
	Mode            CurrencyMode
	TransferEnabled bool
	// Session is the id substituted for %session% in XP reasons.
	Session string
	// Now stamps XP reasons; nil means time.Now.
	Now func() time.Time
}

// Service handles chat lines.
type Service struct {
	Deps
	opts     Options
	registry *Registry
}

// NewService creates a Service.
//
// Precondition: every field of d except Hooks and Board is non-nil.
// Postcondition: returns an error naming the first missing dependency.
func NewService(d Deps, opts Options) (*Service, error) {
	switch {
	case d.Market == nil:
		return nil, errors.New("chat: market service is required")
	case d.Inventory == nil:
		return nil, errors.New("chat: inventory store is required")
	case d.Transfers == nil:
		return nil, errors.New("chat: transfer dispatcher is required")
	case d.Alcohol == nil:
		return nil, errors.New("chat: alcohol tracker is required")
	case d.XP == nil:
		return nil, errors.New("chat: xp service is required")
	case d.Roster == nil:
		return nil, errors.New("chat: roster is required")
	case d.Printer == nil:
		return nil, errors.New("chat: printer is required")
	case d.Logger == nil:
		return nil, errors.New("chat: logger is required")
	}
	if d.Board == nil {
		d.Board = NewBoard(nil)
	}
	if opts.Mode == "" {
		opts.Mode = CurrencyOverride
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{Deps: d, opts: opts, registry: DefaultRegistry()}, nil
}

// Handle runs one chat line typed by userID and returns the text to post.
// Errors are rendered into the reply; Handle never fails.
func (s *Service) Handle(ctx context.Context, userID, line string) string {
	from, ok := s.Roster.User(ctx, userID)
	if !ok {
		return s.t("chat.unknown_user", userID)
	}
	parsed := Parse(line)
	if parsed.Command == "" {
		return ""
	}
	cmd, ok := s.registry.Resolve(parsed.Command)
	if !ok {
		return s.t("chat.unknown_command", parsed.Command)
	}
	if cmd.GMOnly && !from.GM {
		return s.t("chat.gm_only", cmd.Name)
	}

	s.Logger.Debug("chat command",
		zap.String("user", userID),
		zap.String("command", cmd.Name),
		zap.String("args", parsed.RawArgs),
	)

	switch cmd.Handler {
	case HandlerPay:
		return s.handlePay(ctx, from, cmd, parsed)
	case HandlerCredit:
		return s.handleCredit(ctx, cmd, parsed)
	case HandlerPayRequest:
		return s.handlePayRequest(ctx, cmd, parsed)
	case HandlerClaim:
		return s.handleClaim(ctx, from, cmd, parsed)
	case HandlerExchange:
		return s.handleExchange(ctx, cmd, parsed)
	case HandlerRegions:
		return s.handleRegions()
	case HandlerInventory:
		return s.handleInventory(ctx, from, parsed)
	case HandlerTransfer:
		return s.handleTransfer(ctx, from, cmd, parsed)
	case HandlerDrink:
		return s.handleDrink(ctx, from, cmd, parsed)
	case HandlerAdvantage:
		return s.handleAdvantage(parsed)
	case HandlerLosing:
		return s.handleLosing(cmd, parsed)
	case HandlerXP:
		return s.handleXP(ctx, cmd, parsed)
	case HandlerHelp:
		return s.handleHelp(from)
	}
	return s.t("chat.unknown_command", parsed.Command)
}

func (s *Service) t(key string, args ...any) string {
	return s.Printer.T(key, args...)
}

func (s *Service) usage(cmd *Command) string {
	return s.t("chat.usage", cmd.Usage)
}

// failure logs an unexpected error and renders the generic reply.
func (s *Service) failure(op string, err error) string {
	s.Logger.Error("chat handler failed", zap.String("op", op), zap.Error(err))
	return s.t("chat.error", op)
}

// actorName returns the inventory name of actorID, falling back to the id.
func (s *Service) actorName(ctx context.Context, actorID string) string {
	a, err := s.Inventory.Actor(ctx, actorID)
	if err != nil {
		return actorID
	}
	return a.Name
}

// findActor looks an actor up by name, ignoring case.
func (s *Service) findActor(ctx context.Context, name string) (inventory.Actor, bool, error) {
	actors, err := s.Inventory.Actors(ctx)
	if err != nil {
		return inventory.Actor{}, false, err
	}
	for _, a := range actors {
		if strings.EqualFold(a.Name, name) {
			return a, true, nil
		}
	}
	return inventory.Actor{}, false, nil
}

// fire runs hook in the current region's scope and appends its text to out.
func (s *Service) fire(ctx context.Context, out []string, hook string, ev scripting.Event) []string {
	if s.Hooks == nil {
		return out
	}
	if text, ok := s.Hooks.Fire(ctx, s.Market.Regions().Pivot().Key, hook, ev); ok {
		out = append(out, text)
	}
	return out
}
