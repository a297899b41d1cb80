package chat

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
	"github.com/Robak132/MacrosCompanionModules/internal/scripting"
)

func (s *Service) handleInventory(ctx context.Context, from Player, args ParseResult) string {
	var actor *inventory.Actor
	if args.RawArgs == "" {
		if from.ActorID == "" {
			return s.t("chat.no_actor")
		}
		a, err := s.Inventory.Actor(ctx, from.ActorID)
		if err != nil {
			return s.failure("inventory", err)
		}
		actor = a
	} else {
		a, ok, err := s.findActor(ctx, args.RawArgs)
		if err != nil {
			return s.failure("inventory", err)
		}
		if !ok {
			return s.t("inventory.not_found", args.RawArgs)
		}
		actor = &a
	}
	return s.renderInventory(actor)
}

func (s *Service) renderInventory(a *inventory.Actor) string {
	out := []string{s.t("inventory.header", a.Name,
		formatNumber(a.CurrentEncumbrance()), formatNumber(a.MaxEncumbrance))}
	for _, c := range a.Containers() {
		if c.Unlimited() {
			out = append(out, s.t("inventory.loose", formatNumber(c.Load())))
		} else {
			out = append(out, s.t("inventory.container", c.Name, formatNumber(c.Load()), formatNumber(c.Capacity)))
		}
		if len(c.Entries) == 0 {
			out = append(out, s.t("inventory.empty"))
		}
		for _, e := range c.Entries {
			out = append(out, s.t("inventory.entry", e.Name, strconv.Itoa(e.Quantity), entryEncumbrance(e)))
		}
	}
	return lines(out...)
}

// entryEncumbrance renders a stack's weight as "enc (full)" when equipping
// lightens it.
func entryEncumbrance(e inventory.Entry) string {
	enc := inventory.ComputeEncumbrance(e)
	full := inventory.FullEncumbrance(e)
	if enc == full {
		return formatNumber(enc)
	}
	return formatNumber(enc) + " (" + formatNumber(full) + ")"
}

// parseTransferArgs splits "<item words> <quantity> <actor>[/<container>]".
func parseTransferArgs(args []string) (item string, qty string, actor string, container string, ok bool) {
	if len(args) < 3 {
		return "", "", "", "", false
	}
	target := args[len(args)-1]
	qty = args[len(args)-2]
	item = strings.Join(args[:len(args)-2], " ")
	actor, container, _ = strings.Cut(target, "/")
	return item, qty, actor, container, true
}

func (s *Service) handleTransfer(ctx context.Context, from Player, cmd *Command, args ParseResult) string {
	if !s.opts.TransferEnabled {
		return s.t("transfer.disabled")
	}
	if from.ActorID == "" {
		return s.t("chat.no_actor")
	}
	itemName, qtyText, targetName, containerName, ok := parseTransferArgs(args.Args)
	if !ok {
		return s.usage(cmd)
	}
	qty, err := strconv.Atoi(qtyText)
	if err != nil || qty <= 0 {
		return s.t("transfer.invalid_quantity", qtyText)
	}

	source, err := s.Inventory.Actor(ctx, from.ActorID)
	if err != nil {
		return s.failure("transfer", err)
	}
	entry, ok := findEntry(source.Entries, itemName, false)
	if !ok {
		return s.t("transfer.no_item", source.Name, itemName)
	}
	target, ok, err := s.findActor(ctx, targetName)
	if err != nil {
		return s.failure("transfer", err)
	}
	if !ok {
		return s.t("inventory.not_found", targetName)
	}
	containerID := inventory.NoContainer
	destName := s.t("inventory.no_container")
	if containerName != "" {
		holder, ok := findEntry(target.Entries, containerName, true)
		if !ok {
			return s.t("transfer.no_container", target.Name, containerName)
		}
		containerID = holder.ItemID
		destName = holder.Name
	}

	req := inventory.TransferRequest{
		ItemID:            entry.ItemID,
		ItemName:          entry.Name,
		Quantity:          qty,
		SourceActorID:     source.ID,
		SourceContainerID: entry.Location,
		TargetActorID:     target.ID,
		TargetContainerID: containerID,
	}
	groups, err := s.Transfers.Dispatch(ctx, []inventory.TransferRequest{req})
	if err != nil {
		return s.transferError(entry, err)
	}

	var out []string
	if req.Local() {
		out = append(out, s.t("transfer.moved", source.Name, entry.Name, destName))
	}
	names := map[string]string{source.ID: source.Name, target.ID: target.Name}
	for _, g := range groups {
		out = append(out, s.t("transfer.report", names[g.SourceActorID], names[g.TargetActorID]))
		for _, r := range g.Transfers {
			out = append(out, s.t("transfer.line", r.ItemName, strconv.Itoa(r.Quantity)))
		}
	}
	if !s.Transfers.Authoritative() {
		out = append(out, s.t("transfer.relayed"))
	}
	out = s.fire(ctx, out, scripting.HookTransfer, scripting.Event{
		"actor":    source.Name,
		"item":     entry.Name,
		"quantity": qty,
		"target":   target.Name,
	})
	return lines(out...)
}

func (s *Service) transferError(entry inventory.Entry, err error) string {
	var capacity *inventory.CapacityExceededError
	switch {
	case errors.As(err, &capacity):
		return s.t("transfer.capacity", capacity.Name,
			formatNumber(capacity.Load), formatNumber(capacity.Capacity), formatNumber(capacity.Required))
	case errors.Is(err, inventory.ErrNoAuthority):
		return s.t("transfer.no_authority")
	case errors.Is(err, inventory.ErrInvalidQuantity):
		return s.t("transfer.too_many", entry.Name, strconv.Itoa(entry.Quantity))
	case errors.Is(err, inventory.ErrInvalidTransfer):
		return s.t("transfer.invalid", entry.Name)
	case errors.Is(err, inventory.ErrItemNotFound), errors.Is(err, inventory.ErrContainerNotFound):
		return s.t("transfer.stale", entry.Name)
	}
	return s.failure("transfer", err)
}

// findEntry matches name against entry names, ignoring case. Loose entries
// win over contained ones.
func findEntry(entries []inventory.Entry, name string, containersOnly bool) (inventory.Entry, bool) {
	var found inventory.Entry
	ok := false
	for _, e := range entries {
		if containersOnly && !e.IsContainer() {
			continue
		}
		if !strings.EqualFold(e.Name, name) {
			continue
		}
		if e.Location == inventory.NoContainer {
			return e, true
		}
		if !ok {
			found, ok = e, true
		}
	}
	return found, ok
}
