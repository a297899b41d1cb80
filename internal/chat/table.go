package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Robak132/MacrosCompanionModules/internal/game/advantage"
	"github.com/Robak132/MacrosCompanionModules/internal/game/alcohol"
	"github.com/Robak132/MacrosCompanionModules/internal/game/xp"
	"github.com/Robak132/MacrosCompanionModules/internal/scripting"
)

// Drink sub-commands that move the ladder without a test.
const (
	drinkIncrease = "increase"
	drinkReduce   = "reduce"
	drinkClear    = "clear"
)

func (s *Service) handleDrink(ctx context.Context, from Player, cmd *Command, args ParseResult) string {
	if len(args.Args) == 0 {
		return s.usage(cmd)
	}
	action := strings.ToLower(args.Args[0])

	drinkerID := from.ActorID
	if len(args.Args) > 1 {
		if !from.GM {
			return s.t("chat.gm_only", cmd.Name+" <actor>")
		}
		name := strings.Join(args.Args[1:], " ")
		a, ok, err := s.findActor(ctx, name)
		if err != nil {
			return s.failure("drink", err)
		}
		if !ok {
			return s.t("inventory.not_found", name)
		}
		drinkerID = a.ID
	}
	if drinkerID == "" {
		return s.t("chat.no_actor")
	}
	name := s.actorName(ctx, drinkerID)

	var (
		step alcohol.Step
		err  error
		key  string
	)
	switch action {
	case drinkIncrease:
		step, err = s.Alcohol.Increase(ctx, drinkerID)
		key = "drink.increased"
	case drinkReduce:
		step, err = s.Alcohol.Reduce(ctx, drinkerID)
		key = "drink.reduced"
	case drinkClear:
		step, err = s.Alcohol.RemoveAll(ctx, drinkerID)
		key = "drink.cleared"
	default:
		return s.drink(ctx, drinkerID, name, action)
	}
	if err != nil {
		return s.drinkError(name, action, err)
	}
	if action == drinkClear {
		return s.t(key, name, strconv.Itoa(step.Before))
	}
	out := []string{s.t(key, name, strconv.Itoa(step.Before), strconv.Itoa(step.After))}
	if step.Draw != nil {
		out = append(out, s.overcome(name, step.Draw))
	}
	return lines(out...)
}

func (s *Service) drink(ctx context.Context, drinkerID, name, beverageID string) string {
	rep, err := s.Alcohol.Drink(ctx, drinkerID, beverageID)
	if err != nil {
		return s.drinkError(name, beverageID, err)
	}
	out := []string{s.t("drink.header", name, rep.Beverage.Name, strconv.Itoa(rep.Target))}
	for _, res := range rep.Tests {
		key := "drink.test_failure"
		if res.Success {
			key = "drink.test_success"
		}
		out = append(out, s.t(key, strconv.Itoa(res.Roll), fmt.Sprintf("%+d", res.SL)))
	}
	for _, step := range rep.Steps {
		if step.Draw != nil {
			out = append(out, s.overcome(name, step.Draw))
		}
	}
	out = append(out, s.t("drink.failures", name, strconv.Itoa(rep.Failures)))
	out = s.fire(ctx, out, scripting.HookDrink, scripting.Event{
		"actor":    name,
		"actor_id": drinkerID,
		"beverage": rep.Beverage.Name,
		"failures": rep.Failures,
		"failed":   len(rep.Steps),
	})
	return lines(out...)
}

func (s *Service) overcome(name string, d *alcohol.Draw) string {
	return s.t("drink.overcome", name, d.Result.Text, strconv.Itoa(d.Roll.Total()))
}

func (s *Service) drinkError(name, action string, err error) string {
	switch {
	case errors.Is(err, alcohol.ErrUnknownBeverage):
		ids := make([]string, 0, len(alcohol.Beverages()))
		for _, b := range alcohol.Beverages() {
			ids = append(ids, b.ID)
		}
		return s.t("drink.unknown", action, strings.Join(ids, ", "))
	case errors.Is(err, alcohol.ErrDrinkerNotFound):
		return s.t("drink.not_drinker", name)
	}
	return s.failure("drink", err)
}

func (s *Service) handleAdvantage(args ParseResult) string {
	selection := make(map[string]string, len(args.Args))
	for _, a := range args.Args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return s.t("advantage.unknown", a)
		}
		selection[strings.ToLower(k)] = strings.ToLower(v)
	}
	res, err := advantage.Calculate(selection)
	if err != nil {
		if errors.Is(err, advantage.ErrUnknownOption) {
			return s.t("advantage.unknown", args.RawArgs)
		}
		return s.failure("advantage", err)
	}

	var out []string
	for _, f := range advantage.Factors() {
		key, ok := selection[f.Key]
		if !ok {
			key = f.Default
		}
		o, _ := f.Option(key)
		out = append(out, s.t("advantage.factor", f.Label, o.Label))
	}
	out = append(out, s.t("advantage.initial", strconv.Itoa(res.Players), strconv.Itoa(res.Enemies)))
	return lines(out...)
}

// parseCombatant parses "name:side:size[:drilled][:defeated]".
func parseCombatant(token string) (advantage.Combatant, bool) {
	parts := strings.Split(token, ":")
	if len(parts) < 3 || parts[0] == "" {
		return advantage.Combatant{}, false
	}
	c := advantage.Combatant{Name: strings.ReplaceAll(parts[0], "_", " "), Size: strings.ToLower(parts[2])}
	switch strings.ToLower(parts[1]) {
	case "ally", "allies", "friendly":
		c.Disposition = advantage.Allies
	case "neutral":
		c.Disposition = advantage.Neutral
	case "enemy", "enemies", "hostile":
		c.Disposition = advantage.Enemies
	default:
		return advantage.Combatant{}, false
	}
	for _, flag := range parts[3:] {
		switch strings.ToLower(flag) {
		case "drilled":
			c.Drilled = true
		case "defeated":
			c.Defeated = true
		default:
			return advantage.Combatant{}, false
		}
	}
	return c, true
}

func (s *Service) handleLosing(cmd *Command, args ParseResult) string {
	if len(args.Args) == 0 {
		return s.usage(cmd)
	}
	combatants := make([]advantage.Combatant, 0, len(args.Args))
	for _, tok := range args.Args {
		c, ok := parseCombatant(tok)
		if !ok {
			return s.t("losing.invalid", tok)
		}
		combatants = append(combatants, c)
	}
	sides, err := advantage.Losing(combatants)
	if err != nil {
		return s.t("losing.invalid", err.Error())
	}

	var out []string
	for _, side := range sides {
		out = append(out, s.t("losing.side", s.t("losing."+side.Disposition.String()), formatNumber(side.Total)))
		for _, m := range side.Members {
			var notes []string
			if m.Drilled {
				notes = append(notes, s.t("losing.drilled"))
			}
			if m.Defeated {
				notes = append(notes, s.t("losing.defeated"))
			}
			line := s.t("losing.member", m.Name, formatNumber(m.Value))
			if len(notes) > 0 {
				line += " (" + strings.Join(notes, ", ") + ")"
			}
			out = append(out, line)
		}
	}
	return lines(out...)
}

func (s *Service) handleXP(ctx context.Context, cmd *Command, args ParseResult) string {
	if len(args.Args) == 0 {
		return s.usage(cmd)
	}
	amount, err := strconv.Atoi(args.Args[0])
	if err != nil {
		return s.t("xp.invalid", args.Args[0])
	}
	tmpl := DefaultReason
	if len(args.Args) > 1 {
		tmpl = strings.Join(args.Args[1:], " ")
	}
	reason := xp.FormatReason(tmpl, xp.Session{ID: s.opts.Session, Date: s.opts.Now()})

	awards, err := s.XP.AwardAll(ctx, amount, reason)
	if err != nil {
		return s.failure("xp", err)
	}
	if len(awards) == 0 {
		return s.t("xp.none")
	}
	out := []string{s.t("xp.header", strconv.Itoa(amount), reason)}
	for _, a := range awards {
		out = append(out, s.t("xp.line", a.Name, fmt.Sprintf("%+d", a.XP),
			strconv.Itoa(a.OldTotal), strconv.Itoa(a.NewTotal)))
	}
	return lines(out...)
}

var categoryOrder = []string{CategoryMarket, CategoryInventory, CategoryTable, CategorySystem}

func (s *Service) handleHelp(from Player) string {
	byCat := s.registry.CommandsByCategory()
	out := []string{s.t("help.header")}
	for _, cat := range categoryOrder {
		var ls []string
		for _, cmd := range byCat[cat] {
			if cmd.GMOnly && !from.GM {
				continue
			}
			ls = append(ls, s.t("help.line", cmd.Usage, s.t(cmd.Help)))
		}
		if len(ls) == 0 {
			continue
		}
		out = append(out, s.t("help.category", s.t("category."+cat)))
		out = append(out, ls...)
	}
	return lines(out...)
}
