package chat

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Robak132/MacrosCompanionModules/internal/game/money"
	"github.com/Robak132/MacrosCompanionModules/internal/scripting"
)

// applyMode adjusts req to the currency mode. It returns false with the
// reply to post when the mode forbids the request.
func (s *Service) applyMode(req money.PaymentRequest) (money.PaymentRequest, string, bool) {
	switch s.opts.Mode {
	case CurrencyDisable:
		pivot := s.Market.Regions().Pivot()
		if req.RegionKey != "" && req.RegionKey != pivot.Key {
			return req, s.t("market.disabled"), false
		}
		req.Strict = true
	case CurrencyCompatibility:
		req.Strict = true
	}
	return req, "", true
}

func (s *Service) handlePay(ctx context.Context, from Player, cmd *Command, args ParseResult) string {
	if from.ActorID == "" {
		return s.t("chat.no_actor")
	}
	if args.RawArgs == "" {
		return s.usage(cmd)
	}
	req, err := money.ParsePayCommand(args.RawArgs)
	if err != nil {
		return s.t("market.invalid_amount", args.RawArgs)
	}
	req, reply, ok := s.applyMode(req)
	if !ok {
		return reply
	}
	reply, _ = s.pay(ctx, from.ActorID, req)
	return reply
}

// pay charges actorID and renders the outcome. The error is non-nil when
// nothing was paid.
func (s *Service) pay(ctx context.Context, actorID string, req money.PaymentRequest) (string, error) {
	name := s.actorName(ctx, actorID)
	res, err := s.Market.Pay(ctx, actorID, req)
	if err != nil {
		return s.payError(name, req, err), err
	}

	key := "pay.success"
	if res.Method == money.PaidByAllocation {
		key = "pay.allocated"
	}
	out := []string{s.t(key, name, formatCoins(res.Paid.Total, res.Region))}
	if res.Change > 0 {
		out = append(out, s.t("pay.change", name, formatCoins(res.Change, res.Region)))
	}
	if res.UnreturnedChange > 0 {
		out = append(out, s.t("pay.unreturned", formatCoins(res.UnreturnedChange, res.Region)))
	}
	out = s.fire(ctx, out, scripting.HookPayment, scripting.Event{
		"actor":    name,
		"actor_id": actorID,
		"pence":    res.Paid.Total,
		"region":   res.Region.Key,
		"method":   string(res.Method),
		"change":   res.Change,
	})
	return lines(out...), nil
}

func (s *Service) payError(name string, req money.PaymentRequest, err error) string {
	var insufficient *money.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		r := insufficient.Region
		out := []string{s.t("pay.insufficient", name,
			formatCoins(insufficient.Needed.Total, r), formatCoins(insufficient.Available, r), r.Name)}
		for _, sh := range insufficient.Breakdown {
			out = append(out, s.t("pay.breakdown", sh.RegionName, formatCoins(sh.Converted, r), formatRate(sh.Rate)))
		}
		return lines(out...)
	case errors.Is(err, money.ErrNoMatchingRegion):
		return s.t("market.unknown_region", req.RegionKey)
	case errors.Is(err, money.ErrDeclined):
		return s.t("pay.declined", name)
	case errors.Is(err, money.ErrInvalidAmountFormat):
		return s.t("market.invalid_amount", req.Amount.String())
	}
	return s.failure("pay", err)
}

// credit adds a to actorID's pivot-region purse and renders the outcome.
func (s *Service) credit(ctx context.Context, actorID string, a money.Amount) (string, error) {
	name := s.actorName(ctx, actorID)
	pivot := s.Market.Regions().Pivot()
	if _, err := s.Market.Credit(ctx, actorID, a); err != nil {
		if errors.Is(err, money.ErrNoMatchingCurrency) {
			return s.t("credit.no_currency", name, pivot.Name), err
		}
		return s.failure("credit", err), err
	}
	out := []string{s.t("credit.success", name, formatCoins(a.Total(), pivot))}
	out = s.fire(ctx, out, scripting.HookCredit, scripting.Event{
		"actor":    name,
		"actor_id": actorID,
		"pence":    a.Total(),
	})
	return lines(out...), nil
}

func (s *Service) handleCredit(ctx context.Context, cmd *Command, args ParseResult) string {
	if args.RawArgs == "" {
		return s.usage(cmd)
	}
	cc, err := money.ParseCreditCommand(args.RawArgs)
	if err != nil {
		return s.t("market.invalid_amount", args.RawArgs)
	}
	players, err := s.Roster.Players(ctx)
	if err != nil {
		return s.failure("credit", err)
	}
	if len(players) == 0 {
		return s.t("credit.no_players")
	}

	card := Card{Kind: CardCredit, Amount: cc.Amount, Remaining: len(players)}
	recipient := s.t("card.everyone")
	switch cc.Mode {
	case money.CreditSplit:
		share, err := money.SplitAmongPlayers(cc.Amount, len(players))
		if err != nil {
			return s.failure("credit", err)
		}
		card.Amount = share
	case money.CreditNamed:
		p, ok := findPlayer(players, cc.Target, func(id string) string { return s.actorName(ctx, id) })
		if !ok {
			return s.t("credit.unknown_player", cc.Target)
		}
		card.Remaining = 1
		card.Only = p.ActorID
		recipient = p.Name
	}

	posted := s.Board.Post(card)
	pivot := s.Market.Regions().Pivot()
	return s.t("credit.card", posted.ID, formatCoins(posted.Amount.Total(), pivot), recipient,
		posted.ID, strconv.Itoa(posted.Remaining))
}

func (s *Service) handlePayRequest(ctx context.Context, cmd *Command, args ParseResult) string {
	if args.RawArgs == "" {
		return s.usage(cmd)
	}
	req, err := money.ParsePayCommand(args.RawArgs)
	if err != nil {
		return s.t("market.invalid_amount", args.RawArgs)
	}
	req, reply, ok := s.applyMode(req)
	if !ok {
		return reply
	}
	region, ok := s.Market.Regions().Region(req.RegionKey)
	if !ok {
		return s.t("market.unknown_region", req.RegionKey)
	}
	players, err := s.Roster.Players(ctx)
	if err != nil {
		return s.failure("payrequest", err)
	}
	if len(players) == 0 {
		return s.t("credit.no_players")
	}
	posted := s.Board.Post(Card{Kind: CardPayment, Amount: req.Amount, Request: req, Remaining: len(players)})
	return s.t("payrequest.card", posted.ID, formatCoins(req.Amount.Total(), region),
		posted.ID, strconv.Itoa(posted.Remaining))
}

func (s *Service) handleClaim(ctx context.Context, from Player, cmd *Command, args ParseResult) string {
	if from.ActorID == "" {
		return s.t("chat.no_actor")
	}
	if len(args.Args) != 1 {
		return s.usage(cmd)
	}
	id := args.Args[0]

	var reply string
	card, err := s.Board.Claim(id, from.ActorID, func(c Card) error {
		var err error
		switch c.Kind {
		case CardCredit:
			reply, err = s.credit(ctx, from.ActorID, c.Amount)
		case CardPayment:
			reply, err = s.pay(ctx, from.ActorID, c.Request)
		}
		return err
	})
	switch {
	case errors.Is(err, ErrCardNotFound):
		return s.t("claim.unknown", id)
	case errors.Is(err, ErrCardNotAddressed):
		return s.t("claim.not_allowed", id, from.Name)
	case errors.Is(err, ErrAlreadyClaimed):
		return s.t("claim.already", from.Name, id)
	case err != nil:
		return reply
	}
	if card.Remaining <= 0 {
		reply = lines(reply, s.t("claim.closed", card.ID))
	}
	return reply
}

func (s *Service) handleExchange(ctx context.Context, cmd *Command, args ParseResult) string {
	if s.opts.Mode == CurrencyDisable {
		return s.t("market.disabled")
	}
	parts := strings.Split(args.RawArgs, "@")
	if len(parts) != 3 {
		return s.usage(cmd)
	}
	amount, err := money.ParseAmount(parts[0])
	if err != nil {
		return s.t("market.invalid_amount", strings.TrimSpace(parts[0]))
	}
	from, to := strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2])
	set := s.Market.Regions()
	src, ok := set.Region(from)
	if !ok {
		return s.t("market.unknown_region", from)
	}
	dst, ok := set.Region(to)
	if !ok {
		return s.t("market.unknown_region", to)
	}
	conv, err := s.Market.Exchange(ctx, amount, src.Key, dst.Key)
	if err != nil {
		if errors.Is(err, money.ErrNoMatchingRegion) {
			return s.t("exchange.no_rate", src.Name, dst.Name)
		}
		return s.failure("exchange", err)
	}
	return s.t("exchange.result", formatCoins(amount.Total(), src), src.Name,
		formatCoins(conv.Converted, dst), dst.Name, formatRate(conv.Rate))
}

func (s *Service) handleRegions() string {
	if s.opts.Mode == CurrencyDisable {
		return s.t("market.disabled")
	}
	set := s.Market.Regions()
	pivot := set.Pivot()
	out := []string{s.t("regions.header", pivot.Name)}
	for _, r := range set.Regions() {
		conv, err := set.Exchange(money.PencePerGold, r.Key, pivot.Key)
		if err != nil {
			out = append(out, s.t("regions.no_rate", r.Name, r.Key, r.MainCoin().Name))
			continue
		}
		out = append(out, s.t("regions.line", r.Name, r.Key, r.MainCoin().Name, formatRate(conv.Rate)))
	}
	return lines(out...)
}
