package money

import (
	"context"
	"fmt"
)

// HoldingStore reads and writes an actor's money stacks.
type HoldingStore interface {
	// Holdings returns the actor's money stacks.
	Holdings(ctx context.Context, actorID string) ([]Holding, error)
	// ApplyHoldings writes new quantities for existing stacks and creates new
	// stacks atomically.
	ApplyHoldings(ctx context.Context, actorID string, updates, created []Holding) error
}

// Service runs market operations end to end against a HoldingStore.
type Service interface {
	// Pay resolves req against the actor's holdings and commits the result.
	Pay(ctx context.Context, actorID string, req PaymentRequest) (*PaymentResult, error)
	// Credit adds a to the actor's pivot-region gold, silver and pence stacks.
	Credit(ctx context.Context, actorID string, a Amount) ([]Holding, error)
	// Exchange converts a from source to target region currency.
	Exchange(ctx context.Context, a Amount, source, target string) (Conversion, error)
	// Regions returns the loaded region set.
	Regions() *RegionSet
}

type market struct {
	regions *RegionSet
	store   HoldingStore
	alloc   Allocator
}

// NewService returns a Service over regions and store. alloc may be nil, in
// which case payments needing a manual allocation are declined.
func NewService(regions *RegionSet, store HoldingStore, alloc Allocator) Service {
	return &market{regions: regions, store: store, alloc: alloc}
}

func (m *market) Regions() *RegionSet {
	return m.regions
}

func (m *market) Pay(ctx context.Context, actorID string, req PaymentRequest) (*PaymentResult, error) {
	holdings, err := m.store.Holdings(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("Pay: loading holdings of %q: %w", actorID, err)
	}
	res, err := ResolvePayment(ctx, req, holdings, m.regions, m.alloc)
	if err != nil {
		return nil, err
	}
	if res.Method == PaidInRegion {
		res.Created = withMissingStacks(holdings, res.Created, res.Region)
	}
	if err := m.store.ApplyHoldings(ctx, actorID, res.Updates, res.Created); err != nil {
		return nil, fmt.Errorf("Pay: committing payment of %q: %w", actorID, err)
	}
	return res, nil
}

// withMissingStacks adds zero-quantity stacks for region coins the actor
// neither holds nor receives as change.
func withMissingStacks(holdings, created []Holding, region *Region) []Holding {
	existing := append(append([]Holding(nil), holdings...), created...)
	return append(created, MissingCoinStacks(existing, region)...)
}

func (m *market) Credit(ctx context.Context, actorID string, a Amount) ([]Holding, error) {
	holdings, err := m.store.Holdings(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("Credit: loading holdings of %q: %w", actorID, err)
	}
	updates, err := Credit(holdings, a, m.regions.Pivot())
	if err != nil {
		return nil, err
	}
	if err := m.store.ApplyHoldings(ctx, actorID, updates, nil); err != nil {
		return nil, fmt.Errorf("Credit: committing credit of %q: %w", actorID, err)
	}
	return updates, nil
}

func (m *market) Exchange(_ context.Context, a Amount, source, target string) (Conversion, error) {
	src, ok := m.regions.Region(source)
	if !ok {
		return Conversion{}, fmt.Errorf("Exchange: source %q: %w", source, ErrNoMatchingRegion)
	}
	dst, ok := m.regions.Region(target)
	if !ok {
		return Conversion{}, fmt.Errorf("Exchange: target %q: %w", target, ErrNoMatchingRegion)
	}
	return m.regions.Exchange(a.Total(), dst.Key, src.Key)
}
