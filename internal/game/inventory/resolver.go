package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Store loads actor inventories and commits changesets atomically.
type Store interface {
	// Actor returns a snapshot of the actor's inventory, or an error
	// wrapping ErrActorNotFound.
	Actor(ctx context.Context, id string) (*Actor, error)
	// Commit applies every change in cs, or none of them.
	Commit(ctx context.Context, cs Changeset) error
}

// Resolver applies transfer requests against a Store.
type Resolver struct {
	store  Store
	logger *zap.Logger
}

// NewResolver returns a Resolver over store.
//
// Precondition: store and logger are non-nil.
func NewResolver(store Store, logger *zap.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Apply plans req against fresh snapshots of the source and target actors
// and commits the result. A rejected transfer writes nothing.
//
// Postcondition: returns the committed changeset, or an error with no state change.
func (r *Resolver) Apply(ctx context.Context, req TransferRequest) (Changeset, error) {
	source, err := r.store.Actor(ctx, req.SourceActorID)
	if err != nil {
		return Changeset{}, fmt.Errorf("Apply: loading source: %w", err)
	}
	target := source
	if !req.Local() {
		target, err = r.store.Actor(ctx, req.TargetActorID)
		if err != nil {
			return Changeset{}, fmt.Errorf("Apply: loading target: %w", err)
		}
	}

	cs, err := PlanTransfer(req, source, target)
	if err != nil {
		r.logger.Info("transfer rejected",
			zap.String("item", req.ItemID),
			zap.String("source", req.SourceActorID),
			zap.String("target", req.TargetActorID),
			zap.Error(err),
		)
		return Changeset{}, err
	}
	if cs.Empty() {
		return cs, nil
	}
	if err := r.store.Commit(ctx, cs); err != nil {
		return Changeset{}, fmt.Errorf("Apply: committing transfer of %q: %w", req.ItemID, err)
	}

	r.logger.Debug("transfer applied",
		zap.String("item", req.ItemID),
		zap.Int("quantity", req.Quantity),
		zap.String("source", req.SourceActorID),
		zap.String("source_container", req.SourceContainerID),
		zap.String("target", req.TargetActorID),
		zap.String("target_container", req.TargetContainerID),
		zap.Int("updates", len(cs.Updates)),
		zap.Int("creates", len(cs.Creates)),
		zap.Int("deletes", len(cs.Deletes)),
	)
	return cs, nil
}
