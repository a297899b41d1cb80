package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Relay forwards transfer requests to the authoritative peer. Delivery is
// at most once: there is no acknowledgement, retry or ordering guarantee.
type Relay interface {
	// Send forwards req without waiting for it to be applied.
	Send(ctx context.Context, req TransferRequest) error
	// AuthorityOnline reports whether an authoritative peer is connected.
	AuthorityOnline() bool
}

// Dispatcher routes transfers: an authoritative peer applies them locally,
// any other peer relays them.
type Dispatcher struct {
	resolver      *Resolver
	relay         Relay
	authoritative bool
	logger        *zap.Logger
}

// NewDispatcher returns a Dispatcher. relay may be nil on an authoritative peer.
func NewDispatcher(resolver *Resolver, relay Relay, authoritative bool, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{resolver: resolver, relay: relay, authoritative: authoritative, logger: logger}
}

// Authoritative reports whether this peer applies transfers itself.
func (d *Dispatcher) Authoritative() bool {
	return d.authoritative
}

// Dispatch applies or relays each request in order and returns the report
// groups of the handled requests. It stops at the first failure.
//
// Postcondition: returns an error wrapping ErrNoAuthority when this peer is
// not authoritative and no authoritative peer is online.
func (d *Dispatcher) Dispatch(ctx context.Context, reqs []TransferRequest) ([]TransferGroup, error) {
	handled := make([]TransferRequest, 0, len(reqs))
	for _, req := range reqs {
		if err := d.dispatch(ctx, req); err != nil {
			return GroupTransfers(handled), err
		}
		handled = append(handled, req)
	}
	return GroupTransfers(handled), nil
}

func (d *Dispatcher) dispatch(ctx context.Context, req TransferRequest) error {
	if d.authoritative {
		_, err := d.resolver.Apply(ctx, req)
		return err
	}
	if d.relay == nil || !d.relay.AuthorityOnline() {
		return fmt.Errorf("Dispatch: %w", ErrNoAuthority)
	}
	if err := d.relay.Send(ctx, req); err != nil {
		return fmt.Errorf("Dispatch: relaying %q: %w", req.ItemID, err)
	}
	d.logger.Debug("transfer relayed",
		zap.String("item", req.ItemID),
		zap.String("source", req.SourceActorID),
		zap.String("target", req.TargetActorID),
	)
	return nil
}
