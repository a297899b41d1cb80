package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is matched by *CapacityExceededError via errors.Is.
	ErrCapacityExceeded = errors.New("container capacity exceeded")
	// ErrItemNotFound is returned when a transfer names an item the source does not hold.
	ErrItemNotFound = errors.New("item not found")
	// ErrActorNotFound is returned by a Store for an unknown actor.
	ErrActorNotFound = errors.New("actor not found")
	// ErrContainerNotFound is returned when a location names no container of the actor.
	ErrContainerNotFound = errors.New("container not found")
	// ErrInvalidQuantity is returned for a non-positive or excessive transfer quantity.
	ErrInvalidQuantity = errors.New("invalid transfer quantity")
	// ErrInvalidTransfer is returned when a container would be moved into itself.
	ErrInvalidTransfer = errors.New("invalid transfer")
	// ErrNoAuthority is returned when no authoritative peer can apply a transfer.
	ErrNoAuthority = errors.New("no authoritative peer online")
)

// CapacityExceededError reports a rejected transfer into a full container.
type CapacityExceededError struct {
	ContainerID string
	Name        string
	Capacity    float64
	Load        float64
	Required    float64
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("not enough space in %q: %.2f + %.2f > %.2f", e.Name, e.Load, e.Required, e.Capacity)
}

// Is reports whether target is ErrCapacityExceeded.
func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
