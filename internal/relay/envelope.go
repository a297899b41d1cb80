// Package relay carries transfer requests from non-authoritative peers to
// the authoritative one over a websocket. Delivery is fire-and-forget: the
// server sends no acknowledgement and the client never retries a message.
package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
)

// TypeTransferItem tags an envelope carrying an inventory.TransferRequest.
const TypeTransferItem = "transferItem"

// SecretHeader carries the shared relay secret on the upgrade request.
const SecretHeader = "X-Relay-Secret"

// ErrMalformed is returned for an envelope that cannot be decoded.
var ErrMalformed = errors.New("malformed relay message")

// Envelope is the JSON frame exchanged over the relay socket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeTransfer wraps req in a transferItem envelope.
func EncodeTransfer(req inventory.TransferRequest) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding transfer: %w", err)
	}
	return json.Marshal(Envelope{Type: TypeTransferItem, Payload: payload})
}

// DecodeTransfer unwraps a transferItem envelope.
//
// Postcondition: returns an error wrapping ErrMalformed for bad JSON, an
// unknown type or a request missing its item, actors or quantity.
func DecodeTransfer(data []byte) (inventory.TransferRequest, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return inventory.TransferRequest{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type != TypeTransferItem {
		return inventory.TransferRequest{}, fmt.Errorf("%w: type %q", ErrMalformed, env.Type)
	}
	var req inventory.TransferRequest
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		return inventory.TransferRequest{}, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}
	if req.ItemID == "" || req.SourceActorID == "" || req.TargetActorID == "" || req.Quantity <= 0 {
		return inventory.TransferRequest{}, fmt.Errorf("%w: incomplete transfer", ErrMalformed)
	}
	return req, nil
}
