package chat

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Robak132/MacrosCompanionModules/internal/game/money"
)

var (
	// ErrCardNotFound is returned when no open card has the given id.
	ErrCardNotFound = errors.New("card not found")
	// ErrCardNotAddressed is returned when a card is reserved for another actor.
	ErrCardNotAddressed = errors.New("card addressed to another actor")
	// ErrAlreadyClaimed is returned when an actor claims a card twice.
	ErrAlreadyClaimed = errors.New("card already claimed")
)

// CardKind distinguishes the cards posted by the GM.
type CardKind string

const (
	// CardCredit pays the claimer.
	CardCredit CardKind = "credit"
	// CardPayment charges the claimer.
	CardPayment CardKind = "payment"
)

// Card is an offer posted to chat that players claim with /claim.
// Remaining counts the claims left; the card closes at zero.
type Card struct {
	ID        string
	Kind      CardKind
	Amount    money.Amount
	Request   money.PaymentRequest
	Remaining int
	// Only, when set, is the single actor allowed to claim.
	Only    string
	claimed map[string]bool
}

// Board holds the open cards. It is safe for concurrent use.
type Board struct {
	mu    sync.Mutex
	cards map[string]*Card
	newID func() string
}

// NewBoard returns an empty Board. newID may be nil, in which case card ids
// are the first eight characters of a random UUID.
func NewBoard(newID func() string) *Board {
	if newID == nil {
		newID = func() string { return uuid.New().String()[:8] }
	}
	return &Board{cards: make(map[string]*Card), newID: newID}
}

// Post opens c under a fresh id and returns it.
//
// Precondition: c.Remaining > 0.
func (b *Board) Post(c Card) Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.ID = b.newID()
	c.claimed = make(map[string]bool)
	b.cards[c.ID] = &c
	return c
}

// Open returns the open cards ordered by id.
func (b *Board) Open() []Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Card, 0, len(b.cards))
	for _, c := range b.cards {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Claim runs fn for actorID against the card with id and, when fn succeeds,
// counts the claim. A card whose counter reaches zero is closed. The board
// stays locked while fn runs, so one card never runs two claims at once.
//
// Postcondition: returns the card after the claim; on error the counter is unchanged.
func (b *Board) Claim(id, actorID string, fn func(Card) error) (Card, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.cards[id]
	if !ok {
		return Card{}, fmt.Errorf("%w: %q", ErrCardNotFound, id)
	}
	if c.Only != "" && c.Only != actorID {
		return *c, fmt.Errorf("%w: %q", ErrCardNotAddressed, id)
	}
	if c.claimed[actorID] {
		return *c, fmt.Errorf("%w: %q", ErrAlreadyClaimed, id)
	}
	if err := fn(*c); err != nil {
		return *c, err
	}
	c.claimed[actorID] = true
	c.Remaining--
	if c.Remaining <= 0 {
		delete(b.cards, id)
	}
	return *c, nil
}
