// Package xp awards experience points to player characters and companions.
package xp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Award modifiers.
const (
	Full = 1.0
	Half = 0.5
)

// ErrRecipientNotFound is returned when a store has no recipient for an id.
var ErrRecipientNotFound = errors.New("xp recipient not found")

// Recipient is an actor eligible for experience.
type Recipient struct {
	ActorID  string
	Name     string
	Total    int
	Current  int
	Modifier float64
	Enabled  bool
}

// Award is the experience granted to one recipient.
type Award struct {
	ActorID    string
	Name       string
	XP         int
	OldTotal   int
	NewTotal   int
	OldCurrent int
	NewCurrent int
}

// Round rounds to the nearest integer with halves rounding up.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Grant computes the award of amount to r.
//
// Postcondition: NewTotal >= 0 and NewCurrent >= 0.
func Grant(r Recipient, amount int) Award {
	xp := Round(float64(amount) * r.Modifier)
	return Award{
		ActorID:    r.ActorID,
		Name:       r.Name,
		XP:         xp,
		OldTotal:   r.Total,
		NewTotal:   max(r.Total+xp, 0),
		OldCurrent: r.Current,
		NewCurrent: max(r.Current+xp, 0),
	}
}

// Session identifies the game session an award belongs to.
type Session struct {
	ID   string
	Date time.Time
}

// FormatReason expands "%date%" and "%session%" in tmpl. Without a session
// date the " (%date%)" suffix is dropped; without a session id "%session%"
// expands to nothing.
func FormatReason(tmpl string, s Session) string {
	if s.Date.IsZero() {
		tmpl = strings.ReplaceAll(tmpl, " (%date%)", "")
		tmpl = strings.ReplaceAll(tmpl, "%date%", "")
	} else {
		tmpl = strings.ReplaceAll(tmpl, "%date%", s.Date.Format("2006-01-02"))
	}
	return strings.TrimSpace(strings.ReplaceAll(tmpl, "%session%", s.ID))
}

// Store holds recipients' experience.
type Store interface {
	Recipients(ctx context.Context) ([]Recipient, error)
	SaveAwards(ctx context.Context, awards []Award, reason string) error
}

// Service awards experience to every enabled recipient in a store.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a Service.
//
// Precondition: store and logger are non-nil.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// AwardAll grants amount to each enabled recipient, persists the awards and
// returns them in recipient order.
func (s *Service) AwardAll(ctx context.Context, amount int, reason string) ([]Award, error) {
	recipients, err := s.store.Recipients(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading recipients: %w", err)
	}
	var awards []Award
	for _, r := range recipients {
		if !r.Enabled {
			continue
		}
		awards = append(awards, Grant(r, amount))
	}
	if len(awards) == 0 {
		return nil, nil
	}
	if err := s.store.SaveAwards(ctx, awards, reason); err != nil {
		return nil, fmt.Errorf("saving awards: %w", err)
	}
	s.logger.Info("experience awarded",
		zap.Int("amount", amount),
		zap.String("reason", reason),
		zap.Int("recipients", len(awards)),
	)
	return awards, nil
}

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	mu         sync.Mutex
	recipients map[string]Recipient
	log        []string
}

// NewMemoryStore returns a MemoryStore seeded with recipients.
func NewMemoryStore(recipients ...Recipient) *MemoryStore {
	s := &MemoryStore{recipients: make(map[string]Recipient, len(recipients))}
	for _, r := range recipients {
		s.recipients[r.ActorID] = r
	}
	return s
}

// Recipients returns full-XP recipients first, then companions, each by name.
func (s *MemoryStore) Recipients(_ context.Context) ([]Recipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recipient, 0, len(s.recipients))
	for _, r := range s.recipients {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Modifier != out[j].Modifier {
			return out[i].Modifier > out[j].Modifier
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Recipient returns the recipient with id.
func (s *MemoryStore) Recipient(id string) (Recipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipients[id]
	if !ok {
		return Recipient{}, fmt.Errorf("%w: %q", ErrRecipientNotFound, id)
	}
	return r, nil
}

// SaveAwards applies awards and records reason in the experience log.
func (s *MemoryStore) SaveAwards(_ context.Context, awards []Award, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range awards {
		if _, ok := s.recipients[a.ActorID]; !ok {
			return fmt.Errorf("%w: %q", ErrRecipientNotFound, a.ActorID)
		}
	}
	for _, a := range awards {
		r := s.recipients[a.ActorID]
		r.Total, r.Current = a.NewTotal, a.NewCurrent
		s.recipients[a.ActorID] = r
		s.log = append(s.log, fmt.Sprintf("%s: %+d %s", r.Name, a.XP, reason))
	}
	return nil
}

// Log returns the recorded award lines.
func (s *MemoryStore) Log() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.log...)
}
