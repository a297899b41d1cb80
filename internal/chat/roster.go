package chat

import (
	"context"
	"sort"
	"strings"
)

// Player is a chat participant and the actor they control.
type Player struct {
	UserID  string `mapstructure:"user_id" yaml:"user_id"`
	Name    string `mapstructure:"name" yaml:"name"`
	ActorID string `mapstructure:"actor_id" yaml:"actor_id"`
	GM      bool   `mapstructure:"gm" yaml:"gm"`
	Active  bool   `mapstructure:"active" yaml:"active"`
}

// Roster lists the people at the table.
type Roster interface {
	// Players returns the active players that are not the GM, ordered by name.
	Players(ctx context.Context) ([]Player, error)
	// User returns the participant with userID.
	User(ctx context.Context, userID string) (Player, bool)
}

// StaticRoster is a fixed Roster.
type StaticRoster []Player

// Players implements Roster.
func (r StaticRoster) Players(_ context.Context) ([]Player, error) {
	var out []Player
	for _, p := range r {
		if p.Active && !p.GM {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// User implements Roster.
func (r StaticRoster) User(_ context.Context, userID string) (Player, bool) {
	for _, p := range r {
		if p.UserID == userID {
			return p, true
		}
	}
	return Player{}, false
}

// findPlayer matches name against player and actor names, ignoring case.
func findPlayer(players []Player, name string, actorName func(string) string) (Player, bool) {
	for _, p := range players {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	for _, p := range players {
		if actorName != nil && strings.EqualFold(actorName(p.ActorID), name) {
			return p, true
		}
	}
	return Player{}, false
}
