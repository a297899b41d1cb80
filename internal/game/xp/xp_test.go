package xp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/Robak132/MacrosCompanionModules/internal/game/xp"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 13, xp.Round(12.5))
	assert.Equal(t, 12, xp.Round(12.49))
	assert.Equal(t, -2, xp.Round(-2.5))
}

func TestGrant_Half(t *testing.T) {
	a := xp.Grant(xp.Recipient{ActorID: "c", Name: "Dog", Total: 100, Current: 10, Modifier: xp.Half}, 25)
	assert.Equal(t, 13, a.XP)
	assert.Equal(t, 113, a.NewTotal)
	assert.Equal(t, 23, a.NewCurrent)
}

func TestGrant_FloorsAtZero(t *testing.T) {
	a := xp.Grant(xp.Recipient{Name: "Anna", Total: 30, Current: 5, Modifier: xp.Full}, -50)
	assert.Equal(t, -50, a.XP)
	assert.Equal(t, 0, a.NewTotal)
	assert.Equal(t, 0, a.NewCurrent)
}

func TestFormatReason(t *testing.T) {
	date := time.Date(2024, 3, 7, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "Session 12 (2024-03-07)",
		xp.FormatReason("Session %session% (%date%)", xp.Session{ID: "12", Date: date}))
	assert.Equal(t, "Session 12",
		xp.FormatReason("Session %session% (%date%)", xp.Session{ID: "12"}))
	assert.Equal(t, "Session",
		xp.FormatReason("Session %session%", xp.Session{}))
}

func TestService_AwardAll(t *testing.T) {
	store := xp.NewMemoryStore(
		xp.Recipient{ActorID: "a", Name: "Anna", Total: 200, Current: 50, Modifier: xp.Full, Enabled: true},
		xp.Recipient{ActorID: "d", Name: "Dog", Total: 40, Current: 0, Modifier: xp.Half, Enabled: true},
		xp.Recipient{ActorID: "b", Name: "Bert", Total: 100, Modifier: xp.Full},
	)
	core, logs := observer.New(zapcore.InfoLevel)
	svc := xp.NewService(store, zap.New(core))

	awards, err := svc.AwardAll(context.Background(), 45, "Session 3")
	require.NoError(t, err)
	require.Len(t, awards, 2)
	assert.Equal(t, "Anna", awards[0].Name)
	assert.Equal(t, 45, awards[0].XP)
	assert.Equal(t, 23, awards[1].XP)

	anna, err := store.Recipient("a")
	require.NoError(t, err)
	assert.Equal(t, 245, anna.Total)
	bert, _ := store.Recipient("b")
	assert.Equal(t, 100, bert.Total, "disabled recipients are skipped")
	assert.Equal(t, []string{"Anna: +45 Session 3", "Dog: +23 Session 3"}, store.Log())
	assert.Equal(t, 1, logs.FilterMessage("experience awarded").Len())
}

func TestMemoryStore_SaveAwards_Unknown(t *testing.T) {
	store := xp.NewMemoryStore()
	err := store.SaveAwards(context.Background(), []xp.Award{{ActorID: "ghost"}}, "")
	assert.True(t, errors.Is(err, xp.ErrRecipientNotFound))
}

func TestProperty_Grant_NeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := xp.Recipient{
			Total:    rapid.IntRange(0, 10000).Draw(rt, "total"),
			Current:  rapid.IntRange(0, 10000).Draw(rt, "current"),
			Modifier: rapid.SampledFrom([]float64{xp.Full, xp.Half}).Draw(rt, "mod"),
		}
		a := xp.Grant(r, rapid.IntRange(-20000, 20000).Draw(rt, "amount"))
		if a.NewTotal < 0 || a.NewCurrent < 0 {
			rt.Fatalf("negative result %+v", a)
		}
	})
}
