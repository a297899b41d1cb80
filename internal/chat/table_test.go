package chat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_DrinkFailure(t *testing.T) {
	s := defaultSetup()
	s.faces = []int{80}
	f := newFixture(t, s)

	assert.Equal(t, "Anna drinks Ale (target 55).\n  rolled 80: failure (-3 SL)\nAnna has 1 Consume Alcohol failures.",
		f.say(anna, "/drink ale"))
}

func TestHandle_DrinkSuccess(t *testing.T) {
	s := defaultSetup()
	s.faces = []int{30}
	f := newFixture(t, s)

	assert.Equal(t, "Anna drinks Ale (target 55).\n  rolled 30: success (+2 SL)\nAnna has 0 Consume Alcohol failures.",
		f.say(anna, "/drink ale"))
}

func TestHandle_DrinkOvercomeFiresHook(t *testing.T) {
	s := defaultSetup()
	s.faces = []int{99, 99, 99, 10, 99, 90}
	f := newFixture(t, s)

	out := f.say(anna, "/drink bugman_ale")
	ls := strings.Split(out, "\n")
	require.Len(t, ls, 9)
	assert.Equal(t, "Anna drinks Bugman's XXXXXX Ale (target 55).", ls[0])
	for _, l := range ls[1:5] {
		assert.Equal(t, "  rolled 99: failure (-4 SL)", l)
	}
	assert.True(t, strings.HasPrefix(ls[5], "Anna is stinking drunk: Marienburgher's Courage!"), ls[5])
	assert.True(t, strings.HasSuffix(ls[5], "(rolled 10)"), ls[5])
	assert.True(t, strings.HasPrefix(ls[6], "Anna is stinking drunk: How Did I Get Here?"), ls[6])
	assert.Equal(t, "Anna has 4 Consume Alcohol failures.", ls[7])
	assert.Equal(t, "Anna is well past merry after the Bugman's XXXXXX Ale.", ls[8])
}

func TestHandle_DrinkLadderCommands(t *testing.T) {
	f := newFixture(t, defaultSetup())

	assert.Equal(t, "Anna: Consume Alcohol failures 0 to 1.", f.say(anna, "/drink increase"))
	assert.Equal(t, "Anna: Consume Alcohol failures 1 to 2.", f.say(anna, "/drink increase"))
	out := f.say(anna, "/drink increase")
	assert.True(t, strings.HasPrefix(out, "Anna: Consume Alcohol failures 2 to 3.\nAnna is stinking drunk: Why's Everything Spinning?"), out)
	assert.Equal(t, "Anna: Consume Alcohol failures 3 to 2.", f.say(anna, "/drink reduce"))
	assert.Equal(t, "Anna sobers up, 2 failures cleared.", f.say(anna, "/drink clear"))
}

func TestHandle_DrinkForOthers(t *testing.T) {
	f := newFixture(t, defaultSetup())

	assert.Equal(t, "Bert: Consume Alcohol failures 0 to 1.", f.say(gm, "/drink increase Bert"))
	assert.Equal(t, "Only the GM may use /drink <actor>.", f.say(anna, "/drink increase Bert"))
	assert.Equal(t, "You have no character assigned.", f.say(gm, "/drink ale"))
	assert.True(t, strings.HasPrefix(f.say(anna, "/drink beer"), "Unknown beverage beer. Choose one of: small_beer, ale"))
}

func TestHandle_Advantage(t *testing.T) {
	f := newFixture(t, defaultSetup())

	assert.Equal(t, "  Manoeuvrability: Static forces\n"+
		"  Surprise: Surprised Players\n"+
		"  Outnumbering: Equal forces\n"+
		"  Terrain: Equal\n"+
		"  Threat: None\n"+
		"Starting advantage: players 0, enemies 2.", f.say(gm, "/advantage surprise=players_surprised"))
	assert.Equal(t, "Unknown factor or option in weather=rain.", f.say(gm, "/adv weather=rain"))
	assert.Equal(t, "Only the GM may use /advantage.", f.say(anna, "/advantage"))
}

func TestHandle_Losing(t *testing.T) {
	f := newFixture(t, defaultSetup())

	out := f.say(gm, "/losing Anna:ally:avg:drilled Bert:ally:avg Orc:enemy:lrg Rat:enemy:sml:defeated")
	assert.Equal(t, "Allies: 3\n  Anna 2 (drilled)\n  Bert 1\nEnemies: 2\n  Orc 2\n  Rat 0.5 (defeated)", out)

	assert.Equal(t, "Cannot read combatant Anna:friend:avg. Write it like Name:ally:avg:drilled.",
		f.say(gm, "/losing Anna:friend:avg"))
}

func TestHandle_XP(t *testing.T) {
	f := newFixture(t, defaultSetup())

	out := f.say(gm, "/xp 50")
	assert.Equal(t, "Awarded 50 XP: Session 7 (2026-10-16)\n"+
		"  Anna: +50 XP (total 100 to 150)\n"+
		"  Bert: +25 XP (total 40 to 65)", out)
	r, err := f.xp.Recipient("bert")
	require.NoError(t, err)
	assert.Equal(t, 65, r.Total)

	out = f.say(gm, "/xp 10 Bounty for %session%")
	assert.True(t, strings.HasPrefix(out, "Awarded 10 XP: Bounty for 7\n"), out)

	assert.Equal(t, "Cannot read the amount lots.", f.say(gm, "/xp lots"))
	assert.Equal(t, "Only the GM may use /xp.", f.say(anna, "/xp 50"))
}

func TestHandle_Help(t *testing.T) {
	f := newFixture(t, defaultSetup())

	out := f.say(anna, "/help")
	assert.True(t, strings.HasPrefix(out, "Available commands:\n[Market]\n"), out)
	assert.Contains(t, out, "/pay <amount>[@region[@strict]] - Pay an amount, optionally in a region's currency.")
	assert.NotContains(t, out, "/credit")

	assert.Contains(t, f.say(gm, "/?"), "/credit <amount> [split|each|<name>] - Post a credit card for the players to claim.")
}

func TestHandle_UnknownInput(t *testing.T) {
	f := newFixture(t, defaultSetup())

	assert.Equal(t, "Unknown command /dance. Type /help for a list of commands.", f.say(anna, "/dance"))
	assert.Equal(t, "I don't know who stranger is. Ask the GM to add you to the roster.", f.say("stranger", "/pay 1gc"))
	assert.Equal(t, "", f.say(anna, "   "))
}
