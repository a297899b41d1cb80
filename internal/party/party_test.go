package party_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
	"github.com/Robak132/MacrosCompanionModules/internal/game/xp"
	"github.com/Robak132/MacrosCompanionModules/internal/party"
)

func catalog(t *testing.T) *inventory.Registry {
	t.Helper()
	defs, err := inventory.LoadItems("../../content/items")
	require.NoError(t, err)
	reg := inventory.NewRegistry()
	for _, d := range defs {
		require.NoError(t, reg.RegisterItem(d))
	}
	return reg
}

func TestLoad_ContentParty(t *testing.T) {
	p, err := party.Load(filepath.Join("..", "..", "content", "party.yaml"), catalog(t))
	require.NoError(t, err)

	actors := p.Actors()
	require.Len(t, actors, 3)
	anna := actors[0]
	assert.Equal(t, "Anna", anna.Name)

	pack, ok := anna.Entry("anna.pack")
	require.True(t, ok)
	assert.True(t, pack.IsContainer())
	assert.True(t, pack.Equipped)

	blanket, ok := anna.Entry("anna.blanket")
	require.True(t, ok)
	assert.Equal(t, "anna.pack", blanket.Location)

	rope, ok := anna.Entry("anna.rope")
	require.True(t, ok)
	assert.Equal(t, inventory.NoContainer, rope.Location)
	assert.Equal(t, 1, rope.Quantity)

	crowns, ok := anna.Entry("anna.gold_crown")
	require.True(t, ok)
	assert.Equal(t, inventory.KindMoney, crowns.Kind)
	assert.Equal(t, "anna.purse", crowns.Location)
}

func TestLoad_DrinkersAndRecipients(t *testing.T) {
	p, err := party.Load("../../content/party.yaml", catalog(t))
	require.NoError(t, err)

	drinkers := p.Drinkers()
	require.Len(t, drinkers, 3)
	assert.Equal(t, 41, drinkers[1].Toughness)

	recipients := p.Recipients()
	require.Len(t, recipients, 2)
	assert.Equal(t, xp.Full, recipients[0].Modifier)
	assert.Equal(t, xp.Half, recipients[1].Modifier)
	assert.Equal(t, 610, recipients[1].Total)
	assert.True(t, recipients[1].Enabled)
}

func TestNew_DuplicateStacksGetDistinctIDs(t *testing.T) {
	p, err := party.New([]party.Member{{
		ID: "a", Name: "A",
		Items: []party.Grant{{Item: "rope"}, {Item: "rope"}},
	}}, catalog(t))
	require.NoError(t, err)
	a := p.Actors()[0]
	assert.Equal(t, "a.rope", a.Entries[0].ItemID)
	assert.Equal(t, "a.rope.2", a.Entries[1].ItemID)
}

func TestNew_Errors(t *testing.T) {
	cases := []struct {
		name    string
		members []party.Member
		want    string
	}{
		{"missing id", []party.Member{{Name: "A"}}, "id and name are required"},
		{"duplicate", []party.Member{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}}, "duplicate id"},
		{"unknown item", []party.Member{{ID: "a", Name: "A", Items: []party.Grant{{Item: "zweihander"}}}}, `unknown item "zweihander"`},
		{"undeclared container", []party.Member{{ID: "a", Name: "A", Items: []party.Grant{{Item: "rope", In: "bag"}}}}, `container "bag"`},
		{"ref on non-container", []party.Member{{ID: "a", Name: "A", Items: []party.Grant{{Item: "rope", Ref: "r"}}}}, "is not a container"},
		{"negative quantity", []party.Member{{ID: "a", Name: "A", Items: []party.Grant{{Item: "rope", Quantity: -1}}}}, "negative quantity"},
		{"bad modifier", []party.Member{{ID: "a", Name: "A", XP: &party.Experience{Modifier: "double"}}}, "full or half"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := party.New(tc.members, catalog(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "party.yaml")
	require.NoError(t, writeFile(path, "members:\n  - id: a\n    name: A\n    strength: 30\n"))
	_, err := party.Load(path, catalog(t))
	require.Error(t, err)
}

func writeFile(path, body string) error {
	return os.WriteFile(path, []byte(body), 0o644)
}
