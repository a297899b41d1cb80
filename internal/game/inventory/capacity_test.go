package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
)

func TestValidateCapacity(t *testing.T) {
	dest := inventory.Container{
		ID:       "pouch",
		Name:     "Pouch",
		Capacity: 3,
		Entries:  []inventory.Entry{in(rope("r", 1), "pouch")},
	}

	require.NoError(t, inventory.ValidateCapacity(rope("x", 10), 2, dest))

	err := inventory.ValidateCapacity(rope("x", 10), 5, dest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, inventory.ErrCapacityExceeded))

	var cee *inventory.CapacityExceededError
	require.True(t, errors.As(err, &cee))
	assert.Equal(t, "pouch", cee.ContainerID)
	assert.InDelta(t, 1.0, cee.Load, 1e-9)
	assert.InDelta(t, 5.0, cee.Required, 1e-9)
	assert.Contains(t, err.Error(), "Pouch")
}

func TestValidateCapacity_UsesAdjustedUnitWeight(t *testing.T) {
	dest := inventory.Container{ID: "pouch", Capacity: 2}
	light := rope("x", 4)
	light.Lightweight = true
	assert.NoError(t, inventory.ValidateCapacity(light, 4, dest))

	bulky := rope("y", 1)
	bulky.Bulky = true
	assert.Error(t, inventory.ValidateCapacity(bulky, 2, dest))
}

func TestValidateCapacity_NoContainerIsUnlimited(t *testing.T) {
	dest := inventory.Container{ID: inventory.NoContainer}
	assert.NoError(t, inventory.ValidateCapacity(rope("x", 1000), 1000, dest))
}
