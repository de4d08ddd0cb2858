package allocator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_GlassScenario(t *testing.T) {
	tf := ThrowFactor{WillFactor: 4, Shape: ShapeEarly}
	plausible := map[string][]Candidate{
		"glass": {
			{Distance: 50, Name: "cont1", ContainerID: "CS.20.glass"},
			{Distance: 150, Name: "cont2", ContainerID: "CS.21.glass"},
		},
	}

	table, err := Normalize("user1", plausible, tf)

	require.NoError(t, err)
	require.Len(t, table["glass"], 2)
	assert.Equal(t, "CS.20.glass", table["glass"][0].ContainerID)
	assert.InDelta(t, 0.8, table["glass"][0].Weight, 1e-12)
	assert.InDelta(t, 50.0, table["glass"][0].Distance, 1e-12)
	assert.Equal(t, "CS.21.glass", table["glass"][1].ContainerID)
	assert.InDelta(t, 0.2, table["glass"][1].Weight, 1e-12)
}

func TestNormalize_WeightsSumToOne(t *testing.T) {
	catalog := mustCatalog(t, corralesContainers()...)

	for _, shape := range []Shape{ShapeEarly, ShapeLate} {
		tf := ThrowFactor{WillFactor: 4, Shape: shape}
		for _, user := range corralesUsers() {
			table, err := Normalize(user.Username, Plausible(catalog.Index(user), tf.WillFactor), tf)
			require.NoError(t, err)
			require.Len(t, table, 3)

			for fraction, shares := range table {
				var sum float64
				for _, s := range shares {
					sum += s.Weight
				}
				assert.InDelta(t, 1.0, sum, 1e-9, "user %s fraction %s", user.Username, fraction)
			}
		}
	}
}

func TestNormalize_CorralesWeights(t *testing.T) {
	catalog := mustCatalog(t, corralesContainers()...)
	user := corralesUsers()[1]

	early := ThrowFactor{WillFactor: 4, Shape: ShapeEarly}
	table, err := Normalize(user.Username, Plausible(catalog.Index(user), 4), early)
	require.NoError(t, err)
	require.Len(t, table["glass"], 2)
	assert.Equal(t, "CS.21.glass", table["glass"][0].ContainerID)
	assert.InDelta(t, 0.583075, table["glass"][0].Weight, 1e-5)
	assert.Equal(t, "CS.20.glass", table["glass"][1].ContainerID)
	assert.InDelta(t, 0.416925, table["glass"][1].Weight, 1e-5)

	late := ThrowFactor{WillFactor: 4, Shape: ShapeLate}
	table, err = Normalize(user.Username, Plausible(catalog.Index(user), 4), late)
	require.NoError(t, err)
	assert.InDelta(t, 0.556166, table["glass"][0].Weight, 1e-5)
	assert.InDelta(t, 0.613337, table["organic"][0].Weight, 1e-5)
}

func TestNormalize_CloserThanNearestIsConsistencyError(t *testing.T) {
	tf := ThrowFactor{WillFactor: 4, Shape: ShapeEarly}
	plausible := map[string][]Candidate{
		"paper": {
			{Distance: 100, ContainerID: "p1"},
			{Distance: 60, ContainerID: "p2"},
		},
	}

	table, err := Normalize("user7", plausible, tf)

	require.Error(t, err)
	assert.Nil(t, table)
	var consistency *ConsistencyError
	require.True(t, errors.As(err, &consistency))
	assert.Equal(t, "user7", consistency.UserID)
	assert.Equal(t, "paper", consistency.Fraction)
	assert.Equal(t, "p2", consistency.ContainerID)
	assert.True(t, errors.Is(err, ErrCloserThanNearest))
}

func TestNormalize_ZeroSumIsConsistencyError(t *testing.T) {
	tf := ThrowFactor{WillFactor: 4, Shape: ShapeEarly}
	// NaN distances compare false everywhere and fall through to a zero weight
	plausible := map[string][]Candidate{
		"glass": {{Distance: math.NaN(), ContainerID: "g1"}},
	}

	_, err := Normalize("user3", plausible, tf)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroWeightSum))
	assert.Contains(t, err.Error(), `user "user3"`)
	assert.Contains(t, err.Error(), `fraction "glass"`)
}

func TestNormalize_EmptyInput(t *testing.T) {
	table, err := Normalize("u", map[string][]Candidate{"glass": nil}, ThrowFactor{WillFactor: 4, Shape: ShapeEarly})

	require.NoError(t, err)
	assert.Empty(t, table)
}
