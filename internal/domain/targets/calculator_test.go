package targets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeBMRMaleSedentary(t *testing.T) {
	bmr := ComputeBMR(Profile{
		WeightKg:      70,
		HeightCm:      170,
		Age:           30,
		Sex:           Male,
		ActivityLevel: Sedentary,
	})
	// ((10*70)+(6.25*170)-(5*30)+5) * 1.2
	require.Equal(t, 1882.5, bmr)
}

func TestComputeBMRFemaleSedentary(t *testing.T) {
	bmr := ComputeBMR(Profile{
		WeightKg:      70,
		HeightCm:      170,
		Age:           30,
		Sex:           Female,
		ActivityLevel: Sedentary,
	})
	require.InDelta(t, 1683.3, bmr, 1e-9)
}

func TestComputeBMRActivityMultipliers(t *testing.T) {
	base := Profile{WeightKg: 70, HeightCm: 170, Age: 30, Sex: Male}

	cases := map[ActivityLevel]float64{
		Sedentary:        1.2,
		LightlyActive:    1.375,
		ModeratelyActive: 1.55,
		VeryActive:       1.8,
	}
	for level, factor := range cases {
		profile := base
		profile.ActivityLevel = level
		require.InDelta(t, 1568.75*factor, ComputeBMR(profile), 1e-9, "level %s", level)
	}
}

func TestComputeBMRUnknownActivityPanics(t *testing.T) {
	require.Panics(t, func() {
		ComputeBMR(Profile{WeightKg: 70, HeightCm: 170, Age: 30, Sex: Male, ActivityLevel: "Couch"})
	})
}

func TestComputeDailyTargets(t *testing.T) {
	got := ComputeDailyTargets(Profile{
		WeightKg:      70,
		HeightCm:      170,
		Age:           30,
		Sex:           Female,
		ActivityLevel: ModeratelyActive,
	})
	require.Equal(t, 2174.26, got.BMR) // 1402.75 * 1.55 rounded to 2 decimals
	require.Equal(t, 50.0, got.Protein)
	require.Equal(t, 275.0, got.Carbs)
	require.Equal(t, 55.0, got.Fat)
	require.Positive(t, got.BMR)
}

func TestParseActivityLevel(t *testing.T) {
	level, err := ParseActivityLevel("moderately active")
	require.NoError(t, err)
	require.Equal(t, ModeratelyActive, level)

	_, err = ParseActivityLevel("extremely active")
	require.Error(t, err)
}

func TestParseSex(t *testing.T) {
	sex, err := ParseSex("female")
	require.NoError(t, err)
	require.Equal(t, Female, sex)

	_, err = ParseSex("unknown")
	require.Error(t, err)
}
