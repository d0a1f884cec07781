package targets

import (
	"fmt"
	"math"
)

// Fixed daily macro targets in grams, paired with the computed BMR.
const (
	ReferenceProtein = 50
	ReferenceCarbs   = 275
	ReferenceFat     = 55
)

// ComputeBMR estimates daily energy expenditure using the Mifflin-St Jeor
// equation scaled by the activity multiplier. Inputs are assumed to be
// validated at the transport boundary; an activity level outside the enum
// panics rather than silently defaulting.
func ComputeBMR(profile Profile) float64 {
	base := 10*profile.WeightKg + 6.25*profile.HeightCm - 5*profile.Age
	if profile.Sex == Female {
		base -= 161
	} else {
		base += 5
	}
	return base * activityMultiplier(profile.ActivityLevel)
}

// ComputeDailyTargets wraps ComputeBMR with the fixed macro reference values.
func ComputeDailyTargets(profile Profile) DailyTargets {
	return DailyTargets{
		BMR:     math.Round(ComputeBMR(profile)*100) / 100,
		Protein: ReferenceProtein,
		Carbs:   ReferenceCarbs,
		Fat:     ReferenceFat,
	}
}

// ReferenceTargets returns the fixed macro budget used by the complement
// scorer when no per-user targets are in play.
func ReferenceTargets() DailyTargets {
	return DailyTargets{
		Protein: ReferenceProtein,
		Carbs:   ReferenceCarbs,
		Fat:     ReferenceFat,
	}
}

func activityMultiplier(level ActivityLevel) float64 {
	switch level {
	case Sedentary:
		return 1.2
	case LightlyActive:
		return 1.375
	case ModeratelyActive:
		return 1.55
	case VeryActive:
		return 1.8
	default:
		panic(fmt.Sprintf("targets: unknown activity level %q", level))
	}
}
