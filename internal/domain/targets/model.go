package targets

import (
	"fmt"
	"strings"
)

// Sex selects the Mifflin-St Jeor offset.
type Sex string

const (
	Male   Sex = "Male"
	Female Sex = "Female"
)

// ActivityLevel scales the base metabolic rate.
type ActivityLevel string

const (
	Sedentary        ActivityLevel = "Sedentary"
	LightlyActive    ActivityLevel = "Lightly Active"
	ModeratelyActive ActivityLevel = "Moderately Active"
	VeryActive       ActivityLevel = "Very Active"
)

// Profile carries the biometric inputs for one interaction. It is built
// fresh from the request payload and never persisted.
type Profile struct {
	WeightKg      float64       `json:"weightKg"`
	HeightCm      float64       `json:"heightCm"`
	Age           float64       `json:"age"`
	Sex           Sex           `json:"sex"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
}

// DailyTargets is the computed daily energy/macro budget. BMR is rounded to
// two decimals; the macro grams are fixed reference values.
type DailyTargets struct {
	BMR     float64 `json:"bmr"`
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Consumed is one logged intake used by the complement scorer.
type Consumed struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// ParseSex validates a form value into a Sex.
func ParseSex(value string) (Sex, error) {
	switch {
	case strings.EqualFold(value, string(Male)):
		return Male, nil
	case strings.EqualFold(value, string(Female)):
		return Female, nil
	default:
		return "", fmt.Errorf("unknown sex %q", value)
	}
}

// ParseActivityLevel validates a form value into an ActivityLevel.
func ParseActivityLevel(value string) (ActivityLevel, error) {
	for _, level := range []ActivityLevel{Sedentary, LightlyActive, ModeratelyActive, VeryActive} {
		if strings.EqualFold(value, string(level)) {
			return level, nil
		}
	}
	return "", fmt.Errorf("unknown activity level %q", value)
}
