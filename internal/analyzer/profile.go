package analyzer

import (
	"errors"
	"strings"
)

const (
	defaultClimate          = "temperate"
	defaultTimezone         = "UTC"
	defaultSleepHoursGoal   = 8.0
	defaultHydrationPerKg   = 35.0
	defaultSweatRateLph     = 0.8
	hotClimate              = "hot"
	hotClimateSweatModifier = 1.2
)

var ErrInvalidProfile = errors.New("invalid user profile")

// UserProfile drives the personal targets of the daily analysis.
type UserProfile struct {
	ID                         string   `json:"id"`
	Sex                        *string  `json:"sex"`
	Age                        *int     `json:"age"`
	HeightCm                   *float64 `json:"height_cm"`
	WeightKg                   float64  `json:"weight_kg"`
	Sport                      *string  `json:"sport"`
	Climate                    string   `json:"climate"`
	Timezone                   string   `json:"timezone"`
	SleepHoursGoal             float64  `json:"sleep_hours_goal"`
	HydrationMultiplierMlPerKg *float64 `json:"hydration_multiplier_ml_per_kg"`
	EstimatedSweatRateLph      *float64 `json:"estimated_sweat_rate_lph"`
}

// NewDefaultProfile is the decode target for incoming profiles: fields absent
// from the JSON keep these defaults, explicit nulls clear the optional ones.
func NewDefaultProfile() UserProfile {
	multiplier := defaultHydrationPerKg
	sweatRate := defaultSweatRateLph
	return UserProfile{
		Climate:                    defaultClimate,
		Timezone:                   defaultTimezone,
		SleepHoursGoal:             defaultSleepHoursGoal,
		HydrationMultiplierMlPerKg: &multiplier,
		EstimatedSweatRateLph:      &sweatRate,
	}
}

func (p UserProfile) Validate() error {
	var problems []string
	if p.WeightKg <= 0 {
		problems = append(problems, "weight_kg must be greater than 0")
	}
	if p.SleepHoursGoal <= 0 {
		problems = append(problems, "sleep_hours_goal must be greater than 0")
	}
	if p.HydrationMultiplierMlPerKg != nil && *p.HydrationMultiplierMlPerKg <= 0 {
		problems = append(problems, "hydration_multiplier_ml_per_kg must be greater than 0")
	}
	if p.EstimatedSweatRateLph != nil && *p.EstimatedSweatRateLph <= 0 {
		problems = append(problems, "estimated_sweat_rate_lph must be greater than 0")
	}
	if len(problems) > 0 {
		return errors.Join(ErrInvalidProfile, errors.New(strings.Join(problems, "; ")))
	}
	return nil
}

func (p UserProfile) hydrationMultiplier() float64 {
	if p.HydrationMultiplierMlPerKg == nil || *p.HydrationMultiplierMlPerKg == 0 {
		return defaultHydrationPerKg
	}
	return *p.HydrationMultiplierMlPerKg
}

func (p UserProfile) sweatRate() float64 {
	if p.EstimatedSweatRateLph == nil || *p.EstimatedSweatRateLph == 0 {
		return defaultSweatRateLph
	}
	return *p.EstimatedSweatRateLph
}

func (p UserProfile) climateFactor() float64 {
	if strings.EqualFold(p.Climate, hotClimate) {
		return hotClimateSweatModifier
	}
	return 1
}
