package http

import (
	"math"
	"strconv"
	"strings"

	"github.com/smartcity/energy/internal/domain"
	"github.com/smartcity/energy/pkg/utils"
)

// Form field names
const (
	FieldHouseholdSize     = "household_size"
	FieldAvgTemperatureC   = "avg_temperature_c"
	FieldHasAC             = "has_ac"
	FieldPeakHoursUsageKWh = "peak_hours_usage_kwh"
)

// Control kinds
const (
	KindNumber = "number"
	KindSlider = "slider"
	KindRadio  = "radio"
)

// Control describes one bounded input widget and its current value
type Control struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Help     string   `json:"help"`
	Kind     string   `json:"kind"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	Step     float64  `json:"step"`
	Default  string   `json:"default"`
	Value    string   `json:"value"`
	Options  []string `json:"options,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Disabled bool     `json:"disabled"`
}

// Controls declares the four form widgets populated with req.
func Controls(req domain.PredictionRequest, disabled bool) []Control {
	def := domain.DefaultPredictionRequest()
	return []Control{
		{
			Name:     FieldHouseholdSize,
			Label:    "Household Size (people)",
			Help:     "Number of people living in the household",
			Kind:     KindNumber,
			Min:      domain.MinHouseholdSize,
			Max:      domain.MaxHouseholdSize,
			Step:     domain.HouseholdSizeStep,
			Default:  strconv.Itoa(def.HouseholdSize),
			Value:    strconv.Itoa(req.HouseholdSize),
			Disabled: disabled,
		},
		{
			Name:     FieldAvgTemperatureC,
			Label:    "Average Temperature (°C)",
			Help:     "Average daily temperature in Celsius",
			Kind:     KindSlider,
			Min:      domain.MinAvgTemperatureC,
			Max:      domain.MaxAvgTemperatureC,
			Step:     domain.AvgTemperatureStep,
			Default:  formatFloat(def.AvgTemperatureC),
			Value:    formatFloat(req.AvgTemperatureC),
			Unit:     "°C",
			Disabled: disabled,
		},
		{
			Name:     FieldHasAC,
			Label:    "Has Air Conditioning?",
			Help:     "Does the household have AC?",
			Kind:     KindRadio,
			Default:  domain.YesNo(def.HasAC),
			Value:    domain.YesNo(req.HasAC),
			Options:  []string{"Yes", "No"},
			Disabled: disabled,
		},
		{
			Name:     FieldPeakHoursUsageKWh,
			Label:    "Peak Hours Usage (kWh)",
			Help:     "Energy consumed during peak hours (typically 6pm-10pm)",
			Kind:     KindNumber,
			Min:      domain.MinPeakHoursUsageKWh,
			Max:      domain.MaxPeakHoursUsageKWh,
			Step:     domain.PeakHoursUsageKWhStep,
			Default:  formatFloat(def.PeakHoursUsageKWh),
			Value:    formatFloat(req.PeakHoursUsageKWh),
			Unit:     "kWh",
			Disabled: disabled,
		},
	}
}

// ParseForm reads submitted values through get and clamps them to the
// control bounds. Missing or unparseable fields keep their defaults.
func ParseForm(get func(key string) string) domain.PredictionRequest {
	req := domain.DefaultPredictionRequest()

	if v, ok := parseNumber(get(FieldHouseholdSize)); ok {
		req.HouseholdSize = int(utils.Clamp(utils.RoundTo(v, 0), domain.MinHouseholdSize, domain.MaxHouseholdSize))
	}
	if v, ok := parseNumber(get(FieldAvgTemperatureC)); ok {
		req.AvgTemperatureC = v
	}
	switch strings.ToLower(strings.TrimSpace(get(FieldHasAC))) {
	case "yes", "true", "1":
		req.HasAC = true
	case "no", "false", "0":
		req.HasAC = false
	}
	if v, ok := parseNumber(get(FieldPeakHoursUsageKWh)); ok {
		req.PeakHoursUsageKWh = v
	}

	return req.Clamped()
}

func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
