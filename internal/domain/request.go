package domain

import "github.com/smartcity/energy/pkg/utils"

// Input bounds enforced by the form controls
const (
	MinHouseholdSize = 1
	MaxHouseholdSize = 20

	MinAvgTemperatureC = -10.0
	MaxAvgTemperatureC = 50.0

	MinPeakHoursUsageKWh = 0.0
	MaxPeakHoursUsageKWh = 20.0
)

// Control defaults and step sizes
const (
	DefaultHouseholdSize     = 4
	DefaultAvgTemperatureC   = 25.0
	DefaultHasAC             = true
	DefaultPeakHoursUsageKWh = 3.5

	HouseholdSizeStep     = 1
	AvgTemperatureStep    = 0.5
	PeakHoursUsageKWhStep = 0.5
)

// PredictionRequest holds the four household attributes captured from the form.
// It is built fresh for every submit and never stored.
type PredictionRequest struct {
	HouseholdSize     int     `json:"household_size"`
	AvgTemperatureC   float64 `json:"avg_temperature_c"`
	HasAC             bool    `json:"has_ac"`
	PeakHoursUsageKWh float64 `json:"peak_hours_usage_kwh"`
}

// DefaultPredictionRequest returns the values the form shows before any input.
func DefaultPredictionRequest() PredictionRequest {
	return PredictionRequest{
		HouseholdSize:     DefaultHouseholdSize,
		AvgTemperatureC:   DefaultAvgTemperatureC,
		HasAC:             DefaultHasAC,
		PeakHoursUsageKWh: DefaultPeakHoursUsageKWh,
	}
}

// YesNo renders a boolean the way the model's categorical column expects it.
func YesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// Clamped forces every field into its declared range. Fractional fields
// are snapped to their step so re-rendered values pass browser validation.
func (r PredictionRequest) Clamped() PredictionRequest {
	r.HouseholdSize = utils.ClampInt(r.HouseholdSize, MinHouseholdSize, MaxHouseholdSize)
	r.AvgTemperatureC = utils.SnapToStep(r.AvgTemperatureC,
		MinAvgTemperatureC, AvgTemperatureStep,
		MinAvgTemperatureC, MaxAvgTemperatureC)
	r.PeakHoursUsageKWh = utils.SnapToStep(r.PeakHoursUsageKWh,
		MinPeakHoursUsageKWh, PeakHoursUsageKWhStep,
		MinPeakHoursUsageKWh, MaxPeakHoursUsageKWh)
	return r
}
