package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartcity/energy/internal/domain"
)

// DaysPerMonth is the multiplier behind the monthly estimate
const DaysPerMonth = 30

// DefaultCostPerKWh is the tariff used when none is configured
var DefaultCostPerKWh = decimal.RequireFromString("0.12")

// Presenter turns raw predictions into display values. It holds no state
// besides the tariff.
type Presenter struct {
	rate decimal.Decimal
}

// NewPresenter creates a presenter charging rate per kWh. Callers validate
// the rate with ValidateRate; it is used as given.
func NewPresenter(rate decimal.Decimal) *Presenter {
	return &Presenter{rate: rate}
}

// ValidateRate rejects tariffs that are zero or negative
func ValidateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return fmt.Errorf("must be positive, got %s", rate)
	}
	return nil
}

// Rate returns the configured cost per kWh
func (p *Presenter) Rate() decimal.Decimal {
	return p.rate
}

// DailyCost is prediction * rate, unrounded
func (p *Presenter) DailyCost(prediction float64) decimal.Decimal {
	return decimal.NewFromFloat(prediction).Mul(p.rate)
}

// MonthlyCost is exactly DaysPerMonth times the unrounded daily cost
func (p *Presenter) MonthlyCost(daily decimal.Decimal) decimal.Decimal {
	return daily.Mul(decimal.NewFromInt(DaysPerMonth))
}

// Present builds the estimate shown for one prediction.
func (p *Presenter) Present(req domain.PredictionRequest, prediction float64) domain.Estimate {
	daily := p.DailyCost(prediction)
	monthly := p.MonthlyCost(daily)

	return domain.Estimate{
		ID:           uuid.NewString(),
		PredictedKWh: prediction,
		DailyCost:    daily,
		MonthlyCost:  monthly,
		Rate:         p.rate,
		Display: domain.Display{
			Consumption: FormatKWh(prediction),
			DailyCost:   FormatMoney(daily),
			MonthlyCost: FormatMoney(monthly),
			Rate:        "$" + p.rate.String() + "/kWh",
		},
		Insights: domain.Insights{
			Household:   fmt.Sprintf("%d people", req.HouseholdSize),
			Temperature: fmt.Sprintf("%.1f°C", req.AvgTemperatureC),
			PeakUsage:   fmt.Sprintf("%.1f kWh", req.PeakHoursUsageKWh),
		},
	}
}

// FormatKWh renders an energy value with two decimals
func FormatKWh(v float64) string {
	return fmt.Sprintf("%.2f kWh", v)
}

// FormatMoney renders a dollar amount rounded half away from zero to cents.
// Half-cent amounts round up in magnitude (1.215 -> $1.22) where printf on
// the float64 product may round them down.
func FormatMoney(v decimal.Decimal) string {
	cents := v.Round(2)
	if cents.IsNegative() {
		return "-$" + cents.Neg().StringFixed(2)
	}
	return "$" + cents.StringFixed(2)
}
