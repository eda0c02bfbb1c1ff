package domain

import "github.com/shopspring/decimal"

// Estimate is the presented outcome of one prediction
type Estimate struct {
	ID           string          `json:"id"`
	PredictedKWh float64         `json:"predicted_kwh"`
	DailyCost    decimal.Decimal `json:"daily_cost"`
	MonthlyCost  decimal.Decimal `json:"monthly_cost"`
	Rate         decimal.Decimal `json:"rate_per_kwh"`
	Display      Display         `json:"display"`
	Insights     Insights        `json:"insights"`
}

// Display holds the formatted headline values
type Display struct {
	Consumption string `json:"consumption"`
	DailyCost   string `json:"daily_cost"`
	MonthlyCost string `json:"monthly_cost"`
	Rate        string `json:"rate"`
}

// Insights echoes the inputs as summary metrics
type Insights struct {
	Household   string `json:"household"`
	Temperature string `json:"temperature"`
	PeakUsage   string `json:"peak_usage"`
}

// EstimateResponse wraps an estimate for the JSON API
type EstimateResponse struct {
	Data    Estimate `json:"data"`
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
}
