package service

import "github.com/smartcity/energy/internal/domain"

// AssembleFeatures maps a request onto the model's feature schema.
// Names and order match domain.FeatureSchema.
func AssembleFeatures(req domain.PredictionRequest) domain.Record {
	return domain.Record{
		{Name: domain.FeatureHouseholdSize, Value: req.HouseholdSize},
		{Name: domain.FeatureAvgTemperatureC, Value: req.AvgTemperatureC},
		{Name: domain.FeatureHasAC, Value: domain.YesNo(req.HasAC)},
		{Name: domain.FeaturePeakHoursUsageKWh, Value: req.PeakHoursUsageKWh},
	}
}
