package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Feature names, in the order the model was trained against
const (
	FeatureHouseholdSize     = "Household_Size"
	FeatureAvgTemperatureC   = "Avg_Temperature_C"
	FeatureHasAC             = "Has_AC"
	FeaturePeakHoursUsageKWh = "Peak_Hours_Usage_kWh"
)

// FeatureSchema returns the ordered feature names expected by the model.
func FeatureSchema() []string {
	return []string{
		FeatureHouseholdSize,
		FeatureAvgTemperatureC,
		FeatureHasAC,
		FeaturePeakHoursUsageKWh,
	}
}

// Feature is one labeled column of a Record.
// Value is an int, float64 or string.
type Feature struct {
	Name  string
	Value any
}

// Record is a single-row labeled feature table
type Record []Feature

// Keys returns the feature names in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Name
	}
	return keys
}

// Lookup returns the value stored under name.
func (r Record) Lookup(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the record as an object, keeping column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("record: failed to encode %s: %w", f.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
