package utils

import (
	"math"
)

// Clamp limits a value between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampInt limits an integer between min and max
func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RoundTo rounds a float to specified decimal places
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// SnapToStep moves value onto the grid origin + k*step, then clamps it
func SnapToStep(value, origin, step, min, max float64) float64 {
	if step <= 0 {
		return Clamp(value, min, max)
	}
	k := math.Round((value - origin) / step)
	return Clamp(RoundTo(origin+k*step, 6), min, max)
}
