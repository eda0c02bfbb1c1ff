package model

import "fmt"

type linear struct {
	intercept    float64
	coefficients []float64
}

func (l linear) score(x []float64) (float64, error) {
	if len(x) != len(l.coefficients) {
		return 0, fmt.Errorf("model: %d inputs for %d coefficients", len(x), len(l.coefficients))
	}
	y := l.intercept
	for i, c := range l.coefficients {
		y += c * x[i]
	}
	return y, nil
}
