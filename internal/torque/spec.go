// Package torque holds the calibration domain: stored wrench
// specifications, applied-torque and allowance math, unit conversion,
// and live test sessions.
package torque

import "math"

// Spec is one row of the torque specification table: a wrench rating plus
// the three applied-torque test points and their allowance ranges.
type Spec struct {
	ID             int
	MaxTorque      float64
	Unit           string
	Type           string
	AppliedTorques []float64
	Allowances     [3]string
}

// Allowance returns the range string for the 1-based allowance index.
func (s Spec) Allowance(i int) string {
	if i < 1 || i > len(s.Allowances) {
		return ""
	}
	return s.Allowances[i-1]
}

// AppliedTorques calculates the typical test points for a maximum torque
// at ~92%, ~58% and ~33%, each rounded to the nearest 10.
func AppliedTorques(maxTorque float64) []float64 {
	factors := []float64{0.916, 0.583, 0.333}
	results := make([]float64, 0, len(factors))
	for _, f := range factors {
		raw := maxTorque * f
		results = append(results, math.Round(raw/10)*10)
	}
	return results
}

// AllowanceRange returns a min-max allowance range string around an
// applied value. Small targets get a wider tolerance: 6% under 10,
// 4% otherwise.
func AllowanceRange(applied float64) string {
	tolerance := 0.04
	if applied < 10 {
		tolerance = 0.06
	}
	low := applied * (1 - tolerance)
	high := applied * (1 + tolerance)
	return formatRange(round1(low), round1(high))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
