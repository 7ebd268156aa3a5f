package torque

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var reFloat = regexp.MustCompile(`([\d.]+)`)

// ParseReading extracts the first float from a line of gauge output.
// For example, "HI 301.5 ft.lb" => 301.5. Returns false if no float is
// found.
func ParseReading(line string) (float64, bool) {
	m := reFloat.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseRange converts a string like "67.2 - 72.8" into its bounds.
func ParseRange(rangeStr string) (float64, float64, bool) {
	parts := strings.Split(rangeStr, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	low, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	high, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return low, high, true
}

// WithinAllowance reports whether target falls inside the numeric bounds
// of rangeStr.
func WithinAllowance(target float64, rangeStr string) bool {
	low, high, ok := ParseRange(rangeStr)
	return ok && low <= target && target <= high
}

// Fit is one allowance of a spec that a live reading landed inside.
type Fit struct {
	AllowanceIndex int // 1-based
	RangeStr       string
	Diff           float64 // distance from the range midpoint
}

// FindFits checks each of the spec's allowances against a reading and
// returns the matches, closest to the range midpoint first.
func FindFits(target float64, spec Spec) []Fit {
	var fits []Fit
	for i := 1; i <= len(spec.Allowances); i++ {
		rng := spec.Allowance(i)
		if !WithinAllowance(target, rng) {
			continue
		}
		low, high, _ := ParseRange(rng)
		mid := (low + high) / 2.0
		fits = append(fits, Fit{
			AllowanceIndex: i,
			RangeStr:       rng,
			Diff:           math.Abs(mid - target),
		})
	}
	sort.Slice(fits, func(a, b int) bool { return fits[a].Diff < fits[b].Diff })
	return fits
}

func formatRange(low, high float64) string {
	return fmt.Sprintf("%v - %v", low, high)
}
