package torque

import "math"

// MatchSpec picks the stored spec whose maximum torque is closest to an
// extracted rating, after normalizing both sides to newton-metres. A spec
// matches when it lies within max(10% of the target, 2.0 Nm); specs are
// scanned in table order and the first match wins, mirroring how the
// selection combo is populated.
func MatchSpec(units *UnitTable, specs []Spec, value float64, unit string) (Spec, bool) {
	target := units.ToNm(value, unit)
	tolerance := math.Max(target*0.10, 2.0)
	for _, s := range specs {
		specNm := units.ToNm(s.MaxTorque, s.Unit)
		if math.Abs(specNm-target) <= tolerance {
			return s, true
		}
	}
	return Spec{}, false
}
