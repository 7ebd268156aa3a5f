package torque

import (
	"strings"

	"github.com/c-trac/torquebench/constants"
)

// UnitTable resolves the many spellings of torque units seen on labels
// (ft/lb, ft-lbs, n.m, ...) and converts values to newton-metres for
// comparison. Synonym lists come from settings so shops can extend them.
type UnitTable struct {
	ftLb map[string]struct{}
	inLb map[string]struct{}
	nm   map[string]struct{}
}

// NewUnitTable builds a table from comma-separated synonym lists. Empty
// arguments fall back to the defaults.
func NewUnitTable(ftLbSynonyms, inLbSynonyms, nmSynonyms string) *UnitTable {
	if ftLbSynonyms == "" {
		ftLbSynonyms = constants.DefaultFtLbSynonyms
	}
	if inLbSynonyms == "" {
		inLbSynonyms = constants.DefaultInLbSynonyms
	}
	if nmSynonyms == "" {
		nmSynonyms = constants.DefaultNmSynonyms
	}
	return &UnitTable{
		ftLb: splitSynonyms(ftLbSynonyms),
		inLb: splitSynonyms(inLbSynonyms),
		nm:   splitSynonyms(nmSynonyms),
	}
}

func splitSynonyms(csv string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range strings.Split(csv, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

// ToNm converts a value in the given unit to newton-metres. An
// unrecognized unit passes the value through unchanged, matching how an
// operator would treat an unlabeled rating.
func (t *UnitTable) ToNm(value float64, unit string) float64 {
	u := strings.ToLower(strings.TrimSpace(unit))
	switch {
	case member(t.ftLb, u):
		return value * constants.FtLbToNm
	case member(t.inLb, u):
		return value * constants.InLbToNm
	case member(t.nm, u):
		return value
	default:
		return value
	}
}

func member(set map[string]struct{}, s string) bool {
	_, ok := set[s]
	return ok
}
