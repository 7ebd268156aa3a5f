package llm

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/c-trac/torquebench/constants"
)

// NormalizeAndSanitizeCandidate
// - Renames known synonyms (unit_number -> unit, serial_number -> serial)
// - Coerces numeric max_torque to its printed string form
// - Trims strings and collapses null to absent
// - Removes unknown keys (strict additionalProperties = false friendliness)
// The candidate map is modified in place; the dropped list is for logging.
func NormalizeAndSanitizeCandidate(m map[string]any, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}

	dropped := make([]string, 0, 4)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms the model drifts toward
	renamed("unit_number", "unit")
	renamed("serial_number", "serial")
	renamed("make", "manufacturer")
	renamed("company", "customer")

	// 2) coerce max_torque to a string number
	if v, ok := m["max_torque"]; ok {
		switch t := v.(type) {
		case float64:
			m["max_torque"] = fmt.Sprintf("%v", t)
		case string:
			m["max_torque"] = strings.TrimSpace(t)
		case nil:
			delete(m, "max_torque")
			dropped = append(dropped, "max_torque(null)")
		}
	}

	// 3) trim strings, drop nulls
	for k, v := range maps.Clone(m) {
		switch t := v.(type) {
		case string:
			m[k] = strings.TrimSpace(t)
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		}
	}

	// 4) remove unknown keys
	allowed := map[string]struct{}{}
	for _, k := range constants.LabelFieldNames {
		allowed[k] = struct{}{}
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return dropped
}
