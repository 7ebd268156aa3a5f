package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Stage names which parse attempt produced the candidate mapping.
type Stage string

const (
	StageFenced Stage = "fenced" // JSON found inside a ``` block
	StageBare   Stage = "bare"   // whole reply treated as JSON after trimming backticks
	StageEmpty  Stage = "empty"  // nothing parseable; all fields default
)

var reFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Interpretation is the discriminated outcome of the fallback chain.
// Candidate is never nil; a malformed reply degrades to an empty map.
type Interpretation struct {
	Candidate map[string]any
	Stage     Stage
}

// InterpretResponse runs the ordered fallback chain over a raw model
// reply: fenced block first, then the bare text with stray backticks
// trimmed, else an empty mapping. A structural parse failure is not an
// error — a garbled reply means "nothing extracted", not an abort.
func InterpretResponse(raw string) Interpretation {
	text := strings.TrimSpace(raw)

	if m := reFence.FindStringSubmatch(text); m != nil {
		if cand, ok := decodeObject(m[1]); ok {
			return Interpretation{Candidate: cand, Stage: StageFenced}
		}
		return Interpretation{Candidate: map[string]any{}, Stage: StageEmpty}
	}

	bare := strings.TrimSpace(strings.Trim(text, "`"))
	if cand, ok := decodeObject(bare); ok {
		return Interpretation{Candidate: cand, Stage: StageBare}
	}
	return Interpretation{Candidate: map[string]any{}, Stage: StageEmpty}
}

func decodeObject(text string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &m); err != nil {
		return nil, false
	}
	return m, true
}

// ProjectFields reads each of the nine canonical keys out of the candidate
// mapping with an empty-string default, which is what guarantees the
// always-nine-keys contract regardless of what the model returned.
// Numeric values (models like to emit max_torque as a number) are coerced
// to their printed form.
func ProjectFields(candidate map[string]any) LabelFields {
	get := func(key string) string {
		v, ok := candidate[key]
		if !ok {
			return ""
		}
		switch t := v.(type) {
		case string:
			return strings.TrimSpace(t)
		case float64:
			return fmt.Sprintf("%v", t)
		default:
			return ""
		}
	}
	return LabelFields{
		Manufacturer: get("manufacturer"),
		Model:        get("model"),
		Unit:         get("unit"),
		Serial:       get("serial"),
		Customer:     get("customer"),
		Phone:        get("phone"),
		Address:      get("address"),
		MaxTorque:    get("max_torque"),
		TorqueUnit:   get("torque_unit"),
	}
}
