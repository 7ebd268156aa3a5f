package llm

import "github.com/c-trac/torquebench/constants"

// BuildLabelJSONSchema returns a JSON-Schema (draft 2020-12 subset) for
// the nine-key label object as a generic map. Used locally to decide
// whether a reply needs the lenient sanitize pass before projection.
func BuildLabelJSONSchema() map[string]any {
	props := map[string]any{}
	for _, k := range constants.LabelFieldNames {
		props[k] = map[string]any{"type": "string"}
	}
	// max_torque should be the bare number as printed
	props["max_torque"] = map[string]any{
		"type":    "string",
		"pattern": `^$|^\d+(\.\d+)?$`,
	}

	required := make([]any, 0, len(constants.LabelFieldNames))
	for _, k := range constants.LabelFieldNames {
		required = append(required, k)
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}
