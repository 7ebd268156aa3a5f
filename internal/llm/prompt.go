package llm

import (
	"strings"

	"github.com/c-trac/torquebench/constants"
)

// BuildSystemPrompt composes the fixed system message: JSON only, exactly
// the nine label keys, no commentary. Kept separate from transport
// mechanics so the instruction text can change without touching the
// client and so it is testable offline.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a calibration-label reader. Return ONLY a JSON object, no commentary, no markdown.",
		"The object must contain exactly these keys: " + strings.Join(constants.LabelFieldNames, ", ") + ".",
		"Every key must be present. If a value is not visible on the label, use an empty string.",
		"All values are strings. For max_torque, return just the number as printed (no unit).",
		"For torque_unit, return the unit exactly as printed (e.g. Nm, ft-lb, in-lb).",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt enumerates the nine fields in natural language.
func BuildUserPrompt() string {
	var b strings.Builder
	b.WriteString("Read the attached photo of a torque-wrench label and extract:\n")
	b.WriteString("- manufacturer (maker of the tool)\n")
	b.WriteString("- model (model designation)\n")
	b.WriteString("- unit (unit or asset number)\n")
	b.WriteString("- serial (serial number)\n")
	b.WriteString("- customer (customer or company name)\n")
	b.WriteString("- phone (phone number)\n")
	b.WriteString("- address (street address)\n")
	b.WriteString("- max_torque (maximum torque rating, number only)\n")
	b.WriteString("- torque_unit (unit of the torque rating)\n")
	return b.String()
}

// BuildMessages pairs the two instruction messages with the encoded image.
// The user message carries the image as a data-URL image part alongside
// the field list.
func BuildMessages(imageDataURL string) []Message {
	return []Message{
		{Role: "system", Content: BuildSystemPrompt()},
		{Role: "user", Content: []map[string]any{
			{"type": "text", "text": BuildUserPrompt()},
			{"type": "image_url", "image_url": map[string]any{"url": imageDataURL}},
		}},
	}
}
