package export

import "strings"

// ExpandTemplate replaces {{Placeholder}} markers in a filename template
// with actual values. Unknown placeholders are left in place so a typo in
// a template is visible in the produced filename instead of silently
// vanishing.
func ExpandTemplate(template string, variables map[string]string) string {
	out := template
	for key, value := range variables {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}
