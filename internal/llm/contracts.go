package llm

import "context"

// LabelFields is the normalized shape we want from the model: the nine
// attributes read off a torque-wrench label. Every field is always
// present; anything the model did not find is the empty string, never
// omitted, so the entry form can apply results without existence checks.
type LabelFields struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Unit         string `json:"unit"`
	Serial       string `json:"serial"`
	Customer     string `json:"customer"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	MaxTorque    string `json:"max_torque"`
	TorqueUnit   string `json:"torque_unit"`
}

// ToMap projects the fields onto the canonical key set.
func (f LabelFields) ToMap() map[string]string {
	return map[string]string{
		"manufacturer": f.Manufacturer,
		"model":        f.Model,
		"unit":         f.Unit,
		"serial":       f.Serial,
		"customer":     f.Customer,
		"phone":        f.Phone,
		"address":      f.Address,
		"max_torque":   f.MaxTorque,
		"torque_unit":  f.TorqueUnit,
	}
}

// Message is one chat message sent to the completion endpoint. Content is
// either a plain string or a slice of content parts (text + image).
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// Completer is the narrow transport capability the interpreter sits on
// top of: one blocking round trip, raw text back. Implemented by the
// OpenAI client; tests script it with canned replies.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
