package llm

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NormalizeAndSanitizeCandidate", func() {
	It("renames synonym keys the model drifts toward", func() {
		m := map[string]any{"unit_number": "U-9", "serial_number": "S-1", "make": "Acme"}
		NormalizeAndSanitizeCandidate(m, nil)
		Expect(m).To(HaveKeyWithValue("unit", "U-9"))
		Expect(m).To(HaveKeyWithValue("serial", "S-1"))
		Expect(m).To(HaveKeyWithValue("manufacturer", "Acme"))
		Expect(m).NotTo(HaveKey("unit_number"))
	})

	It("does not overwrite a canonical key with its synonym", func() {
		m := map[string]any{"manufacturer": "Acme", "make": "Other"}
		NormalizeAndSanitizeCandidate(m, nil)
		Expect(m).To(HaveKeyWithValue("manufacturer", "Acme"))
	})

	It("coerces a numeric max_torque to its printed form", func() {
		m := map[string]any{"max_torque": 250.0}
		NormalizeAndSanitizeCandidate(m, nil)
		Expect(m).To(HaveKeyWithValue("max_torque", "250"))
	})

	It("drops nulls and unknown keys", func() {
		m := map[string]any{"phone": nil, "confidence": 0.9, "model": " TW-500 "}
		dropped := NormalizeAndSanitizeCandidate(m, nil)
		Expect(m).NotTo(HaveKey("phone"))
		Expect(m).NotTo(HaveKey("confidence"))
		Expect(m).To(HaveKeyWithValue("model", "TW-500"))
		Expect(dropped).NotTo(BeEmpty())
	})
})

var _ = Describe("label JSON schema", func() {
	It("accepts a complete nine-key object", func() {
		fields := LabelFields{Manufacturer: "Acme", MaxTorque: "250"}
		b, err := json.Marshal(fields)
		Expect(err).NotTo(HaveOccurred())
		Expect(ValidateJSONAgainstSchema(BuildLabelJSONSchema(), b)).To(Succeed())
	})

	It("rejects unknown keys", func() {
		doc := []byte(`{"manufacturer":"Acme","model":"","unit":"","serial":"","customer":"","phone":"","address":"","max_torque":"","torque_unit":"","extra":"x"}`)
		Expect(ValidateJSONAgainstSchema(BuildLabelJSONSchema(), doc)).NotTo(Succeed())
	})

	It("rejects a missing key", func() {
		doc := []byte(`{"manufacturer":"Acme"}`)
		Expect(ValidateJSONAgainstSchema(BuildLabelJSONSchema(), doc)).NotTo(Succeed())
	})

	It("rejects a non-numeric max_torque", func() {
		fields := LabelFields{MaxTorque: "250 Nm"}
		b, err := json.Marshal(fields)
		Expect(err).NotTo(HaveOccurred())
		Expect(ValidateJSONAgainstSchema(BuildLabelJSONSchema(), b)).NotTo(Succeed())
	})
})
