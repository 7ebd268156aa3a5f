package llm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("InterpretResponse", func() {
	var (
		raw    string
		interp Interpretation
	)

	JustBeforeEach(func() {
		interp = InterpretResponse(raw)
	})

	When("the reply wraps JSON in a markdown fence", func() {
		BeforeEach(func() {
			raw = "Here you go:\n```json\n{\"manufacturer\": \"Acme\"}\n```"
		})

		It("uses the fenced stage", func() {
			Expect(interp.Stage).To(Equal(StageFenced))
		})

		It("decodes the inner object", func() {
			Expect(interp.Candidate).To(HaveKeyWithValue("manufacturer", "Acme"))
		})
	})

	When("the reply wraps JSON in an untagged fence", func() {
		BeforeEach(func() {
			raw = "```\n{\"model\": \"TW-500\"}\n```"
		})

		It("still finds the object", func() {
			Expect(interp.Stage).To(Equal(StageFenced))
			Expect(interp.Candidate).To(HaveKeyWithValue("model", "TW-500"))
		})
	})

	When("the reply is bare JSON", func() {
		BeforeEach(func() {
			raw = `{"manufacturer": "Acme"}`
		})

		It("uses the bare stage", func() {
			Expect(interp.Stage).To(Equal(StageBare))
			Expect(interp.Candidate).To(HaveKeyWithValue("manufacturer", "Acme"))
		})
	})

	When("the reply is JSON with stray backticks", func() {
		BeforeEach(func() {
			raw = "`{\"serial\": \"S-1\"}`"
		})

		It("trims them and parses", func() {
			Expect(interp.Stage).To(Equal(StageBare))
			Expect(interp.Candidate).To(HaveKeyWithValue("serial", "S-1"))
		})
	})

	When("the reply has no JSON at all", func() {
		BeforeEach(func() {
			raw = "Sorry, I cannot help."
		})

		It("degrades to the empty stage with an empty candidate", func() {
			Expect(interp.Stage).To(Equal(StageEmpty))
			Expect(interp.Candidate).To(BeEmpty())
		})
	})

	When("a fence contains garbage", func() {
		BeforeEach(func() {
			raw = "```json\nnot json at all\n```"
		})

		It("degrades to empty instead of erroring", func() {
			Expect(interp.Stage).To(Equal(StageEmpty))
			Expect(interp.Candidate).To(BeEmpty())
		})
	})

	It("yields identical results when run twice over the same reply", func() {
		const reply = "```json\n{\"manufacturer\":\"Acme\",\"max_torque\":250}\n```"
		first := ProjectFields(InterpretResponse(reply).Candidate)
		second := ProjectFields(InterpretResponse(reply).Candidate)
		Expect(first).To(Equal(second))
	})
})

var _ = Describe("ProjectFields", func() {
	It("produces the same fields for fenced and bare replies", func() {
		fenced := ProjectFields(InterpretResponse("```json\n{\"manufacturer\":\"Acme\"}\n```").Candidate)
		bare := ProjectFields(InterpretResponse(`{"manufacturer":"Acme"}`).Candidate)
		Expect(fenced).To(Equal(bare))
		Expect(fenced.Manufacturer).To(Equal("Acme"))
		Expect(fenced.Model).To(BeEmpty())
	})

	It("defaults every missing key to the empty string", func() {
		fields := ProjectFields(map[string]any{"customer": "Apex Rigging"})
		m := fields.ToMap()
		Expect(m).To(HaveLen(9))
		Expect(m["customer"]).To(Equal("Apex Rigging"))
		for key, value := range m {
			if key != "customer" {
				Expect(value).To(BeEmpty(), "key %s", key)
			}
		}
	})

	It("coerces numeric values to their printed form", func() {
		fields := ProjectFields(map[string]any{"max_torque": 250.0})
		Expect(fields.MaxTorque).To(Equal("250"))
	})

	It("ignores values of unusable types", func() {
		fields := ProjectFields(map[string]any{"phone": []any{"555"}})
		Expect(fields.Phone).To(BeEmpty())
	})

	It("tolerates a nil candidate", func() {
		Expect(ProjectFields(nil).ToMap()).To(HaveLen(9))
	})
})
