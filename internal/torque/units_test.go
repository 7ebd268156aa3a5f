package torque

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("UnitTable", func() {
	var units *UnitTable

	BeforeEach(func() {
		units = NewUnitTable("", "", "")
	})

	It("converts ft-lb spellings to Nm", func() {
		Expect(units.ToNm(100, "ft-lb")).To(BeNumerically("~", 135.582, 0.001))
		Expect(units.ToNm(100, "FT/LBS")).To(BeNumerically("~", 135.582, 0.001))
	})

	It("converts in-lb spellings to Nm", func() {
		Expect(units.ToNm(100, "in.lb")).To(BeNumerically("~", 11.3, 0.001))
	})

	It("passes Nm through", func() {
		Expect(units.ToNm(100, "Nm")).To(Equal(100.0))
		Expect(units.ToNm(100, " n.m ")).To(Equal(100.0))
	})

	It("passes unknown units through unchanged", func() {
		Expect(units.ToNm(42, "bananas")).To(Equal(42.0))
	})

	It("honors custom synonym lists", func() {
		custom := NewUnitTable("footpounds", "", "")
		Expect(custom.ToNm(1, "footpounds")).To(BeNumerically("~", 1.35582, 0.00001))
		Expect(custom.ToNm(1, "ft-lb")).To(Equal(1.0))
	})
})

var _ = Describe("MatchSpec", func() {
	var (
		units *UnitTable
		specs []Spec
	)

	BeforeEach(func() {
		units = NewUnitTable("", "", "")
		specs = []Spec{
			{ID: 1, MaxTorque: 100, Unit: "Nm"},
			{ID: 2, MaxTorque: 200, Unit: "Nm"},
		}
	})

	It("matches an exact rating", func() {
		spec, ok := MatchSpec(units, specs, 200, "Nm")
		Expect(ok).To(BeTrue())
		Expect(spec.ID).To(Equal(2))
	})

	It("matches within 10% tolerance", func() {
		spec, ok := MatchSpec(units, specs, 95, "Nm")
		Expect(ok).To(BeTrue())
		Expect(spec.ID).To(Equal(1))
	})

	It("normalizes the extracted unit before comparing", func() {
		// 150 ft-lb ~= 203 Nm
		spec, ok := MatchSpec(units, specs, 150, "ft-lb")
		Expect(ok).To(BeTrue())
		Expect(spec.ID).To(Equal(2))
	})

	It("misses when nothing is within tolerance", func() {
		_, ok := MatchSpec(units, specs, 500, "Nm")
		Expect(ok).To(BeFalse())
	})

	It("uses an absolute 2 Nm floor for small ratings", func() {
		small := []Spec{{ID: 3, MaxTorque: 6, Unit: "Nm"}}
		spec, ok := MatchSpec(units, small, 5, "Nm")
		Expect(ok).To(BeTrue())
		Expect(spec.ID).To(Equal(3))
	})
})
