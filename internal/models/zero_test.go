package models_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pesmodel/internal/models"
	"github.com/san-kum/pesmodel/internal/pes"
)

var _ = Describe("Zero", func() {
	It("uses the default name", func() {
		Expect(models.NewZero("").Name()).To(Equal(models.DefaultZeroName))
		Expect(models.NewZero("baseline").Name()).To(Equal("baseline"))
	})

	DescribeTable("is zero everywhere",
		func(x pes.Coords) {
			z := models.NewZero("")

			e, err := z.Energy(x)
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(BeZero())

			f, err := pes.Forces(z, x)
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(HaveLen(len(x)))
			for _, v := range f {
				Expect(v).To(Equal(pes.Vec3{}))
			}

			h, err := z.Hessian(x)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.SymmetricDim()).To(Equal(3 * len(x)))
			if len(x) > 0 {
				Expect(maxAbs(h)).To(BeZero())
			}
		},
		Entry("empty", pes.Coords{}),
		Entry("one atom", pes.Coords{{1, 2, 3}}),
		Entry("three atoms", bentTriatomic()),
	)
})
