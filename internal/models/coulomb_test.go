package models_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pesmodel/internal/models"
	"github.com/san-kum/pesmodel/internal/pes"
)

var _ = Describe("Coulomb", func() {
	dimer := pes.Coords{{0, 0, 0}, {0, 0, 2.5}}
	dimerCharges := []float64{0.4, -0.8}

	It("is zero at the reference geometry when shifted", func() {
		x0 := bentTriatomic()
		c, err := models.NewCoulomb("", x0, []float64{-0.834, 0.417, 0.417}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Name()).To(Equal(models.DefaultCoulombName))

		e, err := c.Energy(x0)
		Expect(err).NotTo(HaveOccurred())
		Expect(e).To(BeNumerically("~", 0, 1e-14))

		raw, err := c.RawEnergy(x0)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(Equal(c.Shift()))
	})

	It("matches q0·q1/r for two charges", func() {
		c, err := models.NewCoulomb("dimer", dimer, dimerCharges, nil)
		Expect(err).NotTo(HaveOccurred())

		raw, err := c.EnergyWithShift(dimer, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(BeNumerically("~", 0.4*-0.8/2.5, 1e-15))
	})

	It("subtracts the reference energy at displaced geometries", func() {
		c, err := models.NewCoulomb("dimer", dimer, dimerCharges, nil)
		Expect(err).NotTo(HaveOccurred())

		x := pes.Coords{{0, 0, 0}, {0, 0, 4}}
		e, err := c.Energy(x)
		Expect(err).NotTo(HaveOccurred())
		Expect(e).To(BeNumerically("~", 0.4*-0.8/4-0.4*-0.8/2.5, 1e-15))
	})

	DescribeTable("excluding a pair removes exactly its term",
		func(exclude [][2]int) {
			c, err := models.NewCoulomb("dimer", dimer, dimerCharges, exclude)
			Expect(err).NotTo(HaveOccurred())

			raw, err := c.RawEnergy(dimer)
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(BeZero())
			Expect(c.Shift()).To(BeZero())
		},
		Entry("forward order", [][2]int{{0, 1}}),
		Entry("reverse order", [][2]int{{1, 0}}),
	)

	It("treats both pair orders identically", func() {
		x0 := bentTriatomic()
		q := []float64{-0.834, 0.417, 0.417}
		a, err := models.NewCoulomb("", x0, q, [][2]int{{0, 2}})
		Expect(err).NotTo(HaveOccurred())
		b, err := models.NewCoulomb("", x0, q, [][2]int{{2, 0}})
		Expect(err).NotTo(HaveOccurred())

		x := x0.Scale(1.1)
		ea, _ := a.RawEnergy(x)
		eb, _ := b.RawEnergy(x)
		Expect(ea).To(Equal(eb))
	})

	It("sums a linear three-charge chain", func() {
		x := pes.Coords{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
		c, err := models.NewCoulomb("chain", x, []float64{1, -1, 1}, nil)
		Expect(err).NotTo(HaveOccurred())

		// -1/1 + 1/2 - 1/1
		Expect(c.Shift()).To(BeNumerically("~", -1.5, 1e-15))
	})

	It("agrees with a direct sum on large systems", func() {
		rng := rand.New(rand.NewSource(7))
		n := 300
		x := make(pes.Coords, n)
		q := make([]float64, n)
		for i := range x {
			x[i] = pes.Vec3{rng.Float64() * 40, rng.Float64() * 40, rng.Float64() * 40}
			q[i] = rng.Float64() - 0.5
		}
		exclude := [][2]int{{0, 1}, {5, 3}, {299, 100}}

		c, err := models.NewCoulomb("", x, q, exclude)
		Expect(err).NotTo(HaveOccurred())

		skip := map[[2]int]bool{{0, 1}: true, {3, 5}: true, {100, 299}: true}
		want := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if skip[[2]int{i, j}] {
					continue
				}
				d := x[i].Sub(x[j])
				want += q[i] * q[j] / math.Sqrt(d[0]*d[0]+d[1]*d[1]+d[2]*d[2])
			}
		}
		Expect(c.Shift()).To(BeNumerically("~", want, 1e-9))
	})

	Describe("errors", func() {
		It("rejects misaligned charges", func() {
			_, err := models.NewCoulomb("", dimer, []float64{1}, nil)
			Expect(err).To(MatchError(pes.ErrShapeMismatch))
		})

		It("rejects out-of-range exclusions", func() {
			_, err := models.NewCoulomb("", dimer, dimerCharges, [][2]int{{0, 2}})
			Expect(err).To(MatchError(pes.ErrInvalidExclusion))
		})

		It("rejects coordinates of the wrong size", func() {
			c, err := models.NewCoulomb("", dimer, dimerCharges, nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = c.Energy(bentTriatomic())
			Expect(err).To(MatchError(pes.ErrShapeMismatch))
		})

		It("reports coincident atoms", func() {
			_, err := models.NewCoulomb("", pes.Coords{{1, 1, 1}, {1, 1, 1}}, dimerCharges, nil)
			Expect(err).To(MatchError(pes.ErrCoincidentAtoms))

			_, err = models.NewCoulomb("", pes.Coords{{1, 1, 1}, {1, 1, 1}}, dimerCharges, [][2]int{{0, 1}})
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
