package models_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/findiff"
	"github.com/san-kum/pesmodel/internal/models"
	"github.com/san-kum/pesmodel/internal/pes"
)

var _ = Describe("Electrostatics", func() {
	water := func() *pes.Sample {
		return &pes.Sample{
			Charges:     []float64{-0.834, 0.417, 0.417},
			Types:       []string{"OW", "HW", "HW"},
			Coordinates: bentTriatomic(),
		}
	}

	It("matches the closed form for two charges on an axis", func() {
		const q0, q1, r = 0.7, -0.3, 1.8
		s := &pes.Sample{
			Charges:     []float64{q0, q1},
			Coordinates: pes.Coords{{0, 0, 0}, {0, 0, r}},
		}

		forces, hess, err := models.Electrostatics(s, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		// E = q0 q1 / r: dE/dr = -q0q1/r², d²E/dr² = 2q0q1/r³,
		// transverse curvature (dE/dr)/r = -q0q1/r³.
		qq := q0 * q1
		Expect(forces.AtVec(pes.DOF(1, 2))).To(BeNumerically("~", -qq/(r*r), 1e-14))
		Expect(forces.AtVec(pes.DOF(0, 2))).To(BeNumerically("~", qq/(r*r), 1e-14))
		Expect(forces.AtVec(pes.DOF(1, 0))).To(BeNumerically("~", 0, 1e-14))

		Expect(pes.HessianAt(hess, 1, 2, 1, 2)).To(BeNumerically("~", 2*qq/(r*r*r), 1e-14))
		Expect(pes.HessianAt(hess, 0, 2, 1, 2)).To(BeNumerically("~", -2*qq/(r*r*r), 1e-14))
		Expect(pes.HessianAt(hess, 1, 0, 1, 0)).To(BeNumerically("~", -qq/(r*r*r), 1e-14))
		Expect(pes.HessianAt(hess, 1, 0, 1, 1)).To(BeNumerically("~", 0, 1e-14))
	})

	It("matches the hand-computed linear three-charge chain", func() {
		s := &pes.Sample{
			Charges:     []float64{1, -1, 1},
			Coordinates: pes.Coords{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		}

		forces, _, err := models.Electrostatics(s, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		want := []float64{-0.75, 0, 0, 0, 0, 0, 0.75, 0, 0}
		for k, w := range want {
			Expect(forces.AtVec(k)).To(BeNumerically("~", w, 1e-14))
		}

		c, err := models.NewCoulomb("", s.Coordinates, s.Charges, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Shift()).To(BeNumerically("~", -1.5, 1e-15))
	})

	It("is the derivative of the Coulomb energy", func() {
		s := water()
		x := s.Coordinates.Clone()
		x[1][1] += 0.2

		c, err := models.NewCoulomb("", s.Coordinates, s.Charges, nil)
		Expect(err).NotTo(HaveOccurred())

		s.Coordinates = x
		forces, hess, err := models.Electrostatics(s, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		fdGrad, err := findiff.Gradient(c, x, 1e-5)
		Expect(err).NotTo(HaveOccurred())
		got, err := pes.FromVec(forces)
		Expect(err).NotTo(HaveOccurred())
		Expect(findiff.MaxAbsDiff(got, fdGrad)).To(BeNumerically("<", 1e-8))

		fdHess, err := findiff.Hessian(c, x, 1e-4)
		Expect(err).NotTo(HaveOccurred())
		Expect(maxAbs(diff(hess, fdHess))).To(BeNumerically("<", 1e-5))
	})

	It("is symmetric in exclusion pair order", func() {
		f1, h1, err := models.Electrostatics(water(), [][2]int{{0, 1}}, nil)
		Expect(err).NotTo(HaveOccurred())
		f2, h2, err := models.Electrostatics(water(), [][2]int{{1, 0}}, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(mat.Equal(f1, f2)).To(BeTrue())
		Expect(mat.Equal(h1, h2)).To(BeTrue())
	})

	It("drops every pair involving an excluded type", func() {
		byType, _, err := models.Electrostatics(water(), nil, []string{"OW"})
		Expect(err).NotTo(HaveOccurred())
		byPair, _, err := models.Electrostatics(water(), [][2]int{{0, 1}, {0, 2}}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(mat.Equal(byType, byPair)).To(BeTrue())

		none, hess, err := models.Electrostatics(water(), nil, []string{"HW"})
		Expect(err).NotTo(HaveOccurred())
		Expect(mat.Norm(none, 2)).To(BeZero())
		Expect(maxAbs(hess)).To(BeZero())
	})

	It("leaves the sample untouched", func() {
		s := water()
		before := s.Coordinates.Clone()
		_, _, err := models.Electrostatics(s, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Coordinates).To(Equal(before))
		Expect(s.Charges).To(Equal([]float64{-0.834, 0.417, 0.417}))
	})

	It("produces a symmetric Hessian", func() {
		_, hess, err := models.Electrostatics(water(), nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(hess.SymmetricDim()).To(Equal(9))
		Expect(maxAbs(diff(hess, hess.T()))).To(BeZero())
	})

	Describe("errors", func() {
		It("rejects invalid exclusions", func() {
			_, _, err := models.Electrostatics(water(), [][2]int{{0, 3}}, nil)
			Expect(err).To(MatchError(pes.ErrInvalidExclusion))
		})

		It("rejects misaligned samples", func() {
			s := water()
			s.Charges = s.Charges[:2]
			_, _, err := models.Electrostatics(s, nil, nil)
			Expect(err).To(MatchError(pes.ErrShapeMismatch))

			_, _, err = models.Electrostatics(&pes.Sample{}, nil, nil)
			Expect(err).To(MatchError(pes.ErrNoAtoms))
		})

		It("reports coincident atoms", func() {
			s := water()
			s.Coordinates[2] = s.Coordinates[1]
			_, _, err := models.Electrostatics(s, nil, nil)
			Expect(err).To(MatchError(pes.ErrCoincidentAtoms))
		})
	})
})
