package models_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/findiff"
	"github.com/san-kum/pesmodel/internal/linalg"
	"github.com/san-kum/pesmodel/internal/models"
	"github.com/san-kum/pesmodel/internal/pes"
)

var _ = Describe("Harmonic", func() {
	var (
		x0    pes.Coords
		g0    pes.Coords
		h0    *mat.SymDense
		model *models.Harmonic
	)

	BeforeEach(func() {
		x0 = bentTriatomic()
		g0 = pes.Coords{{0, 0.01, -0.02}, {0, -0.005, 0.01}, {0, -0.005, 0.01}}
		h0 = springHessian(x0, [][2]int{{0, 1}, {0, 2}, {1, 2}}, 0.5)

		var err error
		model, err = models.NewHarmonic(models.HarmonicParams{
			Coords0:   x0,
			Gradient:  g0,
			Hessian:   h0,
			Reference: -76.4,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("applies defaults", func() {
			Expect(model.Name()).To(Equal(models.DefaultHarmonicName))
			Expect(model.Ridge()).To(Equal(pes.DefaultRidge))
			Expect(model.NumAtoms()).To(Equal(3))
			Expect(model.Reference()).To(Equal(-76.4))
		})

		It("rejects inconsistent reference data", func() {
			_, err := models.NewHarmonic(models.HarmonicParams{Coords0: x0, Gradient: g0[:2], Hessian: h0})
			Expect(err).To(MatchError(pes.ErrShapeMismatch))

			_, err = models.NewHarmonic(models.HarmonicParams{Coords0: x0, Gradient: g0, Hessian: mat.NewSymDense(6, nil)})
			Expect(err).To(MatchError(pes.ErrShapeMismatch))

			_, err = models.NewHarmonic(models.HarmonicParams{Coords0: x0, Gradient: g0})
			Expect(err).To(MatchError(pes.ErrShapeMismatch))

			_, err = models.NewHarmonic(models.HarmonicParams{Coords0: x0, Gradient: g0, Hessian: h0, Ridge: ridge(-1)})
			Expect(err).To(MatchError(pes.ErrParameterBounds))

			_, err = models.NewHarmonic(models.HarmonicParams{Coords0: x0, Gradient: g0, Hessian: h0, Ridge: ridge(math.NaN())})
			Expect(err).To(MatchError(pes.ErrParameterBounds))

			_, err = models.NewHarmonic(models.HarmonicParams{})
			Expect(err).To(MatchError(pes.ErrNoAtoms))
		})

		It("keeps an explicit zero ridge", func() {
			// Tiny but nonzero curvature on one coordinate.
			h := mat.NewSymDense(9, nil)
			h.CopySym(h0)
			h.SetSym(0, 0, h.At(0, 0)+1e-12)

			strict, err := models.NewHarmonic(models.HarmonicParams{Coords0: x0, Gradient: g0, Hessian: h, Ridge: ridge(0)})
			Expect(err).NotTo(HaveOccurred())
			Expect(strict.Ridge()).To(Equal(0.0))

			loose, err := models.NewHarmonic(models.HarmonicParams{Coords0: x0, Gradient: g0, Hessian: h})
			Expect(err).NotTo(HaveOccurred())

			count := func(vals []float64) int {
				n := 0
				for _, v := range vals {
					if v != 0 {
						n++
					}
				}
				return n
			}
			Expect(count(strict.InverseEigenvalues())).To(BeNumerically(">", count(loose.InverseEigenvalues())))
		})

		It("does not alias caller data", func() {
			h0.SetSym(0, 0, 1e6)
			x0[0][0] = 42

			h, err := model.Hessian(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.At(0, 0)).NotTo(Equal(1e6))
			Expect(model.Coords0()[0][0]).To(Equal(0.0))
		})
	})

	Describe("evaluation", func() {
		It("reproduces the reference point", func() {
			e, err := model.Energy(x0)
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(BeNumerically("~", -76.4, 1e-12))

			g, err := model.Gradient(x0)
			Expect(err).NotTo(HaveOccurred())
			Expect(findiff.MaxAbsDiff(g, g0)).To(BeNumerically("<", 1e-14))
		})

		It("evaluates the quadratic expansion", func() {
			x := x0.Clone()
			x[1][1] += 0.1
			x[2][2] -= 0.05

			dx := x.Sub(x0).Vec()
			want := -76.4 + mat.Dot(g0.Vec(), dx) + 0.5*mat.Inner(dx, h0, dx)

			e, err := model.Energy(x)
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(BeNumerically("~", want, 1e-12))
		})

		It("has a gradient consistent with its energy", func() {
			x := x0.Clone()
			x[0][2] += 0.2
			x[1][0] -= 0.1

			g, err := model.Gradient(x)
			Expect(err).NotTo(HaveOccurred())

			fd, err := findiff.Gradient(model, x, findiff.DefaultStep)
			Expect(err).NotTo(HaveOccurred())
			Expect(findiff.MaxAbsDiff(g, fd)).To(BeNumerically("<", 1e-8))
		})

		It("returns the reference Hessian for any coordinates", func() {
			for _, x := range []pes.Coords{x0, bentTriatomic().Scale(1.3), nil} {
				h, err := model.Hessian(x)
				Expect(err).NotTo(HaveOccurred())
				Expect(mat.Equal(h, h0)).To(BeTrue())
			}
		})

		It("fails on a mismatched atom count", func() {
			_, err := model.Energy(x0[:2])
			Expect(err).To(MatchError(pes.ErrShapeMismatch))

			_, err = model.Gradient(append(x0.Clone(), pes.Vec3{}))
			Expect(err).To(MatchError(pes.ErrShapeMismatch))
		})
	})

	Describe("pseudo-inverse", func() {
		It("drops the six rigid-body modes", func() {
			evals := model.Eigenvalues()
			Expect(evals).To(HaveLen(9))

			inv := model.InverseEigenvalues()
			singular := 0
			for i, v := range evals {
				if math.Abs(v) > model.Ridge() {
					Expect(inv[i]).To(BeNumerically("~", 1/v, 1e-12))
					continue
				}
				singular++
				Expect(inv[i]).To(BeZero())
			}
			Expect(singular).To(Equal(6))
		})

		It("acts as the identity on the non-singular eigenspace", func() {
			ihess := model.InverseHessian()
			vecs := model.Eigenvectors()

			for k, v := range model.Eigenvalues() {
				vk := vecs.ColView(k)
				var hv, back mat.VecDense
				if linalg.Singular(v, model.Ridge()) {
					back.MulVec(ihess, vk)
					Expect(mat.Norm(&back, 2)).To(BeNumerically("<", 1e-10))
					continue
				}
				hv.MulVec(h0, vk)
				back.MulVec(ihess, &hv)
				Expect(mat.EqualApprox(&back, vk, 1e-10)).To(BeTrue())
			}
		})

		It("returns copies of cached state", func() {
			vals := model.Eigenvalues()
			vals[0] = 123
			Expect(model.Eigenvalues()[0]).NotTo(Equal(123.0))

			ih := model.InverseHessian()
			ih.SetSym(0, 0, 99)
			Expect(model.InverseHessian().At(0, 0)).NotTo(Equal(99.0))
		})
	})

	Describe("constraints", func() {
		free := []int{0, 4, 8}

		It("adds the spring on fixed degrees of freedom only", func() {
			for _, spring := range []float64{pes.DefaultSpring, 1.0, 25.0} {
				ch, err := model.ConstrainedHessian(free, spring)
				Expect(err).NotTo(HaveOccurred())

				d := diff(ch, h0)
				for i := 0; i < 9; i++ {
					for j := 0; j < 9; j++ {
						want := 0.0
						if i == j && i != 0 && i != 4 && i != 8 {
							want = spring
						}
						Expect(d.At(i, j)).To(BeNumerically("~", want, 1e-14))
					}
				}
			}
		})

		It("inverts a fully constrained Hessian", func() {
			ch, err := model.ConstrainedHessian(nil, 1.0)
			Expect(err).NotTo(HaveOccurred())
			ich, err := model.ConstrainedInverseHessian(nil, 1.0)
			Expect(err).NotTo(HaveOccurred())

			var prod mat.Dense
			prod.Mul(ich, ch)
			for i := 0; i < 9; i++ {
				for j := 0; j < 9; j++ {
					want := 0.0
					if i == j {
						want = 1
					}
					Expect(prod.At(i, j)).To(BeNumerically("~", want, 1e-10))
				}
			}
		})

		It("recomputes on every call", func() {
			a, err := model.ConstrainedInverseHessian(free, 1.0)
			Expect(err).NotTo(HaveOccurred())
			b, err := model.ConstrainedInverseHessian(free, 2.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(mat.EqualApprox(a, b, 1e-12)).To(BeFalse())
			Expect(mat.Equal(model.InverseHessian(), a)).To(BeFalse())
		})

		It("rejects out-of-range indices", func() {
			_, err := model.ConstrainedHessian([]int{9}, 1.0)
			Expect(err).To(MatchError(pes.ErrInvalidIndex))
			_, err = model.ConstrainedInverseHessian([]int{-1}, 1.0)
			Expect(err).To(MatchError(pes.ErrInvalidIndex))
		})
	})
})
