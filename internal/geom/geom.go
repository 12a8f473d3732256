// Package geom provides rigid-body reference vectors for a molecular
// geometry, used to classify Hessian eigenmodes.
package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pesmodel/internal/pes"
)

func Centroid(x pes.Coords) pes.Vec3 {
	var c pes.Vec3
	if len(x) == 0 {
		return c
	}
	for _, v := range x {
		for a := 0; a < 3; a++ {
			c[a] += v[a]
		}
	}
	for a := range c {
		c[a] /= float64(len(x))
	}
	return c
}

// GlobalTranslation returns unit 3N vectors translating every atom along
// x, y and z.
func GlobalTranslation(x pes.Coords) [3][]float64 {
	var out [3][]float64
	for a := 0; a < 3; a++ {
		v := make([]float64, 3*len(x))
		for i := range x {
			v[pes.DOF(i, a)] = 1
		}
		normalize(v)
		out[a] = v
	}
	return out
}

// GlobalRotation returns unit 3N vectors of an infinitesimal rotation about
// the x, y and z axes through the centroid. A rotation that moves no atom,
// such as the bond axis of a linear molecule, is left as the zero vector.
func GlobalRotation(x pes.Coords) [3][]float64 {
	c := Centroid(x)
	var out [3][]float64
	for a := 0; a < 3; a++ {
		var axis pes.Vec3
		axis[a] = 1
		v := make([]float64, 3*len(x))
		for i, p := range x {
			d := axis.Cross(p.Sub(c))
			for b := 0; b < 3; b++ {
				v[pes.DOF(i, b)] = d[b]
			}
		}
		normalize(v)
		out[a] = v
	}
	return out
}

// RigidBasis returns Tx, Ty, Tz, Rx, Ry, Rz in that order.
func RigidBasis(x pes.Coords) [6][]float64 {
	t := GlobalTranslation(x)
	r := GlobalRotation(x)
	return [6][]float64{t[0], t[1], t[2], r[0], r[1], r[2]}
}

// ModeAngle is the angle in radians, in [0, π/2], between a mode and a
// reference vector. Modes have no sign, so antiparallel counts as aligned.
// It is NaN when either vector is zero.
func ModeAngle(mode, ref []float64) float64 {
	nm, nr := floats.Norm(mode, 2), floats.Norm(ref, 2)
	if nm == 0 || nr == 0 {
		return math.NaN()
	}
	cos := math.Abs(floats.Dot(mode, ref)) / (nm * nr)
	if cos > 1 {
		cos = 1
	}
	return math.Acos(cos)
}

// ModeAngles returns the angles between column k of vecs and each of refs.
func ModeAngles(vecs mat.Matrix, k int, refs [][]float64) []float64 {
	mode := mat.Col(nil, k, vecs)
	out := make([]float64, len(refs))
	for i, r := range refs {
		out[i] = ModeAngle(mode, r)
	}
	return out
}

// AtomAmplitudes returns the per-atom displacement norm of a 3N mode.
func AtomAmplitudes(mode []float64) []float64 {
	out := make([]float64, len(mode)/3)
	for i := range out {
		out[i] = floats.Norm(mode[3*i:3*i+3], 2)
	}
	return out
}

func normalize(v []float64) {
	n := floats.Norm(v, 2)
	if n == 0 {
		return
	}
	floats.Scale(1/n, v)
}
