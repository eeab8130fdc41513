package assembly

import (
	"math"

	"github.com/notargets/gobem/utils"
)

const mInv4Pi = 1. / (4. * math.Pi)

/*
	A Kernel is the closed-form Green's function of a boundary integral
	operator. Implementations are pure functions of the geometric point
	pairs, the normals and the kernel parameters; they never allocate and
	never fail for valid numeric input. Division by a near-zero distance
	is an accepted numerical singularity: the regular assembly driver
	guarantees through adjacency exclusion that it is never called at
	truly coincident points, and the singular driver's quadrature points
	are regularized by construction.

	Two call shapes exist:
	- Regular: one test point against a batch of trial points, used for
	  well separated element pairs.
	- Singular: parallel test/trial point arrays of equal length, used
	  for touching or identical element pairs.

	Complex-valued kernels write their imaginary parts to outIm; real
	kernels ignore outIm, which may be nil.
*/
type Kernel interface {
	Regular(testPoint []float64, trialPoints utils.Matrix, testNormal []float64, trialNormals utils.Matrix, outRe, outIm []float64)
	Singular(testPoints, trialPoints, testNormals, trialNormals utils.Matrix, outRe, outIm []float64)
	IsComplex() bool
}

type laplaceSingleLayer struct{}

func (laplaceSingleLayer) IsComplex() bool { return false }

func (laplaceSingleLayer) Regular(testPoint []float64, trialPoints utils.Matrix, testNormal []float64, trialNormals utils.Matrix, outRe, outIm []float64) {
	var (
		_, npoints = trialPoints.Dims()
		tp         = trialPoints.Data()
	)
	for j := 0; j < npoints; j++ {
		outRe[j] = 0
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < npoints; j++ {
			diff := tp[i*npoints+j] - testPoint[i]
			outRe[j] += diff * diff
		}
	}
	for j := 0; j < npoints; j++ {
		outRe[j] = mInv4Pi / math.Sqrt(outRe[j])
	}
}

func (laplaceSingleLayer) Singular(testPoints, trialPoints, testNormals, trialNormals utils.Matrix, outRe, outIm []float64) {
	var (
		_, npoints = trialPoints.Dims()
		tp         = trialPoints.Data()
		xp         = testPoints.Data()
	)
	for j := 0; j < npoints; j++ {
		outRe[j] = 0
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < npoints; j++ {
			diff := tp[i*npoints+j] - xp[i*npoints+j]
			outRe[j] += diff * diff
		}
	}
	for j := 0; j < npoints; j++ {
		outRe[j] = mInv4Pi / math.Sqrt(outRe[j])
	}
}

type laplaceDoubleLayer struct{}

func (laplaceDoubleLayer) IsComplex() bool { return false }

func (laplaceDoubleLayer) Regular(testPoint []float64, trialPoints utils.Matrix, testNormal []float64, trialNormals utils.Matrix, outRe, outIm []float64) {
	var (
		_, npoints = trialPoints.Dims()
		tp         = trialPoints.Data()
		tn         = trialNormals.Data()
		diff       = make([]float64, 3*npoints)
		dist       = make([]float64, npoints)
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < npoints; j++ {
			d := tp[i*npoints+j] - testPoint[i]
			diff[i*npoints+j] = d
			dist[j] += d * d
		}
	}
	for j := 0; j < npoints; j++ {
		dist[j] = math.Sqrt(dist[j])
		outRe[j] = 0
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < npoints; j++ {
			outRe[j] += diff[i*npoints+j] * tn[i*npoints+j]
		}
	}
	for j := 0; j < npoints; j++ {
		outRe[j] *= -mInv4Pi / (dist[j] * dist[j] * dist[j])
	}
}

func (laplaceDoubleLayer) Singular(testPoints, trialPoints, testNormals, trialNormals utils.Matrix, outRe, outIm []float64) {
	var (
		_, npoints = trialPoints.Dims()
		tp         = trialPoints.Data()
		xp         = testPoints.Data()
		tn         = trialNormals.Data()
		diff       = make([]float64, 3*npoints)
		dist       = make([]float64, npoints)
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < npoints; j++ {
			d := tp[i*npoints+j] - xp[i*npoints+j]
			diff[i*npoints+j] = d
			dist[j] += d * d
		}
	}
	for j := 0; j < npoints; j++ {
		dist[j] = math.Sqrt(dist[j])
		outRe[j] = 0
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < npoints; j++ {
			outRe[j] += diff[i*npoints+j] * tn[i*npoints+j]
		}
	}
	for j := 0; j < npoints; j++ {
		outRe[j] *= -mInv4Pi / (dist[j] * dist[j] * dist[j])
	}
}

type laplaceAdjointDoubleLayer struct{}

func (laplaceAdjointDoubleLayer) IsComplex() bool { return false }

func (laplaceAdjointDoubleLayer) Regular(testPoint []float64, trialPoints utils.Matrix, testNormal []float64, trialNormals utils.Matrix, outRe, outIm []float64) {
	var (
		_, npoints = trialPoints.Dims()
		tp         = trialPoints.Data()
		diff       = make([]float64, 3*npoints)
		dist       = make([]float64, npoints)
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < npoints; j++ {
			d := tp[i*npoints+j] - testPoint[i]
			diff[i*npoints+j] = d
			dist[j] += d * d
		}
	}
	for j := 0; j < npoints; j++ {
		dist[j] = math.Sqrt(dist[j])
		outRe[j] = 0
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < npoints; j++ {
			outRe[j] += diff[i*npoints+j] * testNormal[i]
		}
	}
	for j := 0; j < npoints; j++ {
		outRe[j] *= mInv4Pi / (dist[j] * dist[j] * dist[j])
	}
}

func (laplaceAdjointDoubleLayer) Singular(testPoints, trialPoints, testNormals, trialNormals utils.Matrix, outRe, outIm []float64) {
	var (
		_, npoints = trialPoints.Dims()
		tp         = trialPoints.Data()
		xp         = testPoints.Data()
		xn         = testNormals.Data()
		diff       = make([]float64, 3*npoints)
		dist       = make([]float64, npoints)
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < npoints; j++ {
			d := tp[i*npoints+j] - xp[i*npoints+j]
			diff[i*npoints+j] = d
			dist[j] += d * d
		}
	}
	for j := 0; j < npoints; j++ {
		dist[j] = math.Sqrt(dist[j])
		outRe[j] = 0
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < npoints; j++ {
			outRe[j] += diff[i*npoints+j] * xn[i*npoints+j]
		}
	}
	for j := 0; j < npoints; j++ {
		outRe[j] *= mInv4Pi / (dist[j] * dist[j] * dist[j])
	}
}

// helmholtzSingleLayer evaluates exp(i*k*r)/(4*pi*r) for complex
// wavenumber k = kRe + i*kIm as separate trigonometric real/imaginary
// terms damped by exp(-kIm*r).
type helmholtzSingleLayer struct {
	kRe, kIm float64
}

func (helmholtzSingleLayer) IsComplex() bool { return true }

func (h helmholtzSingleLayer) evaluate(rad, outRe, outIm []float64) {
	var (
		npoints = len(rad)
	)
	for j := 0; j < npoints; j++ {
		r := math.Sqrt(rad[j])
		outRe[j] = math.Cos(h.kRe*r) * mInv4Pi / r
		outIm[j] = math.Sin(h.kRe*r) * mInv4Pi / r
		if h.kIm != 0 {
			damp := math.Exp(-h.kIm * r)
			outRe[j] *= damp
			outIm[j] *= damp
		}
	}
}

func (h helmholtzSingleLayer) Regular(testPoint []float64, trialPoints utils.Matrix, testNormal []float64, trialNormals utils.Matrix, outRe, outIm []float64) {
	var (
		_, npoints = trialPoints.Dims()
		tp         = trialPoints.Data()
		rad        = make([]float64, npoints)
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < npoints; j++ {
			diff := tp[i*npoints+j] - testPoint[i]
			rad[j] += diff * diff
		}
	}
	h.evaluate(rad, outRe, outIm)
}

func (h helmholtzSingleLayer) Singular(testPoints, trialPoints, testNormals, trialNormals utils.Matrix, outRe, outIm []float64) {
	var (
		_, npoints = trialPoints.Dims()
		tp         = trialPoints.Data()
		xp         = testPoints.Data()
		rad        = make([]float64, npoints)
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < npoints; j++ {
			diff := tp[i*npoints+j] - xp[i*npoints+j]
			rad[j] += diff * diff
		}
	}
	h.evaluate(rad, outRe, outIm)
}
