package assembly

import (
	"github.com/notargets/gobem/utils"
)

// A Shapeset evaluates the basis functions of a finite element space at
// reference triangle coordinates, returning an nshape x npoints matrix of
// function values.
type Shapeset interface {
	Evaluate(points utils.Matrix) utils.Matrix
	NumberOfShapeFunctions() int
}

// P0 is the single piecewise-constant basis function per element.
type P0 struct{}

func (P0) NumberOfShapeFunctions() int { return 1 }

func (P0) Evaluate(points utils.Matrix) (values utils.Matrix) {
	var (
		_, npoints = points.Dims()
	)
	values = utils.NewMatrix(1, npoints)
	vd := values.Data()
	for j := 0; j < npoints; j++ {
		vd[j] = 1.
	}
	return
}

// P1 holds the three barycentric hat functions 1-s-t, s, t attached to
// the element vertices.
type P1 struct{}

func (P1) NumberOfShapeFunctions() int { return 3 }

func (P1) Evaluate(points utils.Matrix) (values utils.Matrix) {
	var (
		_, npoints = points.Dims()
		pd         = points.Data()
	)
	values = utils.NewMatrix(3, npoints)
	vd := values.Data()
	for j := 0; j < npoints; j++ {
		s, t := pd[j], pd[npoints+j]
		vd[j] = 1. - s - t
		vd[npoints+j] = s
		vd[2*npoints+j] = t
	}
	return
}

// ReferenceGradient is the 2 x 3 matrix of reference-space gradients of
// the P1 basis functions, constant over the element.
func ReferenceGradient() (R utils.Matrix) {
	R = utils.NewMatrix(2, 3, []float64{
		-1, 1, 0,
		-1, 0, 1,
	})
	return
}
