package quadrature

import (
	"fmt"

	"github.com/notargets/gobem/utils"
)

// Rule is a quadrature rule on the reference triangle with vertices
// (0,0), (1,0), (0,1). Weights sum to the reference area 1/2; physical
// integrals are recovered by scaling with the element integration element.
type Rule struct {
	Points  utils.Matrix // 2 x NPoints reference coordinates
	Weights []float64
	NPoints int
}

// NewTriangleRule builds an n x n point rule by collapsing a tensor
// product of a Gauss-Legendre rule with a Gauss-Jacobi(1,0) rule through
// the Duffy substitution x = u*(1-t), y = t, which absorbs the (1-t)
// Jacobian into the Jacobi weight. Exact for total degree <= 2n-2.
func NewTriangleRule(n int) (q Rule, err error) {
	if n < 1 {
		err = fmt.Errorf("triangle rule needs at least one point per direction, got %d", n)
		return
	}
	var (
		u, wu = gaussLegendre01(n)
		s, ws = JacobiGQ(1, 0, n-1)
	)
	q = Rule{
		Points:  utils.NewMatrix(2, n*n),
		Weights: make([]float64, n*n),
		NPoints: n * n,
	}
	pd := q.Points.Data()
	for j := 0; j < n; j++ {
		// Jacobi(1,0) rule on [-1,1] carries the (1-x) factor; mapping to
		// [0,1] contributes 1/4: dt = dx/2 and (1-t) = (1-x)/2
		var (
			t  = 0.5 * (1. + s.AtVec(j))
			wt = 0.25 * ws.AtVec(j)
		)
		for i := 0; i < n; i++ {
			ind := j*n + i
			pd[ind] = u[i] * (1. - t)
			pd[n*n+ind] = t
			q.Weights[ind] = wu[i] * wt
		}
	}
	return
}
