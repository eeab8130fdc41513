package quadrature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJacobiGQ(t *testing.T) {
	{ // Legendre nodes and weights for N=1: +-1/sqrt(3), weights 1
		x, w := JacobiGQ(0, 0, 1)
		assert.True(t, near(x.AtVec(0), -1./math.Sqrt(3)))
		assert.True(t, near(x.AtVec(1), 1./math.Sqrt(3)))
		assert.True(t, near(w.AtVec(0), 1))
		assert.True(t, near(w.AtVec(1), 1))
	}
	{ // Jacobi(1,0) weights integrate (1-x) over [-1,1]: total 2
		_, w := JacobiGQ(1, 0, 3)
		var sum float64
		for i := 0; i < w.Len(); i++ {
			sum += w.AtVec(i)
		}
		assert.True(t, near(sum, 2))
	}
}

func TestTriangleRule(t *testing.T) {
	integrate := func(q Rule, f func(x, y float64) float64) (sum float64) {
		pd := q.Points.Data()
		for j := 0; j < q.NPoints; j++ {
			sum += f(pd[j], pd[q.NPoints+j]) * q.Weights[j]
		}
		return
	}
	for n := 2; n <= 6; n++ {
		q, err := NewTriangleRule(n)
		assert.NoError(t, err)
		assert.Equal(t, n*n, q.NPoints)
		// All points strictly inside the reference triangle
		pd := q.Points.Data()
		for j := 0; j < q.NPoints; j++ {
			x, y := pd[j], pd[q.NPoints+j]
			assert.Greater(t, x, 0.)
			assert.Greater(t, y, 0.)
			assert.Less(t, x+y, 1.)
		}
		// Exact monomial integrals over the unit triangle
		assert.True(t, near(integrate(q, func(x, y float64) float64 { return 1 }), 1./2.))
		assert.True(t, near(integrate(q, func(x, y float64) float64 { return x }), 1./6.))
		assert.True(t, near(integrate(q, func(x, y float64) float64 { return y }), 1./6.))
		assert.True(t, near(integrate(q, func(x, y float64) float64 { return x * x }), 1./12.))
		assert.True(t, near(integrate(q, func(x, y float64) float64 { return x * y }), 1./24.))
	}
	_, err := NewTriangleRule(0)
	assert.Error(t, err)
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Abs(a) || math.Abs(a-b) < 1.e-10 {
		l = true
	}
	return
}
