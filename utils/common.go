package utils

import "gonum.org/v1/gonum/mat"

const (
	NODETOL = 1.e-12
)

func POW(x float64, p int) (y float64) {
	y = 1
	if p < 0 {
		for i := 0; i < -p; i++ {
			y /= x
		}
		return
	}
	for i := 0; i < p; i++ {
		y *= x
	}
	return
}

// NewSymTriDiagonal builds a symmetric matrix from a main diagonal and the
// first super/sub diagonal, used for Golub-Welsch quadrature construction.
func NewSymTriDiagonal(d0, d1 []float64) (J *mat.SymDense) {
	var (
		n = len(d0)
	)
	J = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		J.SetSym(i, i, d0[i])
	}
	for i := 0; i < n-1; i++ {
		J.SetSym(i, i+1, d1[i])
	}
	return
}
