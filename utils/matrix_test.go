package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		assert.Equal(t, 2., M.At(0, 1))
		assert.Equal(t, 6., M.Max())
		R := M.Transpose()
		nr, nc := R.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 2, nc)
		assert.Equal(t, 4., R.At(0, 1))
		P := M.Mul(R) // 2x3 * 3x2
		assert.Equal(t, 14., P.At(0, 0))
		assert.Equal(t, 32., P.At(0, 1))
		assert.Equal(t, 77., P.At(1, 1))
		C := M.Copy().Scale(2)
		assert.Equal(t, 12., C.At(1, 2))
		assert.Equal(t, 6., M.At(1, 2)) // original untouched
	}
	{ // size mismatch panics
		assert.Panics(t, func() { NewMatrix(2, 2, []float64{1, 2, 3}) })
	}
}

func TestVector(t *testing.T) {
	V := NewVector(3, []float64{3, -1, 2})
	assert.Equal(t, 4., V.Sum())
	assert.Equal(t, -1., V.Min())
	assert.Equal(t, 3., V.Max())
	W := V.Copy().Apply(math.Abs)
	assert.Equal(t, 1., W.AtVec(1))
	assert.Equal(t, -1., V.AtVec(1))
	assert.Equal(t, 9., V.Copy().POW(2).AtVec(0))
	assert.Equal(t, 5., NewVectorConstant(4, 1.25).Sum())
}

func TestDOK(t *testing.T) {
	D := NewDOK(3, 3)
	D.Set(0, 0, 1)
	D.Accumulate(0, 0, 2)
	D.Accumulate(1, 2, 5)
	assert.Equal(t, 3., D.At(0, 0))
	assert.Equal(t, 5., D.At(1, 2))
	assert.Equal(t, 2, D.NNZ())
	C := D.ToCSR()
	assert.Equal(t, 2, C.NNZ())
	assert.Equal(t, 3., C.At(0, 0))
	M := C.ToDense()
	assert.Equal(t, 5., M.At(1, 2))
	assert.Equal(t, 0., M.At(2, 2))
}
