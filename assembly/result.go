package assembly

import (
	"github.com/notargets/gobem/utils"
)

// DenseResult is a dense global system matrix indexed by (test DOF,
// trial DOF). Accumulation is additive: multiple element pairs writing
// to the same cell sum. Im is nil for real-valued operators.
type DenseResult struct {
	Rows, Cols int
	Re, Im     []float64
}

func NewDenseResult(rows, cols int, complexValued bool) (r *DenseResult) {
	r = &DenseResult{
		Rows: rows,
		Cols: cols,
		Re:   make([]float64, rows*cols),
	}
	if complexValued {
		r.Im = make([]float64, rows*cols)
	}
	return
}

func (r *DenseResult) IsComplex() bool { return r.Im != nil }

func (r *DenseResult) Add(i, j int, re, im float64) {
	r.Re[i*r.Cols+j] += re
	if r.Im != nil {
		r.Im[i*r.Cols+j] += im
	}
}

func (r *DenseResult) At(i, j int) (re, im float64) {
	re = r.Re[i*r.Cols+j]
	if r.Im != nil {
		im = r.Im[i*r.Cols+j]
	}
	return
}

// Merge adds the other result into the receiver. Workers accumulate into
// private DenseResults which the driver merges serially in partition
// order, keeping floating point sums reproducible across runs and
// thread-count changes.
func (r *DenseResult) Merge(o *DenseResult) {
	for i, val := range o.Re {
		r.Re[i] += val
	}
	if r.Im != nil && o.Im != nil {
		for i, val := range o.Im {
			r.Im[i] += val
		}
	}
}

func (r *DenseResult) ReMatrix() (R utils.Matrix) {
	R = utils.NewMatrix(r.Rows, r.Cols, r.Re)
	return
}

func (r *DenseResult) ImMatrix() (R utils.Matrix) {
	if r.Im == nil {
		return
	}
	R = utils.NewMatrix(r.Rows, r.Cols, r.Im)
	return
}
