package assembly

import (
	"testing"

	"github.com/notargets/gobem/grid"
	"github.com/notargets/gobem/quadrature"
	"github.com/notargets/gobem/utils"
	"github.com/stretchr/testify/assert"
)

// p0Input builds a piecewise-constant self-interaction input on g, one
// DOF per element.
func p0Input(g *grid.Grid, kernel Kernel, order int) (in RegularInput) {
	var (
		dofs  = make([][]int, g.K)
		mults = make([][]float64, g.K)
		norms = make([]float64, g.K)
	)
	for k := 0; k < g.K; k++ {
		dofs[k] = []int{k}
		mults[k] = []float64{1}
		norms[k] = 1
	}
	rule, _ := quadrature.NewTriangleRule(order)
	in = RegularInput{
		TestGrid:               g,
		TrialGrid:              g,
		TestElements:           utils.NewRange(0, g.K-1),
		TrialElements:          utils.NewRange(0, g.K-1),
		TestShapeset:           P0{},
		TrialShapeset:          P0{},
		TestGlobalDofs:         dofs,
		TrialGlobalDofs:        dofs,
		TestMultipliers:        mults,
		TrialMultipliers:       mults,
		TestNormalMultipliers:  norms,
		TrialNormalMultipliers: norms,
		Rule:                   rule,
		Kernel:                 kernel,
		GridsIdentical:         true,
	}
	return
}

func TestAssembleRegular(t *testing.T) {
	g, err := grid.RegularSphere(0)
	assert.NoError(t, err)
	kernel, _ := OperatorDescriptor{Assembly: DefaultScalar, Kernel: LaplaceSingleLayer}.NewKernel()
	in := p0Input(g, kernel, 4)
	result := NewDenseResult(g.K, g.K, false)
	assert.NoError(t, AssembleRegular(in, result, 4))
	for k1 := 0; k1 < g.K; k1++ {
		for k2 := 0; k2 < g.K; k2++ {
			re, _ := result.At(k1, k2)
			if g.ElementsAdjacent(k1, k2) {
				// Touching pairs are excluded, left to the singular driver
				assert.Equal(t, 0., re)
			} else {
				assert.Greater(t, re, 0.)
				// The single layer operator is symmetric
				rev, _ := result.At(k2, k1)
				assert.True(t, near(re, rev))
			}
		}
	}
	{ // The merge order keeps results bitwise reproducible across degrees
		serial := NewDenseResult(g.K, g.K, false)
		assert.NoError(t, AssembleRegular(in, serial, 1))
		assert.Equal(t, serial.Re, result.Re)
	}
	{ // Validation catches missing tables
		bad := in
		bad.TestGlobalDofs = nil
		assert.Error(t, AssembleRegular(bad, NewDenseResult(g.K, g.K, false), 1))
		bad = in
		bad.Kernel = nil
		assert.Error(t, AssembleRegular(bad, NewDenseResult(g.K, g.K, false), 1))
	}
}

func TestAssembleRegularComplex(t *testing.T) {
	g, _ := grid.RegularSphere(0)
	kernel, _ := OperatorDescriptor{
		Assembly: DefaultScalar, Kernel: HelmholtzSingleLayer,
		KernelParameters: []float64{0, 0},
	}.NewKernel()
	in := p0Input(g, kernel, 4)
	result := NewDenseResult(g.K, g.K, true)
	assert.NoError(t, AssembleRegular(in, result, 2))
	// At zero wavenumber the real part is the Laplace matrix and the
	// imaginary part vanishes
	lapKernel, _ := OperatorDescriptor{Assembly: DefaultScalar, Kernel: LaplaceSingleLayer}.NewKernel()
	lapIn := p0Input(g, lapKernel, 4)
	lapResult := NewDenseResult(g.K, g.K, false)
	assert.NoError(t, AssembleRegular(lapIn, lapResult, 2))
	for i := range result.Re {
		assert.True(t, near(result.Re[i], lapResult.Re[i]))
		assert.True(t, near(result.Im[i], 0))
	}
	{ // A complex kernel needs a complex result buffer
		assert.Error(t, AssembleRegular(in, NewDenseResult(g.K, g.K, false), 2))
	}
}

func TestAssembleHypersingularRegular(t *testing.T) {
	g, _ := grid.RegularSphere(1)
	kernel, _ := OperatorDescriptor{Assembly: LaplaceHypersingular, Kernel: LaplaceSingleLayer}.NewKernel()
	var (
		nv    = g.NumberOfVertices()
		dofs  = make([][]int, g.K)
		mults = make([][]float64, g.K)
		norms = make([]float64, g.K)
	)
	for k, el := range g.Elements {
		dofs[k] = []int{el[0], el[1], el[2]}
		mults[k] = []float64{1, 1, 1}
		norms[k] = 1
	}
	rule, _ := quadrature.NewTriangleRule(4)
	in := RegularInput{
		TestGrid:               g,
		TrialGrid:              g,
		TestElements:           utils.NewRange(0, g.K-1),
		TrialElements:          utils.NewRange(0, g.K-1),
		TestShapeset:           P1{},
		TrialShapeset:          P1{},
		TestGlobalDofs:         dofs,
		TrialGlobalDofs:        dofs,
		TestMultipliers:        mults,
		TrialMultipliers:       mults,
		TestNormalMultipliers:  norms,
		TrialNormalMultipliers: norms,
		Rule:                   rule,
		Kernel:                 kernel,
		GridsIdentical:         true,
	}
	result := NewDenseResult(nv, nv, false)
	assert.NoError(t, AssembleHypersingularRegular(in, result, 4))
	// Constants lie in the kernel of the hypersingular operator: since
	// the element-pair contributions enter through surface curls whose
	// columns sum to zero, every row of the far-field part sums to zero
	for i := 0; i < nv; i++ {
		var rowSum float64
		for j := 0; j < nv; j++ {
			re, _ := result.At(i, j)
			rowSum += re
		}
		assert.True(t, near(rowSum, 0))
	}
	{ // P0 spaces are rejected
		bad := p0Input(g, kernel, 4)
		assert.Error(t, AssembleHypersingularRegular(bad, NewDenseResult(g.K, g.K, false), 1))
	}
	{ // Complex kernels are rejected before the parallel section starts
		hk, _ := OperatorDescriptor{
			Assembly: DefaultScalar, Kernel: HelmholtzSingleLayer,
			KernelParameters: []float64{1, 0},
		}.NewKernel()
		bad := in
		bad.Kernel = hk
		assert.Error(t, AssembleHypersingularRegular(bad, NewDenseResult(nv, nv, true), 1))
	}
}
