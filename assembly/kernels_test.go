package assembly

import (
	"math"
	"testing"

	"github.com/notargets/gobem/utils"
	"github.com/stretchr/testify/assert"
)

func point3(x, y, z float64) utils.Matrix {
	return utils.NewMatrix(3, 1, []float64{x, y, z})
}

func TestLaplaceKernels(t *testing.T) {
	{ // Single layer at unit distance is 1/(4 pi)
		k, err := OperatorDescriptor{Assembly: DefaultScalar, Kernel: LaplaceSingleLayer}.NewKernel()
		assert.NoError(t, err)
		assert.False(t, k.IsComplex())
		out := make([]float64, 1)
		k.Regular([]float64{0, 0, 0}, point3(1, 0, 0), nil, utils.Matrix{}, out, nil)
		assert.True(t, near(out[0], 1./(4.*math.Pi)))
		// and falls off as 1/r
		k.Regular([]float64{0, 0, 0}, point3(0, 2, 0), nil, utils.Matrix{}, out, nil)
		assert.True(t, near(out[0], 1./(8.*math.Pi)))
	}
	{ // Regular and singular call shapes agree at matching points
		k, _ := OperatorDescriptor{Assembly: DefaultScalar, Kernel: LaplaceSingleLayer}.NewKernel()
		var (
			testPoint  = []float64{0.1, -0.2, 0.4}
			trialPoint = point3(0.7, 0.3, -0.5)
			outReg     = make([]float64, 1)
			outSing    = make([]float64, 1)
		)
		k.Regular(testPoint, trialPoint, nil, utils.Matrix{}, outReg, nil)
		k.Singular(point3(testPoint[0], testPoint[1], testPoint[2]), trialPoint,
			utils.Matrix{}, utils.Matrix{}, outSing, nil)
		assert.True(t, near(outReg[0], outSing[0]))
	}
	{ // Double layer: -(y-x).n_y / (4 pi r^3)
		k, _ := OperatorDescriptor{Assembly: DefaultScalar, Kernel: LaplaceDoubleLayer}.NewKernel()
		out := make([]float64, 1)
		// x at origin, y at (1,0,0), n_y = (1,0,0): (y-x).n_y = 1
		k.Regular([]float64{0, 0, 0}, point3(1, 0, 0), nil, point3(1, 0, 0), out, nil)
		assert.True(t, near(out[0], -1./(4.*math.Pi)))
		// flipping the trial normal flips the sign
		k.Regular([]float64{0, 0, 0}, point3(1, 0, 0), nil, point3(-1, 0, 0), out, nil)
		assert.True(t, near(out[0], 1./(4.*math.Pi)))
	}
	{ // Adjoint double layer mirrors the double layer with the roles of
		// test and trial points exchanged
		var (
			dl, _  = OperatorDescriptor{Assembly: DefaultScalar, Kernel: LaplaceDoubleLayer}.NewKernel()
			adl, _ = OperatorDescriptor{Assembly: DefaultScalar, Kernel: LaplaceAdjointDoubleLayer}.NewKernel()
			n      = []float64{0, 1. / math.Sqrt(2), 1. / math.Sqrt(2)}
			x      = []float64{0.3, -0.1, 0.2}
			y      = point3(-0.4, 0.5, 0.9)
			outDl  = make([]float64, 1)
			outAdl = make([]float64, 1)
		)
		adl.Regular(x, y, n, utils.Matrix{}, outAdl, nil)
		dl.Regular([]float64{y.At(0, 0), y.At(1, 0), y.At(2, 0)},
			point3(x[0], x[1], x[2]), nil, point3(n[0], n[1], n[2]), outDl, nil)
		assert.True(t, near(outAdl[0], outDl[0]))
	}
}

func TestHelmholtzKernel(t *testing.T) {
	{ // At zero wavenumber the Helmholtz single layer is the Laplace one
		var (
			hk, err = OperatorDescriptor{
				Assembly: DefaultScalar, Kernel: HelmholtzSingleLayer,
				KernelParameters: []float64{0, 0},
			}.NewKernel()
			lk, _ = OperatorDescriptor{Assembly: DefaultScalar, Kernel: LaplaceSingleLayer}.NewKernel()
		)
		assert.NoError(t, err)
		assert.True(t, hk.IsComplex())
		var (
			outRe = make([]float64, 1)
			outIm = make([]float64, 1)
			outL  = make([]float64, 1)
		)
		hk.Regular([]float64{0, 0, 0}, point3(0.3, 0.4, 0), nil, utils.Matrix{}, outRe, outIm)
		lk.Regular([]float64{0, 0, 0}, point3(0.3, 0.4, 0), nil, utils.Matrix{}, outL, nil)
		assert.True(t, near(outRe[0], outL[0]))
		assert.True(t, near(outIm[0], 0))
	}
	{ // Modulus: |exp(ikr)|/(4 pi r) = exp(-kIm r)/(4 pi r)
		var (
			kRe, kIm = 2.5, 0.7
			r        = 1.3
			hk, _    = OperatorDescriptor{
				Assembly: DefaultScalar, Kernel: HelmholtzSingleLayer,
				KernelParameters: []float64{kRe, kIm},
			}.NewKernel()
			outRe = make([]float64, 1)
			outIm = make([]float64, 1)
		)
		hk.Regular([]float64{0, 0, 0}, point3(r, 0, 0), nil, utils.Matrix{}, outRe, outIm)
		modulus := math.Sqrt(outRe[0]*outRe[0] + outIm[0]*outIm[0])
		assert.True(t, near(modulus, math.Exp(-kIm*r)/(4.*math.Pi*r)))
		// Phase advances with kRe * r
		assert.True(t, near(math.Atan2(outIm[0], outRe[0]), kRe*r-2.*math.Pi))
	}
	{ // Missing wavenumber parameters are a configuration error
		_, err := OperatorDescriptor{
			Assembly: DefaultScalar, Kernel: HelmholtzSingleLayer,
		}.NewKernel()
		assert.Error(t, err)
	}
}

func TestDescriptorValidation(t *testing.T) {
	assert.NoError(t, OperatorDescriptor{Assembly: DefaultScalar, Kernel: LaplaceSingleLayer}.Validate())
	assert.NoError(t, OperatorDescriptor{Assembly: DefaultSparse, Kernel: L2Identity}.Validate())
	assert.Error(t, OperatorDescriptor{Assembly: DefaultScalar, Kernel: L2Identity}.Validate())
	assert.Error(t, OperatorDescriptor{Assembly: DefaultSparse, Kernel: LaplaceSingleLayer}.Validate())
	// The hypersingular assembler is real-valued; complex kernels are a
	// configuration error, not a runtime failure
	assert.NoError(t, OperatorDescriptor{Assembly: LaplaceHypersingular, Kernel: LaplaceSingleLayer}.Validate())
	assert.Error(t, OperatorDescriptor{
		Assembly: LaplaceHypersingular, Kernel: HelmholtzSingleLayer,
		KernelParameters: []float64{1, 0},
	}.Validate())
	_, err := ParseKernelKind("no_such_kernel")
	assert.Error(t, err)
	_, err = ParseAssemblyKind("no_such_assembler")
	assert.Error(t, err)
	k, err := ParseKernelKind("laplace_double_layer")
	assert.NoError(t, err)
	assert.Equal(t, LaplaceDoubleLayer, k)
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Abs(a) || math.Abs(a-b) < 1.e-10 {
		l = true
	}
	return
}
