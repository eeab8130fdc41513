package operators

import (
	"github.com/notargets/gobem/assembly"
)

// HelmholtzSingleLayer builds the complex-valued single layer operator
// with kernel exp(ikr)/(4 pi r). The wavenumber is passed as two reals;
// a positive imaginary part damps the kernel exponentially with
// distance.
func HelmholtzSingleLayer(waveNumberRe, waveNumberIm float64, domain, dualToRange *Space) (*BoundaryOperator, error) {
	return NewBoundaryOperator(assembly.OperatorDescriptor{
		Assembly:         assembly.DefaultScalar,
		Kernel:           assembly.HelmholtzSingleLayer,
		KernelParameters: []float64{waveNumberRe, waveNumberIm},
	}, domain, dualToRange)
}
