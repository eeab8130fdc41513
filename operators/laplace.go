package operators

import (
	"github.com/notargets/gobem/assembly"
)

// LaplaceSingleLayer builds the weakly singular operator with kernel
// 1/(4 pi r).
func LaplaceSingleLayer(domain, dualToRange *Space) (*BoundaryOperator, error) {
	return NewBoundaryOperator(assembly.OperatorDescriptor{
		Assembly: assembly.DefaultScalar,
		Kernel:   assembly.LaplaceSingleLayer,
	}, domain, dualToRange)
}

// LaplaceDoubleLayer builds the operator with kernel
// -(x-y).n_y / (4 pi r^3), the normal derivative taken on the trial
// side.
func LaplaceDoubleLayer(domain, dualToRange *Space) (*BoundaryOperator, error) {
	return NewBoundaryOperator(assembly.OperatorDescriptor{
		Assembly: assembly.DefaultScalar,
		Kernel:   assembly.LaplaceDoubleLayer,
	}, domain, dualToRange)
}

// LaplaceAdjointDoubleLayer builds the operator with kernel
// (x-y).n_x / (4 pi r^3), the normal derivative taken on the test side.
func LaplaceAdjointDoubleLayer(domain, dualToRange *Space) (*BoundaryOperator, error) {
	return NewBoundaryOperator(assembly.OperatorDescriptor{
		Assembly: assembly.DefaultScalar,
		Kernel:   assembly.LaplaceAdjointDoubleLayer,
	}, domain, dualToRange)
}

// LaplaceHypersingular builds the hypersingular operator through its
// weak form: surface curls of the P1 basis paired under the single layer
// kernel. Both spaces must be P1.
func LaplaceHypersingular(domain, dualToRange *Space) (*BoundaryOperator, error) {
	return NewBoundaryOperator(assembly.OperatorDescriptor{
		Assembly: assembly.LaplaceHypersingular,
		Kernel:   assembly.LaplaceSingleLayer,
	}, domain, dualToRange)
}
