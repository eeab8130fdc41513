package operators

import (
	"fmt"
	"runtime"

	"github.com/notargets/gobem/assembly"
	"github.com/notargets/gobem/quadrature"
	"github.com/notargets/gobem/utils"
)

// IdentityOperator is the sparse L2 mass operator pairing test and trial
// spaces on a shared grid. Unlike the dense boundary operators it has no
// kernel: every element interacts only with itself, so the assembled
// matrix is block sparse with one local Gram block per element.
type IdentityOperator struct {
	Domain          *Space
	DualToRange     *Space
	QuadratureOrder int
	ParallelDegree  int
}

func NewIdentityOperator(domain, dualToRange *Space) (op *IdentityOperator, err error) {
	if domain == nil || dualToRange == nil {
		err = fmt.Errorf("identity operator requires domain and dual-to-range spaces")
		return
	}
	if domain.Grid != dualToRange.Grid {
		err = fmt.Errorf("identity operator requires both spaces on the same grid")
		return
	}
	op = &IdentityOperator{
		Domain:          domain,
		DualToRange:     dualToRange,
		QuadratureOrder: DefaultRegularOrder,
		ParallelDegree:  runtime.NumCPU(),
	}
	return
}

// Assemble computes the per-element Gram blocks in parallel, then
// scatters them serially into a DOK accumulator and compresses to CSR.
// Vertex DOFs shared between elements accumulate additively.
func (op *IdentityOperator) Assemble() (R utils.CSR, err error) {
	var (
		rule quadrature.Rule
	)
	if rule, err = quadrature.NewTriangleRule(op.QuadratureOrder); err != nil {
		return
	}
	var (
		elements = op.DualToRange.Elements()
		in       = assembly.SparseInput{
			Grid:          op.Domain.Grid,
			Elements:      elements,
			TestShapeset:  op.DualToRange.Shapeset,
			TrialShapeset: op.Domain.Shapeset,
			Rule:          rule,
		}
		nst = op.DualToRange.Shapeset.NumberOfShapeFunctions()
		ntr = op.Domain.Shapeset.NumberOfShapeFunctions()
		out []float64
	)
	if out, err = assembly.AssembleSparseIdentity(in, op.ParallelDegree); err != nil {
		return
	}
	dok := utils.NewDOK(op.DualToRange.GlobalDofCount, op.Domain.GlobalDofCount)
	for index, element := range elements {
		for fi := 0; fi < nst; fi++ {
			for fj := 0; fj < ntr; fj++ {
				val := out[nst*ntr*index+fi*ntr+fj] *
					op.DualToRange.Multipliers[element][fi] *
					op.Domain.Multipliers[element][fj]
				dok.Accumulate(op.DualToRange.GlobalDofs[element][fi],
					op.Domain.GlobalDofs[element][fj], val)
			}
		}
	}
	R = dok.ToCSR()
	return
}

// Identity is the convenience constructor matching the dense operator
// constructors in this package.
func Identity(domain, dualToRange *Space) (*IdentityOperator, error) {
	return NewIdentityOperator(domain, dualToRange)
}
