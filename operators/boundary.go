package operators

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/notargets/gobem/assembly"
	"github.com/notargets/gobem/quadrature"
	"github.com/notargets/gobem/utils"
)

const (
	DefaultRegularOrder  = 4 // points per direction of the far-field rule
	DefaultSingularOrder = 4 // points per cube direction of the Sauter-Schwab rules
)

// BoundaryOperator couples an operator descriptor with a trial (domain)
// and test (dual-to-range) space. The kernel evaluator is resolved once
// here, so configuration errors surface at construction, before any
// numeric work.
type BoundaryOperator struct {
	Descriptor     assembly.OperatorDescriptor
	Domain         *Space // trial side
	DualToRange    *Space // test side
	RegularOrder   int
	SingularOrder  int
	ParallelDegree int

	kernel assembly.Kernel
}

func NewBoundaryOperator(descriptor assembly.OperatorDescriptor, domain, dualToRange *Space) (op *BoundaryOperator, err error) {
	if domain == nil || dualToRange == nil {
		err = fmt.Errorf("boundary operator requires domain and dual-to-range spaces")
		return
	}
	op = &BoundaryOperator{
		Descriptor:     descriptor,
		Domain:         domain,
		DualToRange:    dualToRange,
		RegularOrder:   DefaultRegularOrder,
		SingularOrder:  DefaultSingularOrder,
		ParallelDegree: runtime.NumCPU(),
	}
	if descriptor.Assembly == assembly.DefaultSparse {
		op = nil
		err = fmt.Errorf("sparse operators are assembled by Identity, not BoundaryOperator")
		return
	}
	if op.kernel, err = descriptor.NewKernel(); err != nil {
		op = nil
	}
	return
}

// GridsIdentical reports whether test and trial side reference the same
// grid object, enabling adjacency exclusion and the singular pass.
func (op *BoundaryOperator) GridsIdentical() bool {
	return op.Domain.Grid == op.DualToRange.Grid
}

/*
	Assemble produces the dense Galerkin matrix of the operator, indexed
	(test DOF, trial DOF).

	Two passes run: the regular far-field driver over all non-touching
	element pairs, then (for self-interaction operators) the singular
	near-field driver over the touching pairs the regular pass excluded.
	The singular pass output is scattered here with the same global-DOF
	and multiplier convention the regular driver applies internally.
*/
func (op *BoundaryOperator) Assemble() (result *assembly.DenseResult, err error) {
	var (
		rule quadrature.Rule
	)
	if rule, err = quadrature.NewTriangleRule(op.RegularOrder); err != nil {
		return
	}
	result = assembly.NewDenseResult(op.DualToRange.GlobalDofCount, op.Domain.GlobalDofCount, op.kernel.IsComplex())
	in := assembly.RegularInput{
		TestGrid:               op.DualToRange.Grid,
		TrialGrid:              op.Domain.Grid,
		TestElements:           op.DualToRange.Elements(),
		TrialElements:          op.Domain.Elements(),
		TestShapeset:           op.DualToRange.Shapeset,
		TrialShapeset:          op.Domain.Shapeset,
		TestGlobalDofs:         op.DualToRange.GlobalDofs,
		TrialGlobalDofs:        op.Domain.GlobalDofs,
		TestMultipliers:        op.DualToRange.Multipliers,
		TrialMultipliers:       op.Domain.Multipliers,
		TestNormalMultipliers:  op.DualToRange.NormalMultipliers,
		TrialNormalMultipliers: op.Domain.NormalMultipliers,
		Rule:                   rule,
		Kernel:                 op.kernel,
		GridsIdentical:         op.GridsIdentical(),
	}
	switch op.Descriptor.Assembly {
	case assembly.DefaultScalar:
		err = assembly.AssembleRegular(in, result, op.ParallelDegree)
	case assembly.LaplaceHypersingular:
		err = assembly.AssembleHypersingularRegular(in, result, op.ParallelDegree)
	default:
		err = fmt.Errorf("assembly kind %v has no dense driver", op.Descriptor.Assembly)
	}
	if err != nil || !op.GridsIdentical() {
		return
	}
	err = op.assembleSingularInto(result)
	return
}

// assembleSingularInto runs the near-field pass over all touching pairs
// and merges its flat output into the global result.
func (op *BoundaryOperator) assembleSingularInto(result *assembly.DenseResult) (err error) {
	var (
		sin assembly.SingularInput
	)
	if sin, err = op.buildSingularInput(); err != nil {
		return
	}
	var (
		nst = op.DualToRange.Shapeset.NumberOfShapeFunctions()
		ntr = op.Domain.Shapeset.NumberOfShapeFunctions()
		re  []float64
		im  []float64
	)
	switch op.Descriptor.Assembly {
	case assembly.DefaultScalar:
		re, im, err = assembly.AssembleSingular(sin, op.ParallelDegree)
	case assembly.LaplaceHypersingular:
		re, err = assembly.AssembleHypersingularSingular(sin, op.ParallelDegree)
	}
	if err != nil {
		return
	}
	for index, item := range sin.Items {
		for fi := 0; fi < nst; fi++ {
			for fj := 0; fj < ntr; fj++ {
				var (
					ind  = nst*ntr*index + fi*ntr + fj
					mult = op.DualToRange.Multipliers[item.TestElement][fi] *
						op.Domain.Multipliers[item.TrialElement][fj]
					imVal float64
				)
				if im != nil {
					imVal = im[ind] * mult
				}
				result.Add(op.DualToRange.GlobalDofs[item.TestElement][fi],
					op.Domain.GlobalDofs[item.TrialElement][fj],
					re[ind]*mult, imVal)
			}
		}
	}
	return
}

/*
	buildSingularInput enumerates every touching element pair of the
	shared grid, classifies it by the number of shared vertices and lays
	the per-pair quadrature points into arena buffers.

	The canonical Sauter-Schwab rules assume the shared vertices come
	first in each element's local numbering, matched in order across the
	pair. Each element's canonical points are therefore pushed through a
	barycentric permutation before entering the arena; weights depend
	only on the adjacency class and are shared per class.
*/
func (op *BoundaryOperator) buildSingularInput() (sin assembly.SingularInput, err error) {
	var (
		g     = op.Domain.Grid
		rules [3]quadrature.SingularRule
	)
	for _, adjacency := range []quadrature.AdjacencyType{
		quadrature.Coincident, quadrature.SharedEdge, quadrature.SharedVertex,
	} {
		if rules[adjacency], err = quadrature.NewSingularRule(adjacency, op.SingularOrder); err != nil {
			return
		}
	}
	var (
		weights        []float64
		weightsOffsets [3]int
	)
	for _, adjacency := range []quadrature.AdjacencyType{
		quadrature.Coincident, quadrature.SharedEdge, quadrature.SharedVertex,
	} {
		weightsOffsets[adjacency] = len(weights)
		weights = append(weights, rules[adjacency].Weights...)
	}

	// Inverted vertex index for neighbor discovery
	vertexToElements := make(map[int][]int)
	for k, el := range g.Elements {
		for _, v := range el {
			vertexToElements[v] = append(vertexToElements[v], k)
		}
	}
	var (
		items                 []assembly.ElementPairWorkItem
		testArena, trialArena []float64 // interleaved (s,t), repacked dimension-major below
		totalPoints           int
	)
	appendPoints := func(arena []float64, points utils.Matrix, perm [3]int) []float64 {
		var (
			_, npoints = points.Dims()
			pd         = points.Data()
		)
		for j := 0; j < npoints; j++ {
			s, t := pd[j], pd[npoints+j]
			var bary [3]float64
			canonical := [3]float64{1. - s - t, s, t}
			for c := 0; c < 3; c++ {
				bary[perm[c]] = canonical[c]
			}
			arena = append(arena, bary[1], bary[2])
		}
		return arena
	}
	for k := 0; k < g.K; k++ {
		var neighborSet []int
		seen := map[int]bool{}
		for _, v := range g.Elements[k] {
			for _, l := range vertexToElements[v] {
				if !seen[l] {
					seen[l] = true
					neighborSet = append(neighborSet, l)
				}
			}
		}
		sort.Ints(neighborSet)
		for _, l := range neighborSet {
			shared := g.SharedVertices(k, l)
			var adjacency quadrature.AdjacencyType
			switch len(shared) {
			case 3:
				adjacency = quadrature.Coincident
			case 2:
				adjacency = quadrature.SharedEdge
			case 1:
				adjacency = quadrature.SharedVertex
			default:
				err = fmt.Errorf("elements %d and %d share %d vertices", k, l, len(shared))
				return
			}
			var (
				rule      = rules[adjacency]
				testPerm  = localPermutation(g.Elements[k], shared)
				trialPerm = localPermutation(g.Elements[l], shared)
			)
			items = append(items, assembly.ElementPairWorkItem{
				TestElement:   k,
				TrialElement:  l,
				TestOffset:    totalPoints,
				TrialOffset:   totalPoints,
				WeightsOffset: weightsOffsets[adjacency],
				NPoints:       rule.NPoints,
			})
			testArena = appendPoints(testArena, rule.TestPoints, testPerm)
			trialArena = appendPoints(trialArena, rule.TrialPoints, trialPerm)
			totalPoints += rule.NPoints
		}
	}
	sin = assembly.SingularInput{
		Grid:                   g,
		Items:                  items,
		TestPoints:             packArena(testArena, totalPoints),
		TrialPoints:            packArena(trialArena, totalPoints),
		Weights:                weights,
		TestShapeset:           op.DualToRange.Shapeset,
		TrialShapeset:          op.Domain.Shapeset,
		TestNormalMultipliers:  op.DualToRange.NormalMultipliers,
		TrialNormalMultipliers: op.Domain.NormalMultipliers,
		Kernel:                 op.kernel,
	}
	return
}

// localPermutation maps canonical local vertex positions to the actual
// local positions of an element: the shared vertices occupy canonical
// slots 0..len(shared)-1 in the given order, the remaining vertices
// follow in traversal order.
func localPermutation(element [3]int, shared []int) (perm [3]int) {
	var (
		used [3]bool
		next = 0
	)
	assign := func(v int) {
		for i := 0; i < 3; i++ {
			if element[i] == v && !used[i] {
				perm[next] = i
				used[i] = true
				next++
				return
			}
		}
	}
	for _, v := range shared {
		assign(v)
	}
	for i := 0; i < 3; i++ {
		if !used[i] {
			perm[next] = i
			next++
		}
	}
	return
}

// packArena converts interleaved (s,t) pairs into the 2 x total
// dimension-major layout the assembly drivers expect.
func packArena(interleaved []float64, total int) (R utils.Matrix) {
	R = utils.NewMatrix(2, total)
	rd := R.Data()
	for j := 0; j < total; j++ {
		rd[j] = interleaved[2*j]
		rd[total+j] = interleaved[2*j+1]
	}
	return
}
