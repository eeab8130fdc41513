package operators

import (
	"fmt"

	"github.com/notargets/gobem/assembly"
	"github.com/notargets/gobem/grid"
	"github.com/notargets/gobem/utils"
)

// Space binds a grid to a finite element space: the shapeset, the
// per-(element, local basis) global DOF numbers, the per-DOF sign and
// orientation multipliers and the per-element normal orientation
// multipliers. Spaces are immutable after construction and shared
// read-only by assembly calls.
type Space struct {
	Grid              *grid.Grid
	Shapeset          assembly.Shapeset
	GlobalDofCount    int
	GlobalDofs        [][]int
	Multipliers       [][]float64
	NormalMultipliers []float64
}

// NewP0Space builds the piecewise-constant space with one DOF per
// element.
func NewP0Space(g *grid.Grid) (s *Space) {
	s = &Space{
		Grid:              g,
		Shapeset:          assembly.P0{},
		GlobalDofCount:    g.K,
		GlobalDofs:        make([][]int, g.K),
		Multipliers:       make([][]float64, g.K),
		NormalMultipliers: make([]float64, g.K),
	}
	for k := 0; k < g.K; k++ {
		s.GlobalDofs[k] = []int{k}
		s.Multipliers[k] = []float64{1}
		s.NormalMultipliers[k] = 1
	}
	return
}

// NewP1Space builds the continuous piecewise-linear space with one DOF
// per vertex; the hat function of a vertex is shared by every element
// touching it.
func NewP1Space(g *grid.Grid) (s *Space) {
	s = &Space{
		Grid:              g,
		Shapeset:          assembly.P1{},
		GlobalDofCount:    g.NumberOfVertices(),
		GlobalDofs:        make([][]int, g.K),
		Multipliers:       make([][]float64, g.K),
		NormalMultipliers: make([]float64, g.K),
	}
	for k, el := range g.Elements {
		s.GlobalDofs[k] = []int{el[0], el[1], el[2]}
		s.Multipliers[k] = []float64{1, 1, 1}
		s.NormalMultipliers[k] = 1
	}
	return
}

// NewSpace resolves a space by name; unknown names are configuration
// errors.
func NewSpace(kind string, g *grid.Grid) (s *Space, err error) {
	switch kind {
	case "P0", "DP0":
		s = NewP0Space(g)
	case "P1":
		s = NewP1Space(g)
	default:
		err = fmt.Errorf("unknown function space %q", kind)
	}
	return
}

// Elements returns the full element index set of the space's grid.
func (s *Space) Elements() (I utils.Index) {
	I = utils.NewRange(0, s.Grid.K-1)
	return
}
