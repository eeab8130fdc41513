package grid

import (
	"fmt"
	"math"

	"github.com/notargets/gobem/utils"
)

/*
	A Grid is the immutable geometric description of a triangulated surface
	in 3D. All derived quantities (unit normals, integration elements,
	inverse transpose Jacobians) are computed once at construction and are
	never mutated afterwards, so a single Grid can be shared read-only by
	any number of concurrent assembly passes.

	The reference element is the unit triangle with vertices
	(0,0), (1,0), (0,1). The map to physical space for element k with
	vertices v0,v1,v2 is
		x(s,t) = v0 + (v1-v0)*s + (v2-v0)*t
	with constant Jacobian [v1-v0 | v2-v0] (3x2) per element.
*/
type Grid struct {
	Vertices utils.Matrix // 3 x NV vertex coordinates, dimension-major
	Elements [][3]int     // K vertex index triples
	K        int          // number of elements

	Normals             utils.Matrix   // K x 3 unit normals, orientation from vertex ordering
	IntegrationElements []float64      // K Jacobian surface measures (twice the element area)
	JacInvTrans         []utils.Matrix // K inverse transpose Jacobians, 3 x 2
	DomainIndices       []int          // K domain tags, zero when untagged
}

func NewGrid(vertices utils.Matrix, elements [][3]int) (g *Grid, err error) {
	var (
		nd, nv = vertices.Dims()
		vd     = vertices.Data()
	)
	if nd != 3 {
		err = fmt.Errorf("vertices must be 3 x NV, got %d x %d", nd, nv)
		return
	}
	g = &Grid{
		Vertices:            vertices,
		Elements:            elements,
		K:                   len(elements),
		Normals:             utils.NewMatrix(len(elements), 3),
		IntegrationElements: make([]float64, len(elements)),
		JacInvTrans:         make([]utils.Matrix, len(elements)),
		DomainIndices:       make([]int, len(elements)),
	}
	normalsD := g.Normals.Data()
	for k, el := range elements {
		for i := 0; i < 3; i++ {
			if el[i] < 0 || el[i] >= nv {
				g = nil
				err = fmt.Errorf("element %d references vertex %d, outside [0,%d)", k, el[i], nv)
				return
			}
		}
		var a, b, cross [3]float64
		for d := 0; d < 3; d++ {
			v0 := vd[d*nv+el[0]]
			a[d] = vd[d*nv+el[1]] - v0
			b[d] = vd[d*nv+el[2]] - v0
		}
		cross[0] = a[1]*b[2] - a[2]*b[1]
		cross[1] = a[2]*b[0] - a[0]*b[2]
		cross[2] = a[0]*b[1] - a[1]*b[0]
		intEl := math.Sqrt(cross[0]*cross[0] + cross[1]*cross[1] + cross[2]*cross[2])
		if intEl < utils.NODETOL {
			g = nil
			err = fmt.Errorf("element %d is degenerate, surface measure = %v", k, intEl)
			return
		}
		g.IntegrationElements[k] = intEl
		for d := 0; d < 3; d++ {
			normalsD[k*3+d] = cross[d] / intEl
		}
		// Inverse transpose Jacobian: J * (J^T J)^-1, with J = [a|b]
		var (
			g11  = a[0]*a[0] + a[1]*a[1] + a[2]*a[2]
			g12  = a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
			g22  = b[0]*b[0] + b[1]*b[1] + b[2]*b[2]
			det  = g11*g22 - g12*g12
			jInv = utils.NewMatrix(3, 2)
		)
		jd := jInv.Data()
		for d := 0; d < 3; d++ {
			jd[d*2+0] = (a[d]*g22 - b[d]*g12) / det
			jd[d*2+1] = (b[d]*g11 - a[d]*g12) / det
		}
		g.JacInvTrans[k] = jInv
	}
	return
}

// Local2Global maps reference triangle coordinates (2 x n) through element
// k's affine map into physical space (3 x n).
func (g *Grid) Local2Global(k int, localPoints utils.Matrix) (globalPoints utils.Matrix) {
	var (
		_, n   = localPoints.Dims()
		lD     = localPoints.Data()
		_, nv  = g.Vertices.Dims()
		vd     = g.Vertices.Data()
		el     = g.Elements[k]
		v0, v1 = el[0], el[1]
		v2     = el[2]
	)
	globalPoints = utils.NewMatrix(3, n)
	gD := globalPoints.Data()
	for d := 0; d < 3; d++ {
		var (
			x0 = vd[d*nv+v0]
			x1 = vd[d*nv+v1]
			x2 = vd[d*nv+v2]
		)
		for j := 0; j < n; j++ {
			s, t := lD[j], lD[n+j]
			gD[d*n+j] = x0*(1.-s-t) + x1*s + x2*t
		}
	}
	return
}

// ElementsAdjacent reports whether the two elements share at least one
// vertex index: one shared index for vertex adjacency, two for edge
// adjacency, three for identity.
func (g *Grid) ElementsAdjacent(k1, k2 int) bool {
	var (
		e1, e2 = g.Elements[k1], g.Elements[k2]
	)
	return e1[0] == e2[0] || e1[0] == e2[1] || e1[0] == e2[2] ||
		e1[1] == e2[0] || e1[1] == e2[1] || e1[1] == e2[2] ||
		e1[2] == e2[0] || e1[2] == e2[1] || e1[2] == e2[2]
}

// SharedVertices returns the vertex indices common to both elements, in
// the local traversal order of element k1.
func (g *Grid) SharedVertices(k1, k2 int) (shared []int) {
	var (
		e1, e2 = g.Elements[k1], g.Elements[k2]
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if e1[i] == e2[j] {
				shared = append(shared, e1[i])
				break
			}
		}
	}
	return
}

// Centroid returns the barycenter of element k.
func (g *Grid) Centroid(k int) (c [3]float64) {
	var (
		_, nv = g.Vertices.Dims()
		vd    = g.Vertices.Data()
		el    = g.Elements[k]
	)
	for d := 0; d < 3; d++ {
		c[d] = (vd[d*nv+el[0]] + vd[d*nv+el[1]] + vd[d*nv+el[2]]) / 3.
	}
	return
}

func (g *Grid) NumberOfVertices() int {
	_, nv := g.Vertices.Dims()
	return nv
}
