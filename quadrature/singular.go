package quadrature

import (
	"fmt"

	"github.com/notargets/gobem/utils"
)

// AdjacencyType classifies a touching element pair by how many vertices
// the two elements share: all three, an edge, or a single vertex.
type AdjacencyType int

const (
	Coincident AdjacencyType = iota
	SharedEdge
	SharedVertex
)

func (a AdjacencyType) String() string {
	switch a {
	case Coincident:
		return "coincident"
	case SharedEdge:
		return "shared_edge"
	case SharedVertex:
		return "shared_vertex"
	}
	return "unknown"
}

// SingularRule holds paired test/trial quadrature points on the reference
// triangle for one adjacency class. The rule regularizes the kernel
// singularity through the Sauter-Schwab relative-coordinate transform, so
// evaluating a singular kernel at these paired points never divides by
// zero. Weights sum to 1/4, the squared reference triangle area.
//
// Canonical vertex convention: for SharedEdge the shared edge runs from
// local vertex 0 to local vertex 1 on both elements, matched in order;
// for SharedVertex the shared vertex is local vertex 0 on both.
type SingularRule struct {
	Adjacency               AdjacencyType
	TestPoints, TrialPoints utils.Matrix // 2 x NPoints reference coordinates
	Weights                 []float64
	NPoints                 int
}

// ssRegion maps a point of the unit 4-cube to a pair of points in the
// parametrization triangle {0 <= x2 <= x1 <= 1} plus the transform Jacobian.
type ssRegion func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64)

var coincidentRegions = []ssRegion{
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi, xi * (1. - e1 + e1*e2), xi * (1. - e1*e2*e3), xi * (1. - e1), xi * xi * xi * e1 * e1 * e2
	},
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi * (1. - e1*e2*e3), xi * (1. - e1), xi, xi * (1. - e1 + e1*e2), xi * xi * xi * e1 * e1 * e2
	},
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi, xi * e1 * (1. - e2 + e2*e3), xi * (1. - e1*e2), xi * e1 * (1. - e2), xi * xi * xi * e1 * e1 * e2
	},
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi * (1. - e1*e2), xi * e1 * (1. - e2), xi, xi * e1 * (1. - e2 + e2*e3), xi * xi * xi * e1 * e1 * e2
	},
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi * (1. - e1*e2*e3), xi * e1 * (1. - e2*e3), xi, xi * e1 * (1. - e2), xi * xi * xi * e1 * e1 * e2
	},
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi, xi * e1 * (1. - e2), xi * (1. - e1*e2*e3), xi * e1 * (1. - e2*e3), xi * xi * xi * e1 * e1 * e2
	},
}

var sharedEdgeRegions = []ssRegion{
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi, xi * e1 * e3, xi * (1. - e1*e2), xi * e1 * (1. - e2), xi * xi * xi * e1 * e1
	},
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi, xi * e1, xi * (1. - e1*e2*e3), xi * e1 * e2 * (1. - e3), xi * xi * xi * e1 * e1 * e2
	},
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi * (1. - e1*e2), xi * e1 * (1. - e2), xi, xi * e1 * e2 * e3, xi * xi * xi * e1 * e1 * e2
	},
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi * (1. - e1*e2*e3), xi * e1 * e2 * (1. - e3), xi, xi * e1, xi * xi * xi * e1 * e1 * e2
	},
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi * (1. - e1*e2*e3), xi * e1 * (1. - e2*e3), xi, xi * e1 * e2, xi * xi * xi * e1 * e1 * e2
	},
}

var sharedVertexRegions = []ssRegion{
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi, xi * e1, xi * e2, xi * e2 * e3, xi * xi * xi * e2
	},
	func(xi, e1, e2, e3 float64) (x1, x2, y1, y2, jac float64) {
		return xi * e2, xi * e2 * e3, xi, xi * e1, xi * xi * xi * e2
	},
}

// NewSingularRule builds the Sauter-Schwab rule for one adjacency class
// from an n point Gauss-Legendre rule on each of the four cube directions.
func NewSingularRule(adjacency AdjacencyType, n int) (q SingularRule, err error) {
	if n < 1 {
		err = fmt.Errorf("singular rule needs at least one point per direction, got %d", n)
		return
	}
	var regions []ssRegion
	switch adjacency {
	case Coincident:
		regions = coincidentRegions
	case SharedEdge:
		regions = sharedEdgeRegions
	case SharedVertex:
		regions = sharedVertexRegions
	default:
		err = fmt.Errorf("unknown adjacency type %d", adjacency)
		return
	}
	var (
		x, w    = gaussLegendre01(n)
		npoints = len(regions) * n * n * n * n
	)
	q = SingularRule{
		Adjacency:   adjacency,
		TestPoints:  utils.NewMatrix(2, npoints),
		TrialPoints: utils.NewMatrix(2, npoints),
		Weights:     make([]float64, npoints),
		NPoints:     npoints,
	}
	var (
		testD  = q.TestPoints.Data()
		trialD = q.TrialPoints.Data()
		ind    int
	)
	for _, region := range regions {
		for i0 := 0; i0 < n; i0++ {
			for i1 := 0; i1 < n; i1++ {
				for i2 := 0; i2 < n; i2++ {
					for i3 := 0; i3 < n; i3++ {
						x1, x2, y1, y2, jac := region(x[i0], x[i1], x[i2], x[i3])
						// convert {0<=x2<=x1<=1} coordinates to the
						// reference triangle: s = x1-x2, t = x2
						testD[ind] = x1 - x2
						testD[npoints+ind] = x2
						trialD[ind] = y1 - y2
						trialD[npoints+ind] = y2
						q.Weights[ind] = jac * w[i0] * w[i1] * w[i2] * w[i3]
						ind++
					}
				}
			}
		}
	}
	return
}
