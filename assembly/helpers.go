package assembly

import (
	"github.com/notargets/gobem/grid"
	"github.com/notargets/gobem/utils"
)

// GetGlobalPoints maps one reference point set through every listed
// element's local-to-global transform, concatenated element-major,
// point-minor into a single 3 x (nelements*npoints) buffer. Batched
// kernel results must be indexed with the same ordering.
func GetGlobalPoints(g *grid.Grid, elements utils.Index, localPoints utils.Matrix) (globalPoints utils.Matrix) {
	var (
		_, npoints = localPoints.Dims()
		nelements  = len(elements)
	)
	globalPoints = utils.NewMatrix(3, nelements*npoints)
	gd := globalPoints.Data()
	for index, element := range elements {
		ep := g.Local2Global(element, localPoints)
		epd := ep.Data()
		for d := 0; d < 3; d++ {
			copy(gd[d*nelements*npoints+index*npoints:d*nelements*npoints+(index+1)*npoints],
				epd[d*npoints:(d+1)*npoints])
		}
	}
	return
}

// GetNormals replicates each element's stored unit normal nrepetitions
// times (once per quadrature point), scaled by the element's orientation
// multiplier. Multipliers are indexed by global element id.
func GetNormals(g *grid.Grid, nrepetitions int, elements utils.Index, multipliers []float64) (normals utils.Matrix) {
	var (
		nelements = len(elements)
		gnd       = g.Normals.Data()
	)
	normals = utils.NewMatrix(3, nrepetitions*nelements)
	nd := normals.Data()
	for index, element := range elements {
		for d := 0; d < 3; d++ {
			val := gnd[element*3+d] * multipliers[element]
			for n := 0; n < nrepetitions; n++ {
				nd[d*nrepetitions*nelements+nrepetitions*index+n] = val
			}
		}
	}
	return
}

// SurfaceCurl computes the 3 x 3 matrix whose column i is the surface
// curl n x grad(phi_i) of the i-th P1 basis function on element k,
// scaled by the element's normal orientation multiplier. Constant per
// element since the Jacobian is affine.
func SurfaceCurl(g *grid.Grid, k int, normalMultiplier float64) (C utils.Matrix) {
	var (
		gradients = g.JacInvTrans[k].Mul(ReferenceGradient()) // 3 x 3
		gd        = gradients.Data()
		gnd       = g.Normals.Data()
		n         [3]float64
	)
	for d := 0; d < 3; d++ {
		n[d] = gnd[k*3+d] * normalMultiplier
	}
	C = utils.NewMatrix(3, 3)
	cd := C.Data()
	for i := 0; i < 3; i++ {
		var grad [3]float64
		for d := 0; d < 3; d++ {
			grad[d] = gd[d*3+i]
		}
		cd[0*3+i] = n[1]*grad[2] - n[2]*grad[1]
		cd[1*3+i] = n[2]*grad[0] - n[0]*grad[2]
		cd[2*3+i] = n[0]*grad[1] - n[1]*grad[0]
	}
	return
}

// CurlProduct returns the 3 x 3 matrix of pairwise inner products of
// test and trial surface curls: entry (i,j) = testCurl_i . trialCurl_j.
func CurlProduct(testCurl, trialCurl utils.Matrix) (P utils.Matrix) {
	P = testCurl.Transpose().Mul(trialCurl)
	return
}
