package grid

import (
	"math"
	"testing"

	"github.com/notargets/gobem/utils"
	"github.com/stretchr/testify/assert"
)

func TestGridGeometry(t *testing.T) {
	{ // Reference triangle in the z=0 plane
		g := ReferenceTriangle()
		assert.Equal(t, 1, g.K)
		assert.Equal(t, 3, g.NumberOfVertices())
		assert.True(t, near(g.IntegrationElements[0], 1)) // twice the area 1/2
		assert.True(t, near(g.Normals.At(0, 0), 0))
		assert.True(t, near(g.Normals.At(0, 1), 0))
		assert.True(t, near(g.Normals.At(0, 2), 1))
		// Affine map reproduces the vertices
		gp := g.Local2Global(0, packVertices2([][2]float64{{0, 0}, {1, 0}, {0, 1}, {1. / 3., 1. / 3.}}))
		assert.True(t, near(gp.At(0, 1), 1))
		assert.True(t, near(gp.At(1, 2), 1))
		assert.True(t, near(gp.At(0, 3), 1./3.))
		assert.True(t, near(gp.At(1, 3), 1./3.))
		assert.True(t, near(gp.At(2, 3), 0))
		// JacInvTrans recovers the identity on the flat reference element
		jit := g.JacInvTrans[0]
		assert.True(t, near(jit.At(0, 0), 1))
		assert.True(t, near(jit.At(1, 1), 1))
		assert.True(t, near(jit.At(0, 1), 0))
		assert.True(t, near(jit.At(2, 0), 0))
	}
	{ // Construction errors
		_, err := NewGrid(packVertices([][3]float64{{0, 0, 0}, {1, 0, 0}}), [][3]int{{0, 1, 2}})
		assert.Error(t, err)
		_, err = NewGrid(packVertices([][3]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}), [][3]int{{0, 1, 2}})
		assert.Error(t, err) // collinear
	}
}

func TestGridAdjacency(t *testing.T) {
	// Two triangles sharing the edge (1,2), a third sharing only vertex 1
	// with the first, and a fourth detached
	vertices := packVertices([][3]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {2, 0, 0}, {3, 0, 0}, {3, 1, 0},
	})
	g, err := NewGrid(vertices, [][3]int{
		{0, 1, 2}, {1, 3, 2}, {1, 4, 3}, {4, 5, 6},
	})
	assert.NoError(t, err)
	assert.True(t, g.ElementsAdjacent(0, 0))
	assert.True(t, g.ElementsAdjacent(0, 1))
	assert.True(t, g.ElementsAdjacent(0, 2))
	assert.False(t, g.ElementsAdjacent(0, 3))
	assert.True(t, g.ElementsAdjacent(2, 3))
	assert.Equal(t, []int{1, 2}, g.SharedVertices(0, 1))
	assert.Equal(t, []int{1}, g.SharedVertices(0, 2))
	assert.Equal(t, []int{0, 1, 2}, g.SharedVertices(0, 0))
	assert.Empty(t, g.SharedVertices(0, 3))
}

func TestRegularSphere(t *testing.T) {
	{ // Level zero is the octahedron
		g, err := RegularSphere(0)
		assert.NoError(t, err)
		assert.Equal(t, 8, g.K)
		assert.Equal(t, 6, g.NumberOfVertices())
		assertSphereGrid(t, g)
	}
	{ // Each level quadruples the element count
		g, err := RegularSphere(2)
		assert.NoError(t, err)
		assert.Equal(t, 128, g.K)
		assertSphereGrid(t, g)
	}
	{ // Level bounds
		_, err := RegularSphere(-1)
		assert.Error(t, err)
		_, err = RegularSphere(10)
		assert.Error(t, err)
	}
}

// assertSphereGrid checks that all vertices lie on the unit sphere and
// all normals point outward.
func assertSphereGrid(t *testing.T, g *Grid) {
	var (
		_, nv = g.Vertices.Dims()
	)
	for i := 0; i < nv; i++ {
		r := math.Sqrt(g.Vertices.At(0, i)*g.Vertices.At(0, i) +
			g.Vertices.At(1, i)*g.Vertices.At(1, i) +
			g.Vertices.At(2, i)*g.Vertices.At(2, i))
		assert.True(t, near(r, 1))
	}
	for k := 0; k < g.K; k++ {
		c := g.Centroid(k)
		dot := c[0]*g.Normals.At(k, 0) + c[1]*g.Normals.At(k, 1) + c[2]*g.Normals.At(k, 2)
		assert.Greater(t, dot, 0.)
	}
}

func packVertices2(points [][2]float64) (R utils.Matrix) {
	R = utils.NewMatrix(2, len(points))
	rd := R.Data()
	for j, p := range points {
		rd[j] = p[0]
		rd[len(points)+j] = p[1]
	}
	return
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Abs(a) || math.Abs(a-b) < 1.e-10 {
		l = true
	}
	return
}
