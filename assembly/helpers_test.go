package assembly

import (
	"testing"

	"github.com/notargets/gobem/grid"
	"github.com/notargets/gobem/utils"
	"github.com/stretchr/testify/assert"
)

func TestGetGlobalPoints(t *testing.T) {
	// Two triangles: the reference triangle and its translate by (2,0,0)
	vertices := utils.NewMatrix(3, 6, []float64{
		0, 1, 0, 2, 3, 2,
		0, 0, 1, 0, 0, 1,
		0, 0, 0, 0, 0, 0,
	})
	g, err := grid.NewGrid(vertices, [][3]int{{0, 1, 2}, {3, 4, 5}})
	assert.NoError(t, err)
	local := utils.NewMatrix(2, 2, []float64{
		0, 1,
		0, 0,
	})
	gp := GetGlobalPoints(g, utils.Index{0, 1}, local)
	_, n := gp.Dims()
	assert.Equal(t, 4, n)
	// Element-major, point-minor: element 0 points first
	assert.True(t, near(gp.At(0, 0), 0))
	assert.True(t, near(gp.At(0, 1), 1))
	assert.True(t, near(gp.At(0, 2), 2))
	assert.True(t, near(gp.At(0, 3), 3))
	assert.True(t, near(gp.At(1, 0), 0))
	assert.True(t, near(gp.At(2, 3), 0))
}

func TestGetNormals(t *testing.T) {
	vertices := utils.NewMatrix(3, 6, []float64{
		0, 1, 0, 2, 3, 2,
		0, 0, 1, 0, 0, 1,
		0, 0, 0, 0, 0, 0,
	})
	g, _ := grid.NewGrid(vertices, [][3]int{{0, 1, 2}, {3, 4, 5}})
	// Flip the second element's orientation through its multiplier
	normals := GetNormals(g, 3, utils.Index{0, 1}, []float64{1, -1})
	_, n := normals.Dims()
	assert.Equal(t, 6, n)
	for rep := 0; rep < 3; rep++ {
		assert.True(t, near(normals.At(2, rep), 1))    // element 0 replicas
		assert.True(t, near(normals.At(2, 3+rep), -1)) // element 1 replicas, flipped
		assert.True(t, near(normals.At(0, rep), 0))
		assert.True(t, near(normals.At(1, 3+rep), 0))
	}
}

func TestSurfaceCurl(t *testing.T) {
	g := grid.ReferenceTriangle()
	C := SurfaceCurl(g, 0, 1)
	// On the flat reference element n = (0,0,1) and the gradients are
	// (-1,-1,0), (1,0,0), (0,1,0); n x grad rotates them by 90 degrees
	assert.True(t, near(C.At(0, 0), 1))
	assert.True(t, near(C.At(1, 0), -1))
	assert.True(t, near(C.At(0, 1), 0))
	assert.True(t, near(C.At(1, 1), 1))
	assert.True(t, near(C.At(0, 2), -1))
	assert.True(t, near(C.At(1, 2), 0))
	for i := 0; i < 3; i++ {
		assert.True(t, near(C.At(2, i), 0))
	}
	// The curls of the three hat functions sum to zero
	for d := 0; d < 3; d++ {
		assert.True(t, near(C.At(d, 0)+C.At(d, 1)+C.At(d, 2), 0))
	}
	{ // CurlProduct is the Gram matrix of the curl columns
		P := CurlProduct(C, C)
		assert.True(t, near(P.At(0, 0), 2))
		assert.True(t, near(P.At(1, 1), 1))
		assert.True(t, near(P.At(2, 2), 1))
		assert.True(t, near(P.At(0, 1), P.At(1, 0)))
	}
}
