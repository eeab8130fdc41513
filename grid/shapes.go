package grid

import (
	"fmt"
	"math"

	"github.com/notargets/gobem/utils"
)

// RegularSphere approximates the unit sphere starting from an octahedron
// with 8 elements, subdividing each element into four and projecting the
// new vertices back onto the sphere at every level. The result has
// 8 * 4^level elements. Levels above 9 are refused.
func RegularSphere(level int) (g *Grid, err error) {
	if level < 0 || level > 9 {
		err = fmt.Errorf("refinement level %d outside supported range [0,9]", level)
		return
	}
	vertices := [][3]float64{
		{1, 0, 0}, {0, 1, 0}, {-1, 0, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
	}
	// Outward oriented octahedron faces
	elements := [][3]int{
		{0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4},
		{1, 0, 5}, {2, 1, 5}, {3, 2, 5}, {0, 3, 5},
	}
	for l := 0; l < level; l++ {
		vertices, elements = refineSphere(vertices, elements)
	}
	g, err = NewGrid(packVertices(vertices), elements)
	return
}

func refineSphere(vertices [][3]float64, elements [][3]int) ([][3]float64, [][3]int) {
	var (
		midpoints = make(map[[2]int]int)
		refined   = make([][3]int, 0, 4*len(elements))
	)
	midpoint := func(i1, i2 int) int {
		key := [2]int{i1, i2}
		if i2 < i1 {
			key = [2]int{i2, i1}
		}
		if idx, ok := midpoints[key]; ok {
			return idx
		}
		var m [3]float64
		for d := 0; d < 3; d++ {
			m[d] = 0.5 * (vertices[i1][d] + vertices[i2][d])
		}
		r := math.Sqrt(m[0]*m[0] + m[1]*m[1] + m[2]*m[2])
		for d := 0; d < 3; d++ {
			m[d] /= r
		}
		vertices = append(vertices, m)
		midpoints[key] = len(vertices) - 1
		return len(vertices) - 1
	}
	for _, el := range elements {
		var (
			m01 = midpoint(el[0], el[1])
			m12 = midpoint(el[1], el[2])
			m20 = midpoint(el[2], el[0])
		)
		refined = append(refined,
			[3]int{el[0], m01, m20},
			[3]int{m01, el[1], m12},
			[3]int{m20, m12, el[2]},
			[3]int{m01, m12, m20},
		)
	}
	return vertices, refined
}

// ReferenceTriangle returns a grid consisting of only the reference
// triangle with vertices (0,0,0), (1,0,0), (0,1,0).
func ReferenceTriangle() (g *Grid) {
	var err error
	g, err = NewGrid(packVertices([][3]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	}), [][3]int{{0, 1, 2}})
	if err != nil {
		panic(err)
	}
	return
}

func packVertices(vertices [][3]float64) (V utils.Matrix) {
	var (
		nv = len(vertices)
	)
	V = utils.NewMatrix(3, nv)
	vd := V.Data()
	for i, v := range vertices {
		for d := 0; d < 3; d++ {
			vd[d*nv+i] = v[d]
		}
	}
	return
}
