package grid

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const squareMsh = `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
4
1 0 0 0
2 1 0 0
3 0 1 0
4 1 1 0
$EndNodes
$Elements
5
1 15 2 0 1 1
2 1 2 0 1 1 2
3 2 2 7 1 1 2 3
4 2 2 7 1 2 4 3
5 1 2 0 2 3 4
$EndElements
`

func TestReadGmshGrid(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "square.msh")
	assert.NoError(t, ioutil.WriteFile(fname, []byte(squareMsh), 0644))
	g, err := ReadGmshGrid(fname)
	assert.NoError(t, err)
	// Point and line elements are skipped, the two triangles kept
	assert.Equal(t, 2, g.K)
	assert.Equal(t, 4, g.NumberOfVertices())
	assert.Equal(t, [3]int{0, 1, 2}, g.Elements[0])
	assert.Equal(t, [3]int{1, 3, 2}, g.Elements[1])
	// Physical tags become domain indices
	assert.Equal(t, []int{7, 7}, g.DomainIndices)
	// Total area of the unit square
	assert.True(t, near(g.IntegrationElements[0]/2.+g.IntegrationElements[1]/2., 1))
}

func TestReadGmshGridErrors(t *testing.T) {
	{ // missing file
		_, err := ReadGmshGrid(filepath.Join(t.TempDir(), "nope.msh"))
		assert.Error(t, err)
	}
	{ // no triangles
		fname := filepath.Join(t.TempDir(), "empty.msh")
		assert.NoError(t, ioutil.WriteFile(fname, []byte("$Nodes\n1\n1 0 0 0\n$EndNodes\n$Elements\n0\n$EndElements\n"), 0644))
		_, err := ReadGmshGrid(fname)
		assert.Error(t, err)
	}
	{ // element referencing an unknown node
		fname := filepath.Join(t.TempDir(), "badref.msh")
		bad := "$Nodes\n3\n1 0 0 0\n2 1 0 0\n3 0 1 0\n$EndNodes\n$Elements\n1\n1 2 2 0 1 1 2 9\n$EndElements\n"
		assert.NoError(t, ioutil.WriteFile(fname, []byte(bad), 0644))
		_, err := ReadGmshGrid(fname)
		assert.Error(t, err)
	}
}
