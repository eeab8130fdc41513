package grid

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const cubeStub = `
Point(1) = {orig0,orig1,orig2,cl};
Point(2) = {orig0+l,orig1,orig2,cl};
Point(3) = {orig0+l,orig1+l,orig2,cl};
Point(4) = {orig0,orig1+l,orig2,cl};
Point(5) = {orig0,orig1,orig2+l,cl};
Point(6) = {orig0+l,orig1,orig2+l,cl};
Point(7) = {orig0+l,orig1+l,orig2+l,cl};
Point(8) = {orig0,orig1+l,orig2+l,cl};

Line(1) = {1,2};
Line(2) = {2,3};
Line(3) = {3,4};
Line(4) = {4,1};
Line(5) = {1,5};
Line(6) = {2,6};
Line(7) = {3,7};
Line(8) = {4,8};
Line(9) = {5,6};
Line(10) = {6,7};
Line(11) = {7,8};
Line(12) = {8,5};

Line Loop(1) = {-1,-4,-3,-2};
Line Loop(2) = {1,6,-9,-5};
Line Loop(3) = {2,7,-10,-6};
Line Loop(4) = {3,8,-11,-7};
Line Loop(5) = {4,5,-12,-8};
Line Loop(6) = {9,10,11,12};

Plane Surface(1) = {1};
Plane Surface(2) = {2};
Plane Surface(3) = {3};
Plane Surface(4) = {4};
Plane Surface(5) = {5};
Plane Surface(6) = {6};

Physical Surface(1) = {1};
Physical Surface(2) = {2};
Physical Surface(3) = {3};
Physical Surface(4) = {4};
Physical Surface(5) = {5};
Physical Surface(6) = {6};

Mesh.Algorithm = 6;
`

// Cube meshes the surface of a cube with side length, bottom corner origin
// and target element size h by invoking the external gmsh generator. A
// failure of the generator is reported verbatim; no retry is attempted
// since this layer has no visibility into why meshing failed.
func Cube(length float64, origin [3]float64, h float64) (g *Grid, err error) {
	geometry := fmt.Sprintf("l = %v;\norig0 = %v;\norig1 = %v;\norig2 = %v;\ncl = %v;\n%s",
		length, origin[0], origin[1], origin[2], h, cubeStub)
	return generateGridFromGeoString(geometry)
}

func generateGridFromGeoString(geometry string) (g *Grid, err error) {
	var (
		dir string
	)
	if dir, err = os.MkdirTemp("", "gobem-gmsh"); err != nil {
		return
	}
	defer os.RemoveAll(dir)
	var (
		geoName = filepath.Join(dir, "shape.geo")
		mshName = filepath.Join(dir, "shape.msh")
	)
	if err = os.WriteFile(geoName, []byte(geometry), 0644); err != nil {
		return
	}
	cmd := exec.Command("gmsh", "-2", "-format", "msh2", "-o", mshName, geoName)
	if out, runErr := cmd.CombinedOutput(); runErr != nil {
		err = fmt.Errorf("gmsh failed: %v\n%s", runErr, strings.TrimSpace(string(out)))
		return
	}
	g, err = ReadGmshGrid(mshName)
	return
}
