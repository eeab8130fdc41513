package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML case file
type CaseParameters struct {
	Title           string  `yaml:"Title"`
	Shape           string  `yaml:"Shape"`       // "sphere", "cube" or "file"
	RefineLevel     int     `yaml:"RefineLevel"` // sphere refinement level
	ElementSize     float64 `yaml:"ElementSize"` // gmsh target edge length for generated shapes
	MeshFile        string  `yaml:"MeshFile"`    // MSH v2 file when Shape is "file"
	Operator        string  `yaml:"Operator"`
	WavenumberRe    float64 `yaml:"WavenumberRe"`
	WavenumberIm    float64 `yaml:"WavenumberIm"`
	QuadratureOrder int     `yaml:"QuadratureOrder"`
	SingularOrder   int     `yaml:"SingularOrder"`
	DomainSpace     string  `yaml:"DomainSpace"`
	DualSpace       string  `yaml:"DualSpace"`
	OutputFile      string  `yaml:"OutputFile"`
}

func (cp *CaseParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, cp); err != nil {
		return err
	}
	if cp.QuadratureOrder == 0 {
		cp.QuadratureOrder = 4
	}
	if cp.SingularOrder == 0 {
		cp.SingularOrder = 4
	}
	if cp.DomainSpace == "" {
		cp.DomainSpace = "P0"
	}
	if cp.DualSpace == "" {
		cp.DualSpace = cp.DomainSpace
	}
	return nil
}

func (cp *CaseParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", cp.Title)
	fmt.Printf("[%s]\t\t\t= Shape\n", cp.Shape)
	if cp.Shape == "file" {
		fmt.Printf("[%s]\t= MeshFile\n", cp.MeshFile)
	} else {
		fmt.Printf("[%d]\t\t\t\t= RefineLevel\n", cp.RefineLevel)
	}
	fmt.Printf("[%s]\t= Operator\n", cp.Operator)
	if cp.Operator == "helmholtz_single_layer" {
		fmt.Printf("%8.5f %8.5f\t= Wavenumber (Re, Im)\n", cp.WavenumberRe, cp.WavenumberIm)
	}
	fmt.Printf("[%d]\t\t\t\t= QuadratureOrder\n", cp.QuadratureOrder)
	fmt.Printf("[%d]\t\t\t\t= SingularOrder\n", cp.SingularOrder)
	fmt.Printf("[%s / %s]\t\t= Domain / Dual Spaces\n", cp.DomainSpace, cp.DualSpace)
}
