/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"runtime"
	"time"

	"github.com/notargets/gobem/InputParameters"
	"github.com/notargets/gobem/grid"
	"github.com/notargets/gobem/operators"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

type AssembleRun struct {
	CaseFile       string
	ParallelDegree int
	Profile        bool
}

// assembleCmd represents the assemble command
var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble the Galerkin matrix of a boundary operator",
	Long: `
Reads a YAML case file describing the surface, the operator and the
quadrature orders, assembles the Galerkin matrix and optionally writes
it in gonum binary form,

gobem assemble -F case.yaml `,
	Run: func(cmd *cobra.Command, args []string) {
		ar := &AssembleRun{}
		ar.CaseFile, _ = cmd.Flags().GetString("caseFile")
		ar.ParallelDegree, _ = cmd.Flags().GetInt("nprocs")
		ar.Profile, _ = cmd.Flags().GetBool("profile")
		if len(ar.CaseFile) == 0 {
			fmt.Println("Must provide a case file with -F")
			os.Exit(1)
		}
		if ar.Profile {
			defer profile.Start().Stop()
		}
		RunAssemble(ar)
	},
}

func init() {
	rootCmd.AddCommand(assembleCmd)
	assembleCmd.Flags().StringP("caseFile", "F", "", "YAML case file defining the run")
	assembleCmd.Flags().IntP("nprocs", "p", runtime.NumCPU(), "number of parallel goroutines for assembly")
	assembleCmd.Flags().Bool("profile", false, "generate a runtime profile of the assembly")
}

func RunAssemble(ar *AssembleRun) {
	var (
		cp  = &InputParameters.CaseParameters{}
		err error
	)
	data, err := ioutil.ReadFile(ar.CaseFile)
	if err != nil {
		fmt.Printf("Error reading case file: %v\n", err)
		os.Exit(1)
	}
	if err = cp.Parse(data); err != nil {
		fmt.Printf("Error parsing case file: %v\n", err)
		os.Exit(1)
	}
	cp.Print()
	g, err := buildGrid(cp)
	if err != nil {
		fmt.Printf("Error building grid: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Grid: %d vertices, %d elements\n", g.NumberOfVertices(), g.K)
	if err = assembleCase(cp, g, ar.ParallelDegree); err != nil {
		fmt.Printf("Error assembling operator: %v\n", err)
		os.Exit(1)
	}
}

func buildGrid(cp *InputParameters.CaseParameters) (g *grid.Grid, err error) {
	switch cp.Shape {
	case "sphere":
		g, err = grid.RegularSphere(cp.RefineLevel)
	case "cube":
		h := cp.ElementSize
		if h == 0 {
			h = 0.1
		}
		g, err = grid.Cube(1, [3]float64{0, 0, 0}, h)
	case "file":
		g, err = grid.ReadGmshGrid(cp.MeshFile)
	default:
		err = fmt.Errorf("unknown shape %q", cp.Shape)
	}
	return
}

func assembleCase(cp *InputParameters.CaseParameters, g *grid.Grid, nprocs int) (err error) {
	var (
		domain, dual *operators.Space
	)
	if domain, err = operators.NewSpace(cp.DomainSpace, g); err != nil {
		return
	}
	if dual, err = operators.NewSpace(cp.DualSpace, g); err != nil {
		return
	}
	if cp.Operator == "l2_identity" {
		return assembleIdentity(cp, domain, dual, nprocs)
	}
	var op *operators.BoundaryOperator
	switch cp.Operator {
	case "laplace_single_layer":
		op, err = operators.LaplaceSingleLayer(domain, dual)
	case "laplace_double_layer":
		op, err = operators.LaplaceDoubleLayer(domain, dual)
	case "laplace_adjoint_double_layer":
		op, err = operators.LaplaceAdjointDoubleLayer(domain, dual)
	case "laplace_hypersingular":
		op, err = operators.LaplaceHypersingular(domain, dual)
	case "helmholtz_single_layer":
		op, err = operators.HelmholtzSingleLayer(cp.WavenumberRe, cp.WavenumberIm, domain, dual)
	default:
		err = fmt.Errorf("unknown operator %q", cp.Operator)
	}
	if err != nil {
		return
	}
	op.RegularOrder = cp.QuadratureOrder
	op.SingularOrder = cp.SingularOrder
	op.ParallelDegree = nprocs
	start := time.Now()
	result, err := op.Assemble()
	if err != nil {
		return
	}
	fmt.Printf("Assembled %d x %d matrix in %v using %d goroutines\n",
		result.Rows, result.Cols, time.Since(start), nprocs)
	if len(cp.OutputFile) == 0 {
		return
	}
	f, err := os.Create(cp.OutputFile)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err = result.ReMatrix().M.MarshalBinaryTo(f); err != nil {
		return
	}
	if result.IsComplex() {
		var fi *os.File
		if fi, err = os.Create(cp.OutputFile + ".imag"); err != nil {
			return
		}
		defer fi.Close()
		_, err = result.ImMatrix().M.MarshalBinaryTo(fi)
	}
	return
}

func assembleIdentity(cp *InputParameters.CaseParameters, domain, dual *operators.Space, nprocs int) (err error) {
	op, err := operators.Identity(domain, dual)
	if err != nil {
		return
	}
	op.QuadratureOrder = cp.QuadratureOrder
	op.ParallelDegree = nprocs
	start := time.Now()
	R, err := op.Assemble()
	if err != nil {
		return
	}
	nr, nc := R.Dims()
	fmt.Printf("Assembled %d x %d sparse matrix with %d nonzeros in %v\n",
		nr, nc, R.NNZ(), time.Since(start))
	if len(cp.OutputFile) == 0 {
		return
	}
	f, err := os.Create(cp.OutputFile)
	if err != nil {
		return
	}
	defer f.Close()
	_, err = R.ToDense().M.MarshalBinaryTo(f)
	return
}
