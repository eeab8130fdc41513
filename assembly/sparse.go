package assembly

import (
	"fmt"
	"sync"

	"github.com/notargets/gobem/grid"
	"github.com/notargets/gobem/quadrature"
	"github.com/notargets/gobem/utils"
)

// SparseInput describes a mass/identity assembly: every element
// interacts only with itself, so there is no kernel evaluator and no
// adjacency logic.
type SparseInput struct {
	Grid                        *grid.Grid
	Elements                    utils.Index
	TestShapeset, TrialShapeset Shapeset
	Rule                        quadrature.Rule
}

func (in *SparseInput) validate() (err error) {
	switch {
	case in.Grid == nil:
		err = fmt.Errorf("sparse assembly requires a grid")
	case in.Rule.NPoints == 0:
		err = fmt.Errorf("sparse assembly requires a non-empty quadrature rule")
	}
	return
}

// AssembleSparseIdentity computes the local Gram matrix of test and
// trial shape functions per element, weighted by the quadrature weights
// and the integration element. Elements are partitioned across
// parallelDegree goroutines; each element owns a disjoint slice of the
// flat output, indexed nshapeTest*nshapeTrial*elementIndex +
// testBasis*nshapeTrial + trialBasis.
func AssembleSparseIdentity(in SparseInput, parallelDegree int) (out []float64, err error) {
	if err = in.validate(); err != nil {
		return
	}
	var (
		nst       = in.TestShapeset.NumberOfShapeFunctions()
		ntr       = in.TrialShapeset.NumberOfShapeFunctions()
		nQuad     = in.Rule.NPoints
		testVals  = in.TestShapeset.Evaluate(in.Rule.Points).Data()
		trialVals = in.TrialShapeset.Evaluate(in.Rule.Points).Data()
		pm        = utils.NewPartitionMap(parallelDegree, len(in.Elements))
		wg        = sync.WaitGroup{}
	)
	out = make([]float64, nst*ntr*len(in.Elements))
	if len(in.Elements) == 0 {
		return
	}
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for index := kMin; index < kMax; index++ {
				var (
					element = in.Elements[index]
					intEl   = in.Grid.IntegrationElements[element]
				)
				for fi := 0; fi < nst; fi++ {
					for fj := 0; fj < ntr; fj++ {
						var sum float64
						for q := 0; q < nQuad; q++ {
							sum += testVals[fi*nQuad+q] * trialVals[fj*nQuad+q] * in.Rule.Weights[q]
						}
						out[nst*ntr*index+fi*ntr+fj] = sum * intEl
					}
				}
			}
		}(np)
	}
	wg.Wait()
	return
}
