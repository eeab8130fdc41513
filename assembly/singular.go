package assembly

import (
	"fmt"
	"sync"

	"github.com/notargets/gobem/grid"
	"github.com/notargets/gobem/utils"
)

// ElementPairWorkItem describes one touching or identical element pair
// needing specialized quadrature. Points and weights live in shared
// arena buffers addressed by the offsets, so no per-pair allocation
// happens inside the parallel loop; the point counts vary by adjacency
// class (coincident, shared edge, shared vertex).
type ElementPairWorkItem struct {
	TestElement, TrialElement int
	TestOffset, TrialOffset   int
	WeightsOffset             int
	NPoints                   int
}

// SingularInput gathers the work items and arenas of the near-field
// pass. Both elements of every pair live on the same grid: cross-grid
// pairs are never singular.
type SingularInput struct {
	Grid                                          *grid.Grid
	Items                                         []ElementPairWorkItem
	TestPoints, TrialPoints                       utils.Matrix // 2 x total reference point arenas
	Weights                                       []float64
	TestShapeset, TrialShapeset                   Shapeset
	TestNormalMultipliers, TrialNormalMultipliers []float64
	Kernel                                        Kernel
}

func (in *SingularInput) validate() (err error) {
	switch {
	case in.Grid == nil:
		err = fmt.Errorf("singular assembly requires a grid")
	case in.Kernel == nil:
		err = fmt.Errorf("singular assembly requires a kernel evaluator")
	case len(in.TestNormalMultipliers) != in.Grid.K || len(in.TrialNormalMultipliers) != in.Grid.K:
		err = fmt.Errorf("normal multiplier tables must cover every grid element")
	}
	if err != nil {
		return
	}
	var (
		_, nTest  = in.TestPoints.Dims()
		_, nTrial = in.TrialPoints.Dims()
	)
	for i, item := range in.Items {
		if item.TestOffset+item.NPoints > nTest || item.TrialOffset+item.NPoints > nTrial ||
			item.WeightsOffset+item.NPoints > len(in.Weights) {
			err = fmt.Errorf("work item %d addresses past the end of the quadrature arenas", i)
			return
		}
		if item.TestElement < 0 || item.TestElement >= in.Grid.K ||
			item.TrialElement < 0 || item.TrialElement >= in.Grid.K {
			err = fmt.Errorf("work item %d references elements (%d,%d) outside [0,%d)",
				i, item.TestElement, item.TrialElement, in.Grid.K)
			return
		}
	}
	return
}

// sliceArena copies the npoints wide window at offset out of a 2 x total
// arena into its own 2 x npoints matrix.
func sliceArena(arena utils.Matrix, offset, npoints int) (R utils.Matrix) {
	var (
		_, total = arena.Dims()
		ad       = arena.Data()
	)
	R = utils.NewMatrix(2, npoints)
	rd := R.Data()
	copy(rd[:npoints], ad[offset:offset+npoints])
	copy(rd[npoints:], ad[total+offset:total+offset+npoints])
	return
}

/*
	AssembleSingular integrates every work item independently: items are
	partitioned across parallelDegree goroutines and each item writes
	only its own flat output block, so the loop needs no synchronization.

	Output layout: index = (nshapeTest*nshapeTrial)*pairIndex +
	testBasis*nshapeTrial + trialBasis. The caller scatters these blocks
	into the global matrix using the same global-DOF and multiplier
	convention as the regular driver; the separation exists because
	singular pairs are few and are merged after both passes finish.
*/
func AssembleSingular(in SingularInput, parallelDegree int) (outRe, outIm []float64, err error) {
	if err = in.validate(); err != nil {
		return
	}
	var (
		nst = in.TestShapeset.NumberOfShapeFunctions()
		ntr = in.TrialShapeset.NumberOfShapeFunctions()
		pm  = utils.NewPartitionMap(parallelDegree, len(in.Items))
		wg  = sync.WaitGroup{}
	)
	outRe = make([]float64, nst*ntr*len(in.Items))
	if in.Kernel.IsComplex() {
		outIm = make([]float64, nst*ntr*len(in.Items))
	}
	if len(in.Items) == 0 {
		return
	}
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for index := kMin; index < kMax; index++ {
				item := in.Items[index]
				var (
					testLocal    = sliceArena(in.TestPoints, item.TestOffset, item.NPoints)
					trialLocal   = sliceArena(in.TrialPoints, item.TrialOffset, item.NPoints)
					testGlobal   = in.Grid.Local2Global(item.TestElement, testLocal)
					trialGlobal  = in.Grid.Local2Global(item.TrialElement, trialLocal)
					testValues   = in.TestShapeset.Evaluate(testLocal)
					trialValues  = in.TrialShapeset.Evaluate(trialLocal)
					testNormals  = GetNormals(in.Grid, item.NPoints, utils.Index{item.TestElement}, in.TestNormalMultipliers)
					trialNormals = GetNormals(in.Grid, item.NPoints, utils.Index{item.TrialElement}, in.TrialNormalMultipliers)
					kRe          = make([]float64, item.NPoints)
					kIm          []float64
					tvD          = testValues.Data()
					trvD         = trialValues.Data()
					intElProduct = in.Grid.IntegrationElements[item.TestElement] *
						in.Grid.IntegrationElements[item.TrialElement]
				)
				if outIm != nil {
					kIm = make([]float64, item.NPoints)
				}
				in.Kernel.Singular(testGlobal, trialGlobal, testNormals, trialNormals, kRe, kIm)
				for fi := 0; fi < nst; fi++ {
					for fj := 0; fj < ntr; fj++ {
						var sumRe, sumIm float64
						for q := 0; q < item.NPoints; q++ {
							w := in.Weights[item.WeightsOffset+q] * tvD[fi*item.NPoints+q] * trvD[fj*item.NPoints+q]
							sumRe += kRe[q] * w
							if kIm != nil {
								sumIm += kIm[q] * w
							}
						}
						ind := nst*ntr*index + fi*ntr + fj
						outRe[ind] = sumRe * intElProduct
						if outIm != nil {
							outIm[ind] = sumIm * intElProduct
						}
					}
				}
			}
		}(np)
	}
	wg.Wait()
	return
}

// AssembleHypersingularSingular is the near-field companion of
// AssembleHypersingularRegular: the kernel sum of each pair is scaled by
// the surface-curl product matrix computed once per pair.
func AssembleHypersingularSingular(in SingularInput, parallelDegree int) (outRe []float64, err error) {
	if err = in.validate(); err != nil {
		return
	}
	var (
		nst = in.TestShapeset.NumberOfShapeFunctions()
		ntr = in.TrialShapeset.NumberOfShapeFunctions()
	)
	if nst != 3 || ntr != 3 {
		err = fmt.Errorf("hypersingular assembly requires P1 spaces on both sides, got %d x %d shape functions", nst, ntr)
		return
	}
	if in.Kernel.IsComplex() {
		err = fmt.Errorf("hypersingular assembly supports only real kernels")
		return
	}
	var (
		pm = utils.NewPartitionMap(parallelDegree, len(in.Items))
		wg = sync.WaitGroup{}
	)
	outRe = make([]float64, nst*ntr*len(in.Items))
	if len(in.Items) == 0 {
		return
	}
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for index := kMin; index < kMax; index++ {
				item := in.Items[index]
				var (
					testLocal    = sliceArena(in.TestPoints, item.TestOffset, item.NPoints)
					trialLocal   = sliceArena(in.TrialPoints, item.TrialOffset, item.NPoints)
					testGlobal   = in.Grid.Local2Global(item.TestElement, testLocal)
					trialGlobal  = in.Grid.Local2Global(item.TrialElement, trialLocal)
					testNormals  = GetNormals(in.Grid, item.NPoints, utils.Index{item.TestElement}, in.TestNormalMultipliers)
					trialNormals = GetNormals(in.Grid, item.NPoints, utils.Index{item.TrialElement}, in.TrialNormalMultipliers)
					testCurl     = SurfaceCurl(in.Grid, item.TestElement, in.TestNormalMultipliers[item.TestElement])
					trialCurl    = SurfaceCurl(in.Grid, item.TrialElement, in.TrialNormalMultipliers[item.TrialElement])
					kRe          = make([]float64, item.NPoints)
					intElProduct = in.Grid.IntegrationElements[item.TestElement] *
						in.Grid.IntegrationElements[item.TrialElement]
				)
				in.Kernel.Singular(testGlobal, trialGlobal, testNormals, trialNormals, kRe, nil)
				var kernelSum float64
				for q := 0; q < item.NPoints; q++ {
					kernelSum += kRe[q] * in.Weights[item.WeightsOffset+q]
				}
				curlProduct := CurlProduct(testCurl, trialCurl)
				cpd := curlProduct.Data()
				for fi := 0; fi < nst; fi++ {
					for fj := 0; fj < ntr; fj++ {
						outRe[nst*ntr*index+fi*ntr+fj] = kernelSum * intElProduct * cpd[fi*3+fj]
					}
				}
			}
		}(np)
	}
	wg.Wait()
	return
}
