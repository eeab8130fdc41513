package assembly

import (
	"fmt"
	"sync"

	"github.com/notargets/gobem/grid"
	"github.com/notargets/gobem/quadrature"
	"github.com/notargets/gobem/utils"
)

/*
	RegularInput gathers everything the far-field drivers need. Per
	element arrays (global DOFs, DOF multipliers, normal multipliers) are
	indexed by global element id; TestElements/TrialElements select the
	subsets actually assembled, so an operator can target a part of a
	grid or two different grids.

	GridsIdentical enables adjacency exclusion: when test and trial grid
	are the same object, any trial element sharing a vertex with the
	current test element (including itself) is skipped here and left to
	the singular driver. Cross-grid pairs are never adjacent in this
	sense and are always integrated here.
*/
type RegularInput struct {
	TestGrid, TrialGrid                           *grid.Grid
	TestElements, TrialElements                   utils.Index
	TestShapeset, TrialShapeset                   Shapeset
	TestGlobalDofs, TrialGlobalDofs               [][]int
	TestMultipliers, TrialMultipliers             [][]float64
	TestNormalMultipliers, TrialNormalMultipliers []float64
	Rule                                          quadrature.Rule
	Kernel                                        Kernel
	GridsIdentical                                bool
}

func (in *RegularInput) validate(result *DenseResult) (err error) {
	switch {
	case in.TestGrid == nil || in.TrialGrid == nil:
		err = fmt.Errorf("regular assembly requires test and trial grids")
	case in.Kernel == nil:
		err = fmt.Errorf("regular assembly requires a kernel evaluator")
	case in.Rule.NPoints == 0:
		err = fmt.Errorf("regular assembly requires a non-empty quadrature rule")
	case len(in.TestGlobalDofs) != in.TestGrid.K || len(in.TrialGlobalDofs) != in.TrialGrid.K:
		err = fmt.Errorf("global DOF tables must cover every grid element: test %d/%d, trial %d/%d",
			len(in.TestGlobalDofs), in.TestGrid.K, len(in.TrialGlobalDofs), in.TrialGrid.K)
	case len(in.TestMultipliers) != in.TestGrid.K || len(in.TrialMultipliers) != in.TrialGrid.K:
		err = fmt.Errorf("DOF multiplier tables must cover every grid element")
	case len(in.TestNormalMultipliers) != in.TestGrid.K || len(in.TrialNormalMultipliers) != in.TrialGrid.K:
		err = fmt.Errorf("normal multiplier tables must cover every grid element")
	case in.Kernel.IsComplex() && !result.IsComplex():
		err = fmt.Errorf("complex kernel needs a complex result buffer")
	}
	return
}

// hoisted carries the trial-side quantities shared read-only by all
// workers, computed once before the parallel section.
type hoisted struct {
	nQuad, nTrial     int
	trialGlobalPoints utils.Matrix // 3 x nTrial*nQuad
	trialNormals      utils.Matrix // 3 x nTrial*nQuad
	factors           []float64    // quad weight x trial integration element
	testFunValues     utils.Matrix // nshapeTest x nQuad
	trialFunValues    utils.Matrix // nshapeTrial x nQuad
}

func hoistTrialData(in *RegularInput) (h hoisted) {
	h.nQuad = in.Rule.NPoints
	h.nTrial = len(in.TrialElements)
	h.trialGlobalPoints = GetGlobalPoints(in.TrialGrid, in.TrialElements, in.Rule.Points)
	h.trialNormals = GetNormals(in.TrialGrid, h.nQuad, in.TrialElements, in.TrialNormalMultipliers)
	h.testFunValues = in.TestShapeset.Evaluate(in.Rule.Points)
	h.trialFunValues = in.TrialShapeset.Evaluate(in.Rule.Points)
	h.factors = make([]float64, h.nTrial*h.nQuad)
	for index, element := range in.TrialElements {
		intEl := in.TrialGrid.IntegrationElements[element]
		for q := 0; q < h.nQuad; q++ {
			h.factors[index*h.nQuad+q] = in.Rule.Weights[q] * intEl
		}
	}
	return
}

func markAdjacent(in *RegularInput, testElement int, isAdjacent []bool) {
	for index, trialElement := range in.TrialElements {
		isAdjacent[index] = in.GridsIdentical &&
			in.TestGrid.ElementsAdjacent(testElement, trialElement)
	}
}

// AssembleRegular runs the default scalar far-field driver. The test
// element loop is partitioned across parallelDegree goroutines; each
// worker scatters into a private DenseResult, merged serially afterwards
// (shared-vertex bases make concurrent row writes racy otherwise).
func AssembleRegular(in RegularInput, result *DenseResult, parallelDegree int) (err error) {
	if err = in.validate(result); err != nil {
		return
	}
	var (
		h        = hoistTrialData(&in)
		nst      = in.TestShapeset.NumberOfShapeFunctions()
		ntr      = in.TrialShapeset.NumberOfShapeFunctions()
		pm       = utils.NewPartitionMap(parallelDegree, len(in.TestElements))
		acc      = make([]*DenseResult, pm.ParallelDegree)
		wg       = sync.WaitGroup{}
		complexK = in.Kernel.IsComplex()
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			acc[np] = NewDenseResult(result.Rows, result.Cols, complexK)
			var (
				kMin, kMax = pm.GetBucketRange(np)
				kRe        = make([]float64, h.nTrial*h.nQuad)
				kIm        []float64
				tmpRe      = make([]float64, h.nTrial*h.nQuad)
				tmpIm      []float64
				localRe    = make([]float64, h.nTrial*nst*ntr)
				localIm    []float64
				isAdjacent = make([]bool, h.nTrial)
				testNormal [3]float64
				testPoint  [3]float64
				testVals   = h.testFunValues.Data()
				trialVals  = h.trialFunValues.Data()
			)
			if complexK {
				kIm = make([]float64, h.nTrial*h.nQuad)
				tmpIm = make([]float64, h.nTrial*h.nQuad)
				localIm = make([]float64, h.nTrial*nst*ntr)
			}
			for i := kMin; i < kMax; i++ {
				testElement := in.TestElements[i]
				for idx := range localRe {
					localRe[idx] = 0
				}
				if complexK {
					for idx := range localIm {
						localIm[idx] = 0
					}
				}
				markAdjacent(&in, testElement, isAdjacent)
				var (
					testGlobalPoints = in.TestGrid.Local2Global(testElement, in.Rule.Points)
					tgpD             = testGlobalPoints.Data()
					gnd              = in.TestGrid.Normals.Data()
					testIntEl        = in.TestGrid.IntegrationElements[testElement]
				)
				for d := 0; d < 3; d++ {
					testNormal[d] = gnd[testElement*3+d] * in.TestNormalMultipliers[testElement]
				}
				for tq := 0; tq < h.nQuad; tq++ {
					for d := 0; d < 3; d++ {
						testPoint[d] = tgpD[d*h.nQuad+tq]
					}
					in.Kernel.Regular(testPoint[:], h.trialGlobalPoints, testNormal[:], h.trialNormals, kRe, kIm)
					wTest := in.Rule.Weights[tq] * testIntEl
					for idx := 0; idx < h.nTrial*h.nQuad; idx++ {
						tmpRe[idx] = kRe[idx] * h.factors[idx] * wTest
					}
					if complexK {
						for idx := 0; idx < h.nTrial*h.nQuad; idx++ {
							tmpIm[idx] = kIm[idx] * h.factors[idx] * wTest
						}
					}
					for trialIndex := 0; trialIndex < h.nTrial; trialIndex++ {
						if isAdjacent[trialIndex] {
							continue
						}
						for fi := 0; fi < nst; fi++ {
							testVal := testVals[fi*h.nQuad+tq]
							for fj := 0; fj < ntr; fj++ {
								var sumRe, sumIm float64
								for q := 0; q < h.nQuad; q++ {
									sumRe += tmpRe[trialIndex*h.nQuad+q] * trialVals[fj*h.nQuad+q]
								}
								if complexK {
									for q := 0; q < h.nQuad; q++ {
										sumIm += tmpIm[trialIndex*h.nQuad+q] * trialVals[fj*h.nQuad+q]
									}
								}
								ind := trialIndex*nst*ntr + fi*ntr + fj
								localRe[ind] += sumRe * testVal
								if complexK {
									localIm[ind] += sumIm * testVal
								}
							}
						}
					}
				}
				scatterLocal(&in, acc[np], testElement, localRe, localIm, nst, ntr)
			}
		}(np)
	}
	wg.Wait()
	for np := 0; np < pm.ParallelDegree; np++ {
		result.Merge(acc[np])
	}
	return
}

func scatterLocal(in *RegularInput, acc *DenseResult, testElement int, localRe, localIm []float64, nst, ntr int) {
	for trialIndex, trialElement := range in.TrialElements {
		for fi := 0; fi < nst; fi++ {
			for fj := 0; fj < ntr; fj++ {
				var (
					ind  = trialIndex*nst*ntr + fi*ntr + fj
					mult = in.TestMultipliers[testElement][fi] * in.TrialMultipliers[trialElement][fj]
					im   float64
				)
				if localIm != nil {
					im = localIm[ind] * mult
				}
				acc.Add(in.TestGlobalDofs[testElement][fi], in.TrialGlobalDofs[trialElement][fj],
					localRe[ind]*mult, im)
			}
		}
	}
}

// AssembleHypersingularRegular mirrors AssembleRegular but replaces the
// shape-function product with the inner products of precomputed surface
// curls, turning the hypersingular form into a weakly singular one.
func AssembleHypersingularRegular(in RegularInput, result *DenseResult, parallelDegree int) (err error) {
	if err = in.validate(result); err != nil {
		return
	}
	var (
		h   = hoistTrialData(&in)
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
		pm  = utils.NewPartitionMap(parallelDegree, len(in.TestElements))
		acc = make([]*DenseResult, pm.ParallelDegree)
		wg  = sync.WaitGroup{}
	)
	// Surface curls are shared read-only across workers
	trialCurls := make([]utils.Matrix, h.nTrial)
	for index, element := range in.TrialElements {
		trialCurls[index] = SurfaceCurl(in.TrialGrid, element, in.TrialNormalMultipliers[element])
	}
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			acc[np] = NewDenseResult(result.Rows, result.Cols, false)
			var (
				kMin, kMax = pm.GetBucketRange(np)
				kRe        = make([]float64, h.nTrial*h.nQuad)
				tmp        = make([]float64, h.nTrial*h.nQuad)
				local      = make([]float64, h.nTrial*nst*ntr)
				isAdjacent = make([]bool, h.nTrial)
				testNormal [3]float64
				testPoint  [3]float64
			)
			for i := kMin; i < kMax; i++ {
				testElement := in.TestElements[i]
				for idx := range local {
					local[idx] = 0
				}
				markAdjacent(&in, testElement, isAdjacent)
				var (
					testCurl         = SurfaceCurl(in.TestGrid, testElement, in.TestNormalMultipliers[testElement])
					testGlobalPoints = in.TestGrid.Local2Global(testElement, in.Rule.Points)
					tgpD             = testGlobalPoints.Data()
					gnd              = in.TestGrid.Normals.Data()
					testIntEl        = in.TestGrid.IntegrationElements[testElement]
				)
				for d := 0; d < 3; d++ {
					testNormal[d] = gnd[testElement*3+d] * in.TestNormalMultipliers[testElement]
				}
				for tq := 0; tq < h.nQuad; tq++ {
					for d := 0; d < 3; d++ {
						testPoint[d] = tgpD[d*h.nQuad+tq]
					}
					in.Kernel.Regular(testPoint[:], h.trialGlobalPoints, testNormal[:], h.trialNormals, kRe, nil)
					wTest := in.Rule.Weights[tq] * testIntEl
					for idx := 0; idx < h.nTrial*h.nQuad; idx++ {
						tmp[idx] = kRe[idx] * h.factors[idx] * wTest
					}
					for trialIndex := 0; trialIndex < h.nTrial; trialIndex++ {
						if isAdjacent[trialIndex] {
							continue
						}
						var kernelSum float64
						for q := 0; q < h.nQuad; q++ {
							kernelSum += tmp[trialIndex*h.nQuad+q]
						}
						curlProduct := CurlProduct(testCurl, trialCurls[trialIndex])
						cpd := curlProduct.Data()
						for fi := 0; fi < nst; fi++ {
							for fj := 0; fj < ntr; fj++ {
								local[trialIndex*nst*ntr+fi*ntr+fj] += kernelSum * cpd[fi*3+fj]
							}
						}
					}
				}
				scatterLocal(&in, acc[np], testElement, local, nil, nst, ntr)
			}
		}(np)
	}
	wg.Wait()
	for np := 0; np < pm.ParallelDegree; np++ {
		result.Merge(acc[np])
	}
	return
}
