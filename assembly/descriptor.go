package assembly

import (
	"fmt"
)

// AssemblyKind selects the assembly driver family. The kinds form a
// closed set resolved once at operator construction; an unknown kind is
// a configuration error raised before any numeric work starts.
type AssemblyKind int

const (
	DefaultScalar AssemblyKind = iota
	LaplaceHypersingular
	DefaultSparse
)

func (a AssemblyKind) String() string {
	switch a {
	case DefaultScalar:
		return "default_scalar"
	case LaplaceHypersingular:
		return "laplace_hypersingular"
	case DefaultSparse:
		return "default_sparse"
	}
	return fmt.Sprintf("assembly_kind(%d)", int(a))
}

func ParseAssemblyKind(s string) (a AssemblyKind, err error) {
	switch s {
	case "default_scalar":
		a = DefaultScalar
	case "laplace_hypersingular":
		a = LaplaceHypersingular
	case "default_sparse":
		a = DefaultSparse
	default:
		err = fmt.Errorf("unknown assembly kind %q", s)
	}
	return
}

// KernelKind selects the Green's function variant.
type KernelKind int

const (
	LaplaceSingleLayer KernelKind = iota
	LaplaceDoubleLayer
	LaplaceAdjointDoubleLayer
	HelmholtzSingleLayer
	L2Identity
)

func (k KernelKind) String() string {
	switch k {
	case LaplaceSingleLayer:
		return "laplace_single_layer"
	case LaplaceDoubleLayer:
		return "laplace_double_layer"
	case LaplaceAdjointDoubleLayer:
		return "laplace_adjoint_double_layer"
	case HelmholtzSingleLayer:
		return "helmholtz_single_layer"
	case L2Identity:
		return "l2_identity"
	}
	return fmt.Sprintf("kernel_kind(%d)", int(k))
}

func ParseKernelKind(s string) (k KernelKind, err error) {
	switch s {
	case "laplace_single_layer":
		k = LaplaceSingleLayer
	case "laplace_double_layer":
		k = LaplaceDoubleLayer
	case "laplace_adjoint_double_layer":
		k = LaplaceAdjointDoubleLayer
	case "helmholtz_single_layer":
		k = HelmholtzSingleLayer
	case "l2_identity":
		k = L2Identity
	default:
		err = fmt.Errorf("unknown kernel kind %q", s)
	}
	return
}

// OperatorDescriptor identifies one boundary operator: the assembly
// driver family, the kernel variant and the kernel parameters (a complex
// wavenumber packed as two reals for Helmholtz kernels). Immutable,
// constructed once per operator instance.
type OperatorDescriptor struct {
	Assembly         AssemblyKind
	Kernel           KernelKind
	KernelParameters []float64
}

// Validate checks the kind combination before any assembly starts.
func (d OperatorDescriptor) Validate() (err error) {
	switch d.Assembly {
	case DefaultScalar, LaplaceHypersingular:
		if d.Kernel == L2Identity {
			err = fmt.Errorf("kernel %v requires the %v assembler", d.Kernel, DefaultSparse)
		}
		if d.Assembly == LaplaceHypersingular && d.Kernel == HelmholtzSingleLayer {
			err = fmt.Errorf("the %v assembler supports only real Laplace kernels, got %v", LaplaceHypersingular, d.Kernel)
		}
	case DefaultSparse:
		if d.Kernel != L2Identity {
			err = fmt.Errorf("the %v assembler supports only %v kernels, got %v", DefaultSparse, L2Identity, d.Kernel)
		}
	default:
		err = fmt.Errorf("unknown assembly kind %v", d.Assembly)
	}
	if err != nil {
		return
	}
	if d.Kernel == HelmholtzSingleLayer && len(d.KernelParameters) < 2 {
		err = fmt.Errorf("%v requires a wavenumber packed as two reals, got %d parameters", d.Kernel, len(d.KernelParameters))
	}
	return
}

// NewKernel resolves the kernel evaluator for the descriptor. Resolution
// happens once, at operator construction, not per assembly call.
func (d OperatorDescriptor) NewKernel() (k Kernel, err error) {
	if err = d.Validate(); err != nil {
		return
	}
	switch d.Kernel {
	case LaplaceSingleLayer:
		k = laplaceSingleLayer{}
	case LaplaceDoubleLayer:
		k = laplaceDoubleLayer{}
	case LaplaceAdjointDoubleLayer:
		k = laplaceAdjointDoubleLayer{}
	case HelmholtzSingleLayer:
		k = helmholtzSingleLayer{kRe: d.KernelParameters[0], kIm: d.KernelParameters[1]}
	case L2Identity:
		err = fmt.Errorf("%v has no Green's function evaluator; it is assembled by the sparse driver", d.Kernel)
	default:
		err = fmt.Errorf("unknown kernel kind %v", d.Kernel)
	}
	return
}
