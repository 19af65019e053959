package matmul

// WriteMode is a kernel's contract for the output matrix. The naive kernel
// overwrites C; the tiled kernel accumulates into it and therefore requires
// C to be zeroed before dispatch. Callers consult the mode instead of
// remembering which kernel needs the reset.
type WriteMode int

const (
	// Overwrite means the kernel stores C[i,j] = tmp; prior contents of C
	// do not influence the result.
	Overwrite WriteMode = iota
	// Accumulate means the kernel stores C[i,j] += tmp; the result is the
	// product plus whatever C held at dispatch.
	Accumulate
)

func (m WriteMode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case Accumulate:
		return "accumulate"
	default:
		return "unknown"
	}
}
