package matmul

import "github.com/samcharles93/mmbench/internal/device"

// One program, two entry points: the naive element-per-item kernel and the
// tiled row-per-item kernel. Both take (N, A, B, C); the tiled kernel takes
// a group-local scratch slot for staging B columns.
const (
	ProgramVersion = "mmul-1"

	// KernelNaive computes one element of C per work item over a 2-D index
	// space of extent N×N. Overwrite semantics.
	KernelNaive = "mmul_naive"

	// KernelTiled computes one row of C per work item over a 1-D index
	// space of extent N. Accumulate semantics.
	KernelTiled = "mmul_tiled"
)

// WriteModeOf reports the output contract of a kernel entry point.
func WriteModeOf(kernel string) WriteMode {
	if kernel == KernelTiled {
		return Accumulate
	}
	return Overwrite
}

// Program returns the kernel program. It is built once per context and
// shared read-only by both strategies.
func Program() *device.Program {
	return device.NewProgram(ProgramVersion, map[string]device.KernelFunc{
		KernelNaive: naiveKernel,
		KernelTiled: tiledKernel,
	})
}

// naiveKernel: each (i, j) work item computes a full dot product and
// overwrites C[i,j]. The bounds guard makes index spaces padded to a
// work-group multiple safe.
func naiveKernel(it *device.Item, args device.Args) {
	n := args.Int(0)
	a := args.Global(1)
	b := args.Global(2)
	c := args.Global(3)

	i := it.GlobalID(0)
	j := it.GlobalID(1)
	if i >= n || j >= n {
		return
	}
	var tmp float32
	for k := 0; k < n; k++ {
		tmp += a[i*n+k] * b[k*n+j]
	}
	c[i*n+j] = tmp
}

// tiledKernel: each work item owns output row i. It caches its row of A in
// private memory once, then for every column j the group cooperatively
// stages column j of B into group-local memory, one strided slice per item,
// and synchronizes before any member may rely on the staged column. The
// accumulation itself sums privateRow[k]·B[k·N+j] and adds into C[i·N+j],
// so C must be zeroed before dispatch.
func tiledKernel(it *device.Item, args device.Args) {
	n := args.Int(0)
	a := args.Global(1)
	b := args.Global(2)
	c := args.Global(3)
	bwrk := args.Local(4)

	i := it.GlobalID(0)
	if i >= n {
		return
	}
	iloc := it.LocalID(0)
	nloc := it.LocalSize(0)

	// Private row cache, paid once per row rather than once per element.
	// Sized to the actual order instead of a fixed compile-time bound.
	arow := make([]float32, n)
	copy(arow, a[i*n:(i+1)*n])

	for j := 0; j < n; j++ {
		for k := iloc; k < n; k += nloc {
			bwrk[k] = b[k*n+j]
		}
		it.Barrier()

		var tmp float32
		for k := 0; k < n; k++ {
			tmp += arow[k] * b[k*n+j]
		}
		c[i*n+j] += tmp
	}
}
