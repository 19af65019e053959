package matmul

// Fill loads A and B with the benchmark's deterministic input pattern. The
// values are a pure function of (i, j), so repeated calls are bit-identical
// and every strategy starts a trial from the same operands. The pattern
// avoids uniform values so a wrong multiply cannot accidentally verify.
func Fill(a, b Mat) {
	n := a.Order
	for i := 0; i < n; i++ {
		arow := a.Row(i)
		brow := b.Row(i)
		for j := 0; j < n; j++ {
			arow[j] = float32((i+j)%9+1) * 0.25
			brow[j] = float32((3*i+2*j)%7+1) * 0.5
		}
	}
}

// Zero clears every element of c. The tiled kernel accumulates into C, so
// the harness zeroes it before every trial regardless of strategy.
func Zero(c Mat) {
	clear(c.Data)
}

// Reset restores the canonical pre-trial state: A and B filled with the
// input pattern, C zeroed.
func Reset(a, b, c Mat) {
	Fill(a, b)
	Zero(c)
}
