package matmul

// Multiply computes C = A·B with a scalar triple loop on the host. It is
// the timing and correctness baseline for the device strategies and uses
// the same float32 accumulation they do.
func Multiply(a, b, c Mat) {
	n := a.Order
	for i := 0; i < n; i++ {
		arow := a.Row(i)
		crow := c.Row(i)
		for j := 0; j < n; j++ {
			var tmp float32
			for k := 0; k < n; k++ {
				tmp += arow[k] * b.Data[k*n+j]
			}
			crow[j] = tmp
		}
	}
}
