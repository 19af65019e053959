package matmul

import (
	"fmt"
	"math"
	"time"
)

// Tolerance returns the verification bound for an order-n multiply.
// Each output element sums n float32 products, so the accumulated rounding
// error grows with the order.
func Tolerance(order int) float64 {
	return 1e-4 * float64(order)
}

// MaxAbsDiff returns the largest absolute element-wise difference.
func MaxAbsDiff(a, b []float32) float64 {
	var maxAbs float64
	for i := range a {
		d := math.Abs(float64(a[i] - b[i]))
		if d > maxAbs {
			maxAbs = d
		}
	}
	return maxAbs
}

// Verify compares got against want within the order-scaled tolerance.
func Verify(got, want Mat) error {
	if got.Order != want.Order {
		return fmt.Errorf("order mismatch: %d vs %d", got.Order, want.Order)
	}
	tol := Tolerance(got.Order)
	if diff := MaxAbsDiff(got.Data, want.Data); diff > tol {
		return fmt.Errorf("result mismatch: max abs diff %g exceeds %g", diff, tol)
	}
	return nil
}

// MFLOPS derives the throughput figure for an order-n multiply: 2·n³
// floating point operations over the elapsed wall time.
func MFLOPS(order int, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	ops := 2 * float64(order) * float64(order) * float64(order)
	return ops / secs / 1e6
}
