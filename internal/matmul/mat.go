// Package matmul holds the square matrix model, the host reference multiply,
// and the device program with the two matrix-multiply kernel entry points.
package matmul

// Mat is a dense square row-major float32 matrix of the given order. Data
// holds the flattened Order² values.
//
// Mat performs no bounds checking beyond Go's slice semantics;
// out-of-range indices panic.
type Mat struct {
	Order int
	Data  []float32
}

// New allocates a zero-initialized matrix of the given order.
func New(order int) Mat {
	if order < 0 {
		panic("matmul: negative matrix order")
	}
	return Mat{
		Order: order,
		Data:  make([]float32, order*order),
	}
}

// Row returns row i as a slice aliasing the matrix storage.
func (m Mat) Row(i int) []float32 {
	return m.Data[i*m.Order : (i+1)*m.Order]
}

// At returns the element at (i, j).
func (m Mat) At(i, j int) float32 { return m.Data[i*m.Order+j] }
