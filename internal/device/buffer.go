package device

import "fmt"

// Buffer is a device-resident float32 array. It holds a copy of the host
// data it was created from; the host sees later kernel writes only through
// an explicit readback.
type Buffer struct {
	data []float32
}

// Len returns the element count.
func (b *Buffer) Len() int { return len(b.data) }

// CreateBuffer allocates a device buffer initialized with a copy of host.
func (c *Context) CreateBuffer(host []float32) (*Buffer, error) {
	if len(host) == 0 {
		return nil, newError(InvalidBufferSize, "create buffer")
	}
	data := make([]float32, len(host))
	copy(data, host)
	return &Buffer{data: data}, nil
}

// ReadBuffer copies buf back to dst. The read is enqueued behind every
// previously submitted command and blocks until it completes, so it observes
// all prior kernel writes.
func (c *Context) ReadBuffer(buf *Buffer, dst []float32) error {
	if buf == nil || len(dst) != len(buf.data) {
		return wrapError(InvalidValue, "read buffer", fmt.Errorf("host size %d, device size %d", len(dst), buf.Len()))
	}
	done := make(chan struct{})
	err := c.queue.enqueue(command{
		fn: func() error {
			copy(dst, buf.data)
			return nil
		},
		done: done,
	})
	if err != nil {
		return err
	}
	<-done
	return c.queue.loadErr()
}
