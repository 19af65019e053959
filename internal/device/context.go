package device

// Context binds exactly one device to a command queue and a built program.
// It is created once per process run; every strategy dispatches through the
// same queue, one command at a time.
type Context struct {
	dev   Device
	queue *queue
	prog  *Program
}

// NewContext builds prog against dev and returns a ready context. Building
// validates every entry point once; dispatches only look kernels up by name.
func NewContext(dev Device, prog *Program) (*Context, error) {
	if prog == nil {
		return nil, newError(BuildProgramFailure, "build program")
	}
	if err := prog.build(); err != nil {
		return nil, err
	}
	return &Context{dev: dev, queue: newQueue(), prog: prog}, nil
}

// Device returns the bound device.
func (c *Context) Device() Device { return c.dev }

// Program returns the built program.
func (c *Context) Program() *Program { return c.prog }

// EnqueueKernel submits a kernel launch over the global index space and
// returns without waiting for execution. Passing the zero NDRange as local
// leaves the work group shape to the runtime. Validation errors surface
// here; execution errors latch on the queue and surface from Finish or
// ReadBuffer.
func (c *Context) EnqueueKernel(name string, global, local NDRange, args ...Arg) error {
	d, err := c.prepare(name, global, local, args)
	if err != nil {
		return err
	}
	return c.queue.enqueue(command{fn: d.run})
}

// Finish blocks until all submitted commands have completed and returns the
// first error any of them produced.
func (c *Context) Finish() error {
	return c.queue.finish()
}

// Release tears down the command queue. The context is unusable afterwards.
func (c *Context) Release() {
	c.queue.release()
}
