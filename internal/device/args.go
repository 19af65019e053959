package device

import "fmt"

// Arg is one kernel argument as set by the host: an integer scalar, a device
// buffer, or a request for group-local scratch memory.
type Arg interface{ isArg() }

// IntArg passes an integer scalar by value.
type IntArg int

func (IntArg) isArg() {}

func (b *Buffer) isArg() {}

// LocalArg reserves Size float32 elements of group-local memory. Each work
// group receives its own scratch slice, shared by the group's work items and
// invisible to other groups.
type LocalArg struct {
	Size int
}

func (LocalArg) isArg() {}

// Args is the argument view a kernel sees. Scalar and buffer slots are
// shared across the whole dispatch; local slots are materialized per group.
type Args struct {
	vals []any
}

// Int returns the scalar at slot i.
func (a Args) Int(i int) int {
	v, ok := a.vals[i].(int)
	if !ok {
		panic(fmt.Sprintf("kernel arg %d is not an int", i))
	}
	return v
}

// Global returns the global-memory contents of the buffer at slot i.
func (a Args) Global(i int) []float32 {
	v, ok := a.vals[i].(globalMem)
	if !ok {
		panic(fmt.Sprintf("kernel arg %d is not a buffer", i))
	}
	return v
}

// Local returns the group-local scratch slice at slot i.
func (a Args) Local(i int) []float32 {
	v, ok := a.vals[i].(localMem)
	if !ok {
		panic(fmt.Sprintf("kernel arg %d is not local memory", i))
	}
	return v
}

type (
	globalMem []float32
	localMem  []float32
)

// checkArgs validates host-side argument values at enqueue time, before the
// dispatch is submitted to the queue.
func checkArgs(args []Arg) error {
	for i, arg := range args {
		switch v := arg.(type) {
		case IntArg:
		case *Buffer:
			if v == nil || v.data == nil {
				return wrapError(InvalidKernelArgs, "set kernel arg", fmt.Errorf("arg %d: nil buffer", i))
			}
		case LocalArg:
			if v.Size <= 0 {
				return wrapError(InvalidKernelArgs, "set kernel arg", fmt.Errorf("arg %d: local size %d", i, v.Size))
			}
		default:
			return wrapError(InvalidKernelArgs, "set kernel arg", fmt.Errorf("arg %d: unsupported type %T", i, arg))
		}
	}
	return nil
}

// resolveArgs produces the per-group argument view. Local slots allocate a
// fresh scratch slice for the group; everything else aliases dispatch-wide
// state.
func resolveArgs(args []Arg) Args {
	vals := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case IntArg:
			vals[i] = int(v)
		case *Buffer:
			vals[i] = globalMem(v.data)
		case LocalArg:
			vals[i] = localMem(make([]float32, v.Size))
		}
	}
	return Args{vals: vals}
}
