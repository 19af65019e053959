package device

import (
	"fmt"
	"sync"
)

const maxDims = 2

// NDRange describes a 1-D or 2-D index space extent. The zero value means
// "unspecified" and is only meaningful as a local size, where it leaves the
// work group shape to the runtime.
type NDRange struct {
	dims int
	size [maxDims]int
}

// Range1D returns a one-dimensional extent.
func Range1D(x int) NDRange { return NDRange{dims: 1, size: [maxDims]int{x, 1}} }

// Range2D returns a two-dimensional extent.
func Range2D(x, y int) NDRange { return NDRange{dims: 2, size: [maxDims]int{x, y}} }

// Dims returns the rank, zero for the unspecified range.
func (r NDRange) Dims() int { return r.dims }

// Size returns the extent along dim.
func (r NDRange) Size(dim int) int {
	if dim < 0 || dim >= r.dims {
		return 1
	}
	return r.size[dim]
}

// Runtime-chosen work group shapes, used when the host passes an
// unspecified local range. Kernels must bounds-guard: the global extent is
// padded up to a multiple of the group shape.
var defaultLocal = map[int][maxDims]int{
	1: {64, 1},
	2: {8, 8},
}

type dispatch struct {
	fn     KernelFunc
	name   string
	dims   int
	global [maxDims]int
	local  [maxDims]int
	args   []Arg
	units  int
}

func (c *Context) prepare(name string, global, local NDRange, args []Arg) (*dispatch, error) {
	fn, err := c.prog.kernel(name)
	if err != nil {
		return nil, err
	}
	if global.Dims() < 1 || global.Dims() > maxDims {
		return nil, wrapError(InvalidWorkDimension, "enqueue kernel", fmt.Errorf("global rank %d", global.Dims()))
	}
	d := &dispatch{fn: fn, name: name, dims: global.Dims(), units: c.dev.ComputeUnits}
	for dim := 0; dim < d.dims; dim++ {
		if global.Size(dim) < 1 {
			return nil, wrapError(InvalidValue, "enqueue kernel", fmt.Errorf("global extent %d in dim %d", global.Size(dim), dim))
		}
		d.global[dim] = global.Size(dim)
	}

	switch local.Dims() {
	case 0:
		d.local = defaultLocal[d.dims]
		for dim := 0; dim < d.dims; dim++ {
			// A runtime-chosen group never outgrows the global extent. An
			// explicit local size is taken as given and the global extent is
			// padded up to whole groups instead.
			if d.local[dim] > d.global[dim] {
				d.local[dim] = d.global[dim]
			}
		}
	case d.dims:
		for dim := 0; dim < d.dims; dim++ {
			if local.Size(dim) < 1 {
				return nil, wrapError(InvalidWorkGroupSize, "enqueue kernel", fmt.Errorf("local extent %d in dim %d", local.Size(dim), dim))
			}
			d.local[dim] = local.Size(dim)
		}
	default:
		return nil, wrapError(InvalidWorkGroupSize, "enqueue kernel", fmt.Errorf("local rank %d for global rank %d", local.Dims(), d.dims))
	}
	for dim := d.dims; dim < maxDims; dim++ {
		d.local[dim] = 1
	}

	groupItems := 1
	for dim := 0; dim < d.dims; dim++ {
		groupItems *= d.local[dim]
	}
	if groupItems > c.dev.MaxGroupSize {
		return nil, wrapError(InvalidWorkGroupSize, "enqueue kernel",
			fmt.Errorf("%d work items per group, device limit %d", groupItems, c.dev.MaxGroupSize))
	}
	if err := checkArgs(args); err != nil {
		return nil, err
	}
	d.args = args
	return d, nil
}

// run executes the dispatch: the global extent is padded to whole work
// groups, groups run concurrently up to the device's compute unit count, and
// each group's work items run as concurrent goroutines sharing a barrier.
func (d *dispatch) run() error {
	var groups [maxDims]int
	total := 1
	for dim := 0; dim < maxDims; dim++ {
		groups[dim] = (d.global[dim] + d.local[dim] - 1) / d.local[dim]
		if groups[dim] < 1 {
			groups[dim] = 1
		}
		total *= groups[dim]
	}

	sem := make(chan struct{}, d.units)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for gy := 0; gy < groups[1]; gy++ {
		for gx := 0; gx < groups[0]; gx++ {
			gid := [maxDims]int{gx, gy}
			sem <- struct{}{}
			wg.Add(1)
			go func(gid [maxDims]int) {
				defer wg.Done()
				defer func() { <-sem }()
				if err := d.runGroup(gid); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}(gid)
		}
	}
	wg.Wait()
	return firstErr
}

func (d *dispatch) runGroup(gid [maxDims]int) error {
	items := d.local[0] * d.local[1]
	bar := newBarrier(items)
	args := resolveArgs(d.args)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for ly := 0; ly < d.local[1]; ly++ {
		for lx := 0; lx < d.local[0]; lx++ {
			it := &Item{
				dims:      d.dims,
				local:     [maxDims]int{lx, ly},
				group:     gid,
				localSize: d.local,
				bar:       bar,
			}
			it.global = [maxDims]int{
				gid[0]*d.local[0] + lx,
				gid[1]*d.local[1] + ly,
			}
			wg.Add(1)
			go func(it *Item) {
				defer wg.Done()
				defer bar.leave()
				defer func() {
					if rec := recover(); rec != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = execError(d.name, rec)
						}
						mu.Unlock()
					}
				}()
				d.fn(it, args)
			}(it)
		}
	}
	wg.Wait()
	return firstErr
}
