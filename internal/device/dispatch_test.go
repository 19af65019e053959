package device

import (
	"errors"
	"testing"
)

func newTestContext(t *testing.T, entries map[string]KernelFunc) *Context {
	t.Helper()
	dev, err := Select(0)
	if err != nil {
		t.Fatalf("select device: %v", err)
	}
	ctx, err := NewContext(dev, NewProgram("test-1", entries))
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	t.Cleanup(ctx.Release)
	return ctx
}

func TestProgramBuildValidation(t *testing.T) {
	t.Parallel()

	dev, err := Select(0)
	if err != nil {
		t.Fatalf("select device: %v", err)
	}

	_, err = NewContext(dev, NewProgram("empty", nil))
	if codeOf(t, err) != BuildProgramFailure {
		t.Fatalf("expected BuildProgramFailure, got %v", err)
	}

	_, err = NewContext(dev, NewProgram("nilbody", map[string]KernelFunc{"k": nil}))
	if codeOf(t, err) != BuildProgramFailure {
		t.Fatalf("expected BuildProgramFailure for nil body, got %v", err)
	}
}

func TestUnknownKernelName(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, map[string]KernelFunc{
		"noop": func(it *Item, args Args) {},
	})
	err := ctx.EnqueueKernel("missing", Range1D(1), NDRange{})
	if codeOf(t, err) != InvalidKernelName {
		t.Fatalf("expected InvalidKernelName, got %v", err)
	}
}

func TestDispatchPadsGlobalToWholeGroups(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, map[string]KernelFunc{
		"mark": func(it *Item, args Args) {
			out := args.Global(0)
			id := it.GlobalID(0)
			if id < len(out) {
				out[id] = 1
			}
		},
	})

	// Global extent 5 with explicit local 4 pads to 8 work items.
	buf, err := ctx.CreateBuffer(make([]float32, 8))
	if err != nil {
		t.Fatalf("create buffer: %v", err)
	}
	if err := ctx.EnqueueKernel("mark", Range1D(5), Range1D(4), buf); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := ctx.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	got := make([]float32, 8)
	if err := ctx.ReadBuffer(buf, got); err != nil {
		t.Fatalf("read buffer: %v", err)
	}
	for i, v := range got {
		if v != 1 {
			t.Errorf("work item %d did not run (padded dispatch)", i)
		}
	}
}

func TestRuntimeLocalCoversExactExtent(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, map[string]KernelFunc{
		"mark2d": func(it *Item, args Args) {
			out := args.Global(1)
			n := args.Int(0)
			i, j := it.GlobalID(0), it.GlobalID(1)
			if i < n && j < n {
				out[i*n+j] += 1
			}
		},
	})

	const n = 5
	buf, err := ctx.CreateBuffer(make([]float32, n*n))
	if err != nil {
		t.Fatalf("create buffer: %v", err)
	}
	if err := ctx.EnqueueKernel("mark2d", Range2D(n, n), NDRange{}, IntArg(n), buf); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := ctx.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	got := make([]float32, n*n)
	if err := ctx.ReadBuffer(buf, got); err != nil {
		t.Fatalf("read buffer: %v", err)
	}
	for i, v := range got {
		if v != 1 {
			t.Errorf("cell %d visited %v times, want exactly 1", i, v)
		}
	}
}

func TestBarrierSynchronizesGroup(t *testing.T) {
	t.Parallel()

	const groupSize = 8
	ctx := newTestContext(t, map[string]KernelFunc{
		// Every item publishes into local memory, the group synchronizes,
		// then every item sums the whole staging area. Without the barrier
		// the sums would observe partially written scratch.
		"stage": func(it *Item, args Args) {
			out := args.Global(0)
			scratch := args.Local(1)
			lid := it.LocalID(0)
			scratch[lid] = float32(lid + 1)
			it.Barrier()
			var sum float32
			for _, v := range scratch {
				sum += v
			}
			out[it.GlobalID(0)] = sum
		},
	})

	buf, err := ctx.CreateBuffer(make([]float32, groupSize*2))
	if err != nil {
		t.Fatalf("create buffer: %v", err)
	}
	err = ctx.EnqueueKernel("stage", Range1D(groupSize*2), Range1D(groupSize),
		buf, LocalArg{Size: groupSize})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := ctx.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	got := make([]float32, groupSize*2)
	if err := ctx.ReadBuffer(buf, got); err != nil {
		t.Fatalf("read buffer: %v", err)
	}
	// 1+2+...+8 per group.
	const want = groupSize * (groupSize + 1) / 2
	for i, v := range got {
		if v != want {
			t.Errorf("item %d saw partial scratch: sum %v, want %v", i, v, want)
		}
	}
}

func TestBarrierToleratesEarlyReturns(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, map[string]KernelFunc{
		// Items beyond the data extent return before the barrier; the rest
		// of the group must still rendezvous and finish.
		"guarded": func(it *Item, args Args) {
			n := args.Int(0)
			out := args.Global(1)
			id := it.GlobalID(0)
			if id >= n {
				return
			}
			it.Barrier()
			out[id] = 1
		},
	})

	const n = 5
	buf, err := ctx.CreateBuffer(make([]float32, n))
	if err != nil {
		t.Fatalf("create buffer: %v", err)
	}
	if err := ctx.EnqueueKernel("guarded", Range1D(n), Range1D(8), IntArg(n), buf); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := ctx.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	got := make([]float32, n)
	if err := ctx.ReadBuffer(buf, got); err != nil {
		t.Fatalf("read buffer: %v", err)
	}
	for i, v := range got {
		if v != 1 {
			t.Errorf("item %d wedged behind the barrier", i)
		}
	}
}

func TestLocalSizeExceedsDeviceLimit(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, map[string]KernelFunc{
		"noop": func(it *Item, args Args) {},
	})
	err := ctx.EnqueueKernel("noop", Range1D(4096), Range1D(2048))
	if codeOf(t, err) != InvalidWorkGroupSize {
		t.Fatalf("expected InvalidWorkGroupSize, got %v", err)
	}
}

func TestKernelArgValidation(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, map[string]KernelFunc{
		"noop": func(it *Item, args Args) {},
	})

	err := ctx.EnqueueKernel("noop", Range1D(1), NDRange{}, (*Buffer)(nil))
	if codeOf(t, err) != InvalidKernelArgs {
		t.Fatalf("expected InvalidKernelArgs for nil buffer, got %v", err)
	}

	err = ctx.EnqueueKernel("noop", Range1D(1), NDRange{}, LocalArg{Size: 0})
	if codeOf(t, err) != InvalidKernelArgs {
		t.Fatalf("expected InvalidKernelArgs for empty local, got %v", err)
	}
}

func TestQueueLatchesFirstErrorAndSkipsRest(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, map[string]KernelFunc{
		"explode": func(it *Item, args Args) {
			out := args.Global(0)
			out[len(out)] = 1 // deliberate out-of-range panic
		},
		"mark": func(it *Item, args Args) {
			args.Global(0)[it.GlobalID(0)] = 1
		},
	})

	buf, err := ctx.CreateBuffer(make([]float32, 4))
	if err != nil {
		t.Fatalf("create buffer: %v", err)
	}
	if err := ctx.EnqueueKernel("explode", Range1D(1), NDRange{}, buf); err != nil {
		t.Fatalf("enqueue explode: %v", err)
	}
	if err := ctx.EnqueueKernel("mark", Range1D(4), NDRange{}, buf); err != nil {
		t.Fatalf("enqueue mark: %v", err)
	}

	err = ctx.Finish()
	if codeOf(t, err) != ExecFailure {
		t.Fatalf("expected ExecFailure, got %v", err)
	}

	// The second launch must not have run: the queue latched the failure.
	dst := make([]float32, 4)
	if readErr := ctx.ReadBuffer(buf, dst); readErr == nil {
		t.Fatal("expected latched error from ReadBuffer after failure")
	}
	for i, v := range buf.data {
		if v != 0 {
			t.Errorf("buffer cell %d written after latched failure: %v", i, v)
		}
	}
}

func TestReadBufferSizeMismatch(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, map[string]KernelFunc{
		"noop": func(it *Item, args Args) {},
	})
	buf, err := ctx.CreateBuffer(make([]float32, 4))
	if err != nil {
		t.Fatalf("create buffer: %v", err)
	}
	err = ctx.ReadBuffer(buf, make([]float32, 3))
	if codeOf(t, err) != InvalidValue {
		t.Fatalf("expected InvalidValue, got %v", err)
	}
}

func TestCreateBufferRejectsEmpty(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, map[string]KernelFunc{
		"noop": func(it *Item, args Args) {},
	})
	_, err := ctx.CreateBuffer(nil)
	if codeOf(t, err) != InvalidBufferSize {
		t.Fatalf("expected InvalidBufferSize, got %v", err)
	}
}

func TestEnqueueAfterRelease(t *testing.T) {
	t.Parallel()

	dev, err := Select(0)
	if err != nil {
		t.Fatalf("select device: %v", err)
	}
	ctx, err := NewContext(dev, NewProgram("test-1", map[string]KernelFunc{
		"noop": func(it *Item, args Args) {},
	}))
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	ctx.Release()
	ctx.Release() // second release is a no-op

	err = ctx.EnqueueKernel("noop", Range1D(1), NDRange{})
	if codeOf(t, err) != InvalidCommandQueue {
		t.Fatalf("expected InvalidCommandQueue, got %v", err)
	}
}

func TestItemIDsBeyondRank(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, map[string]KernelFunc{
		"probe": func(it *Item, args Args) {
			out := args.Global(0)
			// A 1-D dispatch reports zero position and unit size in dim 1.
			out[0] = float32(it.GlobalID(1))
			out[1] = float32(it.LocalSize(1))
		},
	})
	buf, err := ctx.CreateBuffer(make([]float32, 2))
	if err != nil {
		t.Fatalf("create buffer: %v", err)
	}
	if err := ctx.EnqueueKernel("probe", Range1D(1), NDRange{}, buf); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := ctx.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	got := make([]float32, 2)
	if err := ctx.ReadBuffer(buf, got); err != nil {
		t.Fatalf("read buffer: %v", err)
	}
	if got[0] != 0 || got[1] != 1 {
		t.Fatalf("beyond-rank ids = (%v, %v), want (0, 1)", got[0], got[1])
	}
}

func TestSerialDeviceRunsSameDispatch(t *testing.T) {
	t.Parallel()

	devs := Devices()
	serial := devs[len(devs)-1]
	ctx, err := NewContext(serial, NewProgram("test-1", map[string]KernelFunc{
		"mark": func(it *Item, args Args) {
			args.Global(0)[it.GlobalID(0)] = 1
		},
	}))
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	defer ctx.Release()

	buf, err := ctx.CreateBuffer(make([]float32, 16))
	if err != nil {
		t.Fatalf("create buffer: %v", err)
	}
	if err := ctx.EnqueueKernel("mark", Range1D(16), Range1D(4), buf); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := ctx.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	got := make([]float32, 16)
	if err := ctx.ReadBuffer(buf, got); err != nil {
		t.Fatalf("read buffer: %v", err)
	}
	for i, v := range got {
		if v != 1 {
			t.Errorf("serial device skipped item %d", i)
		}
	}
}

func TestFinishIsReusable(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, map[string]KernelFunc{
		"noop": func(it *Item, args Args) {},
	})
	for i := 0; i < 3; i++ {
		if err := ctx.EnqueueKernel("noop", Range1D(8), NDRange{}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
		if err := ctx.Finish(); err != nil {
			t.Fatalf("finish %d: %v", i, err)
		}
	}
}

func TestErrorsUnwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	err := wrapError(ExecFailure, "kernel", inner)
	if !errors.Is(err, inner) {
		t.Fatal("expected wrapped error to unwrap")
	}
}
