package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/mmbench/internal/device"
	"github.com/samcharles93/mmbench/internal/logger"
	"github.com/samcharles93/mmbench/internal/matmul"
)

// Runner executes the three strategies in fixed order: host reference,
// naive kernel, tiled kernel. Any device-layer failure aborts the remaining
// trials; nothing is retried.
type Runner struct {
	cfg Config
	ctx *device.Context
	log logger.Logger
	out io.Writer
}

// New validates cfg and returns a runner that dispatches through ctx and
// prints trial reports to out.
func New(cfg Config, ctx *device.Context, log logger.Logger, out io.Writer) (*Runner, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("benchmark config: %w", err)
	}
	if ctx == nil {
		return nil, fmt.Errorf("benchmark config: nil device context")
	}
	if log == nil {
		log = logger.Default()
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{cfg: cfg, ctx: ctx, log: log, out: out}, nil
}

// Run performs every trial of every strategy and returns the collected
// report. On a device or verification failure the report holds the trials
// completed so far alongside the error.
func (r *Runner) Run() (*Report, error) {
	n := r.cfg.Order
	a := matmul.New(n)
	b := matmul.New(n)
	c := matmul.New(n)
	want := matmul.New(n)

	report := &Report{
		ID:      uuid.NewString(),
		Device:  r.ctx.Device().Name,
		Program: r.ctx.Program().Version(),
		Config:  r.cfg,
	}

	r.log.Info("benchmark start", "run", report.ID, "device", report.Device, "order", n, "trials", r.cfg.Trials)

	r.runReference(report, a, b, c)
	// The reference product is the verification baseline for both kernels.
	copy(want.Data, c.Data)

	if err := r.runKernel(report, kernelNaive, a, b, c, want); err != nil {
		return report, err
	}
	if err := r.runKernel(report, kernelTiled, a, b, c, want); err != nil {
		return report, err
	}
	return report, nil
}

func (r *Runner) runReference(report *Report, a, b, c matmul.Mat) {
	fmt.Fprintf(r.out, "\n===== host cpu, sequential matrix mult (dot prod), order %d =====\n", r.cfg.Order)
	for t := 0; t < r.cfg.Trials; t++ {
		matmul.Reset(a, b, c)
		start := time.Now()
		matmul.Multiply(a, b, c)
		r.record(report, StrategyReference, t, time.Since(start))
	}
	r.printAverage(report, StrategyReference)
}

// kernelSpec ties a strategy to its entry point and index-space geometry.
type kernelSpec struct {
	strategy string
	kernel   string
	header   string
}

var (
	kernelNaive = kernelSpec{
		strategy: StrategyNaive,
		kernel:   matmul.KernelNaive,
		header:   "device, matrix mult, C(i,j) per work item",
	}
	kernelTiled = kernelSpec{
		strategy: StrategyTiled,
		kernel:   matmul.KernelTiled,
		header:   "device, tiled matrix mult, C row per work item, A row private, B column local",
	}
)

func (r *Runner) runKernel(report *Report, spec kernelSpec, a, b, c, want matmul.Mat) error {
	n := r.cfg.Order
	fmt.Fprintf(r.out, "\n===== %s, order %d =====\n", spec.header, n)

	for t := 0; t < r.cfg.Trials; t++ {
		// Setup: canonical pre-trial state, fresh device mirrors. The tiled
		// kernel accumulates into C, so the zeroed C must reach the device
		// every trial.
		matmul.Reset(a, b, c)
		da, db, dc, err := r.upload(a, b, c)
		if err == nil {
			err = r.runTrial(report, spec, t, da, db, dc, c)
		}
		if err != nil {
			return fmt.Errorf("%s trial %d: %w", spec.strategy, t+1, err)
		}
		if err := matmul.Verify(c, want); err != nil {
			return fmt.Errorf("%s trial %d: %w", spec.strategy, t+1, err)
		}
	}
	r.printAverage(report, spec.strategy)
	return nil
}

func (r *Runner) printAverage(report *Report, strategy string) {
	trials := report.StrategyTrials(strategy)
	if len(trials) == 0 {
		return
	}
	var elapsed time.Duration
	for _, trial := range trials {
		elapsed += trial.Elapsed
	}
	mean := elapsed / time.Duration(len(trials))
	fmt.Fprintf(r.out, " average: %10.4f s at %10.1f MFLOPS\n",
		mean.Seconds(), matmul.MFLOPS(r.cfg.Order, mean))
}

func (r *Runner) upload(a, b, c matmul.Mat) (da, db, dc *device.Buffer, err error) {
	if da, err = r.ctx.CreateBuffer(a.Data); err != nil {
		return nil, nil, nil, err
	}
	if db, err = r.ctx.CreateBuffer(b.Data); err != nil {
		return nil, nil, nil, err
	}
	if dc, err = r.ctx.CreateBuffer(c.Data); err != nil {
		return nil, nil, nil, err
	}
	return da, db, dc, nil
}

func (r *Runner) runTrial(report *Report, spec kernelSpec, t int, da, db, dc *device.Buffer, c matmul.Mat) error {
	n := r.cfg.Order

	start := time.Now()
	var err error
	switch spec.strategy {
	case StrategyNaive:
		// One work item per output element; the work group shape is left to
		// the runtime.
		err = r.ctx.EnqueueKernel(spec.kernel,
			device.Range2D(n, n), device.NDRange{},
			device.IntArg(n), da, db, dc)
	case StrategyTiled:
		// One work item per output row, fixed group size, plus an N-element
		// group-local staging slot for B columns.
		local := r.cfg.TiledLocalSize(r.ctx.Device().MaxGroupSize)
		err = r.ctx.EnqueueKernel(spec.kernel,
			device.Range1D(n), device.Range1D(local),
			device.IntArg(n), da, db, dc, device.LocalArg{Size: n})
	default:
		err = fmt.Errorf("unknown strategy %q", spec.strategy)
	}
	if err != nil {
		return err
	}

	// Drain: async submit, sync wait. Timing covers dispatch and execution,
	// matching the host reference's measured span.
	if err := r.ctx.Finish(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := r.ctx.ReadBuffer(dc, c.Data); err != nil {
		return err
	}
	r.record(report, spec.strategy, t, elapsed)
	return nil
}

func (r *Runner) record(report *Report, strategy string, t int, elapsed time.Duration) {
	trial := Trial{
		Strategy: strategy,
		Trial:    t + 1,
		Order:    r.cfg.Order,
		Elapsed:  elapsed,
		MFLOPS:   matmul.MFLOPS(r.cfg.Order, elapsed),
	}
	report.Trials = append(report.Trials, trial)
	fmt.Fprintf(r.out, " trial %d: %10.4f s at %10.1f MFLOPS\n", trial.Trial, elapsed.Seconds(), trial.MFLOPS)
	r.log.Debug("trial complete", "strategy", strategy, "trial", trial.Trial, "elapsed", elapsed)
}
