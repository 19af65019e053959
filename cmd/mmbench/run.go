package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mmbench/internal/bench"
	"github.com/samcharles93/mmbench/internal/device"
	"github.com/samcharles93/mmbench/internal/matmul"
)

func runCmd() *cli.Command {
	flags := append(benchFlags(), loggingFlags()...)
	flags = append(flags,
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print the report as JSON instead of trial tables",
			Destination: &jsonOut,
		},
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Run the matrix multiply benchmark",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyBenchConfig(cmd, loadConfig())
			log := newLogger()

			// An out-of-range device index is the one configuration error
			// this tool exits non-zero for. It is rejected before any
			// context exists.
			dev, err := device.Select(int(deviceIndex))
			if err != nil {
				fmt.Fprintln(os.Stderr, "invalid device index (try 'mmbench list-devices')")
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			cfg := bench.Config{
				Order:       int(order),
				Trials:      int(trials),
				DeviceIndex: int(deviceIndex),
				LocalSize:   int(localSize),
			}

			out := io.Writer(os.Stdout)
			if jsonOut {
				out = io.Discard
			} else {
				fmt.Printf("\nUsing device: %s\n", dev.Name)
			}

			dctx, err := device.NewContext(dev, matmul.Program())
			if err != nil {
				// Device-layer failures are logged with their translated
				// code and the process still exits zero: this is diagnostic
				// tooling, a failed probe is still a completed probe.
				log.Error("device error", "err", err)
				return nil
			}
			defer dctx.Release()

			runner, err := bench.New(cfg, dctx, log, out)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			report, err := runner.Run()
			if err != nil {
				log.Error("benchmark failed", "err", err)
				return nil
			}

			if jsonOut {
				if err := report.WriteJSON(os.Stdout); err != nil {
					return cli.Exit(fmt.Sprintf("error: encode report: %v", err), 1)
				}
			}
			return nil
		},
	}
}
