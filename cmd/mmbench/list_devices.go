package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mmbench/internal/device"
)

func listDevicesCmd() *cli.Command {
	return &cli.Command{
		Name:    "list-devices",
		Aliases: []string{"ls", "devices"},
		Usage:   "List available compute devices",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			devs := device.Devices()
			for _, d := range devs {
				fmt.Printf("  %3d  %-48s %3d units  max group %4d\n",
					d.Index, d.Name, d.ComputeUnits, d.MaxGroupSize)
			}
			fmt.Printf("\n%d device(s) found\n", len(devs))
			return nil
		},
	}
}
