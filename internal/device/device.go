// Package device implements a simulated data-parallel compute device with an
// execution model mirroring accelerator runtimes: a host enumerates devices,
// builds a program of named kernels against a context, uploads buffers,
// enqueues kernels over an N-dimensional index space on a sequential command
// queue, and blocks on a queue drain before reading results back.
//
// Work items of one work group run concurrently and may synchronize through a
// full-group barrier; work groups have no mutual ordering or communication.
package device

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Device describes one enumerable compute device. ComputeUnits bounds how
// many work groups execute concurrently; MaxGroupSize bounds the number of
// work items in one group.
type Device struct {
	Index        int
	Name         string
	ComputeUnits int
	MaxGroupSize int
}

const maxGroupSize = 1024

// Devices enumerates the available devices in a fixed, deterministic order:
// a parallel device sized by GOMAXPROCS followed by a single-unit serial
// device that executes one work group at a time.
func Devices() []Device {
	units := runtime.GOMAXPROCS(0)
	if units < 1 {
		units = 1
	}
	feats := featureString()
	return []Device{
		{
			Index:        0,
			Name:         fmt.Sprintf("sim: parallel cpu, %d units (%s)", units, feats),
			ComputeUnits: units,
			MaxGroupSize: maxGroupSize,
		},
		{
			Index:        1,
			Name:         fmt.Sprintf("sim: serial cpu (%s)", feats),
			ComputeUnits: 1,
			MaxGroupSize: maxGroupSize,
		},
	}
}

// Select validates index against the enumerated devices and returns the
// matching device. An out-of-range index wraps ErrDeviceIndex.
func Select(index int) (Device, error) {
	devs := Devices()
	if index < 0 || index >= len(devs) {
		return Device{}, fmt.Errorf("device %d of %d: %w", index, len(devs), ErrDeviceIndex)
	}
	return devs[index], nil
}

func featureString() string {
	var feats []string
	switch {
	case cpu.X86.HasAVX512F:
		feats = append(feats, "avx512")
	case cpu.X86.HasAVX2:
		feats = append(feats, "avx2")
	case cpu.X86.HasSSE42:
		feats = append(feats, "sse4.2")
	}
	if cpu.X86.HasFMA {
		feats = append(feats, "fma")
	}
	if cpu.ARM64.HasASIMD {
		feats = append(feats, "asimd")
	}
	if len(feats) == 0 {
		return runtime.GOARCH
	}
	return strings.Join(feats, " ")
}
