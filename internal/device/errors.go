package device

import (
	"errors"
	"fmt"
)

// Code is a numeric device error code. Codes follow the accelerator-runtime
// convention of zero for success and negative values for failures.
type Code int

const (
	Success              Code = 0
	DeviceNotFound       Code = -1
	OutOfResources       Code = -5
	BuildProgramFailure  Code = -11
	InvalidValue         Code = -30
	InvalidCommandQueue  Code = -36
	InvalidKernelName    Code = -46
	InvalidKernelArgs    Code = -52
	InvalidWorkDimension Code = -53
	InvalidWorkGroupSize Code = -54
	ExecFailure          Code = -59
	InvalidBufferSize    Code = -61
)

// ErrString translates a device error code into a human-readable string.
func ErrString(c Code) string {
	switch c {
	case Success:
		return "success"
	case DeviceNotFound:
		return "device not found"
	case OutOfResources:
		return "out of resources"
	case BuildProgramFailure:
		return "program build failure"
	case InvalidValue:
		return "invalid value"
	case InvalidCommandQueue:
		return "invalid command queue"
	case InvalidKernelName:
		return "invalid kernel name"
	case InvalidKernelArgs:
		return "invalid kernel arguments"
	case InvalidWorkDimension:
		return "invalid work dimension"
	case InvalidWorkGroupSize:
		return "invalid work group size"
	case ExecFailure:
		return "kernel execution failure"
	case InvalidBufferSize:
		return "invalid buffer size"
	default:
		return fmt.Sprintf("unknown error %d", int(c))
	}
}

// Error is a device-layer failure tagged with a numeric code.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s (%d)", e.Op, ErrString(e.Code), int(e.Code))
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code Code, op string) *Error {
	return &Error{Code: code, Op: op}
}

func wrapError(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

func execError(op string, rec any) *Error {
	if err, ok := rec.(error); ok {
		return wrapError(ExecFailure, op, err)
	}
	return wrapError(ExecFailure, op, fmt.Errorf("%v", rec))
}

// ErrDeviceIndex reports a requested device index outside the enumerated
// range. It is a configuration error, not a device error: no context exists
// yet when it occurs, and the CLI maps it to a failure exit.
var ErrDeviceIndex = errors.New("device index out of range")
