package device

import (
	"errors"
	"testing"
)

func codeOf(t *testing.T, err error) Code {
	t.Helper()
	var derr *Error
	if !errors.As(err, &derr) {
		t.Fatalf("expected *device.Error, got %T: %v", err, err)
	}
	return derr.Code
}

func TestDevicesDeterministic(t *testing.T) {
	t.Parallel()

	first := Devices()
	second := Devices()
	if len(first) != len(second) {
		t.Fatalf("enumeration changed size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("device %d changed between enumerations: %+v vs %+v", i, first[i], second[i])
		}
		if first[i].Index != i {
			t.Errorf("device %d reports index %d", i, first[i].Index)
		}
		if first[i].Name == "" {
			t.Errorf("device %d has no name", i)
		}
	}
}

func TestSelectValidatesIndex(t *testing.T) {
	t.Parallel()

	if _, err := Select(0); err != nil {
		t.Fatalf("Select(0): %v", err)
	}

	for _, index := range []int{-1, len(Devices()), 99} {
		_, err := Select(index)
		if !errors.Is(err, ErrDeviceIndex) {
			t.Errorf("Select(%d): expected ErrDeviceIndex, got %v", index, err)
		}
	}
}

func TestErrString(t *testing.T) {
	t.Parallel()

	if got := ErrString(InvalidKernelName); got != "invalid kernel name" {
		t.Fatalf("ErrString(InvalidKernelName) = %q", got)
	}
	if got := ErrString(Code(-999)); got != "unknown error -999" {
		t.Fatalf("ErrString(-999) = %q", got)
	}
}
