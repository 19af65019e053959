package device

import (
	"fmt"
	"sort"
)

// KernelFunc is one kernel entry point. It is invoked once per work item
// with the item's identity and the resolved argument list.
type KernelFunc func(it *Item, args Args)

// Program is an immutable set of named kernel entry points sharing one
// version tag. A program is built once per context and shared read-only by
// every dispatch.
type Program struct {
	version string
	entries map[string]KernelFunc
}

// NewProgram assembles a program from named entry points. The program is not
// usable until a context builds it.
func NewProgram(version string, entries map[string]KernelFunc) *Program {
	copied := make(map[string]KernelFunc, len(entries))
	for name, fn := range entries {
		copied[name] = fn
	}
	return &Program{version: version, entries: copied}
}

// Version returns the program's version tag.
func (p *Program) Version() string { return p.version }

// Kernels lists the entry point names in sorted order.
func (p *Program) Kernels() []string {
	names := make([]string, 0, len(p.entries))
	for name := range p.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Program) build() error {
	if len(p.entries) == 0 {
		return wrapError(BuildProgramFailure, "build program", fmt.Errorf("no kernel entry points"))
	}
	for name, fn := range p.entries {
		if name == "" || fn == nil {
			return wrapError(BuildProgramFailure, "build program", fmt.Errorf("entry point %q has no body", name))
		}
	}
	return nil
}

func (p *Program) kernel(name string) (KernelFunc, error) {
	fn, ok := p.entries[name]
	if !ok {
		return nil, wrapError(InvalidKernelName, "create kernel", fmt.Errorf("no entry point %q", name))
	}
	return fn, nil
}
