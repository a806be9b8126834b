package core

import "sort"

// Kernel is the external accelerator that evolves one generation. Buffers are
// row-major RGBA8 pixel slices of width*height*4 bytes.
type Kernel interface {
	Name() string
	Configure(width, height int, alive LiveColor) error
	Step(src, dst []byte) error
}

// KernelFactory constructs a Kernel using an optional configuration map.
type KernelFactory func(cfg map[string]string) (Kernel, error)

var kernels = map[string]KernelFactory{}

// RegisterKernel adds a kernel factory under the provided name.
func RegisterKernel(name string, f KernelFactory) {
	if name == "" || f == nil {
		return
	}
	kernels[name] = f
}

// Kernels exposes the registry of available kernel factories.
func Kernels() map[string]KernelFactory {
	return kernels
}

// KernelNames returns the registered kernel names in sorted order.
func KernelNames() []string {
	names := make([]string, 0, len(kernels))
	for name := range kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
