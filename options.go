// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

// config collects the options every constructor accepts, independent of
// backend or discipline.
type config struct {
	numaNode int
}

func defaultConfig() config {
	return config{numaNode: -1}
}

// Option configures a ring at construction time.
type Option func(*config)

// WithNUMANode requests a best-effort strict NUMA bind of the backing
// region to the given node. A negative node (the default) leaves
// placement to the kernel.
func WithNUMANode(node int) Option {
	return func(c *config) { c.numaNode = node }
}

func applyOptions(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// backendKind selects the memory provider a Builder-constructed ring uses.
type backendKind int

const (
	backendLocal backendKind = iota
	backendShared
)

// discipline selects the producer/consumer algorithm a Builder-constructed
// ring uses.
type discipline int

const (
	disciplineSPSC discipline = iota
	disciplineMPSC
	disciplineMPMC
)

// Builder creates rings with fluent configuration, mirroring the direct
// generic constructors (NewLocalSPSC, NewSharedMPMC, ...) for callers who
// want to select backend and discipline separately from the element type.
//
// Example:
//
//	q, err := ring.Build[Event](ring.New(4096).Shared("events").MPMC().NUMA(0))
type Builder struct {
	capacity int
	kind     backendKind
	name     string
	disc     discipline
	numaNode int
}

// New creates a ring builder with the given capacity. Capacity rounds up
// to the next power of two; 0 rounds to the minimum effective capacity of
// 1. Defaults to a local backend and the MPMC discipline.
func New(capacity int) *Builder {
	return &Builder{capacity: capacity, disc: disciplineMPMC, numaNode: -1}
}

// Local selects the anonymous, process-private backend. This is the
// default.
func (b *Builder) Local() *Builder {
	b.kind = backendLocal
	return b
}

// Shared selects the named, cross-process backend at /dev/shm/<name>.
func (b *Builder) Shared(name string) *Builder {
	b.kind = backendShared
	b.name = name
	return b
}

// SPSC selects the single-producer single-consumer discipline.
func (b *Builder) SPSC() *Builder {
	b.disc = disciplineSPSC
	return b
}

// MPSC selects the multi-producer single-consumer discipline.
func (b *Builder) MPSC() *Builder {
	b.disc = disciplineMPSC
	return b
}

// MPMC selects the multi-producer multi-consumer discipline. This is the
// default.
func (b *Builder) MPMC() *Builder {
	b.disc = disciplineMPMC
	return b
}

// NUMA requests a best-effort strict NUMA bind to the given node.
func (b *Builder) NUMA(node int) *Builder {
	b.numaNode = node
	return b
}

// Build constructs the ring described by b.
func Build[T any](b *Builder) (Queue[T], error) {
	opts := []Option{WithNUMANode(b.numaNode)}

	switch b.kind {
	case backendShared:
		switch b.disc {
		case disciplineSPSC:
			return NewSharedSPSC[T](b.capacity, b.name, opts...)
		case disciplineMPSC:
			return NewSharedMPSC[T](b.capacity, b.name, opts...)
		default:
			return NewSharedMPMC[T](b.capacity, b.name, opts...)
		}
	default:
		switch b.disc {
		case disciplineSPSC:
			return NewLocalSPSC[T](b.capacity, opts...)
		case disciplineMPSC:
			return NewLocalMPSC[T](b.capacity, opts...)
		default:
			return NewLocalMPMC[T](b.capacity, opts...)
		}
	}
}
