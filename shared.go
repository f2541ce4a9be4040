// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.ringfabric.dev/ring/internal/backend"
	"code.ringfabric.dev/ring/internal/segment"
)

func openShared[T any](capacity int, name string, opts ...Option) (*segment.Segment[T], func() error, error) {
	if capacity < 0 {
		return nil, nil, invalidCapacityError(capacity)
	}
	if name == "" {
		return nil, nil, invalidNameError(name)
	}
	cfg := applyOptions(opts)

	n := segment.RoundPow2(uint64(capacity))
	size, err := segment.RequiredSize[T](n)
	if err != nil {
		return nil, nil, err
	}

	mem, _, err := backend.NewShared(size, name, cfg.numaNode)
	if err != nil {
		return nil, nil, err
	}

	seg, err := segment.Open[T](mem.Region(), n)
	if err != nil {
		_ = mem.Close()
		return nil, nil, err
	}

	return seg, mem.Close, nil
}

// NewSharedSPSC creates or attaches to a single-producer single-consumer
// ring backed by named POSIX shared memory. Whichever caller (in this
// process or another) attaches first performs the header and slot
// initialization; every later attacher must request the same capacity.
func NewSharedSPSC[T any](capacity int, name string, opts ...Option) (*SPSC[T], error) {
	seg, closeFn, err := openShared[T](capacity, name, opts...)
	if err != nil {
		return nil, err
	}
	return newSPSC(seg, closeFn), nil
}

// NewSharedMPSC creates or attaches to a multi-producer single-consumer
// ring backed by named POSIX shared memory.
func NewSharedMPSC[T any](capacity int, name string, opts ...Option) (*MPSC[T], error) {
	seg, closeFn, err := openShared[T](capacity, name, opts...)
	if err != nil {
		return nil, err
	}
	return newMPSC(seg, closeFn), nil
}

// NewSharedMPMC creates or attaches to a multi-producer multi-consumer
// ring backed by named POSIX shared memory.
func NewSharedMPMC[T any](capacity int, name string, opts ...Option) (*MPMC[T], error) {
	seg, closeFn, err := openShared[T](capacity, name, opts...)
	if err != nil {
		return nil, err
	}
	return newMPMC(seg, closeFn), nil
}

// UnlinkShared removes a named shared region from the filesystem. Callers
// must ensure no process still needs to attach to the name afterward.
func UnlinkShared(name string) error {
	return backend.UnlinkShared(name)
}
