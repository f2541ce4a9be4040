// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.ringfabric.dev/ring/internal/backend"
	"code.ringfabric.dev/ring/internal/segment"
)

func openLocal[T any](capacity int, opts ...Option) (*segment.Segment[T], func() error, error) {
	if capacity < 0 {
		return nil, nil, invalidCapacityError(capacity)
	}
	cfg := applyOptions(opts)

	n := segment.RoundPow2(uint64(capacity))
	size, err := segment.RequiredSize[T](n)
	if err != nil {
		return nil, nil, err
	}

	mem, err := backend.NewLocal(size, cfg.numaNode)
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

// NewLocalSPSC creates a single-producer single-consumer ring backed by
// anonymous, process-private memory. Capacity rounds up to the next power
// of two; 0 rounds to the minimum effective capacity of 1.
func NewLocalSPSC[T any](capacity int, opts ...Option) (*SPSC[T], error) {
	seg, closeFn, err := openLocal[T](capacity, opts...)
	if err != nil {
		return nil, err
	}
	return newSPSC(seg, closeFn), nil
}

// NewLocalMPSC creates a multi-producer single-consumer ring backed by
// anonymous, process-private memory.
func NewLocalMPSC[T any](capacity int, opts ...Option) (*MPSC[T], error) {
	seg, closeFn, err := openLocal[T](capacity, opts...)
	if err != nil {
		return nil, err
	}
	return newMPSC(seg, closeFn), nil
}

// NewLocalMPMC creates a multi-producer multi-consumer ring backed by
// anonymous, process-private memory.
func NewLocalMPMC[T any](capacity int, opts ...Option) (*MPMC[T], error) {
	seg, closeFn, err := openLocal[T](capacity, opts...)
	if err != nil {
		return nil, err
	}
	return newMPMC(seg, closeFn), nil
}
