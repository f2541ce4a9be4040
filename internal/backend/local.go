// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"golang.org/x/sys/unix"
)

// Local is an anonymous, process-private memory region. It can only ever
// have one attacher: the process that created it. There is no handshake
// and no second-attacher path, unlike Shared.
type Local struct {
	region []byte
}

// NewLocal maps an anonymous region of at least size bytes, rounded up to
// a page boundary. numaNode, if >= 0, requests a best-effort strict NUMA
// bind; a negative value leaves placement to the kernel default policy.
func NewLocal(size uint64, numaNode int) (*Local, error) {
	rounded := roundPage(size)
	if rounded < size {
		return nil, &ErrSizeOverflow{Requested: size}
	}
	if rounded > uint64(^uint(0)>>1) {
		return nil, &ErrSizeOverflow{Requested: size}
	}

	region, err := mmapWithHugePageFallback(-1, int(rounded), unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, &ErrSystem{Op: "mmap", Err: err}
	}

	bestEffortPlacement(region, numaNode)

	return &Local{region: region}, nil
}

// Region returns the mapped bytes.
func (l *Local) Region() []byte { return l.region }

// Close unmaps the region. It is not valid to use the Local, or any
// Segment built on top of it, after Close returns.
func (l *Local) Close() error {
	unmapAndUnlock(l.region)
	l.region = nil
	return nil
}
