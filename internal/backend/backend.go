// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package backend provides the two memory providers a ring segment can be
// built on top of: anonymous local memory (Local) and named POSIX shared
// memory (Shared). Both hand back a plain []byte region of at least the
// requested size, mapped with a best-effort huge-page request, optional
// NUMA placement, and an attempt to pin the pages resident.
package backend

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrSystem wraps an OS error from shm_open/ftruncate/mmap/fstat/close
// equivalents, preserving the original errno via Unwrap.
type ErrSystem struct {
	Op  string
	Err error
}

func (e *ErrSystem) Error() string { return fmt.Sprintf("backend: %s: %v", e.Op, e.Err) }
func (e *ErrSystem) Unwrap() error { return e.Err }

// ErrSizeMismatch is returned when attaching to an existing named shared
// region whose size does not match the size the caller requested.
type ErrSizeMismatch struct {
	Name      string
	Requested uint64
	Stored    uint64
}

func (e *ErrSizeMismatch) Error() string {
	return fmt.Sprintf("backend: shared region %q size mismatch: requested %d, stored %d", e.Name, e.Requested, e.Stored)
}

// ErrSizeOverflow is returned when the page-rounded size exceeds the
// representable file-offset range.
type ErrSizeOverflow struct {
	Requested uint64
}

func (e *ErrSizeOverflow) Error() string {
	return fmt.Sprintf("backend: requested size %d overflows the representable file-offset range", e.Requested)
}

// roundPage rounds size up to a multiple of the OS page size.
func roundPage(size uint64) uint64 {
	page := uint64(unix.Getpagesize())
	if page == 0 {
		page = 4096
	}
	return (size + page - 1) &^ (page - 1)
}

// mmapWithHugePageFallback attempts a huge-page-backed mapping first and
// falls back to a standard mapping on ENOMEM/EINVAL, mirroring the
// original LocalMem::create/ShmMem::create sequence (try MAP_HUGETLB,
// retry without it when huge pages are unavailable or unsupported).
func mmapWithHugePageFallback(fd int, size int, flags int) ([]byte, error) {
	region, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, flags|unix.MAP_HUGETLB)
	if err == nil {
		return region, nil
	}
	if err != unix.ENOMEM && err != unix.EINVAL {
		return nil, err
	}
	return unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, flags)
}

// bestEffortPlacement applies NUMA binding and mlock to region. Both are
// best-effort per §4.2/§4.3: only the primary mapping is allowed to fail
// the caller.
func bestEffortPlacement(region []byte, numaNode int) {
	if numaNode >= 0 {
		bindNUMA(region, numaNode)
	}
	_ = unix.Mlock(region)
}

// unmapAndUnlock reverses bestEffortPlacement + the mapping itself.
func unmapAndUnlock(region []byte) {
	if region == nil {
		return
	}
	_ = unix.Munlock(region)
	_ = unix.Munmap(region)
}
