// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// shmDir is where named shared regions live. Go has no cgo-free shm_open,
// so POSIX shared memory is emulated the way shm_open itself is commonly
// implemented: a regular file under the tmpfs-backed /dev/shm.
const shmDir = "/dev/shm/"

func shmPath(name string) (string, error) {
	if name == "" || strings.ContainsRune(name, '/') {
		return "", fmt.Errorf("backend: invalid shared region name %q", name)
	}
	return shmDir + name, nil
}

// Shared is a named region backed by a file under /dev/shm, attachable by
// any number of unrelated processes that open it by the same name.
type Shared struct {
	region  []byte
	fd      int
	created bool
}

// NewShared opens (creating if necessary) the named shared region and maps
// at least size bytes of it, rounded up to a page boundary. createdNew
// reports whether this call created the backing file. It does not decide
// which attacher initializes the segment header: that is settled by the
// magic-word handshake in segment.Open.
func NewShared(size uint64, name string, numaNode int) (s *Shared, createdNew bool, err error) {
	path, err := shmPath(name)
	if err != nil {
		return nil, false, err
	}

	rounded := roundPage(size)
	if rounded < size || rounded > uint64(^uint(0)>>1) {
		return nil, false, &ErrSizeOverflow{Requested: size}
	}

	fd, err := unix.Open(path, unix.O_CREAT|unix.O_EXCL|unix.O_RDWR|unix.O_CLOEXEC, 0644)
	created := true
	if err != nil {
		if err != unix.EEXIST {
			return nil, false, &ErrSystem{Op: "open", Err: err}
		}
		created = false
		fd, err = unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0644)
		if err != nil {
			return nil, false, &ErrSystem{Op: "open", Err: err}
		}
	}

	closeOnErr := func() { _ = unix.Close(fd) }

	if created {
		if err := unix.Ftruncate(fd, int64(rounded)); err != nil {
			closeOnErr()
			return nil, false, &ErrSystem{Op: "ftruncate", Err: err}
		}
	} else {
		var st unix.Stat_t
		if err := unix.Fstat(fd, &st); err != nil {
			closeOnErr()
			return nil, false, &ErrSystem{Op: "fstat", Err: err}
		}
		if uint64(st.Size) != rounded {
			closeOnErr()
			return nil, false, &ErrSizeMismatch{Name: name, Requested: rounded, Stored: uint64(st.Size)}
		}
	}

	region, err := mmapWithHugePageFallback(fd, int(rounded), unix.MAP_SHARED)
	if err != nil {
		closeOnErr()
		return nil, false, &ErrSystem{Op: "mmap", Err: err}
	}

	bestEffortPlacement(region, numaNode)

	return &Shared{region: region, fd: fd, created: created}, created, nil
}

// Region returns the mapped bytes.
func (s *Shared) Region() []byte { return s.region }

// Created reports whether this attach created the backing file.
func (s *Shared) Created() bool { return s.created }

// Close unmaps the region and closes the file descriptor. It does not
// unlink the backing name: other processes may still be attached, and
// removal is a distinct, explicit operation (see UnlinkShared).
func (s *Shared) Close() error {
	unmapAndUnlock(s.region)
	s.region = nil
	err := unix.Close(s.fd)
	if err != nil {
		return &ErrSystem{Op: "close", Err: err}
	}
	return nil
}

// UnlinkShared removes the named shared region from the filesystem. It is
// the caller's responsibility to ensure no process still needs to attach
// to the name afterward. A name that does not exist is treated as
// success, matching shm_unlink's ENOENT-is-ok convention.
func UnlinkShared(name string) error {
	path, err := shmPath(name)
	if err != nil {
		return err
	}
	if err := unix.Unlink(path); err != nil && err != unix.ENOENT {
		return &ErrSystem{Op: "unlink", Err: err}
	}
	return nil
}
