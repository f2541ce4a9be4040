// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package backend

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// NUMA policy constants from linux/mempolicy.h. golang.org/x/sys/unix
// exposes the mbind syscall number but not these policy flags, so they are
// declared locally — the same way the pack's io_uring callers declare the
// handful of raw constants x/sys/unix doesn't expose for a given syscall.
const (
	mpolBind      = 2
	mpolMFStrict  = 1 << 0
)

// bindNUMA applies a strict MPOL_BIND policy restricting region to a
// single NUMA node. Best-effort: failures are ignored by the caller,
// mirroring the original ::mbind(...) call, which is not allowed to fail
// the mapping.
func bindNUMA(region []byte, node int) {
	if len(region) == 0 || node < 0 || node >= 64 {
		return
	}
	mask := uint64(1) << uint(node)
	_, _, _ = unix.Syscall6(
		unix.SYS_MBIND,
		uintptr(unsafe.Pointer(&region[0])),
		uintptr(len(region)),
		uintptr(mpolBind),
		uintptr(unsafe.Pointer(&mask)),
		uintptr(65), // maxnode: enough bits for mask above
		uintptr(mpolMFStrict),
	)
}
