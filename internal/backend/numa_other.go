// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package backend

// bindNUMA is a no-op on platforms without an mbind-equivalent syscall.
// Placement remains best-effort by contract, so silently skipping it here
// is a conforming implementation, not a missing feature.
func bindNUMA(region []byte, node int) {}
