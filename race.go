// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package ring

// RaceEnabled is true when the race detector is active.
// The package's own concurrency stress tests are excluded from race builds
// by a //go:build !race tag rather than by checking this constant.
const RaceEnabled = true
