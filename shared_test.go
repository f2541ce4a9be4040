// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"errors"
	"fmt"
	"testing"

	"code.ringfabric.dev/ring"
)

// TestSharedRoundtrip simulates two independent attachers (standing in for
// two processes) of the same named region and checks they observe the
// same capacity and each other's writes.
func TestSharedRoundtrip(t *testing.T) {
	name := fmt.Sprintf("ring-shared-test-%s", t.Name())
	defer ring.UnlinkShared(name)

	first, err := ring.NewSharedSPSC[int](16, name)
	if err != nil {
		t.Fatalf("first NewSharedSPSC: %v", err)
	}
	defer first.Close()

	second, err := ring.NewSharedSPSC[int](16, name)
	if err != nil {
		t.Fatalf("second NewSharedSPSC: %v", err)
	}
	defer second.Close()

	if first.Cap() != second.Cap() {
		t.Fatalf("Cap mismatch: first=%d second=%d", first.Cap(), second.Cap())
	}

	v := 123
	if err := first.TryPush(&v); err != nil {
		t.Fatalf("first.TryPush: %v", err)
	}
	got, err := second.TryPop()
	if err != nil {
		t.Fatalf("second.TryPop: %v", err)
	}
	if got != 123 {
		t.Fatalf("second.TryPop: got %d, want 123", got)
	}
}

// TestSharedCapacityMismatch checks that attaching with a different
// capacity than the first attacher used fails with CapacityMismatchError.
func TestSharedCapacityMismatch(t *testing.T) {
	name := fmt.Sprintf("ring-shared-mismatch-%s", t.Name())
	defer ring.UnlinkShared(name)

	// 16 and 32 both round to the same 4096-byte page for int, so the
	// backing region's size check passes and the mismatch is caught by
	// segment.Open's stored-capacity check, not backend.NewShared's size
	// check.
	first, err := ring.NewSharedMPMC[int](16, name)
	if err != nil {
		t.Fatalf("first NewSharedMPMC: %v", err)
	}
	defer first.Close()

	var mismatch *ring.CapacityMismatchError
	_, err = ring.NewSharedMPMC[int](32, name)
	if !errors.As(err, &mismatch) {
		t.Fatalf("second NewSharedMPMC with different capacity: got %v, want *CapacityMismatchError", err)
	}
}

func TestUnlinkSharedThenRecreate(t *testing.T) {
	name := fmt.Sprintf("ring-shared-recreate-%s", t.Name())

	first, err := ring.NewSharedMPSC[int](8, name)
	if err != nil {
		t.Fatalf("NewSharedMPSC: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := ring.UnlinkShared(name); err != nil {
		t.Fatalf("UnlinkShared: %v", err)
	}

	second, err := ring.NewSharedMPSC[int](32, name)
	if err != nil {
		t.Fatalf("NewSharedMPSC after unlink: %v", err)
	}
	defer ring.UnlinkShared(name)
	defer second.Close()

	if second.Cap() != 32 {
		t.Fatalf("Cap after recreate: got %d, want 32", second.Cap())
	}
}

func TestSharedRejectsEmptyName(t *testing.T) {
	if _, err := ring.NewSharedSPSC[int](8, ""); !errors.Is(err, ring.ErrInvalidParam) {
		t.Fatalf("NewSharedSPSC with empty name: got %v, want ErrInvalidParam", err)
	}
}
