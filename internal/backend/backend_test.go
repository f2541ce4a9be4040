// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend_test

import (
	"errors"
	"fmt"
	"testing"

	"code.ringfabric.dev/ring/internal/backend"
)

func TestNewLocalMapsRequestedSize(t *testing.T) {
	mem, err := backend.NewLocal(4096, -1)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	defer mem.Close()

	if len(mem.Region()) < 4096 {
		t.Fatalf("Region length: got %d, want >= 4096", len(mem.Region()))
	}
}

func TestLocalRegionIsWritable(t *testing.T) {
	mem, err := backend.NewLocal(4096, -1)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	defer mem.Close()

	region := mem.Region()
	region[0] = 0xAB
	region[len(region)-1] = 0xCD
	if region[0] != 0xAB || region[len(region)-1] != 0xCD {
		t.Fatalf("region not writable as expected")
	}
}

func TestSharedCreateThenAttach(t *testing.T) {
	name := fmt.Sprintf("ring-test-%s", t.Name())
	defer backend.UnlinkShared(name)

	first, created, err := backend.NewShared(4096, name, -1)
	if err != nil {
		t.Fatalf("NewShared (create): %v", err)
	}
	defer first.Close()
	if !created {
		t.Fatalf("first NewShared: got created=false, want true")
	}

	first.Region()[100] = 0x42

	second, created, err := backend.NewShared(4096, name, -1)
	if err != nil {
		t.Fatalf("NewShared (attach): %v", err)
	}
	defer second.Close()
	if created {
		t.Fatalf("second NewShared: got created=true, want false")
	}

	if got := second.Region()[100]; got != 0x42 {
		t.Fatalf("second.Region()[100]: got %#x, want 0x42 (should observe first attacher's write)", got)
	}
}

func TestSharedSizeMismatch(t *testing.T) {
	name := fmt.Sprintf("ring-test-mismatch-%s", t.Name())
	defer backend.UnlinkShared(name)

	first, _, err := backend.NewShared(4096, name, -1)
	if err != nil {
		t.Fatalf("NewShared: %v", err)
	}
	defer first.Close()

	var mismatch *backend.ErrSizeMismatch
	_, _, err = backend.NewShared(8192, name, -1)
	if !errors.As(err, &mismatch) {
		t.Fatalf("NewShared with different size: got %v, want *ErrSizeMismatch", err)
	}
}

func TestUnlinkSharedMissingNameIsNotAnError(t *testing.T) {
	if err := backend.UnlinkShared("ring-test-does-not-exist"); err != nil {
		t.Fatalf("UnlinkShared on missing name: %v", err)
	}
}

func TestUnlinkSharedRemovesName(t *testing.T) {
	name := fmt.Sprintf("ring-test-unlink-%s", t.Name())

	mem, _, err := backend.NewShared(4096, name, -1)
	if err != nil {
		t.Fatalf("NewShared: %v", err)
	}
	if err := mem.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := backend.UnlinkShared(name); err != nil {
		t.Fatalf("UnlinkShared: %v", err)
	}

	// Re-creating after unlink must behave as a fresh create, not an attach.
	second, created, err := backend.NewShared(4096, name, -1)
	if err != nil {
		t.Fatalf("NewShared after unlink: %v", err)
	}
	defer backend.UnlinkShared(name)
	defer second.Close()
	if !created {
		t.Fatalf("NewShared after unlink: got created=false, want true")
	}
}
