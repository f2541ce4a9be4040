// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segment_test

import (
	"errors"
	"testing"

	"code.ringfabric.dev/ring/internal/segment"
)

func TestRoundPow2(t *testing.T) {
	cases := []struct {
		in, want uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{17, 32},
		{1024, 1024},
	}
	for _, c := range cases {
		if got := segment.RoundPow2(c.in); got != c.want {
			t.Fatalf("RoundPow2(%d): got %d, want %d", c.in, got, c.want)
		}
	}
}

type flatRecord struct {
	A uint64
	B int32
	C [4]byte
}

func TestOpenSingleAttacherInitializes(t *testing.T) {
	const capacity = 8
	size, err := segment.RequiredSize[flatRecord](capacity)
	if err != nil {
		t.Fatalf("RequiredSize: %v", err)
	}
	region := make([]byte, size)

	seg, err := segment.Open[flatRecord](region, capacity)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if seg.Capacity() != capacity {
		t.Fatalf("Capacity: got %d, want %d", seg.Capacity(), capacity)
	}
	if seg.Mask() != capacity-1 {
		t.Fatalf("Mask: got %d, want %d", seg.Mask(), capacity-1)
	}
	if got := seg.Head().LoadAcquire(); got != 0 {
		t.Fatalf("Head: got %d, want 0", got)
	}
	if got := seg.Tail().LoadAcquire(); got != 0 {
		t.Fatalf("Tail: got %d, want 0", got)
	}
	for i := uint64(0); i < capacity; i++ {
		if got := seg.SlotSeq(i).LoadAcquire(); got != i {
			t.Fatalf("SlotSeq(%d): got %d, want %d", i, got, i)
		}
	}
}

func TestOpenSecondAttacherSeesSameHeader(t *testing.T) {
	const capacity = 16
	size, err := segment.RequiredSize[flatRecord](capacity)
	if err != nil {
		t.Fatalf("RequiredSize: %v", err)
	}
	region := make([]byte, size)

	first, err := segment.Open[flatRecord](region, capacity)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}

	first.Tail().StoreRelease(3)

	second, err := segment.Open[flatRecord](region, capacity)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}

	if second.Capacity() != capacity {
		t.Fatalf("Capacity: got %d, want %d", second.Capacity(), capacity)
	}
	if got := second.Tail().LoadAcquire(); got != 3 {
		t.Fatalf("Tail: got %d, want 3 (should observe first attacher's writes)", got)
	}
}

func TestOpenCapacityMismatch(t *testing.T) {
	const capacity = 8
	size, err := segment.RequiredSize[flatRecord](32)
	if err != nil {
		t.Fatalf("RequiredSize: %v", err)
	}
	region := make([]byte, size)

	if _, err := segment.Open[flatRecord](region, capacity); err != nil {
		t.Fatalf("first Open: %v", err)
	}

	var mismatch *segment.ErrCapacityMismatch
	_, err = segment.Open[flatRecord](region, 32)
	if !errors.As(err, &mismatch) {
		t.Fatalf("second Open: got %v, want *ErrCapacityMismatch", err)
	}
	if mismatch.Requested != 32 || mismatch.Stored != capacity {
		t.Fatalf("mismatch fields: got %+v, want Requested=32 Stored=%d", mismatch, capacity)
	}
}

func TestOpenRejectsNonPow2Capacity(t *testing.T) {
	region := make([]byte, 1<<20)
	if _, err := segment.Open[flatRecord](region, 3); err == nil {
		t.Fatalf("Open with capacity 3: got nil error, want non-nil")
	}
}

func TestOpenRejectsUndersizedRegion(t *testing.T) {
	region := make([]byte, 1)
	if _, err := segment.Open[flatRecord](region, 8); err == nil {
		t.Fatalf("Open with undersized region: got nil error, want non-nil")
	}
}

type withPointer struct {
	A int
	B *int
}

func TestOpenRejectsNonFlatType(t *testing.T) {
	region := make([]byte, 1<<20)
	if _, err := segment.Open[withPointer](region, 8); err == nil {
		t.Fatalf("Open[withPointer]: got nil error, want non-nil (pointer field is not bitwise copyable)")
	}
}

func TestOpenAcceptsFlatStruct(t *testing.T) {
	region := make([]byte, 1<<20)
	if _, err := segment.Open[flatRecord](region, 8); err != nil {
		t.Fatalf("Open[flatRecord]: %v", err)
	}
}

func TestSlotStrideIsCacheLineMultiple(t *testing.T) {
	stride := segment.SlotStride[flatRecord]()
	if stride%64 != 0 {
		t.Fatalf("SlotStride: got %d, want a multiple of 64", stride)
	}
	if stride < 64 {
		t.Fatalf("SlotStride: got %d, want >= 64", stride)
	}
}
