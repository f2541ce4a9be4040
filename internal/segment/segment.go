// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package segment implements the cross-process control header and slot
// array that every ring discipline (SPSC/MPSC/MPMC) is built on top of.
//
// A Segment is a view over a raw byte region supplied by a backend (local
// anonymous memory or named POSIX shared memory). The header and slot
// layout are computed with explicit offset arithmetic rather than Go
// struct field layout, because the region may be attached by more than one
// process: the record format has to be identical regardless of which Go
// compiler or architecture wrote it.
package segment

import (
	"fmt"
	"runtime"
	"unsafe"

	"code.hybscloud.com/atomix"
)

// yieldBackoff is used only inside the Open handshake's spin-until-READY
// loop (segment bring-up, not the hot push/pop path, which uses
// iox.Backoff — see the root package's Push/Pop). A crashed initializer
// that CASed magic to IN-PROGRESS and died before storing READY leaves
// later attachers spinning here forever; this is documented, known source
// behavior (spec §9), and the recovery path is an explicit UnlinkShared,
// not an implicit timeout.
func yieldBackoff() {
	runtime.Gosched()
}

// MagicReady is the control word stored once header initialization has
// completed. Chosen to match the original C++ implementation's record
// format so the two are byte-compatible on disk/in shared memory.
const MagicReady uint64 = 0x9F7E3B2A8D5C4E1B

// magicInProgress is the sentinel stored by whichever attacher wins the
// ZERO -> IN-PROGRESS race and is performing first-comer initialization.
const magicInProgress uint64 = 0xFFFFFFFFFFFFFFFF

// cacheLine is the padding unit for header fields and slot records.
const cacheLine = 64

// Header field offsets, each on its own cache line.
const (
	offMagic    = 0 * cacheLine
	offHead     = 1 * cacheLine
	offTail     = 2 * cacheLine
	offCapacity = 3 * cacheLine
	offMask     = 4 * cacheLine

	// HeaderSize is the byte size of the control header; the slot array
	// begins immediately after it.
	HeaderSize = 5 * cacheLine
)

// RoundPow2 rounds n up to the next power of two. A request of 0 rounds to
// the minimum effective capacity of 1, matching the original
// BasicQueue::roundPow2 (not the stricter capacity>=2 panic some Go ports
// of this family use).
func RoundPow2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// SlotStride returns the per-slot byte size for element type T: an 8-byte
// atomic sequence number followed by T, padded so the total is a multiple
// of the cache line size. Because Go generics give no compile-time
// constant derived from sizeof(T), the stride is computed once at segment
// construction and all slot addressing goes through it rather than through
// a `[]Slot[T]` Go slice (which cannot express the required padding for an
// arbitrary T).
func SlotStride[T any]() uintptr {
	var zero T
	raw := 8 + unsafe.Sizeof(zero)
	rem := raw % cacheLine
	if rem == 0 {
		return raw
	}
	return raw + (cacheLine - rem)
}

// RequiredSize returns the total backend region size needed to hold a
// segment of the given (already power-of-two) capacity for element type T,
// or an error if the computation would overflow uint64.
func RequiredSize[T any](capacity uint64) (uint64, error) {
	stride := uint64(SlotStride[T]())
	slots := capacity * stride
	if capacity != 0 && slots/capacity != stride {
		return 0, fmt.Errorf("segment: capacity %d overflows size computation", capacity)
	}
	total := uint64(HeaderSize) + slots
	if total < uint64(HeaderSize) {
		return 0, fmt.Errorf("segment: capacity %d overflows size computation", capacity)
	}
	return total, nil
}

// ErrCapacityMismatch is returned by Open when an existing header's stored
// capacity disagrees with the capacity the caller requested.
type ErrCapacityMismatch struct {
	Requested uint64
	Stored    uint64
}

func (e *ErrCapacityMismatch) Error() string {
	return fmt.Sprintf("segment: capacity mismatch: requested %d, stored %d", e.Requested, e.Stored)
}

// Segment is a typed view over a backend-provided byte region: the control
// header at offset 0, followed by capacity slot records.
type Segment[T any] struct {
	base     unsafe.Pointer
	region   []byte // keeps the backing array reachable for the GC
	capacity uint64
	mask     uint64
	stride   uintptr
}

// Open attaches to (and, if it is the first attacher, initializes) a
// segment of the given capacity inside region. region must be at least
// RequiredSize[T](capacity) bytes and must remain valid for the lifetime
// of the returned Segment.
//
// Open performs the handshake described by the initialization algorithm:
// exactly one attacher CASes magic from ZERO to IN-PROGRESS and writes the
// header and initial slot sequence numbers; every other attacher spins,
// yielding, until it observes magic == MagicReady.
func Open[T any](region []byte, capacity uint64) (*Segment[T], error) {
	if !isPow2(capacity) {
		return nil, fmt.Errorf("segment: capacity %d is not a power of two", capacity)
	}

	needed, err := RequiredSize[T](capacity)
	if err != nil {
		return nil, err
	}
	if uint64(len(region)) < needed {
		return nil, fmt.Errorf("segment: region of %d bytes too small for capacity %d (need %d)", len(region), capacity, needed)
	}

	if err := assertFlat[T](); err != nil {
		return nil, err
	}

	seg := &Segment[T]{
		base:     unsafe.Pointer(&region[0]),
		region:   region,
		capacity: capacity,
		mask:     capacity - 1,
		stride:   SlotStride[T](),
	}

	magic := seg.magicWord()

	if magic.CompareAndSwapAcqRel(0, magicInProgress) {
		seg.Head().StoreRelaxed(0)
		seg.Tail().StoreRelaxed(0)
		seg.capacityWord().StoreRelaxed(capacity)
		seg.maskWord().StoreRelaxed(seg.mask)

		for i := uint64(0); i < capacity; i++ {
			seg.SlotSeq(i).StoreRelaxed(i)
		}

		magic.StoreRelease(MagicReady)
	} else {
		for magic.LoadAcquire() != MagicReady {
			yieldBackoff()
		}

		stored := seg.capacityWord().LoadAcquire()
		if stored != capacity {
			return nil, &ErrCapacityMismatch{Requested: capacity, Stored: stored}
		}
	}

	return seg, nil
}

func (s *Segment[T]) magicWord() *atomix.Uint64    { return (*atomix.Uint64)(unsafe.Add(s.base, offMagic)) }
func (s *Segment[T]) capacityWord() *atomix.Uint64 { return (*atomix.Uint64)(unsafe.Add(s.base, offCapacity)) }
func (s *Segment[T]) maskWord() *atomix.Uint64     { return (*atomix.Uint64)(unsafe.Add(s.base, offMask)) }

// Head returns the consumer cursor word.
func (s *Segment[T]) Head() *atomix.Uint64 { return (*atomix.Uint64)(unsafe.Add(s.base, offHead)) }

// Tail returns the producer cursor word.
func (s *Segment[T]) Tail() *atomix.Uint64 { return (*atomix.Uint64)(unsafe.Add(s.base, offTail)) }

// Mask returns capacity-1, cached locally (immutable after Open).
func (s *Segment[T]) Mask() uint64 { return s.mask }

// Capacity returns the segment's power-of-two capacity, cached locally.
func (s *Segment[T]) Capacity() uint64 { return s.capacity }

func (s *Segment[T]) slotBase(i uint64) unsafe.Pointer {
	return unsafe.Add(s.base, uintptr(HeaderSize)+uintptr(i&s.mask)*s.stride)
}

// SlotSeq returns the sequence-number word of slot i (index taken modulo
// capacity).
func (s *Segment[T]) SlotSeq(i uint64) *atomix.Uint64 {
	return (*atomix.Uint64)(s.slotBase(i))
}

// SlotData returns a pointer to the element storage of slot i (index taken
// modulo capacity).
func (s *Segment[T]) SlotData(i uint64) *T {
	return (*T)(unsafe.Add(s.slotBase(i), 8))
}

func isPow2(n uint64) bool { return n != 0 && n&(n-1) == 0 }
