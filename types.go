// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import "context"

// Queue is the combined producer-consumer interface implemented by SPSC,
// MPSC and MPMC.
//
// The interface intentionally excludes length because accurate counts in
// lock-free algorithms require expensive cross-core synchronization;
// Pending/Available give a momentary estimate instead, not a guarantee.
//
// Example:
//
//	q, err := ring.NewLocalMPMC[int](1024)
//	if err != nil {
//	    // handle mapping failure
//	}
//	defer q.Close()
//
//	val := 42
//	if err := q.TryPush(&val); err != nil {
//	    // handle full ring
//	}
//
//	elem, err := q.TryPop()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Observer
	Closer
}

// Producer is the interface for pushing elements.
//
// The element is passed by pointer to avoid copying large structs; the
// ring stores a copy of the pointed-to value, so the original may be
// reused or discarded once Push/TryPush returns.
type Producer[T any] interface {
	// TryPush adds an element without blocking.
	// Returns nil on success, ErrWouldBlock if the ring is full.
	//
	// Thread safety depends on the discipline:
	//   - SPSC: single producer only
	//   - MPSC/MPMC: multiple producers safe
	TryPush(elem *T) error

	// Push adds an element, blocking (with backoff) until it succeeds or
	// ctx is done. A done ctx returns ctx.Err().
	Push(ctx context.Context, elem *T) error
}

// Consumer is the interface for popping elements.
//
// The returned element is a copy; the slot it came from is reset to the
// zero value of T.
type Consumer[T any] interface {
	// TryPop removes and returns an element without blocking.
	// Returns (zero-value, ErrWouldBlock) if the ring is empty.
	//
	// Thread safety depends on the discipline:
	//   - SPSC/MPSC: single consumer only
	//   - MPMC: multiple consumers safe
	TryPop() (T, error)

	// Pop removes and returns an element, blocking (with backoff) until
	// one is available or ctx is done. A done ctx returns ctx.Err().
	Pop(ctx context.Context) (T, error)
}

// Observer exposes momentary, non-authoritative occupancy information.
type Observer interface {
	// Pending is an estimate of the number of occupied slots.
	Pending() uint64
	// Available is an estimate of the number of free slots.
	Available() uint64
	// Full reports whether the ring appeared full at the moment of the call.
	Full() bool
	// Empty reports whether the ring appeared empty at the moment of the call.
	Empty() bool
	// Cap returns the ring's fixed, power-of-two capacity.
	Cap() int
}

// Closer releases the backing memory region. After Close returns, no
// other method may be called.
type Closer interface {
	Close() error
}
