// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring provides lock-free, bounded, cross-process ring buffers.
//
// Three producer/consumer disciplines are offered:
//
//   - SPSC: Single-Producer Single-Consumer (Lamport ring buffer)
//   - MPSC: Multi-Producer Single-Consumer (CAS producers, sequential consumer)
//   - MPMC: Multi-Producer Multi-Consumer (CAS both sides)
//
// and two memory backends:
//
//   - Local: anonymous, process-private memory
//   - Shared: named POSIX shared memory at /dev/shm, attachable by any
//     number of unrelated processes
//
// # Quick Start
//
//	q, err := ring.NewLocalMPMC[Event](1024)
//	if err != nil {
//	    // handle mapping failure
//	}
//	defer q.Close()
//
//	value := Event{}
//	err = q.TryPush(&value)
//	if ring.IsWouldBlock(err) {
//	    // ring is full - handle backpressure
//	}
//
//	elem, err := q.TryPop()
//	if ring.IsWouldBlock(err) {
//	    // ring is empty - try again later
//	}
//
// Builder API for selecting backend and discipline separately from the
// element type:
//
//	q, err := ring.Build[Event](ring.New(1024).Local().MPSC())
//	q, err := ring.Build[Event](ring.New(4096).Shared("events").MPMC())
//
// # Cross-process attach
//
// Any number of processes can attach to the same named shared region by
// passing the same name and capacity:
//
//	// Process A
//	q, err := ring.NewSharedSPSC[Frame](4096, "video-frames")
//
//	// Process B
//	q, err := ring.NewSharedSPSC[Frame](4096, "video-frames")
//
// Whichever attacher arrives first initializes the header and slot array;
// every later attacher spins until initialization completes, then checks
// that the stored capacity matches what it requested, returning
// [CapacityMismatchError] on disagreement. Removal is explicit:
//
//	err := ring.UnlinkShared("video-frames")
//
// # Common Patterns
//
// Pipeline stage (SPSC):
//
//	q, _ := ring.NewLocalSPSC[Data](1024)
//
//	go func() { // producer
//	    backoff := iox.Backoff{}
//	    for data := range input {
//	        for q.TryPush(&data) != nil {
//	            backoff.Wait()
//	        }
//	        backoff.Reset()
//	    }
//	}()
//
//	go func() { // consumer
//	    backoff := iox.Backoff{}
//	    for {
//	        data, err := q.TryPop()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        process(data)
//	    }
//	}()
//
// Event aggregation (MPSC): many sensor goroutines push, one aggregator
// goroutine pops. Worker pool (MPMC): many submitters push, many workers
// pop.
//
// [Push]/[Pop] on every ring type wrap TryPush/TryPop in exactly this
// retry-with-backoff pattern, parameterized by a context.Context instead
// of a hand-rolled loop:
//
//	err := q.Push(ctx, &item)
//	elem, err := q.Pop(ctx)
//
// # Error Handling
//
// Rings return [ErrWouldBlock] when an operation cannot proceed
// immediately. This error is sourced from [code.hybscloud.com/iox] for
// ecosystem consistency:
//
//	ring.IsWouldBlock(err)  // true if ring full/empty
//	ring.IsSemantic(err)    // true if control flow signal
//	ring.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// Construction can additionally fail with [CapacityMismatchError],
// [SizeMismatchError], [SizeOverflowError], or [SystemError] wrapping the
// underlying OS error.
//
// # Capacity
//
// Capacity rounds up to the next power of two; 0 rounds to the minimum
// effective capacity of 1:
//
//	q, _ := ring.NewLocalMPMC[int](3)     // actual capacity: 4
//	q, _ := ring.NewLocalMPMC[int](1000)  // actual capacity: 1024
//
// Pending/Available are momentary estimates, not exact counts: accurate
// counts in a lock-free ring require expensive cross-core synchronization
// that the hot path does not pay for.
//
// # Thread Safety
//
//   - SPSC: one producer goroutine, one consumer goroutine
//   - MPSC: multiple producer goroutines, one consumer goroutine
//   - MPMC: multiple producer and consumer goroutines
//
// Violating these constraints (e.g. a second producer on an SPSC ring)
// causes undefined behavior including data corruption and races.
//
// # Race Detection
//
// Go's race detector is not designed for lock-free algorithm
// verification. It tracks explicit synchronization primitives (mutex,
// channel, WaitGroup) but cannot observe happens-before relationships
// established purely through atomic acquire-release orderings. These
// rings protect non-atomic slot data with sequence numbers under
// acquire-release semantics; the algorithms are correct, but the race
// detector may still flag false positives on the underlying slot array.
// Concurrency stress tests that would trip this are built under
// //go:build !race; see [RaceEnabled].
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// blocking backoff, [code.hybscloud.com/atomix] for atomics with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause hints in CAS
// retry loops, and golang.org/x/sys/unix for the mmap/shared-memory
// backends.
package ring
