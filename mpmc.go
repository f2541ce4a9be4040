// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"context"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"

	"code.ringfabric.dev/ring/internal/segment"
)

// MPMC is a multi-producer multi-consumer bounded ring.
//
// Both cursors are claimed with CAS, guarded by a per-slot sequence
// number for full ABA safety.
type MPMC[T any] struct {
	seg     *segment.Segment[T]
	closed  atomix.Bool
	closeFn func() error
}

func newMPMC[T any](seg *segment.Segment[T], closeFn func() error) *MPMC[T] {
	return &MPMC[T]{seg: seg, closeFn: closeFn}
}

// TryPush adds an element without blocking (multiple producers safe).
// Returns ErrWouldBlock if the ring is full.
func (q *MPMC[T]) TryPush(elem *T) error {
	if q.closed.LoadAcquire() {
		return ErrInvalidParam
	}

	sw := spin.Wait{}
	for {
		tail := q.seg.Tail().LoadAcquire()
		seq := q.seg.SlotSeq(tail).LoadAcquire()
		diff := int64(seq) - int64(tail)

		if diff == 0 {
			if q.seg.Tail().CompareAndSwapAcqRel(tail, tail+1) {
				*q.seg.SlotData(tail) = *elem
				q.seg.SlotSeq(tail).StoreRelease(tail + 1)
				return nil
			}
		} else if diff < 0 {
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// TryPop removes and returns an element without blocking (multiple
// consumers safe). Returns (zero-value, ErrWouldBlock) if the ring is
// empty.
//
// The element is copied out of the slot before the head CAS is attempted,
// and discarded if the CAS loses the race. This is safe because the
// slot's data is bitwise-copyable and nothing has been committed yet; the
// loser simply reloads head and retries. Committing the head first and
// copying the data afterward would race with whichever producer claims
// the slot next, since a losing consumer no longer has exclusive access
// to it once head has already moved past it.
func (q *MPMC[T]) TryPop() (T, error) {
	if q.closed.LoadAcquire() {
		var zero T
		return zero, ErrInvalidParam
	}

	sw := spin.Wait{}
	for {
		head := q.seg.Head().LoadAcquire()
		seq := q.seg.SlotSeq(head).LoadAcquire()
		diff := int64(seq) - int64(head+1)

		if diff == 0 {
			temp := *q.seg.SlotData(head)
			if q.seg.Head().CompareAndSwapAcqRel(head, head+1) {
				var zero T
				*q.seg.SlotData(head) = zero
				q.seg.SlotSeq(head).StoreRelease(head + q.seg.Capacity())
				return temp, nil
			}
		} else if diff < 0 {
			var zero T
			return zero, ErrWouldBlock
		}
		sw.Once()
	}
}

// Push adds an element, blocking with backoff until it succeeds or ctx is
// done.
func (q *MPMC[T]) Push(ctx context.Context, elem *T) error {
	backoff := iox.Backoff{}
	for {
		err := q.TryPush(elem)
		if err == nil {
			return nil
		}
		if !IsWouldBlock(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		backoff.Wait()
	}
}

// Pop removes and returns an element, blocking with backoff until one is
// available or ctx is done.
func (q *MPMC[T]) Pop(ctx context.Context) (T, error) {
	backoff := iox.Backoff{}
	for {
		elem, err := q.TryPop()
		if err == nil {
			return elem, nil
		}
		if !IsWouldBlock(err) {
			return elem, err
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		default:
		}
		backoff.Wait()
	}
}

// Pending is an estimate of the number of occupied slots.
func (q *MPMC[T]) Pending() uint64 {
	tail := q.seg.Tail().LoadAcquire()
	head := q.seg.Head().LoadAcquire()
	return tail - head
}

// Available is an estimate of the number of free slots.
func (q *MPMC[T]) Available() uint64 {
	return q.seg.Capacity() - q.Pending()
}

// Full reports whether the ring appeared full at the moment of the call.
func (q *MPMC[T]) Full() bool { return q.Pending() >= q.seg.Capacity() }

// Empty reports whether the ring appeared empty at the moment of the call.
func (q *MPMC[T]) Empty() bool { return q.Pending() == 0 }

// Cap returns the ring capacity.
func (q *MPMC[T]) Cap() int { return int(q.seg.Capacity()) }

// Close releases the backing memory region. Not safe to call concurrently
// with Push/Pop/TryPush/TryPop.
func (q *MPMC[T]) Close() error {
	if !q.closed.CompareAndSwapAcqRel(false, true) {
		return ErrInvalidParam
	}
	if q.closeFn == nil {
		return nil
	}
	return q.closeFn()
}
