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

// MPSC is a multi-producer single-consumer bounded ring.
//
// Producers use CAS on the producer cursor and a per-slot sequence number
// to claim a slot; the single consumer reads sequentially with no CAS.
type MPSC[T any] struct {
	seg     *segment.Segment[T]
	closed  atomix.Bool
	closeFn func() error
}

func newMPSC[T any](seg *segment.Segment[T], closeFn func() error) *MPSC[T] {
	return &MPSC[T]{seg: seg, closeFn: closeFn}
}

// TryPush adds an element without blocking (multiple producers safe).
// Returns ErrWouldBlock if the ring is full.
func (q *MPSC[T]) TryPush(elem *T) error {
	if q.closed.LoadAcquire() {
		return ErrInvalidParam
	}

	sw := spin.Wait{}
	for {
		tail := q.seg.Tail().LoadAcquire()
		seq := q.seg.SlotSeq(tail).LoadAcquire()

		if seq == tail {
			if q.seg.Tail().CompareAndSwapAcqRel(tail, tail+1) {
				*q.seg.SlotData(tail) = *elem
				q.seg.SlotSeq(tail).StoreRelease(tail + 1)
				return nil
			}
		} else if seq < tail {
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// TryPop removes and returns an element without blocking (consumer only).
// Returns (zero-value, ErrWouldBlock) if the ring is empty.
func (q *MPSC[T]) TryPop() (T, error) {
	if q.closed.LoadAcquire() {
		var zero T
		return zero, ErrInvalidParam
	}

	head := q.seg.Head().LoadRelaxed()
	seq := q.seg.SlotSeq(head).LoadAcquire()
	if seq != head+1 {
		var zero T
		return zero, ErrWouldBlock
	}

	elem := *q.seg.SlotData(head)
	var zero T
	*q.seg.SlotData(head) = zero
	q.seg.SlotSeq(head).StoreRelease(head + q.seg.Capacity())
	q.seg.Head().StoreRelease(head + 1)
	return elem, nil
}

// Push adds an element, blocking with backoff until it succeeds or ctx is
// done.
func (q *MPSC[T]) Push(ctx context.Context, elem *T) error {
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
func (q *MPSC[T]) Pop(ctx context.Context) (T, error) {
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
func (q *MPSC[T]) Pending() uint64 {
	tail := q.seg.Tail().LoadAcquire()
	head := q.seg.Head().LoadAcquire()
	return tail - head
}

// Available is an estimate of the number of free slots.
func (q *MPSC[T]) Available() uint64 {
	return q.seg.Capacity() - q.Pending()
}

// Full reports whether the ring appeared full at the moment of the call.
func (q *MPSC[T]) Full() bool { return q.Pending() >= q.seg.Capacity() }

// Empty reports whether the ring appeared empty at the moment of the call.
func (q *MPSC[T]) Empty() bool { return q.Pending() == 0 }

// Cap returns the ring capacity.
func (q *MPSC[T]) Cap() int { return int(q.seg.Capacity()) }

// Close releases the backing memory region. Not safe to call concurrently
// with Push/Pop/TryPush/TryPop.
func (q *MPSC[T]) Close() error {
	if !q.closed.CompareAndSwapAcqRel(false, true) {
		return ErrInvalidParam
	}
	if q.closeFn == nil {
		return nil
	}
	return q.closeFn()
}
