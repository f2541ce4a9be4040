// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"context"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"

	"code.ringfabric.dev/ring/internal/segment"
)

// SPSC is a single-producer single-consumer bounded ring.
//
// Based on Lamport's ring buffer with cached index optimization: the
// producer caches the consumer's head, and vice versa, so the hot path
// only reloads the other side's cursor once it believes the ring is
// full (or empty) and needs a fresher view.
type SPSC[T any] struct {
	seg        *segment.Segment[T]
	cachedHead uint64 // producer's cached view of the consumer cursor
	cachedTail uint64 // consumer's cached view of the producer cursor
	closed     atomix.Bool
	closeFn    func() error
}

func newSPSC[T any](seg *segment.Segment[T], closeFn func() error) *SPSC[T] {
	return &SPSC[T]{seg: seg, closeFn: closeFn}
}

// TryPush adds an element without blocking (producer only).
// Returns ErrWouldBlock if the ring is full.
func (q *SPSC[T]) TryPush(elem *T) error {
	if q.closed.LoadAcquire() {
		return ErrInvalidParam
	}

	tail := q.seg.Tail().LoadRelaxed()
	if tail-q.cachedHead > q.seg.Mask() {
		q.cachedHead = q.seg.Head().LoadAcquire()
		if tail-q.cachedHead > q.seg.Mask() {
			return ErrWouldBlock
		}
	}

	*q.seg.SlotData(tail) = *elem
	q.seg.Tail().StoreRelease(tail + 1)
	return nil
}

// TryPop removes and returns an element without blocking (consumer only).
// Returns (zero-value, ErrWouldBlock) if the ring is empty.
func (q *SPSC[T]) TryPop() (T, error) {
	if q.closed.LoadAcquire() {
		var zero T
		return zero, ErrInvalidParam
	}

	head := q.seg.Head().LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.seg.Tail().LoadAcquire()
		if head >= q.cachedTail {
			var zero T
			return zero, ErrWouldBlock
		}
	}

	elem := *q.seg.SlotData(head)
	var zero T
	*q.seg.SlotData(head) = zero
	q.seg.Head().StoreRelease(head + 1)
	return elem, nil
}

// Push adds an element, blocking with backoff until it succeeds or ctx is
// done.
func (q *SPSC[T]) Push(ctx context.Context, elem *T) error {
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
func (q *SPSC[T]) Pop(ctx context.Context) (T, error) {
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
func (q *SPSC[T]) Pending() uint64 {
	tail := q.seg.Tail().LoadAcquire()
	head := q.seg.Head().LoadAcquire()
	return tail - head
}

// Available is an estimate of the number of free slots.
func (q *SPSC[T]) Available() uint64 {
	return q.seg.Capacity() - q.Pending()
}

// Full reports whether the ring appeared full at the moment of the call.
func (q *SPSC[T]) Full() bool { return q.Pending() >= q.seg.Capacity() }

// Empty reports whether the ring appeared empty at the moment of the call.
func (q *SPSC[T]) Empty() bool { return q.Pending() == 0 }

// Cap returns the ring capacity.
func (q *SPSC[T]) Cap() int { return int(q.seg.Capacity()) }

// Close releases the backing memory region. Not safe to call concurrently
// with Push/Pop/TryPush/TryPop.
func (q *SPSC[T]) Close() error {
	if !q.closed.CompareAndSwapAcqRel(false, true) {
		return ErrInvalidParam
	}
	if q.closeFn == nil {
		return nil
	}
	return q.closeFn()
}
