// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"code.ringfabric.dev/ring"
)

func TestPushBlocksUntilSpaceThenSucceeds(t *testing.T) {
	q, err := ring.NewLocalSPSC[int](1)
	if err != nil {
		t.Fatalf("NewLocalSPSC: %v", err)
	}
	defer q.Close()

	first := 1
	if err := q.TryPush(&first); err != nil {
		t.Fatalf("TryPush: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		v := 2
		done <- q.Push(context.Background(), &v)
	}()

	// give the blocked Push a moment to actually be retrying before we
	// free up space for it
	time.Sleep(10 * time.Millisecond)

	if _, err := q.TryPop(); err != nil {
		t.Fatalf("TryPop: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Push: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Push did not unblock after space became available")
	}

	got, err := q.TryPop()
	if err != nil {
		t.Fatalf("TryPop: %v", err)
	}
	if got != 2 {
		t.Fatalf("TryPop: got %d, want 2", got)
	}
}

func TestPushRespectsContextCancellation(t *testing.T) {
	q, err := ring.NewLocalSPSC[int](1)
	if err != nil {
		t.Fatalf("NewLocalSPSC: %v", err)
	}
	defer q.Close()

	first := 1
	if err := q.TryPush(&first); err != nil {
		t.Fatalf("TryPush: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	v := 2
	err = q.Push(ctx, &v)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Push on full ring with expiring context: got %v, want context.DeadlineExceeded", err)
	}
}

func TestPopRespectsContextCancellation(t *testing.T) {
	q, err := ring.NewLocalMPMC[int](4)
	if err != nil {
		t.Fatalf("NewLocalMPMC: %v", err)
	}
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = q.Pop(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Pop on empty ring with expiring context: got %v, want context.DeadlineExceeded", err)
	}
}
