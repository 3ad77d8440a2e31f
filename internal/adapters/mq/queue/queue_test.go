package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/leaderview/internal/view"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, view.SelectMilestone{ID: "m1"}) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	event := <-q.Dequeue(ctx)
	sel, ok := event.(view.SelectMilestone)
	if !ok || sel.ID != "m1" {
		t.Errorf("expected SelectMilestone m1, got %#v", event)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, view.NextPage{}) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, view.NextPage{}) {
		t.Error("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, view.PrevPage{}) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
	if c := q.Capacity(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, view.Mount{}) {
		t.Error("expected enqueue to fail with a cancelled context")
	}
}

func TestInMemoryQueue_PreservesOrder(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(50))
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		q.Enqueue(ctx, view.LeaderboardLoaded{Seq: uint64(i)})
	}
	_ = q.Close()

	var want uint64
	for event := range q.Dequeue(ctx) {
		got := event.(view.LeaderboardLoaded).Seq
		if got != want {
			t.Fatalf("expected seq %d, got %d", want, got)
		}
		want++
	}
	if want != 50 {
		t.Errorf("expected 50 events, got %d", want)
	}
}

func TestInMemoryQueue_ConcurrentProducers(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(16))
	ctx := context.Background()
	const producers, perProducer = 8, 100

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				for !q.Enqueue(ctx, view.NextPage{}) {
					time.Sleep(time.Millisecond)
				}
			}
		}()
	}

	received := make(chan int)
	go func() {
		n := 0
		for range q.Dequeue(ctx) {
			n++
		}
		received <- n
	}()

	wg.Wait()
	_ = q.Close()

	select {
	case n := <-received:
		if n != producers*perProducer {
			t.Errorf("expected %d events, got %d", producers*perProducer, n)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not finish")
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, view.NextPage{}) {
		t.Error("expected enqueue to succeed")
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if q.Enqueue(ctx, view.NextPage{}) {
		t.Error("expected enqueue to fail after closing")
	}

	events := q.Dequeue(ctx)
	if _, ok := <-events; !ok {
		t.Error("expected the pending event to be delivered after close")
	}
	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected dequeue channel to be closed")
		}
	case <-time.After(time.Second):
		t.Error("expected dequeue channel to be closed within timeout")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}

func TestInMemoryQueue_EnqueueWaitBlocksUntilRoom(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()

	if !q.Enqueue(ctx, view.NextPage{}) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, view.PrevPage{}) {
		t.Fatal("expected non-blocking enqueue to fail when full")
	}

	delivered := make(chan bool, 1)
	go func() {
		delivered <- q.EnqueueWait(ctx, view.LeaderboardLoaded{Milestone: "m1", Seq: 1})
	}()

	select {
	case <-delivered:
		t.Fatal("expected EnqueueWait to block while the queue is full")
	case <-time.After(50 * time.Millisecond):
	}

	out := q.Dequeue(ctx)
	if _, ok := (<-out).(view.NextPage); !ok {
		t.Fatal("expected the queued action first")
	}
	select {
	case ok := <-delivered:
		if !ok {
			t.Fatal("expected EnqueueWait to succeed once there was room")
		}
	case <-time.After(time.Second):
		t.Fatal("EnqueueWait did not return after room was made")
	}
	if loaded, ok := (<-out).(view.LeaderboardLoaded); !ok || loaded.Milestone != "m1" {
		t.Fatalf("expected the fetch result next, got %#v", loaded)
	}
}

func TestInMemoryQueue_EnqueueWaitReleasedByClose(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()
	q.Enqueue(ctx, view.NextPage{})

	delivered := make(chan bool, 1)
	go func() {
		delivered <- q.EnqueueWait(ctx, view.NextPage{})
	}()
	time.Sleep(20 * time.Millisecond)

	closed := make(chan struct{})
	go func() {
		_ = q.Close()
		close(closed)
	}()

	select {
	case ok := <-delivered:
		if ok {
			t.Fatal("expected EnqueueWait to fail on a closed queue")
		}
	case <-time.After(time.Second):
		t.Fatal("EnqueueWait was not released by Close")
	}
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
}

func TestInMemoryQueue_EnqueueWaitCancelled(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	q.Enqueue(context.Background(), view.NextPage{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if q.EnqueueWait(ctx, view.NextPage{}) {
		t.Fatal("expected EnqueueWait to give up when ctx is done")
	}
}
