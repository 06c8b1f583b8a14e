package queue

import (
	"sync"
	"testing"
	"time"
)

func TestUnbounded_FIFO(t *testing.T) {
	q := New[int]()
	for i := 0; i < 1000; i++ {
		q.Push(i)
	}
	if got := q.Len(); got != 1000 {
		t.Fatalf("Len() = %d, want 1000", got)
	}
	for i := 0; i < 1000; i++ {
		v, ok := q.TryPop()
		if !ok {
			t.Fatalf("TryPop() empty at %d", i)
		}
		if v != i {
			t.Fatalf("TryPop() = %d, want %d", v, i)
		}
	}
	if _, ok := q.TryPop(); ok {
		t.Error("TryPop() on drained queue returned ok")
	}
}

func TestUnbounded_ReadySignalsUntilDrained(t *testing.T) {
	q := New[string]()
	q.Push("a")
	q.Push("b")

	var got []string
	for len(got) < 2 {
		select {
		case <-q.Ready():
			if v, ok := q.TryPop(); ok {
				got = append(got, v)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Ready() not signalled, got %v", got)
		}
	}
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("got %v, want [a b]", got)
	}
}

func TestUnbounded_ConcurrentProducers(t *testing.T) {
	q := New[int]()
	const producers, perProducer = 8, 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(i)
			}
		}()
	}

	received := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for received < producers*perProducer {
		select {
		case <-q.Ready():
			for {
				if _, ok := q.TryPop(); !ok {
					break
				}
				received++
			}
		case <-deadline:
			t.Fatalf("received %d of %d", received, producers*perProducer)
		}
	}
	<-done
	if q.Len() != 0 {
		t.Errorf("Len() = %d after drain", q.Len())
	}
}

func TestUnbounded_PushFront(t *testing.T) {
	q := New[int]()
	q.PushFront(1)
	q.Push(2)
	q.Push(3)
	v, _ := q.TryPop()
	q.PushFront(v)
	q.PushFront(0)

	select {
	case <-q.Ready():
	default:
		t.Fatal("Ready() not signalled after PushFront")
	}
	for want := 0; want <= 3; want++ {
		v, ok := q.TryPop()
		if !ok || v != want {
			t.Fatalf("TryPop() = %d, %v; want %d", v, ok, want)
		}
	}
}
