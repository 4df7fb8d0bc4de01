package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	perrors "github.com/Iron-Ham/parsort/internal/errors"
)

func TestQueue_FIFO(t *testing.T) {
	q := New(4)
	ctx := context.Background()

	in := []Descriptor{{0, 0}, {0, 1}, {0, 2}, {1, 0}}
	for _, d := range in {
		if err := q.Push(ctx, d); err != nil {
			t.Fatalf("Push(%s): %v", d, err)
		}
	}
	if q.Len() != 4 {
		t.Errorf("Len() = %d, want 4", q.Len())
	}
	for _, want := range in {
		got, err := q.Pop(ctx)
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if got != want {
			t.Errorf("Pop() = %s, want %s", got, want)
		}
	}
	if q.Pushed() != 4 {
		t.Errorf("Pushed() = %d, want 4", q.Pushed())
	}
}

func TestNew_DefaultCapacity(t *testing.T) {
	if got := New(0).Cap(); got != DefaultCapacity {
		t.Errorf("Cap() = %d, want %d", got, DefaultCapacity)
	}
}

func TestQueue_PushBlocksWhenFull(t *testing.T) {
	q := New(1)
	if err := q.Push(context.Background(), Descriptor{}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Push(ctx, Descriptor{Level: 1})
	if !errors.Is(err, perrors.ErrShutdown) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Push() on full queue error = %v, want ErrShutdown wrapping DeadlineExceeded", err)
	}
	if q.Pushed() != 1 {
		t.Errorf("Pushed() = %d, want 1", q.Pushed())
	}
}

func TestQueue_CloseReleasesWaiters(t *testing.T) {
	q := New(1)
	errc := make(chan error, 1)
	go func() {
		_, err := q.Pop(context.Background())
		errc <- err
	}()

	q.Close()
	q.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, perrors.ErrShutdown) {
			t.Errorf("Pop() error = %v, want ErrShutdown", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not return after Close")
	}

	if err := q.Push(context.Background(), Descriptor{}); !errors.Is(err, perrors.ErrShutdown) {
		t.Errorf("Push() after Close error = %v, want ErrShutdown", err)
	}
}

func TestQueue_EachDescriptorReceivedOnce(t *testing.T) {
	const n = 200
	q := New(DefaultCapacity)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	seen := make(map[Descriptor]int)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				d, err := q.Pop(ctx)
				if err != nil {
					return
				}
				mu.Lock()
				seen[d]++
				done := len(seen) == n
				mu.Unlock()
				if done {
					cancel()
				}
			}
		}()
	}

	for i := 0; i < n; i++ {
		if err := q.Push(ctx, Descriptor{Level: 0, Index: i}); err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("received %d distinct descriptors, want %d", len(seen), n)
	}
	for d, count := range seen {
		if count != 1 {
			t.Errorf("descriptor %s received %d times, want 1", d, count)
		}
	}
}
