package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errUnexpectedValue = errors.New("unexpected cached value")

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "leagues:active", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected loader to run once, got %d", got)
	}
}

func TestStore_GetExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	store.Set(context.Background(), "matches:live", []string{"a"})

	if _, ok := store.Get(context.Background(), "matches:live"); !ok {
		t.Fatal("expected fresh entry to be present")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := store.Get(context.Background(), "matches:live"); ok {
		t.Fatal("expected expired entry to be evicted")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	store.Set(context.Background(), "matches:live", 1)
	store.Set(context.Background(), "matches:upcoming", 2)
	store.Set(context.Background(), "leagues:active", 3)

	store.DeletePrefix(context.Background(), "matches:")

	if _, ok := store.Get(context.Background(), "matches:live"); ok {
		t.Fatal("expected matches:live to be deleted")
	}
	if _, ok := store.Get(context.Background(), "leagues:active"); !ok {
		t.Fatal("expected leagues:active to survive")
	}
}
