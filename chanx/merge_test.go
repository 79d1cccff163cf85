package chanx

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/baxromumarov/mpsc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_BasicFunctionality(t *testing.T) {
	ctx := context.Background()
	ch1 := make(chan int, 2)
	ch2 := make(chan int, 2)

	ch1 <- 1
	ch1 <- 2
	ch2 <- 3
	ch2 <- 4
	close(ch1)
	close(ch2)

	rx := Merge(ctx, ch1, ch2)
	defer rx.Close()

	// Should receive all values (order across inputs not guaranteed)
	var received []int
	for v := range rx.All() {
		received = append(received, v)
	}

	assert.ElementsMatch(t, []int{1, 2, 3, 4}, received)

	_, err := rx.Recv()
	assert.ErrorIs(t, err, mpsc.ErrNoSenders)
}

func TestMerge_NoChannels(t *testing.T) {
	rx := Merge[int](context.Background())
	defer rx.Close()

	// Should be closed immediately
	_, err := rx.Recv()
	assert.ErrorIs(t, err, mpsc.ErrNoSenders)
}

func TestMerge_PerInputOrder(t *testing.T) {
	const n = 200
	inputs := make([]chan int, 4)
	ins := make([]<-chan int, len(inputs))
	for i := range inputs {
		inputs[i] = make(chan int)
		ins[i] = inputs[i]
	}

	rx := Merge(context.Background(), ins...)
	defer rx.Close()

	var wg sync.WaitGroup
	for i, ch := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(ch)
			for j := range n {
				ch <- i*n + j
			}
		}()
	}

	last := map[int]int{}
	count := 0
	for v := range rx.All() {
		src := v / n
		if prev, ok := last[src]; ok {
			assert.Greater(t, v, prev)
		}
		last[src] = v
		count++
	}
	wg.Wait()
	assert.Equal(t, len(inputs)*n, count)
}

func TestMerge_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	open := make(chan int)
	rx := Merge(ctx, open)
	defer rx.Close()

	assert.Equal(t, 1, rx.TotalSenders())
	cancel()

	errCh := make(chan error, 1)
	go func() {
		_, err := rx.Recv()
		errCh <- err
	}()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, mpsc.ErrNoSenders)
	case <-time.After(time.Second):
		t.Fatal("Recv should fail once cancellation releases the input senders")
	}
}
