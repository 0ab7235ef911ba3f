package content

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGatherIsolatesFailures(t *testing.T) {
	boom := errors.New("boom")
	results := Gather(context.Background(), 2,
		Task{Name: "projects", Run: func(context.Context) error { return nil }},
		Task{Name: "events", Run: func(context.Context) error { return boom }},
		Task{Name: "videos", Run: func(context.Context) error { return nil }},
	)
	assert.Len(t, results, 3)
	assert.NoError(t, results["projects"])
	assert.ErrorIs(t, results["events"], boom)
	assert.NoError(t, results["videos"])
}

func TestGatherBoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	task := func(context.Context) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return nil
	}
	var tasks []Task
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		tasks = append(tasks, Task{Name: name, Run: task})
	}
	results := Gather(context.Background(), 2, tasks...)
	assert.Len(t, results, 6)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestGatherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	results := Gather(ctx, 1, Task{Name: "x", Run: func(context.Context) error { ran = true; return nil }})
	assert.False(t, ran)
	assert.ErrorIs(t, results["x"], context.Canceled)
}

func TestGatherEmpty(t *testing.T) {
	assert.Empty(t, Gather(context.Background(), 4))
}
