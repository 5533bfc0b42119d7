package sweep

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	t.Run("clamps concurrency into effective range", func(t *testing.T) {
		assert.Equal(t, 1, NewScheduler(0).Concurrency())
		assert.Equal(t, 1, NewScheduler(-7).Concurrency())
		assert.Equal(t, 200, NewScheduler(5000).Concurrency())
		assert.Equal(t, 50, NewScheduler(50).Concurrency())
	})
}

func TestSchedulerRun(t *testing.T) {
	t.Run("returns one outcome per task", func(t *testing.T) {
		tasks := make([]Task, 100)
		for i := range tasks {
			tasks[i] = Task{Host: fmt.Sprintf("10.0.0.%d", i), Port: 80}
		}

		s := NewScheduler(8)
		outcomes := s.Run(context.Background(), phaseScan, tasks, func(_ context.Context, task Task) bool {
			return task.Port == 80
		})

		require.Len(t, outcomes, len(tasks))
		seen := make(map[string]struct{})
		for _, o := range outcomes {
			assert.True(t, o.Positive)
			seen[o.Task.Host] = struct{}{}
		}
		assert.Len(t, seen, len(tasks))
	})

	t.Run("never exceeds the concurrency bound", func(t *testing.T) {
		const bound = 5

		var current, highwater int64
		tasks := make([]Task, 60)
		for i := range tasks {
			tasks[i] = Task{Host: fmt.Sprintf("10.0.1.%d", i)}
		}

		s := NewScheduler(bound)
		s.Run(context.Background(), phasePing, tasks, func(_ context.Context, _ Task) bool {
			inFlight := atomic.AddInt64(&current, 1)
			for {
				max := atomic.LoadInt64(&highwater)
				if inFlight <= max || atomic.CompareAndSwapInt64(&highwater, max, inFlight) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt64(&current, -1)
			return true
		})

		assert.LessOrEqual(t, atomic.LoadInt64(&highwater), int64(bound))
		assert.Positive(t, atomic.LoadInt64(&highwater))
	})

	t.Run("a panicking probe becomes a negative outcome", func(t *testing.T) {
		tasks := []Task{
			{Host: "10.0.0.1"},
			{Host: "10.0.0.2"},
			{Host: "10.0.0.3"},
		}

		s := NewScheduler(2)
		outcomes := s.Run(context.Background(), phasePing, tasks, func(_ context.Context, task Task) bool {
			if task.Host == "10.0.0.2" {
				panic("prober bug")
			}
			return true
		})

		require.Len(t, outcomes, 3)
		byHost := make(map[string]bool)
		for _, o := range outcomes {
			byHost[o.Task.Host] = o.Positive
		}
		assert.True(t, byHost["10.0.0.1"])
		assert.False(t, byHost["10.0.0.2"])
		assert.True(t, byHost["10.0.0.3"])
	})

	t.Run("empty task list yields no outcomes", func(t *testing.T) {
		s := NewScheduler(4)
		assert.Nil(t, s.Run(context.Background(), phasePing, nil, func(context.Context, Task) bool {
			return true
		}))
	})

	t.Run("slow probes do not block siblings beyond the pool", func(t *testing.T) {
		var mu sync.Mutex
		completed := make(map[string]struct{})

		tasks := []Task{{Host: "slow"}, {Host: "fast1"}, {Host: "fast2"}}
		s := NewScheduler(3)
		outcomes := s.Run(context.Background(), phasePing, tasks, func(_ context.Context, task Task) bool {
			if task.Host == "slow" {
				time.Sleep(30 * time.Millisecond)
			}
			mu.Lock()
			completed[task.Host] = struct{}{}
			mu.Unlock()
			return true
		})

		require.Len(t, outcomes, 3)
		assert.Len(t, completed, 3)
	})
}
