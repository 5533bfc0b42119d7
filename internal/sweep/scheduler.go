package sweep

import (
	"context"
	"sync"
	"time"

	"github.com/kmartell/netsweep/internal/logging"
	"github.com/kmartell/netsweep/internal/metrics"
)

// Task describes one probe: a host for reachability checks, or a host/port
// pair for port checks (Port is 0 for reachability tasks).
type Task struct {
	Host string
	Port int
}

// Outcome is the completed result of one task. Every submitted task
// produces exactly one outcome; failed probes surface as negative outcomes,
// never as errors.
type Outcome struct {
	Task     Task
	Positive bool
}

// ProbeFunc executes one task. Implementations resolve every internal
// failure to false.
type ProbeFunc func(ctx context.Context, task Task) bool

// Scheduler fans probe tasks out over a bounded pool of workers and fans
// all results back in. It guarantees nothing about execution or completion
// order; callers sort outcomes themselves.
type Scheduler struct {
	concurrency int
	metrics     *metrics.Metrics
	logger      *logging.Logger
}

// NewScheduler creates a scheduler with the given concurrency bound,
// clamped to [1, 200].
func NewScheduler(concurrency int) *Scheduler {
	if concurrency < minWorkers {
		concurrency = minWorkers
	}
	if concurrency > maxWorkers {
		concurrency = maxWorkers
	}
	return &Scheduler{
		concurrency: concurrency,
		metrics:     metrics.GetGlobal(),
		logger:      logging.Default().WithComponent("scheduler"),
	}
}

const (
	minWorkers = 1
	maxWorkers = 200
)

// Concurrency returns the effective worker bound.
func (s *Scheduler) Concurrency() int {
	return s.concurrency
}

// Run executes all tasks and returns one outcome per task once the batch
// has fully drained. No individual probe can abort its siblings or the
// batch.
func (s *Scheduler) Run(ctx context.Context, phase string, tasks []Task, probe ProbeFunc) []Outcome {
	if len(tasks) == 0 {
		return nil
	}

	workers := s.concurrency
	if workers > len(tasks) {
		workers = len(tasks)
	}

	s.logger.Debug("Starting probe batch",
		"phase", phase,
		"tasks", len(tasks),
		"workers", workers)

	jobs := make(chan Task)
	results := make(chan Outcome, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range jobs {
				results <- s.execute(ctx, phase, task, probe)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, task := range tasks {
			jobs <- task
		}
	}()

	outcomes := make([]Outcome, 0, len(tasks))
	for range tasks {
		outcomes = append(outcomes, <-results)
	}
	wg.Wait()

	s.logger.Debug("Probe batch drained", "phase", phase, "outcomes", len(outcomes))
	return outcomes
}

// execute runs a single task, converting any panic at the task boundary
// into a negative outcome so the batch always completes.
func (s *Scheduler) execute(ctx context.Context, phase string, task Task, probe ProbeFunc) (out Outcome) {
	out = Outcome{Task: task}

	s.metrics.AddActiveWorkers(1)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Probe panicked, recording negative outcome",
				"phase", phase,
				"host", task.Host,
				"port", task.Port,
				"panic", r)
			out.Positive = false
		}
		s.metrics.RecordProbeDuration(phase, time.Since(start))
		s.metrics.IncrementProbesTotal(phase, outcomeLabel(phase, out.Positive))
		s.metrics.AddActiveWorkers(-1)
	}()

	out.Positive = probe(ctx, task)
	return out
}

// outcomeLabel maps an outcome to its metric label.
func outcomeLabel(phase string, positive bool) string {
	if phase == phasePing {
		if positive {
			return "up"
		}
		return "down"
	}
	if positive {
		return "open"
	}
	return "closed"
}
