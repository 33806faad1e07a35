package voice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jitendra20661/cbct-fyp/internal/observability/metrics"
	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

// Worker drains the call queue and walks each job through its lifecycle.
type Worker struct {
	queue     Queue
	tracker   *Tracker
	metrics   *metrics.APIMetrics
	logger    *logging.Logger
	stepDelay time.Duration
}

// NewWorker creates a Worker. stepDelay is the pause between lifecycle
// transitions; zero keeps the default.
func NewWorker(queue Queue, tracker *Tracker, m *metrics.APIMetrics, logger *logging.Logger, stepDelay time.Duration) *Worker {
	if logger == nil {
		logger = logging.Default()
	}
	if stepDelay <= 0 {
		stepDelay = 2 * time.Second
	}
	return &Worker{queue: queue, tracker: tracker, metrics: m, logger: logger, stepDelay: stepDelay}
}

// Run consumes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("voice worker started")
	for {
		msgs, err := w.queue.Receive(ctx, 10, 5)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.logger.Info("voice worker stopped")
				return
			}
			w.logger.Error("voice worker receive failed", "error", err)
			continue
		}
		for _, msg := range msgs {
			w.process(ctx, msg.Body)
		}
	}
}

func (w *Worker) process(ctx context.Context, body string) {
	var job CallJob
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		w.logger.Error("voice worker: bad job payload", "error", err)
		return
	}

	w.logger.Info("voice call starting", "call_id", job.ID, "kind", job.Kind)
	w.tracker.Set(job.ID, StatusDialing, "")

	steps := []string{StatusInProgress, StatusCompleted}
	for _, status := range steps {
		select {
		case <-ctx.Done():
			w.tracker.Set(job.ID, StatusFailed, "worker shutting down")
			return
		case <-time.After(w.stepDelay):
		}
		w.tracker.Set(job.ID, status, "")
	}
	w.logger.Info("voice call completed", "call_id", job.ID)
}
