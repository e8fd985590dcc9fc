package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/zapzap/zapzap/qnet"
)

// BatchTimeout is the per-round deadline of §5. When it fires, the
// round's context is canceled: workers still waiting for a concurrency
// slot give up and count as failed, but a worker already running its
// batch is not interrupted, and no worker is replaced because of the
// timeout.
const BatchTimeout = 120 * time.Second

// ShutdownGrace is how long a caller should wait for in-flight batches
// to finish on their own after Stop before giving up on them (§5).
const ShutdownGrace = 5 * time.Second

// Pool fans a run_batch round out across W workers and joins their
// replies, bounding concurrency with a semaphore when MaxConcurrent is
// set below the worker count (e.g. --workers below GOMAXPROCS).
type Pool struct {
	Workers       []*Worker
	MaxConcurrent int
	Clock         quartz.Clock

	stopped bool
}

// NewPool builds a pool of numWorkers, each seeded independently from
// baseSeed and starting from the same weights/epsilon.
func NewPool(numWorkers int, maxConcurrent int, baseSeed int64, weights qnet.WeightsArtifact, epsilon float64) (*Pool, error) {
	if maxConcurrent <= 0 || maxConcurrent > numWorkers {
		maxConcurrent = numWorkers
	}
	p := &Pool{MaxConcurrent: maxConcurrent, Clock: quartz.NewReal()}
	for i := 0; i < numWorkers; i++ {
		w, err := NewWorker(i, baseSeed+int64(i), weights, epsilon)
		if err != nil {
			return nil, err
		}
		p.Workers = append(p.Workers, w)
	}
	return p, nil
}

// batchContext returns a context canceled either by the caller or by
// the pool's clock firing after BatchTimeout, so tests can drive the
// timeout deterministically through a quartz.Mock instead of waiting
// on real time.
func (p *Pool) batchContext(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	timer := p.Clock.AfterFunc(BatchTimeout, cancel)
	return ctx, func() {
		timer.Stop()
		cancel()
	}
}

// RunBatchRound dispatches msg to every worker (each with its own
// per-worker base seed offset so games don't collide across workers)
// and joins their results. A worker whose batch returns an error is
// recreated from scratch and its in-flight transitions are dropped; a
// worker that cannot start before BatchTimeout is counted as failed,
// but every other worker's reply is still returned — per §7's "one
// dead worker becomes one replaced worker," never the whole round.
// RunBatchRound only fails outright when every worker in the round
// failed, leaving nothing to report.
func (p *Pool) RunBatchRound(ctx context.Context, msg RunBatchMessage, weights qnet.WeightsArtifact, epsilon float64) ([]BatchCompleteReply, error) {
	if p.stopped {
		return nil, context.Canceled
	}

	runCtx, cancel := p.batchContext(ctx)
	defer cancel()

	var group errgroup.Group
	sem := semaphore.NewWeighted(int64(p.MaxConcurrent))

	replies := make([]BatchCompleteReply, len(p.Workers))
	failed := make([]bool, len(p.Workers))
	for i, worker := range p.Workers {
		i, worker := i, worker
		group.Go(func() error {
			if err := sem.Acquire(runCtx, 1); err != nil {
				failed[i] = true
				return nil
			}
			defer sem.Release(1)

			workerMsg := msg
			workerMsg.BaseSeed = msg.BaseSeed + int64(i)*int64(msg.BatchSize)

			stats, transitions, err := worker.RunBatch(workerMsg)
			if err != nil {
				failed[i] = true
				replacement, rerr := NewWorker(worker.ID, workerMsg.BaseSeed, weights, epsilon)
				if rerr == nil {
					p.Workers[i] = replacement
				}
				return nil
			}
			replies[i] = BatchCompleteReply{WorkerID: worker.ID, Stats: stats, Transitions: transitions}
			return nil
		})
	}
	group.Wait()
	return joinSucceeded(replies, failed)
}

// joinSucceeded keeps only the replies whose index isn't marked failed,
// failing the round outright only when nothing survived.
func joinSucceeded(replies []BatchCompleteReply, failed []bool) ([]BatchCompleteReply, error) {
	succeeded := make([]BatchCompleteReply, 0, len(replies))
	for i, reply := range replies {
		if !failed[i] {
			succeeded = append(succeeded, reply)
		}
	}
	if len(succeeded) == 0 {
		return nil, fmt.Errorf("orchestrator: every worker in the batch round failed")
	}
	return succeeded, nil
}

// BroadcastWeights pushes weights/epsilon to every worker and waits
// for every update to apply (§4.8 step 4's "await an acknowledgement").
func (p *Pool) BroadcastWeights(weights qnet.WeightsArtifact, epsilon float64) []WeightsUpdatedReply {
	replies := make([]WeightsUpdatedReply, 0, len(p.Workers))
	for _, w := range p.Workers {
		if err := w.ApplyWeights(weights, epsilon); err == nil {
			replies = append(replies, WeightsUpdatedReply{WorkerID: w.ID})
		}
	}
	return replies
}

// Stop marks the pool as no longer accepting new batch rounds (§5's
// "stop signal prevents new batches being dispatched"). In-flight
// batches are left to finish on their own; ShutdownGrace is the
// caller's budget for that before it should give up waiting.
func (p *Pool) Stop() {
	p.stopped = true
}

// Stopped reports whether Stop has been called.
func (p *Pool) Stopped() bool { return p.stopped }
