package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fieldcrew/engineer-roster/internal/pkg/metrics"
	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Recorder persists a single activity entry.
type Recorder interface {
	Record(ctx context.Context, a domain.Activity) error
}

// Dispatcher routes activity entries to a fixed set of workers using
// consistent hashing on the engineer id, so entries for one engineer are
// written in publish order.
type Dispatcher struct {
	workers  []chan domain.Activity
	recorder Recorder
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder Recorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.Activity, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Activity, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// after writing whatever is still buffered.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker started by Start has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands an entry to the worker responsible for its engineer. It never
// blocks the request path: when the worker's buffer is full the entry is dropped.
func (d *Dispatcher) Publish(a domain.Activity) {
	idx := d.shardIndex(a.EngineerID)
	select {
	case d.workers[idx] <- a:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityErrorsTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().
			Str("engineer_id", a.EngineerID).
			Str("action", string(a.Action)).
			Int("worker_id", idx).
			Msg("activity queue full, entry dropped")
	}
}

// shardIndex maps an engineer id deterministically to a worker index.
func (d *Dispatcher) shardIndex(engineerID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(engineerID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Activity) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx), id, ch)
			return
		case a := <-ch:
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.record(ctx, id, a)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.Activity) {
	for {
		select {
		case a := <-ch:
			d.record(ctx, id, a)
		default:
			metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			return
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, a domain.Activity) {
	if err := d.recorder.Record(ctx, a); err != nil {
		d.log.Error().Err(err).
			Str("engineer_id", a.EngineerID).
			Int("worker_id", id).
			Msg("activity recording failed")
	}
}
