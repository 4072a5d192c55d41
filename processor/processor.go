// Package processor batches trace records, converts each batch into
// pprof profiles, and hands them to an uploader. It runs a pipeline of
// batcher goroutines feeding a single consumer.
package processor

import (
	"context"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tracescope/collector"
	"tracescope/config"
	"tracescope/converter"
	"tracescope/journal"
	"tracescope/measure"
)

// Uploader receives each converted profile together with its sample-type
// configuration. sender.Sender satisfies it.
type Uploader interface {
	SendProfile(prof *profile.Profile, sampleTypes map[string]map[string]interface{}) error
}

// outgoing pairs a profile with its sample-type metadata.
type outgoing struct {
	prof        *profile.Profile
	sampleTypes map[string]map[string]interface{}
}

// Processor handles batching, conversion, and upload of trace records.
type Processor struct {
	config   *config.Config
	uploader Uploader
	journal  *journal.Writer // optional tee of every record
	logger   *zap.Logger

	bulkAmount int        // records accumulated across batchers
	mu         sync.Mutex // guards bulkAmount
}

// New creates a processor. uploader may be nil when only journaling.
func New(cfg *config.Config, uploader Uploader, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		config:   cfg,
		uploader: uploader,
		logger:   logger,
	}
}

// SetJournal tees every processed record into w.
func (p *Processor) SetJournal(w *journal.Writer) {
	p.journal = w
}

// RecordSink adapts a record channel into a collector.Sink.
func RecordSink(ch chan<- collector.Record) collector.Sink {
	return func(r collector.Record) error {
		ch <- r
		return nil
	}
}

// Process consumes records until the channel closes or the context is
// cancelled, flushing batches by size limit and interval.
func (p *Processor) Process(ctx context.Context, records <-chan collector.Record) error {
	concurrency := p.config.ConcurrentLimit
	if concurrency <= 0 {
		concurrency = 1
	}
	profiles := make(chan outgoing, concurrency)

	g, ctx := errgroup.WithContext(ctx)

	batchers, bctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrency; i++ {
		batchers.Go(func() error {
			return p.batch(bctx, records, profiles)
		})
	}
	g.Go(func() error {
		defer close(profiles)
		return batchers.Wait()
	})
	g.Go(func() error {
		return p.consume(profiles)
	})

	return g.Wait()
}

// batch accumulates records and flushes them when either the batch size
// limit is reached or the flush interval elapses.
func (p *Processor) batch(ctx context.Context, records <-chan collector.Record, profiles chan<- outgoing) error {
	var pending []collector.Record
	windowStart := time.Now()

	interval := p.config.FlushInterval()
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case rec, ok := <-records:
			if !ok {
				return p.flush(ctx, pending, windowStart, profiles)
			}

			if p.journal != nil {
				if err := p.journal.Append(rec); err != nil {
					return err
				}
			}
			pending = append(pending, rec)

			p.mu.Lock()
			p.bulkAmount++
			currentBulkAmount := p.bulkAmount
			p.mu.Unlock()

			if currentBulkAmount >= p.config.BatchLimit {
				if err := p.flush(ctx, pending, windowStart, profiles); err != nil {
					return err
				}
				pending = nil
				windowStart = time.Now()
				p.refreshCounters()
				timer.Reset(interval)
			}

		case <-timer.C:
			if len(pending) > 0 {
				if err := p.flush(ctx, pending, windowStart, profiles); err != nil {
					return err
				}
				pending = nil
				windowStart = time.Now()
				p.refreshCounters()
			}
			// Small buffer past the interval to avoid exact timing conflicts.
			timer.Reset(interval + 100*time.Millisecond)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// flush measures one batch and pushes its call and coverage profiles.
func (p *Processor) flush(ctx context.Context, batch []collector.Record, start time.Time, profiles chan<- outgoing) error {
	if len(batch) == 0 {
		return nil
	}

	report := measure.Measure(batch)
	report.Aggregate()
	duration := time.Since(start)

	p.logger.Debug("flushing batch",
		zap.Int("records", len(batch)),
		zap.Int("edges", len(report.CallTimes)),
		zap.Duration("window", duration))

	calls, err := converter.CallProfile(report, start, duration)
	if err != nil {
		return err
	}
	coverage, err := converter.CoverageProfile(report, start, duration)
	if err != nil {
		return err
	}

	for _, out := range []outgoing{
		{prof: calls, sampleTypes: converter.CallSampleTypes},
		{prof: coverage, sampleTypes: converter.CoverageSampleTypes},
	} {
		select {
		case profiles <- out:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// consume uploads converted profiles. Upload failures are logged and
// skipped so one bad window does not stall the pipeline.
func (p *Processor) consume(profiles <-chan outgoing) error {
	for out := range profiles {
		if p.uploader == nil {
			continue
		}
		if err := p.uploader.SendProfile(out.prof, out.sampleTypes); err != nil {
			p.logger.Error("sending profile", zap.Error(err))
		}
	}
	return nil
}

// refreshCounters resets the shared batch counter under mutex protection.
func (p *Processor) refreshCounters() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bulkAmount = 0
}
