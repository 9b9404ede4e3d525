// Package collect drives an analysis pass: it runs descriptor producers
// concurrently against one registry, records the entries that fail
// validation and flushes the registry once every producer has finished.
package collect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/conduit-lang/aotcfg/internal/configure"
	"github.com/conduit-lang/aotcfg/internal/jsonwriter"
	"github.com/conduit-lang/aotcfg/internal/platform"
)

// ErrPassRunning is returned by Flush and Run while a pass is in flight.
var ErrPassRunning = errors.New("collection pass is still running")

// DefaultDedupeCacheSize bounds the recently-seen identity cache
const DefaultDedupeCacheSize = 1024

// Producer discovers descriptors and submits them to a Sink.
type Producer interface {
	// Name identifies the analysis step in diagnostics
	Name() string
	// Produce submits descriptors until done. Returning an error aborts
	// the pass.
	Produce(ctx context.Context, sink Sink) error
}

type producerFunc struct {
	name string
	fn   func(ctx context.Context, sink Sink) error
}

// ProducerFunc adapts a function to the Producer interface
func ProducerFunc(name string, fn func(ctx context.Context, sink Sink) error) Producer {
	return producerFunc{name: name, fn: fn}
}

func (p producerFunc) Name() string { return p.name }

func (p producerFunc) Produce(ctx context.Context, sink Sink) error {
	return p.fn(ctx, sink)
}

// Rejection records a descriptor that failed construction.
type Rejection struct {
	// Producer is the name of the analysis step that submitted the value
	Producer string
	// Value is a label for the rejected input
	Value string
	// Err is the construction error
	Err error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("%s: %s: %v", r.Producer, r.Value, r.Err)
}

func (r Rejection) Unwrap() error {
	return r.Err
}

// ProducerStats counts what one producer submitted during a pass. Named
// and Proxy count descriptors the producer added first.
type ProducerStats struct {
	Name       string
	Named      int
	Proxy      int
	Duplicates int
	Rejected   int
}

// Added is the number of new descriptors of either kind
func (s ProducerStats) Added() int {
	return s.Named + s.Proxy
}

// Result summarizes a completed pass.
type Result struct {
	PassID     string
	Added      int
	Duplicates int
	Rejected   []Rejection
	// Producers holds per-producer counts in the order the producers
	// were passed to Run
	Producers []ProducerStats
	Duration  time.Duration
}

// Err joins every rejection into one error, or returns nil.
func (r *Result) Err() error {
	if len(r.Rejected) == 0 {
		return nil
	}
	errs := make([]error, len(r.Rejected))
	for i, rejection := range r.Rejected {
		errs[i] = rejection
	}
	return errors.Join(errs...)
}

// Option configures a Collector
type Option func(*Collector)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStrict makes the first rejected entry abort the pass.
func WithStrict(strict bool) Option {
	return func(c *Collector) {
		c.strict = strict
	}
}

// WithMaxWorkers bounds how many producers run at once. Zero or less
// means runtime.NumCPU().
func WithMaxWorkers(n int) Option {
	return func(c *Collector) {
		c.maxWorkers = n
	}
}

// WithDedupeCacheSize sets the size of the recently-seen identity cache.
func WithDedupeCacheSize(size int) Option {
	return func(c *Collector) {
		c.cacheSize = size
	}
}

// WithIndent sets the indentation used by Flush.
func WithIndent(spaces int) Option {
	return func(c *Collector) {
		c.indent = spaces
	}
}

// Collector owns the discipline around a registry: concurrent producers
// add to it during Run, and Flush serializes it only when no pass is in
// flight.
type Collector struct {
	registry   *configure.Registry
	logger     *zap.Logger
	strict     bool
	maxWorkers int
	cacheSize  int
	indent     int

	// seen short-circuits duplicate submissions before they reach the
	// registry lock. The registry stays authoritative.
	seen *lru.Cache[string, struct{}]

	nanotime func() (int64, error)

	// running refuses a second pass. pass is held exclusively by Run and
	// shared by Flush, so serialization and insertion never overlap.
	running atomic.Bool
	pass    sync.RWMutex

	mu       sync.Mutex
	rejected []Rejection
}

// New creates a Collector that fills reg.
func New(reg *configure.Registry, opts ...Option) (*Collector, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	c := &Collector{
		registry:  reg,
		logger:    zap.NewNop(),
		cacheSize: DefaultDedupeCacheSize,
		indent:    jsonwriter.DefaultIndent,
		nanotime:  platform.NanoTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxWorkers <= 0 {
		c.maxWorkers = runtime.NumCPU()
	}

	seen, err := lru.New[string, struct{}](c.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create dedupe cache: %w", err)
	}
	c.seen = seen

	return c, nil
}

// Registry returns the registry being filled
func (c *Collector) Registry() *configure.Registry {
	return c.registry
}

// Run executes the producers and waits for all of them. In strict mode the
// first rejection cancels the remaining producers and is returned. A
// producer error always aborts the pass. The returned Result is non-nil
// whenever the pass started.
func (c *Collector) Run(ctx context.Context, producers ...Producer) (*Result, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrPassRunning
	}
	defer c.running.Store(false)

	// wait out a Flush that started before this pass
	c.pass.Lock()
	defer c.pass.Unlock()

	start, err := c.nanotime()
	if err != nil {
		return nil, err
	}

	passID := uuid.NewString()
	logger := c.logger.With(zap.String("pass_id", passID))
	logger.Info("collection pass started",
		zap.Int("producers", len(producers)),
		zap.Bool("strict", c.strict),
		zap.Int("max_workers", c.maxWorkers),
	)

	c.mu.Lock()
	c.rejected = nil
	c.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxWorkers)

	sinks := make([]*sink, len(producers))
	for i, p := range producers {
		p := p
		s := &sink{
			collector: c,
			producer:  p.Name(),
			logger:    logger.With(zap.String("producer", p.Name())),
		}
		sinks[i] = s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := p.Produce(gctx, s); err != nil {
				return fmt.Errorf("producer %s: %w", p.Name(), err)
			}
			return nil
		})
	}
	runErr := g.Wait()

	var elapsed time.Duration
	if now, err := c.nanotime(); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to read pass end time: %w", err))
	} else {
		elapsed = time.Duration(now - start)
	}

	c.mu.Lock()
	rejected := c.rejected
	c.rejected = nil
	c.mu.Unlock()

	result := &Result{
		PassID:    passID,
		Rejected:  rejected,
		Producers: make([]ProducerStats, len(sinks)),
		Duration:  elapsed,
	}
	for i, s := range sinks {
		stats := s.stats()
		result.Producers[i] = stats
		result.Added += stats.Added()
		result.Duplicates += stats.Duplicates
	}

	fields := []zap.Field{
		zap.Int("added", result.Added),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("rejected", len(result.Rejected)),
		zap.Int("total", c.registry.Len()),
		zap.Duration("duration", result.Duration),
	}
	if runErr != nil {
		logger.Error("collection pass aborted", append(fields, zap.Error(runErr))...)
		return result, runErr
	}
	logger.Info("collection pass finished", fields...)
	return result, nil
}

// Flush serializes the registry to w. It refuses to run while a pass is
// in flight so the output never reflects a partial pass.
func (c *Collector) Flush(w io.Writer) error {
	if !c.pass.TryRLock() {
		return ErrPassRunning
	}
	defer c.pass.RUnlock()
	if c.running.Load() {
		return ErrPassRunning
	}
	return c.registry.Serialize(w, jsonwriter.WithIndent(c.indent))
}

func (c *Collector) reject(r Rejection) {
	c.mu.Lock()
	c.rejected = append(c.rejected, r)
	c.mu.Unlock()
}

// insert adds d and reports whether it was new.
func (c *Collector) insert(d configure.Descriptor) bool {
	key := configure.IdentityKey(d)
	if c.seen.Contains(key) {
		return false
	}
	inserted := c.registry.Add(d)
	c.seen.Add(key, struct{}{})
	return inserted
}
