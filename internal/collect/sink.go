package collect

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/conduit-lang/aotcfg/internal/configure"
)

// Sink receives descriptors from one producer.
//
// Named and Proxy construct the descriptor, which validates every name.
// An invalid entry is recorded as a Rejection and never reaches the
// registry. The error is returned only when the collector is strict; the
// producer should then return it to abort the pass. In lenient mode the
// producer simply carries on.
type Sink interface {
	Named(name string) error
	Proxy(interfaces ...string) error
	// Add submits a descriptor that was constructed elsewhere.
	Add(d configure.Descriptor)
	// Reject records a value whose descriptor could not be constructed,
	// with the same strict-mode semantics as Named and Proxy.
	Reject(value string, err error) error
}

type sink struct {
	collector *Collector
	producer  string
	logger    *zap.Logger

	named      atomic.Int64
	proxy      atomic.Int64
	duplicates atomic.Int64
	rejected   atomic.Int64
}

func (s *sink) Named(name string) error {
	d, err := configure.NewNamed(name)
	if err != nil {
		return s.Reject(name, err)
	}
	s.Add(d)
	return nil
}

func (s *sink) Proxy(interfaces ...string) error {
	d, err := configure.NewProxy(interfaces...)
	if err != nil {
		return s.Reject(configure.ProxyLabel(interfaces...), err)
	}
	s.Add(d)
	return nil
}

func (s *sink) Add(d configure.Descriptor) {
	if configure.IsNil(d) {
		return
	}
	if s.collector.insert(d) {
		switch d.Kind() {
		case configure.KindNamed:
			s.named.Add(1)
		case configure.KindProxy:
			s.proxy.Add(1)
		}
		s.logger.Debug("descriptor added",
			zap.Stringer("kind", d.Kind()),
			zap.Stringer("descriptor", d),
		)
		return
	}
	s.duplicates.Add(1)
}

func (s *sink) Reject(value string, err error) error {
	rejection := Rejection{Producer: s.producer, Value: value, Err: err}
	s.collector.reject(rejection)
	s.rejected.Add(1)
	s.logger.Warn("descriptor rejected",
		zap.String("value", value),
		zap.Error(err),
	)
	if s.collector.strict {
		return rejection
	}
	return nil
}

func (s *sink) stats() ProducerStats {
	return ProducerStats{
		Name:       s.producer,
		Named:      int(s.named.Load()),
		Proxy:      int(s.proxy.Load()),
		Duplicates: int(s.duplicates.Load()),
		Rejected:   int(s.rejected.Load()),
	}
}
