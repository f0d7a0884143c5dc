package snapshot

import (
	"github.com/hupe1980/bitkit"
	"github.com/hupe1980/bitkit/codec"
)

type options struct {
	codec    codec.Codec
	logger   *bitkit.Logger
	metrics  MetricsCollector
	pointers PointerStore
}

// Option configures snapshot encoding and the Manager.
//
// WithCodec applies to writes only: snapshots are self-describing, so reads
// always select the codec named in the header.
type Option func(*options)

// WithCodec configures the codec used to compress snapshot payloads.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger configures structured logging for snapshot operations.
// Pass nil to disable logging.
func WithLogger(logger *bitkit.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = bitkit.NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetrics configures a metrics collector for Manager operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &snapshot.BasicMetricsCollector{}
//	mgr := snapshot.NewManager(store, snapshot.WithMetrics(metrics))
//	// ... use mgr ...
//	stats := metrics.GetStats()
//	fmt.Printf("Saves: %d, bytes out: %d\n", stats.SaveCount, stats.SaveBytes)
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithPointerStore configures where the Manager commits the latest version
// of each snapshot name. The default keeps a CURRENT blob next to the
// snapshots; pass an s3.PointerStore to commit through DynamoDB instead.
func WithPointerStore(ps PointerStore) Option {
	return func(o *options) {
		o.pointers = ps
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:   codec.Default,
		logger:  bitkit.NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
