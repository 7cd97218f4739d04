package query

import (
	"github.com/go-kit/log"

	"github.com/roach88/wavequery/internal/vcd"
	"github.com/roach88/wavequery/internal/wave"
)

// Option configures a Reader.
type Option func(*options)

type options struct {
	opener  wave.Opener
	logger  log.Logger
	metrics *Metrics
	linear  bool
}

func defaultOptions() options {
	return options{
		opener: vcd.Open,
		logger: log.NewNopLogger(),
	}
}

// WithOpener sets the decoder used by Open. The default reads VCD files.
func WithOpener(o wave.Opener) Option {
	return func(opts *options) {
		if o != nil {
			opts.opener = o
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(opts *options) {
		if l != nil {
			opts.logger = l
		}
	}
}

// WithMetrics records query outcomes to m.
func WithMetrics(m *Metrics) Option {
	return func(opts *options) {
		opts.metrics = m
	}
}

// WithLinearLookup resolves every name by scanning the decoder's variable
// list instead of using the index built at open. Results are identical.
func WithLinearLookup() Option {
	return func(opts *options) {
		opts.linear = true
	}
}
