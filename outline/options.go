package outline

import "log"

// DefaultMaxDepth is the nesting limit used unless WithMaxDepth says otherwise.
const DefaultMaxDepth = 256

// Option configures extraction
type Option func(*options)

type options struct {
	maxDepth int
	lenient  bool
	logger   *log.Logger
}

func newOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxDepth sets the maximum nesting depth (default: 256). Zero or a
// negative value removes the limit.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithLenientTitles makes malformed UTF-16BE titles decode with U+FFFD
// replacement characters instead of failing with ErrDecodeUTF16.
func WithLenientTitles(lenient bool) Option {
	return func(o *options) {
		o.lenient = lenient
	}
}

// WithLogger enables a trace of visited references and decoded titles.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func (o options) logf(format string, args ...interface{}) {
	if o.logger != nil {
		o.logger.Printf(format, args...)
	}
}
