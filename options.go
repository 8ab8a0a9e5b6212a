package pdfoutline

import (
	"log"

	"github.com/tsawler/pdfoutline/outline"
)

// ExtractOptions holds configuration for outline extraction.
type ExtractOptions struct {
	maxDepth int
	lenient  bool
	logger   *log.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		maxDepth: outline.DefaultMaxDepth,
		lenient:  false,
		logger:   nil, // silent
	}
}

// clone creates a copy of ExtractOptions. The logger is shared.
func (o ExtractOptions) clone() ExtractOptions {
	return ExtractOptions{
		maxDepth: o.maxDepth,
		lenient:  o.lenient,
		logger:   o.logger,
	}
}

// outlineOptions converts the options for outline.Extract.
func (o ExtractOptions) outlineOptions() []outline.Option {
	opts := []outline.Option{
		outline.WithMaxDepth(o.maxDepth),
		outline.WithLenientTitles(o.lenient),
	}
	if o.logger != nil {
		opts = append(opts, outline.WithLogger(o.logger))
	}
	return opts
}
