// Package pdfoutline provides a fluent API for extracting the bookmark
// outline of PDF files.
//
// Basic usage:
//
//	text, err := pdfoutline.Open("document.pdf").Text()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Print(text)
//
// With options:
//
//	items, err := pdfoutline.Open("report.pdf").
//	    Lenient().
//	    MaxDepth(32).
//	    Items()
//
// The outline, reader and render packages are also available for
// lower-level use.
package pdfoutline

import (
	"github.com/tsawler/pdfoutline/outline"
	"github.com/tsawler/pdfoutline/reader"
)

// Item is one bookmark of the outline tree.
type Item = outline.Item

// Open returns an Extractor for the PDF file at filename. The file is read
// when a terminal operation like Text() runs.
//
// Example:
//
//	text, err := pdfoutline.Open("document.pdf").Text()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns an Extractor for a PDF document held in memory.
//
// Example:
//
//	data, _ := os.ReadFile("document.pdf")
//	items, err := pdfoutline.FromBytes(data).Items()
func FromBytes(data []byte) *Extractor {
	return &Extractor{
		data:    data,
		options: defaultOptions(),
	}
}

// FromReader creates an Extractor from an already loaded reader.Reader.
// This is useful when the same document is inspected in other ways too.
//
// Example:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	json, err := pdfoutline.FromReader(r).JSON()
func FromReader(r *reader.Reader) *Extractor {
	return &Extractor{
		reader:  r,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	items := pdfoutline.Must(pdfoutline.Open("document.pdf").Items())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
