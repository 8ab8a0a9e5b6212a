package pdfoutline

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/tsawler/pdfoutline/outline"
	"github.com/tsawler/pdfoutline/reader"
	"github.com/tsawler/pdfoutline/render"
)

// Extractor provides a fluent interface for extracting PDF outlines.
// Each configuration method returns a new Extractor instance, allowing
// method chaining. The document is loaded on the first terminal
// operation; an Extractor must not be used from several goroutines at once.
type Extractor struct {
	// Source (exactly one is set)
	filename string
	data     []byte
	reader   *reader.Reader

	// Configuration
	options ExtractOptions
}

// clone creates a shallow copy of the Extractor with a copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		data:     e.data,
		reader:   e.reader,
		options:  e.options.clone(),
	}
}

// ensureReader loads the document if not already loaded.
func (e *Extractor) ensureReader() error {
	if e.reader != nil {
		return nil
	}

	var r *reader.Reader
	var err error
	switch {
	case e.data != nil:
		r, err = reader.Load(e.data)
	case e.filename != "":
		r, err = reader.Open(e.filename)
	default:
		err = fmt.Errorf("no document specified")
	}
	if err != nil {
		return fmt.Errorf("%w: %w", outline.ErrDocumentLoad, err)
	}

	e.reader = r
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Lenient decodes malformed UTF-16BE titles with replacement characters
// instead of failing.
//
// Example:
//
//	text, err := pdfoutline.Open("doc.pdf").Lenient().Text()
func (e *Extractor) Lenient() *Extractor {
	newExt := e.clone()
	newExt.options.lenient = true
	return newExt
}

// MaxDepth limits how deeply outline items may nest. Zero removes the limit.
func (e *Extractor) MaxDepth(depth int) *Extractor {
	newExt := e.clone()
	newExt.options.maxDepth = depth
	return newExt
}

// Logger traces visited references and decoded titles to l.
func (e *Extractor) Logger(l *log.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Items returns the outline tree.
func (e *Extractor) Items() ([]Item, error) {
	if err := e.ensureReader(); err != nil {
		return nil, err
	}
	return outline.Extract(e.reader, e.options.outlineOptions()...)
}

// Text returns the outline as indented text, one item per line.
func (e *Extractor) Text() (string, error) {
	var buf bytes.Buffer
	if err := e.WriteText(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JSON returns the outline as an indented JSON array.
func (e *Extractor) JSON() (string, error) {
	var buf bytes.Buffer
	if err := e.WriteJSON(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteText extracts the outline and writes it to w as indented text.
// Nothing is written if extraction fails.
func (e *Extractor) WriteText(w io.Writer) error {
	items, err := e.Items()
	if err != nil {
		return err
	}
	return render.Text(w, items)
}

// WriteJSON extracts the outline and writes it to w as JSON.
// Nothing is written if extraction fails.
func (e *Extractor) WriteJSON(w io.Writer) error {
	items, err := e.Items()
	if err != nil {
		return err
	}
	return render.JSON(w, items)
}
