// Package render writes outline trees as indented text or JSON.
package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/pdfoutline/outline"
)

// Untitled is printed in place of a missing title.
const Untitled = "<Untitled>"

// Text writes one line per item, "- " followed by the title, indented by
// four spaces per level.
func Text(w io.Writer, items []outline.Item) error {
	bw := bufio.NewWriter(w)
	writeText(bw, items, 0)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", outline.ErrSerialization, err)
	}
	return nil
}

func writeText(w *bufio.Writer, items []outline.Item, depth int) {
	indent := strings.Repeat("  ", depth*2)
	for _, it := range items {
		title := Untitled
		if it.Title != nil {
			title = *it.Title
		}
		w.WriteString(indent)
		w.WriteString("- ")
		w.WriteString(title)
		w.WriteByte('\n')
		writeText(w, it.Children, depth+1)
	}
}

// JSON writes items as an indented JSON array of {"title", "children"}
// objects followed by a newline. Missing titles are null and children is
// always an array.
func JSON(w io.Writer, items []outline.Item) error {
	data, err := json.MarshalIndent(normalize(items), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", outline.ErrSerialization, err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", outline.ErrSerialization, err)
	}
	return nil
}

// normalize replaces nil child slices so they encode as [] rather than null.
func normalize(items []outline.Item) []outline.Item {
	out := make([]outline.Item, len(items))
	for i, it := range items {
		out[i] = outline.Item{Title: it.Title, Children: normalize(it.Children)}
	}
	return out
}
