package reader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/pdfoutline/core"
	"github.com/tsawler/pdfoutline/internal/pdftest"
)

func outlineDocument() *pdftest.Builder {
	return pdftest.New().
		Add(1, "<< /Type /Catalog /Outlines 2 0 R >>").
		Add(2, "<< /Type /Outlines /First 3 0 R /Count 1 >>").
		Add(3, "<< /Title (Chapter 1) /Parent 2 0 R >>").
		Trailer("/Root 1 0 R")
}

// createTempPDF creates a temporary PDF file with the given content
func createTempPDF(t *testing.T, content []byte) string {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(tmpFile, content, 0644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	return tmpFile
}

func mustLoad(t *testing.T, data []byte) *Reader {
	t.Helper()
	r, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return r
}

func title(t *testing.T, obj core.Object) string {
	t.Helper()
	dict, ok := obj.(core.Dict)
	if !ok {
		t.Fatalf("expected Dict, got %s", core.TypeOf(obj))
	}
	s, _ := dict.GetString("Title")
	return string(s)
}

// TestOpen tests opening a PDF file
func TestOpen(t *testing.T) {
	path := createTempPDF(t, outlineDocument().Bytes())

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if r.Version().String() != "1.7" {
		t.Errorf("expected version 1.7, got %s", r.Version())
	}
}

// TestOpenNonExistent tests opening a missing file
func TestOpenNonExistent(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error, got nil")
	}
}

// TestNewReader tests loading from an io.ReadSeeker
func TestNewReader(t *testing.T) {
	rs := bytes.NewReader(outlineDocument().Bytes())
	rs.Seek(100, 0)

	r, err := NewReader(rs)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	obj, err := r.Lookup(core.IndirectRef{Number: 3})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got := title(t, obj); got != "Chapter 1" {
		t.Errorf("unexpected title %q", got)
	}
}

// TestParseHeader tests header detection
func TestParseHeader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PDFVersion
		wantErr bool
	}{
		{"1.4", "%PDF-1.4\n", PDFVersion{1, 4}, false},
		{"2.0", "%PDF-2.0\r\n", PDFVersion{2, 0}, false},
		{"junk before header", "garbage\n%PDF-1.6\n", PDFVersion{1, 6}, false},
		{"header too late", strings.Repeat(" ", 1100) + "%PDF-1.4", PDFVersion{}, true},
		{"not a PDF", "hello world", PDFVersion{}, true},
		{"bad version", "%PDF-x.y", PDFVersion{}, true},
		{"empty", "", PDFVersion{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHeader([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestTrailer tests trailer access
func TestTrailer(t *testing.T) {
	r := mustLoad(t, outlineDocument().Bytes())

	ref, ok := r.Trailer().GetIndirectRef("Root")
	if !ok || ref.Number != 1 {
		t.Errorf("expected /Root 1 0 R, got %v", r.Trailer().Get("Root"))
	}
	if r.NumObjects() != 4 {
		t.Errorf("expected 4 objects, got %d", r.NumObjects())
	}
	if r.Repaired() {
		t.Error("expected intact xref")
	}
}

// TestLookup tests object lookup and its failure modes
func TestLookup(t *testing.T) {
	r := mustLoad(t, outlineDocument().Bytes())

	obj, err := r.Lookup(core.IndirectRef{Number: 1})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if typ, _ := obj.(core.Dict).GetName("Type"); typ != "Catalog" {
		t.Errorf("expected catalog, got %v", obj)
	}

	tests := []struct {
		name string
		ref  core.IndirectRef
	}{
		{"not in xref", core.IndirectRef{Number: 42}},
		{"free entry", core.IndirectRef{Number: 0}},
		{"generation mismatch", core.IndirectRef{Number: 3, Generation: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Lookup(tt.ref); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// TestGetObjectCaching tests that objects are parsed once
func TestGetObjectCaching(t *testing.T) {
	r := mustLoad(t, outlineDocument().Bytes())

	if r.CacheSize() != 0 {
		t.Errorf("expected empty cache, got %d", r.CacheSize())
	}
	first, _ := r.GetObject(2)
	second, _ := r.GetObject(2)
	if r.CacheSize() != 1 {
		t.Errorf("expected 1 cached object, got %d", r.CacheSize())
	}
	if first.String() != second.String() {
		t.Error("expected the same object from the cache")
	}

	r.ClearCache()
	if r.CacheSize() != 0 {
		t.Errorf("expected empty cache after ClearCache, got %d", r.CacheSize())
	}
}

// TestResolve tests resolving references and direct objects
func TestResolve(t *testing.T) {
	r := mustLoad(t, outlineDocument().Bytes())

	obj, err := r.Resolve(core.IndirectRef{Number: 3})
	if err != nil || title(t, obj) != "Chapter 1" {
		t.Errorf("unexpected result %v, %v", obj, err)
	}

	direct := core.Int(7)
	obj, err = r.Resolve(direct)
	if err != nil || obj != direct {
		t.Errorf("expected direct object back, got %v, %v", obj, err)
	}
}

// TestXRefStreamDocument tests compressed objects in object streams
func TestXRefStreamDocument(t *testing.T) {
	data := outlineDocument().Version("1.5").XRefStreamBytes(2, 3)
	r := mustLoad(t, data)

	if r.Version().String() != "1.5" {
		t.Errorf("expected version 1.5, got %s", r.Version())
	}

	obj, err := r.Lookup(core.IndirectRef{Number: 3})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got := title(t, obj); got != "Chapter 1" {
		t.Errorf("unexpected title %q", got)
	}

	obj, err = r.Lookup(core.IndirectRef{Number: 2})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if ref, ok := obj.(core.Dict).GetIndirectRef("First"); !ok || ref.Number != 3 {
		t.Errorf("unexpected outline root %v", obj)
	}

	if _, err := r.Lookup(core.IndirectRef{Number: 3, Generation: 2}); err == nil {
		t.Error("expected error for compressed object with nonzero generation")
	}
}

// TestIncrementalUpdate tests that the newest revision of an object wins
func TestIncrementalUpdate(t *testing.T) {
	base := outlineDocument().Bytes()
	data := pdftest.New().
		Add(3, "<< /Title (Chapter One) /Parent 2 0 R >>").
		Trailer("/Root 1 0 R").
		Update(base)

	r := mustLoad(t, data)
	obj, err := r.Lookup(core.IndirectRef{Number: 3})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got := title(t, obj); got != "Chapter One" {
		t.Errorf("expected updated title, got %q", got)
	}
}

// TestIndirectStreamLength tests /Length stored as a separate object
func TestIndirectStreamLength(t *testing.T) {
	data := outlineDocument().
		Add(4, "<< /Length 5 0 R >>\nstream\nabc\nendstream").
		Add(5, "3").
		Bytes()
	r := mustLoad(t, data)

	obj, err := r.Lookup(core.IndirectRef{Number: 4})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	stream, ok := obj.(*core.Stream)
	if !ok || string(stream.Data) != "abc" {
		t.Errorf("unexpected stream %v", obj)
	}
}

// TestSelfReferentialLength tests a stream whose /Length points at itself
func TestSelfReferentialLength(t *testing.T) {
	data := outlineDocument().
		Add(4, "<< /Length 4 0 R >>\nstream\nabc\nendstream").
		Bytes()
	r := mustLoad(t, data)

	if _, err := r.Lookup(core.IndirectRef{Number: 4}); err == nil {
		t.Error("expected error, got nil")
	}
}

// TestRepairMissingXRef tests loading a file whose xref data is gone
func TestRepairMissingXRef(t *testing.T) {
	data := outlineDocument().Bytes()
	broken := data[:bytes.Index(data, []byte("xref"))]

	r := mustLoad(t, broken)
	if !r.Repaired() {
		t.Error("expected repaired xref")
	}

	// no trailer keyword, so /Root comes from the catalog scan
	ref, ok := r.Trailer().GetIndirectRef("Root")
	if !ok || ref.Number != 1 {
		t.Fatalf("expected /Root 1 0 R, got %v", r.Trailer().Get("Root"))
	}
	obj, err := r.Lookup(core.IndirectRef{Number: 3})
	if err != nil || title(t, obj) != "Chapter 1" {
		t.Errorf("unexpected result %v, %v", obj, err)
	}
}

// TestRepairWrongOffset tests recovery from a stale xref offset
func TestRepairWrongOffset(t *testing.T) {
	data := outlineDocument().Bytes()
	entry := []byte("\n" + pad10(bytes.Index(data, []byte("3 0 obj"))) + " 00000 n")
	wrong := []byte("\n" + pad10(bytes.Index(data, []byte("1 0 obj"))) + " 00000 n")

	idx := bytes.LastIndex(data, entry)
	if idx < 0 {
		t.Fatal("xref entry for object 3 not found")
	}
	broken := append([]byte(nil), data...)
	copy(broken[idx:], wrong)

	r := mustLoad(t, broken)
	obj, err := r.Lookup(core.IndirectRef{Number: 3})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got := title(t, obj); got != "Chapter 1" {
		t.Errorf("unexpected title %q", got)
	}
	if !r.Repaired() {
		t.Error("expected repaired xref")
	}
}

func pad10(n int) string {
	s := core.Int(n).String()
	return strings.Repeat("0", 10-len(s)) + s
}

// TestLoadErrors tests documents that cannot be loaded
func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a PDF", []byte("just some text")},
		{"header only", []byte("%PDF-1.4\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// TestLoadEncrypted tests rejection of encrypted documents
func TestLoadEncrypted(t *testing.T) {
	data := outlineDocument().
		Add(9, "<< /Filter /Standard /V 2 >>").
		Trailer("/Root 1 0 R /Encrypt 9 0 R").
		Bytes()

	_, err := Load(data)
	if !errors.Is(err, ErrEncrypted) {
		t.Errorf("expected ErrEncrypted, got %v", err)
	}
}
