package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"

	"github.com/tsawler/pdfoutline/core"
)

// ErrEncrypted is returned when loading a document with an /Encrypt entry.
var ErrEncrypted = errors.New("encrypted documents are not supported")

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Reader gives access to the objects of an in-memory PDF document.
// It caches parsed objects and is not safe for concurrent use.
type Reader struct {
	data     []byte
	xref     *core.XRefTable
	trailer  core.Dict
	version  PDFVersion
	objCache map[int]core.Object
	objStms  map[int]*core.ObjectStream
	loading  map[int]bool
	repaired bool
}

// Load parses the header and cross-reference data of a PDF document held
// in memory. Damaged cross-reference data is rebuilt by scanning the file.
func Load(data []byte) (*Reader, error) {
	r := &Reader{
		data:     data,
		objCache: make(map[int]core.Object),
		objStms:  make(map[int]*core.ObjectStream),
		loading:  make(map[int]bool),
	}

	version, err := parseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	r.version = version

	xref, err := core.NewXRefParser(bytes.NewReader(data)).ParseAll()
	if err != nil {
		rebuilt, rerr := core.RebuildXRef(data)
		if rerr != nil {
			return nil, fmt.Errorf("failed to load xref: %w", err)
		}
		xref = rebuilt
		r.repaired = true
	}
	r.xref = xref
	r.trailer = xref.Trailer

	if r.trailer.Has("Encrypt") {
		return nil, ErrEncrypted
	}

	if !r.trailer.Has("Root") && r.repaired {
		if ref, ok := r.findCatalog(); ok {
			r.trailer["Root"] = ref
		}
	}

	return r, nil
}

// NewReader reads the whole of rs and loads it.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to start: %w", err)
	}
	data, err := io.ReadAll(rs)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Load(data)
}

// Open reads a PDF file into memory and loads it.
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return Load(data)
}

var versionPattern = regexp.MustCompile(`%PDF-(\d+)\.(\d+)`)

// parseHeader finds "%PDF-x.y" in the first 1024 bytes. Some writers put
// junk before the header.
func parseHeader(data []byte) (PDFVersion, error) {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}

	m := versionPattern.FindSubmatch(head)
	if m == nil {
		if len(data) == 0 {
			return PDFVersion{}, fmt.Errorf("empty document")
		}
		return PDFVersion{}, fmt.Errorf("no %%PDF- header in the first %d bytes", len(head))
	}

	major, _ := strconv.Atoi(string(m[1]))
	minor, _ := strconv.Atoi(string(m[2]))
	return PDFVersion{Major: major, Minor: minor}, nil
}

// Version returns the PDF version from the header
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Trailer returns the trailer dictionary. For documents with
// cross-reference streams this is the newest stream's dictionary.
func (r *Reader) Trailer() core.Dict {
	return r.trailer
}

// Repaired reports whether the cross-reference data had to be rebuilt.
func (r *Reader) Repaired() bool {
	return r.repaired
}

// NumObjects returns the /Size entry of the trailer
func (r *Reader) NumObjects() int {
	size, _ := r.trailer.GetInt("Size")
	return int(size)
}

// Lookup returns the object ref points to. The generation must match the
// cross-reference entry.
func (r *Reader) Lookup(ref core.IndirectRef) (core.Object, error) {
	entry, ok := r.xref.Get(ref.Number)
	if !ok {
		return nil, fmt.Errorf("object %s not found", ref)
	}

	switch entry.Type {
	case core.XRefFree:
		return nil, fmt.Errorf("object %s is free", ref)
	case core.XRefInUse:
		if entry.Generation != ref.Generation {
			return nil, fmt.Errorf("object %s: generation mismatch, xref has %d", ref, entry.Generation)
		}
	case core.XRefCompressed:
		if ref.Generation != 0 {
			return nil, fmt.Errorf("object %s: compressed objects have generation 0", ref)
		}
	}

	return r.GetObject(ref.Number)
}

// GetObject loads an object by its number, ignoring the generation.
// Uses caching to avoid re-reading objects.
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	if obj, ok := r.objCache[objNum]; ok {
		return obj, nil
	}
	if r.loading[objNum] {
		return nil, fmt.Errorf("object %d depends on itself", objNum)
	}
	r.loading[objNum] = true
	defer delete(r.loading, objNum)

	entry, ok := r.xref.Get(objNum)
	if !ok {
		return nil, fmt.Errorf("object %d not found in xref table", objNum)
	}

	var obj core.Object
	var err error
	switch entry.Type {
	case core.XRefInUse:
		obj, err = r.readObjectAt(objNum, entry.Offset)
		if err != nil && r.repair() {
			if fixed, ok := r.xref.Get(objNum); ok && fixed.Type == core.XRefInUse {
				obj, err = r.readObjectAt(objNum, fixed.Offset)
			}
		}
	case core.XRefCompressed:
		obj, err = r.readCompressed(objNum, entry)
	default:
		return nil, fmt.Errorf("object %d is not in use", objNum)
	}
	if err != nil {
		return nil, err
	}

	r.objCache[objNum] = obj
	return obj, nil
}

// Resolve resolves an object if it's an indirect reference, otherwise
// returns it as-is
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return r.Lookup(ref)
	}
	return obj, nil
}

// ClearCache clears the object cache
func (r *Reader) ClearCache() {
	r.objCache = make(map[int]core.Object)
	r.objStms = make(map[int]*core.ObjectStream)
}

// CacheSize returns the number of cached objects
func (r *Reader) CacheSize() int {
	return len(r.objCache)
}

// readObjectAt parses "objNum gen obj ... endobj" at offset.
func (r *Reader) readObjectAt(objNum int, offset int64) (core.Object, error) {
	if offset < 0 || offset >= int64(len(r.data)) {
		return nil, fmt.Errorf("object %d: offset %d outside file", objNum, offset)
	}

	parser := core.NewParser(bytes.NewReader(r.data[offset:]))
	parser.SetReferenceResolver(r)
	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %d: %w", objNum, err)
	}

	if indObj.Ref.Number != objNum {
		return nil, fmt.Errorf("object number mismatch: expected %d, got %d", objNum, indObj.Ref.Number)
	}
	return indObj.Object, nil
}

// readCompressed loads an object stored in an object stream.
func (r *Reader) readCompressed(objNum int, entry *core.XRefEntry) (core.Object, error) {
	stm, err := r.objectStream(entry.StreamNum)
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", objNum, err)
	}

	obj, num, err := stm.GetObjectByIndex(entry.StreamIdx)
	if err == nil && num == objNum {
		return obj, nil
	}

	// the index is a hint; fall back to searching by number
	obj, _, err = stm.GetObjectByNumber(objNum)
	if err != nil {
		return nil, fmt.Errorf("object %d in object stream %d: %w", objNum, entry.StreamNum, err)
	}
	return obj, nil
}

func (r *Reader) objectStream(num int) (*core.ObjectStream, error) {
	if stm, ok := r.objStms[num]; ok {
		return stm, nil
	}

	obj, err := r.GetObject(num)
	if err != nil {
		return nil, fmt.Errorf("failed to load object stream %d: %w", num, err)
	}
	stream, ok := obj.(*core.Stream)
	if !ok {
		return nil, fmt.Errorf("object stream %d is %s, not a stream", num, core.TypeOf(obj))
	}

	stm, err := core.NewObjectStream(stream)
	if err != nil {
		return nil, fmt.Errorf("object stream %d: %w", num, err)
	}
	r.objStms[num] = stm
	return stm, nil
}

// repair replaces wrong in-use entries with offsets found by scanning the
// file. It runs at most once and reports whether anything was rebuilt.
func (r *Reader) repair() bool {
	if r.repaired {
		return false
	}
	r.repaired = true

	rebuilt, err := core.RebuildXRef(r.data)
	if err != nil {
		return false
	}
	for num, entry := range rebuilt.Entries {
		if cur, ok := r.xref.Get(num); ok && cur.Type == core.XRefCompressed {
			continue
		}
		r.xref.Set(num, entry)
	}
	return true
}

// findCatalog searches all objects for a /Type /Catalog dictionary.
func (r *Reader) findCatalog() (core.IndirectRef, bool) {
	nums := make([]int, 0, r.xref.Size())
	for num := range r.xref.Entries {
		nums = append(nums, num)
	}
	sort.Ints(nums)

	for _, num := range nums {
		obj, err := r.GetObject(num)
		if err != nil {
			continue
		}
		dict, ok := obj.(core.Dict)
		if !ok {
			continue
		}
		if typ, _ := dict.GetName("Type"); typ == "Catalog" {
			entry, _ := r.xref.Get(num)
			return core.IndirectRef{Number: num, Generation: entry.Generation}, true
		}
	}
	return core.IndirectRef{}, false
}
