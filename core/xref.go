package core

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// XRefEntryType distinguishes the three kinds of cross-reference entries
type XRefEntryType int

const (
	XRefFree       XRefEntryType = iota // free (deleted) object
	XRefInUse                           // object stored uncompressed at Offset
	XRefCompressed                      // object stored inside an object stream (PDF 1.5+)
)

// XRefEntry represents a single cross-reference entry
type XRefEntry struct {
	Type       XRefEntryType
	Offset     int64 // byte offset of an in-use object
	Generation int   // generation number (0 for compressed objects)
	StreamNum  int   // object number of the containing object stream
	StreamIdx  int   // index of the object within its object stream
}

// XRefTable represents the merged cross-reference data of a PDF file
type XRefTable struct {
	Entries map[int]*XRefEntry // Map from object number to XRef entry
	Trailer Dict               // Trailer dictionary
}

// NewXRefTable creates a new empty XRef table
func NewXRefTable() *XRefTable {
	return &XRefTable{
		Entries: make(map[int]*XRefEntry),
		Trailer: make(Dict),
	}
}

// Get retrieves an XRef entry by object number
func (x *XRefTable) Get(objNum int) (*XRefEntry, bool) {
	entry, ok := x.Entries[objNum]
	return entry, ok
}

// Set adds or updates an XRef entry
func (x *XRefTable) Set(objNum int, entry *XRefEntry) {
	x.Entries[objNum] = entry
}

// Size returns the number of entries in the table
func (x *XRefTable) Size() int {
	return len(x.Entries)
}

// absorb merges an older section into x. Entries and trailer keys already
// present in x are newer and are kept.
func (x *XRefTable) absorb(older *XRefTable) {
	for num, entry := range older.Entries {
		if _, ok := x.Entries[num]; !ok {
			x.Entries[num] = entry
		}
	}
	for key, val := range older.Trailer {
		if !x.Trailer.Has(key) {
			x.Trailer[key] = val
		}
	}
}

// XRefParser parses PDF cross-reference tables and streams
type XRefParser struct {
	reader io.ReadSeeker
}

// NewXRefParser creates a new XRef parser
func NewXRefParser(r io.ReadSeeker) *XRefParser {
	return &XRefParser{reader: r}
}

// FindXRef finds the byte offset of the cross-reference data by scanning
// the end of the file for "startxref <offset>".
func (x *XRefParser) FindXRef() (int64, error) {
	fileSize, err := x.reader.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to seek to end: %w", err)
	}

	readSize := int64(1024)
	if fileSize < readSize {
		readSize = fileSize
	}
	if _, err := x.reader.Seek(fileSize-readSize, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to seek to startxref area: %w", err)
	}

	buf := make([]byte, readSize)
	if _, err := io.ReadFull(x.reader, buf); err != nil {
		return 0, fmt.Errorf("failed to read startxref area: %w", err)
	}

	content := string(buf)
	idx := strings.LastIndex(content, "startxref")
	if idx == -1 {
		return 0, fmt.Errorf("startxref not found in PDF")
	}

	fields := strings.Fields(content[idx+len("startxref"):])
	if len(fields) == 0 {
		return 0, fmt.Errorf("invalid startxref format")
	}
	offset, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid xref offset: %w", err)
	}
	if offset < 0 || offset >= fileSize {
		return 0, fmt.Errorf("xref offset %d outside file of %d bytes", offset, fileSize)
	}

	return offset, nil
}

// ParseXRef parses one cross-reference section at the given byte offset.
// Both traditional tables and xref streams are accepted.
func (x *XRefParser) ParseXRef(offset int64) (*XRefTable, error) {
	if _, err := x.reader.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to xref: %w", err)
	}

	lexer := NewLexer(x.reader)
	tok, err := lexer.NextToken()
	if err != nil {
		return nil, fmt.Errorf("failed to read xref at offset %d: %w", offset, err)
	}

	switch {
	case tok.Type == TokenKeyword && string(tok.Value) == "xref":
		return x.parseXRefTable(lexer)

	case tok.Type == TokenInteger:
		if _, err := x.reader.Seek(offset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to seek to xref stream: %w", err)
		}
		return x.parseXRefStream(NewParser(x.reader))

	default:
		return nil, fmt.Errorf("no cross-reference data at offset %d", offset)
	}
}

// parseXRefTable parses the subsections of a traditional table and the
// trailer dictionary that follows it. The lexer is positioned after "xref".
func (x *XRefParser) parseXRefTable(lexer *Lexer) (*XRefTable, error) {
	table := NewXRefTable()

	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("failed to read xref table: %w", err)
		}

		switch {
		case tok.Type == TokenKeyword && string(tok.Value) == "trailer":
			obj, err := newParserWithLexer(lexer).ParseObject()
			if err != nil {
				return nil, fmt.Errorf("failed to parse trailer dictionary: %w", err)
			}
			dict, ok := obj.(Dict)
			if !ok {
				return nil, fmt.Errorf("trailer is not a dictionary, got %s", obj.Type())
			}
			table.Trailer = dict
			return table, nil

		case tok.Type == TokenInteger:
			first, err := strconv.Atoi(string(tok.Value))
			if err != nil || first < 0 {
				return nil, fmt.Errorf("invalid first object number %q", tok.Value)
			}
			count, err := nextInt(lexer, "subsection count")
			if err != nil {
				return nil, err
			}
			for i := 0; i < int(count); i++ {
				entry, err := parseTableEntry(lexer)
				if err != nil {
					return nil, fmt.Errorf("failed to parse xref entry %d: %w", first+i, err)
				}
				table.Set(first+i, entry)
			}

		case tok.Type == TokenEOF:
			return nil, fmt.Errorf("xref table missing trailer")

		default:
			return nil, fmt.Errorf("unexpected %q in xref table", tok.Value)
		}
	}
}

// parseTableEntry parses "nnnnnnnnnn ggggg n" or "nnnnnnnnnn ggggg f".
func parseTableEntry(lexer *Lexer) (*XRefEntry, error) {
	offset, err := nextInt(lexer, "offset")
	if err != nil {
		return nil, err
	}
	gen, err := nextInt(lexer, "generation")
	if err != nil {
		return nil, err
	}

	tok, err := lexer.NextToken()
	if err != nil {
		return nil, err
	}
	if tok.Type != TokenKeyword {
		return nil, fmt.Errorf("invalid in-use flag: %q", tok.Value)
	}

	switch string(tok.Value) {
	case "n":
		return &XRefEntry{Type: XRefInUse, Offset: offset, Generation: int(gen)}, nil
	case "f":
		return &XRefEntry{Type: XRefFree, Generation: int(gen)}, nil
	default:
		return nil, fmt.Errorf("invalid in-use flag: %q", tok.Value)
	}
}

func nextInt(lexer *Lexer, what string) (int64, error) {
	tok, err := lexer.NextToken()
	if err != nil {
		return 0, err
	}
	if tok.Type != TokenInteger {
		return 0, fmt.Errorf("expected %s, got %q", what, tok.Value)
	}
	n, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", what, tok.Value)
	}
	return n, nil
}

// parseXRefStream parses a PDF 1.5 cross-reference stream. The stream
// dictionary doubles as the trailer.
func (x *XRefParser) parseXRefStream(parser *Parser) (*XRefTable, error) {
	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xref stream object: %w", err)
	}

	stream, ok := indObj.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("xref stream object is %s, not a stream", indObj.Object.Type())
	}
	if typ, _ := stream.Dict.GetName("Type"); typ != "XRef" {
		return nil, fmt.Errorf("stream is not an xref stream, got type %q", typ)
	}

	w, err := xrefStreamWidths(stream.Dict)
	if err != nil {
		return nil, err
	}
	index, err := xrefStreamIndex(stream.Dict)
	if err != nil {
		return nil, err
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode xref stream: %w", err)
	}

	table := NewXRefTable()
	table.Trailer = stream.Dict

	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		start, count := index[i], index[i+1]
		for j := 0; j < count; j++ {
			entry, n, err := x.parseXRefStreamEntry(data[pos:], w)
			if err != nil {
				return nil, fmt.Errorf("xref stream entry for object %d: %w", start+j, err)
			}
			pos += n
			table.Set(start+j, entry)
		}
	}

	return table, nil
}

// xrefStreamWidths reads the /W array of field widths
func xrefStreamWidths(dict Dict) ([]int, error) {
	arr, ok := dict.GetArray("W")
	if !ok || len(arr) != 3 {
		return nil, fmt.Errorf("xref stream has invalid /W entry")
	}

	w := make([]int, 3)
	for i := range w {
		n, ok := arr.GetInt(i)
		if !ok || n < 0 || n > 8 {
			return nil, fmt.Errorf("xref stream has invalid /W entry")
		}
		w[i] = int(n)
	}
	if w[1] == 0 {
		return nil, fmt.Errorf("xref stream has zero-width offset field")
	}
	return w, nil
}

// xrefStreamIndex reads the /Index array, defaulting to [0 Size]
func xrefStreamIndex(dict Dict) ([]int, error) {
	arr, ok := dict.GetArray("Index")
	if !ok {
		size, ok := dict.GetInt("Size")
		if !ok || size < 0 {
			return nil, fmt.Errorf("xref stream missing /Size")
		}
		return []int{0, int(size)}, nil
	}

	if len(arr)%2 != 0 {
		return nil, fmt.Errorf("xref stream /Index has odd length %d", len(arr))
	}
	index := make([]int, len(arr))
	for i := range arr {
		n, ok := arr.GetInt(i)
		if !ok || n < 0 {
			return nil, fmt.Errorf("xref stream /Index element %d is invalid", i)
		}
		index[i] = int(n)
	}
	return index, nil
}

// parseXRefStreamEntry decodes one binary entry, returning the number of
// bytes consumed. A zero-width type field means type 1.
func (x *XRefParser) parseXRefStreamEntry(data []byte, w []int) (*XRefEntry, int, error) {
	size := w[0] + w[1] + w[2]
	if len(data) < size {
		return nil, 0, fmt.Errorf("truncated entry: need %d bytes, have %d", size, len(data))
	}

	typ := int64(1)
	if w[0] > 0 {
		typ = readBigEndianInt(data, w[0])
	}
	field1 := readBigEndianInt(data[w[0]:], w[1])
	field2 := readBigEndianInt(data[w[0]+w[1]:], w[2])

	var entry *XRefEntry
	switch typ {
	case 1:
		entry = &XRefEntry{Type: XRefInUse, Offset: field1, Generation: int(field2)}
	case 2:
		entry = &XRefEntry{Type: XRefCompressed, StreamNum: int(field1), StreamIdx: int(field2)}
	default:
		// type 0 and unknown types both refer to the null object
		entry = &XRefEntry{Type: XRefFree, Generation: int(field2)}
	}
	return entry, size, nil
}

// readBigEndianInt reads a big-endian unsigned integer of the given width
func readBigEndianInt(data []byte, width int) int64 {
	var v int64
	for i := 0; i < width && i < len(data); i++ {
		v = v<<8 | int64(data[i])
	}
	return v
}

// ParseAll parses the newest cross-reference section and every older one
// reachable through /Prev, and merges them. Newer entries win. A hybrid
// file's /XRefStm section supplies entries the classic table lists as free
// or omits.
func (x *XRefParser) ParseAll() (*XRefTable, error) {
	offset, err := x.FindXRef()
	if err != nil {
		return nil, fmt.Errorf("failed to find xref: %w", err)
	}

	merged := NewXRefTable()
	seen := make(map[int64]bool)
	for {
		if seen[offset] {
			return nil, fmt.Errorf("xref /Prev chain loops at offset %d", offset)
		}
		seen[offset] = true

		section, err := x.ParseXRef(offset)
		if err != nil {
			return nil, fmt.Errorf("failed to parse xref at offset %d: %w", offset, err)
		}

		if stmOffset, ok := section.Trailer.GetInt("XRefStm"); ok && !seen[int64(stmOffset)] {
			seen[int64(stmOffset)] = true
			hidden, err := x.ParseXRef(int64(stmOffset))
			if err != nil {
				return nil, fmt.Errorf("failed to parse /XRefStm at offset %d: %w", stmOffset, err)
			}
			for num, entry := range hidden.Entries {
				if cur, ok := section.Entries[num]; !ok || cur.Type == XRefFree {
					section.Entries[num] = entry
				}
			}
		}

		merged.absorb(section)

		prev, ok := section.Trailer.GetInt("Prev")
		if !ok {
			return merged, nil
		}
		offset = int64(prev)
	}
}
