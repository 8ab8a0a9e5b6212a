package core

import (
	"bytes"
	"fmt"
)

// ObjectStream represents a PDF Object Stream (Type /ObjStm), introduced in PDF 1.5.
// Object streams store multiple objects in a single compressed stream.
type ObjectStream struct {
	stream  *Stream
	n       int
	first   int
	objects map[int]Object // parsed objects by index
	offsets []objectStreamOffset
	decoded []byte
}

// objectStreamOffset pairs an object number with its byte offset, relative
// to /First, within the decoded data.
type objectStreamOffset struct {
	ObjNum int
	Offset int
}

// NewObjectStream creates an ObjectStream from a Stream object.
// The stream must have Type /ObjStm and the entries /N and /First.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}

	if typ, _ := stream.Dict.GetName("Type"); typ != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream, got type %q", typ)
	}

	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream has missing or invalid /N")
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream has missing or invalid /First")
	}

	return &ObjectStream{
		stream:  stream,
		n:       int(n),
		first:   int(first),
		objects: make(map[int]Object),
	}, nil
}

// N returns the number of objects stored in the stream.
func (os *ObjectStream) N() int {
	return os.n
}

// decode decodes the stream data and parses the header on first access.
func (os *ObjectStream) decode() error {
	if os.decoded != nil {
		return nil
	}

	decoded, err := os.stream.Decode()
	if err != nil {
		return fmt.Errorf("failed to decode object stream: %w", err)
	}
	if os.first > len(decoded) {
		return fmt.Errorf("/First offset (%d) exceeds decoded data length (%d)", os.first, len(decoded))
	}

	offsets, err := parseObjectStreamHeader(decoded[:os.first], os.n)
	if err != nil {
		return fmt.Errorf("failed to parse object stream header: %w", err)
	}

	os.decoded = decoded
	os.offsets = offsets
	return nil
}

// parseObjectStreamHeader reads n pairs of "objNum offset" integers.
func parseObjectStreamHeader(header []byte, n int) ([]objectStreamOffset, error) {
	lexer := NewLexer(bytes.NewReader(header))
	offsets := make([]objectStreamOffset, 0, n)

	for i := 0; i < n; i++ {
		objNum, err := nextInt(lexer, "object number")
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		offset, err := nextInt(lexer, "offset")
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		offsets = append(offsets, objectStreamOffset{ObjNum: int(objNum), Offset: int(offset)})
	}

	return offsets, nil
}

// GetObjectByIndex extracts an object by its index within the stream (0-based).
// Returns the object and its object number.
func (os *ObjectStream) GetObjectByIndex(index int) (Object, int, error) {
	if err := os.decode(); err != nil {
		return nil, 0, err
	}

	if index < 0 || index >= len(os.offsets) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.offsets))
	}

	objNum := os.offsets[index].ObjNum
	if obj, ok := os.objects[index]; ok {
		return obj, objNum, nil
	}

	start := os.first + os.offsets[index].Offset
	end := len(os.decoded)
	if index+1 < len(os.offsets) {
		end = os.first + os.offsets[index+1].Offset
	}
	if start >= len(os.decoded) {
		return nil, 0, fmt.Errorf("object offset %d exceeds decoded data length %d", start, len(os.decoded))
	}
	if end > len(os.decoded) || end < start {
		end = len(os.decoded)
	}

	obj, err := NewParser(bytes.NewReader(os.decoded[start:end])).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse object at index %d: %w", index, err)
	}

	os.objects[index] = obj
	return obj, objNum, nil
}

// GetObjectByNumber finds and extracts an object by its object number.
// Returns the object and its index within the stream.
func (os *ObjectStream) GetObjectByNumber(objNum int) (Object, int, error) {
	if err := os.decode(); err != nil {
		return nil, 0, err
	}

	for i, entry := range os.offsets {
		if entry.ObjNum == objNum {
			obj, _, err := os.GetObjectByIndex(i)
			return obj, i, err
		}
	}

	return nil, 0, fmt.Errorf("object %d not found in object stream", objNum)
}
