package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object is any value that can appear in a PDF body.
type Object interface {
	Type() ObjectType
	String() string
}

// ObjectType identifies the dynamic kind of an Object.
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBool
	ObjInt
	ObjReal
	ObjString
	ObjName
	ObjArray
	ObjDict
	ObjStream
	ObjIndirect
)

// String returns the name ISO 32000 uses for the kind.
func (t ObjectType) String() string {
	switch t {
	case ObjNull:
		return "null"
	case ObjBool:
		return "boolean"
	case ObjInt:
		return "integer"
	case ObjReal:
		return "real"
	case ObjString:
		return "string"
	case ObjName:
		return "name"
	case ObjArray:
		return "array"
	case ObjDict:
		return "dictionary"
	case ObjStream:
		return "stream"
	case ObjIndirect:
		return "reference"
	}
	return "ObjectType(" + strconv.Itoa(int(t)) + ")"
}

// TypeOf names the kind of obj for error messages. A nil obj, which is
// what Dict.Get returns for an absent key, is reported as "missing".
func TypeOf(obj Object) string {
	if obj == nil {
		return "missing"
	}
	return obj.Type().String()
}

type Null struct{}

func (Null) Type() ObjectType { return ObjNull }
func (Null) String() string   { return "null" }

type Bool bool

func (b Bool) Type() ObjectType { return ObjBool }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }

type Int int64

func (i Int) Type() ObjectType { return ObjInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }

type Real float64

func (r Real) Type() ObjectType { return ObjReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// String holds the bytes of a string object after escapes and hex digits
// are resolved. No text encoding is applied; see outline.DecodeTitle.
type String string

func (s String) Type() ObjectType { return ObjString }

// String renders s in PDF syntax: a literal when every byte is printable
// ASCII, hex otherwise.
func (s String) String() string {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return fmt.Sprintf("<%X>", string(s))
		}
	}
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return "(" + r.Replace(string(s)) + ")"
}

func (s String) Bytes() []byte { return []byte(s) }

// Name is stored without its leading slash.
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string   { return "/" + string(n) }

type Array []Object

func (a Array) Type() ObjectType { return ObjArray }

func (a Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, obj := range a {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(objectString(obj))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Get returns the element at index, or nil when index is out of range.
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

func (a Array) GetInt(index int) (Int, bool) {
	i, ok := a.Get(index).(Int)
	return i, ok
}

// Dict is keyed by name without the leading slash.
type Dict map[string]Object

func (d Dict) Type() ObjectType { return ObjDict }

// String lists entries in key order.
func (d Dict) String() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("<<")
	for _, k := range keys {
		fmt.Fprintf(&sb, " /%s %s", k, objectString(d[k]))
	}
	sb.WriteString(" >>")
	return sb.String()
}

// Get returns nil for an absent key.
func (d Dict) Get(key string) Object { return d[key] }

func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

func (d Dict) GetName(key string) (Name, bool) {
	n, ok := d[key].(Name)
	return n, ok
}

func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := d[key].(Int)
	return i, ok
}

func (d Dict) GetArray(key string) (Array, bool) {
	a, ok := d[key].(Array)
	return a, ok
}

func (d Dict) GetString(key string) (String, bool) {
	s, ok := d[key].(String)
	return s, ok
}

// GetIndirectRef reports false both for an absent key and for a direct
// value; outline links are only followed through references.
func (d Dict) GetIndirectRef(key string) (IndirectRef, bool) {
	ref, ok := d[key].(IndirectRef)
	return ref, ok
}

// Stream is a dictionary plus its body. Data is still encoded until
// DecodeStream runs the /Filter chain over it.
type Stream struct {
	Dict Dict
	Data []byte
}

func (s *Stream) Type() ObjectType { return ObjStream }

func (s *Stream) String() string {
	return fmt.Sprintf("%s stream[%d]", s.Dict, len(s.Data))
}

// IndirectRef is the "N G R" form. It is comparable and serves as the
// key of visited sets.
type IndirectRef struct {
	Number     int
	Generation int
}

func (r IndirectRef) Type() ObjectType { return ObjIndirect }

func (r IndirectRef) String() string {
	return strconv.Itoa(r.Number) + " " + strconv.Itoa(r.Generation) + " R"
}

// IndirectObject is an "N G obj ... endobj" definition.
type IndirectObject struct {
	Ref    IndirectRef
	Object Object
}

func objectString(obj Object) string {
	if obj == nil {
		return "null"
	}
	return obj.String()
}
