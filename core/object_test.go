package core

import (
	"testing"
)

// TestObjectString tests the PDF-syntax rendering used in error messages
func TestObjectString(t *testing.T) {
	tests := []struct {
		name string
		obj  Object
		want string
	}{
		{"null", Null{}, "null"},
		{"bool", Bool(true), "true"},
		{"int", Int(-3), "-3"},
		{"real", Real(1.5), "1.5"},
		{"literal string", String("Chapter 1"), "(Chapter 1)"},
		{"escaped string", String(`a(b)\`), `(a\(b\)\\)`},
		{"binary string", String("\xfe\xff\x00A"), "<FEFF0041>"},
		{"name", Name("Outlines"), "/Outlines"},
		{"array", Array{Int(1), nil, Name("X")}, "[1 null /X]"},
		{"dict", Dict{"Next": IndirectRef{5, 0}, "Title": String("A")}, "<< /Next 5 0 R /Title (A) >>"},
		{"empty dict", Dict{}, "<< >>"},
		{"stream", &Stream{Dict: Dict{"Length": Int(3)}, Data: []byte("abc")}, "<< /Length 3 >> stream[3]"},
		{"reference", IndirectRef{12, 1}, "12 1 R"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.obj.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestTypeOf tests the kind names used in error messages
func TestTypeOf(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{nil, "missing"},
		{Null{}, "null"},
		{Int(1), "integer"},
		{String(""), "string"},
		{Dict{}, "dictionary"},
		{&Stream{}, "stream"},
		{IndirectRef{}, "reference"},
	}

	for _, tt := range tests {
		if got := TypeOf(tt.obj); got != tt.want {
			t.Errorf("TypeOf(%#v) = %q, want %q", tt.obj, got, tt.want)
		}
	}

	if got := ObjectType(99).String(); got != "ObjectType(99)" {
		t.Errorf("unknown kind = %q", got)
	}
}

// TestDictAccessors tests typed lookups
func TestDictAccessors(t *testing.T) {
	d := Dict{
		"First": IndirectRef{Number: 4},
		"Next":  Int(5),
		"Title": String("A"),
		"Kids":  Array{Int(7)},
		"Type":  Name("Outlines"),
	}

	if ref, ok := d.GetIndirectRef("First"); !ok || ref.Number != 4 {
		t.Errorf("GetIndirectRef(First) = %v, %v", ref, ok)
	}
	if _, ok := d.GetIndirectRef("Next"); ok {
		t.Error("direct integer reported as a reference")
	}
	if _, ok := d.GetIndirectRef("Last"); ok {
		t.Error("absent key reported as a reference")
	}
	if s, ok := d.GetString("Title"); !ok || s != "A" {
		t.Errorf("GetString(Title) = %q, %v", s, ok)
	}
	if n, ok := d.GetName("Type"); !ok || n != "Outlines" {
		t.Errorf("GetName(Type) = %q, %v", n, ok)
	}
	if arr, ok := d.GetArray("Kids"); !ok || arr.Get(0) != Int(7) || arr.Get(1) != nil {
		t.Errorf("GetArray(Kids) = %v, %v", arr, ok)
	}
	if !d.Has("Next") || d.Has("Last") || d.Get("Last") != nil {
		t.Error("Has/Get disagree with contents")
	}
}
