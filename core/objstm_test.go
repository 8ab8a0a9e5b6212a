package core

import (
	"testing"

	"github.com/tsawler/pdfoutline/internal/pdftest"
)

func makeObjectStream(header, body string, n int, compress bool) *Stream {
	data := []byte(header + body)
	dict := Dict{
		"Type":  Name("ObjStm"),
		"N":     Int(n),
		"First": Int(len(header)),
	}
	if compress {
		data = pdftest.Deflate(data)
		dict["Filter"] = Name("FlateDecode")
	}
	dict["Length"] = Int(len(data))
	return &Stream{Dict: dict, Data: data}
}

// TestObjectStream tests extracting objects by index and number
func TestObjectStream(t *testing.T) {
	body := "<< /Title (Chapter 1) /Next 11 0 R >>\n<< /Title (Chapter 2) >>\n42\n"
	stream := makeObjectStream("10 0 11 38 12 63 ", body, 3, true)

	os, err := NewObjectStream(stream)
	if err != nil {
		t.Fatalf("NewObjectStream failed: %v", err)
	}
	if os.N() != 3 {
		t.Errorf("expected N=3, got %d", os.N())
	}

	obj, num, err := os.GetObjectByIndex(0)
	if err != nil {
		t.Fatalf("GetObjectByIndex(0) failed: %v", err)
	}
	if num != 10 {
		t.Errorf("expected object 10, got %d", num)
	}
	if title, _ := obj.(Dict).GetString("Title"); title != "Chapter 1" {
		t.Errorf("unexpected title %q", title)
	}

	obj, idx, err := os.GetObjectByNumber(11)
	if err != nil {
		t.Fatalf("GetObjectByNumber(11) failed: %v", err)
	}
	if idx != 1 {
		t.Errorf("expected index 1, got %d", idx)
	}
	if title, _ := obj.(Dict).GetString("Title"); title != "Chapter 2" {
		t.Errorf("unexpected title %q", title)
	}

	obj, _, err = os.GetObjectByNumber(12)
	if err != nil || obj != Int(42) {
		t.Errorf("expected 42, got %v, %v", obj, err)
	}

	if _, _, err := os.GetObjectByNumber(99); err == nil {
		t.Error("expected error for missing object")
	}
	if _, _, err := os.GetObjectByIndex(3); err == nil {
		t.Error("expected error for index out of range")
	}
}

// TestObjectStreamErrors tests invalid object streams
func TestObjectStreamErrors(t *testing.T) {
	t.Run("nil stream", func(t *testing.T) {
		if _, err := NewObjectStream(nil); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		s := makeObjectStream("1 0 ", "null", 1, false)
		s.Dict["Type"] = Name("XRef")
		if _, err := NewObjectStream(s); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("missing N", func(t *testing.T) {
		s := makeObjectStream("1 0 ", "null", 1, false)
		delete(s.Dict, "N")
		if _, err := NewObjectStream(s); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("First past end", func(t *testing.T) {
		s := makeObjectStream("1 0 ", "null", 1, false)
		s.Dict["First"] = Int(500)
		os, err := NewObjectStream(s)
		if err != nil {
			t.Fatalf("NewObjectStream failed: %v", err)
		}
		if _, _, err := os.GetObjectByIndex(0); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("short header", func(t *testing.T) {
		os, err := NewObjectStream(makeObjectStream("1 0 ", "null", 2, false))
		if err != nil {
			t.Fatalf("NewObjectStream failed: %v", err)
		}
		if _, _, err := os.GetObjectByIndex(0); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("offset past end", func(t *testing.T) {
		os, err := NewObjectStream(makeObjectStream("1 100 ", "null", 1, false))
		if err != nil {
			t.Fatalf("NewObjectStream failed: %v", err)
		}
		if _, _, err := os.GetObjectByIndex(0); err == nil {
			t.Error("expected error, got nil")
		}
	})
}
