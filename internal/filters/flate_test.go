package filters

import (
	"bytes"
	"compress/zlib"
	"testing"
)

// zlibCompress compresses data for testing
func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// TestFlateDecodeBasic tests plain zlib decompression
func TestFlateDecodeBasic(t *testing.T) {
	original := []byte("1 0 obj << /Type /Outlines >> endobj")

	for _, params := range []Params{nil, {"Predictor": 1}} {
		decoded, err := FlateDecode(zlibCompress(original), params)
		if err != nil {
			t.Fatalf("FlateDecode failed: %v", err)
		}
		if !bytes.Equal(decoded, original) {
			t.Errorf("decoded data doesn't match original\ngot:  %s\nwant: %s", decoded, original)
		}
	}
}

// TestPNGPredictors tests each PNG row filter
func TestPNGPredictors(t *testing.T) {
	tests := []struct {
		name     string
		columns  int
		colors   int
		data     []byte
		expected []byte
	}{
		{
			name:     "none",
			columns:  3,
			data:     []byte{0, 1, 2, 3, 0, 4, 5, 6},
			expected: []byte{1, 2, 3, 4, 5, 6},
		},
		{
			name:     "sub",
			columns:  3,
			data:     []byte{1, 10, 10, 10},
			expected: []byte{10, 20, 30},
		},
		{
			name:     "up",
			columns:  3,
			data:     []byte{0, 10, 20, 30, 2, 5, 5, 5},
			expected: []byte{10, 20, 30, 15, 25, 35},
		},
		{
			name:     "average",
			columns:  2,
			data:     []byte{0, 10, 20, 3, 10, 10},
			expected: []byte{10, 20, 15, 27}, // 10+(0+10)/2, 10+(15+20)/2
		},
		{
			name:     "paeth",
			columns:  2,
			data:     []byte{0, 10, 20, 4, 1, 1},
			expected: []byte{10, 20, 11, 21},
		},
		{
			name:     "sub with two colors",
			columns:  2,
			colors:   2,
			data:     []byte{1, 1, 2, 3, 4},
			expected: []byte{1, 2, 4, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := Params{"Predictor": 12, "Columns": tt.columns}
			if tt.colors > 0 {
				params["Colors"] = tt.colors
			}

			decoded, err := FlateDecode(zlibCompress(tt.data), params)
			if err != nil {
				t.Fatalf("FlateDecode failed: %v", err)
			}
			if !bytes.Equal(decoded, tt.expected) {
				t.Errorf("got %v, want %v", decoded, tt.expected)
			}
		})
	}
}

// TestTIFFPredictor2 tests horizontal differencing
func TestTIFFPredictor2(t *testing.T) {
	data := []byte{10, 5, 5, 1, 1, 1}
	params := Params{"Predictor": 2, "Columns": 3}

	decoded, err := FlateDecode(zlibCompress(data), params)
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}

	expected := []byte{10, 15, 20, 1, 2, 3}
	if !bytes.Equal(decoded, expected) {
		t.Errorf("got %v, want %v", decoded, expected)
	}
}

// TestPaethPredictor tests the Paeth selection rule
func TestPaethPredictor(t *testing.T) {
	tests := []struct {
		a, b, c  byte
		expected byte
	}{
		{0, 0, 0, 0},
		{10, 20, 10, 20},
		{10, 20, 20, 10},
		{10, 10, 5, 10},
		{100, 50, 75, 75},
	}

	for _, tt := range tests {
		if got := paethPredictor(tt.a, tt.b, tt.c); got != tt.expected {
			t.Errorf("paethPredictor(%d, %d, %d) = %d, want %d", tt.a, tt.b, tt.c, got, tt.expected)
		}
	}
}

// TestFlateDecodeErrors tests invalid input and parameters
func TestFlateDecodeErrors(t *testing.T) {
	valid := zlibCompress([]byte{0, 1, 2, 3})

	tests := []struct {
		name   string
		data   []byte
		params Params
	}{
		{"not zlib", []byte("not compressed"), nil},
		{"unsupported predictor", valid, Params{"Predictor": 7}},
		{"bits per component", valid, Params{"Predictor": 12, "Columns": 3, "BitsPerComponent": 4}},
		{"row size mismatch", valid, Params{"Predictor": 12, "Columns": 2}},
		{"unknown row filter", zlibCompress([]byte{9, 1, 2, 3}), Params{"Predictor": 12, "Columns": 3}},
		{"zero columns", valid, Params{"Predictor": 2, "Columns": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FlateDecode(tt.data, tt.params); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// TestFlateDecodeTruncated tests that a truncated stream keeps recovered data
func TestFlateDecodeTruncated(t *testing.T) {
	original := bytes.Repeat([]byte("outline "), 200)
	compressed := zlibCompress(original)

	decoded, err := FlateDecode(compressed[:len(compressed)-4], nil)
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("expected full data before missing checksum, got %d bytes", len(decoded))
	}
}

// TestGetParams tests parameter conversion
func TestGetParams(t *testing.T) {
	params := Params{
		"Int":     5,
		"Int64":   int64(6),
		"Float":   7.0,
		"String":  "x",
		"Flag":    true,
		"NotFlag": 1,
	}

	intTests := []struct {
		key      string
		expected int
	}{
		{"Int", 5},
		{"Int64", 6},
		{"Float", 7},
		{"String", -1},
		{"Missing", -1},
	}
	for _, tt := range intTests {
		if got := getIntParam(params, tt.key, -1); got != tt.expected {
			t.Errorf("getIntParam(%q) = %d, want %d", tt.key, got, tt.expected)
		}
	}

	if !getBoolParam(params, "Flag", false) {
		t.Error("expected Flag to be true")
	}
	if getBoolParam(params, "NotFlag", false) {
		t.Error("expected non-bool to use the default")
	}
	if !getBoolParam(nil, "Missing", true) {
		t.Error("expected missing key to use the default")
	}
}
