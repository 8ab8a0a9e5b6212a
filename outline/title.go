package outline

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"github.com/tsawler/pdfoutline/core"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf16BOM = []byte{0xFE, 0xFF}

// DecodeTitle converts a /Title value to text. A value that is not a
// string yields nil. Strings starting with FE FF are UTF-16BE; with
// lenient false, unpaired surrogates and a dangling odd byte fail with
// ErrDecodeUTF16. All other strings are read as UTF-8 with invalid bytes
// replaced by U+FFFD, which never fails.
func DecodeTitle(obj core.Object, lenient bool) (*string, error) {
	s, ok := obj.(core.String)
	if !ok {
		return nil, nil
	}

	b := s.Bytes()
	var text string
	var err error
	if bytes.HasPrefix(b, utf16BOM) {
		text, err = decodeUTF16BE(b[len(utf16BOM):], lenient)
	} else {
		text, err = decodeLossy(b, unicode.UTF8.NewDecoder())
	}
	if err != nil {
		return nil, err
	}
	return &text, nil
}

func decodeUTF16BE(b []byte, lenient bool) (string, error) {
	if lenient {
		return decodeLossy(b, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder())
	}

	if len(b)%2 != 0 {
		return "", fmt.Errorf("%w: odd length %d", ErrDecodeUTF16, len(b))
	}

	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(b[2*i:])
	}

	for i := 0; i < len(units); i++ {
		u := units[i]
		if !utf16.IsSurrogate(rune(u)) {
			continue
		}
		if u >= 0xDC00 || i+1 == len(units) || !isLowSurrogate(units[i+1]) {
			return "", fmt.Errorf("%w: unpaired surrogate %#04x at unit %d", ErrDecodeUTF16, u, i)
		}
		i++
	}

	return string(utf16.Decode(units)), nil
}

func isLowSurrogate(u uint16) bool {
	return u >= 0xDC00 && u <= 0xDFFF
}

func decodeLossy(b []byte, t transform.Transformer) (string, error) {
	out, _, err := transform.Bytes(t, b)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtractTitle, err)
	}
	return string(out), nil
}
