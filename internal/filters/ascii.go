package filters

import (
	"bytes"
	"encoding/ascii85"
	"fmt"
)

// ASCIIHexDecode decodes ASCII hexadecimal data. Whitespace is ignored,
// '>' ends the data, and a final odd digit is padded with 0.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	result := make([]byte, 0, len(data)/2)

	var high byte
	pending := false
	for _, c := range data {
		if isWhitespace(c) {
			continue
		}
		if c == '>' {
			break
		}

		v, err := hexDigitToByte(c)
		if err != nil {
			return nil, err
		}
		if pending {
			result = append(result, high<<4|v)
			pending = false
		} else {
			high = v
			pending = true
		}
	}

	if pending {
		result = append(result, high<<4)
	}
	return result, nil
}

// ASCII85Decode decodes Ascii85 data up to the "~>" marker. 'z' stands
// for four zero bytes and a short final group is padded.
func ASCII85Decode(data []byte) ([]byte, error) {
	if end := bytes.Index(data, []byte("~>")); end >= 0 {
		data = data[:end]
	}
	data = bytes.TrimPrefix(bytes.TrimLeft(data, " \t\r\n\f\x00"), []byte("<~"))

	dst := make([]byte, 4*len(data)/5+4)
	n, _, err := ascii85.Decode(dst, data, true)
	if err != nil {
		return nil, fmt.Errorf("invalid ASCII85 data: %w", err)
	}
	return dst[:n], nil
}

func hexDigitToByte(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	}
	return 0, fmt.Errorf("invalid hex digit: %q", c)
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
