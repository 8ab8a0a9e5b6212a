package filters

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/image/ccitt"
)

// CCITTFaxDecode decodes CCITT Group 3 or Group 4 fax data. K < 0 selects
// Group 4, K >= 0 Group 3. The result is packed 1-bit rows where a set bit
// is white unless BlackIs1 is true.
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	columns := getIntParam(params, "Columns", 1728)
	rows := getIntParam(params, "Rows", 0)
	if columns <= 0 {
		return nil, fmt.Errorf("invalid CCITT columns: %d", columns)
	}
	if rows <= 0 {
		rows = ccitt.AutoDetectHeight
	}

	subFormat := ccitt.Group3
	if getIntParam(params, "K", 0) < 0 {
		subFormat = ccitt.Group4
	}

	opts := &ccitt.Options{
		Align:  getBoolParam(params, "EncodedByteAlign", false),
		Invert: getBoolParam(params, "BlackIs1", false),
	}

	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, subFormat, columns, rows, opts)
	out, err := io.ReadAll(r)
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("CCITT decoding failed: %w", err)
	}
	return out, nil
}
