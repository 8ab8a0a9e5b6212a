package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// FlateDecode decompresses zlib/deflate data and undoes the predictor
// named by the Predictor parameter, if any. Xref and object streams are
// commonly written with PNG predictor 12.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer zr.Close()

	decompressed, err := io.ReadAll(zr)
	if err != nil {
		// Truncated streams are common; keep what was recovered.
		if len(decompressed) == 0 || err != io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("zlib decompression failed: %w", err)
		}
	}

	predictor := getIntParam(params, "Predictor", 1)
	switch {
	case predictor == 1:
		return decompressed, nil
	case predictor == 2:
		return applyTIFFPredictor2(decompressed, params)
	case predictor >= 10 && predictor <= 15:
		return applyPNGPredictor(decompressed, params)
	default:
		return nil, fmt.Errorf("unsupported predictor: %d", predictor)
	}
}

// predictorLayout reads Columns, Colors and BitsPerComponent, which must
// describe whole bytes.
func predictorLayout(params Params) (rowSize, bytesPerPixel int, err error) {
	columns := getIntParam(params, "Columns", 1)
	colors := getIntParam(params, "Colors", 1)
	bpc := getIntParam(params, "BitsPerComponent", 8)

	if bpc != 8 {
		return 0, 0, fmt.Errorf("predictor only supports 8 bits per component, got %d", bpc)
	}
	if columns <= 0 || colors <= 0 {
		return 0, 0, fmt.Errorf("invalid predictor layout: %d columns, %d colors", columns, colors)
	}
	return columns * colors, colors, nil
}

// applyTIFFPredictor2 undoes TIFF Predictor 2: each sample is stored as the
// difference from the sample one pixel to its left.
func applyTIFFPredictor2(data []byte, params Params) ([]byte, error) {
	rowSize, bpp, err := predictorLayout(params)
	if err != nil {
		return nil, err
	}
	if len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}

	result := make([]byte, len(data))
	copy(result, data)
	for row := 0; row < len(result); row += rowSize {
		for i := row + bpp; i < row+rowSize; i++ {
			result[i] += result[i-bpp]
		}
	}
	return result, nil
}

// applyPNGPredictor undoes PNG prediction. Each row is prefixed with a tag
// byte selecting the algorithm for that row; the tags are dropped.
func applyPNGPredictor(data []byte, params Params) ([]byte, error) {
	rowSize, bpp, err := predictorLayout(params)
	if err != nil {
		return nil, err
	}

	stride := rowSize + 1
	if len(data)%stride != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), stride)
	}

	numRows := len(data) / stride
	result := make([]byte, numRows*rowSize)
	prev := make([]byte, rowSize) // the row above the first row is all zeros

	for row := 0; row < numRows; row++ {
		tag := data[row*stride]
		in := data[row*stride+1 : (row+1)*stride]
		out := result[row*rowSize : (row+1)*rowSize]

		if err := decodePNGRow(out, in, prev, tag, bpp); err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", row, err)
		}
		prev = out
	}

	return result, nil
}

// decodePNGRow reconstructs one row. Tags: 0=None, 1=Sub, 2=Up, 3=Average, 4=Paeth.
func decodePNGRow(out, in, prev []byte, tag byte, bpp int) error {
	for i := range in {
		var left, upLeft byte
		up := prev[i]
		if i >= bpp {
			left = out[i-bpp]
			upLeft = prev[i-bpp]
		}

		var predicted byte
		switch tag {
		case 0:
		case 1:
			predicted = left
		case 2:
			predicted = up
		case 3:
			predicted = byte((int(left) + int(up)) / 2)
		case 4:
			predicted = paethPredictor(left, up, upLeft)
		default:
			return fmt.Errorf("unknown PNG predictor: %d", tag)
		}

		out[i] = in[i] + predicted
	}
	return nil
}

// paethPredictor picks whichever of left, above and upper-left is closest
// to left + above - upper-left.
func paethPredictor(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
