package core

import (
	"fmt"

	"github.com/tsawler/pdfoutline/internal/filters"
)

// Decode decodes the stream data according to the Filter(s) specified in the
// stream dictionary. Filter chains are applied in order; DecodeParms may be
// a single dictionary or an array parallel to the filter array.
func (s *Stream) Decode() ([]byte, error) {
	filterObj := s.Dict.Get("Filter")
	paramsObj := s.Dict.Get("DecodeParms")

	switch f := filterObj.(type) {
	case nil:
		return s.Data, nil

	case Name:
		return decodeWithFilter(s.Data, string(f), paramsObjToDict(paramsObj))

	case Array:
		data := s.Data
		for i, filter := range f {
			name, ok := filter.(Name)
			if !ok {
				return nil, fmt.Errorf("filter %d is not a name: %s", i, TypeOf(filter))
			}

			params := paramsObjToDict(paramsObj)
			if paramsArray, ok := paramsObj.(Array); ok {
				params = paramsObjToDict(paramsArray.Get(i))
			}

			var err error
			data, err = decodeWithFilter(data, string(name), params)
			if err != nil {
				return nil, fmt.Errorf("filter %d (%s) failed: %w", i, name, err)
			}
		}
		return data, nil

	default:
		return nil, fmt.Errorf("invalid Filter type: %s", f.Type())
	}
}

// decodeWithFilter applies a single decompression filter to data.
func decodeWithFilter(data []byte, filterName string, params Dict) ([]byte, error) {
	switch filterName {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(data, dictToParams(params))
	case "ASCIIHexDecode", "AHx":
		return filters.ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return filters.ASCII85Decode(data)
	case "CCITTFaxDecode", "CCF":
		return filters.CCITTFaxDecode(data, dictToParams(params))
	case "DCTDecode", "DCT", "JPXDecode":
		// image codecs; the encoded form is the useful one
		return data, nil
	case "LZWDecode", "LZW", "RunLengthDecode", "RL", "JBIG2Decode", "Crypt":
		return nil, fmt.Errorf("%s not supported", filterName)
	default:
		return nil, fmt.Errorf("unknown filter: %s", filterName)
	}
}

// paramsObjToDict returns obj as a Dict, or nil for anything else
// (including a missing entry or null).
func paramsObjToDict(obj Object) Dict {
	dict, _ := obj.(Dict)
	return dict
}

// dictToParams converts decode parameters to Go primitives for the filters package.
func dictToParams(dict Dict) filters.Params {
	if dict == nil {
		return nil
	}

	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		default:
			params[k] = v
		}
	}
	return params
}
