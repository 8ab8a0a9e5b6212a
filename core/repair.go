package core

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

var objHeaderPattern = regexp.MustCompile(`(\d+)[\x00\t\n\f\r ]+(\d+)[\x00\t\n\f\r ]+obj\b`)

// RebuildXRef reconstructs cross-reference data for a damaged file by
// scanning for "num gen obj" headers. When an object number is defined more
// than once the last definition wins, as with incremental updates. The
// trailer is taken from the last "trailer" keyword, if any; it may lack
// /Root, which callers must then locate themselves.
//
// Objects inside object streams are not discovered.
func RebuildXRef(data []byte) (*XRefTable, error) {
	table := NewXRefTable()

	for _, m := range objHeaderPattern.FindAllSubmatchIndex(data, -1) {
		start := m[2]
		if start > 0 && !isWhitespace(data[start-1]) && !isDelimiter(data[start-1]) {
			continue
		}
		num, err := strconv.Atoi(string(data[m[2]:m[3]]))
		if err != nil {
			continue
		}
		gen, err := strconv.Atoi(string(data[m[4]:m[5]]))
		if err != nil {
			continue
		}
		table.Set(num, &XRefEntry{Type: XRefInUse, Offset: int64(start), Generation: gen})
	}

	if table.Size() == 0 {
		return nil, fmt.Errorf("no objects found")
	}

	if idx := bytes.LastIndex(data, []byte("trailer")); idx >= 0 {
		obj, err := NewParser(bytes.NewReader(data[idx+len("trailer"):])).ParseObject()
		if dict, ok := obj.(Dict); err == nil && ok {
			table.Trailer = dict
		}
	}

	return table, nil
}
