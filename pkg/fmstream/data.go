package fmstream

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/goccy/go-json"
)

// dataAssign matches the start of a data assignment in page scripts, up to
// and including the opening bracket of the array.
var dataAssign = regexp.MustCompile(`(?:^|[^\w$.])(?:(?:var|let|const)\s+)?data\s*=\s*\[`)

// ParseData decodes the station records. The input is either a bare JSON
// array or a script assignment such as "var data = [...];".
func ParseData(r io.Reader) ([]Record, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, ErrNoData
	}

	if b[0] != '[' {
		arr, ok := assignedArray(b)
		if !ok {
			return nil, fmt.Errorf("data is neither a JSON array nor a data assignment: %w", ErrNoData)
		}
		b = arr
	}

	return decodeRecords(b)
}

func decodeRecords(b []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	return records, nil
}

// assignedArray returns the array literal of the first data assignment in
// src, with comments removed.
func assignedArray(src []byte) ([]byte, bool) {
	loc := dataAssign.FindIndex(src)
	if loc == nil {
		return nil, false
	}
	return scanArray(src, loc[1]-1)
}

// scanArray copies the array literal opening at src[open] up to its closing
// bracket. String literals are copied verbatim; line and block comments are
// dropped. It reports false when the input ends first.
func scanArray(src []byte, open int) ([]byte, bool) {
	out := make([]byte, 0, len(src)-open)
	depth := 0
	var quote byte

	for i := open; i < len(src); i++ {
		c := src[i]

		if quote != 0 {
			out = append(out, c)
			switch c {
			case '\\':
				if i+1 < len(src) {
					i++
					out = append(out, src[i])
				}
			case quote:
				quote = 0
			}
			continue
		}

		if c == '/' && i+1 < len(src) {
			switch src[i+1] {
			case '/':
				j := bytes.IndexByte(src[i:], '\n')
				if j < 0 {
					return nil, false
				}
				i += j - 1
				continue
			case '*':
				j := bytes.Index(src[i+2:], []byte("*/"))
				if j < 0 {
					return nil, false
				}
				i += j + 3
				out = append(out, ' ')
				continue
			}
		}

		out = append(out, c)
		switch c {
		case '"', '\'':
			quote = c
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return out, true
			}
		}
	}

	return nil, false
}
