package fmstream

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

const (
	hostField = 0
	tagField  = 7
)

// Candidate is one stream option of a station, a positional field list as
// decoded from the data array.
type Candidate []any

// Host returns field 0, the host and path of the stream.
func (c Candidate) Host() (string, error) {
	if len(c) <= hostField {
		return "", &FieldError{Index: hostField, Reason: "absent"}
	}
	s, ok := c[hostField].(string)
	if !ok {
		return "", &FieldError{Index: hostField, Reason: fmt.Sprintf("want string, got %s", typeName(c[hostField]))}
	}
	return s, nil
}

// Tag returns field 7, the integer carrying the scheme in its low bits.
func (c Candidate) Tag() (int64, error) {
	if len(c) <= tagField {
		return 0, &FieldError{Index: tagField, Reason: "absent"}
	}

	switch v := c[tagField].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		// 1.0, 1e0 and the like name integers too.
		f, err := v.Float64()
		if err != nil || !integral(f) {
			return 0, &FieldError{Index: tagField, Reason: fmt.Sprintf("%q is not an integer", v.String())}
		}
		return int64(f), nil
	case float64:
		if !integral(v) {
			return 0, &FieldError{Index: tagField, Reason: fmt.Sprintf("%v is not an integer", v)}
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	}

	return 0, &FieldError{Index: tagField, Reason: fmt.Sprintf("want integer, got %s", typeName(c[tagField]))}
}

// URL builds the stream URL: scheme, "://", then field 0 verbatim.
func (c Candidate) URL() (string, error) {
	tag, err := c.Tag()
	if err != nil {
		return "", err
	}

	scheme, err := DecodeScheme(tag)
	if err != nil {
		return "", err
	}

	host, err := c.Host()
	if err != nil {
		return "", err
	}

	return string(scheme) + "://" + host, nil
}

// Record holds every stream candidate listed for one station.
type Record []Candidate

// First returns the first candidate when the record has one with at least
// one field.
func (r Record) First() (Candidate, bool) {
	if len(r) == 0 || len(r[0]) == 0 {
		return nil, false
	}
	return r[0], true
}

// integral reports whether f is a whole number inside the int64 range.
func integral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
