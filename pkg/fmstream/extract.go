package fmstream

import (
	"fmt"
	"io"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

type Options struct {
	// Selector matches the station name nodes. Defaults to DefaultSelector.
	Selector string

	// Strict rejects name and record sequences of different lengths instead
	// of truncating to the shorter one.
	Strict bool
}

// Stats describes one extraction.
type Stats struct {
	Names       int
	Records     int
	Paired      int
	Skipped     int
	Written     int
	Overwritten int
}

// Extractor pairs station names with records. It holds no per-run state and
// may be used concurrently.
type Extractor struct {
	sel    cascadia.Sel
	strict bool
}

func New(opts Options) (*Extractor, error) {
	if opts.Selector == "" {
		opts.Selector = DefaultSelector
	}

	sel, err := cascadia.Parse(opts.Selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", opts.Selector, err)
	}

	return &Extractor{sel: sel, strict: opts.Strict}, nil
}

// Extract pairs names[i] with records[i] and returns the resulting station
// map. Records with no usable first candidate are skipped. The first
// decoding error aborts the run.
func (e *Extractor) Extract(names []string, records []Record) (*StationMap, Stats, error) {
	stats := Stats{Names: len(names), Records: len(records)}

	n := len(records)
	if len(names) != len(records) {
		if e.strict {
			return nil, stats, &LengthMismatchError{Names: len(names), Records: len(records)}
		}
		n = min(len(names), len(records))
	}
	stats.Paired = n

	m := NewStationMap()
	for i := 0; i < n; i++ {
		c, ok := records[i].First()
		if !ok {
			stats.Skipped++
			continue
		}

		url, err := c.URL()
		if err != nil {
			return nil, stats, &StationError{Position: i, Name: names[i], Err: err}
		}

		if m.Set(names[i], url) {
			stats.Overwritten++
		}
		stats.Written++
	}

	return m, stats, nil
}

// ExtractPage reads station names from page and records from data. When
// data is nil the records are taken from the page's own scripts.
func (e *Extractor) ExtractPage(page io.Reader, data io.Reader) (*Document, Stats, error) {
	doc, err := html.Parse(page)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to parse page: %w", err)
	}

	names := StationNames(doc, e.sel)

	var records []Record
	if data != nil {
		records, err = ParseData(data)
	} else {
		records, err = PageData(doc)
	}
	if err != nil {
		return nil, Stats{}, err
	}

	m, stats, err := e.Extract(names, records)
	if err != nil {
		return nil, stats, err
	}

	return NewDocument(m), stats, nil
}
