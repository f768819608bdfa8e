package fmstream

import (
	"bytes"
	"io"

	"github.com/goccy/go-json"
)

// StationMap maps station names to stream URLs and remembers insertion
// order. Overwriting a name replaces its URL but keeps its first position.
type StationMap struct {
	names []string
	urls  map[string]string
}

func NewStationMap() *StationMap {
	return &StationMap{urls: make(map[string]string)}
}

// Set stores url under name and reports whether an earlier value was
// replaced.
func (m *StationMap) Set(name, url string) bool {
	if m.urls == nil {
		m.urls = make(map[string]string)
	}

	_, ok := m.urls[name]
	if !ok {
		m.names = append(m.names, name)
	}
	m.urls[name] = url
	return ok
}

func (m *StationMap) Get(name string) (string, bool) {
	url, ok := m.urls[name]
	return url, ok
}

func (m *StationMap) Len() int { return len(m.names) }

// Names returns the station names in insertion order.
func (m *StationMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Range calls fn for each station in insertion order until fn returns false.
func (m *StationMap) Range(fn func(name, url string) bool) {
	for _, name := range m.names {
		if !fn(name, m.urls[name]) {
			return
		}
	}
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *StationMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.writeJSON(&buf, "", ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeJSON writes the object without HTML escaping. A non-empty indent puts
// each entry on its own line below prefix.
func (m *StationMap) writeJSON(buf *bytes.Buffer, prefix, indent string) error {
	if len(m.names) == 0 {
		buf.WriteString("{}")
		return nil
	}

	sep := ":"
	if indent != "" {
		sep = ": "
	}

	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		if indent != "" {
			buf.WriteString("\n" + prefix + indent)
		}

		k, err := json.MarshalNoEscape(name)
		if err != nil {
			return err
		}
		v, err := json.MarshalNoEscape(m.urls[name])
		if err != nil {
			return err
		}

		buf.Write(k)
		buf.WriteString(sep)
		buf.Write(v)
	}
	if indent != "" {
		buf.WriteString("\n" + prefix)
	}
	buf.WriteByte('}')

	return nil
}

// Document is the extraction output, {"stations": {...}}.
type Document struct {
	Stations *StationMap `json:"stations"`
}

func NewDocument(m *StationMap) *Document {
	if m == nil {
		m = NewStationMap()
	}
	return &Document{Stations: m}
}

// Encode writes the document as JSON followed by a newline. With indent set
// the output is indented by two spaces per level. Nothing is HTML escaped.
func (d *Document) Encode(w io.Writer, indent bool) error {
	m := d.Stations
	if m == nil {
		m = NewStationMap()
	}

	var buf bytes.Buffer
	var err error
	if indent {
		buf.WriteString("{\n  \"stations\": ")
		err = m.writeJSON(&buf, "  ", "  ")
		buf.WriteString("\n}")
	} else {
		buf.WriteString(`{"stations":`)
		err = m.writeJSON(&buf, "", "")
		buf.WriteByte('}')
	}
	if err != nil {
		return err
	}
	buf.WriteByte('\n')

	_, err = w.Write(buf.Bytes())
	return err
}
