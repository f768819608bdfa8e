package fmstream

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(n int) json.Number { return json.Number(strconv.Itoa(n)) }

func candidate(host string, tag int) Candidate {
	return Candidate{host, num(0), num(0), num(0), num(0), num(0), num(0), num(tag)}
}

func TestStripFlag(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"US Classic Rock", "Classic Rock"},
		{"MRC Station Name", "Station Name"},
		{"Solo", "Solo"},
		{"  Solo  ", "Solo"},
		{"FR  Radio Nova ", "Radio Nova"},
		{"", ""},
		{" Leading", "Leading"},
		{"US \uFEFFBOM Radio\uFEFF", "BOM Radio"},
		{"\uFEFF", ""},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, StripFlag(tc.raw))
		})
	}
}

func TestStripFlagIdempotentWithoutSpaces(t *testing.T) {
	for _, x := range []string{"Solo", "Radio-1", "\tTabbed\t", "ÉcoleFM", ""} {
		once := StripFlag(x)
		assert.Equal(t, once, StripFlag(once), "input %q", x)
	}
}

func TestDecodeScheme(t *testing.T) {
	want := []Scheme{HTTP, HTTPS, MMS, MMSH, RTSP, RTMP}

	for v := int64(0); v < 64; v++ {
		s, err := DecodeScheme(v)
		idx := v & 7
		if idx >= 6 {
			require.Error(t, err, "tag %d", v)
			assert.ErrorIs(t, err, ErrUndefinedScheme)

			var se *SchemeError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, int(idx), se.Index)
			assert.Equal(t, v, se.Tag)
			continue
		}
		require.NoError(t, err, "tag %d", v)
		assert.Equal(t, want[idx], s, "tag %d", v)
	}

	assert.Equal(t, want, Schemes())
}

func TestCandidateURL(t *testing.T) {
	url, err := candidate("stream.example.com/live", 1).URL()
	require.NoError(t, err)
	assert.Equal(t, "https://stream.example.com/live", url)

	url, err = candidate("host", 8).URL()
	require.NoError(t, err)
	assert.Equal(t, "http://host", url)

	url, err = candidate("a b/ü?x=1&y", 4).URL()
	require.NoError(t, err)
	assert.Equal(t, "rtsp://a b/ü?x=1&y", url, "host is used verbatim")
}

func TestCandidateIntegralTags(t *testing.T) {
	cases := []struct {
		tag  json.Number
		want int64
	}{
		{"1.0", 1},
		{"1e0", 1},
		{"4E0", 4},
		{"9e18", 9e18},
		{"-2.0", -2},
	}

	for _, tc := range cases {
		t.Run(tc.tag.String(), func(t *testing.T) {
			c := Candidate{"host", 0, 0, 0, 0, 0, 0, tc.tag}
			tag, err := c.Tag()
			require.NoError(t, err)
			assert.Equal(t, tc.want, tag)
		})
	}

	url, err := Candidate{"host", 0, 0, 0, 0, 0, 0, json.Number("1.0")}.URL()
	require.NoError(t, err)
	assert.Equal(t, "https://host", url)
}

func TestCandidateFieldErrors(t *testing.T) {
	cases := []struct {
		name  string
		c     Candidate
		index int
	}{
		{"short", Candidate{"host", num(1)}, tagField},
		{"tag not a number", Candidate{"host", 0, 0, 0, 0, 0, 0, "1"}, tagField},
		{"tag null", Candidate{"host", 0, 0, 0, 0, 0, 0, nil}, tagField},
		{"tag fraction", Candidate{"host", 0, 0, 0, 0, 0, 0, json.Number("1.5")}, tagField},
		{"tag out of range", Candidate{"host", 0, 0, 0, 0, 0, 0, json.Number("1e19")}, tagField},
		{"host not a string", Candidate{num(3), 0, 0, 0, 0, 0, 0, num(1)}, hostField},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.c.URL()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingField)

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.index, fe.Index)
		})
	}
}

func TestExtract(t *testing.T) {
	ex, err := New(Options{})
	require.NoError(t, err)

	names := []string{"Classic Rock", "Jazz", "Talk", "News"}
	records := []Record{
		{candidate("rock.example.com/live", 1), candidate("ignored.example.com", 0)},
		{},
		{Candidate{}},
		{candidate("news.example.com:8000/;", 8)},
	}

	m, stats, err := ex.Extract(names, records)
	require.NoError(t, err)

	assert.Equal(t, []string{"Classic Rock", "News"}, m.Names())

	url, ok := m.Get("Classic Rock")
	require.True(t, ok)
	assert.Equal(t, "https://rock.example.com/live", url)

	url, ok = m.Get("News")
	require.True(t, ok)
	assert.Equal(t, "http://news.example.com:8000/;", url)

	_, ok = m.Get("Jazz")
	assert.False(t, ok, "empty record contributes no key")
	_, ok = m.Get("Talk")
	assert.False(t, ok, "empty first candidate contributes no key")

	assert.Equal(t, Stats{Names: 4, Records: 4, Paired: 4, Skipped: 2, Written: 2}, stats)
}

func TestExtractTruncatesMismatchedLengths(t *testing.T) {
	ex, err := New(Options{})
	require.NoError(t, err)

	names := []string{"A", "B", "C"}
	records := []Record{
		{candidate("a.example.com", 0)},
		{candidate("b.example.com", 1)},
	}

	m, stats, err := ex.Extract(names, records)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 2, stats.Paired)

	records = append(records, Record{candidate("c.example.com", 2)}, Record{candidate("d.example.com", 3)})
	m, _, err = ex.Extract(names, records)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, m.Names())
}

func TestExtractStrictRejectsMismatchedLengths(t *testing.T) {
	ex, err := New(Options{Strict: true})
	require.NoError(t, err)

	_, _, err = ex.Extract([]string{"A", "B", "C"}, []Record{{candidate("a", 0)}, {candidate("b", 0)}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	var le *LengthMismatchError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 3, le.Names)
	assert.Equal(t, 2, le.Records)

	m, _, err := ex.Extract([]string{"A"}, []Record{{candidate("a", 0)}})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}

func TestExtractDuplicateNamesOverwrite(t *testing.T) {
	ex, err := New(Options{})
	require.NoError(t, err)

	m, stats, err := ex.Extract(
		[]string{"Dup", "Other", "Dup"},
		[]Record{{candidate("first", 0)}, {candidate("other", 0)}, {candidate("second", 1)}},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"Dup", "Other"}, m.Names())
	url, _ := m.Get("Dup")
	assert.Equal(t, "https://second", url)
	assert.Equal(t, 1, stats.Overwritten)
	assert.Equal(t, 3, stats.Written)
}

func TestExtractAbortsOnDecodingError(t *testing.T) {
	ex, err := New(Options{})
	require.NoError(t, err)

	cases := []struct {
		name   string
		record Record
		target error
	}{
		{"undefined scheme 6", Record{candidate("h", 6)}, ErrUndefinedScheme},
		{"undefined scheme 15", Record{candidate("h", 15)}, ErrUndefinedScheme},
		{"missing tag", Record{Candidate{"h"}}, ErrMissingField},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _, err := ex.Extract(
				[]string{"Good", "Bad"},
				[]Record{{candidate("good", 0)}, tc.record},
			)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, tc.target)

			var se *StationError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, 1, se.Position)
			assert.Equal(t, "Bad", se.Name)
		})
	}
}

func TestNewRejectsBadSelector(t *testing.T) {
	_, err := New(Options{Selector: "#tab >"})
	require.Error(t, err)
}

const testPage = `<!DOCTYPE html>
<html><body>
<div id="tab">
  <div><img alt="">US Classic Rock</div>
  <div>FR <b>Radio</b> Nova</div>
  <div>Solo</div>
  <div>DE Empty Station</div>
</div>
<div class="other"><div>XX Not A Station</div></div>
<script>var data = [
  [["rock.example.com/live",0,0,0,0,0,0,1]],
  [["nova.example.com/stream?a=1&b=[2]",0,0,0,0,0,0,"x",9]],
  [["solo.example.com",0,0,0,0,0,0,12], ["backup.example.com",0,0,0,0,0,0,0]],
  []
];</script>
</body></html>`

func TestExtractPageFromEmbeddedData(t *testing.T) {
	ex, err := New(Options{})
	require.NoError(t, err)

	doc, stats, err := ex.ExtractPage(strings.NewReader(testPage), nil)
	require.Error(t, err, "record 1 carries a string tag")
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, 4, stats.Names)

	page := strings.Replace(testPage, `0,"x",9`, `0,9`, 1)
	doc, stats, err = ex.ExtractPage(strings.NewReader(page), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Classic Rock", "Radio Nova", "Solo"}, doc.Stations.Names())
	url, _ := doc.Stations.Get("Radio Nova")
	assert.Equal(t, "https://nova.example.com/stream?a=1&b=[2]", url)
	url, _ = doc.Stations.Get("Solo")
	assert.Equal(t, "rtsp://solo.example.com", url)
	assert.Equal(t, 1, stats.Skipped)
}

func TestExtractPageWithSeparateData(t *testing.T) {
	ex, err := New(Options{})
	require.NoError(t, err)

	data := `[[["one.example.com",0,0,0,0,0,0,5]],[["two.example.com",0,0,0,0,0,0,3]]]`
	doc, stats, err := ex.ExtractPage(strings.NewReader(testPage), strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Paired)
	assert.Equal(t, []string{"Classic Rock", "Radio Nova"}, doc.Stations.Names())

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf, true))
	assert.Equal(t, `{
  "stations": {
    "Classic Rock": "rtmp://one.example.com",
    "Radio Nova": "mmsh://two.example.com"
  }
}
`, buf.String())
}

func TestExtractPageWithoutData(t *testing.T) {
	ex, err := New(Options{})
	require.NoError(t, err)

	_, _, err = ex.ExtractPage(strings.NewReader(`<div id="tab"><div>US A</div></div>`), nil)
	assert.ErrorIs(t, err, ErrNoData)
}
