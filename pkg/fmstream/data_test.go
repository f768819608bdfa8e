package fmstream

import (
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestParseData(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"bare array", `[[["a.example.com",0,0,0,0,0,0,1]],[]]`},
		{"var assignment", "var data = [[[\"a.example.com\",0,0,0,0,0,0,1]],[]];\n"},
		{"const assignment", `const data=[[["a.example.com",0,0,0,0,0,0,1]],[]]`},
		{"assignment after other code", `var x=1;data = [[["a.example.com",0,0,0,0,0,0,1]],[]];var y=[3];`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := ParseData(strings.NewReader(tc.input))
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Empty(t, records[1])

			url, err := records[0][0].URL()
			require.NoError(t, err)
			assert.Equal(t, "https://a.example.com", url)
		})
	}
}

func TestParseDataErrors(t *testing.T) {
	_, err := ParseData(strings.NewReader("   "))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ParseData(strings.NewReader(`var other = [1,2];`))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ParseData(strings.NewReader(`mydata = [1,2];`))
	assert.ErrorIs(t, err, ErrNoData, "only an assignment to data itself counts")

	_, err = ParseData(strings.NewReader(`var data = [[["unterminated"`))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ParseData(strings.NewReader(`[[["a",0,0,0,0,0,0,1]`))
	require.Error(t, err)
}

func TestParseDataKeepsLargeTags(t *testing.T) {
	records, err := ParseData(strings.NewReader(`[[["h",0,0,0,0,0,0,4294967297]]]`))
	require.NoError(t, err)

	tag, err := records[0][0].Tag()
	require.NoError(t, err)
	assert.Equal(t, int64(4294967297), tag)

	url, err := records[0][0].URL()
	require.NoError(t, err)
	assert.Equal(t, "https://h", url)
}

func TestScanArray(t *testing.T) {
	src := []byte(`["a]", 'b\'[', [1, [2]], "c\"]"] tail`)
	arr, ok := scanArray(src, 0)
	require.True(t, ok)
	assert.Equal(t, `["a]", 'b\'[', [1, [2]], "c\"]"]`, string(arr))

	_, ok = scanArray([]byte(`[[1]`), 0)
	assert.False(t, ok)

	arr, ok = scanArray([]byte("[ // note ]\n[1], /* ] */ [2], \"// kept\"] tail"), 0)
	require.True(t, ok)
	assert.Equal(t, "[ \n[1],   [2], \"// kept\"]", string(arr))

	_, ok = scanArray([]byte("[1, /* open"), 0)
	assert.False(t, ok)
}

func TestParseDataSkipsComments(t *testing.T) {
	records, err := ParseData(strings.NewReader("var data = [ // note ]\n[[\"a.example.com\",0,0,0,0,0,0,4]] /* ] */];"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	url, err := records[0][0].URL()
	require.NoError(t, err)
	assert.Equal(t, "rtsp://a.example.com", url)
}

func TestPageData(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><head>
<script src="rsd.js"></script>
<script>var unrelated = [1];</script>
<script>
var data=[[["x.example.com/;",0,0,0,0,0,0,2]]];
</script></head></html>`))
	require.NoError(t, err)

	records, err := PageData(doc)
	require.NoError(t, err)
	require.Len(t, records, 1)

	url, err := records[0][0].URL()
	require.NoError(t, err)
	assert.Equal(t, "mms://x.example.com/;", url)
}

func TestStationNamesSelector(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(testPage))
	require.NoError(t, err)

	names := StationNames(doc, cascadia.MustCompile(DefaultSelector))
	assert.Equal(t, []string{"Classic Rock", "Radio Nova", "Solo", "Empty Station"}, names)

	names = StationNames(doc, cascadia.MustCompile(".other > div"))
	assert.Equal(t, []string{"Not A Station"}, names)
}
