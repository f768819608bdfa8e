package fmstream

import (
	"strings"
	"unicode"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// DefaultSelector matches the station name nodes of an fmstream listing.
const DefaultSelector = "#tab > div"

var scriptSel = cascadia.MustCompile("script")

// StripFlag drops the leading flag token, everything up to and including the
// first space, and trims the rest. Text without a space is only trimmed.
// Trimming also removes byte order marks.
func StripFlag(raw string) string {
	if i := strings.IndexByte(raw, ' '); i >= 0 {
		raw = raw[i+1:]
	}
	return strings.TrimFunc(raw, isTrimmed)
}

func isTrimmed(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// StationNames returns the stripped text of every node matching sel, in
// document order.
func StationNames(doc *html.Node, sel cascadia.Matcher) []string {
	nodes := cascadia.QueryAll(doc, sel)

	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, StripFlag(textContent(n)))
	}
	return names
}

// PageData decodes the records assigned to data by one of the page's
// scripts.
func PageData(doc *html.Node) ([]Record, error) {
	for _, s := range cascadia.QueryAll(doc, scriptSel) {
		arr, ok := assignedArray([]byte(textContent(s)))
		if !ok {
			continue
		}
		return decodeRecords(arr)
	}
	return nil, ErrNoData
}

// textContent concatenates every descendant text node, like the DOM
// property of the same name.
func textContent(n *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return b.String()
}
