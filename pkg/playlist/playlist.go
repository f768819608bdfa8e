// Package playlist classifies and parses PLS and M3U playlists without
// fetching them.
package playlist

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
)

// Type is a playlist format.
type Type int

const (
	None Type = iota
	M3U
	HLS
	PLS
)

func (t Type) String() string {
	switch t {
	case M3U:
		return "m3u"
	case HLS:
		return "m3u8"
	case PLS:
		return "pls"
	}
	return "none"
}

// Kind classifies a URL or path by its suffix, ignoring case.
func Kind(u string) Type {
	lower := strings.ToLower(u)
	switch {
	case strings.HasSuffix(lower, ".m3u8"):
		return HLS
	case strings.HasSuffix(lower, ".m3u"):
		return M3U
	case strings.HasSuffix(lower, ".pls"):
		return PLS
	}
	return None
}

// Detect classifies playlist content by its opening lines.
func Detect(content string) Type {
	trimmed := strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(trimmed, "#EXTM3U"):
		return M3U
	case strings.Contains(trimmed, "[playlist]"):
		return PLS
	}
	return None
}

// Parse dispatches to the parser for t. HLS playlists parse as M3U.
func Parse(t Type, r io.Reader) ([]string, error) {
	switch t {
	case M3U, HLS:
		return ParseM3U(r)
	case PLS:
		return ParsePLS(r)
	}
	return nil, fmt.Errorf("unsupported playlist type %s", t)
}

// ParsePLS returns the value of every FileN entry.
func ParsePLS(r io.Reader) ([]string, error) {
	var urls []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(strings.ToLower(line), "file") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if u := strings.TrimSpace(parts[1]); u != "" {
			urls = append(urls, u)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}

	return urls, nil
}

// ParseM3U returns the entries of an M3U or M3U8 playlist: the line after
// each #EXTINF, and bare lines that look like absolute or rooted URLs.
func ParseM3U(r io.Reader) ([]string, error) {
	var urls []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "#EXTINF"):
			if scanner.Scan() {
				if u := strings.TrimSpace(scanner.Text()); u != "" {
					urls = append(urls, u)
				}
			}
		case line == "" || strings.HasPrefix(line, "#"):
		case strings.HasPrefix(line, "http") || strings.HasPrefix(line, "/"):
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}

	return urls, nil
}

// Resolve resolves ref against base.
func Resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid relative URL: %w", err)
	}

	return b.ResolveReference(r).String(), nil
}

// LikelyICY reports whether u looks like a bare Shoutcast/Icecast mount:
// it ends in "/;" or its last path element has no extension.
func LikelyICY(u string) bool {
	lower := strings.ToLower(u)
	if strings.HasSuffix(lower, "/;") {
		return true
	}
	if parsed, err := url.Parse(lower); err == nil && parsed.Host != "" {
		if parsed.Path == "" {
			return true
		}
		lower = parsed.Path
	}
	return !strings.Contains(path.Base(lower), ".")
}
