package catalog

import (
	"fmt"
	"io"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
)

// Summary is the result of one catalog pass.
type Summary struct {
	Files           int                 `json:"files"`
	Stations        int                 `json:"stations"`
	EmptyURLs       int                 `json:"emptyURLs"`
	InvalidURLs     int                 `json:"invalidURLs"`
	LikelyICY       int                 `json:"likelyICY"`
	Schemes         map[string]int      `json:"schemes"`
	Playlists       map[string]int      `json:"playlists"`
	EntrySchemes    map[string]int      `json:"entrySchemes"`
	PlaylistEntries int                 `json:"playlistEntries"`
	EmptyPlaylists  int                 `json:"emptyPlaylists"`
	Duplicates      map[string][]string `json:"duplicates"`
	Failures        map[string]string   `json:"failures"`
}

// tally accumulates per-file results from concurrent workers.
type tally struct {
	files           *xsync.Counter
	stations        *xsync.Counter
	emptyURLs       *xsync.Counter
	invalidURLs     *xsync.Counter
	likelyICY       *xsync.Counter
	playlistEntries *xsync.Counter
	emptyPlaylists  *xsync.Counter

	schemes      *xsync.MapOf[string, int]
	playlists    *xsync.MapOf[string, int]
	entrySchemes *xsync.MapOf[string, int]
	names        *xsync.MapOf[string, []string] // name key -> "file: name"
	failures     *xsync.MapOf[string, string]
}

func newTally() *tally {
	return &tally{
		files:           xsync.NewCounter(),
		stations:        xsync.NewCounter(),
		emptyURLs:       xsync.NewCounter(),
		invalidURLs:     xsync.NewCounter(),
		likelyICY:       xsync.NewCounter(),
		playlistEntries: xsync.NewCounter(),
		emptyPlaylists:  xsync.NewCounter(),
		schemes:         xsync.NewMapOf[string, int](),
		playlists:       xsync.NewMapOf[string, int](),
		entrySchemes:    xsync.NewMapOf[string, int](),
		names:           xsync.NewMapOf[string, []string](),
		failures:        xsync.NewMapOf[string, string](),
	}
}

func increment(m *xsync.MapOf[string, int], key string) {
	m.Compute(key, func(old int, _ bool) (int, bool) {
		return old + 1, false
	})
}

func (t *tally) name(key, ref string) {
	t.names.Compute(key, func(old []string, _ bool) ([]string, bool) {
		return append(old, ref), false
	})
}

func (t *tally) summary() *Summary {
	s := &Summary{
		Files:           int(t.files.Value()),
		Stations:        int(t.stations.Value()),
		EmptyURLs:       int(t.emptyURLs.Value()),
		InvalidURLs:     int(t.invalidURLs.Value()),
		LikelyICY:       int(t.likelyICY.Value()),
		PlaylistEntries: int(t.playlistEntries.Value()),
		EmptyPlaylists:  int(t.emptyPlaylists.Value()),
		Schemes:         make(map[string]int),
		Playlists:       make(map[string]int),
		EntrySchemes:    make(map[string]int),
		Duplicates:      make(map[string][]string),
		Failures:        make(map[string]string),
	}

	t.schemes.Range(func(k string, v int) bool {
		s.Schemes[k] = v
		return true
	})
	t.playlists.Range(func(k string, v int) bool {
		s.Playlists[k] = v
		return true
	})
	t.entrySchemes.Range(func(k string, v int) bool {
		s.EntrySchemes[k] = v
		return true
	})
	t.names.Range(func(k string, refs []string) bool {
		if len(refs) > 1 {
			sorted := append([]string(nil), refs...)
			sort.Strings(sorted)
			s.Duplicates[k] = sorted
		}
		return true
	})
	t.failures.Range(func(k, v string) bool {
		s.Failures[k] = v
		return true
	})

	return s
}

// Print writes a human readable report of s.
func Print(w io.Writer, s *Summary, disableEmoji, verbose bool) {
	maybeEmoji := func(e string) string {
		if disableEmoji {
			return ""
		}
		return e + " "
	}

	fmt.Fprintln(w, "--- Summary ---")
	fmt.Fprintf(w, "%sFiles Checked: %d\n", maybeEmoji("📁"), s.Files)
	fmt.Fprintf(w, "%sTotal Stations: %d\n", maybeEmoji("📊"), s.Stations)
	fmt.Fprintf(w, "%sEmpty URLs: %d\n", maybeEmoji("❌"), s.EmptyURLs)
	fmt.Fprintf(w, "%sInvalid URLs: %d\n", maybeEmoji("🚫"), s.InvalidURLs)
	fmt.Fprintf(w, "%sLikely ICY Streams: %d\n", maybeEmoji("📻"), s.LikelyICY)
	fmt.Fprintf(w, "%sPlaylist Entries: %d\n", maybeEmoji("📃"), s.PlaylistEntries)
	fmt.Fprintf(w, "%sEmpty Playlists: %d\n", maybeEmoji("0️⃣"), s.EmptyPlaylists)

	table(w, "Scheme", s.Schemes)
	table(w, "Playlist", s.Playlists)
	table(w, "Entry Scheme", s.EntrySchemes)

	fmt.Fprintf(w, "\n%sDuplicate Stations: %d\n", maybeEmoji("👯"), len(s.Duplicates))
	if verbose {
		for _, k := range sortedKeys(s.Duplicates) {
			fmt.Fprintf(w, "  %s\n", k)
			for _, ref := range s.Duplicates[k] {
				fmt.Fprintf(w, "    %s\n", ref)
			}
		}
	}

	fmt.Fprintf(w, "\n%sFailed Files: %d\n", maybeEmoji("⚠️"), len(s.Failures))
	if verbose {
		for _, k := range sortedKeys(s.Failures) {
			fmt.Fprintf(w, "  %s: %s\n", k, s.Failures[k])
		}
	}
}

func table(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	fmt.Fprintf(w, "\n  %-12s | Count\n", title)
	fmt.Fprintln(w, "  -------------------")
	for _, k := range sortedKeys(counts) {
		fmt.Fprintf(w, "  %-12s | %5d\n", k, counts[k])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
