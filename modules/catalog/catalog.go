package catalog

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gosimple/slug"
	"github.com/grafana/dskit/services"
	"github.com/pkg/errors"
	"github.com/zachfi/zkit/pkg/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/zachfi/stationgo/pkg/playlist"
)

var module = "catalog"

var tracer = otel.Tracer(module)

// deadDir holds retired station documents and is not checked.
const deadDir = "deadStation"

// Catalog checks a directory of station documents offline: it classifies
// every URL, parses local playlists and reports duplicate station names.
type Catalog struct {
	services.Service
	cfg    *Config
	logger *slog.Logger
	stdout io.Writer

	mtx     sync.RWMutex
	summary *Summary
}

// New creates and returns a new Catalog.
func New(cfg Config, logger slog.Logger) (*Catalog, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}

	c := &Catalog{
		cfg:    &cfg,
		logger: logger.With("module", module),
		stdout: os.Stdout,
	}

	c.Service = services.NewBasicService(c.starting, c.running, c.stopping)

	return c, nil
}

// starting runs the catalog pass and prints its report.
func (c *Catalog) starting(ctx context.Context) error {
	dir, err := filepath.Abs(c.cfg.Dir)
	if err != nil {
		return errors.Wrapf(err, "could not resolve %s", c.cfg.Dir)
	}
	c.cfg.Dir = dir

	s, err := c.Check(ctx)
	if err != nil {
		return err
	}

	Print(c.stdout, s, c.cfg.DisableEmoji, c.cfg.Verbose)
	return nil
}

func (c *Catalog) running(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (c *Catalog) stopping(_ error) error {
	c.logger.Debug("stopping")
	return nil
}

// Summary returns the result of the last pass, or nil before the first one
// completes.
func (c *Catalog) Summary() *Summary {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.summary
}

// Check walks the configured directory and checks every station document.
// Unreadable documents are recorded as failures; only walk errors and
// cancellation abort the pass.
func (c *Catalog) Check(ctx context.Context) (*Summary, error) {
	ctx, span := tracer.Start(ctx, "Catalog.Check")

	files, err := c.collect()
	if err != nil {
		return nil, tracing.ErrHandler(span, errors.Wrap(err, "error walking directory"), "catalog pass failed", c.logger)
	}
	span.SetAttributes(attribute.Int("files", len(files)))

	t := newTally()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.checkFile(f, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, tracing.ErrHandler(span, err, "catalog pass interrupted", c.logger)
	}

	s := t.summary()
	observe(s)

	c.mtx.Lock()
	c.summary = s
	c.mtx.Unlock()

	c.logger.Info("catalog checked",
		"files", s.Files,
		"stations", s.Stations,
		"duplicates", len(s.Duplicates),
		"failures", len(s.Failures),
	)

	return s, tracing.ErrHandler(span, nil, "", c.logger)
}

func (c *Catalog) collect() ([]string, error) {
	dead := filepath.Join(c.cfg.Dir, deadDir)

	var files []string
	err := filepath.WalkDir(c.cfg.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == dead {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".json" {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func (c *Catalog) checkFile(path string, t *tally) {
	rel, err := filepath.Rel(c.cfg.Dir, path)
	if err != nil {
		rel = path
	}

	c.logger.Debug("processing document", "file", rel)
	t.files.Inc()

	stations, err := readStations(path)
	if err != nil {
		c.logger.Warn("unreadable document", "file", rel, "err", err)
		t.failures.Store(rel, err.Error())
		return
	}
	if stations == nil {
		c.logger.Warn("no stations found", "file", rel)
		t.failures.Store(rel, "no stations object")
		return
	}

	for _, name := range sortedKeys(stations) {
		t.stations.Inc()
		t.name(nameKey(name), rel+": "+name)

		url, ok := stations[name].(string)
		if !ok {
			c.logger.Warn("invalid URL format", "file", rel, "station", name)
			t.invalidURLs.Inc()
			continue
		}
		c.checkURL(filepath.Dir(path), name, url, t)
	}
}

// nameKey folds a station name for duplicate detection. Names without any
// letter or digit slug to nothing and are compared as written instead.
func nameKey(name string) string {
	if key := slug.Make(name); key != "" {
		return key
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *Catalog) checkURL(dir, name, u string, t *tally) {
	if u == "" {
		c.logger.Debug("empty URL", "station", name)
		t.emptyURLs.Inc()
		return
	}

	scheme := schemeOf(u)
	increment(t.schemes, scheme)

	// Only relative URLs point at files next to the document.
	local := scheme == "none"

	var content []byte
	if local {
		b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(u)))
		if err != nil {
			c.logger.Debug("unreadable local file", "station", name, "url", u, "err", err)
		} else {
			content = b
		}
	}

	kind := playlist.Kind(u)
	if kind == playlist.None && content != nil {
		kind = playlist.Detect(string(content))
	}
	if kind == playlist.None {
		if playlist.LikelyICY(u) {
			t.likelyICY.Inc()
		}
		return
	}
	increment(t.playlists, kind.String())

	// Remote playlists are only classified.
	if content == nil {
		return
	}

	entries, err := playlist.Parse(kind, bytes.NewReader(content))
	if err != nil {
		c.logger.Debug("unreadable playlist", "station", name, "url", u, "err", err)
		return
	}
	if len(entries) == 0 {
		c.logger.Debug("no URLs found in playlist", "station", name, "url", u)
		t.emptyPlaylists.Inc()
		return
	}
	t.playlistEntries.Add(int64(len(entries)))

	for _, entry := range entries {
		resolved, err := playlist.Resolve(u, entry)
		if err != nil {
			c.logger.Debug("unresolvable playlist entry", "station", name, "entry", entry, "err", err)
			resolved = entry
		}

		increment(t.entrySchemes, schemeOf(resolved))
		if playlist.Kind(resolved) == playlist.None && playlist.LikelyICY(resolved) {
			t.likelyICY.Inc()
		}
	}
}

// schemeOf returns the lower cased scheme of u, or "none" when u has none.
func schemeOf(u string) string {
	if i := strings.Index(u, "://"); i > 0 {
		return strings.ToLower(u[:i])
	}
	return "none"
}

// readStations decodes the stations object of a document. Values are kept
// as decoded so that a bad entry does not fail the whole file. A missing or
// non-object stations value returns nil.
func readStations(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc struct {
		Stations any `json:"stations"`
	}
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "error parsing JSON")
	}

	stations, _ := doc.Stations.(map[string]any)
	return stations, nil
}
