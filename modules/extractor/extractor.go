package extractor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/grafana/dskit/services"
	pkgerrors "github.com/pkg/errors"
	"github.com/zachfi/zkit/pkg/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zachfi/stationgo/pkg/fmstream"
)

var module = "extractor"

var tracer = otel.Tracer(module)

// Extractor runs one extraction over the configured listing while starting,
// writes the stations document and keeps it for the HTTP API.
type Extractor struct {
	services.Service
	cfg    *Config
	logger *slog.Logger
	ex     *fmstream.Extractor

	// stdin and stdout stand in for "-" paths.
	stdin  io.Reader
	stdout io.Writer

	mtx   sync.RWMutex
	doc   *fmstream.Document
	stats fmstream.Stats
}

// New creates and returns a new Extractor.
func New(cfg Config, logger slog.Logger) (*Extractor, error) {
	ex, err := fmstream.New(fmstream.Options{Selector: cfg.Selector, Strict: cfg.Strict})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "invalid extractor config")
	}

	e := &Extractor{
		cfg:    &cfg,
		logger: logger.With("module", module),
		ex:     ex,
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}

	e.Service = services.NewBasicService(e.starting, e.running, e.stopping)

	return e, nil
}

// starting performs the extraction so that a failed run fails the service
// before it reports running.
func (e *Extractor) starting(ctx context.Context) error {
	if e.cfg.PageFile == "" {
		return errors.New("no page file configured")
	}

	doc, err := e.Run(ctx)
	if err != nil {
		return err
	}

	e.logger.Info("stations extracted", "stations", doc.Stations.Len())
	return nil
}

// running keeps the last document available until the service is stopped.
func (e *Extractor) running(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (e *Extractor) stopping(_ error) error {
	e.logger.Debug("stopping")
	return nil
}

// Run reads the listing, extracts the stations and writes the document.
func (e *Extractor) Run(ctx context.Context) (*fmstream.Document, error) {
	_, span := tracer.Start(ctx, "Extractor.Run")

	doc, stats, err := e.extract()
	span.SetAttributes(
		attribute.Int("names", stats.Names),
		attribute.Int("records", stats.Records),
		attribute.Int("written", stats.Written),
	)
	observe(doc, stats, err)
	if err != nil {
		return nil, tracing.ErrHandler(span, err, "extraction failed", e.logger)
	}

	if err = e.write(doc); err != nil {
		return nil, tracing.ErrHandler(span, err, "failed to write stations", e.logger)
	}

	e.mtx.Lock()
	e.doc = doc
	e.stats = stats
	e.mtx.Unlock()

	e.logger.Debug("extraction stats",
		"names", stats.Names,
		"records", stats.Records,
		"skipped", stats.Skipped,
		"overwritten", stats.Overwritten,
	)

	if stats.Names != stats.Records {
		e.logger.Warn("station names and records differ in length, extra entries ignored",
			"names", stats.Names, "records", stats.Records)
	}

	return doc, tracing.ErrHandler(span, nil, "", e.logger)
}

// Document returns the last extracted document, or nil before the first
// successful run.
func (e *Extractor) Document() (*fmstream.Document, fmstream.Stats) {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	return e.doc, e.stats
}

func (e *Extractor) extract() (*fmstream.Document, fmstream.Stats, error) {
	page, closePage, err := e.open(e.cfg.PageFile)
	if err != nil {
		return nil, fmstream.Stats{}, pkgerrors.Wrap(err, "failed to open page")
	}
	defer closePage()

	var data io.Reader
	if e.cfg.DataFile != "" {
		r, closeData, err := e.open(e.cfg.DataFile)
		if err != nil {
			return nil, fmstream.Stats{}, pkgerrors.Wrap(err, "failed to open data")
		}
		defer closeData()
		data = r
	}

	return e.ex.ExtractPage(page, data)
}

func (e *Extractor) open(name string) (io.Reader, func(), error) {
	if name == stdio {
		return e.stdin, func() {}, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func (e *Extractor) write(doc *fmstream.Document) error {
	if e.cfg.OutputFile == "" || e.cfg.OutputFile == stdio {
		return doc.Encode(e.stdout, e.cfg.Indent)
	}

	f, err := os.Create(e.cfg.OutputFile)
	if err != nil {
		return err
	}

	if err := doc.Encode(f, e.cfg.Indent); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
