// Package session owns one host connection and the document it has open.
//
// A Session is the entry point the CLI drives: it opens a document, hands the
// occurrence tree to the traversal engine and returns flattened records. At
// most one document is active at a time; opening another replaces it.
package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tbre-automation/partslist/internal/assembly"
	"github.com/tbre-automation/partslist/internal/config"
	"github.com/tbre-automation/partslist/internal/host"
)

var (
	// ErrNoActiveDocument indicates an operation needing an open document ran
	// before any document was opened.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrUnsupportedDocument indicates a document that is neither a part nor
	// an assembly.
	ErrUnsupportedDocument = errors.New("unsupported document type")

	// ErrClosed indicates use of a closed session.
	ErrClosed = errors.New("session closed")
)

// Options configures a Session.
type Options struct {
	MaxDepth int
	Filter   *assembly.Filter

	// CacheCapacity enables the per-session extraction cache when positive.
	CacheCapacity int
}

// Session is a connection to a CAD host plus its active document.
// A Session is not safe for concurrent use.
type Session struct {
	app       host.Application
	log       *zap.Logger
	opts      Options
	extractor assembly.Extractor
	cache     *assembly.CachingExtractor

	active host.Document
	closed bool
}

// New wraps an already connected host.
func New(app host.Application, log *zap.Logger, opts Options) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		app:       app,
		log:       log,
		opts:      opts,
		extractor: assembly.NewExtractor(log),
	}
	if opts.CacheCapacity > 0 {
		cache, err := assembly.NewCachingExtractor(s.extractor, opts.CacheCapacity)
		if err != nil {
			return nil, err
		}
		s.cache = cache
		s.extractor = cache
	}
	return s, nil
}

// Connect dials the host selected by cfg and wraps it in a session.
func Connect(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Session, error) {
	app, err := Dial(ctx, cfg.Host)
	if err != nil {
		return nil, err
	}

	filter, err := cfg.Filter()
	if err != nil {
		app.Close()
		return nil, err
	}
	opts := Options{MaxDepth: cfg.Traversal.MaxDepth, Filter: filter}
	if cfg.Cache.Enabled {
		opts.CacheCapacity = cfg.Cache.Capacity
	}

	s, err := New(app, log, opts)
	if err != nil {
		app.Close()
		return nil, err
	}
	return s, nil
}

// Dial connects to the host named by cfg.Driver.
func Dial(ctx context.Context, cfg config.HostConfig) (host.Application, error) {
	switch cfg.Driver {
	case config.DriverFixture:
		f, err := host.OpenFixture(cfg.Fixture)
		if err != nil {
			return nil, err
		}
		return f, nil
	case config.DriverCOM, "":
		c, err := host.ConnectCOM(ctx, host.COMOptions{Visible: cfg.Visible})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", host.ErrConnection, cfg.Driver)
	}
}

// Open opens path on the host and makes it the active document, releasing
// any previous one.
func (s *Session) Open(ctx context.Context, path string) (host.Document, error) {
	if s.closed {
		return nil, ErrClosed
	}
	doc, err := s.app.OpenDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	if s.active != nil {
		if s.active.Path() != doc.Path() {
			s.log.Debug("replacing active document", zap.String("previous", s.active.Path()))
		}
		host.Release(s.active)
	}
	s.active = doc
	s.log.Info("opened document", zap.String("path", doc.Path()))
	return doc, nil
}

// Active returns the active document.
func (s *Session) Active() (host.Document, error) {
	if s.active == nil {
		return nil, ErrNoActiveDocument
	}
	return s.active, nil
}

// PartsList opens path and flattens it into part records. An assembly is
// traversed; a part document yields a single record.
func (s *Session) PartsList(ctx context.Context, path string, observer assembly.Observer) (*assembly.Result, error) {
	if _, err := s.Open(ctx, path); err != nil {
		return nil, err
	}
	return s.ActivePartsList(ctx, observer)
}

// ActivePartsList flattens the active document.
func (s *Session) ActivePartsList(ctx context.Context, observer assembly.Observer) (*assembly.Result, error) {
	doc, err := s.Active()
	if err != nil {
		return nil, err
	}
	kind, err := doc.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to read document type of %s: %w", doc.Path(), err)
	}

	t := assembly.NewTraverser(s.extractor, s.log, assembly.Options{
		MaxDepth: s.opts.MaxDepth,
		Filter:   s.opts.Filter,
		Observer: observer,
	})

	hits := s.CacheHits()
	var res *assembly.Result
	switch kind {
	case host.AssemblyDocument:
		res, err = t.TraverseDocument(ctx, doc)
	case host.PartDocument:
		res, err = t.TraversePart(ctx, doc)
	default:
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedDocument, doc.Path(), kind)
	}
	if err != nil {
		return nil, err
	}
	res.Stats.CacheHits = s.CacheHits() - hits
	return res, nil
}

// Part opens a single part document and extracts it directly, bypassing the
// cache.
func (s *Session) Part(ctx context.Context, path string) (assembly.Record, error) {
	doc, err := s.Open(ctx, path)
	if err != nil {
		return assembly.Record{}, err
	}
	kind, err := doc.Type()
	if err != nil {
		return assembly.Record{}, fmt.Errorf("failed to read document type of %s: %w", doc.Path(), err)
	}
	if kind != host.PartDocument {
		return assembly.Record{}, fmt.Errorf("%w: %s is %s, not a part", ErrUnsupportedDocument, doc.Path(), kind)
	}
	return assembly.NewExtractor(s.log).Extract(doc)
}

// CacheHits is the number of extractions served from the session cache.
func (s *Session) CacheHits() int64 {
	if s.cache == nil {
		return 0
	}
	return s.cache.Hits()
}

// Invalidate drops cached records, e.g. after documents changed on disk.
func (s *Session) Invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

// Close releases the cache and the host connection. It is safe to call more
// than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	host.Release(s.active)
	s.active = nil
	if s.cache != nil {
		s.cache.Close()
	}
	return s.app.Close()
}
