package assembly

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tbre-automation/partslist/internal/host"
)

// DefaultMaxDepth is the nesting ceiling used when Options.MaxDepth is zero.
// Real assemblies rarely nest more than a dozen levels.
const DefaultMaxDepth = 64

// Options configures a Traverser.
type Options struct {
	// MaxDepth is the deepest sub-assembly nesting accepted; the root
	// occurrence collection is depth 1.
	MaxDepth int

	// Filter excludes documents by path. Nil excludes nothing.
	Filter *Filter

	// Observer receives progress. Nil means NoOpObserver.
	Observer Observer
}

// Stats summarizes one traversal.
type Stats struct {
	Visited       int           // occurrences inspected
	Leaves        int           // records produced
	SubAssemblies int           // sub-assembly occurrences descended into
	Invalid       int           // occurrences that failed classification
	Failed        int           // parts whose mandatory properties were unreadable
	Excluded      int           // occurrences skipped by the filter
	CacheHits     int64         // extractions served from a cache, set by the owner of the cache
	Duration      time.Duration // wall time
}

// Result is the output of a traversal. Records are in depth-first pre-order
// of leaf discovery and are not deduplicated.
type Result struct {
	Records   []Record
	Stats     Stats
	Structure *Structure
}

// Traverser walks occurrence trees and flattens their leaf parts into records.
// A Traverser holds no per-traversal state and may be reused sequentially.
type Traverser struct {
	extractor Extractor
	log       *zap.Logger
	opts      Options
}

// NewTraverser creates a traverser.
func NewTraverser(extractor Extractor, log *zap.Logger, opts Options) *Traverser {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Observer == nil {
		opts.Observer = NoOpObserver{}
	}
	return &Traverser{extractor: extractor, log: log, opts: opts}
}

// TraverseDocument traverses the root occurrences of an assembly document.
// The document itself stays owned by the caller.
func (t *Traverser) TraverseDocument(ctx context.Context, doc host.Document) (*Result, error) {
	occs, err := doc.Occurrences()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOccurrences, doc.Path(), err)
	}
	return t.Traverse(ctx, doc.Path(), occs)
}

// TraversePart reports a single part document as a one-record result, so a
// part opened directly goes through the same path as an assembly.
func (t *Traverser) TraversePart(ctx context.Context, doc host.Document) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	path := doc.Path()

	t.opts.Observer.OnTraversalStart(path, 1)
	res := &Result{Records: []Record{}, Structure: newStructure(path, LeafPart)}
	res.Stats.Visited = 1
	t.opts.Observer.OnNodeVisited(1, path)

	r, err := t.extractor.Extract(doc)
	if err != nil {
		return nil, err
	}
	res.Records = append(res.Records, r)
	res.Stats.Leaves = 1
	res.Stats.Duration = time.Since(start)

	t.opts.Observer.OnTraversalComplete(res.Stats)
	return res, nil
}

// Traverse walks occurrences belonging to the document at root.
//
// Invalid occurrences and parts with unreadable mandatory properties are
// logged and skipped. The traversal aborts on an unreadable occurrence
// collection (ErrOccurrences), a reference cycle (ErrCycleDetected), nesting
// beyond MaxDepth (ErrDepthExceeded) or context cancellation.
//
// Every occurrence handle reached, including the given ones, is released
// before Traverse returns.
func (t *Traverser) Traverse(ctx context.Context, root string, occurrences []host.Occurrence) (*Result, error) {
	start := time.Now()
	w := &walk{
		ctx: ctx,
		t:   t,
		log: t.log.With(zap.String("root", root)),
		res: &Result{Records: []Record{}, Structure: newStructure(root, SubAssembly)},
	}

	t.opts.Observer.OnTraversalStart(root, len(occurrences))
	if err := w.collection(root, occurrences, 1); err != nil {
		return nil, err
	}
	w.res.Stats.Duration = time.Since(start)

	w.log.Info("traversal complete",
		zap.Int("visited", w.res.Stats.Visited),
		zap.Int("parts", w.res.Stats.Leaves),
		zap.Int("sub_assemblies", w.res.Stats.SubAssemblies),
		zap.Int("invalid", w.res.Stats.Invalid),
		zap.Int("failed", w.res.Stats.Failed),
		zap.Int("excluded", w.res.Stats.Excluded),
		zap.Duration("duration", w.res.Stats.Duration),
	)
	t.opts.Observer.OnTraversalComplete(w.res.Stats)
	return w.res, nil
}

// walk is the state of one traversal. The accumulator is owned exclusively
// by it.
type walk struct {
	ctx context.Context
	t   *Traverser
	log *zap.Logger
	res *Result
}

func (w *walk) collection(parent string, occurrences []host.Occurrence, depth int) error {
	defer host.ReleaseAll(occurrences)

	if depth > w.t.opts.MaxDepth {
		return fmt.Errorf("%w: %s is nested %d levels deep (max %d)", ErrDepthExceeded, parent, depth, w.t.opts.MaxDepth)
	}

	for _, occ := range occurrences {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if err := w.occurrence(parent, occ, depth); err != nil {
			return err
		}
	}
	return nil
}

func (w *walk) occurrence(parent string, occ host.Occurrence, depth int) error {
	stats := &w.res.Stats
	stats.Visited++
	w.t.opts.Observer.OnNodeVisited(stats.Visited, occ.Name())

	c := Classify(occ)
	if c.Kind == Invalid {
		stats.Invalid++
		w.log.Warn("skipping occurrence", zap.String("parent", parent), zap.Error(c.Err))
		return nil
	}
	defer host.Release(c.Document)

	path := c.Document.Path()
	if pattern, ok := w.t.opts.Filter.Excluded(path); ok {
		stats.Excluded++
		w.log.Debug("excluded occurrence", zap.String("document", path), zap.String("pattern", pattern))
		return nil
	}

	if err := w.res.Structure.link(parent, path, c.Kind); err != nil {
		return err
	}

	switch c.Kind {
	case LeafPart:
		r, err := w.t.extractor.Extract(c.Document)
		if err != nil {
			stats.Failed++
			w.log.Error("skipping part", zap.String("occurrence", occ.Name()), zap.Error(err))
			return nil
		}
		stats.Leaves++
		w.res.Records = append(w.res.Records, r)

	case SubAssembly:
		stats.SubAssemblies++
		children, err := occ.SubOccurrences()
		if err != nil {
			return fmt.Errorf("%w: %s (%s): %w", ErrOccurrences, occ.Name(), path, err)
		}
		return w.collection(path, children, depth+1)
	}
	return nil
}
