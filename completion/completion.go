// Copyright © 2026 The apexls authors

// Package completion answers "what can be typed here" for Apex documents.
//
// A request runs Detect to classify the cursor, gathers candidates from the
// configured Sources (document declarations, workspace types through a
// TypeLookup, keywords), filters them by the typed prefix and ranks the
// survivors with a bounded Ranker.
package completion

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/config"
	"github.com/luthersystems/apexls/logger"
	"go.uber.org/zap"
)

// Result is the answer to one completion request.
type Result struct {
	Items []Candidate
	// IsIncomplete reports that more candidates matched than were
	// returned, so the client should ask again as the user types.
	IsIncomplete bool
	Context      Context
}

// Engine runs completion requests. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	lookup   TypeLookup
	sources  []Source
	keywords bool
	limit    int
	ranker   Ranker
	log      *zap.SugaredLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLookup resolves receiver types declared outside the document.
func WithLookup(lookup TypeLookup) Option {
	return func(e *Engine) { e.lookup = lookup }
}

// WithLimit bounds the number of returned items. Values <= 0 disable the
// bound.
func WithLimit(limit int) Option {
	return func(e *Engine) { e.limit = limit }
}

// WithKeywords enables or disables the keyword source.
func WithKeywords(enabled bool) Option {
	return func(e *Engine) { e.keywords = enabled }
}

// WithSources replaces the default sources.
func WithSources(sources ...Source) Option {
	return func(e *Engine) { e.sources = sources }
}

// WithRanker replaces the default ranker.
func WithRanker(r Ranker) Option {
	return func(e *Engine) { e.ranker = r }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an Engine. By default it returns up to 25 items drawn from
// the document declarations and the Apex keywords.
func New(opts ...Option) *Engine {
	e := &Engine{
		limit:    config.DefaultCompletionLimit,
		keywords: true,
	}
	for _, o := range opts {
		o(e)
	}
	if e.sources == nil {
		e.sources = []Source{DeclarationSource{Lookup: e.lookup}}
		if e.keywords {
			e.sources = append(e.sources, KeywordSource{})
		}
	}
	if e.log == nil {
		e.log = logger.Named("completion")
	}
	return e
}

// Limit returns the configured result bound.
func (e *Engine) Limit() int { return e.limit }

// Complete returns the candidates for the cursor at offset. decls are the
// document's declarations as returned by analysis.Index. When the position
// is not supported the error wraps ErrUnsupported and the Result is empty.
func (e *Engine) Complete(ctx context.Context, text string, offset int, decls []analysis.Declaration) (*Result, error) {
	all := analysis.Expand(decls, offset)
	c, err := Detect(text, offset, all)
	res := &Result{Context: c}
	if err != nil {
		return res, errors.Wrapf(err, "completion at offset %d", offset)
	}
	if c.Kind == None {
		return res, nil
	}

	var matched []Candidate
gather:
	for _, src := range e.sources {
		for _, cand := range src.Candidates(ctx, c, all) {
			if !matchesPrefix(cand, c.Prefix) {
				continue
			}
			matched = append(matched, cand)
			if e.limit > 0 && len(matched) > e.limit {
				break gather
			}
		}
	}
	res.Items = e.ranker.Rank(matched, c.Prefix, e.limit)
	res.IsIncomplete = e.limit > 0 && len(matched) > e.limit
	e.log.Debugw("completion",
		logger.FieldOffset, offset,
		logger.FieldPrefix, c.Prefix,
		"kind", c.Kind.String(),
		logger.FieldType, c.TypeName,
		logger.FieldCount, len(res.Items))
	return res, nil
}

// CompleteAt is Complete with a 0-based line and byte column.
func (e *Engine) CompleteAt(ctx context.Context, text string, line, char int, decls []analysis.Declaration) (*Result, error) {
	return e.Complete(ctx, text, analysis.OffsetAt(text, line, char), decls)
}

// CompleteSource indexes text with the built-in parser and completes at
// offset.
func (e *Engine) CompleteSource(ctx context.Context, text string, offset int) (*Result, error) {
	return e.Complete(ctx, text, offset, analysis.IndexSource(text))
}

// matchesPrefix applies the per-tag prefix rule: declared names match
// case-sensitively, variables and keywords case-insensitively.
func matchesPrefix(c Candidate, prefix string) bool {
	name := c.Name()
	switch c.Tag {
	case TagVariable, TagKeyword:
		return len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix)
	case TagType, TagMember:
		return strings.HasPrefix(name, prefix)
	}
	return false
}
