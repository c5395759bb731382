// Copyright © 2026 The apexls authors

package lsp

import (
	"sort"
	"sync"

	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/parser/rdparser"
	"github.com/luthersystems/apexls/parser/token"
	"github.com/luthersystems/apexls/syntax"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string
	root    *syntax.Node
	decls   []analysis.Declaration
	errs    []*token.LocationError
}

// parse parses the document content and indexes its declarations. The
// parser recovers from syntax errors, so a partial tree is always
// available.
func (d *Document) parse() {
	root, err := rdparser.New(uriToPath(d.URI)).Parse([]byte(d.Content))
	d.root = root
	d.errs = rdparser.SyntaxErrors(err)
	d.decls = analysis.Index(root, []byte(d.Content))
}

// snapshot returns the content and declarations under the lock.
func (d *Document) snapshot() (string, []analysis.Declaration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Content, d.decls
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store and parses it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.parse()
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync) and re-parses it.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.parse()
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns the open documents ordered by URI.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}
