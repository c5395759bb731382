// Copyright © 2026 The apexls authors

// Package lsp implements a Language Server Protocol server for Apex. It
// provides completion, hover, go-to-definition, document and workspace
// symbols, folding and selection ranges, and syntax diagnostics.
package lsp

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/completion"
	"github.com/luthersystems/apexls/config"
	"github.com/luthersystems/apexls/logger"
	"github.com/luthersystems/apexls/syntax"
	"github.com/luthersystems/apexls/workspace"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"
	"go.uber.org/zap"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const serverName = "apexls"

// Version is reported to clients in the initialize response.
var Version = "0.1.0"

// Server is the Apex language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	docs     *DocumentStore
	rootURI  string
	rootPath string

	cfg    *config.Config
	log    *zap.SugaredLogger
	engine *completion.Engine

	// Workspace index, built lazily once the root is known.
	index     *workspace.Index
	store     workspace.Store
	parser    syntax.Parser
	indexMu   sync.RWMutex
	indexOnce sync.Once
	watcher   *workspace.Watcher
	cancel    context.CancelFunc

	// Debouncer for didChange notifications.
	debounceMu    sync.Mutex
	debounce      map[string]*time.Timer
	debounceDelay time.Duration

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	// Overridable for testing.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithConfig sets the server settings.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithLogger sets the server logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Server) { s.log = l }
}

// WithIndex injects a prepared workspace index instead of scanning the
// root announced by the client.
func WithIndex(ix *workspace.Index) Option {
	return func(s *Server) {
		s.index = ix
		s.indexOnce.Do(func() {})
	}
}

// WithStore sets the store backing the workspace index built on
// initialization, overriding the workspace.cache setting.
func WithStore(st workspace.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithParser sets the parser the workspace index reads files with.
func WithParser(p syntax.Parser) Option {
	return func(s *Server) { s.parser = p }
}

// New creates a new Apex LSP server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:          NewDocumentStore(),
		debounce:      make(map[string]*time.Timer),
		debounceDelay: 300 * time.Millisecond,
		exitFn:        os.Exit,
	}
	for _, o := range opts {
		o(s)
	}
	if s.cfg == nil {
		s.cfg = config.Default()
	}
	if s.log == nil {
		s.log = logger.Named("lsp")
	}
	s.engine = completion.New(
		completion.WithLimit(s.cfg.Completion.Limit),
		completion.WithKeywords(s.cfg.Completion.Keywords),
		completion.WithLookup(s.lookupType),
		completion.WithLogger(s.log),
	)

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		Exit:        s.exit,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:          s.textDocumentHover,
		TextDocumentDefinition:     s.textDocumentDefinition,
		TextDocumentCompletion:     s.textDocumentCompletion,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentFoldingRange:   s.textDocumentFoldingRange,
		TextDocumentSelectionRange: s.textDocumentSelectionRange,
		WorkspaceSymbol:            s.workspaceSymbol,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

// initialize handles the LSP initialize request.
func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}
	s.log.Infow("initialize", logger.FieldRoot, s.rootPath)

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &Version,
		},
	}, nil
}

// initialized starts indexing the workspace in the background.
func (s *Server) initialized(ctx *glsp.Context, _ *protocol.InitializedParams) error {
	s.captureNotify(ctx)
	go s.ensureWorkspaceIndex()
	return nil
}

// shutdown handles the LSP shutdown request.
func (s *Server) shutdown(_ *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()

	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}
	if s.index != nil {
		if err := s.index.Close(); err != nil {
			s.log.Warnw("close workspace index", logger.FieldError, err)
		}
		s.index = nil
	}
	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// ensureWorkspaceIndex builds the workspace index once. It is safe to call
// from any goroutine.
func (s *Server) ensureWorkspaceIndex() {
	s.indexOnce.Do(s.buildWorkspaceIndex)
}

// buildWorkspaceIndex scans the workspace root and starts the file
// watcher when enabled.
func (s *Server) buildWorkspaceIndex() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("workspace index panic", "panic", r)
		}
	}()
	if s.rootPath == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())

	store := s.store
	if path := s.cfg.Workspace.Cache; store == nil && path != "" {
		sqlStore, err := workspace.OpenSQLStore(ctx, path, s.log)
		if err != nil {
			s.log.Warnw("open index cache, falling back to memory", logger.FieldFile, path, logger.FieldError, err)
		} else {
			store = sqlStore
		}
	}
	wsOpts := []workspace.Option{workspace.WithLogger(s.log)}
	if s.parser != nil {
		wsOpts = append(wsOpts, workspace.WithParser(s.parser))
	}
	ix := workspace.New(s.rootPath, store, wsOpts...)
	if _, err := ix.Scan(ctx); err != nil {
		s.log.Warnw("workspace scan failed", logger.FieldRoot, s.rootPath, logger.FieldError, err)
	}

	var w *workspace.Watcher
	if s.cfg.Workspace.Watch {
		var err error
		if w, err = workspace.NewWatcher(ix); err != nil {
			s.log.Warnw("watch workspace", logger.FieldError, err)
		} else {
			go w.Run(ctx)
		}
	}

	s.indexMu.Lock()
	s.index, s.watcher, s.cancel = ix, w, cancel
	s.indexMu.Unlock()
}

func (s *Server) workspaceIndex() *workspace.Index {
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()
	return s.index
}

// lookupType resolves types declared in other workspace files and, failing
// that, in other open documents.
func (s *Server) lookupType(ctx context.Context, name string) (*analysis.TypeDecl, error) {
	if ix := s.workspaceIndex(); ix != nil {
		t, err := ix.Lookup(ctx, name)
		if t != nil || err != nil {
			return t, err
		}
	}
	for _, doc := range s.docs.All() {
		doc.mu.Lock()
		t := analysis.FindType(doc.decls, name)
		doc.mu.Unlock()
		if t != nil {
			return t, nil
		}
	}
	return nil, nil
}

// captureNotify stores the notification function from the context for
// async use (e.g., publishing diagnostics after a debounce).
func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

// sendNotification sends a notification to the client.
func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
