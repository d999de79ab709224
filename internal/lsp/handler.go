package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"carlos/grammar"
	"carlos/internal/ast"
	"carlos/internal/compiler"
	"carlos/internal/config"
	"carlos/internal/stdlib"
)

// SemanticTokenTypes is the token type legend advertised to clients.
var SemanticTokenTypes = []string{
	"type",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"string",
	"operator",
	"comment",
}

// SemanticTokenModifiers is the modifier legend; bit i of a token's
// modifiers selects entry i.
var SemanticTokenModifiers = []string{
	"declaration",
	"readonly",
	"defaultLibrary",
}

// document is the last analyzed state of one open file.
type document struct {
	path        string
	source      string
	program     *ast.Program
	diagnostics []protocol.Diagnostic
}

// CarlosHandler implements the LSP server handlers for Carlos. Documents are
// synchronized in full on every change.
type CarlosHandler struct {
	mu        sync.RWMutex
	documents map[protocol.DocumentUri]*document
	compiler  *compiler.Compiler
	logger    commonlog.Logger
}

func NewCarlosHandler() *CarlosHandler {
	return &CarlosHandler{
		documents: make(map[protocol.DocumentUri]*document),
		compiler:  compiler.New(config.Defaults),
		logger:    commonlog.GetLogger("carlos.lsp"),
	}
}

// Initialize advertises the server's capabilities.
func (h *CarlosHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	h.logger.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *CarlosHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.logger.Info("initialized")
	return nil
}

func (h *CarlosHandler) Shutdown(ctx *glsp.Context) error {
	h.logger.Info("shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (h *CarlosHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen analyzes the opened text and publishes its diagnostics.
func (h *CarlosHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	h.logger.Debugf("opened %s", params.TextDocument.URI)

	doc, err := h.update(params.TextDocument.URI, params.TextDocument.Text)
	if err != nil {
		return err
	}
	publish(ctx, params.TextDocument.URI, doc.diagnostics)
	return nil
}

// TextDocumentDidChange reanalyzes the document from the last full-text
// change in the notification.
func (h *CarlosHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	h.logger.Debugf("changed %s", params.TextDocument.URI)

	var text *string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = &c.Text
		case *protocol.TextDocumentContentChangeEventWhole:
			text = &c.Text
		}
	}
	if text == nil {
		return fmt.Errorf("no full-text change for %s", params.TextDocument.URI)
	}

	doc, err := h.update(params.TextDocument.URI, *text)
	if err != nil {
		return err
	}
	publish(ctx, params.TextDocument.URI, doc.diagnostics)
	return nil
}

// TextDocumentDidClose forgets the document and clears its diagnostics.
func (h *CarlosHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.logger.Debugf("closed %s", params.TextDocument.URI)

	h.mu.Lock()
	delete(h.documents, params.TextDocument.URI)
	h.mu.Unlock()

	publish(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

// TextDocumentCompletion offers the keywords, the standard functions and
// the names declared at the top level of the document.
func (h *CarlosHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	var items []protocol.CompletionItem

	for _, kw := range grammar.Keywords {
		items = append(items, completion(kw, protocol.CompletionItemKindKeyword))
	}
	for _, t := range ast.Primitives {
		items = append(items, completion(t.Name, protocol.CompletionItemKindClass))
	}
	for _, f := range stdlib.StandardFunctions {
		items = append(items, completion(f.Name, protocol.CompletionItemKindFunction))
	}

	h.mu.RLock()
	doc := h.documents[params.TextDocument.URI]
	h.mu.RUnlock()
	if doc != nil && doc.program != nil {
		items = append(items, declarations(doc.program)...)
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// TextDocumentSemanticTokensFull returns the tokens of the whole document.
// A document that was never opened is read from disk.
func (h *CarlosHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	uri := params.TextDocument.URI

	h.mu.RLock()
	doc := h.documents[uri]
	h.mu.RUnlock()

	if doc == nil {
		path, err := uriToPath(uri)
		if err != nil {
			return nil, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		doc, err = h.update(uri, string(content))
		if err != nil {
			return nil, err
		}
		publish(ctx, uri, doc.diagnostics)
	}

	tokens := collectSemanticTokens(doc.path, doc.source, doc.program)
	return &protocol.SemanticTokens{Data: encodeSemanticTokens(tokens)}, nil
}

// update parses and analyzes text and stores the result under uri.
func (h *CarlosHandler) update(uri protocol.DocumentUri, text string) (*document, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, err
	}

	result, err := h.compiler.Compile(path, text, compiler.PhaseSemantics)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", path, err)
	}

	doc := &document{path: path, source: text}
	if len(result.ParseErrors) > 0 {
		doc.diagnostics = ConvertParseErrors(result.ParseErrors)
	} else {
		doc.program = result.Program
		doc.diagnostics = ConvertCompilerErrors(result.Errors)
	}

	h.mu.Lock()
	h.documents[uri] = doc
	h.mu.Unlock()

	return doc, nil
}

// declarations lists the names declared directly in the main program.
func declarations(program *ast.Program) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	for _, s := range program.Block.Statements {
		d, ok := s.(*ast.Declaration)
		if !ok {
			continue
		}
		switch decl := d.Declarable.(type) {
		case *ast.Variable:
			items = append(items, completion(decl.Name, protocol.CompletionItemKindVariable))
		case *ast.Function:
			items = append(items, completion(decl.Name, protocol.CompletionItemKindFunction))
		case *ast.Type:
			items = append(items, completion(decl.Name, protocol.CompletionItemKindStruct))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

func completion(label string, kind protocol.CompletionItemKind) protocol.CompletionItem {
	return protocol.CompletionItem{Label: label, Kind: &kind}
}

// uriToPath converts a file URI to a platform-local path.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, /C:/... becomes C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func publish(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
