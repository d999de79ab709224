package lsp_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"carlos/internal/lsp"
)

const uri = "file:///work/main.carlos"

type published struct {
	uri         protocol.DocumentUri
	diagnostics []protocol.Diagnostic
}

// recorder returns a context whose notifications are captured.
func recorder() (*glsp.Context, *[]published) {
	var sent []published
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method != protocol.ServerTextDocumentPublishDiagnostics {
				return
			}
			p := params.(*protocol.PublishDiagnosticsParams)
			sent = append(sent, published{uri: p.URI, diagnostics: p.Diagnostics})
		},
	}
	return ctx, &sent
}

func open(t *testing.T, handler *lsp.CarlosHandler, ctx *glsp.Context, text string) {
	t.Helper()
	err := handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "carlos", Version: 1, Text: text},
	})
	require.NoError(t, err)
}

func TestSyntaxErrorsArePublished(t *testing.T) {
	handler := lsp.NewCarlosHandler()
	ctx, sent := recorder()

	open(t, handler, ctx, "int x = ;")

	require.Len(t, *sent, 1)
	diagnostics := (*sent)[0].diagnostics
	require.NotEmpty(t, diagnostics)
	assert.Equal(t, "carlos-parser", *diagnostics[0].Source)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diagnostics[0].Severity)
	assert.Equal(t, uint32(0), diagnostics[0].Range.Start.Line)
}

func TestSemanticErrorsArePublished(t *testing.T) {
	handler := lsp.NewCarlosHandler()
	ctx, sent := recorder()

	open(t, handler, ctx, "int x = y;")

	require.Len(t, *sent, 1)
	diagnostics := (*sent)[0].diagnostics
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "carlos-semantic", *diagnostics[0].Source)
	assert.Equal(t, protocol.Position{Line: 0, Character: 8}, diagnostics[0].Range.Start)
	assert.NotNil(t, diagnostics[0].Code)
}

func TestChangeReplacesDiagnostics(t *testing.T) {
	handler := lsp.NewCarlosHandler()
	ctx, sent := recorder()

	open(t, handler, ctx, "int x = y;")
	err := handler.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "int x = 1;"}},
	})
	require.NoError(t, err)

	require.Len(t, *sent, 2)
	assert.Empty(t, (*sent)[1].diagnostics)
	assert.NotNil(t, (*sent)[1].diagnostics)
}

func TestCloseClearsDiagnostics(t *testing.T) {
	handler := lsp.NewCarlosHandler()
	ctx, sent := recorder()

	open(t, handler, ctx, "int x = y;")
	err := handler.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	require.Len(t, *sent, 2)
	assert.Equal(t, uri, (*sent)[1].uri)
	assert.Empty(t, (*sent)[1].diagnostics)
}

func TestCompletionListsDeclarations(t *testing.T) {
	handler := lsp.NewCarlosHandler()
	ctx, _ := recorder()

	open(t, handler, ctx, "struct P { int a; } int total = 0; void show() { }")
	result, err := handler.TextDocumentCompletion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	require.NoError(t, err)

	var labels []string
	for _, item := range result.(*protocol.CompletionList).Items {
		labels = append(labels, item.Label)
	}
	assert.Subset(t, labels, []string{"while", "int", "sqrt", "P", "total", "show"})
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	handler := lsp.NewCarlosHandler()
	ctx, _ := recorder()

	open(t, handler, ctx, "int square(int n) { return n * n; }\nprint(square(3));\n")

	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.Len(t, decoded, 11)

	assertToken(t, &decoded[0], 1, 1, 3, "type", nil)
	assertToken(t, &decoded[1], 1, 5, 6, "function", []string{"declaration"})
	assertToken(t, &decoded[2], 1, 12, 3, "type", nil)
	assertToken(t, &decoded[3], 1, 16, 1, "parameter", []string{"declaration"})
	assertToken(t, &decoded[4], 1, 21, 6, "keyword", nil)
	assertToken(t, &decoded[5], 1, 28, 1, "parameter", nil)
	assertToken(t, &decoded[6], 1, 30, 1, "operator", nil)
	assertToken(t, &decoded[7], 1, 32, 1, "parameter", nil)
	assertToken(t, &decoded[8], 2, 1, 5, "keyword", nil)
	assertToken(t, &decoded[9], 2, 7, 6, "function", nil)
	assertToken(t, &decoded[10], 2, 14, 1, "number", nil)
}

func TestSemanticTokensForUnopenedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.carlos")
	require.NoError(t, os.WriteFile(path, []byte("for (int i = 0; i < 3; i++) { print(sqrt(2.0)); }"), 0o644))

	handler := lsp.NewCarlosHandler()
	ctx, sent := recorder()

	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file://" + filepath.ToSlash(path)},
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)
	assert.Empty(t, (*sent)[0].diagnostics)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)

	byText := map[uint32]DecodedToken{}
	for _, tok := range decoded {
		byText[tok.Char] = tok
	}
	assertToken(t, ptr(byText[6]), 1, 6, 3, "type", nil)
	assertToken(t, ptr(byText[10]), 1, 10, 1, "variable", []string{"declaration"})
	assertToken(t, ptr(byText[17]), 1, 17, 1, "variable", nil)
	assertToken(t, ptr(byText[37]), 1, 37, 4, "function", []string{"readonly", "defaultLibrary"})
	assertToken(t, ptr(byText[42]), 1, 42, 3, "number", nil)
}

func ptr(tok DecodedToken) *DecodedToken {
	return &tok
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1, // 1-based for readability
			Char:      char + 1,
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
