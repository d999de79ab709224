package semantic

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"carlos/internal/ast"
	"carlos/internal/errors"
)

// Integer literals must fit in 32 bits.
func (a *Analyzer) analyzeIntegerLiteral(e *ast.IntegerLiteral, ctx Context) {
	e.Type = ast.Int
	v, err := strconv.ParseInt(e.Lexeme, 10, 32)
	if err != nil {
		ctx.report(errors.ErrorBadInt, e.Pos, e.Lexeme)
		return
	}
	e.Value = int32(v)
}

func (a *Analyzer) analyzeRealLiteral(e *ast.RealLiteral, ctx Context) {
	e.Type = ast.Real
	v, err := strconv.ParseFloat(e.Lexeme, 64)
	if err != nil {
		ctx.report(errors.ErrorBadReal, e.Pos, e.Lexeme)
		return
	}
	e.Value = v
}

func (a *Analyzer) analyzeCharLiteral(e *ast.CharLiteral, ctx Context) {
	e.Type = ast.Char
	values, err := decodeQuoted(e.Lexeme, '\'')
	if err != nil || len(values) != 1 {
		ctx.report(errors.ErrorBadChar, e.Pos, e.Lexeme)
		return
	}
	e.Value = values[0]
}

func (a *Analyzer) analyzeStringLiteral(e *ast.StringLiteral, ctx Context) {
	e.Type = ast.String
	values, err := decodeQuoted(e.Lexeme, '"')
	if err != nil {
		ctx.report(errors.ErrorBadString, e.Pos, e.Lexeme)
		return
	}
	e.Values = values
}

var simpleEscapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// decodeQuoted strips the quotes from lexeme and decodes its escapes into
// codepoints. Besides the single-character escapes, \u{h...} denotes the
// codepoint with hexadecimal value h.
func decodeQuoted(lexeme string, quote byte) ([]rune, error) {
	if len(lexeme) < 2 || lexeme[0] != quote || lexeme[len(lexeme)-1] != quote {
		return nil, fmt.Errorf("missing quotes")
	}
	body := lexeme[1 : len(lexeme)-1]
	if !utf8.ValidString(body) {
		return nil, fmt.Errorf("invalid UTF-8")
	}

	var values []rune
	for i := 0; i < len(body); {
		r, size := utf8.DecodeRuneInString(body[i:])
		i += size
		if r != '\\' {
			values = append(values, r)
			continue
		}
		if i >= len(body) {
			return nil, fmt.Errorf("dangling backslash")
		}

		esc, size := utf8.DecodeRuneInString(body[i:])
		i += size
		if v, ok := simpleEscapes[esc]; ok {
			values = append(values, v)
			continue
		}
		if esc != 'u' || i >= len(body) || body[i] != '{' {
			return nil, fmt.Errorf("unknown escape \\%c", esc)
		}
		end := strings.IndexByte(body[i:], '}')
		if end < 0 {
			return nil, fmt.Errorf("unterminated \\u escape")
		}
		code, err := strconv.ParseUint(body[i+1:i+end], 16, 32)
		if err != nil || code > utf8.MaxRune {
			return nil, fmt.Errorf("bad codepoint %q", body[i+1:i+end])
		}
		values = append(values, rune(code))
		i += end + 1
	}
	return values, nil
}
