package lsp

import (
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"carlos/grammar"
	"carlos/internal/ast"
)

// SemanticToken is one LSP semantic token entry. Line and StartChar are
// 0-based; TokenType indexes SemanticTokenTypes and TokenModifiers is a
// bitmask over SemanticTokenModifiers.
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

const (
	modDeclaration = 1 << iota
	modReadonly
	modDefaultLibrary
)

// text locates names inside a source file. Declarations only record where
// they start, so the declared name is found by scanning forward from there.
type text struct {
	source     string
	lineStarts []int
}

func newText(source string) *text {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &text{source: source, lineStarts: starts}
}

func (t *text) position(offset int) (uint32, uint32) {
	line := sort.Search(len(t.lineStarts), func(i int) bool { return t.lineStarts[i] > offset }) - 1
	return uint32(line), uint32(offset - t.lineStarts[line])
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}

// word returns the offset and text of the n-th word at or after offset,
// counting from zero.
func (t *text) word(offset, n int) (int, string) {
	i := offset
	for k := 0; ; k++ {
		for i < len(t.source) && !isIdentStart(t.source[i]) {
			i++
		}
		if i >= len(t.source) {
			return -1, ""
		}
		start := i
		for i < len(t.source) && isIdentChar(t.source[i]) {
			i++
		}
		if k == n {
			return start, t.source[start:i]
		}
	}
}

// find returns the offset of the first whole-word occurrence of name at or
// after offset, or -1.
func (t *text) find(offset int, name string) int {
	for offset >= 0 && offset < len(t.source) {
		i := strings.Index(t.source[offset:], name)
		if i < 0 {
			return -1
		}
		start := offset + i
		end := start + len(name)
		if (start == 0 || !isIdentChar(t.source[start-1])) && (end == len(t.source) || !isIdentChar(t.source[end])) {
			return start
		}
		offset = end
	}
	return -1
}

type collector struct {
	text       *text
	tokens     []SemanticToken
	parameters map[*ast.Variable]bool
	indexes    map[*ast.Variable]bool
}

// collectSemanticTokens lists the tokens of one document in source order.
// Keywords, literals and operators come from the lexer; identifiers are
// classified through the analyzed tree when there is one.
func collectSemanticTokens(filename, source string, program *ast.Program) []SemanticToken {
	c := &collector{
		text:       newText(source),
		parameters: make(map[*ast.Variable]bool),
		indexes:    make(map[*ast.Variable]bool),
	}

	c.lexical(filename, source)
	if program != nil {
		ast.Traverse(program, c.scope)
		ast.Traverse(program, c.visit)
	}

	sort.SliceStable(c.tokens, func(i, j int) bool {
		if c.tokens[i].Line != c.tokens[j].Line {
			return c.tokens[i].Line < c.tokens[j].Line
		}
		return c.tokens[i].StartChar < c.tokens[j].StartChar
	})

	// A name reached twice through the graph yields one token.
	var unique []SemanticToken
	for _, tok := range c.tokens {
		if n := len(unique); n > 0 && tok.Line == unique[n-1].Line && tok.StartChar == unique[n-1].StartChar {
			continue
		}
		unique = append(unique, tok)
	}
	return unique
}

func (c *collector) lexical(filename, source string) {
	symbols := grammar.CarlosLexer.Symbols()
	kinds := map[lexer.TokenType]string{
		symbols["Keyword"]:  "keyword",
		symbols["Int"]:      "number",
		symbols["Real"]:     "number",
		symbols["Char"]:     "string",
		symbols["String"]:   "string",
		symbols["Operator"]: "operator",
		symbols["Comment"]:  "comment",
	}

	lex, err := grammar.CarlosLexer.LexString(filename, source)
	if err != nil {
		return
	}
	for {
		tok, err := lex.Next()
		if err != nil || tok.EOF() {
			return
		}
		kind, ok := kinds[tok.Type]
		if !ok {
			continue
		}
		// Multi-line block comments are not split per line.
		if strings.Contains(tok.Value, "\n") {
			continue
		}
		c.add(tok.Pos.Offset, len(tok.Value), kind, 0)
	}
}

func (c *collector) add(offset, length int, tokenType string, modifiers int) {
	if offset < 0 || length <= 0 {
		return
	}
	line, char := c.text.position(offset)
	c.tokens = append(c.tokens, SemanticToken{
		Line:           line,
		StartChar:      char,
		Length:         uint32(length),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: modifiers,
	})
}

// declared marks the name that follows the first skip words after pos.
func (c *collector) declared(pos ast.Position, skip int, name, tokenType string) {
	if pos.Line == 0 || name == "" {
		return
	}
	start, _ := c.text.word(pos.Offset, skip)
	if start < 0 {
		return
	}
	c.add(c.text.find(start, name), len(name), tokenType, modDeclaration)
}

// typeWord marks the n-th word after pos as a type name unless it is a
// keyword such as void.
func (c *collector) typeWord(pos ast.Position, n int) {
	if pos.Line == 0 {
		return
	}
	start, word := c.text.word(pos.Offset, n)
	for _, kw := range grammar.Keywords {
		if word == kw {
			return
		}
	}
	c.add(start, len(word), "type", 0)
}

func (c *collector) reference(pos ast.Position, name, tokenType string, modifiers int) {
	if pos.Line == 0 || name == "" {
		return
	}
	c.add(c.text.find(pos.Offset, name), len(name), tokenType, modifiers)
}

func (c *collector) scope(e ast.Entity) {
	switch v := e.(type) {
	case *ast.Function:
		for _, p := range v.Parameters {
			c.parameters[p] = true
		}
	case *ast.ClassicForStatement:
		if v.IndexVariable != nil {
			c.indexes[v.IndexVariable] = true
		}
	}
}

func (c *collector) variableType(v *ast.Variable) string {
	if c.parameters[v] {
		return "parameter"
	}
	return "variable"
}

func (c *collector) function(f *ast.Function, pos ast.Position, name string) {
	modifiers := 0
	if f != nil && f.Builtin != ast.NotBuiltin {
		modifiers = modDefaultLibrary | modReadonly
	}
	c.reference(pos, name, "function", modifiers)
}

func (c *collector) visit(e ast.Entity) {
	switch v := e.(type) {
	case *ast.Variable:
		if c.indexes[v] {
			return
		}
		c.typeWord(v.Pos, 0)
		c.declared(v.Pos, 1, v.Name, c.variableType(v))
	case *ast.Function:
		if v.Builtin != ast.NotBuiltin {
			return
		}
		c.typeWord(v.Pos, 0)
		c.declared(v.Pos, 1, v.Name, "function")
	case *ast.StructField:
		c.typeWord(v.Pos, 0)
		c.declared(v.Pos, 1, v.Name, "property")
	case *ast.Type:
		if v.Variant == ast.StructVariant {
			c.declared(v.Pos, 1, v.Name, "type")
		}
	case *ast.ClassicForStatement:
		if v.HasInit() {
			c.typeWord(v.Pos, 1)
			c.declared(v.Pos, 2, v.Index, "variable")
		}
	case *ast.SimpleVariableReference:
		tokenType := "variable"
		if v.Referent != nil {
			tokenType = c.variableType(v.Referent)
		}
		c.reference(v.Pos, v.Name, tokenType, 0)
	case *ast.DottedVariable:
		c.reference(v.Pos, v.FieldName, "property", 0)
	case *ast.CallExpression:
		c.function(v.Function, v.Pos, v.FunctionName)
	case *ast.CallStatement:
		c.function(v.Function, v.Pos, v.FunctionName)
	case *ast.ArrayAggregate:
		c.typeWord(v.Pos, 1)
	case *ast.StructAggregate:
		c.typeWord(v.Pos, 1)
	case *ast.EmptyArray:
		c.typeWord(v.Pos, 1)
	}
}

// encodeSemanticTokens packs tokens into the relative wire format, each entry
// being delta line, delta start, length, type and modifiers.
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	data := []uint32{}
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}
		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return data
}

// indexOf returns the index of target in list, or 0 when it is missing.
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}
