package errors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"carlos/internal/ast"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError represents a structured error with suggestions and context
type CompilerError struct {
	Level       ErrorLevel
	Code        string       // Error code like E0001
	Message     string       // Primary error message
	Position    ast.Position // Location in source; Line 0 when unknown
	Length      int          // Length of the problematic region
	Suggestions []Suggestion // Suggested fixes
	Notes       []string     // Additional context notes
	HelpText    string       // Help text for the error
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string       // Description of the suggestion
	Replacement string       // Suggested replacement text (optional)
	Position    ast.Position // Position to apply the fix (optional)
	Length      int          // Length of text to replace (optional)
}

// style holds the colors one diagnostic is drawn with.
type style struct {
	level  func(...interface{}) string
	marker func(...interface{}) string
}

var (
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	blue   = color.New(color.FgBlue).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
)

func styleOf(level ErrorLevel) style {
	switch level {
	case Warning:
		return style{level: yellow, marker: yellow}
	case Note:
		return style{level: color.New(color.FgBlue, color.Bold).SprintFunc(), marker: red}
	case Help:
		return style{level: color.New(color.FgGreen, color.Bold).SprintFunc(), marker: red}
	}
	return style{level: red, marker: red}
}

// ErrorReporter renders diagnostics against the source they refer to.
type ErrorReporter struct {
	filename string
	lines    []string
}

func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatErrors renders every diagnostic, then a tally of the errors and
// warnings among them.
func (er *ErrorReporter) FormatErrors(errs []CompilerError) string {
	var out strings.Builder
	tally := map[ErrorLevel]int{}
	for _, err := range errs {
		er.render(&out, err)
		tally[err.Level]++
	}

	var counts []string
	if n := tally[Error]; n > 0 {
		counts = append(counts, count(n, "error"))
	}
	if n := tally[Warning]; n > 0 {
		counts = append(counts, count(n, "warning"))
	}
	if len(counts) > 0 {
		fmt.Fprintf(&out, "%s: %s emitted\n", er.filename, strings.Join(counts, ", "))
	}
	return out.String()
}

func count(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// FormatError renders one diagnostic in the style
//
//	error[E0004]: variable 'totl' not found
//	    --> main.carlos:3:5
//	     │
//	   2 │ while (total < 10) {
//	   3 │     totl = total + 1;
//	     │     ^^^^
//	   4 │ }
//	     │ help: try: did you mean 'total'?
//
// A diagnostic without a position keeps only its header and trailers.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var out strings.Builder
	er.render(&out, err)
	return out.String()
}

func (er *ErrorReporter) render(out *strings.Builder, err CompilerError) {
	s := styleOf(err.Level)

	header := s.level(string(err.Level))
	if err.Code != "" {
		header += "[" + err.Code + "]"
	}
	fmt.Fprintf(out, "%s: %s\n", header, err.Message)

	g := er.gutter(err.Position.Line)
	if err.Position.Line > 0 {
		fmt.Fprintf(out, "%s %s %s:%d:%d\n", g.blank, dim("-->"), er.filename, err.Position.Line, err.Position.Column)
		g.rule(out, "")
		er.snippet(out, g, err, s)
	}

	for i, suggestion := range err.Suggestions {
		lead := "    "
		if i == 0 {
			lead = "help: try:"
		}
		g.rule(out, cyan(lead)+" "+suggestion.Message)
		if suggestion.Replacement != "" {
			for _, line := range strings.Split(suggestion.Replacement, "\n") {
				g.rule(out, cyan(line))
			}
		}
	}
	for _, note := range err.Notes {
		g.rule(out, blue("note:")+" "+note)
	}
	if err.HelpText != "" {
		g.rule(out, green("help:")+" "+err.HelpText)
	}
	out.WriteString("\n")
}

// snippet shows the offending line between its neighbours, with the span
// underlined.
func (er *ErrorReporter) snippet(out *strings.Builder, g gutter, err CompilerError, s style) {
	line := err.Position.Line
	if line > len(er.lines) {
		return
	}
	if line > 1 {
		g.numbered(out, line-1, er.lines[line-2], dim)
	}
	g.numbered(out, line, er.lines[line-1], bold)
	g.rule(out, marker(err.Position.Column, err.Length, s))
	if line < len(er.lines) {
		g.numbered(out, line+1, er.lines[line], dim)
	}
}

// gutter is the line number column on the left of a rendered snippet.
type gutter struct {
	width int
	blank string
}

// gutter sizes the number column for the widest line shown around line.
func (er *ErrorReporter) gutter(line int) gutter {
	width := len(strconv.Itoa(line + 1))
	if width < 3 {
		width = 3
	}
	return gutter{width: width, blank: strings.Repeat(" ", width)}
}

func (g gutter) rule(out *strings.Builder, text string) {
	if text == "" {
		fmt.Fprintf(out, "%s %s\n", g.blank, dim("│"))
		return
	}
	fmt.Fprintf(out, "%s %s %s\n", g.blank, dim("│"), text)
}

func (g gutter) numbered(out *strings.Builder, n int, text string, paint func(...interface{}) string) {
	fmt.Fprintf(out, "%s %s %s\n", paint(fmt.Sprintf("%*d", g.width, n)), dim("│"), text)
}

// marker underlines length columns starting at column, at least one.
func marker(column, length int, s style) string {
	if length < 1 {
		length = 1
	}
	if column < 1 {
		column = 1
	}
	return strings.Repeat(" ", column-1) + s.marker(strings.Repeat("^", length))
}
