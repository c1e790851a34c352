// Package highlight renders snippet code to standalone HTML using chroma.
//
// chroma is the Go port of Python's pygments — same lexer names ("python",
// "go", "javascript", ...) and largely the same style names ("friendly",
// "monokai", ...). We lean on its registries for the language and style
// enumerations rather than maintaining our own lists: a value is valid exactly
// when chroma can resolve it.
package highlight

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Defaults applied when a snippet is created without an explicit language or
// style. They match pygments' classic tutorial defaults.
const (
	DefaultLanguage = "python"
	DefaultStyle    = "friendly"
)

// IsLanguage reports whether name resolves to a registered lexer.
// Lexer aliases count ("js" and "javascript" are both valid), same as pygments.
func IsLanguage(name string) bool {
	return lexers.Get(name) != nil
}

// IsStyle reports whether name is a registered style.
//
// styles.Get falls back to a default style for unknown names instead of
// returning nil, so membership has to be checked against the registry directly.
func IsStyle(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// Render produces a complete HTML document highlighting code.
//
// The output is standalone — inline CSS, no external stylesheet — so it can be
// served directly as text/html. Line numbers are included when linenos is true.
// Unknown languages fall back to plain-text lexing rather than failing: by the
// time a snippet reaches Render its language was validated at write time, but
// rendering something stored before a lexer was renamed should still work.
func Render(code, language, style string, linenos bool) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	// Coalesce merges adjacent tokens of the same type — smaller output.
	lexer = chroma.Coalesce(lexer)

	formatter := html.New(
		html.Standalone(true),
		html.WithLineNumbers(linenos),
		html.TabWidth(4),
	)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenising code: %w", err)
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, styles.Get(style), iterator); err != nil {
		return "", fmt.Errorf("highlight: formatting code: %w", err)
	}

	return buf.String(), nil
}
