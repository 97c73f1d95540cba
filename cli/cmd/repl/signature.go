package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/moye/lang"
)

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	extraArgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// callSite describes the call being typed at the cursor.
type callSite struct {
	name     string // called function
	argIndex int    // argument under the cursor (0-based)
	inCall   bool   // cursor is past the function name
}

type tokenKind int

const (
	tokWord  tokenKind = iota // identifier or number
	tokBlock                  // balanced { ... }
	tokOp                     // + - * /
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits one expression into words, blocks and operators. A
// definition arrow or equals sign discards everything before it, so the
// tokens that remain belong to the expression on the right of the last
// definition.
func tokenize(s string) []token {
	var toks []token

	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == ' ' || c == '\t':
			i++

		case c == '{':
			j := matchBrace(s, i)
			toks = append(toks, token{tokBlock, s[i:j]})
			i = j

		case c == '}':
			toks = toks[:0]
			i++

		case c == '=':
			toks = toks[:0]
			i++

			if i < len(s) && s[i] == '>' {
				i++
			}

		case strings.IndexByte("+-*/", c) >= 0:
			toks = append(toks, token{tokOp, s[i : i+1]})
			i++

		default:
			j := i
			for j < len(s) && !strings.ContainsRune(" \t{}=+-*/", rune(s[j])) {
				j++
			}

			toks = append(toks, token{tokWord, s[i:j]})
			i = j
		}
	}

	return toks
}

// matchBrace returns the index just past the brace that closes the one at
// s[open], or len(s) if it is never closed.
func matchBrace(s string, open int) int {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}

	return len(s)
}

// innermost returns the text after the innermost brace left open in prefix.
func innermost(prefix string) string {
	depth := 0

	for i := len(prefix) - 1; i >= 0; i-- {
		switch prefix[i] {
		case '}':
			depth++
		case '{':
			if depth == 0 {
				return prefix[i+1:]
			}

			depth--
		}
	}

	return prefix
}

// detectCall analyzes the input before the cursor to determine whether the
// cursor is inside the argument list of a call, and which argument it is on.
//
// Operands joined by an operator count as one argument, since the call
// "f 1 + 2" passes the single argument 1 + 2.
func detectCall(input string, cursor int) callSite {
	prefix := innermost(input[:min(cursor, len(input))])

	toks := tokenize(prefix)
	if len(toks) == 0 || toks[0].kind != tokWord || !isIdent(toks[0].text) {
		return callSite{}
	}

	trailing := strings.HasSuffix(prefix, " ")
	if len(toks) == 1 && !trailing {
		return callSite{}
	}

	args := 0
	pending := false

	for _, tok := range toks[1:] {
		switch {
		case tok.kind == tokOp:
			pending = true
		case pending:
			pending = false
		default:
			args++
		}
	}

	idx := args - 1
	if trailing && !pending {
		idx = args
	}

	return callSite{name: toks[0].text, argIndex: max(idx, 0), inCall: true}
}

// isIdent reports whether s is a name that could be called. Keywords are not.
func isIdent(s string) bool {
	if s == "" || s == "let" || s == "fun" {
		return false
	}

	for i, r := range s {
		alpha := ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
		if !alpha && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}

	return true
}

// signature returns the parameters of the named function visible from env.
func signature(env *lang.Env, name string) ([]string, bool) {
	fn, err := env.Func(name)
	if err != nil {
		return nil, false
	}

	return fn.Params, true
}

// renderSignatureHint renders "name p1 p2 ..." with the parameter at
// argIndex highlighted. Arguments beyond the last parameter are flagged.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))

	for i, p := range params {
		b.WriteString(" ")

		if i == argIndex {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	if argIndex >= len(params) {
		b.WriteString(" ")
		b.WriteString(extraArgStyle.Render("(too many arguments)"))
	}

	return b.String()
}
