package repl

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/moye/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "reset", "edit", "clear", "quit"}

// keywords are offered as completions in eval mode alongside visible names.
var keywords = []string{"let", "fun"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: white space, braces, and the operator and definition symbols.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '{', '}', '+', '-', '*', '/', '=', '>':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// definesName reports whether the word starting at wordStart is the name
// being introduced by a let or fun definition, or one of a function's
// parameters. Such words are new names, so nothing is offered for them.
func definesName(input string, wordStart int) bool {
	head := strings.Fields(input[:wordStart])
	if len(head) == 0 {
		return false
	}

	switch head[0] {
	case "let":
		return len(head) == 1
	case "fun":
		return !slices.Contains(head, "=>")
	}

	return false
}

// candidates returns the eval-mode completion candidates: every name
// visible from the session's root scope followed by the keywords.
func candidates(env *lang.Env) []string {
	names := make([]string, 0, env.Len()+len(keywords))
	names = slices.AppendSeq(names, env.Names())

	return append(names, keywords...)
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word has no matches so the hint line stays visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	cands []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		cands = ctrlCommands
	} else {
		if definesName(input, wordStart) {
			return nil, nil, wordStart, wordEnd
		}

		cands = candidates(m.session.Env())
	}

	return fuzzy.Find(word, cands), cands, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	env *lang.Env,
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(env, match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are followed by their arity, e.g. "add/2".
func renderCandidate(env *lang.Env, match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if fn, err := env.Func(match.Str); err == nil {
		b.WriteString(hintStyle.Render("/" + strconv.Itoa(len(fn.Params))))
	}

	return b.String()
}

// maxPreview bounds the length of a function body shown by the list command.
const maxPreview = 40

// formatPreview generates a one-line preview of a root scope entry.
func formatPreview(ent lang.Entry) string {
	if ent.Func != nil {
		body := strings.Join(strings.Fields(ent.Func.Body.String()), " ")
		if len(body) > maxPreview {
			body = body[:maxPreview-3] + "..."
		}

		return ent.Func.Signature("fun "+ent.Name) + " => " + body
	}

	if lang.IsUnit(ent.Value) {
		return "= {}"
	}

	return "= " + ent.Value.String()
}
