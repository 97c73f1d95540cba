package lang

import (
	"strings"
)

// parseFunc consumes a prefix of s and returns the unconsumed suffix along
// with the value it recognized. A parseFunc never mutates its input; on
// failure the caller retains s and may try another alternative.
type parseFunc[T any] func(s string) (rest string, v T, err error)

// takeWhile splits s after the longest prefix whose runes satisfy accept.
func takeWhile(accept func(rune) bool, s string) (rest, taken string) {
	end := len(s)

	for i, r := range s {
		if !accept(r) {
			end = i

			break
		}
	}

	return s[end:], s[:end]
}

// takeWhileRequired is takeWhile that fails with reason when the accepted
// prefix is empty.
func takeWhileRequired(
	accept func(rune) bool,
	s, reason string,
) (rest, taken string, err error) {
	rest, taken = takeWhile(accept, s)
	if taken == "" {
		return s, "", syntaxError(reason, s)
	}

	return rest, taken, nil
}

func isWhitespace(r rune) bool { return r == ' ' || r == '\n' }

func isSpace(r rune) bool { return r == ' ' }

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isAlpha(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isAlnum(r rune) bool { return isAlpha(r) || isDigit(r) }

// extractWhitespace consumes any run of spaces and newlines.
func extractWhitespace(s string) (rest, taken string) {
	return takeWhile(isWhitespace, s)
}

// extractWhitespaceRequired consumes a non-empty run of spaces and newlines.
func extractWhitespaceRequired(s string) (rest, taken string, err error) {
	return takeWhileRequired(isWhitespace, s, "expected a space")
}

// extractSpaces consumes a run of space characters only. Newlines are not
// included so that a call's argument list ends at the end of a line.
func extractSpaces(s string) (rest, taken string) {
	return takeWhile(isSpace, s)
}

func extractDigits(s string) (rest, digits string, err error) {
	return takeWhileRequired(isDigit, s, "expected digits")
}

// extractIdent consumes an identifier: an ASCII letter followed by any
// number of ASCII letters and digits.
func extractIdent(s string) (rest, ident string, err error) {
	if s == "" || !isAlpha(rune(s[0])) {
		return s, "", syntaxError("expected identifier", s)
	}

	rest, ident = takeWhile(isAlnum, s)

	return rest, ident, nil
}

// tag consumes the exact literal from the start of s.
func tag(literal, s string) (rest string, err error) {
	if !strings.HasPrefix(s, literal) {
		return s, syntaxError("expected `"+literal+"`", s)
	}

	return s[len(literal):], nil
}

// sequence applies item repeatedly, consuming sep after every recognized
// item, and stops at the first item that fails. The failing item consumes
// nothing, so sequence itself never fails.
func sequence[T any](
	item parseFunc[T],
	sep func(string) (string, string),
	s string,
) (rest string, items []T) {
	rest = s

	for {
		next, v, err := item(rest)
		if err != nil {
			return rest, items
		}

		items = append(items, v)
		rest, _ = sep(next)
	}
}

// nonEmptySequence is sequence that fails when no item was recognized.
func nonEmptySequence[T any](
	item parseFunc[T],
	sep func(string) (string, string),
	s string,
) (rest string, items []T, err error) {
	rest, items = sequence(item, sep, s)
	if len(items) == 0 {
		return s, nil, syntaxError(
			"expected a sequence with more than one item", s,
		)
	}

	return rest, items, nil
}
