// SPDX-License-Identifier: GPL-3.0-or-later

package matcher

import "regexp"

// NewRegExpMatcher compiles a regexp expression. Expressions that are
// plain literals (optionally anchored) are downgraded to the much
// cheaper string matcher.
func NewRegExpMatcher(expr string) (Matcher, error) {
	switch expr {
	case "", "^", "$":
		return TRUE(), nil
	case "^$", "$^":
		return NewStringMatcher("", true, true)
	}

	chars := []rune(expr)
	var startWith, endWith bool
	startIdx := 0
	endIdx := len(chars) - 1
	if chars[startIdx] == '^' {
		startWith = true
		startIdx = 1
	}
	if chars[endIdx] == '$' {
		endWith = true
		endIdx--
	}

	literal := make([]rune, 0, endIdx-startIdx+1)
	for i := startIdx; i <= endIdx; i++ {
		ch := chars[i]
		switch {
		case ch == '\\':
			if i == endIdx {
				// trailing backslash, let regexp report it
				return regexp.Compile(expr)
			}
			next := chars[i+1]
			if !isRegExpMeta(next) {
				// escape sequence with special meaning
				return regexp.Compile(expr)
			}
			literal = append(literal, next)
			i++
		case isRegExpMeta(ch):
			return regexp.Compile(expr)
		default:
			literal = append(literal, ch)
		}
	}

	return NewStringMatcher(string(literal), startWith, endWith)
}

// isRegExpMeta reports whether ch is a character QuoteMeta would escape.
func isRegExpMeta(ch rune) bool {
	switch ch {
	case '\\', '.', '+', '*', '?', '(', ')', '|', '[', ']', '{', '}', '^', '$':
		return true
	default:
		return false
	}
}
