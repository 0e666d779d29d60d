// SPDX-License-Identifier: GPL-3.0-or-later

package matcher

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// Matcher is an interface that wraps MatchString method.
	Matcher interface {
		// Match performs match against given []byte
		Match(b []byte) bool
		// MatchString performs match against given string
		MatchString(string) bool
	}

	// Format matcher format
	Format string
)

const (
	// FmtString is a string match format.
	FmtString Format = "string"
	// FmtGlob is a glob match format.
	FmtGlob Format = "glob"
	// FmtRegExp is a regex match format.
	FmtRegExp Format = "regexp"
	// FmtSimplePattern is a simple pattern match format
	// https://docs.netdata.cloud/libnetdata/simple_pattern/
	FmtSimplePattern Format = "simple_patterns"

	// Separator is a separator between match format and expression.
	Separator = ":"
)

const (
	symString = "="
	symGlob   = "*"
	symRegExp = "~"
)

var (
	errNotShortSyntax = errors.New("not short syntax")
	errEmptyExpr      = errors.New("empty expression")
)

// Must is a helper that wraps a call to a function returning (Matcher, error) and panics if the error is non-nil.
// It is intended for use in variable initializations.
func Must(m Matcher, err error) Matcher {
	if err != nil {
		panic(err)
	}
	return m
}

// New create a matcher
func New(format Format, expr string) (Matcher, error) {
	switch format {
	case FmtString:
		return NewStringMatcher(expr, true, true)
	case FmtGlob:
		return NewGlobMatcher(expr)
	case FmtRegExp:
		return NewRegExpMatcher(expr)
	case FmtSimplePattern:
		return NewSimplePatternsMatcher(expr)
	default:
		return nil, fmt.Errorf("unsupported matcher format: '%s'", format)
	}
}

// Parse parses line and returns appropriate matcher based on matched format.
//
// Short Syntax
//
//	<line>      ::= [ <not> ] <format> <space> <expr>
//	<not>       ::= '!'
//	                  negative expression
//	<format>    ::= [ '=', '~', '*' ]
//	                  '=' means string match
//	                  '~' means regexp match
//	                  '*' means glob match
//	<space>     ::= { ' ' | '\t' | '\n' | '\n' | '\r' }
//	<expr>      ::= any string
//
// Long Syntax
//
//	<line>      ::= [ <not> ] <format> <separator> <expr>
//	<format>    ::= [ 'string' | 'glob' | 'regexp' | 'simple_patterns' ]
//	<not>       ::= '!'
//	                  negative expression
//	<separator> ::= ':'
//	<expr>      ::= any string
func Parse(line string) (Matcher, error) {
	matcher, err := parseShortFormat(line)
	if err == nil {
		return matcher, nil
	}
	return parseLongSyntax(line)
}

func parseShortFormat(line string) (Matcher, error) {
	var format Format
	var neg bool

	expr := strings.TrimSpace(line)
	if strings.HasPrefix(expr, "!") {
		neg = true
		expr = expr[1:]
	}
	if len(expr) < 2 {
		return nil, errNotShortSyntax
	}

	switch expr[:1] {
	case symString:
		format = FmtString
	case symGlob:
		format = FmtGlob
	case symRegExp:
		format = FmtRegExp
	default:
		return nil, errNotShortSyntax
	}

	rest := strings.TrimLeft(expr[1:], " \t\n\r")
	if rest == "" {
		return nil, errEmptyExpr
	}

	m, err := New(format, rest)
	if err != nil {
		return nil, err
	}
	if neg {
		m = Not(m)
	}
	return m, nil
}

func parseLongSyntax(line string) (Matcher, error) {
	var neg bool

	expr := strings.TrimSpace(line)
	if strings.HasPrefix(expr, "!") {
		neg = true
		expr = expr[1:]
	}

	idx := strings.Index(expr, Separator)
	if idx < 0 {
		return nil, fmt.Errorf("unsupported match syntax: '%s'", line)
	}

	m, err := New(Format(expr[:idx]), expr[idx+1:])
	if err != nil {
		return nil, err
	}
	if neg {
		m = Not(m)
	}
	return m, nil
}
