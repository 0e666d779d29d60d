// SPDX-License-Identifier: GPL-3.0-or-later

/*
Package matcher literal expression support, syntax:

	string       ::= <string>
	glob         ::= <line> { '*' <line> }
	regexp       ::= regular expression
	simple_patterns ::= { [ '!' ] <glob> <space> }

The matcher line is prefixed with a method and a separator, e.g. 'glob:a*',
or with a short symbol, e.g. '* a*'. See Parse for the full syntax.
*/
package matcher
