// Package sexp implements a compact, indexable binary representation of
// S-expressions: a text reader/writer, a self-describing binary container
// with a per-value symbol table, and the semantic operations (equality,
// hashing, containment, pattern matching) needed to support a host
// relational database's GIN-style inverted index (see the sexpindex
// subpackage).
//
// Text grammar:
//
//	sexp    ::= WS? value WS?
//	value   ::= atom | list
//	list    ::= '(' WS? (value WS?)* ')'
//	atom    ::= number | string | symbol | 'nil'
//	number  ::= [+-]? (digits ('.' digits)? ([eE][+-]? digits)?)
//	string  ::= '"' ( escape | [^"\\] )* '"'
//	escape  ::= '\\' ( 'n' | 't' | 'r' | '\\' | '"' | . )
//	symbol  ::= non-empty run of non-whitespace chars not starting a
//	            number, list, string, or comment
//	WS      ::= ( whitespace | ';' [^\n]* )*
//
// `()` and the bare symbol `nil` both parse to NIL. Trailing non-whitespace
// after the root expression is an error. Nesting depth is bounded by
// MaxDepth to prevent stack exhaustion.
//
// The canonical printer emits one space between siblings, no leading or
// trailing whitespace, and escapes \n \t \r \\ " within strings. Floats
// print in %.17g form (17 significant digits, trailing zeros dropped), with
// ".0" appended when that form has neither a fraction nor an exponent, so
// every float re-parses as the same float.
package sexp
