package sexp

// Programmatic constructors for building Values directly from Go data,
// without going through the text parser. Each compiles immediately and
// panics on the rare internal error (encoding a well-formed node tree
// cannot fail in practice); callers who need an error return should build
// an astNode tree themselves and call compile.

// Sym builds a Symbol value.
func Sym(name string) Value { return MustCompile(symbolNode([]byte(name))) }

// Str builds a String value.
func Str(s string) Value { return MustCompile(stringNode([]byte(s))) }

// Int builds an Integer value.
func Int(v int64) Value { return MustCompile(integerNode(v)) }

// Float builds a Float value.
func Float(v float64) Value { return MustCompile(floatNode(v)) }

// List builds a List value from already-built children. Each child may
// carry its own independent symbol table; List decompiles them back into
// node trees and recompiles the whole list under one shared table, the
// same normalization a round-trip through the text parser would produce.
func List(children ...Value) Value {
	n := &astNode{Kind: astList, Children: make([]*astNode, len(children))}
	for i, c := range children {
		child, err := decompile(c)
		if err != nil {
			panic(err)
		}
		n.Children[i] = child
	}
	return MustCompile(n)
}

// MustCompile compiles an astNode tree into a Value, panicking on error.
func MustCompile(n *astNode) Value {
	v, err := compile(n)
	if err != nil {
		panic(err)
	}
	return v
}
