package sexp

import "strconv"

// astKind distinguishes the shapes the text parser can produce, before
// symbol interning and binary compilation (component 4's first stage).
type astKind int

const (
	astNil astKind = iota
	astSymbol
	astString
	astInteger
	astFloat
	astList
)

// astNode is the parser's intermediate tree: plain Go values, no symbol
// table yet. encode.go compiles a tree of these into a binary Value.
type astNode struct {
	Kind     astKind
	Text     []byte // symbol name or string content
	Int      int64
	Float    float64
	Children []*astNode
}

func nilNode() *astNode               { return &astNode{Kind: astNil} }
func symbolNode(name []byte) *astNode { return &astNode{Kind: astSymbol, Text: name} }
func stringNode(s []byte) *astNode    { return &astNode{Kind: astString, Text: s} }
func integerNode(v int64) *astNode    { return &astNode{Kind: astInteger, Int: v} }
func floatNode(v float64) *astNode    { return &astNode{Kind: astFloat, Float: v} }
func listNode(children ...*astNode) *astNode {
	return &astNode{Kind: astList, Children: children}
}

// String renders the AST the way the parser read it, for debugging; the
// canonical printer (printer.go) operates on compiled Values, not on this
// tree, and is the one that matters for the `print` operation of spec §6.1.
func (n *astNode) String() string {
	if n == nil {
		return "nil"
	}
	switch n.Kind {
	case astNil:
		return "nil"
	case astSymbol:
		return string(n.Text)
	case astString:
		return strconv.Quote(string(n.Text))
	case astInteger:
		return strconv.FormatInt(n.Int, 10)
	case astFloat:
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	case astList:
		s := "("
		for i, c := range n.Children {
			if i > 0 {
				s += " "
			}
			s += c.String()
		}
		return s + ")"
	default:
		return "<invalid>"
	}
}
