package sexp

import (
	"strconv"
)

// Text parser (component 4, text-to-binary path, spec §4.9): recursive
// descent over the grammar in doc.go, producing an astNode tree that
// encode.go then compiles into a binary Value.

type textParser struct {
	data  []byte
	pos   int
	depth int
}

// Parse reads a single S-expression from text and compiles it to a Value.
// Trailing non-whitespace after the root expression is an error.
func Parse(text string) (Value, error) {
	p := &textParser{data: []byte(text)}
	p.skipWS()
	n, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.skipWS()
	if p.pos != len(p.data) {
		return Value{}, newError(InvalidText, "trailing data after expression")
	}
	return compile(n)
}

func (p *textParser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r' || c == '\n'
}

func (p *textParser) skipWS() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isWhitespace(c) {
			p.pos++
			continue
		}
		if c == ';' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		break
	}
}

func isDelimiter(c byte) bool {
	return isWhitespace(c) || c == '(' || c == ')' || c == '"' || c == ';'
}

func (p *textParser) parseValue() (*astNode, error) {
	c, ok := p.peek()
	if !ok {
		return nil, newError(InvalidText, "unexpected end of input")
	}
	switch {
	case c == '(':
		return p.parseList()
	case c == '"':
		return p.parseString()
	default:
		return p.parseAtomToken()
	}
}

func (p *textParser) parseList() (*astNode, error) {
	p.depth++
	if p.depth > MaxDepth {
		return nil, newError(LimitExceeded, "nesting depth exceeds MaxDepth")
	}
	defer func() { p.depth-- }()

	p.pos++ // consume '('
	var children []*astNode
	for {
		p.skipWS()
		c, ok := p.peek()
		if !ok {
			return nil, newError(InvalidText, "unterminated list")
		}
		if c == ')' {
			p.pos++
			return &astNode{Kind: astList, Children: children}, nil
		}
		child, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
}

func (p *textParser) parseString() (*astNode, error) {
	p.pos++ // consume opening '"'
	var out []byte
	for {
		c, ok := p.peek()
		if !ok {
			return nil, newError(InvalidText, "unterminated string")
		}
		if c == '"' {
			p.pos++
			return stringNode(out), nil
		}
		if c == '\\' {
			p.pos++
			esc, ok := p.peek()
			if !ok {
				return nil, newError(InvalidText, "unterminated escape")
			}
			p.pos++
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			default:
				out = append(out, esc)
			}
			continue
		}
		out = append(out, c)
		p.pos++
	}
}

// parseAtomToken reads the maximal run of non-delimiter bytes and
// classifies it as the bare nil literal, a number, or a symbol (spec
// §4.9: a symbol is anything in that run that isn't a number or nil).
func (p *textParser) parseAtomToken() (*astNode, error) {
	start := p.pos
	for p.pos < len(p.data) && !isDelimiter(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return nil, newError(InvalidText, "unexpected character")
	}
	tok := p.data[start:p.pos]

	if string(tok) == "nil" {
		return nilNode(), nil
	}
	if isNumberToken(tok) {
		return parseNumberToken(tok)
	}
	name := make([]byte, len(tok))
	copy(name, tok)
	return symbolNode(name), nil
}

// isNumberToken reports whether tok matches the number grammar:
// [+-]? digits ('.' digits)? ([eE] [+-]? digits)?
func isNumberToken(tok []byte) bool {
	i := 0
	n := len(tok)
	if i < n && (tok[i] == '+' || tok[i] == '-') {
		i++
	}
	digitsStart := i
	for i < n && isDigit(tok[i]) {
		i++
	}
	if i == digitsStart {
		return false
	}
	if i < n && tok[i] == '.' {
		i++
		fracStart := i
		for i < n && isDigit(tok[i]) {
			i++
		}
		if i == fracStart {
			return false
		}
	}
	if i < n && (tok[i] == 'e' || tok[i] == 'E') {
		i++
		if i < n && (tok[i] == '+' || tok[i] == '-') {
			i++
		}
		expStart := i
		for i < n && isDigit(tok[i]) {
			i++
		}
		if i == expStart {
			return false
		}
	}
	return i == n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func parseNumberToken(tok []byte) (*astNode, error) {
	s := string(tok)
	isFloat := false
	for _, c := range tok {
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			break
		}
	}
	if isFloat {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, wrapError(InvalidText, "invalid number literal", err)
		}
		return floatNode(v), nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, wrapError(InvalidText, "invalid integer literal", err)
	}
	return integerNode(v), nil
}
