package sexp

import (
	"strconv"
	"strings"
)

// Print renders a Value as canonical text (spec §4.9): one space between
// siblings, no leading or trailing whitespace, escaping \n \t \r \\ "
// inside strings, floats at round-trippable precision.
func Print(v Value) (string, error) {
	r, err := v.reader()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := printAt(&sb, r, rootOffset); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func printAt(sb *strings.Builder, r *reader, off int) error {
	k, err := r.kindAt(off)
	if err != nil {
		return err
	}
	switch k {
	case KindNil:
		sb.WriteString("nil")
		return nil
	case KindInteger:
		v, _, err := readIntegerValue(r.data, off)
		if err != nil {
			return err
		}
		sb.WriteString(strconv.FormatInt(v, 10))
		return nil
	case KindFloat:
		v, _, err := readFloatValue(r.data, off)
		if err != nil {
			return err
		}
		s := strconv.FormatFloat(v, 'g', 17, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0" // keep an integral float from re-parsing as an integer
		}
		sb.WriteString(s)
		return nil
	case KindSymbol:
		text, _, err := readSymbolText(r.data, off, r.lookup)
		if err != nil {
			return err
		}
		sb.Write(text)
		return nil
	case KindString:
		content, _, err := readStringContent(r.data, off)
		if err != nil {
			return err
		}
		writeQuotedString(sb, content)
		return nil
	case KindList:
		h, err := r.listHeaderAt(off)
		if err != nil {
			return err
		}
		sb.WriteByte('(')
		for i := 0; i < h.count; i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			childOff, err := r.nthChild(h, i)
			if err != nil {
				return err
			}
			if err := printAt(sb, r, childOff); err != nil {
				return err
			}
		}
		sb.WriteByte(')')
		return nil
	default:
		return errUnknownTag
	}
}

func writeQuotedString(sb *strings.Builder, content []byte) {
	sb.WriteByte('"')
	for _, c := range content {
		switch c {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
}
