package literal

import "strings"

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokColon
	tokComma
	tokString
	tokBare
	// tokUnterminated is a quoted span with no closing quote. The lexer has
	// already moved to the next key boundary.
	tokUnterminated
)

type token struct {
	kind  tokenKind
	text  string
	quote byte
	pos   int
}

type lexState uint8

const (
	stateOutside lexState = iota
	stateSingle
	stateDouble
	stateBare
)

// lexer scans one byte at a time. All structural characters are ASCII, so
// multi-byte UTF-8 sequences pass through quoted and bare spans untouched.
type lexer struct {
	src string
	pos int
}

func (l *lexer) next() token {
	state := stateOutside
	start := 0
	var buf strings.Builder

	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch state {
		case stateOutside:
			switch {
			case c == '{':
				l.pos++
				return token{kind: tokLBrace, pos: l.pos - 1}
			case c == '}':
				l.pos++
				return token{kind: tokRBrace, pos: l.pos - 1}
			case c == ':':
				l.pos++
				return token{kind: tokColon, pos: l.pos - 1}
			case c == ',':
				l.pos++
				return token{kind: tokComma, pos: l.pos - 1}
			case isSpace(c):
				l.pos++
			case c == '\'':
				state, start = stateSingle, l.pos
				l.pos++
			case c == '"':
				state, start = stateDouble, l.pos
				l.pos++
			default:
				state, start = stateBare, l.pos
			}

		case stateSingle, stateDouble:
			quote := byte('\'')
			if state == stateDouble {
				quote = '"'
			}
			switch {
			case c == '\\' && l.pos+1 < len(l.src):
				buf.WriteByte(unescape(l.src[l.pos+1]))
				l.pos += 2
			case c == quote:
				// Only the same quote character closes the span; the other one is content.
				l.pos++
				return token{kind: tokString, text: buf.String(), quote: quote, pos: start}
			default:
				buf.WriteByte(c)
				l.pos++
			}

		case stateBare:
			if isSpace(c) || isStructural(c) {
				return token{kind: tokBare, text: l.src[start:l.pos], pos: start}
			}
			l.pos++
		}
	}

	switch state {
	case stateSingle, stateDouble:
		return l.unterminated(start)
	case stateBare:
		return token{kind: tokBare, text: l.src[start:], pos: start}
	}
	return token{kind: tokEOF, pos: len(l.src)}
}

// unterminated rewinds to the first ',' or '}' after the opening quote so
// parsing can resume at the next plausible key boundary.
func (l *lexer) unterminated(start int) token {
	rest := l.src[start+1:]
	end := len(l.src)
	if i := strings.IndexAny(rest, ",}"); i >= 0 {
		end = start + 1 + i
	}
	l.pos = end
	return token{kind: tokUnterminated, text: l.src[start+1 : end], quote: l.src[start], pos: start}
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isStructural(c byte) bool {
	return c == '{' || c == '}' || c == ':' || c == ','
}
