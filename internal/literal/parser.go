// Package literal parses dictionary-literal strings such as
//
//	{'total_score': 12, "lead_status_tag": 'Hot', 'reasoning': "caller's budget is set"}
//
// Keys and values may use either quote character, independently per token.
// A quoted span closes only at the next occurrence of its own quote
// character. Parsing never fails outright: malformed members are reported as
// ParseErrors and skipped, and everything else is kept.
package literal

import (
	"fmt"
	"strings"
)

// ParseError is a recoverable problem found at byte offset Pos.
type ParseError struct {
	Pos int
	Msg string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Pos, e.Msg)
}

// Result is the outcome of Parse. Dict is never nil.
type Result struct {
	Dict   *Dict
	Errors []ParseError
}

// OK reports whether the literal parsed without any recoverable errors.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// MaxDepth bounds object nesting. Deeper objects are reported and skipped.
const MaxDepth = 32

type parser struct {
	lex   lexer
	tok   token
	depth int
	errs  []ParseError
}

// Parse reads src into an ordered dictionary, collecting errors instead of stopping.
func Parse(src string) Result {
	out := Result{Dict: NewDict()}
	if strings.TrimSpace(src) == "" {
		out.Errors = append(out.Errors, ParseError{Pos: 0, Msg: "empty literal"})
		return out
	}

	p := &parser{lex: lexer{src: src}}

	braced := true
	switch open := openingBrace(src); {
	case open < 0:
		braced = false
		p.errorf(0, "missing opening '{'")
	case open > 0 && strings.TrimSpace(src[:open]) != "":
		p.errorf(0, "unexpected text before '{'")
		p.lex.pos = open
	}

	p.advance()
	if braced {
		p.advance() // consume '{'
	}
	p.members(out.Dict, braced)

	if braced && p.tok.kind != tokEOF {
		p.errorf(p.tok.pos, "unexpected input after closing '}'")
	}
	out.Errors = p.errs
	return out
}

// openingBrace returns the offset of the brace that opens the literal, or -1.
// A brace only counts when no quoted span comes before it, so braces inside
// values of an unbraced literal are left alone.
func openingBrace(src string) int {
	l := lexer{src: src}
	for {
		t := l.next()
		switch t.kind {
		case tokLBrace:
			return t.pos
		case tokEOF, tokString, tokUnterminated:
			return -1
		}
	}
}

func (p *parser) advance() { p.tok = p.lex.next() }

func (p *parser) errorf(pos int, format string, args ...any) {
	p.errs = append(p.errs, ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// members parses "key: value" pairs into d until the closing brace (braced)
// or end of input.
func (p *parser) members(d *Dict, braced bool) {
	for {
		switch p.tok.kind {
		case tokEOF:
			if braced {
				p.errorf(p.tok.pos, "unbalanced braces: missing closing '}'")
			}
			return
		case tokRBrace:
			if braced {
				p.advance()
				return
			}
			p.errorf(p.tok.pos, "unbalanced braces: unexpected '}'")
			p.advance()
			continue
		case tokComma:
			p.advance()
			continue
		}
		if !p.member(d) {
			p.resync()
		}
	}
}

// member parses one pair. It returns false when the caller must resynchronise.
func (p *parser) member(d *Dict) bool {
	keyTok := p.tok
	switch keyTok.kind {
	case tokString, tokBare:
	case tokUnterminated:
		p.errorf(keyTok.pos, "unterminated quote in key")
		p.advance()
		return false
	default:
		p.errorf(keyTok.pos, "expected key")
		return false
	}
	key := keyTok.text

	p.advance()
	if p.tok.kind != tokColon {
		p.errorf(keyTok.pos, "key %q has no value", key)
		return false
	}
	p.advance()

	var val Value
	switch p.tok.kind {
	case tokString:
		val = StringValue(p.tok.text)
		p.advance()
	case tokBare:
		val = p.bareValue()
	case tokLBrace:
		if p.depth >= MaxDepth {
			// resync skips the whole nested span without recursing.
			p.errorf(p.tok.pos, "nesting too deep in value for key %q", key)
			return false
		}
		p.advance()
		nested := NewDict()
		p.depth++
		p.members(nested, true)
		p.depth--
		val = ObjectValue(nested)
	case tokUnterminated:
		p.errorf(p.tok.pos, "unterminated quote in value for key %q", key)
		p.advance()
		return false
	default:
		p.errorf(keyTok.pos, "key %q has no value", key)
		return false
	}
	d.Set(key, val)

	switch p.tok.kind {
	case tokComma:
		p.advance()
		return true
	case tokRBrace, tokEOF:
		return true
	case tokString:
		// A quoted token right after a value reads as the next key with its comma missing.
		p.errorf(p.tok.pos, "missing ',' after value for key %q", key)
		return true
	default:
		p.errorf(p.tok.pos, "expected ',' or '}' after value for key %q", key)
		return false
	}
}

// bareValue joins adjacent unquoted words ("High intent") into one value.
func (p *parser) bareValue() Value {
	words := []string{p.tok.text}
	p.advance()
	for p.tok.kind == tokBare {
		words = append(words, p.tok.text)
		p.advance()
	}
	if len(words) == 1 {
		return classifyBare(words[0])
	}
	return Value{Kind: KindString, Str: strings.Join(words, " ")}
}

// resync skips to the next comma or closing brace of the current object.
func (p *parser) resync() {
	depth := 0
	for {
		switch p.tok.kind {
		case tokEOF:
			return
		case tokLBrace:
			depth++
		case tokRBrace:
			if depth == 0 {
				return
			}
			depth--
		case tokComma:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
