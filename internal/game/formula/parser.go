package formula

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokVar
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// variableNames are the accepted spellings of the bound variable, lower-cased.
var variableNames = map[string]bool{"zfp": true, "tap": true}

func tokenize(s string) ([]token, error) {
	var toks []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r):
			start := i
			for i < len(rs) && unicode.IsDigit(rs[i]) {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: string(rs[start:i]), pos: start})
		case unicode.IsLetter(r):
			start := i
			for i < len(rs) && unicode.IsLetter(rs[i]) {
				i++
			}
			word := string(rs[start:i])
			if !variableNames[strings.ToLower(word)] {
				return nil, fmt.Errorf("unknown identifier %q: %w", word, ErrInvalidFormula)
			}
			// A '*' directly after the variable is the star suffix ("ZfP*")
			// unless an operand follows it, in which case it multiplies.
			if i < len(rs) && rs[i] == '*' && !operandFollows(rs, i+1) {
				i++
			}
			toks = append(toks, token{kind: tokVar, text: word, pos: start})
		case strings.ContainsRune("+-*/", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d: %w", r, i, ErrInvalidFormula)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(rs)}), nil
}

func operandFollows(rs []rune, i int) bool {
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	if i >= len(rs) {
		return false
	}
	r := rs[i]
	return unicode.IsDigit(r) || unicode.IsLetter(r) || r == '('
}

// parser is a recursive-descent parser over:
//
//	expression = term { ("+" | "-") term }
//	term       = unary { ("*" | "/") unary }
//	unary      = "-" unary | primary
//	primary    = number | variable | "(" expression ")"
type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expression() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for t := p.peek(); t.kind == tokOp && (t.text == "+" || t.text == "-"); t = p.peek() {
		p.advance()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binary{op: t.text[0], left: left, right: right}
	}
	return left, nil
}

func (p *parser) term() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for t := p.peek(); t.kind == tokOp && (t.text == "*" || t.text == "/"); t = p.peek() {
		p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = binary{op: t.text[0], left: left, right: right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if t := p.peek(); t.kind == tokOp && t.text == "-" {
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return negate{operand: operand}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	t := p.advance()
	switch t.kind {
	case tokNumber:
		n, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, fmt.Errorf("number %q out of range: %w", t.text, ErrInvalidFormula)
		}
		return literal(n), nil
	case tokVar:
		return variable{}, nil
	case tokLParen:
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.kind != tokRParen {
			return nil, fmt.Errorf("missing ')' at offset %d: %w", closing.pos, ErrInvalidFormula)
		}
		return inner, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of formula: %w", ErrInvalidFormula)
	default:
		return nil, fmt.Errorf("unexpected %q at offset %d: %w", t.text, t.pos, ErrInvalidFormula)
	}
}
