package ltl

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse reads an LTL formula in infix notation. Operator precedence, loosest
// binding first: <->, ->, |, &, U/W/R, then the unary operators ! G F X.
// Both "&"/"&&" and "|"/"||" spellings are accepted.
func Parse(input string) (Formula, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	f, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, fmt.Errorf("ltl: unexpected %q at end of formula", p.peek().text)
	}
	return f, nil
}

// MustParse is Parse with a panic on error, for fixed formulas in tests
// and tables.
func MustParse(input string) Formula {
	f, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return f
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokLParen
	tokRParen
	tokNot
	tokAnd
	tokOr
	tokImplies
	tokIff
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case c == '!':
			toks = append(toks, token{tokNot, "!", i})
			i++
		case c == '&':
			n := 1
			if i+1 < len(input) && input[i+1] == '&' {
				n = 2
			}
			toks = append(toks, token{tokAnd, input[i : i+n], i})
			i += n
		case c == '|':
			n := 1
			if i+1 < len(input) && input[i+1] == '|' {
				n = 2
			}
			toks = append(toks, token{tokOr, input[i : i+n], i})
			i += n
		case strings.HasPrefix(input[i:], "<->"):
			toks = append(toks, token{tokIff, "<->", i})
			i += 3
		case strings.HasPrefix(input[i:], "->"):
			toks = append(toks, token{tokImplies, "->", i})
			i += 2
		case isIdentStart(rune(c)):
			j := i + 1
			for j < len(input) && isIdentPart(rune(input[j])) {
				j++
			}
			toks = append(toks, token{tokIdent, input[i:j], i})
			i = j
		default:
			return nil, fmt.Errorf("ltl: unexpected character %q at position %d", c, i)
		}
	}
	return toks, nil
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

type parser struct {
	toks []token
	pos  int
}

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token {
	if p.eof() {
		return token{kind: -1, text: "<eof>"}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) parseIff() (Formula, error) {
	l, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	if !p.eof() && p.peek().kind == tokIff {
		p.next()
		r, err := p.parseIff()
		if err != nil {
			return nil, err
		}
		return Iff{L: l, R: r}, nil
	}
	return l, nil
}

func (p *parser) parseImplies() (Formula, error) {
	l, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	// Right-associative, as in Strix and Spot.
	if !p.eof() && p.peek().kind == tokImplies {
		p.next()
		r, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		return Implies{L: l, R: r}, nil
	}
	return l, nil
}

func (p *parser) parseOr() (Formula, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	fs := []Formula{first}
	for !p.eof() && p.peek().kind == tokOr {
		p.next()
		f, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return OrAll(fs...), nil
}

func (p *parser) parseAnd() (Formula, error) {
	first, err := p.parseBinaryTemporal()
	if err != nil {
		return nil, err
	}
	fs := []Formula{first}
	for !p.eof() && p.peek().kind == tokAnd {
		p.next()
		f, err := p.parseBinaryTemporal()
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return AndAll(fs...), nil
}

func (p *parser) parseBinaryTemporal() (Formula, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for !p.eof() && p.peek().kind == tokIdent {
		op := p.peek().text
		if op != "U" && op != "W" && op != "R" {
			break
		}
		p.next()
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		switch op {
		case "U":
			l = Until{L: l, R: r}
		case "W":
			l = WeakUntil{L: l, R: r}
		case "R":
			l = Release{L: l, R: r}
		}
	}
	return l, nil
}

func (p *parser) parseUnary() (Formula, error) {
	t := p.peek()
	switch t.kind {
	case tokNot:
		p.next()
		f, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{F: f}, nil
	case tokIdent:
		switch t.text {
		case "G":
			p.next()
			f, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return Always{F: f}, nil
		case "F":
			p.next()
			f, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return Eventually{F: f}, nil
		case "X":
			p.next()
			f, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return Next{F: f}, nil
		}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Formula, error) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		f, err := p.parseIff()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, fmt.Errorf("ltl: missing ) at position %d", t.pos)
		}
		p.next()
		return f, nil
	case tokIdent:
		switch t.text {
		case "true", "TRUE":
			return True, nil
		case "false", "FALSE":
			return False, nil
		}
		return Atom(t.text), nil
	default:
		return nil, fmt.Errorf("ltl: unexpected %q at position %d", t.text, t.pos)
	}
}
