package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ff7tools/terraform/terrerr"
)

// binaryPrecedence ranks every infix operator spelling the grammar accepts,
// lowest binding first. Operators sharing a rank are left-associative.
var binaryPrecedence = map[string]int{
	"OR":  1,
	"AND": 2,
	"|":   3,
	"&":   4,
	"==":  5,
	"<":   6,
	">":   6,
	"<=":  6,
	">=":  6,
	"<<":  7,
	">>":  7,
	"+":   8,
	"-":   8,
	"*":   9,
}

// Parse reads a function body's source text and returns its statements in
// source order. Line numbers in returned errors are 1-based.
func Parse(src string) ([]*Statement, error) {
	var out []*Statement
	for i, raw := range strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n") {
		lineNo := i + 1
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		toks, err := lexLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNo, err, terrerr.ParseError)
		}
		if len(toks) == 0 {
			continue
		}

		stmt, err := parseStatement(toks)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNo, err, terrerr.ParseError)
		}
		stmt.Line = lineNo
		out = append(out, stmt)
	}
	return out, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseStatement(toks []token) (*Statement, error) {
	if toks[0].kind == tokLabel {
		if len(toks) != 1 {
			return nil, fmt.Errorf("unexpected tokens after label %q", toks[0].text)
		}
		return &Statement{Label: toks[0].text}, nil
	}

	if toks[0].kind != tokIdent {
		return nil, fmt.Errorf("expected a statement, found %q", toks[0].text)
	}

	switch toks[0].text {
	case "EndIf":
		if len(toks) != 1 {
			return nil, fmt.Errorf("EndIf takes no arguments")
		}
		return &Statement{EndIf: true}, nil
	case "End":
		if len(toks) != 1 {
			return nil, fmt.Errorf("End takes no arguments")
		}
		return &Statement{IsEnd: true}, nil
	case "GoTo":
		if len(toks) != 2 || toks[1].kind != tokLabel {
			return nil, fmt.Errorf("GoTo must be followed by a single @LABEL")
		}
		return &Statement{GotoLabel: toks[1].text}, nil
	case "If":
		last := toks[len(toks)-1]
		if last.kind != tokIdent || last.text != "Then" {
			return nil, fmt.Errorf("If statement must end with Then")
		}
		cond, err := parseExprTokens(toks[1 : len(toks)-1])
		if err != nil {
			return nil, fmt.Errorf("in If condition: %w", err)
		}
		return &Statement{If: cond}, nil
	default:
		call, rest, err := parseCall(toks)
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, fmt.Errorf("unexpected trailing tokens after %s(...)", call.Mnemonic)
		}
		return &Statement{Call: call}, nil
	}
}

func parseExprTokens(toks []token) (Expr, error) {
	p := &exprParser{toks: toks}
	e, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("unexpected trailing tokens starting at %q", p.toks[p.pos].text)
	}
	return e, nil
}

// parseCall parses "Mnemonic(arg, arg, ...)" from the front of toks and
// returns the remaining, unconsumed tokens.
func parseCall(toks []token) (*Call, []token, error) {
	p := &exprParser{toks: toks}
	call, err := p.parseCallFrom(0)
	if err != nil {
		return nil, nil, err
	}
	return call, p.toks[p.pos:], nil
}

type exprParser struct {
	toks []token
	pos  int
}

func (p *exprParser) peek() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *exprParser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *exprParser) parseExpr(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp && t.kind != tokMinus && !(t.kind == tokIdent && (t.text == "AND" || t.text == "OR")) {
			break
		}
		prec, ok := binaryPrecedence[t.text]
		if !ok || prec < minPrec {
			break
		}
		p.next()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: t.text, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseUnary() (Expr, error) {
	if p.peek().kind == tokMinus {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "-", Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (Expr, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.next()
		v, err := parseNumber(t.text)
		if err != nil {
			return nil, err
		}
		return &IntLiteral{Value: v}, nil
	case tokVariable:
		p.next()
		return &VarRef{Name: t.text}, nil
	case tokLParen:
		p.next()
		e, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, fmt.Errorf("expected closing )")
		}
		p.next()
		return e, nil
	case tokIdent:
		return p.parseCallFrom(p.pos)
	default:
		return nil, fmt.Errorf("expected a value, found %q", t.text)
	}
}

func (p *exprParser) parseCallFrom(pos int) (*Call, error) {
	p.pos = pos
	name := p.next()
	if name.kind != tokIdent {
		return nil, fmt.Errorf("expected a call name, found %q", name.text)
	}
	if p.peek().kind != tokLParen {
		return nil, fmt.Errorf("expected ( after %s", name.text)
	}
	p.next()

	var args []Expr
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseExpr(1)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind == tokComma {
				p.next()
				continue
			}
			break
		}
	}
	if p.peek().kind != tokRParen {
		return nil, fmt.Errorf("expected ) to close %s(...)", name.text)
	}
	p.next()
	return &Call{Mnemonic: name.text, Args: args}, nil
}

func parseNumber(s string) (int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseInt(s[2:], 16, 64)
		return int(v), err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	return int(v), err
}
