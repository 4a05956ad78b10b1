package formula

import (
	"sort"
	"strconv"
)

// Compiled is a parsed formula ready for repeated evaluation. It is immutable
// and safe for concurrent use.
type Compiled struct {
	source string
	root   node
	vars   []string
}

// Source returns the formula text the expression was compiled from.
func (c *Compiled) Source() string {
	return c.source
}

// Variables returns the sorted set of free identifiers referenced by the
// formula. The management layer validates these against the built-in names
// plus the formula's declared parameters.
func (c *Compiled) Variables() []string {
	out := make([]string, len(c.vars))
	copy(out, c.vars)
	return out
}

// Compile tokenizes and parses the formula string. It fails with a
// *SyntaxError carrying the byte position of the offending token.
func Compile(source string) (*Compiled, error) {
	tokens, err := lex(source)
	if err != nil {
		return nil, err
	}
	if tokens[0].kind == tokenEOF {
		return nil, &SyntaxError{Position: tokens[0].pos, Message: "empty expression"}
	}

	p := &parser{tokens: tokens}
	root, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, &SyntaxError{Position: tok.pos, Message: "unexpected " + tok.String()}
	}

	names := map[string]struct{}{}
	collectVariables(root, names)
	vars := make([]string, 0, len(names))
	for name := range names {
		vars = append(vars, name)
	}
	sort.Strings(vars)

	return &Compiled{source: source, root: root, vars: vars}, nil
}

// parser implements precedence climbing over the token stream.
type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func precedence(kind tokenKind) int {
	switch kind {
	case tokenPlus, tokenMinus:
		return 1
	case tokenStar, tokenSlash:
		return 2
	default:
		return 0
	}
}

func (p *parser) parseExpression(minPrec int) (node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		prec := precedence(tok.kind)
		if prec == 0 || prec < minPrec {
			return left, nil
		}
		p.next()

		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}

		var op binaryOp
		switch tok.kind {
		case tokenPlus:
			op = opAdd
		case tokenMinus:
			op = opSub
		case tokenStar:
			op = opMul
		case tokenSlash:
			op = opDiv
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNumber:
		value, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, &SyntaxError{Position: tok.pos, Message: "malformed number " + tok.String()}
		}
		return literalNode{value: value}, nil
	case tokenIdent:
		return variableNode{name: tok.text}, nil
	case tokenMinus:
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return unaryNode{operand: operand}, nil
	case tokenLParen:
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.kind != tokenRParen {
			return nil, &SyntaxError{Position: closing.pos, Message: "expected closing parenthesis"}
		}
		return inner, nil
	default:
		return nil, &SyntaxError{Position: tok.pos, Message: "unexpected " + tok.String()}
	}
}

func collectVariables(n node, into map[string]struct{}) {
	switch typed := n.(type) {
	case variableNode:
		into[typed.name] = struct{}{}
	case unaryNode:
		collectVariables(typed.operand, into)
	case binaryNode:
		collectVariables(typed.left, into)
		collectVariables(typed.right, into)
	}
}
