package formula

import "fmt"

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenIdent
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokenEOF:
		return "end of expression"
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// lex splits the source into tokens. The grammar is ASCII arithmetic only, so
// scanning is byte-wise; any other byte is a syntax error.
func lex(source string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(source) {
		c := source[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+':
			tokens = append(tokens, token{kind: tokenPlus, text: "+", pos: i})
			i++
		case c == '-':
			tokens = append(tokens, token{kind: tokenMinus, text: "-", pos: i})
			i++
		case c == '*':
			tokens = append(tokens, token{kind: tokenStar, text: "*", pos: i})
			i++
		case c == '/':
			tokens = append(tokens, token{kind: tokenSlash, text: "/", pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: i})
			i++
		case isDigit(c) || c == '.':
			start := i
			sawDot := false
			for i < len(source) && (isDigit(source[i]) || source[i] == '.') {
				if source[i] == '.' {
					if sawDot {
						return nil, &SyntaxError{Position: i, Message: "unexpected second decimal point"}
					}
					sawDot = true
				}
				i++
			}
			text := source[start:i]
			if text == "." {
				return nil, &SyntaxError{Position: start, Message: "malformed number"}
			}
			tokens = append(tokens, token{kind: tokenNumber, text: text, pos: start})
		case isIdentStart(c):
			start := i
			for i < len(source) && isIdentPart(source[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: source[start:i], pos: start})
		default:
			return nil, &SyntaxError{Position: i, Message: fmt.Sprintf("unexpected character %q", string(c))}
		}
	}
	tokens = append(tokens, token{kind: tokenEOF, pos: len(source)})
	return tokens, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
