package manifest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrSyntax is returned by Parse for text outside the supported invocation subset.
var ErrSyntax = errors.New("manifest syntax error")

type tokenKind int

const (
	tokWord tokenKind = iota
	tokString
	tokCall
	tokSemi
)

type token struct {
	kind tokenKind
	text string
	arg  string
	pos  int
}

// Parse reads a manifest made of CALL_FUNCTION and CALL_METHOD statements.
// Addresses are validated the same way Builder validates them.
func Parse(src string) (*Manifest, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	b := NewBuilder()
	var stmt []token
	for _, t := range toks {
		if t.kind != tokSemi {
			stmt = append(stmt, t)
			continue
		}
		if err := parseStatement(b, stmt); err != nil {
			return nil, err
		}
		stmt = stmt[:0]
	}
	if len(stmt) > 0 {
		return nil, fmt.Errorf("%w at %d: missing ';'", ErrSyntax, stmt[0].pos)
	}

	return b.Build()
}

func parseStatement(b *Builder, stmt []token) error {
	if len(stmt) == 0 {
		return fmt.Errorf("%w: empty statement", ErrSyntax)
	}
	head := stmt[0]
	if head.kind != tokWord {
		return fmt.Errorf("%w at %d: expected instruction", ErrSyntax, head.pos)
	}

	switch head.text {
	case "CALL_FUNCTION":
		if len(stmt) < 4 {
			return fmt.Errorf("%w at %d: CALL_FUNCTION needs package, blueprint and function", ErrSyntax, head.pos)
		}
		target, err := addressOperand(stmt[1])
		if err != nil {
			return err
		}
		blueprint, err := stringOperand(stmt[2])
		if err != nil {
			return err
		}
		function, err := stringOperand(stmt[3])
		if err != nil {
			return err
		}
		args, err := parseValues(stmt[4:])
		if err != nil {
			return err
		}
		b.CallFunction(target, blueprint, function, args...)

	case "CALL_METHOD":
		if len(stmt) < 3 {
			return fmt.Errorf("%w at %d: CALL_METHOD needs target and method", ErrSyntax, head.pos)
		}
		target, err := addressOperand(stmt[1])
		if err != nil {
			return err
		}
		method, err := stringOperand(stmt[2])
		if err != nil {
			return err
		}
		args, err := parseValues(stmt[3:])
		if err != nil {
			return err
		}
		b.CallMethod(target, method, args...)

	default:
		return fmt.Errorf("%w at %d: unsupported instruction %s", ErrSyntax, head.pos, head.text)
	}

	return b.err
}

func addressOperand(t token) (string, error) {
	if t.kind != tokCall || t.text != "Address" {
		return "", fmt.Errorf("%w at %d: expected Address(...)", ErrSyntax, t.pos)
	}
	return t.arg, nil
}

func stringOperand(t token) (string, error) {
	if t.kind != tokString {
		return "", fmt.Errorf("%w at %d: expected string", ErrSyntax, t.pos)
	}
	return t.text, nil
}

func parseValues(toks []token) ([]Value, error) {
	values := make([]Value, 0, len(toks))
	for _, t := range toks {
		v, err := parseValue(t)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func parseValue(t token) (Value, error) {
	switch t.kind {
	case tokString:
		return StringValue(t.text), nil
	case tokCall:
		switch t.text {
		case "Address":
			return Address(t.arg), nil
		case "Decimal":
			d, err := decimal.NewFromString(t.arg)
			if err != nil {
				return nil, fmt.Errorf("%w at %d: bad decimal %q", ErrSyntax, t.pos, t.arg)
			}
			return Decimal(d), nil
		case "Expression":
			return Expression(t.arg), nil
		}
	case tokWord:
		if digits, ok := strings.CutSuffix(t.text, "u32"); ok {
			n, err := strconv.ParseUint(digits, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w at %d: bad u32 %q", ErrSyntax, t.pos, t.text)
			}
			return U32(uint32(n)), nil
		}
	}
	return nil, fmt.Errorf("%w at %d: unsupported value %q", ErrSyntax, t.pos, t.text)
}

func tokenize(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == ';':
			toks = append(toks, token{kind: tokSemi, pos: i})
			i++

		case c == '"':
			s, n, err := readQuoted(src[i:])
			if err != nil {
				return nil, fmt.Errorf("%w at %d: %v", ErrSyntax, i, err)
			}
			toks = append(toks, token{kind: tokString, text: s, pos: i})
			i += n

		case isWordByte(c):
			start := i
			for i < len(src) && isWordByte(src[i]) {
				i++
			}
			word := src[start:i]
			if i < len(src) && src[i] == '(' {
				i++
				arg, n, err := readQuoted(src[i:])
				if err != nil {
					return nil, fmt.Errorf("%w at %d: %s(...): %v", ErrSyntax, start, word, err)
				}
				i += n
				if i >= len(src) || src[i] != ')' {
					return nil, fmt.Errorf("%w at %d: unterminated %s(", ErrSyntax, start, word)
				}
				i++
				toks = append(toks, token{kind: tokCall, text: word, arg: arg, pos: start})
				continue
			}
			toks = append(toks, token{kind: tokWord, text: word, pos: start})

		default:
			return nil, fmt.Errorf("%w at %d: unexpected %q", ErrSyntax, i, c)
		}
	}
	return toks, nil
}

func readQuoted(s string) (string, int, error) {
	if !strings.HasPrefix(s, `"`) {
		return "", 0, errors.New("expected quoted string")
	}
	q, err := strconv.QuotedPrefix(s)
	if err != nil {
		return "", 0, err
	}
	v, err := strconv.Unquote(q)
	if err != nil {
		return "", 0, err
	}
	return v, len(q), nil
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
