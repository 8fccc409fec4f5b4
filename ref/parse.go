package ref

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/chazu/metaref/name"
)

// methodPattern captures a mandatory "Name(...)" prefix and an optional
// trailing "[...]" generic group.
var methodPattern = regexp.MustCompile(`^(.*?\(.*\))(\[.*\])?$`)

var errUnbalanced = errors.New("unbalanced brackets")

// Parser turns canonical text back into references. A Parser with a name
// table interns every name it produces, so references parsed from many
// metadata records share their strings. The zero Parser does not intern.
//
// A Parser is safe for concurrent use.
type Parser struct {
	names *name.Table
}

// NewParser returns a parser that interns names into names.
func NewParser(names *name.Table) *Parser {
	return &Parser{names: names}
}

var plain = &Parser{}

// ParseType parses the canonical text of a type reference.
func ParseType(s string) (TypeRef, error) {
	t, err := plain.parseType(s)
	if err != nil {
		return TypeRef{}, withCaller(err, 1)
	}
	return t, nil
}

// ParseMethod parses the canonical text of a method reference.
func ParseMethod(s string) (MethodRef, error) {
	m, err := plain.parseMethod(s)
	if err != nil {
		return MethodRef{}, withCaller(err, 1)
	}
	return m, nil
}

// ParseType parses the canonical text of a type reference.
func (p *Parser) ParseType(s string) (TypeRef, error) {
	t, err := p.parseType(s)
	if err != nil {
		return TypeRef{}, withCaller(err, 1)
	}
	return t, nil
}

// ParseMethod parses the canonical text of a method reference.
func (p *Parser) ParseMethod(s string) (MethodRef, error) {
	m, err := p.parseMethod(s)
	if err != nil {
		return MethodRef{}, withCaller(err, 1)
	}
	return m, nil
}

func (p *Parser) intern(s string) name.Name {
	if p == nil || p.names == nil {
		return name.New(s)
	}
	return p.names.Intern(s)
}

func (p *Parser) parseType(s string) (TypeRef, *ParseError) {
	if param, ok := strings.CutPrefix(s, "@"); ok {
		return Generic(p.intern(param)), nil
	}
	if !strings.HasPrefix(s, "[") {
		return TypeRef{}, typeError(s, nil)
	}
	assembly, rest, ok := strings.Cut(s[1:], "]")
	if !ok {
		return TypeRef{}, typeError(s, errors.New("missing ']' after assembly"))
	}

	open := strings.IndexByte(rest, '[')
	if open < 0 {
		return Single(p.intern(assembly), p.intern(rest)), nil
	}
	if !strings.HasSuffix(rest, "]") {
		return TypeRef{}, typeError(s, errors.New("type arguments not closed"))
	}

	vars, err := p.parseTypeVars(rest[open+1 : len(rest)-1])
	if err != nil {
		return TypeRef{}, typeError(s, err)
	}
	return WithGeneric(p.intern(assembly), p.intern(rest[:open]), vars), nil
}

func (p *Parser) parseMethod(s string) (MethodRef, *ParseError) {
	loc := methodPattern.FindStringSubmatchIndex(s)
	if loc == nil {
		return MethodRef{}, methodError(s, nil)
	}
	signature := p.intern(s[loc[2]:loc[3]])
	if loc[4] < 0 {
		return Method(signature), nil
	}

	group := s[loc[4]+1 : loc[5]-1]
	vars, err := p.parseTypeVars(group)
	if err != nil {
		return MethodRef{}, methodError(s, err)
	}
	return GenericMethod(signature, vars), nil
}

// parseTypeVars parses "p1:t1|p2:t2". Separators are recognized only
// outside brackets, so nested instantiations may carry their own lists.
func (p *Parser) parseTypeVars(list string) (*TypeVars, error) {
	segments, err := splitTopLevel(list, '|')
	if err != nil {
		return nil, err
	}
	pairs := make([]Pair, 0, len(segments))
	for _, seg := range segments {
		param, text, ok := strings.Cut(seg, ":")
		if !ok {
			return nil, fmt.Errorf("missing ':' in %q", seg)
		}
		t, perr := p.parseType(text)
		if perr != nil {
			return nil, perr
		}
		pairs = append(pairs, Pair{Name: p.intern(param), Type: t})
	}
	return NewTypeVars(pairs...), nil
}

// splitTopLevel splits s on sep wherever sep is not enclosed in brackets.
func splitTopLevel(s string, sep byte) ([]string, error) {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, errUnbalanced
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, errUnbalanced
	}
	return append(parts, s[start:]), nil
}
