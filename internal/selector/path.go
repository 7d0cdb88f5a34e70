package selector

import (
	"fmt"
	"strings"

	"github.com/theory/jsonpath"
)

// ParsePath compiles JSONPath expressions into one tree. Each expression
// keeps the value it points at; several expressions merge.
func ParsePath(exprs ...string) (*Node, error) {
	b := New()
	for _, expr := range exprs {
		if err := b.Path(expr); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// Path adds the value addressed by a JSONPath expression to the selection.
//
// Supported: $, .name, ['name'], ["name"], unions of quoted names and [*]
// for the items of an array. Descendants, wildcard members, indexes, slices
// and filters need the document itself to decide and are rejected with
// ErrNotSupported.
func (b *Builder) Path(expr string) error {
	if _, err := jsonpath.Parse(expr); err != nil {
		return fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	segs, err := compile(expr)
	if err != nil {
		return err
	}

	frontier := []*Builder{b.root}
	for _, seg := range segs {
		next := make([]*Builder, 0, len(frontier)*max(len(seg.names), 1))
		for _, pos := range frontier {
			if seg.items {
				next = append(next, pos.Array())
				continue
			}
			obj := pos.Object()
			for _, name := range seg.names {
				next = append(next, obj.Prop(name))
			}
		}
		frontier = next
	}

	for _, pos := range frontier {
		pos.Any()
	}
	return b.root.err
}

// segment is one step of a compiled path: either array items or a set of
// property names.
type segment struct {
	items bool
	names []string
}

func compile(expr string) ([]segment, error) {
	if err := validateExpression(expr); err != nil {
		return nil, err
	}

	i := 1 // after '$'
	var segs []segment

	for i < len(expr) {
		seg, next, err := parseSegment(expr, i)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
		i = next
	}

	return segs, nil
}

func validateExpression(expr string) error {
	if expr == "" {
		return fmt.Errorf("%w: expression cannot be empty", ErrSyntax)
	}
	if expr[0] != '$' || (len(expr) > 1 && expr[1] != '.' && expr[1] != '[') {
		return fmt.Errorf("%w: expression must start with '$', '$.', or '$['", ErrSyntax)
	}
	return nil
}

func parseSegment(expr string, i int) (segment, int, error) {
	switch expr[i] {
	case '.':
		return parseDotSegment(expr, i)
	case '[':
		return parseBracketSegment(expr, i)
	}

	return segment{}, i, fmt.Errorf("%w: unexpected token '%c' at position %d, expected '.' or '['", ErrSyntax, expr[i], i)
}

func parseDotSegment(expr string, i int) (segment, int, error) {
	i++ // consume '.'
	if i >= len(expr) {
		return segment{}, i, fmt.Errorf("%w: path segment cannot end with '.'", ErrSyntax)
	}

	switch expr[i] {
	case '.':
		return segment{}, i, fmt.Errorf("%w: descendant segment '..' at position %d", ErrNotSupported, i-1)
	case '*':
		return segment{}, i, fmt.Errorf("%w: wildcard member '.*' at position %d", ErrNotSupported, i-1)
	}

	name, next, err := parseName(expr, i)
	if err != nil {
		return segment{}, i, err
	}
	return segment{names: []string{name}}, next, nil
}

func parseName(expr string, i int) (string, int, error) {
	start := i
	for i < len(expr) && idRune(expr[i]) {
		i++
	}
	if start == i {
		return "", i, fmt.Errorf("%w: name selector cannot be empty after '.'", ErrSyntax)
	}
	return expr[start:i], i, nil
}

func parseBracketSegment(expr string, i int) (segment, int, error) {
	i++ // consume '['
	i = skipBlank(expr, i)
	if i >= len(expr) {
		return segment{}, i, fmt.Errorf("%w: unterminated bracket selector, missing ']'", ErrSyntax)
	}

	if expr[i] == '*' {
		i = skipBlank(expr, i+1)
		if i >= len(expr) || expr[i] != ']' {
			return segment{}, i, fmt.Errorf("%w: '*' must be the only selector in brackets", ErrNotSupported)
		}
		return segment{items: true}, i + 1, nil
	}

	var seg segment
	for {
		if expr[i] != '\'' && expr[i] != '"' {
			return segment{}, i, fmt.Errorf("%w: selector at position %d; only quoted names and '*' are supported", ErrNotSupported, i)
		}

		name, next, err := parseQuotedName(expr, i)
		if err != nil {
			return segment{}, i, err
		}
		seg.names = append(seg.names, name)

		i = skipBlank(expr, next)
		if i >= len(expr) {
			return segment{}, i, fmt.Errorf("%w: unterminated bracket selector, missing ']'", ErrSyntax)
		}
		switch expr[i] {
		case ']':
			return seg, i + 1, nil
		case ',':
			i = skipBlank(expr, i+1)
			if i >= len(expr) {
				return segment{}, i, fmt.Errorf("%w: unterminated bracket selector, missing ']'", ErrSyntax)
			}
		default:
			return segment{}, i, fmt.Errorf("%w: unexpected '%c' at position %d in bracket selector", ErrSyntax, expr[i], i)
		}
	}
}

func parseQuotedName(expr string, i int) (string, int, error) {
	quote := expr[i]
	end := strings.IndexByte(expr[i+1:], quote)
	if end == -1 {
		return "", i, fmt.Errorf("%w: unterminated quoted name at position %d", ErrSyntax, i)
	}

	name := expr[i+1 : i+1+end]
	if strings.IndexByte(name, '\\') >= 0 {
		return "", i, fmt.Errorf("%w: escape sequences in quoted name %q", ErrNotSupported, name)
	}
	return name, i + end + 2, nil
}

func skipBlank(expr string, i int) int {
	for i < len(expr) && (expr[i] == ' ' || expr[i] == '\t' || expr[i] == '\n' || expr[i] == '\r') {
		i++
	}
	return i
}

func idRune(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' || b >= 0x80
}
