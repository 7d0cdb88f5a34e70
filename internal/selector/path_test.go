package selector

import (
	"errors"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name   string
		exprs  []string
		expect string
	}{
		{
			name:   "root",
			exprs:  []string{"$"},
			expect: "any",
		},
		{
			name:   "dotted",
			exprs:  []string{"$.store.bicycle.color"},
			expect: `{"store":{"bicycle":{"color":any}}}`,
		},
		{
			name:   "bracket_names",
			exprs:  []string{`$['store']["book"]`},
			expect: `{"store":{"book":any}}`,
		},
		{
			name:   "name_with_spaces",
			exprs:  []string{`$['first name']`},
			expect: `{"first name":any}`,
		},
		{
			name:   "array_items",
			exprs:  []string{"$.store.book[*].author"},
			expect: `{"store":{"book":[{"author":any}]}}`,
		},
		{
			name:   "union_of_names",
			exprs:  []string{`$.store['book', 'bicycle'].price`},
			expect: `{"store":{"book":{"price":any},"bicycle":{"price":any}}}`,
		},
		{
			name:   "merged_paths",
			exprs:  []string{"$.a.b", "$.a.c", "$.d[*]"},
			expect: `{"a":{"b":any,"c":any},"d":[any]}`,
		},
		{
			name:   "broader_path_wins",
			exprs:  []string{"$.a.b", "$.a"},
			expect: `{"a":any}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := ParsePath(tt.exprs...)
			if err != nil {
				t.Fatalf("ParsePath() error = %v", err)
			}
			if got := node.String(); got != tt.expect {
				t.Errorf("ParsePath() = %s, want %s", got, tt.expect)
			}
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	tests := []struct {
		name  string
		exprs []string
		err   error
	}{
		{name: "empty", exprs: []string{""}, err: ErrSyntax},
		{name: "missing_root", exprs: []string{"store.book"}, err: ErrSyntax},
		{name: "trailing_dot", exprs: []string{"$.a."}, err: ErrSyntax},
		{name: "unterminated_bracket", exprs: []string{"$['a'"}, err: ErrSyntax},
		{name: "descendant", exprs: []string{"$..author"}, err: ErrNotSupported},
		{name: "wildcard_member", exprs: []string{"$.store.*"}, err: ErrNotSupported},
		{name: "index", exprs: []string{"$.book[0]"}, err: ErrNotSupported},
		{name: "slice", exprs: []string{"$.book[0:2]"}, err: ErrNotSupported},
		{name: "filter", exprs: []string{"$.book[?@.price < 10]"}, err: ErrNotSupported},
		{name: "mixed_union", exprs: []string{"$['a', 1]"}, err: ErrNotSupported},
		{name: "object_then_array", exprs: []string{"$.a.b", "$.a[*]"}, err: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePath(tt.exprs...)
			if !errors.Is(err, tt.err) {
				t.Errorf("ParsePath() error = %v, want %v", err, tt.err)
			}
		})
	}
}
