package filter

import "strings"

// Mode selects how a filter value is compared to a field.
type Mode int

const (
	// Exact is case-sensitive equality, used for enum-like fields.
	Exact Mode = iota
	// Contains is case-insensitive substring containment, used for free text.
	Contains
)

// Set maps a field name to the expected value. An empty value means the
// field is unconstrained.
type Set map[string]string

// Active returns the constraints that actually narrow a result.
func (s Set) Active() Set {
	active := make(Set, len(s))
	for k, v := range s {
		if strings.TrimSpace(v) != "" {
			active[k] = v
		}
	}
	return active
}

// Field describes how to read one filterable field of T.
// Exactly one of Get or GetAll is set; with GetAll the item matches when any
// of the values matches.
type Field[T any] struct {
	Get    func(T) string
	GetAll func(T) []string
	Mode   Mode
}

// Schema lists the filterable fields of T by name.
type Schema[T any] map[string]Field[T]

// Apply keeps the items that satisfy every active constraint in set.
// Order is preserved; keys missing from the schema are ignored.
func (s Schema[T]) Apply(items []T, set Set) []T {
	active := set.Active()

	var checks []check[T]
	for key, want := range active {
		field, ok := s[key]
		if !ok {
			continue
		}
		checks = append(checks, check[T]{field: field, want: want})
	}
	if len(checks) == 0 {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, checks) {
			out = append(out, item)
		}
	}
	return out
}

type check[T any] struct {
	field Field[T]
	want  string
}

func matchesAll[T any](item T, checks []check[T]) bool {
	for _, c := range checks {
		if !c.matches(item) {
			return false
		}
	}
	return true
}

func (c check[T]) matches(item T) bool {
	if c.field.GetAll != nil {
		for _, v := range c.field.GetAll(item) {
			if compare(c.field.Mode, v, c.want) {
				return true
			}
		}
		return false
	}
	if c.field.Get == nil {
		return true
	}
	return compare(c.field.Mode, c.field.Get(item), c.want)
}

func compare(mode Mode, got, want string) bool {
	if mode == Contains {
		return strings.Contains(strings.ToLower(got), strings.ToLower(strings.TrimSpace(want)))
	}
	return got == want
}

// Exactly is a shorthand for an Exact field.
func Exactly[T any](get func(T) string) Field[T] {
	return Field[T]{Get: get, Mode: Exact}
}

// Substring is a shorthand for a Contains field.
func Substring[T any](get func(T) string) Field[T] {
	return Field[T]{Get: get, Mode: Contains}
}

// AnySubstring matches when any of the values returned by get contains the
// filter value.
func AnySubstring[T any](get func(T) []string) Field[T] {
	return Field[T]{GetAll: get, Mode: Contains}
}
