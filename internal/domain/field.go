package domain

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// AnyValue is the remote API's "every unit" marker. It only appears in wire
// lists; inside the SDK a field is a Field.
const AnyValue = -1

type fieldKind uint8

const (
	fieldAny fieldKind = iota
	fieldOne
	fieldMany
)

// Field is one column of a schedule: every unit, a single value, or a list.
// The zero value is Any.
type Field struct {
	kind   fieldKind
	values []int
}

func Any() Field {
	return Field{kind: fieldAny}
}

func One(v int) Field {
	return Field{kind: fieldOne, values: []int{v}}
}

// Many returns a list field. An empty list is Any, a single value is One.
func Many(vs ...int) Field {
	switch len(vs) {
	case 0:
		return Any()
	case 1:
		return One(vs[0])
	}
	return Field{kind: fieldMany, values: slices.Clone(vs)}
}

// FieldFromWire parses a remote list. Empty lists and lists holding the
// any-marker are Any.
func FieldFromWire(vs []int) Field {
	if len(vs) == 0 || slices.Contains(vs, AnyValue) {
		return Any()
	}
	return Many(vs...)
}

func (f Field) IsAny() bool { return f.kind == fieldAny }

// Values returns the concrete values, nil for Any.
func (f Field) Values() []int {
	if f.kind == fieldAny {
		return nil
	}
	return slices.Clone(f.values)
}

// Wire returns the remote list form: [-1] for Any.
func (f Field) Wire() []int {
	if f.kind == fieldAny {
		return []int{AnyValue}
	}
	return slices.Clone(f.values)
}

// Contains reports whether v is selected by f. Any selects everything.
func (f Field) Contains(v int) bool {
	return f.kind == fieldAny || slices.Contains(f.values, v)
}

func (f Field) Equal(o Field) bool {
	return f.kind == o.kind && slices.Equal(f.values, o.values)
}

// String renders the field as a cron column: "*" or a comma list.
func (f Field) String() string {
	if f.kind == fieldAny {
		return "*"
	}
	parts := make([]string, len(f.values))
	for i, v := range f.values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Wire())
}

func (f *Field) UnmarshalJSON(b []byte) error {
	var vs []int
	if err := json.Unmarshal(b, &vs); err != nil {
		return err
	}
	*f = FieldFromWire(vs)
	return nil
}
