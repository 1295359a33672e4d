package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestBoolValueReturnsSharedSingletons(t *testing.T) {
	assert.Same(t, True, BoolValue(true))
	assert.Same(t, False, BoolValue(false))
}

func TestIsTruthy(t *testing.T) {
	assert.True(t, IsTruthy(True))
	assert.False(t, IsTruthy(False))
	assert.False(t, IsTruthy(&Number{Value: 1}))
}

func TestDerefFollowsCellChainAndUninitializedIsUnit(t *testing.T) {
	inner := &Cell{Value: &Number{Value: 3}}
	outer := &Cell{Value: inner}
	assert.Equal(t, &Number{Value: 3}, Deref(outer))

	empty := &Cell{}
	assert.Same(t, TheUnit, Deref(empty))
}

func TestDerefNonCellIsIdentity(t *testing.T) {
	n := &Number{Value: 1}
	assert.Same(t, Value(n), Deref(n))
}

func TestGetValueTypeName(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"number", &Number{Value: 1}, "Float"},
		{"string", &String{Value: "x"}, "String"},
		{"unit", TheUnit, "Unit"},
		{"list", &List{}, "List"},
		{"tuple", &Tuple{}, "Tuple"},
		{"record", &Record{Fields: map[string]Value{}}, "Record"},
		{"constructor", &Constructor{TypeName_: "Option", Name: "Some"}, "Option"},
		{"function", &Function{}, "Function"},
		{"native", &Native{}, "Function"},
		{"trait function", &TraitFunction{}, "Unknown"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, GetValueTypeName(c.v))
		})
	}
}

func TestGetValueTypeNameDereferencesCells(t *testing.T) {
	cell := &Cell{Value: &String{Value: "hi"}}
	assert.Equal(t, "String", GetValueTypeName(cell))
}

func TestConstructorStringFormatsArgsSpaceSeparated(t *testing.T) {
	c := &Constructor{Name: "Some", Args: []Value{&Number{Value: 1}}}
	assert.Equal(t, "Some 1", c.String())

	none := &Constructor{Name: "None"}
	assert.Equal(t, "None", none.String())
}

func TestListStringFormatsBrackets(t *testing.T) {
	l := &List{Elements: []Value{&Number{Value: 1}, &Number{Value: 2}}}
	assert.Equal(t, "[1, 2]", l.String())
}

func TestTupleStringFormatsBraces(t *testing.T) {
	tup := &Tuple{Elements: []Value{&Number{Value: 1}, &String{Value: "a"}}}
	assert.Equal(t, "{1, a}", tup.String())
}

func TestCellTypeNameOfUninitializedIsUnit(t *testing.T) {
	c := &Cell{}
	assert.Equal(t, "Unit", c.TypeName())
	assert.Equal(t, "<uninitialized>", c.String())
}

// evalList/evalTuple/evalRecord build nested Value trees from scratch on
// every evaluation; go-cmp's diff output pinpoints exactly which element
// mismatches when these grow past a couple of fields, unlike a reflect.
// DeepEqual yes/no.
func TestRecordFieldsDeepEqualityViaGoCmp(t *testing.T) {
	got := &Record{Fields: map[string]Value{
		"name": &String{Value: "ok"},
		"age":  &Number{Value: 3},
	}}
	want := &Record{Fields: map[string]Value{
		"name": &String{Value: "ok"},
		"age":  &Number{Value: 3},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}
