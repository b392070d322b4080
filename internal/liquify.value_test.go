package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected bool
	}{
		{"nil is falsy", Nil(), false},
		{"false is falsy", Bool(false), false},
		{"true is truthy", Bool(true), true},
		{"zero int is truthy", Int(0), true},
		{"zero float is truthy", Float(0), true},
		{"empty string is truthy", Str(""), true},
		{"empty array is truthy", Array(), true},
		{"empty object is truthy", ObjectValue(NewObject()), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.Truthy())
		})
	}
}

func TestValue_Render(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"nil renders empty", Nil(), ""},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"integer", Int(42), "42"},
		{"negative integer", Int(-7), "-7"},
		{"integral float keeps decimal point", Float(1.0), "1.0"},
		{"fractional float", Float(2.5), "2.5"},
		{"string passes through", Str("hello"), "hello"},
		{"datetime canonical layout", Time(ts), "2024-03-15 10:30:00 +0000"},
		{"array concatenates elements", Array(Int(1), Str("x"), Int(2)), "1x2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.Render())
		})
	}
}

func TestValue_Equal_CrossNumeric(t *testing.T) {
	assert.True(t, Int(1).Equal(Float(1.0)))
	assert.True(t, Float(2.0).Equal(Int(2)))
	assert.False(t, Int(1).Equal(Str("1")))
	assert.False(t, Nil().Equal(Bool(false)))
	assert.True(t, Nil().Equal(Nil()))
	assert.True(t, Array(Int(1), Int(2)).Equal(Array(Int(1), Int(2))))
	assert.False(t, Array(Int(1)).Equal(Array(Int(1), Int(2))))
}

func TestValue_Compare(t *testing.T) {
	cmp, ok := Int(1).Compare(Float(1.5))
	require.True(t, ok)
	assert.Equal(t, -1, cmp)

	cmp, ok = Str("b").Compare(Str("a"))
	require.True(t, ok)
	assert.Equal(t, 1, cmp)

	_, ok = Str("a").Compare(Int(1))
	assert.False(t, ok)

	_, ok = Array().Compare(Array())
	assert.False(t, ok)
}

func TestValue_Contains(t *testing.T) {
	assert.True(t, Str("hello world").Contains(Str("world")))
	assert.False(t, Str("hello").Contains(Str("x")))
	assert.True(t, Array(Int(1), Int(2)).Contains(Int(2)))
	assert.True(t, Array(Int(1), Int(2)).Contains(Float(2.0)))

	obj := NewObject()
	obj.Set("name", Str("x"))
	assert.True(t, ObjectValue(obj).Contains(Str("name")))
	assert.False(t, ObjectValue(obj).Contains(Str("missing")))
}

func TestValue_Index_Permissive(t *testing.T) {
	arr := Array(Str("a"), Str("b"), Str("c"))

	assert.Equal(t, "a", arr.Index(0).Render())
	assert.Equal(t, "c", arr.Index(-1).Render())
	assert.True(t, arr.Index(10).IsNil())
	assert.True(t, arr.Index(-10).IsNil())
	assert.True(t, Str("abc").Index(0).IsNil())
}

func TestValue_Key_Permissive(t *testing.T) {
	obj := NewObject()
	obj.Set("name", Str("ada"))

	v := ObjectValue(obj)
	assert.Equal(t, "ada", v.Key("name").Render())
	assert.True(t, v.Key("missing").IsNil())
	assert.Equal(t, int64(1), v.Key("size").AsInt())

	arr := Array(Int(10), Int(20))
	assert.Equal(t, int64(10), arr.Key("first").AsInt())
	assert.Equal(t, int64(20), arr.Key("last").AsInt())
	assert.Equal(t, int64(2), arr.Key("size").AsInt())
}

func TestValue_ToInt(t *testing.T) {
	i, err := Int(5).ToInt()
	require.NoError(t, err)
	assert.Equal(t, int64(5), i)

	i, err = Float(3.9).ToInt()
	require.NoError(t, err)
	assert.Equal(t, int64(3), i)

	i, err = Str(" 12 ").ToInt()
	require.NoError(t, err)
	assert.Equal(t, int64(12), i)

	_, err = Array().ToInt()
	require.Error(t, err)
	var ce *CoerceError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindNameArray, ce.FromKind)
	assert.Equal(t, KindNameInt, ce.ToKind)
}

func TestObject_InsertionOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("z", Int(1))
	obj.Set("a", Int(2))
	obj.Set("m", Int(3))
	obj.Set("z", Int(9)) // overwrite keeps position

	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())
	v, ok := obj.Get("z")
	require.True(t, ok)
	assert.Equal(t, int64(9), v.AsInt())
}

func TestFromAny_RoundTrip(t *testing.T) {
	data := map[string]any{
		"name":  "ada",
		"age":   36,
		"score": 9.5,
		"tags":  []any{"x", "y"},
		"meta":  map[string]any{"ok": true},
	}

	v := FromAny(data)
	require.Equal(t, KindObject, v.Kind())

	obj := v.AsObject()
	name, _ := obj.Get("name")
	assert.Equal(t, "ada", name.AsString())
	age, _ := obj.Get("age")
	assert.Equal(t, int64(36), age.AsInt())

	back, ok := v.ToAny().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada", back["name"])
	assert.Equal(t, int64(36), back["age"])
}
