package formval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocument = `{
	"user": {"name": "bob", "email": "bob@example.com", "age": 42},
	"tags": ["a", "b"],
	"nickname": null,
	"blank": ""
}`

func TestJSONSource(t *testing.T) {
	src, err := NewJSONStringSource(testDocument)
	require.NoError(t, err)

	lookup := func(t *testing.T, identifier string, modifiers BindingModifiers) (any, bool) {
		t.Helper()
		v, found, err := src.Lookup(Binding{Name: JSONBindingName, Identifier: identifier, Modifiers: modifiers})
		require.NoError(t, err)
		return v, found
	}

	t.Run("NestedString", func(t *testing.T) {
		v, found := lookup(t, "user.email", BindingModifiers{})
		assert.True(t, found)
		assert.Equal(t, "bob@example.com", v)
	})

	t.Run("Number", func(t *testing.T) {
		v, found := lookup(t, "user.age", BindingModifiers{})
		assert.True(t, found)
		assert.Equal(t, float64(42), v)
	})

	t.Run("Array", func(t *testing.T) {
		v, found := lookup(t, "tags", BindingModifiers{})
		assert.True(t, found)
		assert.Equal(t, []any{"a", "b"}, v)
	})

	t.Run("MultiWrapsScalar", func(t *testing.T) {
		v, found := lookup(t, "user.name", BindingModifiers{Multi: true})
		assert.True(t, found)
		assert.Equal(t, []any{"bob"}, v)
	})

	t.Run("NullIsMissing", func(t *testing.T) {
		_, found := lookup(t, "nickname", BindingModifiers{})
		assert.False(t, found)
	})

	t.Run("Missing", func(t *testing.T) {
		_, found := lookup(t, "user.phone", BindingModifiers{})
		assert.False(t, found)
	})

	t.Run("EmptyStringIsFound", func(t *testing.T) {
		v, found := lookup(t, "blank", BindingModifiers{})
		assert.True(t, found)
		assert.Equal(t, "", v)
	})

	t.Run("WrongBinding", func(t *testing.T) {
		_, _, err := src.Lookup(Binding{Name: FormBindingName, Identifier: "user"})
		assert.ErrorIs(t, err, ErrUnallowedBindingName)
	})

	t.Run("Bind", func(t *testing.T) {
		fetch, err := Bind(src, "json:'nickname' json:'blank,omitempty' json:'user.name'")
		require.NoError(t, err)

		v, err := fetch(nil)
		require.NoError(t, err)
		assert.Equal(t, "bob", v)
	})
}

func TestNewJSONSource(t *testing.T) {
	_, err := NewJSONSource([]byte(`{"a":`))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = NewJSONStringSource("not json")
	assert.ErrorIs(t, err, ErrInvalidJSON)

	src, err := NewJSONSource([]byte(`{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, []string{JSONBindingName}, src.BindingNames())
}
