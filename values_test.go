package formval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAbsent(t *testing.T) {
	var nilPtr *string
	var nilSlice []any
	var nilMap map[string]any

	assert.True(t, IsAbsent(nil))
	assert.True(t, IsAbsent(nilPtr))
	assert.True(t, IsAbsent(nilSlice))
	assert.True(t, IsAbsent(nilMap))

	assert.False(t, IsAbsent(""))
	assert.False(t, IsAbsent(0))
	assert.False(t, IsAbsent([]any{}))
}

func TestIsPresent(t *testing.T) {
	empty := ""
	text := "x"

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, false},
		{"empty string", "", false},
		{"pointer to empty string", &empty, false},
		{"false", false, false},
		{"int zero", 0, false},
		{"uint zero", uint8(0), false},
		{"float zero", 0.0, false},
		{"NaN", math.NaN(), false},
		{"text", "x", true},
		{"pointer to text", &text, true},
		{"true", true, true},
		{"negative", -1, true},
		{"empty slice", []any{}, true},
		{"empty map", map[string]any{}, true},
		{"struct", struct{}{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPresent(tt.v))
		})
	}
}

func TestLengthOf(t *testing.T) {
	assert.Equal(t, 0, lengthOf(nil))
	assert.Equal(t, 5, lengthOf("héllo"))
	assert.Equal(t, 3, lengthOf([]string{"a", "b", "c"}))
	assert.Equal(t, 2, lengthOf(map[string]int{"a": 1, "b": 2}))
	assert.Equal(t, 4, lengthOf(1234))
	assert.Equal(t, 4, lengthOf(true))
}

func TestAsSequence(t *testing.T) {
	items, ok := asSequence([]any{"a", 1})
	require.True(t, ok)
	assert.Equal(t, []any{"a", 1}, items)

	items, ok = asSequence([]string{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, items)

	items, ok = asSequence([2]int{1, 2})
	require.True(t, ok)
	assert.Equal(t, []any{1, 2}, items)

	_, ok = asSequence("ab")
	assert.False(t, ok)

	_, ok = asSequence(nil)
	assert.False(t, ok)
}

func TestToBound(t *testing.T) {
	tests := []struct {
		in      any
		want    int
		wantErr bool
	}{
		{10, 10, false},
		{int64(7), 7, false},
		{10.9, 10, false},
		{"12", 12, false},
		{" 08 ", 8, false},
		{"ten", 0, true},
		{"", 0, true},
		{[]int{1}, 0, true},
	}

	for _, tt := range tests {
		got, err := toBound(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidBound, "%v", tt.in)
			continue
		}
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestContainsValue(t *testing.T) {
	items := []any{"a", 1, nil}

	assert.True(t, containsValue(items, "a"))
	assert.True(t, containsValue(items, 1))
	assert.True(t, containsValue(items, nil))
	assert.False(t, containsValue(items, "b"))

	// numbers compare by value across types
	assert.True(t, containsValue(items, 1.0))
	assert.True(t, containsValue(items, uint8(1)))
	assert.True(t, containsValue([]any{27.0}, 27))
	assert.False(t, containsValue(items, 1.5))
	assert.False(t, containsValue(items, "1"))
	assert.False(t, containsValue([]any{1}, true))
}
