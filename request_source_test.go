package formval

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createJSONRequest creates a POST request with a JSON body, query
// parameters, headers and cookies.
func createJSONRequest() *http.Request {
	body := `{"user": {"email": "john@example.com"}, "tags": ["a", "b"]}`

	req := httptest.NewRequest(http.MethodPost, "http://example.com/signup?page=2&tag=x&tag=y",
		bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token123")
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "abc123"})

	return req
}

func createFormRequest() *http.Request {
	form := url.Values{}
	form.Set("username", "john")
	form.Add("toppings", "cheese")
	form.Add("toppings", "ham")

	req := httptest.NewRequest(http.MethodPost, "http://example.com/signup?username=fromquery",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req
}

func lookupRequest(t *testing.T, src *RequestSource, name, identifier string, multi bool) (any, bool) {
	t.Helper()
	v, found, err := src.Lookup(Binding{
		Name:       name,
		Identifier: identifier,
		Modifiers:  BindingModifiers{Multi: multi},
	})
	require.NoError(t, err)
	return v, found
}

func TestRequestSource(t *testing.T) {
	t.Run("JSONBody", func(t *testing.T) {
		src := NewRequestSource(createJSONRequest())

		v, found := lookupRequest(t, src, JSONBindingName, "user.email", false)
		assert.True(t, found)
		assert.Equal(t, "john@example.com", v)

		// the body is read once and kept
		v, found = lookupRequest(t, src, JSONBindingName, "tags", false)
		assert.True(t, found)
		assert.Equal(t, []any{"a", "b"}, v)
	})

	t.Run("Query", func(t *testing.T) {
		src := NewRequestSource(createJSONRequest())

		v, found := lookupRequest(t, src, QueryBindingName, "page", false)
		assert.True(t, found)
		assert.Equal(t, "2", v)

		v, found = lookupRequest(t, src, QueryBindingName, "tag", true)
		assert.True(t, found)
		assert.Equal(t, []string{"x", "y"}, v)

		_, found = lookupRequest(t, src, QueryBindingName, "missing", false)
		assert.False(t, found)
	})

	t.Run("Header", func(t *testing.T) {
		src := NewRequestSource(createJSONRequest())

		v, found := lookupRequest(t, src, HeaderBindingName, "authorization", false)
		assert.True(t, found)
		assert.Equal(t, "Bearer token123", v)

		_, found = lookupRequest(t, src, HeaderBindingName, "X-Missing", false)
		assert.False(t, found)
	})

	t.Run("Cookie", func(t *testing.T) {
		src := NewRequestSource(createJSONRequest())

		v, found := lookupRequest(t, src, CookieBindingName, "session_id", false)
		assert.True(t, found)
		assert.Equal(t, "abc123", v)

		v, found = lookupRequest(t, src, CookieBindingName, "session_id", true)
		assert.True(t, found)
		assert.Equal(t, []string{"abc123"}, v)

		_, found = lookupRequest(t, src, CookieBindingName, "missing", false)
		assert.False(t, found)
	})

	t.Run("Form", func(t *testing.T) {
		src := NewRequestSource(createFormRequest())

		v, found := lookupRequest(t, src, FormBindingName, "username", false)
		assert.True(t, found)
		assert.Equal(t, "john", v)

		v, found = lookupRequest(t, src, FormBindingName, "toppings", true)
		assert.True(t, found)
		assert.Equal(t, []string{"cheese", "ham"}, v)

		v, found = lookupRequest(t, src, QueryBindingName, "username", false)
		assert.True(t, found)
		assert.Equal(t, "fromquery", v)
	})

	t.Run("FormAfterJSON", func(t *testing.T) {
		src := NewRequestSource(createFormRequest())

		_, _, err := src.Lookup(Binding{Name: JSONBindingName, Identifier: "username"})
		assert.ErrorIs(t, err, ErrInvalidJSON)

		v, found := lookupRequest(t, src, FormBindingName, "username", false)
		assert.True(t, found)
		assert.Equal(t, "john", v)
	})

	t.Run("MultipartForm", func(t *testing.T) {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		require.NoError(t, writer.WriteField("email", "jane@example.com"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "http://example.com/signup", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())

		v, found := lookupRequest(t, NewRequestSource(req), FormBindingName, "email", false)
		assert.True(t, found)
		assert.Equal(t, "jane@example.com", v)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)

		_, found := lookupRequest(t, NewRequestSource(req), JSONBindingName, "user", false)
		assert.False(t, found)
	})

	t.Run("InvalidJSONBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/?email=q@example.com",
			strings.NewReader(`{"broken": `))
		src := NewRequestSource(req)

		_, _, err := src.Lookup(Binding{Name: JSONBindingName, Identifier: "email"})
		assert.ErrorIs(t, err, ErrInvalidJSON)

		fetch, err := Bind(src, "json:'email,omiterr' query:'email'")
		require.NoError(t, err)
		v, err := fetch(nil)
		require.NoError(t, err)
		assert.Equal(t, "q@example.com", v)
	})

	t.Run("UnknownBinding", func(t *testing.T) {
		src := NewRequestSource(createJSONRequest())
		_, _, err := src.Lookup(Binding{Name: KeyBindingName, Identifier: "a"})
		assert.ErrorIs(t, err, ErrUnallowedBindingName)
	})
}

func TestRequestSourceWithHandler(t *testing.T) {
	binder := NewRequestBinder()
	req := createJSONRequest()
	defer binder.Release(req)

	emailFetch, err := binder.Bind(req, "form:'email,omiterr' json:'user.email'")
	require.NoError(t, err)
	sessionFetch, err := binder.Bind(req, "cookie:'session_id,required'")
	require.NoError(t, err)

	rec := &recorder{}
	h := NewHandler(HandlerOpts{})
	require.NoError(t, h.AddField(EmailKind, &Config{
		Name:    "email",
		ID:      "email",
		Fetch:   emailFetch,
		Success: rec.success,
		Failure: rec.failure,
		Options: map[string]any{RequiredOption: true},
	}))
	require.NoError(t, h.AddField(TextKind, &Config{
		Name:    "session",
		ID:      "session",
		Fetch:   sessionFetch,
		Success: rec.success,
		Failure: rec.failure,
		Options: map[string]any{RequiredOption: true, MinOption: 6, MaxOption: 64},
	}))

	data, ok, err := h.GetData()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]any{
		"email":   "john@example.com",
		"session": "abc123",
	}, data)
}

func TestRequestBinder(t *testing.T) {
	binder := NewRequestBinder()
	req := createJSONRequest()

	first := binder.Source(req)
	assert.Same(t, first, binder.Source(req))

	other := binder.Source(createJSONRequest())
	assert.NotSame(t, first, other)

	binder.Release(req)
	assert.NotSame(t, first, binder.Source(req))
}
