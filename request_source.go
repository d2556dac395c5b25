package formval

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

const (
	ContentTypeMultipartForm = "multipart/form-data"

	// maxMultipartMemory bounds the in-memory part of a parsed multipart body.
	maxMultipartMemory = 32 << 20
)

// RequestSource serves values from an *http.Request using the "form",
// "query", "header", "cookie" and "json" bindings.
//
// Each part of the request is parsed at most once, on first use, so any
// number of fields can share one RequestSource. A "json" lookup leaves the
// request body readable, a "form" lookup consumes it.
//
// Form, query and header values are returned as a string (the first
// value) unless the binding is marked multi, in which case every value is
// returned as a []string. Checkbox groups should use multi.
type RequestSource struct {
	request *http.Request

	// Cached JSON body to avoid repeated parsing
	jsonBody  gjson.Result
	bodyOnce  sync.Once
	bodyError error

	formOnce  sync.Once
	formError error

	// Cache query parameters to avoid repeated URL.Query() calls
	queryParams map[string][]string
	queryOnce   sync.Once

	cookies     map[string]*http.Cookie
	cookiesOnce sync.Once
}

var _ Source = (*RequestSource)(nil)

func NewRequestSource(r *http.Request) *RequestSource {
	return &RequestSource{request: r}
}

func (rs *RequestSource) BindingNames() []string {
	return []string{FormBindingName, QueryBindingName, HeaderBindingName, CookieBindingName, JSONBindingName}
}

func (rs *RequestSource) Lookup(binding Binding) (any, bool, error) {
	switch binding.Name {
	case FormBindingName:
		return rs.getFormValue(binding)
	case QueryBindingName:
		return rs.getQueryValue(binding)
	case HeaderBindingName:
		return rs.getHeaderValue(binding)
	case CookieBindingName:
		return rs.getCookieValue(binding)
	case JSONBindingName:
		return rs.getJSONValue(binding)
	default:
		return nil, false, fmt.Errorf("%w: %s", ErrUnallowedBindingName, binding.Name)
	}
}

func (rs *RequestSource) getFormValue(binding Binding) (any, bool, error) {
	rs.formOnce.Do(func() {
		if isMultipart(rs.request) {
			rs.formError = rs.request.ParseMultipartForm(maxMultipartMemory)
		} else {
			rs.formError = rs.request.ParseForm()
		}
		if rs.formError != nil {
			rs.formError = fmt.Errorf("failed to parse request form: %w", rs.formError)
		}
	})
	if rs.formError != nil {
		return nil, false, rs.formError
	}

	return pickValues(rs.request.PostForm[binding.Identifier], binding)
}

func (rs *RequestSource) getQueryValue(binding Binding) (any, bool, error) {
	rs.queryOnce.Do(func() {
		rs.queryParams = rs.request.URL.Query()
	})

	return pickValues(rs.queryParams[binding.Identifier], binding)
}

func (rs *RequestSource) getHeaderValue(binding Binding) (any, bool, error) {
	return pickValues(rs.request.Header.Values(binding.Identifier), binding)
}

func (rs *RequestSource) getCookieValue(binding Binding) (any, bool, error) {
	rs.cookiesOnce.Do(func() {
		rs.cookies = make(map[string]*http.Cookie)
		for _, cookie := range rs.request.Cookies() {
			rs.cookies[cookie.Name] = cookie
		}
	})

	cookie, exists := rs.cookies[binding.Identifier]
	if !exists {
		return nil, false, nil
	}

	if binding.Modifiers.Multi {
		return []string{cookie.Value}, true, nil
	}
	return cookie.Value, true, nil
}

func (rs *RequestSource) getJSONValue(binding Binding) (any, bool, error) {
	body, err := rs.getJSONBody()
	if err != nil {
		return nil, false, err
	}
	return lookupJSON(body, binding)
}

func (rs *RequestSource) getJSONBody() (gjson.Result, error) {
	rs.bodyOnce.Do(func() {
		if rs.request.Body == nil || rs.request.ContentLength == 0 {
			rs.jsonBody = gjson.Parse("{}")
			return
		}

		body, err := io.ReadAll(rs.request.Body)
		if err != nil {
			rs.bodyError = fmt.Errorf("failed to read request body: %w", err)
			return
		}
		// put the body back for a later form lookup
		rs.request.Body = io.NopCloser(bytes.NewReader(body))

		switch {
		case len(body) == 0:
			rs.jsonBody = gjson.Parse("{}")
		case !gjson.ValidBytes(body):
			rs.bodyError = ErrInvalidJSON
		default:
			rs.jsonBody = gjson.ParseBytes(body)
		}
	})

	return rs.jsonBody, rs.bodyError
}

func pickValues(values []string, binding Binding) (any, bool, error) {
	if len(values) == 0 {
		return nil, false, nil
	}

	if binding.Modifiers.Multi {
		return values, true, nil
	}
	return values[0], true, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, ContentTypeMultipartForm)
}
