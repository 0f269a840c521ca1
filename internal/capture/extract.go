package capture

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const jsonContentType = "application/json"

// Extract validates v against the enabled capture shapes and pulls out the
// request. A failed check returns a *ValidationError listing every problem
// found; no partial Request is returned.
func Extract(v gjson.Result, opts Options) (*Request, error) {
	opts = opts.withDefaults()

	if !v.IsObject() {
		return nil, &ValidationError{Problems: []string{
			fmt.Sprintf("expected an object at the top level, got %s", kindOf(v)),
		}}
	}

	variant := matchVariant(v, opts.Variants)
	rootKey := variant.rootKey()

	var c checker
	var request, context gjson.Result
	if root, ok := c.object(v.Get(rootKey), rootKey); ok {
		request, _ = c.object(root.Get("request"), rootKey+".request")
		context, _ = c.object(root.Get("context"), rootKey+".context")
	}

	reqPath := rootKey + ".request"
	url := c.str(request.Get("url"), reqPath+".url")
	uri := c.str(request.Get("uri"), reqPath+".uri")
	httpMethod := c.str(request.Get("http_method"), reqPath+".http_method")
	method := c.str(request.Get("method"), reqPath+".method")
	contextHeaders := c.headers(context.Get("headers"), rootKey+".context.headers")
	requestHeaders := c.headers(request.Get("headers"), reqPath+".headers")

	if len(c.problems) > 0 {
		return nil, &ValidationError{Problems: c.problems}
	}

	body := request.Get("body")
	if variant.unwrapsBody() {
		body = unwrapBody(body)
	}

	req := &Request{
		Method:  resolveMethod(httpMethod, method, opts.MethodFallback),
		URL:     resolveURL(url, uri, opts.BaseURL),
		Headers: mergeHeaders(contextHeaders, requestHeaders),
		Variant: variant,
	}
	if body.Exists() && body.Type != gjson.Null {
		req.Body = []byte(body.Raw)
	}
	if req.HasBody() && !req.Headers.HasFold("Content-Type") {
		req.Headers.Set("Content-Type", jsonContentType)
	}
	return req, nil
}

// matchVariant returns the first enabled variant whose root key is present,
// or the first enabled variant when none is.
func matchVariant(v gjson.Result, variants []Variant) Variant {
	for _, variant := range variants {
		if v.Get(variant.rootKey()).Exists() {
			return variant
		}
	}
	return variants[0]
}

func resolveMethod(httpMethod, method, fallback string) string {
	m := httpMethod
	if m == "" {
		m = method
	}
	if m == "" {
		return fallback
	}
	return strings.ToUpper(m)
}

func resolveURL(url, uri, baseURL string) string {
	if url != "" {
		return url
	}
	return baseURL + uri
}

// unwrapBody handles bodies logged as [{"data": <body>}, ...]. An empty
// envelope means no body.
func unwrapBody(body gjson.Result) gjson.Result {
	if !body.IsArray() {
		return body
	}
	first := body.Get("0")
	switch {
	case !first.Exists():
		return gjson.Result{}
	case first.IsObject():
		return first.Get("data")
	}
	return body
}

// checker collects structural problems so all of them are reported at once.
type checker struct {
	problems []string
}

func (c *checker) addf(format string, args ...any) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

// object returns v when it is an object. Absent and null values are not
// problems.
func (c *checker) object(v gjson.Result, path string) (gjson.Result, bool) {
	if !v.Exists() || v.Type == gjson.Null {
		return gjson.Result{}, false
	}
	if !v.IsObject() {
		c.addf("%s: expected object, got %s", path, kindOf(v))
		return gjson.Result{}, false
	}
	return v, true
}

func (c *checker) str(v gjson.Result, path string) string {
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	if v.Type != gjson.String {
		c.addf("%s: expected string, got %s", path, kindOf(v))
		return ""
	}
	return v.Str
}

// headers reads a header object in document order, dropping null and empty
// values. Known headers must be strings; other names also accept number and
// boolean literals, kept as written.
func (c *checker) headers(v gjson.Result, path string) Headers {
	obj, ok := c.object(v, path)
	if !ok {
		return nil
	}
	var hs Headers
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		switch value.Type {
		case gjson.Null:
		case gjson.String:
			if value.Str != "" {
				hs.Set(name, value.Str)
			}
		case gjson.Number, gjson.True, gjson.False:
			if isKnownHeader(name) {
				c.addf("%s.%s: expected string, got %s", path, name, kindOf(value))
				break
			}
			hs.Set(name, value.Raw)
		default:
			c.addf("%s.%s: expected string, got %s", path, name, kindOf(value))
		}
		return true
	})
	return hs
}

func kindOf(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		if !v.Exists() {
			return "nothing"
		}
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if v.IsArray() {
		return "array"
	}
	return "object"
}
