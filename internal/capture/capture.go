// Package capture turns a logged HTTP request capture (an arbitrary JSON
// document) into a Request that can be rendered as a cURL command.
//
// Captures come in two historical shapes, an Elasticsearch-style document
// with the request under "_source" and a Kibana-style document with the
// request under "fields". Every field is optional; only fields that are
// present are type-checked.
package capture

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is prepended to a capture's uri when it has no full url.
	DefaultBaseURL = "http://localhost:8080"

	// FallbackUnknown is used as the method when a capture carries none and
	// no assumption should be made.
	FallbackUnknown = "unknown method"
	// FallbackPOST assumes POST for captures without a method.
	FallbackPOST = "POST"
)

// ErrInvalidJSON is returned by Parse when the input is not valid JSON.
var ErrInvalidJSON = errors.New("capture: input is not valid JSON")

// Variant names one of the recognized capture shapes.
type Variant string

const (
	// VariantSource reads the request from "_source.request".
	VariantSource Variant = "source"
	// VariantFields reads the request from "fields.request" and unwraps
	// bodies of the form [{"data": ...}].
	VariantFields Variant = "fields"
)

// ParseVariant converts a configuration value into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantSource, "_source":
		return VariantSource, nil
	case VariantFields:
		return VariantFields, nil
	}
	return "", fmt.Errorf("unknown capture variant %q", s)
}

func (v Variant) rootKey() string {
	if v == VariantSource {
		return "_source"
	}
	return string(v)
}

func (v Variant) unwrapsBody() bool {
	return v == VariantFields
}

// Options controls how captures are interpreted.
type Options struct {
	// BaseURL is the origin used when the capture only has a uri.
	BaseURL string
	// MethodFallback is used when the capture has no method.
	MethodFallback string
	// Variants lists the enabled shapes in priority order.
	Variants []Variant
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		BaseURL:        DefaultBaseURL,
		MethodFallback: FallbackUnknown,
		Variants:       []Variant{VariantSource, VariantFields},
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.BaseURL == "" {
		o.BaseURL = def.BaseURL
	}
	if o.MethodFallback == "" {
		o.MethodFallback = def.MethodFallback
	}
	if len(o.Variants) == 0 {
		o.Variants = def.Variants
	}
	return o
}

// Request is the canonical request pulled out of a capture.
type Request struct {
	Method  string
	URL     string
	Headers Headers
	// Body is the raw JSON of the body, nil when the capture has none.
	Body json.RawMessage
	// Variant is the shape the capture matched.
	Variant Variant
}

// HasBody reports whether the request carries a body.
func (r *Request) HasBody() bool {
	return len(r.Body) > 0
}

// Parse parses raw text into a JSON value that Extract can inspect.
func Parse(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, ErrInvalidJSON
	}
	return gjson.ParseBytes(data), nil
}
