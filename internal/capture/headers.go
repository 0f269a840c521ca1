package capture

import "strings"

// Header is a single header name/value pair.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Headers is an ordered header list. Order is insertion order; replacing
// an existing name keeps its original position.
type Headers []Header

// Get returns the value stored under exactly name.
func (h Headers) Get(name string) (string, bool) {
	for _, hdr := range h {
		if hdr.Name == name {
			return hdr.Value, true
		}
	}
	return "", false
}

// HasFold reports whether a header matches name case-insensitively.
func (h Headers) HasFold(name string) bool {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return true
		}
	}
	return false
}

// Set replaces the value of an existing header or appends a new one.
func (h *Headers) Set(name, value string) {
	for i := range *h {
		if (*h)[i].Name == name {
			(*h)[i].Value = value
			return
		}
	}
	*h = append(*h, Header{Name: name, Value: value})
}

// mergeHeaders layers each source over the previous ones.
func mergeHeaders(sources ...Headers) Headers {
	var n int
	for _, src := range sources {
		n += len(src)
	}
	merged := make(Headers, 0, n)
	for _, src := range sources {
		for _, hdr := range src {
			merged.Set(hdr.Name, hdr.Value)
		}
	}
	return merged
}

// knownHeaders are the header names a capture is expected to carry. Their
// values must be strings.
var knownHeaders = map[string]struct{}{
	"customer-id":       {},
	"client-version":    {},
	"screen-id":         {},
	"scope":             {},
	"enc-session-key":   {},
	"client-platform":   {},
	"authorization":     {},
	"user-agent":        {},
	"signature":         {},
	"mav-api-key":       {},
	"device-id":         {},
	"mav-authorization": {},
	"content-type":      {},
	"request-id":        {},
	"user-id":           {},
	"channel-id":        {},
	"cc-customer-id":    {},
}

func isKnownHeader(name string) bool {
	_, ok := knownHeaders[strings.ToLower(name)]
	return ok
}
