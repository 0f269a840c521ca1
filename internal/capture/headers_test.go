package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadersSetKeepsPosition(t *testing.T) {
	var h Headers
	h.Set("a", "1")
	h.Set("b", "2")
	h.Set("a", "3")

	assert.Equal(t, Headers{{Name: "a", Value: "3"}, {Name: "b", Value: "2"}}, h)
}

func TestHeadersSetIsCaseSensitive(t *testing.T) {
	var h Headers
	h.Set("Scope", "1")
	h.Set("scope", "2")

	assert.Len(t, h, 2)
	assert.True(t, h.HasFold("SCOPE"))
	_, ok := h.Get("SCOPE")
	assert.False(t, ok)
}

func TestMergeHeaders(t *testing.T) {
	ctx := Headers{{Name: "x", Value: "ctx"}, {Name: "y", Value: "ctx"}}
	req := Headers{{Name: "y", Value: "req"}, {Name: "z", Value: "req"}}

	merged := mergeHeaders(ctx, req)

	assert.Equal(t, Headers{
		{Name: "x", Value: "ctx"},
		{Name: "y", Value: "req"},
		{Name: "z", Value: "req"},
	}, merged)
	assert.Equal(t, "ctx", ctx[1].Value, "sources are not modified")
}

func TestIsKnownHeader(t *testing.T) {
	assert.True(t, isKnownHeader("Authorization"))
	assert.True(t, isKnownHeader("mav-api-key"))
	assert.False(t, isKnownHeader("x-forwarded-for"))
}
