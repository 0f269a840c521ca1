// Package curlcmd renders an extracted capture as cURL commands.
package curlcmd

import (
	"fmt"
	"strings"

	"github.com/tidwall/pretty"

	"curlcraft/internal/capture"
)

// Options controls rendering.
type Options struct {
	// StrictEscaping rewrites embedded single quotes so every quoted
	// argument survives a POSIX shell. Off by default: values are only
	// wrapped in single quotes.
	StrictEscaping bool
}

// Command holds the two renderings of the same request.
type Command struct {
	Pretty     string `json:"pretty"`
	SingleLine string `json:"singleLine"`
}

var indentOptions = &pretty.Options{Indent: "  "}

// Render builds the pretty and single-line commands for req. Headers keep
// the order of req.Headers; the body keeps the key order of its source.
func Render(req *capture.Request, opts Options) Command {
	var multi, single strings.Builder

	start := fmt.Sprintf("curl --silent --location --request %s %s", req.Method, opts.quote(req.URL))
	multi.WriteString(start)
	single.WriteString(start)

	for _, hdr := range req.Headers {
		arg := "--header " + opts.quote(hdr.Name+": "+hdr.Value)
		single.WriteString(" " + arg)
		multi.WriteString(" \\\n" + arg)
	}

	if req.HasBody() {
		single.WriteString(" --data " + opts.quote(compactJSON(req.Body)))
		multi.WriteString(" \\\n--data " + opts.quote(indentJSON(req.Body)))
	}

	return Command{Pretty: multi.String(), SingleLine: single.String()}
}

func (o Options) quote(s string) string {
	if o.StrictEscaping {
		s = strings.ReplaceAll(s, "'", `'"'"'`)
	}
	return "'" + s + "'"
}

func compactJSON(raw []byte) string {
	return string(pretty.Ugly(raw))
}

// indentJSON lays out every object member and array element on its own
// line, two spaces per level.
func indentJSON(raw []byte) string {
	return strings.TrimRight(string(pretty.PrettyOptions(raw, indentOptions)), "\n")
}
