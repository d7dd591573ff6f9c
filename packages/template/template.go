package template

import (
	"fmt"
	"html"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Kind selects how content is wrapped before it is stored or compared.
type Kind int

const (
	None Kind = iota
	HTML
	JSON
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case HTML:
		return "html"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Extension returns the file extension used for snapshots of this kind
// when the target name has none.
func (k Kind) Extension() string {
	switch k {
	case HTML:
		return ".html"
	case JSON:
		return ".json"
	default:
		return ".snap"
	}
}

// ParseKind parses a template name. The empty string means None.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "html":
		return HTML, nil
	case "json":
		return JSON, nil
	default:
		return None, fmt.Errorf("unknown template %q", s)
	}
}

// RenderError reports content that cannot be transformed under a template.
type RenderError struct {
	Kind Kind
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("FATAL: cannot apply %s template: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

const htmlShell = "<!DOCTYPE html>\n" +
	"<html style=\"height: 100%%;\"><head></head>" +
	"<body style=\"display: flex; flex-flow: column nowrap; " +
	"justify-content: center; align-items: center; height: 100%%;\">" +
	"<h2>%s</h2>\n" +
	"<!-- Content from unit test: -->\n" +
	"%s\n" +
	"<!-- End of included content -->\n" +
	"</body></html>"

var jsonOptions = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: true,
}

// Render applies the template of the given kind to content. label names the
// running test and appears as the page heading of HTML documents.
func Render(content string, kind Kind, label string) (string, error) {
	switch kind {
	case None:
		return content, nil
	case HTML:
		doc := fmt.Sprintf(htmlShell, html.EscapeString(label), content)
		out, err := FormatHTML(doc)
		if err != nil {
			return "", &RenderError{Kind: kind, Err: err}
		}
		return out, nil
	case JSON:
		if !gjson.Valid(content) {
			return "", &RenderError{Kind: kind, Err: fmt.Errorf("content is not valid JSON")}
		}
		return string(pretty.PrettyOptions([]byte(content), jsonOptions)), nil
	default:
		return "", &RenderError{Kind: kind, Err: fmt.Errorf("unknown template")}
	}
}
