package template

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Elements whose end tag may be omitted in HTML.
var optionalEndElements = map[string]bool{
	"p": true, "li": true, "dt": true, "dd": true, "option": true,
	"optgroup": true, "tr": true, "td": true, "th": true, "thead": true,
	"tbody": true, "tfoot": true, "colgroup": true, "rt": true, "rp": true,
}

var rawTextElements = map[string]bool{
	"script": true, "style": true,
}

// Elements whose text is kept exactly as written.
var preformattedElements = map[string]bool{
	"pre": true, "textarea": true,
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "\"", "&quot;")
)

type formatter struct {
	out   strings.Builder
	stack []string
}

// FormatHTML rewrites markup into a canonical, line-oriented form: one node
// per line, two-space indentation, double-quoted attributes and collapsed
// text whitespace. It fails on closing tags that match no open element and on
// elements still open at the end of the document.
func FormatHTML(markup string) (string, error) {
	f := &formatter{}
	z := html.NewTokenizer(strings.NewReader(markup))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return "", z.Err()
		}

		tok := z.Token()
		switch tt {
		case html.DoctypeToken:
			f.line("<!DOCTYPE " + tok.Data + ">")
		case html.CommentToken:
			f.line("<!-- " + strings.TrimSpace(tok.Data) + " -->")
		case html.TextToken:
			f.text(tok.Data)
		case html.StartTagToken:
			if optionalEndElements[tok.Data] && f.top() == tok.Data {
				f.pop()
			}
			f.openTag(tok, false)
			if !voidElements[tok.Data] {
				f.stack = append(f.stack, tok.Data)
			}
		case html.SelfClosingTagToken:
			f.openTag(tok, true)
		case html.EndTagToken:
			if voidElements[tok.Data] {
				continue
			}
			if err := f.closeTag(tok.Data); err != nil {
				return "", err
			}
		}
	}

	if len(f.stack) > 0 {
		return "", fmt.Errorf("unclosed element <%s>", f.stack[len(f.stack)-1])
	}
	return f.out.String(), nil
}

func (f *formatter) line(s string) {
	f.out.WriteString(strings.Repeat("  ", len(f.stack)))
	f.out.WriteString(s)
	f.out.WriteByte('\n')
}

func (f *formatter) top() string {
	if len(f.stack) == 0 {
		return ""
	}
	return f.stack[len(f.stack)-1]
}

func (f *formatter) pop() {
	open := f.top()
	f.stack = f.stack[:len(f.stack)-1]
	f.line("</" + open + ">")
}

func (f *formatter) preformatted() bool {
	for _, name := range f.stack {
		if preformattedElements[name] {
			return true
		}
	}
	return false
}

// isHTMLSpace reports ASCII whitespace as defined by HTML. U+00A0 from
// &nbsp; is content.
func isHTMLSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func (f *formatter) text(data string) {
	if f.preformatted() {
		if data != "" {
			f.line(textEscaper.Replace(data))
		}
		return
	}
	if rawTextElements[f.top()] {
		for _, l := range strings.Split(data, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				f.line(l)
			}
		}
		return
	}
	collapsed := strings.Join(strings.FieldsFunc(data, isHTMLSpace), " ")
	if collapsed == "" {
		return
	}
	f.line(textEscaper.Replace(collapsed))
}

func (f *formatter) openTag(tok html.Token, selfClosing bool) {
	end := ">"
	if selfClosing {
		end = " />"
	}

	switch len(tok.Attr) {
	case 0:
		f.line("<" + tok.Data + end)
	case 1:
		f.line("<" + tok.Data + " " + attr(tok.Attr[0]) + end)
	default:
		f.line("<" + tok.Data)
		f.stack = append(f.stack, tok.Data)
		for _, a := range tok.Attr {
			f.line(attr(a))
		}
		f.stack = f.stack[:len(f.stack)-1]
		f.line(strings.TrimSpace(end))
	}
}

func attr(a html.Attribute) string {
	key := a.Key
	if a.Namespace != "" {
		key = a.Namespace + ":" + key
	}
	if a.Val == "" {
		return key
	}
	return key + "=\"" + attrEscaper.Replace(a.Val) + "\""
}

func (f *formatter) closeTag(name string) error {
	idx, blocker := -1, ""
	for i := len(f.stack) - 1; i >= 0; i-- {
		if f.stack[i] == name {
			idx = i
			break
		}
		if blocker == "" && !optionalEndElements[f.stack[i]] {
			blocker = f.stack[i]
		}
	}
	switch {
	case idx < 0:
		return fmt.Errorf("unexpected closing tag </%s>", name)
	case blocker != "":
		return fmt.Errorf("unclosed element <%s> before </%s>", blocker, name)
	}

	for len(f.stack) > idx {
		f.pop()
	}
	return nil
}
