package utils

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var allowedTags = map[atom.Atom]bool{
	atom.P: true, atom.Br: true, atom.Strong: true, atom.B: true,
	atom.Em: true, atom.I: true, atom.U: true, atom.Ul: true,
	atom.Ol: true, atom.Li: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.Blockquote: true, atom.A: true,
}

// droppedTags lose their content as well as their markup.
var droppedTags = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Iframe: true,
	atom.Object: true, atom.Embed: true, atom.Noscript: true,
	atom.Template: true,
}

// SanitizeHTML keeps a small formatting allow-list from rich-text job
// descriptions. Links keep only http, https and mailto hrefs.
func SanitizeHTML(input string) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(input), body)
	if err != nil {
		return html.EscapeString(input)
	}

	var b strings.Builder
	for _, n := range nodes {
		writeSanitized(&b, n)
	}
	return strings.TrimSpace(b.String())
}

func writeSanitized(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
	default:
		return
	}

	if droppedTags[n.DataAtom] {
		return
	}

	allowed := allowedTags[n.DataAtom]
	if allowed {
		b.WriteByte('<')
		b.WriteString(n.Data)
		if n.DataAtom == atom.A {
			if href, ok := safeHref(n); ok {
				b.WriteString(` href="`)
				b.WriteString(html.EscapeString(href))
				b.WriteString(`" rel="nofollow noopener" target="_blank"`)
			}
		}
		b.WriteByte('>')
		if n.DataAtom == atom.Br {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeSanitized(b, c)
	}

	if allowed {
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteByte('>')
	}
}

func safeHref(n *html.Node) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key != "href" {
			continue
		}
		u, err := url.Parse(strings.TrimSpace(attr.Val))
		if err != nil {
			return "", false
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "mailto":
			return u.String(), true
		}
		return "", false
	}
	return "", false
}

// PlainText flattens HTML to its visible text, used for keyword search.
func PlainText(input string) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(input), body)
	if err != nil {
		return input
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && droppedTags[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
