package affinity

import (
	"strings"

	"golang.org/x/net/html"
)

// NoteText flattens note content to one line of plain text. Notes created
// in the web app carry HTML markup; plain notes pass through unchanged
// apart from whitespace.
func NoteText(content string) string {
	if !strings.Contains(content, "<") {
		return strings.Join(strings.Fields(content), " ")
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return strings.Join(strings.Fields(content), " ")
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br", "p", "div", "li", "tr":
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(b.String()), " ")
}
