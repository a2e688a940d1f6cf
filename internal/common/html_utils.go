package common

import (
	"bytes"
	"encoding/json"
	"strings"

	"golang.org/x/net/html"
)

// ExtractText gets all text content from an HTML node and its children
func ExtractText(node *html.Node) string {
	var text strings.Builder

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && isBlockElement(n.Data) && text.Len() > 0 {
			text.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}

	traverse(node)
	return strings.TrimSpace(text.String())
}

// FindNodesByTag finds all nodes with a specific tag name
func FindNodesByTag(root *html.Node, tagName string) []*html.Node {
	var nodes []*html.Node

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tagName {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}

	traverse(root)
	return nodes
}

// LooksLikeMarkup reports whether a body is an HTML page rather than JSON.
// Servers that do not know a REST family often answer 200 with a login or
// error page instead of 404.
func LooksLikeMarkup(body []byte) bool {
	if json.Valid(body) {
		return false
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '<'
}

// PageTitle returns the <title> of an HTML body, or "" when there is none
func PageTitle(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	titles := FindNodesByTag(doc, "title")
	if len(titles) == 0 {
		return ""
	}
	return ExtractText(titles[0])
}

// HTMLToText flattens an HTML fragment (such as a renderedFields value) to plain text
func HTMLToText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return ExtractText(doc)
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "br", "div", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6", "pre", "blockquote":
		return true
	}
	return false
}
