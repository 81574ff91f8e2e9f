package project

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// Free-text elements yWriter writes as CDATA.
var cdataElements = map[string]bool{
	"Title": true, "AuthorName": true, "Bio": true, "Desc": true,
	"FieldTitle1": true, "FieldTitle2": true, "FieldTitle3": true, "FieldTitle4": true,
	"LaTeXHeaderFile": true, "Tags": true, "AKA": true, "ImageFile": true,
	"FullName": true, "Goals": true, "Notes": true, "RTFFile": true,
	"SceneContent": true, "Outcome": true, "Goal": true, "Conflict": true,
}

func child(n *xmlquery.Node, name string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}

func children(n *xmlquery.Node, name string) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			out = append(out, c)
		}
	}
	return out
}

func has(n *xmlquery.Node, name string) bool {
	return child(n, name) != nil
}

func text(n *xmlquery.Node, name string) string {
	c := child(n, name)
	if c == nil {
		return ""
	}
	return c.InnerText()
}

func trimmed(n *xmlquery.Node, name string) string {
	return strings.TrimSpace(text(n, name))
}

// listOf reads the text of every name element below the list element.
func listOf(n *xmlquery.Node, list, name string) []string {
	var out []string
	for _, c := range children(child(n, list), name) {
		if v := strings.TrimSpace(c.InnerText()); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func newElement(name string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}
}

func ensure(parent *xmlquery.Node, name string) *xmlquery.Node {
	if c := child(parent, name); c != nil {
		return c
	}
	c := newElement(name)
	xmlquery.AddChild(parent, c)
	return c
}

func remove(parent *xmlquery.Node, name string) {
	for _, c := range children(parent, name) {
		xmlquery.RemoveFromTree(c)
	}
}

func clearChildren(n *xmlquery.Node) {
	for n.FirstChild != nil {
		xmlquery.RemoveFromTree(n.FirstChild)
	}
}

// setValue writes value into the name element, creating it when needed.
func setValue(parent *xmlquery.Node, name, value string) {
	el := ensure(parent, name)
	clearChildren(el)
	if value == "" {
		return
	}
	node := &xmlquery.Node{Type: xmlquery.TextNode, Data: value}
	if cdataElements[name] && !strings.Contains(value, "]]>") {
		node.Type = xmlquery.CharDataNode
	}
	xmlquery.AddChild(el, node)
}

// setText writes value, removing the element when value is empty.
func setText(parent *xmlquery.Node, name, value string) {
	if value == "" {
		remove(parent, name)
		return
	}
	setValue(parent, name, value)
}

// setFlag writes a yWriter presence flag.
func setFlag(parent *xmlquery.Node, name string, on bool) {
	if !on {
		remove(parent, name)
		return
	}
	if !has(parent, name) {
		setValue(parent, name, "-1")
	}
}

// setList replaces the list element with one name element per value.
func setList(parent *xmlquery.Node, list, name string, values []string) {
	remove(parent, list)
	if len(values) == 0 {
		return
	}
	el := ensure(parent, list)
	for _, v := range values {
		item := newElement(name)
		xmlquery.AddChild(item, &xmlquery.Node{Type: xmlquery.TextNode, Data: v})
		xmlquery.AddChild(el, item)
	}
}

// stripIndentation drops whitespace-only text between elements so the
// tree can be written with fresh indentation.
func stripIndentation(n *xmlquery.Node) {
	hasElements := false
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			hasElements = true
			break
		}
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case xmlquery.TextNode:
			if hasElements && strings.TrimSpace(c.Data) == "" {
				xmlquery.RemoveFromTree(c)
			}
		case xmlquery.ElementNode, xmlquery.DocumentNode:
			stripIndentation(c)
		}
		c = next
	}
}
