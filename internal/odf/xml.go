package odf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

var namespaces = map[string]string{
	"office":   "urn:oasis:names:tc:opendocument:xmlns:office:1.0",
	"style":    "urn:oasis:names:tc:opendocument:xmlns:style:1.0",
	"text":     "urn:oasis:names:tc:opendocument:xmlns:text:1.0",
	"table":    "urn:oasis:names:tc:opendocument:xmlns:table:1.0",
	"fo":       "urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0",
	"meta":     "urn:oasis:names:tc:opendocument:xmlns:meta:1.0",
	"dc":       "http://purl.org/dc/elements/1.1/",
	"xlink":    "http://www.w3.org/1999/xlink",
	"manifest": "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0",
}

var declaredPrefixes = []string{"office", "style", "text", "table", "fo", "meta", "dc", "xlink"}

func splitName(qname string) (string, string) {
	prefix, local, ok := strings.Cut(qname, ":")
	if !ok {
		return "", qname
	}
	return prefix, local
}

func element(qname string, attrs ...string) *xmlquery.Node {
	prefix, local := splitName(qname)
	n := &xmlquery.Node{Type: xmlquery.ElementNode, Prefix: prefix, Data: local, NamespaceURI: namespaces[prefix]}
	for i := 0; i+1 < len(attrs); i += 2 {
		xmlquery.AddAttr(n, attrs[i], attrs[i+1])
	}
	return n
}

func add(parent *xmlquery.Node, qname string, attrs ...string) *xmlquery.Node {
	n := element(qname, attrs...)
	xmlquery.AddChild(parent, n)
	return n
}

func addText(parent *xmlquery.Node, text string) {
	if text == "" {
		return
	}
	xmlquery.AddChild(parent, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
}

// root returns a document root element declaring every ODF namespace.
func root(qname string) *xmlquery.Node {
	n := element(qname)
	for _, prefix := range declaredPrefixes {
		xmlquery.AddAttr(n, "xmlns:"+prefix, namespaces[prefix])
	}
	xmlquery.AddAttr(n, "office:version", "1.2")
	return n
}

func render(n *xmlquery.Node) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	_ = n.WriteWithOptions(&buf, xmlquery.WithOutputSelf())
	return buf.Bytes()
}

func parse(name string, data []byte) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return doc, nil
}

// is reports whether n is the element qname, matched by namespace URI so
// documents using other prefixes still resolve.
func is(n *xmlquery.Node, qname string) bool {
	if n == nil || n.Type != xmlquery.ElementNode {
		return false
	}
	prefix, local := splitName(qname)
	if n.Data != local {
		return false
	}
	if n.NamespaceURI != "" {
		return n.NamespaceURI == namespaces[prefix]
	}
	return n.Prefix == prefix
}

func attr(n *xmlquery.Node, qname string) string {
	if n == nil {
		return ""
	}
	prefix, local := splitName(qname)
	for _, a := range n.Attr {
		if a.Name.Local != local {
			continue
		}
		if a.NamespaceURI == namespaces[prefix] || a.Name.Space == prefix {
			return a.Value
		}
	}
	return ""
}

func firstChild(n *xmlquery.Node, qname string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if is(c, qname) {
			return c
		}
	}
	return nil
}

// descendant returns the first element qname below n in document order.
func descendant(n *xmlquery.Node, qname string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if is(c, qname) {
			return c
		}
		if found := descendant(c, qname); found != nil {
			return found
		}
	}
	return nil
}
