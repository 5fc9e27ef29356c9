package epub

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// Document is a parsed XHTML content file reduced to what text extraction
// needs: its elements and text nodes in pre-order.
type Document struct {
	Path  string
	nodes []node
}

// node is either an element, identified only by its named anchor, or a
// trimmed text node.
type node struct {
	anchor string
	text   string
	isText bool
}

// ParseDocument parses an XHTML content file strictly as XML.
// path is only used for error reporting.
func ParseDocument(path, text string) (*Document, error) {
	root, err := parseXML(text)
	if err != nil {
		return nil, &HTMLError{Path: path, Err: err}
	}

	d := &Document{Path: path}
	stack := []etree.Token{root}
	for len(stack) > 0 {
		tok := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch t := tok.(type) {
		case *etree.Element:
			d.nodes = append(d.nodes, node{anchor: elementAnchor(t)})
			for i := len(t.Child) - 1; i >= 0; i-- {
				stack = append(stack, t.Child[i])
			}
		case *etree.CharData:
			d.addText(t.Data)
		}
	}
	return d, nil
}

// ParseDocumentLenient parses a content file with the HTML5 parser, which
// accepts markup that is not well-formed XML.
func ParseDocumentLenient(path, text string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, &HTMLError{Path: path, Err: err}
	}

	d := &Document{Path: path}
	d.walkSelection(doc.Contents())
	return d, nil
}

// walkSelection appends the elements and text nodes of sel and their
// descendants in pre-order.
func (d *Document) walkSelection(sel *goquery.Selection) {
	sel.Each(func(_ int, s *goquery.Selection) {
		switch n := s.Get(0); n.Type {
		case html.ElementNode:
			d.nodes = append(d.nodes, node{anchor: selectionAnchor(s)})
			d.walkSelection(s.Contents())
		case html.TextNode:
			d.addText(n.Data)
		}
	})
}

// Anchors returns the named anchors of the document in document order.
func (d *Document) Anchors() []string {
	var anchors []string
	for _, n := range d.nodes {
		if !n.isText && n.anchor != "" {
			anchors = append(anchors, n.anchor)
		}
	}
	return anchors
}

// HasAnchor reports whether an element carries the given named anchor.
func (d *Document) HasAnchor(anchor string) bool {
	return anchor != "" && d.indexOf(anchor) >= 0
}

// addText records a text node. Whitespace-only text is dropped so that
// extracted fragments are separated by exactly one space.
func (d *Document) addText(s string) {
	if s = strings.TrimSpace(s); s != "" {
		d.nodes = append(d.nodes, node{text: s, isText: true})
	}
}

// elementAnchor returns the id attribute, or for <a> the name attribute
// when present.
func elementAnchor(el *etree.Element) string {
	anchor := el.SelectAttrValue("id", "")
	if el.Tag == "a" {
		if name, ok := attr(el, "name"); ok {
			anchor = name
		}
	}
	return anchor
}

func selectionAnchor(s *goquery.Selection) string {
	if goquery.NodeName(s) == "a" {
		if name, ok := s.Attr("name"); ok {
			return name
		}
	}
	return s.AttrOr("id", "")
}
