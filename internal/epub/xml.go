package epub

import (
	"encoding/xml"
	"io"

	"github.com/beevik/etree"
)

// parseXML builds an element tree from text. Parsing is strict; HTML named
// entities such as &nbsp; resolve through the static entity table so that
// XHTML content documents parse without a DTD.
func parseXML(text string) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: passThroughCharset,
		Entity:        xml.HTMLEntity,
	}
	if err := doc.ReadFromString(text); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, errNoRootElement
	}
	return root, nil
}

// passThroughCharset ignores the declared encoding. Text reaching parseXML
// has already been checked as UTF-8 by Archive.ReadText.
func passThroughCharset(_ string, r io.Reader) (io.Reader, error) {
	return r, nil
}

func attr(el *etree.Element, key string) (string, bool) {
	a := el.SelectAttr(key)
	if a == nil {
		return "", false
	}
	return a.Value, true
}
