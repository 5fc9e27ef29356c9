package epub

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ParseNCX parses an NCX navigation document.
func ParseNCX(text string) (*NCX, error) {
	root, err := parseXML(text)
	if err != nil {
		return nil, malformed(ErrMalformedNCX, "invalid XML: %v", err)
	}

	head := root.SelectElement("head")
	if head == nil {
		return nil, malformed(ErrMalformedNCX, "missing head")
	}

	// Unparsable depth values do not count towards the single required one
	var depths []int
	for _, meta := range head.SelectElements("meta") {
		if meta.SelectAttrValue("name", "") != "dtb:depth" {
			continue
		}
		if d, ok := parseNatural(meta.SelectAttrValue("content", "")); ok {
			depths = append(depths, d)
		}
	}
	if len(depths) != 1 {
		return nil, malformed(ErrMalformedNCX, "depth info missing or duplicated")
	}

	navMap := root.SelectElement("navMap")
	if navMap == nil {
		return nil, malformed(ErrMalformedNCX, "missing navMap")
	}

	navPoints, err := parseNavPoints(navMap, 1)
	if err != nil {
		return nil, err
	}

	return &NCX{Depth: depths[0], NavPoints: navPoints}, nil
}

// parseNavPoints converts the navPoint children of parent. A single invalid
// navPoint fails the whole tree.
func parseNavPoints(parent *etree.Element, level int) ([]NavPoint, error) {
	var points []NavPoint
	for _, el := range parent.SelectElements("navPoint") {
		id, ok := attr(el, "id")
		if !ok {
			return nil, malformed(ErrMalformedNCX, "navPoint without id at level %d", level)
		}

		content := el.SelectElement("content")
		if content == nil {
			return nil, malformed(ErrMalformedNCX, "navPoint %q without content", id)
		}
		src, ok := attr(content, "src")
		if !ok {
			return nil, malformed(ErrMalformedNCX, "navPoint %q without src", id)
		}

		np := NavPoint{
			ID:    id,
			Level: level,
			Src:   src,
		}
		if po, ok := parseNatural(el.SelectAttrValue("playOrder", "")); ok {
			np.PlayOrder = po
		}
		if label := el.SelectElement("navLabel"); label != nil {
			if text := label.SelectElement("text"); text != nil {
				np.Label = strings.TrimSpace(text.Text())
			}
		}

		children, err := parseNavPoints(el, level+1)
		if err != nil {
			return nil, err
		}
		np.Children = children

		points = append(points, np)
	}
	return points, nil
}

// Flatten returns every NavPoint in pre-order depth-first order.
func (n *NCX) Flatten() []*NavPoint {
	var flat []*NavPoint
	var visit func(points []NavPoint)
	visit = func(points []NavPoint) {
		for i := range points {
			flat = append(flat, &points[i])
			visit(points[i].Children)
		}
	}
	visit(n.NavPoints)
	return flat
}

// SplitSrc splits a navigation source into the file path and anchor.
func SplitSrc(src string) (file, anchor string) {
	file, anchor, _ = strings.Cut(src, "#")
	return file, anchor
}

func parseNatural(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
