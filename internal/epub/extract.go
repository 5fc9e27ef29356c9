package epub

import "strings"

// Text returns the plain text between two named anchors.
//
// With a start anchor everything up to and including the first element
// carrying it is skipped; that element's own text and descendants are kept.
// An empty start begins at the document root, and a start anchor that does
// not occur yields no text. Collection stops before the first element
// carrying the stop anchor, or at the end of the document when stop is
// empty. Text nodes are trimmed and joined with single spaces.
func (d *Document) Text(start, stop string) string {
	from := 0
	if start != "" {
		i := d.indexOf(start)
		if i < 0 {
			return ""
		}
		from = i + 1
	}

	var parts []string
	for _, n := range d.nodes[from:] {
		if n.isText {
			parts = append(parts, n.text)
			continue
		}
		if stop != "" && n.anchor == stop {
			break
		}
	}
	return strings.Join(parts, " ")
}

// indexOf returns the position of the first element carrying anchor, or -1.
func (d *Document) indexOf(anchor string) int {
	for i, n := range d.nodes {
		if !n.isText && n.anchor == anchor {
			return i
		}
	}
	return -1
}
