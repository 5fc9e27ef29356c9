package converter

import (
	"strings"
)

const untitledChapter = "(untitled)"

// TOCGenerator generates a plain-text table of contents from a chapter tree.
type TOCGenerator struct {
	chapters []Chapter
	indent   string
}

// NewTOCGenerator creates a new TOCGenerator.
func NewTOCGenerator(chapters []Chapter) *TOCGenerator {
	return &TOCGenerator{
		chapters: chapters,
		indent:   "  ",
	}
}

// Generate returns the table of contents, one chapter title per line and
// nested chapters indented below their parent.
// Returns an empty string if there are no chapters.
func (g *TOCGenerator) Generate() string {
	if len(g.chapters) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Contents\n")
	g.writeEntries(&b, g.chapters, 1)
	return b.String()
}

// writeEntries recursively writes chapter titles.
func (g *TOCGenerator) writeEntries(b *strings.Builder, chapters []Chapter, depth int) {
	for _, ch := range chapters {
		b.WriteString(strings.Repeat(g.indent, depth))
		b.WriteString(chapterTitle(ch))
		b.WriteByte('\n')
		if len(ch.Subchapters) > 0 {
			g.writeEntries(b, ch.Subchapters, depth+1)
		}
	}
}

func chapterTitle(ch Chapter) string {
	if ch.Title == "" {
		return untitledChapter
	}
	return ch.Title
}
