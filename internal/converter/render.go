package converter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format selects how a Book is written out.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates an output format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want text or json)", s)
	}
}

// Extension returns the file extension used for the format.
func (f Format) Extension() string {
	if f == FormatJSON {
		return "json"
	}
	return "txt"
}

// RenderOptions controls Render.
type RenderOptions struct {
	Format Format
	// TOC prepends a table of contents to text output.
	TOC bool
}

// Render writes the book in the requested format.
func Render(w io.Writer, b *Book, opts RenderOptions) error {
	switch opts.Format {
	case FormatJSON:
		return WriteJSON(w, b)
	case FormatText, "":
		return WriteText(w, b, opts.TOC)
	default:
		return fmt.Errorf("unsupported format %q", opts.Format)
	}
}

// WriteJSON writes the book as indented JSON.
func WriteJSON(w io.Writer, b *Book) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode book: %w", err)
	}
	return nil
}

// WriteText writes the book as plain text. Chapter headings are prefixed
// with one '#' per nesting level.
func WriteText(w io.Writer, b *Book, withTOC bool) error {
	var sb strings.Builder
	sb.WriteString(b.Title)
	sb.WriteByte('\n')
	if b.Author != "" {
		fmt.Fprintf(&sb, "by %s\n", b.Author)
	}

	if withTOC {
		if toc := NewTOCGenerator(b.Chapters).Generate(); toc != "" {
			sb.WriteByte('\n')
			sb.WriteString(toc)
		}
	}

	if b.PrefaceContent != "" {
		sb.WriteByte('\n')
		sb.WriteString(b.PrefaceContent)
		sb.WriteByte('\n')
	}

	writeChapters(&sb, b.Chapters, 1)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write book: %w", err)
	}
	return nil
}

func writeChapters(sb *strings.Builder, chapters []Chapter, depth int) {
	for _, ch := range chapters {
		fmt.Fprintf(sb, "\n%s %s\n", strings.Repeat("#", depth), chapterTitle(ch))
		if ch.Text != "" {
			sb.WriteString(ch.Text)
			sb.WriteByte('\n')
		}
		writeChapters(sb, ch.Subchapters, depth+1)
	}
}
