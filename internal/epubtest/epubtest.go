// Package epubtest builds in-memory EPUB archives for tests.
package epubtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"path"
	"sort"
	"strings"
	"testing"
)

// Book describes an EPUB 2 fixture. Zero fields get sensible defaults.
type Book struct {
	Title    string // default "Test Book"
	Author   string
	Language string // default "en"
	Dir      string // package document directory, default "OEBPS"

	Items []Item   // content manifest items, in manifest order
	Spine []string // manifest ids; default every item in order

	Depth     int // dtb:depth, default 1
	NavPoints []NavPoint
	NCX       string // raw NCX document, overrides Depth and NavPoints
	NoNCX     bool   // leave the ncx manifest item out

	Extra map[string]string // additional archive entries, path -> content
}

// Item is a manifest item whose content is stored in the archive.
type Item struct {
	ID        string
	Href      string
	MediaType string // default application/xhtml+xml
	Content   string
}

// NavPoint is an NCX navPoint.
type NavPoint struct {
	ID        string
	Label     string
	PlayOrder int
	Src       string
	Children  []NavPoint
}

// Bytes builds the archive.
func (b Book) Bytes(t testing.TB) []byte {
	t.Helper()
	dir := b.Dir
	if dir == "" {
		dir = "OEBPS"
	}

	files := map[string]string{
		"META-INF/container.xml": Container(path.Join(dir, "content.opf")),
		path.Join(dir, "content.opf"): b.OPF(),
	}
	if !b.NoNCX {
		ncx := b.NCX
		if ncx == "" {
			ncx = NCX(b.depth(), b.NavPoints)
		}
		files[path.Join(dir, "toc.ncx")] = ncx
	}
	for _, item := range b.Items {
		files[path.Join(dir, item.Href)] = item.Content
	}
	for name, content := range b.Extra {
		files[name] = content
	}
	return Zip(t, files)
}

// OPF renders the package document.
func (b Book) OPF() string {
	title := b.Title
	if title == "" {
		title = "Test Book"
	}
	lang := b.Language
	if lang == "" {
		lang = "en"
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
`)
	fmt.Fprintf(&sb, "    <dc:title>%s</dc:title>\n", html.EscapeString(title))
	if b.Author != "" {
		fmt.Fprintf(&sb, "    <dc:creator opf:role=\"aut\">%s</dc:creator>\n", html.EscapeString(b.Author))
	}
	fmt.Fprintf(&sb, "    <dc:language>%s</dc:language>\n", html.EscapeString(lang))
	sb.WriteString("    <dc:identifier id=\"bookid\">urn:uuid:test</dc:identifier>\n  </metadata>\n  <manifest>\n")
	if !b.NoNCX {
		sb.WriteString("    <item id=\"ncx\" href=\"toc.ncx\" media-type=\"application/x-dtbncx+xml\"/>\n")
	}
	for _, item := range b.Items {
		mediaType := item.MediaType
		if mediaType == "" {
			mediaType = "application/xhtml+xml"
		}
		fmt.Fprintf(&sb, "    <item id=%q href=%q media-type=%q/>\n", item.ID, item.Href, mediaType)
	}
	sb.WriteString("  </manifest>\n  <spine toc=\"ncx\">\n")
	spine := b.Spine
	if spine == nil {
		for _, item := range b.Items {
			spine = append(spine, item.ID)
		}
	}
	for _, id := range spine {
		fmt.Fprintf(&sb, "    <itemref idref=%q/>\n", id)
	}
	sb.WriteString("  </spine>\n</package>\n")
	return sb.String()
}

func (b Book) depth() int {
	if b.Depth > 0 {
		return b.Depth
	}
	return 1
}

// Container renders META-INF/container.xml pointing at opfPath.
func Container(opfPath string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="` + opfPath + `" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`
}

// NCX renders a navigation document.
func NCX(depth int, points []NavPoint) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="urn:uuid:test"/>
`)
	fmt.Fprintf(&sb, "    <meta name=\"dtb:depth\" content=\"%d\"/>\n", depth)
	sb.WriteString("  </head>\n  <docTitle><text>Test Book</text></docTitle>\n  <navMap>\n")
	writeNavPoints(&sb, points, 2)
	sb.WriteString("  </navMap>\n</ncx>\n")
	return sb.String()
}

func writeNavPoints(sb *strings.Builder, points []NavPoint, indent int) {
	pad := strings.Repeat("  ", indent)
	for _, np := range points {
		if np.PlayOrder > 0 {
			fmt.Fprintf(sb, "%s<navPoint id=%q playOrder=\"%d\">\n", pad, np.ID, np.PlayOrder)
		} else {
			fmt.Fprintf(sb, "%s<navPoint id=%q>\n", pad, np.ID)
		}
		if np.Label != "" {
			fmt.Fprintf(sb, "%s  <navLabel><text>%s</text></navLabel>\n", pad, html.EscapeString(np.Label))
		}
		fmt.Fprintf(sb, "%s  <content src=%q/>\n", pad, np.Src)
		writeNavPoints(sb, np.Children, indent+1)
		fmt.Fprintf(sb, "%s</navPoint>\n", pad)
	}
}

// XHTML wraps body markup in a minimal XHTML document.
func XHTML(title, body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>` + html.EscapeString(title) + `</title></head>
<body>
` + body + `
</body>
</html>`
}

// Zip writes files into an EPUB archive with a stored mimetype entry first.
// Entries are written in sorted order so output is deterministic.
func Zip(t testing.TB, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	mw, err := w.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		t.Fatalf("failed to create mimetype: %v", err)
	}
	if _, err := mw.Write([]byte("application/epub+zip")); err != nil {
		t.Fatalf("failed to write mimetype: %v", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(files[name])); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}
