package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"
)

const (
	containerPath    = "META-INF/container.xml"
	expectedMimetype = "application/epub+zip"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Archive provides read access to the entries of an in-memory EPUB.
//
// An Archive only reads; concurrent ReadFile calls are safe because the
// underlying bytes.Reader implements io.ReaderAt without shared state.
type Archive struct {
	zip   *zip.Reader
	files map[string]*zip.File
}

// OpenArchive opens the EPUB held in data.
func OpenArchive(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}

	a := &Archive{
		zip:   zr,
		files: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		a.files[normalizePath(f.Name)] = f
	}
	return a, nil
}

// Files returns the entry names in archive order.
func (a *Archive) Files() []string {
	names := make([]string, 0, len(a.zip.File))
	for _, f := range a.zip.File {
		names = append(names, f.Name)
	}
	return names
}

// ReadFile reads the raw contents of an entry.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	f, ok := a.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrInvalidArchive, name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidArchive, name, err)
	}
	return data, nil
}

// ReadText reads an entry as UTF-8 text, dropping a leading byte order mark.
func (a *Archive) ReadText(name string) (string, error) {
	data, err := a.ReadFile(name)
	if err != nil {
		return "", err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrInvalidUTF8, name)
	}
	return string(data), nil
}

// CheckMimetype reports whether the mimetype entry is missing or unexpected.
// An empty return value means the entry is fine.
func (a *Archive) CheckMimetype() string {
	data, err := a.ReadFile("mimetype")
	if err != nil {
		return "mimetype file not found"
	}
	if got := strings.TrimSpace(string(data)); got != expectedMimetype {
		return fmt.Sprintf("unexpected mimetype %q", got)
	}
	return ""
}

// lookup finds an entry by normalized name, retrying with percent-escapes
// decoded since manifest hrefs are URLs.
func (a *Archive) lookup(name string) (*zip.File, bool) {
	name = normalizePath(name)
	if f, ok := a.files[name]; ok {
		return f, true
	}
	if unescaped, err := url.PathUnescape(name); err == nil && unescaped != name {
		f, ok := a.files[normalizePath(unescaped)]
		return f, ok
	}
	return nil, false
}

// normalizePath normalizes archive paths (drops ./ prefixes and .. segments)
func normalizePath(p string) string {
	p = strings.TrimPrefix(p, "./")
	if p == "" {
		return p
	}
	return strings.TrimPrefix(path.Clean(p), "/")
}

// resolvePath joins an href found in a document with that document's directory.
func resolvePath(dir, href string) string {
	if dir == "" || dir == "." {
		return normalizePath(href)
	}
	return normalizePath(path.Join(dir, href))
}
