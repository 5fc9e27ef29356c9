// Package epub2text converts EPUB 2 books into a text-only chapter tree.
//
// The table of contents (NCX) decides the chapter structure. Content in the
// reading order that precedes every table of contents entry becomes the
// preface; content that no entry points at belongs to the chapter read
// before it.
package epub2text

import (
	"github.com/yuanying/epub2text/internal/converter"
	"github.com/yuanying/epub2text/internal/epub"
)

type (
	// Book is the text-only result of a conversion.
	Book = converter.Book
	// Chapter is one table of contents entry with its text and subchapters.
	Chapter = converter.Chapter
	// Options configures ToBookWithOptions.
	Options = converter.Options
	// HTMLError reports a content document that could not be parsed.
	HTMLError = epub.HTMLError
)

// Errors returned by ToBook. Use errors.Is to test for them.
var (
	ErrInvalidArchive     = epub.ErrInvalidArchive
	ErrFileNotFound       = epub.ErrFileNotFound
	ErrInvalidUTF8        = epub.ErrInvalidUTF8
	ErrMalformedContainer = epub.ErrMalformedContainer
	ErrMalformedPackage   = epub.ErrMalformedPackage
	ErrMalformedNCX       = epub.ErrMalformedNCX
	ErrMalformedHTML      = epub.ErrMalformedHTML
)

// ToBook converts the EPUB held in data.
func ToBook(data []byte) (*Book, error) {
	return ToBookWithOptions(data, Options{})
}

// ToBookWithOptions converts the EPUB held in data using opts.
func ToBookWithOptions(data []byte, opts Options) (*Book, error) {
	return converter.NewPipeline(opts).Convert(data)
}
