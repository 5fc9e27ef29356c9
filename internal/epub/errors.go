package epub

import (
	"errors"
	"fmt"
)

// Sentinel errors returned while reading an EPUB.
var (
	// ErrInvalidArchive indicates the input is not a readable ZIP archive.
	ErrInvalidArchive = errors.New("epub: invalid zip archive")

	// ErrFileNotFound indicates the requested entry does not exist in the archive.
	ErrFileNotFound = errors.New("epub: file not found in archive")

	// ErrInvalidUTF8 indicates an archive entry is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("epub: invalid UTF-8")

	ErrMalformedContainer = errors.New("epub: malformed or missing container.xml")
	ErrMalformedPackage   = errors.New("epub: malformed package document")
	ErrMalformedNCX       = errors.New("epub: malformed toc.ncx")
	ErrMalformedHTML      = errors.New("epub: malformed content document")
)

// HTMLError reports a content document that could not be parsed.
type HTMLError struct {
	Path string
	Err  error
}

func (e *HTMLError) Error() string {
	return fmt.Sprintf("epub: malformed content document %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrMalformedHTML and the parser failure.
func (e *HTMLError) Unwrap() []error {
	return []error{ErrMalformedHTML, e.Err}
}

// malformed wraps a sentinel with a short description of what was wrong.
func malformed(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

var errNoRootElement = errors.New("no root element")
