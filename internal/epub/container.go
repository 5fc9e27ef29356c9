package epub

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// rootfilePattern finds the package document path. container.xml is matched
// permissively rather than validated, so attribute order and quoting vary.
var rootfilePattern = regexp.MustCompile(`<(?:\w+:)?rootfile\b[^>]*?\sfull-path\s*=\s*["']([^"']+)["']`)

// ParseContainer returns the package document path declared by the first
// rootfile element of container.xml.
func ParseContainer(text string) (string, error) {
	m := rootfilePattern.FindStringSubmatch(text)
	if m == nil {
		return "", malformed(ErrMalformedContainer, "no rootfile full-path")
	}
	p := normalizePath(strings.TrimSpace(m[1]))
	if p == "" {
		return "", malformed(ErrMalformedContainer, "empty rootfile full-path")
	}
	return p, nil
}

// LocatePackage reads container.xml and returns the package document path.
func (a *Archive) LocatePackage() (string, error) {
	text, err := a.ReadText(containerPath)
	if errors.Is(err, ErrFileNotFound) {
		return "", fmt.Errorf("%w: %w", ErrMalformedContainer, err)
	}
	if err != nil {
		return "", err
	}
	return ParseContainer(text)
}
