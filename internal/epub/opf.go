package epub

import (
	"path"
	"strings"

	"github.com/beevik/etree"
)

const (
	xhtmlMediaType = "application/xhtml+xml"
	ncxManifestID  = "ncx"
)

// ParsePackage parses a package document.
// dir is the directory containing the package document (e.g., "OEBPS")
func ParsePackage(text, dir string) (*Package, error) {
	root, err := parseXML(text)
	if err != nil {
		return nil, malformed(ErrMalformedPackage, "invalid XML: %v", err)
	}

	metadata := root.SelectElement("metadata")
	manifest := root.SelectElement("manifest")
	spine := root.SelectElement("spine")
	switch {
	case metadata == nil:
		return nil, malformed(ErrMalformedPackage, "missing metadata")
	case manifest == nil:
		return nil, malformed(ErrMalformedPackage, "missing manifest")
	case spine == nil:
		return nil, malformed(ErrMalformedPackage, "missing spine")
	}

	md, err := parseMetadata(metadata)
	if err != nil {
		return nil, err
	}

	pkg := &Package{
		Metadata: md,
		Manifest: make(map[string]ManifestItem),
		TocID:    spine.SelectAttrValue("toc", ""),
		Dir:      cleanDir(dir),
	}

	// Items missing id, href or media-type are dropped
	for _, el := range manifest.SelectElements("item") {
		id, okID := attr(el, "id")
		href, okHref := attr(el, "href")
		mediaType, okType := attr(el, "media-type")
		if !okID || !okHref || !okType {
			continue
		}
		if _, dup := pkg.Manifest[id]; !dup {
			pkg.ManifestOrder = append(pkg.ManifestOrder, id)
		}
		pkg.Manifest[id] = ManifestItem{
			ID:         id,
			Href:       href,
			MediaType:  mediaType,
			Properties: el.SelectAttrValue("properties", ""),
		}
	}

	for _, el := range spine.SelectElements("itemref") {
		if idref, ok := attr(el, "idref"); ok {
			pkg.Spine = append(pkg.Spine, idref)
		}
	}

	return pkg, nil
}

// parseMetadata extracts title, first creator and language.
func parseMetadata(meta *etree.Element) (Metadata, error) {
	var md Metadata

	title := meta.SelectElement("title")
	if title == nil || strings.TrimSpace(title.Text()) == "" {
		return md, malformed(ErrMalformedPackage, "missing title")
	}
	md.Title = strings.TrimSpace(title.Text())

	if creator := meta.SelectElement("creator"); creator != nil {
		md.Author = strings.TrimSpace(creator.Text())
	}

	lang := meta.SelectElement("language")
	if lang == nil || strings.TrimSpace(lang.Text()) == "" {
		return md, malformed(ErrMalformedPackage, "missing language")
	}
	md.Language = strings.TrimSpace(lang.Text())

	return md, nil
}

// Href returns the manifest href of a spine item.
func (p *Package) Href(id string) (string, error) {
	item, ok := p.Manifest[id]
	if !ok {
		return "", malformed(ErrMalformedPackage, "spine item %q not in manifest", id)
	}
	return item.Href, nil
}

// NCXPath returns the archive path of the navigation document: the manifest
// item with id "ncx", falling back to the item named by the spine toc
// attribute.
func (p *Package) NCXPath() (string, error) {
	item, ok := p.Manifest[ncxManifestID]
	if !ok && p.TocID != "" {
		item, ok = p.Manifest[p.TocID]
	}
	if !ok {
		return "", malformed(ErrMalformedPackage, "no ncx manifest item")
	}
	return p.ArchivePath(item.Href), nil
}

// ContentHrefs returns the hrefs of all XHTML manifest items in manifest order.
func (p *Package) ContentHrefs() []string {
	var hrefs []string
	for _, id := range p.ManifestOrder {
		if item := p.Manifest[id]; item.MediaType == xhtmlMediaType {
			hrefs = append(hrefs, item.Href)
		}
	}
	return hrefs
}

// ArchivePath resolves a manifest href against the package directory.
func (p *Package) ArchivePath(href string) string {
	return resolvePath(p.Dir, href)
}

// PackageDir returns the directory part of a package document path.
func PackageDir(opfPath string) string {
	return cleanDir(path.Dir(opfPath))
}

func cleanDir(dir string) string {
	dir = strings.Trim(dir, "/")
	if dir == "." {
		return ""
	}
	return dir
}
