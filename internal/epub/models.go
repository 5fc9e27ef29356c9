package epub

// Package represents the parsed Open Package Format document
type Package struct {
	Metadata      Metadata
	Manifest      map[string]ManifestItem // id -> item
	ManifestOrder []string                // manifest ids in document order
	Spine         []string                // manifest ids in reading order, duplicates kept
	TocID         string                  // spine toc attribute
	Dir           string                  // directory of the package document inside the archive
}

// Metadata represents the metadata section of the package document
type Metadata struct {
	Title    string
	Author   string // first creator, empty when absent
	Language string
}

// ManifestItem represents an item in the manifest
type ManifestItem struct {
	ID         string
	Href       string // relative to the package document directory
	MediaType  string
	Properties string
}

// NCX is the parsed navigation control file.
type NCX struct {
	Depth     int
	NavPoints []NavPoint
}

// NavPoint represents a single navigation point in the table of contents.
type NavPoint struct {
	ID        string
	Label     string // empty when the navPoint has no navLabel text
	PlayOrder int    // 0 when absent or unparsable
	Level     int    // 1 for top-level entries
	Src       string // content path, optionally with a #anchor suffix
	Children  []NavPoint
}
