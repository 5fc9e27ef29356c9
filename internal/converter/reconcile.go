package converter

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/yuanying/epub2text/internal/epub"
)

// ContentPool holds the parsed content documents keyed by manifest href.
type ContentPool struct {
	docs map[string]*epub.Document
}

// NewContentPool creates an empty pool.
func NewContentPool() *ContentPool {
	return &ContentPool{docs: make(map[string]*epub.Document)}
}

// Add registers a document under its manifest href.
func (p *ContentPool) Add(href string, doc *epub.Document) {
	p.docs[href] = doc
}

// Len returns the number of documents in the pool.
func (p *ContentPool) Len() int {
	return len(p.docs)
}

// lookup finds a document by href, retrying with a cleaned path.
func (p *ContentPool) lookup(file string) (*epub.Document, bool) {
	if doc, ok := p.docs[file]; ok {
		return doc, true
	}
	if file == "" {
		return nil, false
	}
	doc, ok := p.docs[path.Clean(file)]
	return doc, ok
}

// assignment is one reading-order entry: a source path, possibly carrying an
// anchor, and the flattened index of the NavPoint that owns its text.
type assignment struct {
	src string
	nav int
}

// Reconciler distributes the spine's content over the navigation tree.
type Reconciler struct {
	pkg    *epub.Package
	ncx    *epub.NCX
	pool   *ContentPool
	logger *slog.Logger
}

// NewReconciler creates a Reconciler. A nil logger discards output.
func NewReconciler(pkg *epub.Package, ncx *epub.NCX, pool *ContentPool, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = discardLogger()
	}
	return &Reconciler{pkg: pkg, ncx: ncx, pool: pool, logger: logger}
}

// Reconcile returns the preface text and the chapter tree.
//
// Spine items are matched against NavPoint sources in pre-order. Items that
// match nothing go to the preface until the first match, and afterwards to
// the most recently matched NavPoint.
func (r *Reconciler) Reconcile() (string, []Chapter, error) {
	flat := r.ncx.Flatten()
	if len(flat) == 0 {
		return "", nil, fmt.Errorf("%w: navigation contains no entries", epub.ErrMalformedNCX)
	}

	var (
		prefaceSources []string
		entries        []assignment
		passedPreface  bool
		lastMatched    int
	)
	for _, id := range r.pkg.Spine {
		href, err := r.pkg.Href(id)
		if err != nil {
			return "", nil, err
		}

		matched := false
		for i, np := range flat {
			// np.Src may carry an anchor suffix
			if strings.Contains(np.Src, href) {
				entries = append(entries, assignment{src: np.Src, nav: i})
				lastMatched = i
				matched = true
			}
		}

		switch {
		case matched:
			passedPreface = true
		case passedPreface:
			r.logger.Debug("unmatched spine item attributed to previous chapter",
				"href", href, "navPoint", flat[lastMatched].ID)
			entries = append(entries, assignment{src: href, nav: lastMatched})
		default:
			r.logger.Debug("unmatched spine item attributed to preface", "href", href)
			prefaceSources = append(prefaceSources, href)
		}
	}

	chunks := make([][]string, len(flat))
	for i, e := range entries {
		var next string
		if i+1 < len(entries) {
			next = entries[i+1].src
		}
		text, err := r.sourceText(e.src, next)
		if err != nil {
			return "", nil, err
		}
		chunks[e.nav] = append(chunks[e.nav], text)
	}

	preface := make([]string, 0, len(prefaceSources))
	for i, src := range prefaceSources {
		var next string
		switch {
		case i+1 < len(prefaceSources):
			next = prefaceSources[i+1]
		case len(entries) > 0:
			next = entries[0].src
		}
		text, err := r.sourceText(src, next)
		if err != nil {
			return "", nil, err
		}
		preface = append(preface, text)
	}

	var pos int
	chapters := buildChapters(r.ncx.NavPoints, chunks, &pos)
	return strings.Join(preface, "\n"), chapters, nil
}

// sourceText extracts the text starting at src. It ends before the anchor of
// next when next points into the same file, and at the end of the file
// otherwise.
func (r *Reconciler) sourceText(src, next string) (string, error) {
	file, start := epub.SplitSrc(src)
	doc, ok := r.pool.lookup(file)
	if !ok {
		return "", fmt.Errorf("%w: file %s in TOC, but not in manifest", epub.ErrMalformedNCX, file)
	}

	var stop string
	if next != "" && strings.HasPrefix(next, file) {
		_, stop = epub.SplitSrc(next)
	}

	if start != "" && !doc.HasAnchor(start) {
		r.logger.Warn("anchor not found in content document", "file", file, "anchor", start)
	}
	return doc.Text(start, stop), nil
}

// buildChapters converts NavPoints to chapters. pos walks the flattened
// pre-order index in step with the recursion.
func buildChapters(points []epub.NavPoint, chunks [][]string, pos *int) []Chapter {
	chapters := make([]Chapter, 0, len(points))
	for i := range points {
		idx := *pos
		*pos++
		ch := Chapter{
			Title: points[i].Label,
			Text:  strings.Join(chunks[idx], "\n"),
		}
		ch.Subchapters = buildChapters(points[i].Children, chunks, pos)
		chapters = append(chapters, ch)
	}
	return chapters
}
