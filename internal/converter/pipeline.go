package converter

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/yuanying/epub2text/internal/epub"
	"golang.org/x/sync/errgroup"
)

// Options holds options for the conversion pipeline. The zero value is
// usable: logs are discarded, content is parsed strictly and decoding uses
// one worker per CPU.
type Options struct {
	Logger *slog.Logger

	// Lenient re-parses content documents that are not well-formed XML
	// with the HTML5 parser instead of failing.
	Lenient bool

	// Concurrency bounds the number of content documents decoded at once.
	Concurrency int
}

// Pipeline orchestrates the EPUB to Book conversion.
type Pipeline struct {
	Options Options
	logger  *slog.Logger
}

// NewPipeline creates a new conversion pipeline.
func NewPipeline(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &Pipeline{Options: opts, logger: logger}
}

// ConvertFile reads an EPUB file from disk and converts it.
func (p *Pipeline) ConvertFile(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return p.Convert(data)
}

// Convert executes the conversion pipeline on an in-memory EPUB.
func (p *Pipeline) Convert(data []byte) (*Book, error) {
	archive, pkg, err := p.parseEPUB(data)
	if err != nil {
		return nil, err
	}

	ncx, err := p.loadNCX(archive, pkg)
	if err != nil {
		return nil, err
	}

	pool, err := p.loadContents(archive, pkg)
	if err != nil {
		return nil, err
	}

	preface, chapters, err := NewReconciler(pkg, ncx, pool, p.logger).Reconcile()
	if err != nil {
		return nil, err
	}

	book := &Book{
		Title:          pkg.Metadata.Title,
		Author:         pkg.Metadata.Author,
		Language:       pkg.Metadata.Language,
		PrefaceContent: preface,
		Chapters:       chapters,
	}
	p.logger.Debug("converted book", "title", book.Title, "chapters", book.ChapterCount())
	return book, nil
}

// parseEPUB opens the archive and parses the package document.
func (p *Pipeline) parseEPUB(data []byte) (*epub.Archive, *epub.Package, error) {
	archive, err := epub.OpenArchive(data)
	if err != nil {
		return nil, nil, err
	}

	if problem := archive.CheckMimetype(); problem != "" {
		p.logger.Warn("ignoring invalid mimetype entry", "problem", problem)
	}

	opfPath, err := archive.LocatePackage()
	if err != nil {
		return nil, nil, err
	}

	opfText, err := archive.ReadText(opfPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read package document: %w", err)
	}

	pkg, err := epub.ParsePackage(opfText, epub.PackageDir(opfPath))
	if err != nil {
		return nil, nil, err
	}

	p.logger.Debug("parsed package document",
		"path", opfPath,
		"title", pkg.Metadata.Title,
		"manifest", len(pkg.Manifest),
		"spine", len(pkg.Spine))
	return archive, pkg, nil
}

// loadNCX reads and parses the navigation document.
func (p *Pipeline) loadNCX(archive *epub.Archive, pkg *epub.Package) (*epub.NCX, error) {
	ncxPath, err := pkg.NCXPath()
	if err != nil {
		return nil, err
	}

	text, err := archive.ReadText(ncxPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read NCX: %w", err)
	}

	ncx, err := epub.ParseNCX(text)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("parsed NCX", "path", ncxPath, "depth", ncx.Depth, "navPoints", len(ncx.NavPoints))
	return ncx, nil
}

// loadContents decodes every XHTML manifest item. Files are independent, so
// they are decoded concurrently, each into its own slot.
func (p *Pipeline) loadContents(archive *epub.Archive, pkg *epub.Package) (*ContentPool, error) {
	hrefs := pkg.ContentHrefs()
	docs := make([]*epub.Document, len(hrefs))

	g := new(errgroup.Group)
	g.SetLimit(p.concurrency())
	for i, href := range hrefs {
		g.Go(func() error {
			doc, err := p.loadContent(archive, pkg, href)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pool := NewContentPool()
	for i, href := range hrefs {
		pool.Add(href, docs[i])
	}
	p.logger.Debug("loaded content documents", "count", pool.Len())
	return pool, nil
}

func (p *Pipeline) loadContent(archive *epub.Archive, pkg *epub.Package, href string) (*epub.Document, error) {
	text, err := archive.ReadText(pkg.ArchivePath(href))
	if err != nil {
		return nil, fmt.Errorf("failed to read content %s: %w", href, err)
	}

	doc, err := epub.ParseDocument(href, text)
	if err != nil && p.Options.Lenient {
		p.logger.Warn("content is not well-formed XML, using HTML parser", "file", href, "error", err)
		return epub.ParseDocumentLenient(href, text)
	}
	return doc, err
}

func (p *Pipeline) concurrency() int {
	if p.Options.Concurrency > 0 {
		return p.Options.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
