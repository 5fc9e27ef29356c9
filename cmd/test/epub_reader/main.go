// Debug program for the EPUB reading layer.
//
// Usage:
//
//	go run ./cmd/test/epub_reader/main.go <epub-file-path> (<content-href> ...)
//
// This program prints:
// - the archive entries and the package document path
// - metadata, manifest and spine of the package document
// - the NCX navigation tree
// - the named anchors of each requested content document
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/yuanying/epub2text/internal/epub"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/test/epub_reader/main.go <epub-file> (<content-href> ...)")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read EPUB: %v", err)
	}

	archive, err := epub.OpenArchive(data)
	if err != nil {
		log.Fatalf("Failed to open EPUB: %v", err)
	}

	files := archive.Files()
	fmt.Printf("Total files: %d\n", len(files))
	for _, name := range files {
		fmt.Printf("  - %s\n", name)
	}
	if problem := archive.CheckMimetype(); problem != "" {
		fmt.Printf("! %s\n", problem)
	}

	opfPath, err := archive.LocatePackage()
	if err != nil {
		log.Fatalf("Failed to locate package document: %v", err)
	}
	fmt.Printf("\nPackage document: %s\n", opfPath)

	opfText, err := archive.ReadText(opfPath)
	if err != nil {
		log.Fatalf("Failed to read package document: %v", err)
	}
	pkg, err := epub.ParsePackage(opfText, epub.PackageDir(opfPath))
	if err != nil {
		log.Fatalf("Failed to parse package document: %v", err)
	}

	fmt.Printf("Title:    %s\n", pkg.Metadata.Title)
	fmt.Printf("Author:   %s\n", pkg.Metadata.Author)
	fmt.Printf("Language: %s\n", pkg.Metadata.Language)

	fmt.Printf("\nManifest (%d items):\n", len(pkg.ManifestOrder))
	for _, id := range pkg.ManifestOrder {
		item := pkg.Manifest[id]
		fmt.Printf("  %-20s %-40s %s\n", item.ID, item.Href, item.MediaType)
	}

	fmt.Printf("\nSpine (%d items):\n", len(pkg.Spine))
	for i, id := range pkg.Spine {
		fmt.Printf("  %3d. %s\n", i+1, id)
	}

	ncxPath, err := pkg.NCXPath()
	if err != nil {
		log.Fatalf("Failed to locate NCX: %v", err)
	}
	ncxText, err := archive.ReadText(ncxPath)
	if err != nil {
		log.Fatalf("Failed to read NCX: %v", err)
	}
	ncx, err := epub.ParseNCX(ncxText)
	if err != nil {
		log.Fatalf("Failed to parse NCX: %v", err)
	}

	fmt.Printf("\nNCX %s (depth %d, %d entries):\n", ncxPath, ncx.Depth, len(ncx.Flatten()))
	for _, np := range ncx.Flatten() {
		fmt.Printf("%s- [%d] %s -> %s\n", strings.Repeat("  ", np.Level), np.PlayOrder, np.Label, np.Src)
	}

	for _, href := range os.Args[2:] {
		text, err := archive.ReadText(pkg.ArchivePath(href))
		if err != nil {
			log.Fatalf("Failed to read content file %s: %v", href, err)
		}
		doc, err := epub.ParseDocument(href, text)
		if err != nil {
			log.Fatalf("Failed to parse content file %s: %v", href, err)
		}
		fmt.Printf("\nAnchors in %s: %s\n", href, strings.Join(doc.Anchors(), ", "))
	}
}
