package epub

import (
	"errors"
	"testing"

	"github.com/yuanying/epub2text/internal/epubtest"
)

func TestParseContainer(t *testing.T) {
	tests := []struct {
		name    string
		xml     string
		want    string
		wantErr bool
	}{
		{
			name: "standard",
			xml:  epubtest.Container("OEBPS/content.opf"),
			want: "OEBPS/content.opf",
		},
		{
			name: "media-type before full-path",
			xml: `<container><rootfiles>
  <rootfile media-type="application/oebps-package+xml" full-path="book.opf"/>
</rootfiles></container>`,
			want: "book.opf",
		},
		{
			name: "single quotes",
			xml:  `<container><rootfiles><rootfile full-path='ops/package.opf'/></rootfiles></container>`,
			want: "ops/package.opf",
		},
		{
			name: "first rootfile wins",
			xml: `<container><rootfiles>
  <rootfile full-path="first.opf"/>
  <rootfile full-path="second.opf"/>
</rootfiles></container>`,
			want: "first.opf",
		},
		{
			name:    "no rootfile",
			xml:     `<container><rootfiles/></container>`,
			wantErr: true,
		},
		{
			name:    "empty path",
			xml:     `<container><rootfiles><rootfile full-path=""/></rootfiles></container>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContainer(tt.xml)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedContainer) {
					t.Fatalf("ParseContainer() error = %v, want ErrMalformedContainer", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseContainer() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseContainer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocatePackage_NoContainer(t *testing.T) {
	archive, err := OpenArchive(epubtest.Zip(t, map[string]string{"OEBPS/content.opf": "<package/>"}))
	if err != nil {
		t.Fatalf("OpenArchive() error = %v", err)
	}

	_, err = archive.LocatePackage()
	if !errors.Is(err, ErrMalformedContainer) {
		t.Errorf("LocatePackage() error = %v, want ErrMalformedContainer", err)
	}
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("LocatePackage() error = %v, want ErrFileNotFound", err)
	}
}
