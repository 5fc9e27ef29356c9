package epub

import (
	"errors"
	"strings"
	"testing"

	"github.com/yuanying/epub2text/internal/epubtest"
)

func TestSplitSrc(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantFile   string
		wantAnchor string
	}{
		{
			name:       "path with anchor",
			src:        "chapter1.xhtml#sec1",
			wantFile:   "chapter1.xhtml",
			wantAnchor: "sec1",
		},
		{
			name:     "path without anchor",
			src:      "chapter1.xhtml",
			wantFile: "chapter1.xhtml",
		},
		{
			name:       "anchor only",
			src:        "#sec1",
			wantAnchor: "sec1",
		},
		{
			name: "empty string",
		},
		{
			name:       "multiple hash signs",
			src:        "chapter1.xhtml#sec1#subsec2",
			wantFile:   "chapter1.xhtml",
			wantAnchor: "sec1#subsec2",
		},
		{
			name:       "path with directory",
			src:        "text/chapter1.xhtml#anchor",
			wantFile:   "text/chapter1.xhtml",
			wantAnchor: "anchor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFile, gotAnchor := SplitSrc(tt.src)
			if gotFile != tt.wantFile {
				t.Errorf("SplitSrc(%q) file = %q, want %q", tt.src, gotFile, tt.wantFile)
			}
			if gotAnchor != tt.wantAnchor {
				t.Errorf("SplitSrc(%q) anchor = %q, want %q", tt.src, gotAnchor, tt.wantAnchor)
			}
		})
	}
}

func TestParseNCX_FlatNavPoints(t *testing.T) {
	ncxXML := `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="test-uid-123"/>
    <meta name="dtb:depth" content="1"/>
  </head>
  <docTitle><text>Test Book</text></docTitle>
  <navMap>
    <navPoint id="np1" playOrder="1">
      <navLabel><text>Chapter 1</text></navLabel>
      <content src="chapter1.xhtml"/>
    </navPoint>
    <navPoint id="np2" playOrder="2">
      <navLabel><text>Chapter 2</text></navLabel>
      <content src="chapter2.xhtml"/>
    </navPoint>
    <navPoint id="np3" playOrder="3">
      <navLabel><text>Chapter 3</text></navLabel>
      <content src="chapter3.xhtml#part"/>
    </navPoint>
  </navMap>
</ncx>`

	ncx, err := ParseNCX(ncxXML)
	if err != nil {
		t.Fatalf("ParseNCX() error = %v", err)
	}

	if ncx.Depth != 1 {
		t.Errorf("Depth = %d, want 1", ncx.Depth)
	}
	if len(ncx.NavPoints) != 3 {
		t.Fatalf("got %d nav points, want 3", len(ncx.NavPoints))
	}

	want := []NavPoint{
		{ID: "np1", PlayOrder: 1, Level: 1, Label: "Chapter 1", Src: "chapter1.xhtml"},
		{ID: "np2", PlayOrder: 2, Level: 1, Label: "Chapter 2", Src: "chapter2.xhtml"},
		{ID: "np3", PlayOrder: 3, Level: 1, Label: "Chapter 3", Src: "chapter3.xhtml#part"},
	}

	for i, np := range ncx.NavPoints {
		if np.ID != want[i].ID {
			t.Errorf("NavPoints[%d].ID = %q, want %q", i, np.ID, want[i].ID)
		}
		if np.PlayOrder != want[i].PlayOrder {
			t.Errorf("NavPoints[%d].PlayOrder = %d, want %d", i, np.PlayOrder, want[i].PlayOrder)
		}
		if np.Level != want[i].Level {
			t.Errorf("NavPoints[%d].Level = %d, want %d", i, np.Level, want[i].Level)
		}
		if np.Label != want[i].Label {
			t.Errorf("NavPoints[%d].Label = %q, want %q", i, np.Label, want[i].Label)
		}
		if np.Src != want[i].Src {
			t.Errorf("NavPoints[%d].Src = %q, want %q", i, np.Src, want[i].Src)
		}
	}
}

func TestParseNCX_NestedNavPoints(t *testing.T) {
	ncxXML := `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="nested-uid"/>
    <meta name="dtb:depth" content="3"/>
  </head>
  <navMap>
    <navPoint id="np1" playOrder="1">
      <navLabel><text>Part 1</text></navLabel>
      <content src="part1.xhtml"/>
      <navPoint id="np2" playOrder="2">
        <navLabel><text>Chapter 1.1</text></navLabel>
        <content src="ch1_1.xhtml"/>
        <navPoint id="np3" playOrder="3">
          <navLabel><text>Section 1.1.1</text></navLabel>
          <content src="ch1_1.xhtml#sec1"/>
        </navPoint>
      </navPoint>
      <navPoint id="np4" playOrder="4">
        <navLabel><text>Chapter 1.2</text></navLabel>
        <content src="ch1_2.xhtml"/>
      </navPoint>
    </navPoint>
    <navPoint id="np5" playOrder="5">
      <navLabel><text>Part 2</text></navLabel>
      <content src="part2.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`

	ncx, err := ParseNCX(ncxXML)
	if err != nil {
		t.Fatalf("ParseNCX() error = %v", err)
	}

	if ncx.Depth != 3 {
		t.Errorf("Depth = %d, want 3", ncx.Depth)
	}
	if len(ncx.NavPoints) != 2 {
		t.Fatalf("got %d top-level nav points, want 2", len(ncx.NavPoints))
	}

	p1 := ncx.NavPoints[0]
	if len(p1.Children) != 2 {
		t.Fatalf("NavPoints[0].Children = %d, want 2", len(p1.Children))
	}
	ch11 := p1.Children[0]
	if ch11.Label != "Chapter 1.1" || ch11.Level != 2 {
		t.Errorf("Children[0] = {%q, level %d}, want {%q, level 2}", ch11.Label, ch11.Level, "Chapter 1.1")
	}
	if len(ch11.Children) != 1 {
		t.Fatalf("Children[0].Children = %d, want 1", len(ch11.Children))
	}
	sec := ch11.Children[0]
	if sec.Label != "Section 1.1.1" {
		t.Errorf("Section label = %q, want %q", sec.Label, "Section 1.1.1")
	}
	if sec.Level != 3 {
		t.Errorf("Section level = %d, want 3", sec.Level)
	}
	if sec.Src != "ch1_1.xhtml#sec1" {
		t.Errorf("Section Src = %q, want %q", sec.Src, "ch1_1.xhtml#sec1")
	}

	var ids []string
	for _, np := range ncx.Flatten() {
		ids = append(ids, np.ID)
	}
	if got := strings.Join(ids, ","); got != "np1,np2,np3,np4,np5" {
		t.Errorf("Flatten() ids = %s, want np1,np2,np3,np4,np5", got)
	}
}

func TestParseNCX_OptionalFields(t *testing.T) {
	ncxXML := epubtest.NCX(1, nil)
	ncxXML = strings.Replace(ncxXML, "<navMap>\n", `<navMap>
    <navPoint id="a" playOrder="first"><content src="a.xhtml"/></navPoint>
    <navPoint id="b" playOrder="-3"><navLabel><text>  Spaced  </text></navLabel><content src="b.xhtml"/></navPoint>
    <navPoint id="c" playOrder=" 5 "><content src="c.xhtml"/></navPoint>
`, 1)

	ncx, err := ParseNCX(ncxXML)
	if err != nil {
		t.Fatalf("ParseNCX() error = %v", err)
	}
	if len(ncx.NavPoints) != 3 {
		t.Fatalf("got %d nav points, want 3", len(ncx.NavPoints))
	}
	if ncx.NavPoints[0].PlayOrder != 0 || ncx.NavPoints[1].PlayOrder != 0 {
		t.Errorf("unparsable playOrder should be absent, got %d and %d",
			ncx.NavPoints[0].PlayOrder, ncx.NavPoints[1].PlayOrder)
	}
	if ncx.NavPoints[0].Label != "" {
		t.Errorf("Label = %q, want empty", ncx.NavPoints[0].Label)
	}
	if ncx.NavPoints[1].Label != "Spaced" {
		t.Errorf("Label = %q, want %q", ncx.NavPoints[1].Label, "Spaced")
	}
	if ncx.NavPoints[2].PlayOrder != 5 {
		t.Errorf("PlayOrder = %d, want 5 for padded value", ncx.NavPoints[2].PlayOrder)
	}
}

func TestParseNCX_MislabeledEncoding(t *testing.T) {
	ncxXML := epubtest.NCX(1, []epubtest.NavPoint{{ID: "np1", Label: "Café", Src: "c.xhtml"}})
	ncxXML = strings.Replace(ncxXML, `encoding="UTF-8"`, `encoding="iso-8859-1"`, 1)

	ncx, err := ParseNCX(ncxXML)
	if err != nil {
		t.Fatalf("ParseNCX() error = %v", err)
	}
	if len(ncx.NavPoints) != 1 {
		t.Fatalf("got %d nav points, want 1", len(ncx.NavPoints))
	}
	if got := ncx.NavPoints[0].Label; got != "Café" {
		t.Errorf("Label = %q, want %q", got, "Café")
	}
}

func TestParseNCX_Empty(t *testing.T) {
	ncx, err := ParseNCX(epubtest.NCX(1, nil))
	if err != nil {
		t.Fatalf("ParseNCX() error = %v", err)
	}
	if len(ncx.NavPoints) != 0 {
		t.Errorf("got %d nav points, want 0", len(ncx.NavPoints))
	}
	if len(ncx.Flatten()) != 0 {
		t.Errorf("Flatten() = %d entries, want 0", len(ncx.Flatten()))
	}
}

func TestParseNCX_Malformed(t *testing.T) {
	valid := epubtest.NCX(2, []epubtest.NavPoint{{ID: "np1", Label: "One", Src: "one.xhtml"}})

	tests := []struct {
		name string
		ncx  string
	}{
		{"invalid XML", `<ncx><head>`},
		{"missing head", `<ncx><navMap/></ncx>`},
		{"missing depth", `<ncx><head><meta name="dtb:uid" content="x"/></head><navMap/></ncx>`},
		{"unparsable depth", `<ncx><head><meta name="dtb:depth" content="deep"/></head><navMap/></ncx>`},
		{"duplicated depth", strings.Replace(valid, `<meta name="dtb:depth" content="2"/>`,
			`<meta name="dtb:depth" content="2"/><meta name="dtb:depth" content="3"/>`, 1)},
		{"missing navMap", `<ncx><head><meta name="dtb:depth" content="1"/></head></ncx>`},
		{"navPoint without id", strings.Replace(valid, `<navPoint id="np1">`, `<navPoint>`, 1)},
		{"navPoint without content", strings.Replace(valid, `<content src="one.xhtml"/>`, ``, 1)},
		{"nested navPoint without src", strings.Replace(valid, `<content src="one.xhtml"/>`,
			`<content src="one.xhtml"/><navPoint id="np2"><content/></navPoint>`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ncx, err := ParseNCX(tt.ncx)
			if !errors.Is(err, ErrMalformedNCX) {
				t.Errorf("ParseNCX() error = %v, want ErrMalformedNCX", err)
			}
			if ncx != nil {
				t.Errorf("ParseNCX() = %+v, want nil", ncx)
			}
		})
	}
}
