package converter

// Book is the text-only result of a conversion.
type Book struct {
	Title          string    `json:"title"`
	Author         string    `json:"author,omitempty"`
	Language       string    `json:"language"`
	PrefaceContent string    `json:"preface_content"`
	Chapters       []Chapter `json:"chapters"`
}

// Chapter mirrors one navigation point: its own text plus the chapters of
// its nested navigation points.
type Chapter struct {
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Subchapters []Chapter `json:"subchapters"`
}

// ChapterCount returns the number of chapters in the tree, nested ones included.
func (b *Book) ChapterCount() int {
	return countChapters(b.Chapters)
}

func countChapters(chapters []Chapter) int {
	n := len(chapters)
	for _, ch := range chapters {
		n += countChapters(ch.Subchapters)
	}
	return n
}
