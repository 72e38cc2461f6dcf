package models

// Section is one exportable unit: an ordered collection of image pages.
// Name doubles as the on-disk collection identifier and the archive base
// filename, so the caller must sanitize it of path-unsafe characters.
type Section struct {
	Name      string
	SourceURL string
	// Pages holds the reading order. Insertion order is reading order;
	// indices are expected ascending starting at 0 but need not be
	// contiguous.
	Pages []*Page
}

// NewSection creates an empty section.
func NewSection(name, sourceURL string) *Section {
	return &Section{
		Name:      name,
		SourceURL: sourceURL,
	}
}

// AddPage appends a page to the reading order.
func (s *Section) AddPage(p *Page) {
	s.Pages = append(s.Pages, p)
}

// PageCount returns the number of registered pages.
func (s *Section) PageCount() int {
	return len(s.Pages)
}

// Cover returns the page with index 0, which is the designated cover
// source, or nil if no such page exists.
func (s *Section) Cover() *Page {
	for _, p := range s.Pages {
		if p.Index == 0 {
			return p
		}
	}
	return nil
}
