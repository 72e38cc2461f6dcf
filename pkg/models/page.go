package models

// Page is a single image in a section. Index defines both the reading order
// and the filename stem used for the image and its viewer document.
type Page struct {
	Index     int
	SourceURL string
	// Extension is the image file suffix without the leading dot, e.g. "jpg".
	// Empty until it is known; resource acquisition fills it in (along with
	// MIME) when the page was registered without one.
	Extension string
	// MIME is the media type matching Extension, e.g. "image/jpeg".
	MIME string
}

// NewPage creates a page with the given index and remote image location.
func NewPage(index int, sourceURL string) *Page {
	return &Page{
		Index:     index,
		SourceURL: sourceURL,
	}
}
