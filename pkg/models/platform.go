package models

// Platform describes the source site a section was scraped from. It is
// immutable once constructed and is only used for attribution text in the
// exported book.
type Platform struct {
	Name string
	URL  string
}

// NewPlatform creates a new Platform.
func NewPlatform(name, url string) *Platform {
	return &Platform{
		Name: name,
		URL:  url,
	}
}
