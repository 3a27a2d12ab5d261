package model

import "strings"

// AuthorMode controls how many Author records are produced per author.
type AuthorMode string

const (
	// AuthorModePerQuote emits one Author per quote occurrence.
	AuthorModePerQuote AuthorMode = "per_quote"
	// AuthorModeUnique emits one Author per distinct detail-page link.
	AuthorModeUnique AuthorMode = "unique"
)

// MissingAuthorPolicy decides what happens to a quote whose author page
// could not be fetched.
type MissingAuthorPolicy string

const (
	// MissingAuthorUnknown keeps the quote and marks its author as unknown.
	MissingAuthorUnknown MissingAuthorPolicy = "unknown"
	// MissingAuthorSkip drops the quote.
	MissingAuthorSkip MissingAuthorPolicy = "skip"
)

// Corpus is the pair of collections produced by one scrape.
type Corpus struct {
	Quotes  []Quote  `json:"quotes"`
	Authors []Author `json:"authors"`
}

// AuthorIDFromLink derives a stable author identifier from a detail-page
// link, e.g. "/author/Albert-Einstein/" -> "Albert-Einstein".
func AuthorIDFromLink(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	parts := strings.Split(strings.Trim(link, "/"), "/")
	return parts[len(parts)-1]
}

// FindAuthor returns the first author whose full name matches name.
func (c *Corpus) FindAuthor(name string) (Author, bool) {
	for _, a := range c.Authors {
		if a.Fullname == name {
			return a, true
		}
	}
	return Author{}, false
}

// DanglingReferences returns the indexes of quotes whose AuthorID has no
// matching Author in the corpus.
func (c *Corpus) DanglingReferences() []int {
	known := make(map[string]struct{}, len(c.Authors))
	for _, a := range c.Authors {
		known[a.ID] = struct{}{}
	}
	var dangling []int
	for i, q := range c.Quotes {
		if q.AuthorID == "" {
			continue
		}
		if _, ok := known[q.AuthorID]; !ok {
			dangling = append(dangling, i)
		}
	}
	return dangling
}
