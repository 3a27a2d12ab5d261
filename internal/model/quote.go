package model

// Quote is a single quotation scraped from the listing page.
type Quote struct {
	Text       string `json:"text" yaml:"text" bson:"text"`
	AuthorName string `json:"author_name" yaml:"author_name" bson:"author_name"`
	// AuthorID joins the quote to Author.ID. Empty when AuthorUnknown is set.
	AuthorID      string   `json:"author_id" yaml:"author_id" bson:"author_id"`
	AuthorUnknown bool     `json:"author_unknown,omitempty" yaml:"author_unknown,omitempty" bson:"author_unknown,omitempty"`
	Tags          []string `json:"tags" yaml:"tags" bson:"tags"`
}

// Author holds the biography scraped from an author detail page.
type Author struct {
	ID           string `json:"author_id" yaml:"author_id" bson:"author_id"`
	Fullname     string `json:"fullname" yaml:"fullname" bson:"fullname"`
	BornDate     string `json:"born_date" yaml:"born_date" bson:"born_date"`
	BornLocation string `json:"born_location" yaml:"born_location" bson:"born_location"`
	Description  string `json:"description" yaml:"description" bson:"description"`
}
