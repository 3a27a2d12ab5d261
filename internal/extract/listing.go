// Package extract parses quotes-site HTML into raw records and normalizes
// author biography fields.
package extract

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// ErrMalformedQuote is returned when a quote block lacks a required element.
var ErrMalformedQuote = eris.New("extract: malformed quote block")

// RawQuote is a quote block as it appears on the listing page.
type RawQuote struct {
	Text       string
	AuthorName string
	AuthorLink string
	Tags       []string
}

// ParseListing extracts every div.quote block from a listing page in page
// order. A block missing its text, author name, or author link fails the
// whole page.
func ParseListing(body []byte) ([]RawQuote, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse listing")
	}

	blocks := doc.Find("div.quote")
	quotes := make([]RawQuote, 0, blocks.Length())
	var parseErr error
	blocks.EachWithBreak(func(i int, s *goquery.Selection) bool {
		q, err := parseQuoteBlock(s)
		if err != nil {
			parseErr = eris.Wrapf(err, "quote block %d", i)
			return false
		}
		quotes = append(quotes, q)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return quotes, nil
}

func parseQuoteBlock(s *goquery.Selection) (RawQuote, error) {
	text := s.Find("span.text").First()
	if text.Length() == 0 {
		return RawQuote{}, eris.Wrap(ErrMalformedQuote, "missing span.text")
	}
	author := s.Find("small.author").First()
	if author.Length() == 0 {
		return RawQuote{}, eris.Wrap(ErrMalformedQuote, "missing small.author")
	}
	link, ok := s.Find("span a[href]").First().Attr("href")
	if !ok || link == "" {
		return RawQuote{}, eris.Wrap(ErrMalformedQuote, "missing author link")
	}

	tags := []string{}
	s.Find("div.tags a.tag").Each(func(_ int, t *goquery.Selection) {
		tags = append(tags, cleanText(t.Text()))
	})

	return RawQuote{
		Text:       cleanText(text.Text()),
		AuthorName: cleanText(author.Text()),
		AuthorLink: link,
		Tags:       tags,
	}, nil
}
