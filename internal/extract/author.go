package extract

import (
	"bytes"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/quotes-cli/internal/model"
)

// BornDateLayout is the date format used on author detail pages.
const BornDateLayout = "January 2, 2006"

// ErrBadBornDate is returned when a birth date does not match BornDateLayout.
var ErrBadBornDate = eris.New("extract: birth date does not match expected format")

// ErrMalformedAuthor is returned when an author page lacks a required element.
var ErrMalformedAuthor = eris.New("extract: malformed author page")

// ResolveAuthorURL joins the listing base URL with a relative author link.
func ResolveAuthorURL(baseURL, link string) string {
	return strings.TrimSuffix(baseURL, "/") + link
}

// ParseAuthorPage extracts and normalizes an author biography. The returned
// Author has no ID; the caller assigns it from the detail-page link.
func ParseAuthorPage(body []byte) (model.Author, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return model.Author{}, eris.Wrap(err, "extract: parse author page")
	}

	fields := make(map[string]string, 4)
	for _, sel := range []string{"h3.author-title", "span.author-born-date", "span.author-born-location", "div.author-description"} {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			return model.Author{}, eris.Wrapf(ErrMalformedAuthor, "missing %s", sel)
		}
		fields[sel] = node.Text()
	}

	born, err := NormalizeBornDate(fields["span.author-born-date"])
	if err != nil {
		return model.Author{}, err
	}

	return model.Author{
		Fullname:     cleanText(fields["h3.author-title"]),
		BornDate:     born,
		BornLocation: NormalizeBornLocation(fields["span.author-born-location"]),
		Description:  NormalizeDescription(fields["div.author-description"]),
	}, nil
}

// NormalizeBornDate converts "August 17, 1920" to "1920-08-17". Parsing is
// strict: surrounding whitespace or any other deviation is an error.
func NormalizeBornDate(s string) (string, error) {
	t, err := time.Parse(BornDateLayout, s)
	if err != nil {
		return "", eris.Wrapf(ErrBadBornDate, "%q: %v", s, err)
	}
	return t.Format(time.DateOnly), nil
}

// NormalizeBornLocation strips the leading "in " from a birth location.
func NormalizeBornLocation(s string) string {
	return norm.NFC.String(strings.TrimPrefix(s, "in "))
}

// NormalizeDescription trims surrounding whitespace.
func NormalizeDescription(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// cleanText trims and NFC-normalizes element text.
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
