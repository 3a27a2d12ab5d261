package extract

import (
	"fmt"
	"strings"
)

type fixtureQuote struct {
	text, author, link string
	tags               []string
}

// listingHTML renders a listing page shaped like quotes.toscrape.com.
func listingHTML(quotes ...fixtureQuote) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="container"><div class="row"><div class="col-md-8">`)
	for _, q := range quotes {
		b.WriteString(`<div class="quote" itemscope itemtype="http://schema.org/CreativeWork">`)
		fmt.Fprintf(&b, `<span class="text" itemprop="text">%s</span>`, q.text)
		fmt.Fprintf(&b, `<span>by <small class="author" itemprop="author">%s</small> <a href="%s">(about)</a></span>`, q.author, q.link)
		b.WriteString(`<div class="tags">Tags: `)
		for _, t := range q.tags {
			fmt.Fprintf(&b, `<a class="tag" href="/tag/%s/page/1/">%s</a> `, t, t)
		}
		b.WriteString(`</div></div>`)
	}
	b.WriteString(`</div></div></div></body></html>`)
	return b.String()
}

// authorHTML renders an author detail page.
func authorHTML(name, born, location, description string) string {
	return fmt.Sprintf(`<html><body><div class="container"><div class="author-details">
<h3 class="author-title">%s</h3>
<p><strong>Born:</strong> <span class="author-born-date">%s</span> <span class="author-born-location">%s</span></p>
<strong>Description:</strong>
<div class="author-description">
        %s
    </div>
</div></div></body></html>`, name, born, location, description)
}
