// Package corpus drives listing extraction and author enrichment into a
// quote/author corpus.
package corpus

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/quotes-cli/internal/extract"
	"github.com/sells-group/quotes-cli/internal/fetcher"
	"github.com/sells-group/quotes-cli/internal/model"
)

// ErrListingUnavailable is returned when the listing page cannot be fetched.
var ErrListingUnavailable = eris.New("corpus: listing page unavailable")

// Options configures an Assembler.
type Options struct {
	BaseURL       string
	Concurrency   int
	AuthorMode    model.AuthorMode
	MissingAuthor model.MissingAuthorPolicy
}

// Assembler builds a Corpus from the listing page and author detail pages.
type Assembler struct {
	fetcher fetcher.Fetcher
	opts    Options
}

// NewAssembler creates an Assembler. Zero-valued options fall back to a
// single worker, unique authors and the unknown-author policy.
func NewAssembler(f fetcher.Fetcher, opts Options) *Assembler {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.AuthorMode == "" {
		opts.AuthorMode = model.AuthorModeUnique
	}
	if opts.MissingAuthor == "" {
		opts.MissingAuthor = model.MissingAuthorUnknown
	}
	return &Assembler{fetcher: f, opts: opts}
}

// Build fetches the listing page, enriches every quote's author and returns
// both collections in page order.
func (a *Assembler) Build(ctx context.Context) (*model.Corpus, error) {
	log := zap.L().With(zap.String("base_url", a.opts.BaseURL))
	start := time.Now()

	body, ok := a.fetcher.Fetch(ctx, a.opts.BaseURL)
	if !ok {
		return nil, eris.Wrapf(ErrListingUnavailable, "fetch %s", a.opts.BaseURL)
	}

	raws, err := extract.ParseListing(body)
	if err != nil {
		return nil, eris.Wrap(err, "corpus: extract quotes")
	}
	log.Info("extracted quotes", zap.Int("quotes", len(raws)))

	links, jobOf := a.plan(raws)
	authors, err := a.enrich(ctx, links)
	if err != nil {
		return nil, err
	}

	c := a.join(raws, jobOf, authors)
	log.Info("corpus assembled",
		zap.Int("quotes", len(c.Quotes)),
		zap.Int("authors", len(c.Authors)),
		zap.Int("detail_fetches", len(links)),
		zap.String("author_mode", string(a.opts.AuthorMode)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return c, nil
}

// plan returns the detail links to fetch and, for each quote, the index of
// the fetch that enriches it.
func (a *Assembler) plan(raws []extract.RawQuote) ([]string, []int) {
	jobOf := make([]int, len(raws))
	if a.opts.AuthorMode == model.AuthorModePerQuote {
		links := make([]string, len(raws))
		for i, r := range raws {
			links[i] = r.AuthorLink
			jobOf[i] = i
		}
		return links, jobOf
	}

	seen := make(map[string]int, len(raws))
	var links []string
	for i, r := range raws {
		j, ok := seen[r.AuthorLink]
		if !ok {
			j = len(links)
			seen[r.AuthorLink] = j
			links = append(links, r.AuthorLink)
		}
		jobOf[i] = j
	}
	return links, jobOf
}

// enrich fetches every link with a bounded worker pool. A nil entry means the
// detail page could not be fetched.
func (a *Assembler) enrich(ctx context.Context, links []string) ([]*model.Author, error) {
	results := make([]*model.Author, len(links))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for i, link := range links {
		i, link := i, link
		g.Go(func() error {
			author, err := a.enrichOne(gctx, link)
			if err != nil {
				return err
			}
			results[i] = author
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "corpus: enrich")
	}
	return results, nil
}

func (a *Assembler) enrichOne(ctx context.Context, link string) (*model.Author, error) {
	url := extract.ResolveAuthorURL(a.opts.BaseURL, link)
	body, ok := a.fetcher.Fetch(ctx, url)
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrapf(err, "corpus: enrich %s", url)
		}
		zap.L().Warn("author page unavailable", zap.String("url", url))
		return nil, nil
	}

	author, err := extract.ParseAuthorPage(body)
	if err != nil {
		return nil, eris.Wrapf(err, "corpus: enrich %s", url)
	}
	author.ID = model.AuthorIDFromLink(link)
	return &author, nil
}

func (a *Assembler) join(raws []extract.RawQuote, jobOf []int, authors []*model.Author) *model.Corpus {
	c := &model.Corpus{
		Quotes:  make([]model.Quote, 0, len(raws)),
		Authors: make([]model.Author, 0, len(authors)),
	}

	for i, r := range raws {
		q := model.Quote{
			Text:       r.Text,
			AuthorName: r.AuthorName,
			Tags:       r.Tags,
		}
		if author := authors[jobOf[i]]; author != nil {
			q.AuthorID = author.ID
		} else {
			if a.opts.MissingAuthor == model.MissingAuthorSkip {
				zap.L().Warn("skipping quote with unavailable author", zap.String("author", r.AuthorName))
				continue
			}
			q.AuthorUnknown = true
		}
		c.Quotes = append(c.Quotes, q)
	}

	for _, author := range authors {
		if author != nil {
			c.Authors = append(c.Authors, *author)
		}
	}
	return c
}
