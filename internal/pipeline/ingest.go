// Package pipeline chains the scrape and load stages.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/quotes-cli/internal/model"
	"github.com/sells-group/quotes-cli/internal/store"
)

// CorpusBuilder produces a corpus from the web source.
type CorpusBuilder interface {
	Build(ctx context.Context) (*model.Corpus, error)
}

// SnapshotWriter persists a corpus.
type SnapshotWriter interface {
	Write(c *model.Corpus) error
}

// LoadFunc loads the written snapshot into the document store. It owns the
// store connection so that nothing is opened when scraping fails.
type LoadFunc func(ctx context.Context) (*store.LoadResult, error)

// Report summarizes a pipeline run.
type Report struct {
	Quotes         int
	Authors        int
	UnknownAuthors int
	Load           *store.LoadResult
	Elapsed        time.Duration
}

// Scrape builds the corpus and writes the snapshot. Nothing is written if
// the build fails.
func Scrape(ctx context.Context, b CorpusBuilder, w SnapshotWriter) (*Report, error) {
	start := time.Now()

	c, err := b.Build(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build corpus")
	}
	if dangling := c.DanglingReferences(); len(dangling) > 0 {
		return nil, eris.Errorf("pipeline: %d quotes reference missing authors", len(dangling))
	}
	if err := w.Write(c); err != nil {
		return nil, eris.Wrap(err, "pipeline: write snapshot")
	}

	r := &Report{
		Quotes:  len(c.Quotes),
		Authors: len(c.Authors),
		Elapsed: time.Since(start),
	}
	for _, q := range c.Quotes {
		if q.AuthorUnknown {
			r.UnknownAuthors++
		}
	}
	return r, nil
}

// Ingest runs Scrape and then load. load is only invoked after the snapshot
// has been written.
func Ingest(ctx context.Context, b CorpusBuilder, w SnapshotWriter, load LoadFunc) (*Report, error) {
	start := time.Now()

	r, err := Scrape(ctx, b, w)
	if err != nil {
		return nil, err
	}

	res, err := load(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load snapshot")
	}
	r.Load = res
	r.Elapsed = time.Since(start)

	zap.L().Info("ingest complete",
		zap.Int("quotes", r.Quotes),
		zap.Int("authors", r.Authors),
		zap.Int("unknown_authors", r.UnknownAuthors),
		zap.Duration("elapsed", r.Elapsed),
	)
	return r, nil
}
