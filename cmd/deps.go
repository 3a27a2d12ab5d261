package main

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/quotes-cli/internal/corpus"
	"github.com/sells-group/quotes-cli/internal/fetcher"
	"github.com/sells-group/quotes-cli/internal/model"
	"github.com/sells-group/quotes-cli/internal/snapshot"
	"github.com/sells-group/quotes-cli/internal/store"
)

func newAssembler() *corpus.Assembler {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: cfg.Source.UserAgent,
		Timeout:   time.Duration(cfg.Source.TimeoutSecs) * time.Second,
		RateLimit: rate.Limit(cfg.Source.RateLimit),
	})
	return corpus.NewAssembler(f, corpus.Options{
		BaseURL:       cfg.Source.BaseURL,
		Concurrency:   cfg.Enrich.Concurrency,
		AuthorMode:    model.AuthorMode(cfg.Enrich.AuthorMode),
		MissingAuthor: model.MissingAuthorPolicy(cfg.Enrich.MissingAuthor),
	})
}

func snapshotPaths() snapshot.Paths {
	return snapshot.NewPaths(cfg.Snapshot.Dir, cfg.Snapshot.QuotesFile, cfg.Snapshot.AuthorsFile)
}

func connectMongo(ctx context.Context, database string) (*store.MongoStore, error) {
	return store.Connect(ctx, store.MongoOptions{
		URI:            cfg.Mongo.URI,
		Database:       database,
		ConnectTimeout: time.Duration(cfg.Mongo.ConnectTimeoutSecs) * time.Second,
	})
}

// loadSnapshot connects, loads the snapshot on disk, and disconnects.
func loadSnapshot(ctx context.Context) (*store.LoadResult, error) {
	st, err := connectMongo(ctx, cfg.Mongo.Database)
	if err != nil {
		return nil, err
	}
	defer st.Close(context.WithoutCancel(ctx)) //nolint:errcheck

	format := snapshot.Format(cfg.Snapshot.Format)
	loader := store.NewLoader(st, snapshot.NewReader(snapshotPaths(), format), store.LoaderOptions{
		QuotesCollection:  cfg.Mongo.QuotesCollection,
		AuthorsCollection: cfg.Mongo.AuthorsCollection,
		Mode:              store.LoadMode(cfg.Mongo.LoadMode),
	})
	return loader.Load(ctx)
}
