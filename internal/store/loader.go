package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/quotes-cli/internal/model"
)

// LoadMode selects how target collections are replaced.
type LoadMode string

const (
	// LoadModeReplace drops then bulk-inserts each collection in turn. A
	// failure on the second collection leaves the first already replaced.
	LoadModeReplace LoadMode = "replace"
	// LoadModeSwap stages both collections under temporary names and only
	// renames them over the targets once both inserts succeed.
	LoadModeSwap LoadMode = "swap"
)

// SnapshotReader supplies the corpus to load.
type SnapshotReader interface {
	Read() (*model.Corpus, error)
}

// LoaderOptions names the target collections.
type LoaderOptions struct {
	QuotesCollection  string
	AuthorsCollection string
	Mode              LoadMode
}

// LoadResult reports what was written.
type LoadResult struct {
	Mode    LoadMode
	Quotes  int
	Authors int
}

// Loader replaces the quotes and authors collections with a snapshot.
type Loader struct {
	store  Collections
	reader SnapshotReader
	opts   LoaderOptions

	stagingSuffix func() string
}

// NewLoader creates a Loader.
func NewLoader(store Collections, reader SnapshotReader, opts LoaderOptions) *Loader {
	if opts.Mode == "" {
		opts.Mode = LoadModeSwap
	}
	return &Loader{
		store:  store,
		reader: reader,
		opts:   opts,
		stagingSuffix: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
}

type target struct {
	name string
	docs []any
}

// Load reads the snapshot and replaces both collections.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	c, err := l.reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "store: read snapshot")
	}

	targets := []target{
		{name: l.opts.AuthorsCollection, docs: toDocs(c.Authors)},
		{name: l.opts.QuotesCollection, docs: toDocs(c.Quotes)},
	}

	switch l.opts.Mode {
	case LoadModeReplace:
		err = l.replace(ctx, targets)
	case LoadModeSwap:
		err = l.swap(ctx, targets)
	default:
		err = eris.Errorf("store: unsupported load mode %q", l.opts.Mode)
	}
	if err != nil {
		return nil, err
	}

	res := &LoadResult{Mode: l.opts.Mode, Quotes: len(c.Quotes), Authors: len(c.Authors)}
	zap.L().Info("snapshot loaded",
		zap.String("mode", string(res.Mode)),
		zap.Int("quotes", res.Quotes),
		zap.Int("authors", res.Authors),
	)
	return res, nil
}

func (l *Loader) replace(ctx context.Context, targets []target) error {
	for _, t := range targets {
		if err := l.store.Drop(ctx, t.name); err != nil {
			return eris.Wrap(err, "store: replace")
		}
		if err := l.insert(ctx, t.name, t.docs); err != nil {
			return eris.Wrap(err, "store: replace")
		}
	}
	return nil
}

func (l *Loader) swap(ctx context.Context, targets []target) error {
	suffix := l.stagingSuffix()
	staged := make([]string, 0, len(targets))

	cleanup := func() {
		for _, name := range staged {
			if err := l.store.Drop(context.WithoutCancel(ctx), name); err != nil {
				zap.L().Warn("failed to drop staging collection", zap.String("collection", name), zap.Error(err))
			}
		}
	}

	for _, t := range targets {
		name := t.name + "__staging_" + suffix
		staged = append(staged, name)
		if err := l.insert(ctx, name, t.docs); err != nil {
			cleanup()
			return eris.Wrap(err, "store: stage")
		}
	}

	for i, t := range targets {
		var err error
		if len(t.docs) == 0 {
			// Nothing was staged; an empty snapshot empties the target.
			err = l.store.Drop(ctx, t.name)
		} else {
			err = l.store.Rename(ctx, staged[i], t.name)
		}
		if err != nil {
			cleanup()
			return eris.Wrap(err, "store: swap")
		}
	}
	return nil
}

func (l *Loader) insert(ctx context.Context, name string, docs []any) error {
	if len(docs) == 0 {
		return nil
	}
	n, err := l.store.InsertMany(ctx, name, docs)
	if err != nil {
		return err
	}
	zap.L().Debug("inserted documents", zap.String("collection", name), zap.Int("count", n))
	return nil
}

func toDocs[T any](items []T) []any {
	docs := make([]any, len(items))
	for i, item := range items {
		docs[i] = item
	}
	return docs
}
