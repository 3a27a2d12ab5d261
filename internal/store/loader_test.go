package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/quotes-cli/internal/model"
)

// memCollections is an in-memory Collections with failure injection.
type memCollections struct {
	mu    sync.Mutex
	colls map[string][]any
	fail  map[string]error // keyed by "op:name"
	ops   []string
}

func newMemCollections() *memCollections {
	return &memCollections{colls: map[string][]any{}, fail: map[string]error{}}
}

func (m *memCollections) record(op, name string) error {
	m.ops = append(m.ops, op+":"+name)
	return m.fail[op+":"+name]
}

func (m *memCollections) Drop(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("drop", name); err != nil {
		return err
	}
	delete(m.colls, name)
	return nil
}

func (m *memCollections) InsertMany(_ context.Context, name string, docs []any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("insert", name); err != nil {
		return 0, err
	}
	m.colls[name] = append(m.colls[name], docs...)
	return len(docs), nil
}

func (m *memCollections) Rename(_ context.Context, source, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("rename", source); err != nil {
		return err
	}
	docs, ok := m.colls[source]
	if !ok {
		return errors.New("source namespace does not exist")
	}
	m.colls[target] = docs
	delete(m.colls, source)
	return nil
}

func (m *memCollections) names() []string {
	var out []string
	for k := range m.colls {
		out = append(out, k)
	}
	return out
}

type staticReader struct {
	corpus *model.Corpus
	err    error
}

func (r staticReader) Read() (*model.Corpus, error) { return r.corpus, r.err }

func testCorpus() *model.Corpus {
	return &model.Corpus{
		Quotes: []model.Quote{
			{Text: "a", AuthorName: "Albert Einstein", AuthorID: "Albert-Einstein", Tags: []string{"x"}},
			{Text: "b", AuthorName: "Jane Austen", AuthorID: "Jane-Austen", Tags: []string{}},
		},
		Authors: []model.Author{
			{ID: "Albert-Einstein", Fullname: "Albert Einstein", BornDate: "1879-03-14"},
			{ID: "Jane-Austen", Fullname: "Jane Austen", BornDate: "1775-12-16"},
		},
	}
}

func newTestLoader(m Collections, c *model.Corpus, mode LoadMode) *Loader {
	l := NewLoader(m, staticReader{corpus: c}, LoaderOptions{
		QuotesCollection:  "quotes",
		AuthorsCollection: "authors",
		Mode:              mode,
	})
	l.stagingSuffix = func() string { return "run1" }
	return l
}

func TestLoad_Modes(t *testing.T) {
	for _, mode := range []LoadMode{LoadModeReplace, LoadModeSwap} {
		t.Run(string(mode), func(t *testing.T) {
			m := newMemCollections()
			m.colls["quotes"] = []any{"stale"}
			m.colls["authors"] = []any{"stale"}

			res, err := newTestLoader(m, testCorpus(), mode).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, &LoadResult{Mode: mode, Quotes: 2, Authors: 2}, res)

			require.Len(t, m.colls["quotes"], 2)
			require.Len(t, m.colls["authors"], 2)
			assert.Equal(t, "a", m.colls["quotes"][0].(model.Quote).Text)
			assert.Equal(t, "Albert Einstein", m.colls["authors"][0].(model.Author).Fullname)
			assert.ElementsMatch(t, []string{"quotes", "authors"}, m.names(), "no staging leftovers")
		})
	}
}

func TestLoad_Idempotent(t *testing.T) {
	for _, mode := range []LoadMode{LoadModeReplace, LoadModeSwap} {
		t.Run(string(mode), func(t *testing.T) {
			m := newMemCollections()
			l := newTestLoader(m, testCorpus(), mode)

			_, err := l.Load(context.Background())
			require.NoError(t, err)
			first := map[string][]any{"quotes": m.colls["quotes"], "authors": m.colls["authors"]}

			_, err = l.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, first["quotes"], m.colls["quotes"])
			assert.Equal(t, first["authors"], m.colls["authors"])
		})
	}
}

func TestLoad_ReplaceDropsBeforeInsert(t *testing.T) {
	m := newMemCollections()
	_, err := newTestLoader(m, testCorpus(), LoadModeReplace).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"drop:authors", "insert:authors", "drop:quotes", "insert:quotes"}, m.ops)
}

// Replace mode has no cross-collection atomicity: a failure on quotes
// leaves authors already replaced and quotes dropped.
func TestLoad_ReplacePartialFailure(t *testing.T) {
	m := newMemCollections()
	m.colls["quotes"] = []any{"stale"}
	m.colls["authors"] = []any{"stale"}
	m.fail["insert:quotes"] = errors.New("write failed")

	_, err := newTestLoader(m, testCorpus(), LoadModeReplace).Load(context.Background())
	require.Error(t, err)

	assert.Len(t, m.colls["authors"], 2)
	_, ok := m.colls["quotes"]
	assert.False(t, ok)
}

func TestLoad_SwapFailureLeavesLiveCollections(t *testing.T) {
	m := newMemCollections()
	m.colls["quotes"] = []any{"stale-q"}
	m.colls["authors"] = []any{"stale-a"}
	m.fail["insert:quotes__staging_run1"] = errors.New("write failed")

	_, err := newTestLoader(m, testCorpus(), LoadModeSwap).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store: stage")

	assert.Equal(t, []any{"stale-q"}, m.colls["quotes"])
	assert.Equal(t, []any{"stale-a"}, m.colls["authors"])
	assert.ElementsMatch(t, []string{"quotes", "authors"}, m.names(), "staging collections cleaned up")
}

func TestLoad_SwapEmptySnapshot(t *testing.T) {
	m := newMemCollections()
	m.colls["quotes"] = []any{"stale-q"}
	m.colls["authors"] = []any{"stale-a"}

	res, err := newTestLoader(m, &model.Corpus{}, LoadModeSwap).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Quotes)
	assert.Empty(t, m.names())
	for _, op := range m.ops {
		assert.False(t, strings.HasPrefix(op, "insert:"), "no empty bulk insert: %s", op)
	}
}

func TestLoad_PermissionIsFatal(t *testing.T) {
	m := newMemCollections()
	m.fail["drop:authors"] = eris.Wrap(ErrPermission, "drop authors")

	_, err := newTestLoader(m, testCorpus(), LoadModeReplace).Load(context.Background())
	require.Error(t, err)
	assert.True(t, IsPermission(err))
	assert.Equal(t, []string{"drop:authors"}, m.ops)
}

func TestLoad_ReadError(t *testing.T) {
	m := newMemCollections()
	l := NewLoader(m, staticReader{err: errors.New("no such file")}, LoaderOptions{QuotesCollection: "quotes", AuthorsCollection: "authors"})

	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read snapshot")
	assert.Empty(t, m.ops, "nothing touched when snapshot cannot be read")
}

func TestLoad_UnsupportedMode(t *testing.T) {
	_, err := newTestLoader(newMemCollections(), testCorpus(), LoadMode("merge")).Load(context.Background())
	assert.Error(t, err)
}

// --- mock-based ordering check for swap mode ---

type mockCollections struct {
	mock.Mock
}

func (m *mockCollections) Drop(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *mockCollections) InsertMany(ctx context.Context, name string, docs []any) (int, error) {
	args := m.Called(ctx, name, docs)
	return args.Int(0), args.Error(1)
}

func (m *mockCollections) Rename(ctx context.Context, source, target string) error {
	return m.Called(ctx, source, target).Error(0)
}

func TestLoad_SwapRenamesAfterStaging(t *testing.T) {
	ctx := context.Background()
	m := &mockCollections{}

	stageA := m.On("InsertMany", ctx, "authors__staging_run1", mock.Anything).Return(2, nil).Once()
	stageQ := m.On("InsertMany", ctx, "quotes__staging_run1", mock.Anything).Return(2, nil).Once().NotBefore(stageA)
	renameA := m.On("Rename", ctx, "authors__staging_run1", "authors").Return(nil).Once().NotBefore(stageQ)
	m.On("Rename", ctx, "quotes__staging_run1", "quotes").Return(nil).Once().NotBefore(renameA)

	_, err := newTestLoader(m, testCorpus(), LoadModeSwap).Load(ctx)
	require.NoError(t, err)
	m.AssertExpectations(t)
	m.AssertNotCalled(t, "Drop", mock.Anything, mock.Anything)
}

func TestNewLoader_DefaultMode(t *testing.T) {
	l := NewLoader(newMemCollections(), staticReader{}, LoaderOptions{})
	assert.Equal(t, LoadModeSwap, l.opts.Mode)
	assert.Len(t, l.stagingSuffix(), 32)
}
