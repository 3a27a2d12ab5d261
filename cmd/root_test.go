package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/quotes-cli/internal/config"
	"github.com/sells-group/quotes-cli/internal/store"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"scrape", "load", "ingest", "cats"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "quotes-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCatsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range catsCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"add", "list", "find", "set-age", "add-feature", "delete", "delete-all", "drop", "demo"}
	for _, name := range expected {
		assert.True(t, names[name], "expected cats subcommand %q not found", name)
	}
}

func TestCatsAddCommand_Flags(t *testing.T) {
	flag := catsAddCmd.Flags().Lookup("feature")
	require.NotNil(t, flag, "cats add should have --feature flag")
	assert.Equal(t, "[]", flag.DefValue)
}

func TestParseAge(t *testing.T) {
	age, err := parseAge("5")
	require.NoError(t, err)
	assert.Equal(t, 5, age)

	_, err = parseAge("five")
	assert.Error(t, err)
	_, err = parseAge("-1")
	assert.Error(t, err)
}

// testConfig loads defaults from an empty directory and points snapshots at it.
func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	c, err := config.Load()
	require.NoError(t, err)
	c.Snapshot.Dir = dir
	c.Source.RateLimit = 0
	c.Mongo.URI = "mongodb://127.0.0.1:1/"
	c.Mongo.ConnectTimeoutSecs = 1
	cfg = c
	return dir
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	t.Cleanup(func() { cmd.SetOut(nil) })
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

const listingPage = `<html><body>
<div class="quote">
  <span class="text">“Be yourself.”</span>
  <span>by <small class="author">Oscar Wilde</small> <a href="/author/Oscar-Wilde">(about)</a></span>
  <div class="tags"><a class="tag">life</a></div>
</div>
</body></html>`

const authorPage = `<html><body>
<h3 class="author-title">Oscar Wilde</h3>
<span class="author-born-date">October 16, 1854</span>
<span class="author-born-location">in Dublin, Ireland</span>
<div class="author-description">  Irish poet.  </div>
</body></html>`

func quotesSite(t *testing.T, listingStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(listingStatus)
		_, _ = w.Write([]byte(listingPage))
	})
	mux.HandleFunc("/author/Oscar-Wilde", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(authorPage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeCommand_WritesSnapshot(t *testing.T) {
	dir := testConfig(t)
	cfg.Source.BaseURL = quotesSite(t, http.StatusOK).URL + "/"

	_, err := runCommand(t, scrapeCmd)
	require.NoError(t, err)

	quotes, err := os.ReadFile(filepath.Join(dir, "quotes.json"))
	require.NoError(t, err)
	assert.Contains(t, string(quotes), `"author_id": "Oscar-Wilde"`)
	assert.Contains(t, string(quotes), "“Be yourself.”")

	authors, err := os.ReadFile(filepath.Join(dir, "authors.json"))
	require.NoError(t, err)
	assert.Contains(t, string(authors), `"born_date": "1854-10-16"`)
	assert.Contains(t, string(authors), `"born_location": "Dublin, Ireland"`)
	assert.Contains(t, string(authors), `"description": "Irish poet."`)
}

func TestScrapeCommand_ListingUnavailable(t *testing.T) {
	dir := testConfig(t)
	cfg.Source.BaseURL = quotesSite(t, http.StatusNotFound).URL + "/"

	_, err := runCommand(t, scrapeCmd)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "quotes.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestIngestCommand_StoreUnavailable(t *testing.T) {
	dir := testConfig(t)
	cfg.Source.BaseURL = quotesSite(t, http.StatusOK).URL + "/"

	_, err := runCommand(t, ingestCmd)
	require.Error(t, err)

	// The snapshot is written before the load is attempted.
	_, statErr := os.Stat(filepath.Join(dir, "authors.json"))
	assert.NoError(t, statErr)
}

func TestLoadCommand_MissingSnapshot(t *testing.T) {
	testConfig(t)

	_, err := runCommand(t, loadCmd)
	assert.Error(t, err)
}

func TestCatsCommand_InvalidURIIsFatal(t *testing.T) {
	testConfig(t)
	cfg.Mongo.URI = "bogus://localhost"

	out, err := runCommand(t, catsListCmd)
	require.Error(t, err)
	assert.True(t, store.IsConfig(err))
	assert.Empty(t, out)
}

func TestCatsCommand_UnavailableIsReported(t *testing.T) {
	testConfig(t)

	out, err := runCommand(t, catsListCmd)
	require.NoError(t, err)
	assert.Equal(t, "Error: MongoDB server is unavailable.\n", out)
}
