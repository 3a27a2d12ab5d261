// Package snapshot persists a corpus to two human-readable files and reads
// it back.
package snapshot

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/quotes-cli/internal/model"
)

// Format is the serialization used for snapshot files.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Paths locates the two snapshot files.
type Paths struct {
	Quotes  string
	Authors string
}

// NewPaths joins the file names onto dir.
func NewPaths(dir, quotesFile, authorsFile string) Paths {
	return Paths{
		Quotes:  filepath.Join(dir, quotesFile),
		Authors: filepath.Join(dir, authorsFile),
	}
}

// Writer writes snapshot files, overwriting any previous snapshot in place.
type Writer struct {
	paths  Paths
	format Format
}

// NewWriter creates a Writer. An empty format means JSON.
func NewWriter(paths Paths, format Format) *Writer {
	if format == "" {
		format = FormatJSON
	}
	return &Writer{paths: paths, format: format}
}

// Write serializes quotes and authors to their files.
func (w *Writer) Write(c *model.Corpus) error {
	quotes := c.Quotes
	if quotes == nil {
		quotes = []model.Quote{}
	}
	for i := range quotes {
		if quotes[i].Tags == nil {
			quotes[i].Tags = []string{}
		}
	}
	authors := c.Authors
	if authors == nil {
		authors = []model.Author{}
	}

	if err := writeFile(w.paths.Quotes, w.format, quotes); err != nil {
		return eris.Wrap(err, "snapshot: write quotes")
	}
	if err := writeFile(w.paths.Authors, w.format, authors); err != nil {
		return eris.Wrap(err, "snapshot: write authors")
	}

	zap.L().Info("snapshot written",
		zap.String("quotes_path", w.paths.Quotes),
		zap.Int("quotes", len(quotes)),
		zap.String("authors_path", w.paths.Authors),
		zap.Int("authors", len(authors)),
	)
	return nil
}

func writeFile(path string, format Format, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "create dir")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	if err := encode(f, format, v); err != nil {
		return err
	}
	return eris.Wrap(f.Close(), "close file")
}

func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		return eris.Wrap(enc.Encode(v), "encode json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(4)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "close yaml encoder")
	default:
		return eris.Errorf("unsupported snapshot format %q", format)
	}
}

// Reader loads a snapshot written by Writer.
type Reader struct {
	paths  Paths
	format Format
}

// NewReader creates a Reader. An empty format means JSON.
func NewReader(paths Paths, format Format) *Reader {
	if format == "" {
		format = FormatJSON
	}
	return &Reader{paths: paths, format: format}
}

// Read loads both collections.
func (r *Reader) Read() (*model.Corpus, error) {
	c := &model.Corpus{}
	if err := readFile(r.paths.Quotes, r.format, &c.Quotes); err != nil {
		return nil, eris.Wrap(err, "snapshot: read quotes")
	}
	if err := readFile(r.paths.Authors, r.format, &c.Authors); err != nil {
		return nil, eris.Wrap(err, "snapshot: read authors")
	}
	return c, nil
}

func readFile(path string, format Format, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrap(err, "read file")
	}
	switch format {
	case FormatJSON:
		return eris.Wrapf(json.Unmarshal(data, v), "decode json %s", path)
	case FormatYAML:
		return eris.Wrapf(yaml.Unmarshal(data, v), "decode yaml %s", path)
	default:
		return eris.Errorf("unsupported snapshot format %q", format)
	}
}
