package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/wikicat/internal/model"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test file in t.TempDir
	require.NoError(t, err)
	return string(data)
}

func TestCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "out.csv")
		s, err := Create(path)
		require.NoError(t, err)
		require.NoError(t, s.Close())

		assert.FileExists(t, path)
		assert.Equal(t, path, s.Path())
	})

	t.Run("truncates existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.csv")
		require.NoError(t, os.WriteFile(path, []byte("stale content\n"), 0o600))

		s, err := Create(path)
		require.NoError(t, err)
		require.NoError(t, s.WriteHeader())
		require.NoError(t, s.Close())

		assert.Equal(t, "title,url\n", readFile(t, path))
	})

	t.Run("unwritable location is a sink error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o600))

		_, err := Create(filepath.Join(blocker, "out.csv"))
		assert.ErrorIs(t, err, ErrSink)
	})
}

func TestCSVSink_WriteRecord(t *testing.T) {
	t.Parallel()

	t.Run("rows are visible before close", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.csv")
		s, err := Create(path)
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.WriteHeader())
		require.NoError(t, s.WriteRecord(model.Record{Title: "Alpha", URL: "https://en.wikipedia.org/wiki/Alpha"}))

		assert.Equal(t, "title,url\nAlpha,https://en.wikipedia.org/wiki/Alpha\n", readFile(t, path))
		assert.Equal(t, 1, s.Rows())
	})

	t.Run("quotes fields that need it", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.csv")
		s, err := Create(path)
		require.NoError(t, err)

		require.NoError(t, s.WriteHeader())
		require.NoError(t, s.WriteRecord(model.Record{Title: `Data, "big" and small`, URL: "https://example.org/a"}))
		require.NoError(t, s.WriteRecord(model.Record{Title: "", URL: "https://example.org/b"}))
		require.NoError(t, s.Close())

		want := "title,url\n" +
			`"Data, ""big"" and small",https://example.org/a` + "\n" +
			",https://example.org/b\n"
		assert.Equal(t, want, readFile(t, path))
	})

	t.Run("tab delimiter", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.tsv")
		s, err := Create(path, WithDelimiter(DelimiterFor("tsv")))
		require.NoError(t, err)

		require.NoError(t, s.WriteHeader())
		require.NoError(t, s.WriteRecord(model.Record{Title: "Alpha", URL: "https://example.org/a"}))
		require.NoError(t, s.Close())

		assert.Equal(t, "title\turl\nAlpha\thttps://example.org/a\n", readFile(t, path))
	})

	t.Run("CRLF line endings", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.csv")
		s, err := Create(path, WithCRLF())
		require.NoError(t, err)

		require.NoError(t, s.WriteHeader())
		require.NoError(t, s.Close())

		assert.Equal(t, "title,url\r\n", readFile(t, path))
	})

	t.Run("write after close fails", func(t *testing.T) {
		t.Parallel()

		s, err := Create(filepath.Join(t.TempDir(), "out.csv"))
		require.NoError(t, err)
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())

		err = s.WriteRecord(model.Record{Title: "late", URL: "https://example.org"})
		assert.ErrorIs(t, err, ErrSink)
		assert.Equal(t, 0, s.Rows())
	})
}

func TestDelimiterFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Comma, DelimiterFor("csv"))
	assert.Equal(t, Tab, DelimiterFor("TSV"))
	assert.Equal(t, Comma, DelimiterFor(""))
}
