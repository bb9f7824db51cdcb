package crawler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/wikicat/internal/model"
)

const testOrigin = "https://en.wikipedia.org/"

func extract(t *testing.T, ex *Extractor, doc string) model.PageResult {
	t.Helper()
	root, err := ParseDocument(strings.NewReader(doc))
	require.NoError(t, err)
	return ex.Extract(root)
}

func newTestExtractor(t *testing.T, opts ...ExtractorOption) *Extractor {
	t.Helper()
	ex, err := NewExtractor(testOrigin, opts...)
	require.NoError(t, err)
	return ex
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestParseDocument(t *testing.T) {
	t.Parallel()

	t.Run("malformed markup still parses", func(t *testing.T) {
		t.Parallel()

		root, err := ParseDocument(strings.NewReader(`<div id="mw-pages"><ul><li><a href="/wiki/A">A`))
		require.NoError(t, err)
		assert.NotNil(t, root)
	})

	t.Run("reader failure is a parse error", func(t *testing.T) {
		t.Parallel()

		_, err := ParseDocument(failingReader{})
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestNewExtractor(t *testing.T) {
	t.Parallel()

	for _, origin := range []string{"", "/wiki/", "en.wikipedia.org", "://missing-scheme"} {
		_, err := NewExtractor(origin)
		assert.ErrorIs(t, err, ErrInvalidOrigin, origin)
	}
}

func TestExtractor_Records(t *testing.T) {
	t.Parallel()

	t.Run("preserves document order and resolves against origin", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body><div id="mw-pages"><ul>
			<li><a href="/wiki/Zeta">Zeta</a></li>
			<li><a href="/wiki/Alpha">  Alpha
			</a></li>
			<li><a href="https://example.org/absolute">Absolute</a></li>
			<li><a href="/wiki/Alpha">Alpha</a></li>
		</ul></div></body></html>`

		result := extract(t, newTestExtractor(t), doc)

		assert.Equal(t, []model.Record{
			{Title: "Zeta", URL: "https://en.wikipedia.org/wiki/Zeta"},
			{Title: "Alpha", URL: "https://en.wikipedia.org/wiki/Alpha"},
			{Title: "Absolute", URL: "https://example.org/absolute"},
			{Title: "Alpha", URL: "https://en.wikipedia.org/wiki/Alpha"},
		}, result.Records)
		assert.False(t, result.HasNext())
	})

	t.Run("item without href yields one fewer record", func(t *testing.T) {
		t.Parallel()

		doc := `<div id="mw-pages"><ul>
			<li><a href="/wiki/A">A</a></li>
			<li><a>No target</a></li>
			<li><a href="">Empty target</a></li>
			<li><a href="/wiki/B">B</a></li>
		</ul></div>`

		result := extract(t, newTestExtractor(t), doc)

		require.Len(t, result.Records, 2)
		assert.Equal(t, "A", result.Records[0].Title)
		assert.Equal(t, "B", result.Records[1].Title)
	})

	t.Run("unparseable href is skipped", func(t *testing.T) {
		t.Parallel()

		doc := `<div id="mw-pages"><ul>
			<li><a href="http://[::1">Broken</a></li>
			<li><a href="/wiki/Ok">Ok</a></li>
		</ul></div>`

		result := extract(t, newTestExtractor(t), doc)

		require.Len(t, result.Records, 1)
		assert.Equal(t, "https://en.wikipedia.org/wiki/Ok", result.Records[0].URL)
	})

	t.Run("empty title is kept", func(t *testing.T) {
		t.Parallel()

		doc := `<div id="mw-pages"><ul><li><a href="/wiki/Blank">   </a></li></ul></div>`

		result := extract(t, newTestExtractor(t), doc)

		assert.Equal(t, []model.Record{{Title: "", URL: "https://en.wikipedia.org/wiki/Blank"}}, result.Records)
	})

	t.Run("only direct li children count", func(t *testing.T) {
		t.Parallel()

		doc := `<div id="mw-pages">
			<a href="/wiki/Loose">Loose</a>
			<ul>
				<li><span><a href="/wiki/Nested">Nested</a></span></li>
				<li><a href="/wiki/Direct">Direct</a></li>
			</ul>
		</div>
		<ul><li><a href="/wiki/Outside">Outside</a></li></ul>`

		result := extract(t, newTestExtractor(t), doc)

		require.Len(t, result.Records, 1)
		assert.Equal(t, "Direct", result.Records[0].Title)
	})

	t.Run("missing container is an empty result", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body><div id="mw-subcategories"><ul>
			<li><a href="/wiki/Category:Sub">Sub</a></li>
		</ul><a href="/w/index.php?title=X&amp;pagefrom=Y">next page</a></div></body></html>`

		result := extract(t, newTestExtractor(t), doc)

		assert.NotNil(t, result.Records)
		assert.Empty(t, result.Records)
		assert.Empty(t, result.NextURL)
	})

	t.Run("only the first container is used", func(t *testing.T) {
		t.Parallel()

		doc := `<div id="mw-pages"><ul><li><a href="/wiki/First">First</a></li></ul></div>
			<div id="mw-pages"><ul><li><a href="/wiki/Second">Second</a></li></ul></div>`

		result := extract(t, newTestExtractor(t), doc)

		require.Len(t, result.Records, 1)
		assert.Equal(t, "First", result.Records[0].Title)
	})
}

func TestExtractor_NextURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "next page text",
			doc:  `<div id="mw-pages"><a href="/wiki/Category:X?from=B">next page</a></div>`,
			want: "https://en.wikipedia.org/wiki/Category:X?from=B",
		},
		{
			name: "text comparison trims and ignores case",
			doc:  `<div id="mw-pages"><a href="/next">  Next Page </a></div>`,
			want: "https://en.wikipedia.org/next",
		},
		{
			name: "continuation parameter after question mark",
			doc:  `<div id="mw-pages"><a href="/wiki/Category:X?pagefrom=M">more</a></div>`,
			want: "https://en.wikipedia.org/wiki/Category:X?pagefrom=M",
		},
		{
			name: "continuation parameter after ampersand",
			doc:  `<div id="mw-pages"><a href="/w/index.php?title=Category:X&amp;pagefrom=M#mw-pages">(next)</a></div>`,
			want: "https://en.wikipedia.org/w/index.php?title=Category:X&pagefrom=M#mw-pages",
		},
		{
			name: "pagefrom anchor before next page text wins",
			doc: `<div id="mw-pages">
				<a href="/w/index.php?title=Category:X&amp;pagefrom=First">(previous page)</a>
				<a href="/w/index.php?title=Category:X&amp;pageuntil=Z">next page</a>
			</div>`,
			want: "https://en.wikipedia.org/w/index.php?title=Category:X&pagefrom=First",
		},
		{
			name: "next page text before pagefrom anchor wins",
			doc: `<div id="mw-pages">
				<a href="/wiki/TextFirst">next page</a>
				<a href="/w/index.php?pagefrom=Later">later</a>
			</div>`,
			want: "https://en.wikipedia.org/wiki/TextFirst",
		},
		{
			name: "parameter name must be exact",
			doc:  `<div id="mw-pages"><a href="/w/index.php?xpagefrom=M">more</a></div>`,
			want: "",
		},
		{
			name: "next page without href resolves to origin",
			doc:  `<div id="mw-pages"><a>next page</a></div>`,
			want: "https://en.wikipedia.org/",
		},
		{
			name: "anchors outside the container are ignored",
			doc:  `<div id="mw-pages"><ul></ul></div><a href="/elsewhere">next page</a>`,
			want: "",
		},
		{
			name: "no next anchor",
			doc:  `<div id="mw-pages"><ul><li><a href="/wiki/A">A</a></li></ul></div>`,
			want: "",
		},
	}

	ex := newTestExtractor(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := extract(t, ex, tt.doc)
			assert.Equal(t, tt.want, result.NextURL)
		})
	}
}

func TestExtractor_Options(t *testing.T) {
	t.Parallel()

	ex, err := NewExtractor("https://wiki.example.org/base/",
		WithContainerSelector("section.members"),
		WithItemSelector("a.member"),
		WithNextText("More"),
		WithContinuationParam("cursor"),
	)
	require.NoError(t, err)

	doc := `<section class="members">
		<a class="member" href="one">One</a>
		<a href="skip">Not a member</a>
		<a class="member" href="/two">Two</a>
		<a href="/list?pagefrom=ignored">pagefrom is not the parameter here</a>
		<a href="/list?cursor=abc">more results</a>
		<a href="/list?page=2">more</a>
	</section>`

	result := extract(t, ex, doc)

	assert.Equal(t, []model.Record{
		{Title: "One", URL: "https://wiki.example.org/base/one"},
		{Title: "Two", URL: "https://wiki.example.org/two"},
	}, result.Records)
	assert.Equal(t, "https://wiki.example.org/list?cursor=abc", result.NextURL)
}
