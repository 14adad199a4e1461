package contextitem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Release Notes</title></head>
<body>
<nav><a href="/">Home</a> | <a href="/about">About</a></nav>
<article>
<h1>Release Notes</h1>
<p>Version two of the library adds streaming support to every model adapter. The change keeps the existing request types and adds a partial flag to each response chunk.</p>
<p>Callers that ignore partial chunks keep working without modification. Callers that want incremental output can print each chunk as it arrives and replace it with the final message.</p>
<p>The release also fixes a bug where tool results were sent with the wrong role to one of the providers, which caused the follow-up request to be rejected.</p>
</article>
<footer>Copyright</footer>
</body>
</html>`

func TestFetchWebPage(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	item, err := FetchWebPage(context.Background(), srv.URL+"/notes", func(o *WebPageOptions) {
		o.Client = srv.Client()
		o.UserAgent = "test-agent"
	})
	require.NoError(t, err)

	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, srv.URL+"/notes", item.Source())
	assert.Contains(t, item.Content(), "streaming support")
	assert.NotContains(t, item.Content(), "<p>")
	assert.Contains(t, item.String(), "(source: "+srv.URL+"/notes)\n```\n")
}

func TestFetchWebPage_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := FetchWebPage(context.Background(), srv.URL, func(o *WebPageOptions) {
		o.Client = srv.Client()
	})
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestFetchWebPage_BadURL(t *testing.T) {
	_, err := FetchWebPage(context.Background(), "ftp://example.com/file")
	assert.ErrorContains(t, err, "unsupported url scheme")

	_, err = FetchWebPage(context.Background(), "://nope")
	assert.Error(t, err)
}

func TestWebPageItem_Description(t *testing.T) {
	assert.Equal(t, "The content of a web page", (&WebPageItem{}).Description())
	assert.Equal(t, "The content of the web page 'X'", (&WebPageItem{Title: "X"}).Description())
}
