package contextitem

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/go-shiori/go-readability"
)

// DefaultUserAgent is sent when fetching web pages.
const DefaultUserAgent = "Mozilla/5.0 (compatible; agentctx/1.0)"

// WebPageOptions configures FetchWebPage.
type WebPageOptions struct {
	Client    *http.Client
	UserAgent string
	Timeout   time.Duration
	// MaxBytes caps the response body that is parsed.
	MaxBytes int64
}

// WebPageItem is the readable content of a web page, fetched once and
// converted to Markdown.
type WebPageItem struct {
	URL      string
	Title    string
	Markdown string
}

// FetchWebPage downloads url, extracts the main article with readability
// and converts it to Markdown.
func FetchWebPage(ctx context.Context, rawURL string, optFns ...func(o *WebPageOptions)) (*WebPageItem, error) {
	opts := WebPageOptions{
		Client:    http.DefaultClient,
		UserAgent: DefaultUserAgent,
		Timeout:   30 * time.Second,
		MaxBytes:  5 << 20,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if opts.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, opts.MaxBytes)
	}

	article, err := readability.FromReader(body, u)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", rawURL, err)
	}

	converter := md.NewConverter("", true, nil)

	markdown, err := converter.ConvertString(article.Content)
	if err != nil {
		markdown = article.TextContent
	}

	return &WebPageItem{
		URL:      rawURL,
		Title:    article.Title,
		Markdown: strings.TrimSpace(markdown),
	}, nil
}

// Source returns the page URL.
func (w *WebPageItem) Source() string { return w.URL }

// Description names the page by title when one was found.
func (w *WebPageItem) Description() string {
	if w.Title != "" {
		return fmt.Sprintf("The content of the web page '%s'", w.Title)
	}
	return "The content of a web page"
}

// Content returns the page as Markdown.
func (w *WebPageItem) Content() string { return w.Markdown }

func (w *WebPageItem) String() string {
	return render(w.Description(), w.Source(), w.Content())
}
