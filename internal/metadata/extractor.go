// Package metadata derives display metadata (title, description, image)
// from a URL's page content.
package metadata

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Result is the best-effort outcome of one extraction. Every field is
// optional; the zero Result means nothing usable was obtained, which is
// a valid outcome, not an error.
type Result struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	CanonicalURL string `json:"canonicalUrl,omitempty"`
}

// Empty reports whether the extraction produced nothing at all.
func (r Result) Empty() bool {
	return r == Result{}
}

// Extractor fetches a page once and scrapes standard metadata
// conventions (Open Graph, Twitter cards, meta description, <title>).
//
// Enrichment is best-effort: Extract never returns an error. Network
// faults, non-2xx responses, timeouts, and parse failures all collapse
// into an empty Result so ingestion is never blocked by a page that
// cannot be scraped.
type Extractor struct {
	client    *http.Client
	userAgent string
	maxBody   int64
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout bounds the full request (dial, headers, body).
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.client.Timeout = d }
}

// WithUserAgent sets the client identity string. Some servers reject
// unidentified clients, so callers should pass a realistic one.
func WithUserAgent(ua string) Option {
	return func(e *Extractor) { e.userAgent = ua }
}

// WithMaxBody caps how many response bytes are read and parsed.
func WithMaxBody(n int64) Option {
	return func(e *Extractor) { e.maxBody = n }
}

// WithLogger sets the logger used for debug traces of absorbed failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates an Extractor with a 10 second timeout, a desktop
// browser User-Agent, and a 2 MiB body cap unless overridden.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 niftynet/1.0",
		maxBody:   2 << 20,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract issues a single GET against rawURL and scrapes page metadata.
// Repeated calls are independent and idempotent against an unchanged
// page; there is no retry and no cache.
func (e *Extractor) Extract(ctx context.Context, rawURL string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		e.logger.Debug("extract: bad url", slog.String("url", rawURL), slog.String("error", err.Error()))
		return Result{}
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Debug("extract: fetch failed", slog.String("url", rawURL), slog.String("error", err.Error()))
		return Result{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Debug("extract: non-2xx response", slog.String("url", rawURL), slog.Int("status", resp.StatusCode))
		return Result{}
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, e.maxBody))
	if err != nil {
		e.logger.Debug("extract: parse failed", slog.String("url", rawURL), slog.String("error", err.Error()))
		return Result{}
	}

	// resp.Request.URL is the post-redirect URL; relative image and
	// canonical links resolve against it.
	return scrape(doc, resp.Request.URL)
}

// fields collects candidate values in priority buckets while walking
// the document once.
type fields struct {
	ogTitle, twTitle, docTitle       string
	ogDesc, twDesc, metaDesc         string
	ogImage, twImage                 string
	canonical                        string
}

// scrape walks the parsed document and derives the Result. Open Graph
// values win, Twitter card values are second, plain HTML conventions
// (<title>, meta description) last.
func scrape(doc *html.Node, base *url.URL) Result {
	var f fields
	walk(doc, &f)

	r := Result{
		Title:        first(f.ogTitle, f.twTitle, f.docTitle),
		Description:  first(f.ogDesc, f.twDesc, f.metaDesc),
		Image:        resolveRef(base, first(f.ogImage, f.twImage)),
		CanonicalURL: resolveRef(base, f.canonical),
	}
	return r
}

func walk(n *html.Node, f *fields) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "title":
			if f.docTitle == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				f.docTitle = strings.TrimSpace(n.FirstChild.Data)
			}
		case "meta":
			collectMeta(n, f)
		case "link":
			if strings.EqualFold(getAttr(n, "rel"), "canonical") && f.canonical == "" {
				f.canonical = strings.TrimSpace(getAttr(n, "href"))
			}
		case "body":
			// Metadata lives in <head>; stop before the page body.
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, f)
	}
}

func collectMeta(n *html.Node, f *fields) {
	content := strings.TrimSpace(getAttr(n, "content"))
	if content == "" {
		return
	}
	switch strings.ToLower(getAttr(n, "property")) {
	case "og:title":
		setFirst(&f.ogTitle, content)
	case "og:description":
		setFirst(&f.ogDesc, content)
	case "og:image", "og:image:url", "og:image:secure_url":
		setFirst(&f.ogImage, content)
	}
	switch strings.ToLower(getAttr(n, "name")) {
	case "description":
		setFirst(&f.metaDesc, content)
	case "twitter:title":
		setFirst(&f.twTitle, content)
	case "twitter:description":
		setFirst(&f.twDesc, content)
	case "twitter:image", "twitter:image:src":
		setFirst(&f.twImage, content)
	}
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func setFirst(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveRef turns a possibly-relative reference into an absolute URL
// against base. Unparseable references are dropped rather than surfaced.
func resolveRef(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
