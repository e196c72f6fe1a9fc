package crawler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/covalentlabs/webquill/internal/domain"
	"golang.org/x/net/html"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; webquill/1.0)"

// DefaultExcludePatterns filters out URLs that never hold indexable
// content: file downloads, auth flows and admin sections.
var DefaultExcludePatterns = []string{".pdf", ".zip", ".exe", "login", "logout", "admin"}

// Options configures a Crawler.
type Options struct {
	// ExcludePatterns are lowercase substrings; a URL containing any of
	// them is skipped. Nil means DefaultExcludePatterns.
	ExcludePatterns []string
	UserAgent       string
	// Timeout bounds each individual page fetch.
	Timeout time.Duration
}

// Crawler fetches pages breadth-first from a seed URL, restricted to the
// seed's domain. Fetches are sequential by design, with a politeness
// delay between requests.
type Crawler struct {
	client  *http.Client
	exclude []string
	agent   string
}

// New creates a Crawler with the given options.
func New(opts Options) *Crawler {
	exclude := opts.ExcludePatterns
	if exclude == nil {
		exclude = DefaultExcludePatterns
	}
	agent := opts.UserAgent
	if agent == "" {
		agent = defaultUserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Crawler{
		client:  &http.Client{Timeout: timeout},
		exclude: exclude,
		agent:   agent,
	}
}

// Crawl fetches up to maxPages same-domain pages starting from seedURL,
// waiting delay between fetches. Individual page failures are logged and
// skipped; an unreachable seed yields an empty result, not an error.
func (c *Crawler) Crawl(ctx context.Context, seedURL string, maxPages int, delay time.Duration) ([]domain.Page, error) {
	seed, err := url.Parse(seedURL)
	if err != nil || seed.Scheme != "http" && seed.Scheme != "https" {
		return nil, domain.ErrInvalidURL
	}
	seed.Fragment = ""

	frontier := []string{seed.String()}
	visited := map[string]bool{}
	pages := make([]domain.Page, 0, maxPages)

	for len(frontier) > 0 && len(pages) < maxPages {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		current := frontier[0]
		frontier = frontier[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		log.Printf("crawling: %s", current)
		page, links, err := c.fetch(ctx, current)
		if err != nil {
			log.Printf("skipping %s: %v", current, err)
			continue
		}
		pages = append(pages, page)

		for _, link := range links {
			if c.eligible(link, seed) && !visited[link] {
				frontier = append(frontier, link)
			}
		}

		if delay > 0 && len(frontier) > 0 && len(pages) < maxPages {
			select {
			case <-ctx.Done():
				return pages, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	log.Printf("crawl completed: %d pages", len(pages))
	return pages, nil
}

// fetch retrieves one page and returns its extracted text plus the
// outgoing links found in it.
func (c *Crawler) fetch(ctx context.Context, pageURL string) (domain.Page, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.Page{}, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.agent)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Page{}, nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Page{}, nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return domain.Page{}, nil, fmt.Errorf("parse failed: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return domain.Page{}, nil, fmt.Errorf("invalid page url: %w", err)
	}

	page := domain.Page{
		URL:       pageURL,
		Title:     extractTitle(doc),
		Text:      extractText(doc),
		FetchedAt: time.Now().UTC(),
	}
	return page, extractLinks(doc, base), nil
}

// eligible reports whether a discovered link stays on the seed's domain
// and does not match an exclusion pattern.
func (c *Crawler) eligible(link string, seed *url.URL) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	if u.Scheme != seed.Scheme || u.Host != seed.Host {
		return false
	}
	lower := strings.ToLower(link)
	for _, pattern := range c.exclude {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	return true
}
