package domain

import (
	"fmt"
	"time"
)

// Page represents a single crawled web page after text extraction.
// Pages are transient: they exist between the crawl and chunk stages
// and are discarded once chunking is done.
type Page struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ValidatePage validates a Page instance
func ValidatePage(p *Page) error {
	if p == nil {
		return fmt.Errorf("page cannot be nil")
	}
	if p.URL == "" {
		return fmt.Errorf("page URL is required")
	}
	return nil
}
