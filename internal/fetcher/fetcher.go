package fetcher

import "context"

// Fetcher downloads a single page.
type Fetcher interface {
	// Fetch issues a GET for url. ok is true only for a 2xx response; any
	// other status or transport failure yields (nil, false).
	Fetch(ctx context.Context, url string) (body []byte, ok bool)
}
