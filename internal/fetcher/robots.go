package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"

	"github.com/nao1215/wikicat/internal/model"
)

// RobotsGuard is a Fetcher that consults robots.txt before delegating.
// One policy is fetched and cached per scheme and host.
type RobotsGuard struct {
	next      Fetcher
	client    *http.Client
	userAgent string
	logger    *slog.Logger

	mu    sync.Mutex
	cache map[string]*robotstxt.RobotsData
}

// NewRobotsGuard wraps next. Robots files are fetched with client and
// evaluated for userAgent.
func NewRobotsGuard(next Fetcher, client *http.Client, userAgent string, logger *slog.Logger) *RobotsGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &RobotsGuard{
		next:      next,
		client:    client,
		userAgent: userAgent,
		logger:    logger,
		cache:     make(map[string]*robotstxt.RobotsData),
	}
}

// Fetch returns ErrDisallowed for URLs the host's robots.txt forbids and
// otherwise delegates to the wrapped fetcher.
func (g *RobotsGuard) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	if err := g.Check(ctx, pageURL); err != nil {
		return nil, err
	}
	return g.next.Fetch(ctx, pageURL)
}

// Check reports whether pageURL may be fetched.
func (g *RobotsGuard) Check(ctx context.Context, pageURL string) error {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		if err == nil {
			err = fmt.Errorf("missing host")
		}
		return &TransportError{URL: pageURL, Err: err}
	}

	robots, err := g.policy(ctx, u)
	if err != nil {
		return err
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	if !robots.TestAgent(path, g.userAgent) {
		return fmt.Errorf("%w: %s", ErrDisallowed, pageURL)
	}
	return nil
}

// policy returns the cached robots policy for u's host, fetching it on
// first use. Per robotstxt semantics a 4xx means allow-all and a 5xx
// means disallow-all.
func (g *RobotsGuard) policy(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	key := u.Scheme + "://" + u.Host

	g.mu.Lock()
	cached, ok := g.cache[key]
	g.mu.Unlock()
	if ok {
		return cached, nil
	}

	robotsURL := key + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, http.NoBody)
	if err != nil {
		return nil, &TransportError{URL: robotsURL, Err: err}
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: robotsURL, Err: err}
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, &TransportError{URL: robotsURL, Err: fmt.Errorf("failed to parse robots.txt: %w", err)}
	}

	g.logger.Debug("loaded robots.txt", "url", robotsURL, "status", resp.StatusCode)

	g.mu.Lock()
	g.cache[key] = robots
	g.mu.Unlock()

	return robots, nil
}
