// Package prefetch warms remote media of newly cached posts in the
// background. It never reports failures to its callers.
package prefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/doyensec/safeurl"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 4
	defaultTimeout     = 15 * time.Second
	defaultMaxBytes    = 10 << 20
)

// FetchFunc retrieves one URL.
type FetchFunc func(ctx context.Context, rawURL string) error

type Options struct {
	Logger      *slog.Logger
	Concurrency int
	Timeout     time.Duration
	MaxBytes    int64
	UserAgent   string
	// Fetch replaces the HTTP fetch, mainly for tests.
	Fetch FetchFunc
}

type Prefetcher struct {
	logger *slog.Logger
	fetch  FetchFunc
	limit  int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	seen map[string]struct{}
}

func New(opts Options) *Prefetcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.Concurrency
	if limit < 1 {
		limit = defaultConcurrency
	}
	fetch := opts.Fetch
	if fetch == nil {
		fetch = httpFetch(opts)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Prefetcher{
		logger: logger,
		fetch:  fetch,
		limit:  limit,
		ctx:    ctx,
		cancel: cancel,
		seen:   make(map[string]struct{}),
	}
}

// Prefetch schedules urls and returns immediately. Each URL is fetched at
// most once per process; unsafe URLs are skipped.
func (p *Prefetcher) Prefetch(urls []string) {
	batch := p.claim(urls)
	if len(batch) == 0 {
		return
	}
	go func() {
		defer p.wg.Done()
		p.run(batch)
	}()
}

// claim registers the batch with wg under mu so Close never waits before a
// claimed batch is counted.
func (p *Prefetcher) claim(urls []string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx.Err() != nil {
		return nil
	}
	batch := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := p.seen[u]; ok {
			continue
		}
		p.seen[u] = struct{}{}
		if err := ValidateURL(u); err != nil {
			p.logger.Debug("skipping prefetch", "url", u, "err", err)
			continue
		}
		batch = append(batch, u)
	}
	if len(batch) > 0 {
		p.wg.Add(1)
	}
	return batch
}

func (p *Prefetcher) run(batch []string) {
	var g errgroup.Group
	g.SetLimit(p.limit)
	for _, u := range batch {
		g.Go(func() error {
			if err := p.fetch(p.ctx, u); err != nil {
				p.logger.Debug("prefetch failed", "url", u, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Wait blocks until every scheduled batch finished.
func (p *Prefetcher) Wait() {
	p.wg.Wait()
}

// Close stops outstanding fetches and waits for them.
func (p *Prefetcher) Close() {
	p.mu.Lock()
	p.cancel()
	p.mu.Unlock()
	p.wg.Wait()
}

func httpFetch(opts Options) FetchFunc {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	client := NewSafeClient(timeout)
	return func(ctx context.Context, rawURL string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		if opts.UserAgent != "" {
			req.Header.Set("User-Agent", opts.UserAgent)
		}
		res, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		defer res.Body.Close()
		if res.StatusCode < 200 || res.StatusCode >= 300 {
			return fmt.Errorf("unexpected status: %d", res.StatusCode)
		}
		if _, err := io.Copy(io.Discard, io.LimitReader(res.Body, maxBytes)); err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}
}

// NewSafeClient returns an HTTP client that refuses private, loopback and
// link-local targets, after DNS resolution included.
func NewSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes(allowedSchemes...).
		SetAllowedPorts(80, 443).
		Build()
	return safeurl.Client(config).Client
}

var allowedSchemes = []string{"http", "https"}

var blockedNetworks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"0.0.0.0/8",
	"::1/128",
	"fe80::/10",
	"fc00::/7",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR %s: %v", cidr, err))
		}
		out = append(out, network)
	}
	return out
}

var ErrBlockedURL = errors.New("blocked url")

// ValidateURL is the static check done before scheduling. Resolved
// addresses are checked again by the safe client's dialer.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty url", ErrBlockedURL)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrBlockedURL, scheme)
	}
	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("%w: empty host", ErrBlockedURL)
	}
	if ip := net.ParseIP(host); ip != nil {
		for _, network := range blockedNetworks {
			if network.Contains(ip) {
				return fmt.Errorf("%w: address %s", ErrBlockedURL, ip)
			}
		}
		return nil
	}
	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("%w: host %s", ErrBlockedURL, host)
	}
	return nil
}
