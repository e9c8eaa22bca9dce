// Package fetch provides the shared HTTP client used by the registry client
// and repository providers: JSON GETs with a DNS-cached transport, retry with
// exponential backoff, and a per-host circuit breaker.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	"github.com/rs/dnscache"
	circuit "github.com/rubyist/circuitbreaker"
)

const (
	httpTimeout = 10 * time.Second
	maxRetries  = 3
)

var (
	// ErrNotFound is returned when the upstream responds 404. Callers treat
	// this as an expected, non-fatal outcome.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures: timeouts, connection errors,
	// 5xx responses and open circuit breakers. The failed fetch phase is
	// skipped; the refresh as a whole continues.
	ErrNetwork = errors.New("network error")
)

// Client performs JSON GET requests against upstream APIs.
// All methods are safe for concurrent use.
type Client struct {
	http    *http.Client
	headers map[string]string

	stop     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	breakers map[string]*circuit.Breaker
}

// NewClient creates a Client with the given default headers. Pass nil when no
// default headers are needed. Call Close when done with the client to stop
// its DNS cache refresher.
func NewClient(headers map[string]string) *Client {
	stop := make(chan struct{})
	return &Client{
		http:     newHTTPClient(stop),
		headers:  headers,
		stop:     stop,
		breakers: make(map[string]*circuit.Breaker),
	}
}

// Close stops the background DNS cache refresher. Safe to call more than
// once.
func (c *Client) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// newHTTPClient builds an HTTP client whose dialer resolves hosts through a
// refreshing DNS cache, so bulk refreshes do not hammer the resolver. The
// refresh loop runs until stop is closed.
func newHTTPClient(stop <-chan struct{}) *http.Client {
	resolver := &dnscache.Resolver{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				resolver.Refresh(true)
			case <-stop:
				return
			}
		}
	}()

	dialer := &net.Dialer{Timeout: httpTimeout, KeepAlive: 30 * time.Second}
	return &http.Client{
		Timeout: httpTimeout,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, err
				}
				ips, err := resolver.LookupHost(ctx, host)
				if err != nil {
					return nil, err
				}
				for _, ip := range ips {
					conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
					if err == nil {
						return conn, nil
					}
				}
				return nil, fmt.Errorf("no resolved address for %s dialed successfully", host)
			},
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// breaker returns the circuit breaker for a host, creating it on first use.
// Each upstream host trips independently after 5 consecutive failures.
func (c *Client) breaker(host string) *circuit.Breaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.breakers[host]; ok {
		return b
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 30 * time.Second
	bo.MaxInterval = 5 * time.Minute
	bo.Reset()

	b := circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    bo,
		ShouldTrip: circuit.ThresholdTripFunc(5),
	})
	c.breakers[host] = b
	return b
}

// GetJSON performs an HTTP GET and decodes the JSON response into v.
// 404 maps to ErrNotFound without retry; 5xx, 429 and transport errors are
// retried with exponential backoff and wrapped in ErrNetwork when exhausted.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	return c.GetJSONWithHeaders(ctx, rawURL, nil, v)
}

// GetJSONWithHeaders is GetJSON with request-specific headers merged over the
// client defaults.
func (c *Client) GetJSONWithHeaders(ctx context.Context, rawURL string, headers map[string]string, v any) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing url %q: %w", rawURL, err)
	}

	b := c.breaker(parsed.Host)
	if !b.Ready() {
		return fmt.Errorf("%w: circuit open for %s", ErrNetwork, parsed.Host)
	}

	// A 404 is an expected lookup miss, not a sign of host trouble; it must
	// not count toward tripping the host's breaker.
	var notFound error
	err = b.Call(func() error {
		op := func() error { return c.doJSON(ctx, rawURL, headers, v) }
		retryErr := backoff.Retry(op,
			backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx))
		if errors.Is(retryErr, ErrNotFound) {
			notFound = retryErr
			return nil
		}
		return retryErr
	}, 0)
	if notFound != nil {
		return notFound
	}
	return err
}

func (c *Client) doJSON(ctx context.Context, rawURL string, headers map[string]string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return backoff.Permanent(fmt.Errorf("decoding response from %s: %w", rawURL, err))
	}
	return nil
}

// checkStatus maps a status code to the error taxonomy. Retryable outcomes
// are returned bare so the backoff loop retries them; terminal outcomes are
// marked permanent.
func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return backoff.Permanent(ErrNotFound)
	case code == http.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	default:
		return backoff.Permanent(fmt.Errorf("%w: status %d", ErrNetwork, code))
	}
}
