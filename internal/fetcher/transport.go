package fetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects bounds redirect chains followed by the client.
const maxRedirects = 10

// defaultAccept is sent with every request unless the caller set one.
const defaultAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// ClientOptions configures NewHTTPClient.
type ClientOptions struct {
	// Timeout bounds each request, including reading the body.
	Timeout time.Duration

	// UserAgent is sent with every request made through the client.
	UserAgent string

	// ProxyAddress routes connections through a SOCKS5 proxy ("host:port").
	// Empty means direct connections.
	ProxyAddress string
}

// NewHTTPClient creates the HTTP client used for all crawl traffic.
// Every request made through it carries the configured User-Agent, so the
// page fetcher and the robots.txt guard identify themselves identically.
func NewHTTPClient(opts ClientOptions) (*http.Client, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("unexpected default transport type %T", http.DefaultTransport)
	}
	transport := base.Clone()

	if opts.ProxyAddress != "" {
		dialContext, err := socksDialContext(opts.ProxyAddress)
		if err != nil {
			return nil, err
		}
		transport.Proxy = nil
		transport.DialContext = dialContext
	}

	headers := map[string]string{"Accept": defaultAccept}
	if opts.UserAgent != "" {
		headers["User-Agent"] = opts.UserAgent
	}

	return &http.Client{
		Transport: &identityTransport{base: transport, headers: headers},
		Timeout:   opts.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// socksDialContext builds a DialContext function that tunnels through a
// SOCKS5 proxy.
func socksDialContext(address string) (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" || port == "" {
		return nil, ErrInvalidProxyAddress
	}

	dialer, err := proxy.SOCKS5("tcp", address, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext, nil
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(network, addr)
	}, nil
}

// identityTransport sets fixed headers on every outgoing request,
// including the requests issued for redirects.
type identityTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *identityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for key, value := range t.headers {
		if key == "Accept" && clone.Header.Get(key) != "" {
			continue
		}
		clone.Header.Set(key, value)
	}
	return t.base.RoundTrip(clone)
}
