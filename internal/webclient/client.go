// Package webclient fetches and parses pages on behalf of the analysis
// engine. It owns all network I/O for content analysis: bounded timeouts,
// browser-like headers, SSRF protection, and charset correction for
// servers that mis-declare their encoding.
package webclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	// Phishing pages are short-lived; waiting longer than this rarely
	// produces a document and stalls the whole analysis.
	defaultTimeout = 5 * time.Second

	maxBodyBytes = 2 << 20

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var browserHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
}

// Client is a fetch collaborator with a fixed timeout and politeness
// limiting. Failures are expected and reported as errors for the caller
// to degrade on, never to crash on.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				if !ValidateURLTarget(req.URL.String()) {
					return fmt.Errorf("SSRF protection: redirect target resolves to private IP")
				}
				return nil
			},
		},
		limiter: rate.NewLimiter(rate.Limit(4), 8),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch downloads a page and returns its parsed Document. The body is
// decoded through the charset sniffer so pages that mis-declare their
// encoding (common on throwaway phishing hosts) still yield readable
// Cyrillic text.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "http://" + rawURL
	}
	if !ValidateURLTarget(rawURL) {
		return nil, fmt.Errorf("SSRF protection: URL target resolves to private/reserved IP range")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	reader, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("charset detection: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	return ParseDocument(rawURL, doc), nil
}

// ParseHTML builds a Document from already-fetched HTML, for callers that
// supply page content directly.
func ParseHTML(pageURL, html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return ParseDocument(pageURL, doc), nil
}

// IsPrivateIP reports whether an address sits in a private, loopback, or
// otherwise reserved range.
func IsPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return true
	}

	if ip4 := ip.To4(); ip4 != nil {
		if ip4[0] == 100 && ip4[1] >= 64 && ip4[1] <= 127 {
			return true
		}
		if ip4[0] == 192 && ip4[1] == 0 && ip4[2] == 0 {
			return true
		}
		if ip4[0] == 198 && (ip4[1] == 18 || ip4[1] == 19) {
			return true
		}
	}

	return false
}

// ValidateURLTarget resolves a URL's host and rejects it when any address
// lands in a private range.
func ValidateURLTarget(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	hostname := parsed.Hostname()
	if hostname == "" {
		return false
	}

	addrs, err := net.LookupHost(hostname)
	if err != nil || len(addrs) == 0 {
		return false
	}

	for _, addr := range addrs {
		if IsPrivateIP(addr) {
			return false
		}
	}
	return true
}
