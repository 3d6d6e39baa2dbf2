// Package forensics collects infrastructure evidence for a suspect host:
// DNS records, open web ports, and the TLS certificate the host presents.
// Findings are informational context attached to reports, never scored.
package forensics

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"
)

const (
	defaultResolver = "1.1.1.1"
	queryTimeout    = 5 * time.Second
	probeTimeout    = 3 * time.Second
)

// Certificate is the subset of TLS certificate fields worth reporting:
// who issued it, for whom, and how fresh it is. Phishing hosts typically
// show a days-old certificate from a free CA.
type Certificate struct {
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
	DNSNames  []string  `json:"dns_names,omitempty"`
}

// Report is the gathered evidence for one host. Missing sections mean
// the probe failed or timed out, not that the host lacks them.
type Report struct {
	Host        string       `json:"host"`
	Addresses   []string     `json:"addresses,omitempty"`
	NameServers []string     `json:"name_servers,omitempty"`
	HTTPOpen    bool         `json:"http_open"`
	HTTPSOpen   bool         `json:"https_open"`
	Certificate *Certificate `json:"certificate,omitempty"`
	GatheredAt  time.Time    `json:"gathered_at"`
}

// Gatherer runs the probes. Zero value is not usable; construct with New.
type Gatherer struct {
	resolver string
	dns      *dns.Client
	dialer   *net.Dialer
}

type Option func(*Gatherer)

func WithResolver(ip string) Option {
	return func(g *Gatherer) { g.resolver = ip }
}

func New(opts ...Option) *Gatherer {
	g := &Gatherer{
		resolver: defaultResolver,
		dns: &dns.Client{
			Timeout:      queryTimeout,
			DialTimeout:  queryTimeout,
			ReadTimeout:  queryTimeout,
			WriteTimeout: queryTimeout,
		},
		dialer: &net.Dialer{Timeout: probeTimeout},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Gather runs all probes concurrently and returns whatever succeeded.
// Individual probe failures leave their section empty; only a cancelled
// context fails the whole gather.
func (g *Gatherer) Gather(ctx context.Context, host string) (*Report, error) {
	if host == "" {
		return nil, fmt.Errorf("forensics: empty host")
	}

	report := &Report{Host: host, GatheredAt: time.Now()}
	eg, gctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		report.Addresses = g.queryRecords(gctx, host, dns.TypeA)
		return nil
	})
	eg.Go(func() error {
		report.NameServers = g.queryRecords(gctx, host, dns.TypeNS)
		return nil
	})
	eg.Go(func() error {
		report.HTTPOpen = g.portOpen(gctx, host, "80")
		return nil
	})
	eg.Go(func() error {
		report.HTTPSOpen = g.portOpen(gctx, host, "443")
		if report.HTTPSOpen {
			report.Certificate = g.fetchCertificate(gctx, host)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return report, nil
}

func (g *Gatherer) queryRecords(ctx context.Context, host string, qtype uint16) []string {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)
	msg.RecursionDesired = true

	r, _, err := g.dns.ExchangeContext(ctx, msg, net.JoinHostPort(g.resolver, "53"))
	if err != nil || r == nil {
		return nil
	}

	var out []string
	for _, rr := range r.Answer {
		switch v := rr.(type) {
		case *dns.A:
			out = append(out, v.A.String())
		case *dns.NS:
			out = append(out, strings.TrimSuffix(v.Ns, "."))
		}
	}
	return out
}

func (g *Gatherer) portOpen(ctx context.Context, host, port string) bool {
	conn, err := g.dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (g *Gatherer) fetchCertificate(ctx context.Context, host string) *Certificate {
	conn, err := g.dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, "443"))
	if err != nil {
		return nil
	}
	defer conn.Close()

	tlsConn := tls.Client(conn, &tls.Config{
		ServerName: host,
		// Evidence gathering, not trust: an invalid certificate is itself
		// worth recording.
		InsecureSkipVerify: true,
	})
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return nil
	}

	certs := tlsConn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return nil
	}
	leaf := certs[0]
	return &Certificate{
		Subject:   leaf.Subject.CommonName,
		Issuer:    leaf.Issuer.CommonName,
		NotBefore: leaf.NotBefore,
		NotAfter:  leaf.NotAfter,
		DNSNames:  leaf.DNSNames,
	}
}
