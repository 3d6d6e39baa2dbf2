// Package urlinfo normalizes hostnames for brand comparison. Every check
// that compares a host against a canonical brand domain goes through this
// package so the registrable base is computed one way only.
package urlinfo

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// Domain is the normalized view of a URL's host. It is derived per
// analysis and never stored.
type Domain struct {
	Raw      string   // host as received, before any normalization
	Host     string   // lowercase, no leading www., no port
	Unicode  string   // IDN-decoded form of Host, for script inspection
	Port     string   // non-empty only when the URL carried an explicit port
	Userinfo string   // user[:password] component when present in the URL
	Labels   []string // dot-split tokens of Host
	Base     string   // registrable base (eTLD+1)
	Primary  string   // first label of Base (host minus public suffix)
	IsIP     bool
}

// TokenCount reports the number of dot-separated labels in the host.
func (d *Domain) TokenCount() int {
	return len(d.Labels)
}

// SubdomainCount reports labels in front of the registrable base.
func (d *Domain) SubdomainCount() int {
	baseTokens := strings.Count(d.Base, ".") + 1
	n := len(d.Labels) - baseTokens
	if n < 0 {
		return 0
	}
	return n
}

// SubdomainLabels returns the labels in front of the registrable base.
func (d *Domain) SubdomainLabels() []string {
	n := d.SubdomainCount()
	if n <= 0 {
		return nil
	}
	return d.Labels[:n]
}

// Normalize lowercases the host, strips a leading www. and any port, and
// derives labels and the registrable base.
func Normalize(host string) *Domain {
	d := &Domain{Raw: host}

	h := strings.ToLower(strings.TrimSpace(host))
	h = strings.TrimSuffix(h, ".")

	if at := strings.LastIndex(h, "@"); at >= 0 {
		d.Userinfo = h[:at]
		h = h[at+1:]
	}

	if stripped, port, err := net.SplitHostPort(h); err == nil {
		h = stripped
		d.Port = port
	}
	h = strings.TrimPrefix(h, "www.")

	d.Host = h
	d.Unicode = h
	if uni, err := idna.Lookup.ToUnicode(h); err == nil && uni != "" {
		d.Unicode = uni
	}

	if ip := net.ParseIP(strings.Trim(h, "[]")); ip != nil {
		d.IsIP = true
		d.Labels = []string{h}
		d.Base = h
		d.Primary = h
		return d
	}

	d.Labels = strings.Split(h, ".")
	d.Base = RegistrableBase(h)
	d.Primary = strings.SplitN(d.Base, ".", 2)[0]
	return d
}

// FromURL normalizes the authority of a parsed URL, keeping any userinfo
// so detectors can inspect disguised-redirect tricks.
func FromURL(u *url.URL) *Domain {
	host := u.Host
	if u.User != nil {
		host = u.User.String() + "@" + host
	}
	return Normalize(host)
}

// Compound second-level registrations used when the public suffix list
// cannot resolve a host (offline fallback matching the last-2/last-3 rule).
var compoundSecondLevels = map[string]bool{
	"co": true, "com": true, "org": true, "net": true,
	"gov": true, "edu": true, "ac": true, "mil": true,
}

// RegistrableBase returns the public-suffix-aware root of a host: the
// eTLD+1 when the suffix list knows the TLD, otherwise the last two
// labels, or three for compound country-code second levels like com.kz.
func RegistrableBase(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return host
	}

	if base, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return base
	}

	parts := strings.Split(host, ".")
	if len(parts) <= 2 {
		return host
	}
	secondLast := parts[len(parts)-2]
	tld := parts[len(parts)-1]
	if len(tld) == 2 && compoundSecondLevels[secondLast] && len(parts) >= 3 {
		return strings.Join(parts[len(parts)-3:], ".")
	}
	return strings.Join(parts[len(parts)-2:], ".")
}
