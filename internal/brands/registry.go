// Package brands holds the registry of known legitimate brand domains and
// the fuzzy matching used to spot look-alike hosts.
package brands

import (
	"strings"
)

// Entry maps a brand name to its official registrable domains, in
// preference order.
type Entry struct {
	Name    string
	Domains []string
}

// Registry is an immutable brand lookup table. Refreshing brand data
// builds a new Registry which the owner swaps in whole; nothing mutates
// an existing one during analysis.
type Registry struct {
	entries []Entry
	byName  map[string]int
}

func NewRegistry(entries []Entry) *Registry {
	r := &Registry{
		entries: make([]Entry, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		name := strings.ToLower(e.Name)
		domains := make([]string, 0, len(e.Domains))
		for _, d := range e.Domains {
			domains = append(domains, strings.ToLower(d))
		}
		r.entries[i] = Entry{Name: name, Domains: domains}
		r.byName[name] = i
	}
	return r
}

// DomainsFor returns the canonical domains registered for a brand, or nil
// when the brand is unknown.
func (r *Registry) DomainsFor(brand string) []string {
	i, ok := r.byName[strings.ToLower(brand)]
	if !ok {
		return nil
	}
	out := make([]string, len(r.entries[i].Domains))
	copy(out, r.entries[i].Domains)
	return out
}

// IsCanonical reports whether domain is one of brand's official domains.
// Comparison is case-insensitive and ignores a leading www. and any port.
func (r *Registry) IsCanonical(domain, brand string) bool {
	i, ok := r.byName[strings.ToLower(brand)]
	if !ok {
		return false
	}
	host := normalizeLookup(domain)
	for _, d := range r.entries[i].Domains {
		if host == d {
			return true
		}
	}
	return false
}

// OwnerOf returns the brand owning domain exactly, or sub-domains of it,
// when one exists. Used to exempt official sites from redirect and
// impersonation findings.
func (r *Registry) OwnerOf(domain string) (string, bool) {
	host := normalizeLookup(domain)
	for _, e := range r.entries {
		for _, d := range e.Domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return e.Name, true
			}
		}
	}
	return "", false
}

// Entries iterates the registry in insertion order.
func (r *Registry) Entries() []Entry {
	return r.entries
}

func normalizeLookup(domain string) string {
	host := strings.ToLower(strings.TrimSpace(domain))
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return strings.TrimPrefix(host, "www.")
}

// Default returns the built-in registry: global platforms plus the
// Kazakhstan and Russia brands most often impersonated in this region.
func Default() *Registry {
	return NewRegistry([]Entry{
		{"google", []string{"google.com", "google.kz", "google.ru", "googleapis.com", "gstatic.com"}},
		{"apple", []string{"apple.com", "icloud.com", "appleid.apple.com"}},
		{"microsoft", []string{"microsoft.com", "live.com", "outlook.com", "office.com", "office365.com", "microsoftonline.com"}},
		{"amazon", []string{"amazon.com", "amazon.co.uk", "amazon.de", "aws.amazon.com"}},
		{"facebook", []string{"facebook.com", "fb.com", "messenger.com", "meta.com"}},
		{"instagram", []string{"instagram.com"}},
		{"twitter", []string{"twitter.com", "x.com"}},
		{"whatsapp", []string{"whatsapp.com", "web.whatsapp.com"}},
		{"telegram", []string{"telegram.org", "web.telegram.org", "t.me"}},
		{"netflix", []string{"netflix.com"}},
		{"paypal", []string{"paypal.com", "paypal.me"}},
		{"ebay", []string{"ebay.com"}},
		{"linkedin", []string{"linkedin.com"}},
		{"youtube", []string{"youtube.com", "youtu.be"}},
		{"tiktok", []string{"tiktok.com"}},
		{"discord", []string{"discord.com", "discord.gg", "discordapp.com"}},
		{"zoom", []string{"zoom.us", "zoom.com"}},
		{"spotify", []string{"spotify.com"}},
		{"github", []string{"github.com", "github.io"}},
		{"dropbox", []string{"dropbox.com"}},
		{"reddit", []string{"reddit.com"}},
		// Kazakhstan
		{"kaspi", []string{"kaspi.kz", "kaspi.com"}},
		{"halyk", []string{"halykbank.kz", "homebank.kz"}},
		{"halykbank", []string{"halykbank.kz", "homebank.kz"}},
		{"homebank", []string{"homebank.kz"}},
		{"egov", []string{"egov.kz"}},
		{"forte", []string{"forte.kz", "fortebank.com"}},
		{"fortebank", []string{"forte.kz", "fortebank.com"}},
		{"jusan", []string{"jysanbank.kz", "jusan.kz"}},
		{"bereke", []string{"berekebank.kz"}},
		{"freedom", []string{"ffin.kz", "freedomfinance.kz", "freedom24.com"}},
		{"kolesa", []string{"kolesa.kz"}},
		{"krisha", []string{"krisha.kz"}},
		{"olx", []string{"olx.kz"}},
		// Russia
		{"sberbank", []string{"sberbank.ru", "online.sberbank.ru", "sber.ru"}},
		{"sber", []string{"sberbank.ru", "sber.ru"}},
		{"tinkoff", []string{"tinkoff.ru", "tinkoff.com"}},
		{"vtb", []string{"vtb.ru"}},
		{"yandex", []string{"yandex.ru", "yandex.kz", "ya.ru"}},
		{"mail", []string{"mail.ru"}},
		{"vk", []string{"vk.com", "vk.ru"}},
		{"ozon", []string{"ozon.ru"}},
		{"wildberries", []string{"wildberries.ru", "wb.ru"}},
		{"avito", []string{"avito.ru"}},
		{"canva", []string{"canva.com"}},
		{"figma", []string{"figma.com"}},
		{"trello", []string{"trello.com"}},
		{"notion", []string{"notion.so", "notion.site"}},
	})
}
