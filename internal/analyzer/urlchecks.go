// Copyright (c) 2024-2026 PhishGuard contributors.
// Analysis intelligence — heuristic detection engine.
package analyzer

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Asizxs33/PHISHGUARD/internal/brands"
	"github.com/Asizxs33/PHISHGUARD/internal/urlinfo"
)

// urlContext is the shared, read-only input handed to every URL detector.
type urlContext struct {
	raw    string // URL as received
	lower  string
	parsed *url.URL
	domain *urlinfo.Domain
	brands *brands.Registry
	rules  *Ruleset
}

// urlDetector is one independent structural check. Detectors never
// short-circuit each other: every one runs on every URL so findings
// accumulate.
type urlDetector struct {
	tag string
	fn  func(*urlContext) []Issue
}

func urlDetectors() []urlDetector {
	return []urlDetector{
		{"brand_impersonation", checkBrandImpersonation},
		{"typosquatting", checkTyposquatting},
		{"homograph_detection", checkMixedScripts},
		{"url_pattern_analysis", checkURLPatterns},
		{"tld_check", checkSuspiciousTLD},
		{"url_shortener_detection", checkShortener},
		{"casino_patterns", checkCasinoPatterns},
	}
}

// checkBrandImpersonation flags hosts that carry a known brand name
// without being that brand's canonical domain. The brand may hide in the
// base label, a subdomain, the userinfo of a disguised-authority URL, or
// only in the path; each placement has its own kind and severity.
func checkBrandImpersonation(c *urlContext) []Issue {
	var issues []Issue
	path := strings.ToLower(c.parsed.Path)

	for _, entry := range c.brands.Entries() {
		if containsDomain(entry.Domains, c.domain.Base) || containsDomain(entry.Domains, c.domain.Host) {
			continue
		}

		inBase := strings.Contains(c.domain.Base, entry.Name)
		inSub := false
		for _, label := range c.domain.SubdomainLabels() {
			if len(entry.Name) >= 4 && strings.Contains(label, entry.Name) {
				inSub = true
				break
			}
		}
		inUserinfo := c.domain.Userinfo != "" && strings.Contains(c.domain.Userinfo, entry.Name)
		inPath := len(entry.Name) >= 4 && strings.Contains(path, entry.Name)

		official := entry.Domains
		if len(official) > 3 {
			official = official[:3]
		}

		switch {
		case inBase || inUserinfo:
			issues = append(issues, Issue{
				Kind:     KindBrandImpersonation,
				Severity: 0.90,
				Detail:   fmt.Sprintf("Domain contains %q but is not an official %s domain", entry.Name, entry.Name),
				Evidence: Evidence{Brand: entry.Name, OfficialDomains: official, Domain: c.domain.Host},
			})
		case inSub:
			issues = append(issues, Issue{
				Kind:     KindBrandInSubdomain,
				Severity: 0.85,
				Detail:   fmt.Sprintf("Brand %q found in subdomain — likely impersonation", entry.Name),
				Evidence: Evidence{Brand: entry.Name, OfficialDomains: official, Domain: c.domain.Host},
			})
		case inPath:
			issues = append(issues, Issue{
				Kind:     KindBrandInPath,
				Severity: 0.70,
				Detail:   fmt.Sprintf("Brand %q found in URL path but domain is not official", entry.Name),
				Evidence: Evidence{Brand: entry.Name, OfficialDomains: official, Domain: c.domain.Host},
			})
		}
	}
	return issues
}

// checkTyposquatting surfaces the fuzzy matcher's findings as issues, at
// most one per brand, plus homoglyph-substituted labels that edit
// distance cannot see.
func checkTyposquatting(c *urlContext) []Issue {
	if c.domain.IsIP {
		return nil
	}

	var issues []Issue
	for _, m := range c.brands.BestTypoMatches(c.domain.Primary, c.domain.Base) {
		issues = append(issues, Issue{
			Kind:     KindTyposquatting,
			Severity: m.Severity,
			Detail: fmt.Sprintf("Domain %q looks like %q (typosquatting, %d char difference)",
				c.domain.Primary, m.CanonicalLabel, m.Distance),
			Evidence: Evidence{Brand: m.Brand, SimilarTo: m.Canonical, Distance: m.Distance},
		})
	}

	if m, ok := c.brands.SkeletonMatch(c.domain.Primary, c.domain.Base); ok {
		issues = append(issues, Issue{
			Kind:     KindHomoglyphSpoof,
			Severity: m.Severity,
			Detail:   fmt.Sprintf("Domain label is visually identical to %q using look-alike characters", m.CanonicalLabel),
			Evidence: Evidence{Brand: m.Brand, SimilarTo: m.Canonical},
		})
	}
	return issues
}

// checkMixedScripts detects the classic IDN homograph attack: Latin and
// Cyrillic (or other confusable scripts) mixed inside one host.
func checkMixedScripts(c *urlContext) []Issue {
	host := c.domain.Unicode
	scripts := make(map[string]struct{})
	for _, r := range host {
		switch {
		case unicode.In(r, unicode.Latin):
			scripts["latin"] = struct{}{}
		case unicode.In(r, unicode.Cyrillic):
			scripts["cyrillic"] = struct{}{}
		case unicode.In(r, unicode.Greek):
			scripts["greek"] = struct{}{}
		}
	}
	if len(scripts) >= 2 {
		return []Issue{{
			Kind:     KindMixedScripts,
			Severity: 0.95,
			Detail:   "Domain mixes Latin and Cyrillic characters — classic IDN homograph attack",
			Evidence: Evidence{Domain: host},
		}}
	}
	return nil
}

func checkSuspiciousTLD(c *urlContext) []Issue {
	for _, tld := range c.rules.SuspiciousTLDs {
		if strings.HasSuffix(c.domain.Host, tld) {
			return []Issue{{
				Kind:     KindSuspiciousTLD,
				Severity: 0.65,
				Detail:   fmt.Sprintf("Domain uses suspicious TLD %q — commonly abused for phishing", tld),
				Evidence: Evidence{Domain: c.domain.Host, Matched: []string{tld}},
			}}
		}
	}
	return nil
}

func checkShortener(c *urlContext) []Issue {
	for _, s := range c.rules.Shorteners {
		if c.domain.Host == s || strings.HasSuffix(c.domain.Host, "."+s) {
			return []Issue{{
				Kind:     KindURLShortener,
				Severity: 0.40,
				Detail:   "URL uses a shortener service — real destination is hidden",
				Evidence: Evidence{Domain: c.domain.Host, Matched: []string{s}},
			}}
		}
	}
	return nil
}

// checkCasinoPatterns assigns higher severity when a gambling keyword sits
// in the host itself rather than only in the path or query.
func checkCasinoPatterns(c *urlContext) []Issue {
	var inHost, inURL []string
	for _, kw := range c.rules.CasinoKeywords {
		if strings.Contains(c.domain.Host, kw) {
			inHost = append(inHost, kw)
		} else if strings.Contains(c.lower, kw) {
			inURL = append(inURL, kw)
		}
	}

	if len(inHost) > 0 {
		return []Issue{{
			Kind:     KindCasinoGambling,
			Severity: 0.85,
			Detail:   "Domain contains gambling/casino keywords: " + strings.Join(capList(inHost, 3), ", "),
			Evidence: Evidence{Matched: capList(inHost, 3)},
		}}
	}
	if len(inURL) > 0 {
		return []Issue{{
			Kind:     KindCasinoGambling,
			Severity: 0.60,
			Detail:   "URL path contains gambling/casino keywords: " + strings.Join(capList(inURL, 3), ", "),
			Evidence: Evidence{Matched: capList(inURL, 3)},
		}}
	}
	return nil
}

var (
	encodedSeqPattern = regexp.MustCompile(`%[0-9a-fA-F]{2}`)
	doubleExtPattern  = regexp.MustCompile(`\.(\w{2,4})\.(\w{2,4})$`)
)

// checkURLPatterns bundles the structural checks that need no brand data:
// IP hosts, length, subdomain depth, @ tricks, encoding abuse, transport,
// path keywords, hyphens, schemes, extensions, ports, redirect params.
func checkURLPatterns(c *urlContext) []Issue {
	var issues []Issue
	path := c.parsed.Path

	if c.domain.IsIP {
		issues = append(issues, Issue{
			Kind:     KindIPAddressDomain,
			Severity: 0.85,
			Detail:   "URL uses an IP address instead of a domain name",
			Evidence: Evidence{Domain: c.domain.Host},
		})
	}

	if len(c.raw) > c.rules.MaxURLLength && !hostContainsAny(c.domain.Host, c.rules.TrustedLongURLHosts) {
		issues = append(issues, Issue{
			Kind:     KindVeryLongURL,
			Severity: 0.40,
			Detail:   fmt.Sprintf("URL is unusually long (%d chars) — may be hiding malicious content", len(c.raw)),
			Evidence: Evidence{Count: len(c.raw)},
		})
	}

	if n := c.domain.SubdomainCount(); n >= 3 && !c.domain.IsIP {
		issues = append(issues, Issue{
			Kind:     KindExcessiveSubdomains,
			Severity: 0.70,
			Detail:   fmt.Sprintf("Domain has %d subdomains — very unusual for legitimate sites", n),
			Evidence: Evidence{Count: n, Domain: c.domain.Host},
		})
	}

	if strings.Contains(c.raw, "@") {
		issues = append(issues, Issue{
			Kind:     KindAtSymbolRedirect,
			Severity: 0.90,
			Detail:   "URL contains @ symbol — this can redirect to a different site than shown",
		})
	}

	if n := len(encodedSeqPattern.FindAllString(c.raw, -1)); n > c.rules.MaxEncodedSequences {
		issues = append(issues, Issue{
			Kind:     KindExcessiveEncoding,
			Severity: 0.60,
			Detail:   fmt.Sprintf("URL has %d encoded characters — may be hiding malicious content", n),
			Evidence: Evidence{Count: n},
		})
	}

	if !strings.HasPrefix(c.lower, "https://") {
		issues = append(issues, Issue{
			Kind:     KindNoHTTPS,
			Severity: 0.50,
			Detail:   "URL does not use HTTPS encryption",
		})
	}

	pathLower := strings.ToLower(path)
	var matched []string
	for _, kw := range c.rules.PathKeywords {
		if strings.Contains(pathLower, kw) {
			matched = append(matched, kw)
		}
	}
	if len(matched) >= 2 {
		issues = append(issues, Issue{
			Kind:     KindSuspiciousPath,
			Severity: 0.70,
			Detail:   fmt.Sprintf("URL path contains %d suspicious keywords (login, verify, etc.)", len(matched)),
			Evidence: Evidence{Matched: matched, Count: len(matched)},
		})
	} else if len(matched) == 1 {
		issues = append(issues, Issue{
			Kind:     KindSuspiciousPath,
			Severity: 0.35,
			Detail:   "URL path contains a suspicious keyword",
			Evidence: Evidence{Matched: matched, Count: 1},
		})
	}

	if n := strings.Count(c.domain.Primary, "-"); n >= 2 {
		issues = append(issues, Issue{
			Kind:     KindExcessiveHyphens,
			Severity: 0.60,
			Detail:   fmt.Sprintf("Domain has %d hyphens — legitimate sites rarely use many hyphens", n),
			Evidence: Evidence{Count: n, Domain: c.domain.Base},
		})
	}

	if strings.Contains(c.lower, "data:") {
		issues = append(issues, Issue{
			Kind:     KindDataURI,
			Severity: 0.95,
			Detail:   "URL contains a data URI — potentially hiding malicious content",
		})
	}

	if strings.Contains(c.lower, "javascript:") {
		issues = append(issues, Issue{
			Kind:     KindJavascriptURI,
			Severity: 1.0,
			Detail:   "URL contains JavaScript code — definitely malicious",
		})
	}

	if m := doubleExtPattern.FindStringSubmatch(pathLower); m != nil {
		for _, ext := range c.rules.DangerousExtensions {
			if m[2] == ext {
				issues = append(issues, Issue{
					Kind:     KindDoubleExtension,
					Severity: 0.95,
					Detail:   fmt.Sprintf("File has double extension (.%s.%s) — hiding executable as document", m[1], m[2]),
					Evidence: Evidence{Matched: []string{m[1], m[2]}},
				})
				break
			}
		}
	}

	if strings.Contains(c.domain.Host, "xn--") {
		issues = append(issues, Issue{
			Kind:     KindPunycodeDomain,
			Severity: 0.80,
			Detail:   "Domain uses Punycode (internationalized encoding) — may be a homograph attack",
			Evidence: Evidence{Domain: c.domain.Host},
		})
	}

	if c.domain.Port != "" {
		if port, err := strconv.Atoi(c.domain.Port); err == nil && port != 80 && port != 443 {
			issues = append(issues, Issue{
				Kind:     KindUnusualPort,
				Severity: 0.50,
				Detail:   fmt.Sprintf("URL uses unusual port :%d — legitimate sites use standard ports", port),
				Evidence: Evidence{Port: port},
			})
		}
	}

	query := c.parsed.Query()
	for _, p := range c.rules.RedirectParams {
		if query.Has(p) {
			issues = append(issues, Issue{
				Kind:     KindRedirectParameter,
				Severity: 0.60,
				Detail:   "URL contains redirect parameters — may redirect to malicious site after loading",
				Evidence: Evidence{Matched: []string{p}},
			})
			break
		}
	}

	if n := strings.Count(c.domain.Host, "."); n >= 4 {
		issues = append(issues, Issue{
			Kind:     KindManyDots,
			Severity: 0.50,
			Detail:   fmt.Sprintf("Domain has %d dots — unusually complex structure", n),
			Evidence: Evidence{Count: n, Domain: c.domain.Host},
		})
	}

	return issues
}

func containsDomain(domains []string, candidate string) bool {
	for _, d := range domains {
		if d == candidate {
			return true
		}
	}
	return false
}

func hostContainsAny(host string, list []string) bool {
	for _, s := range list {
		if strings.Contains(host, s) {
			return true
		}
	}
	return false
}

func capList(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
