// Copyright (c) 2024-2026 PhishGuard contributors.
// Analysis intelligence — heuristic detection engine.
package analyzer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Asizxs33/PHISHGUARD/internal/brands"
	"github.com/Asizxs33/PHISHGUARD/internal/urlinfo"
	"github.com/Asizxs33/PHISHGUARD/internal/webclient"
)

// contentContext is the read-only input for content detectors: the parsed
// page plus the normalized domain it was served from.
type contentContext struct {
	doc    *webclient.Document
	page   *urlinfo.Domain
	brands *brands.Registry
	rules  *Ruleset
}

type contentDetector struct {
	tag string
	fn  func(*contentContext) []Issue
}

func contentDetectors() []contentDetector {
	return []contentDetector{
		{"casino_content", checkCasinoContent},
		{"phishing_content", checkPhishingContent},
		{"form_analysis", checkForms},
		{"dead_links", checkDeadLinks},
		{"hidden_content", checkHiddenContent},
		{"right_click", checkRightClickDisabled},
		{"iframe_analysis", checkIframes},
		{"auto_redirect", checkAutoRedirects},
	}
}

func checkCasinoContent(c *contentContext) []Issue {
	text := c.doc.SearchableText()
	var found []string
	for _, p := range c.rules.CasinoContentPatterns {
		if p.MatchesText(text) {
			found = append(found, p.Keyword)
		}
	}

	switch {
	case len(found) >= 2:
		return []Issue{{
			Kind:     KindCasinoContent,
			Severity: 0.95,
			Detail:   "Page contains gambling/casino keywords: " + strings.Join(capList(found, 3), ", "),
			Evidence: Evidence{Matched: capList(found, 3), Count: len(found)},
		}}
	case len(found) == 1:
		return []Issue{{
			Kind:     KindCasinoContent,
			Severity: 0.60,
			Detail:   "Page contains gambling/casino keyword: " + found[0],
			Evidence: Evidence{Matched: found, Count: 1},
		}}
	}
	return nil
}

func checkPhishingContent(c *contentContext) []Issue {
	text := c.doc.SearchableText()
	var found []string
	for _, p := range c.rules.PhishingContentPatterns {
		if p.MatchesText(text) {
			found = append(found, p.Keyword)
		}
	}

	switch {
	case len(found) >= 2:
		return []Issue{{
			Kind:     KindPhishingContent,
			Severity: 0.90,
			Detail:   "Page contains suspicious phishing requests (login/verification): " + strings.Join(capList(found, 3), ", "),
			Evidence: Evidence{Matched: capList(found, 3), Count: len(found)},
		}}
	case len(found) == 1:
		return []Issue{{
			Kind:     KindPhishingContent,
			Severity: 0.50,
			Detail:   "Page asks for sensitive info or login: " + found[0],
			Evidence: Evidence{Matched: found, Count: 1},
		}}
	}
	return nil
}

// checkForms flags forms that ship credentials off-site and inputs that
// collect card data. A form target counts as external only when neither
// domain is a sub-relationship of the other.
func checkForms(c *contentContext) []Issue {
	var issues []Issue

	for _, form := range c.doc.Forms {
		if !strings.HasPrefix(strings.ToLower(form.Action), "http") {
			continue
		}
		parsed, err := url.Parse(form.Action)
		if err != nil || parsed.Host == "" {
			continue
		}
		actionHost := strings.ToLower(parsed.Hostname())
		pageHost := c.page.Host
		if pageHost == "" || actionHost == "" {
			continue
		}
		if strings.Contains(actionHost, pageHost) || strings.Contains(pageHost, actionHost) {
			continue
		}
		issues = append(issues, Issue{
			Kind:     KindExternalFormAction,
			Severity: 0.85,
			Detail:   "Form submits data to a different external domain: " + actionHost,
			Evidence: Evidence{Domain: actionHost},
		})
	}

	cardField := ""
	for _, inp := range c.doc.Inputs {
		for _, kw := range c.rules.CardFieldNames {
			if strings.Contains(inp.Name, kw) {
				cardField = inp.Name
				break
			}
		}
		if cardField != "" {
			break
		}
	}
	if cardField != "" {
		issues = append(issues, Issue{
			Kind:     KindCreditCardFormDetected,
			Severity: 0.70,
			Detail:   "Page contains inputs asking for credit card details or CVV",
			Evidence: Evidence{Matched: []string{cardField}},
		})
	}

	for _, inp := range c.doc.Inputs {
		if inp.Type == "password" {
			issues = append(issues, Issue{
				Kind:     KindPasswordFormDetected,
				Severity: 0.40,
				Detail:   "Page contains a password entry form",
			})
			break
		}
	}

	return issues
}

func isDeadHref(href string) bool {
	switch strings.TrimSpace(href) {
	case "#", "", "javascript:void(0)", "javascript:;":
		return true
	}
	return false
}

// checkDeadLinks: phishing kits copy a brand's UI but leave most of the
// navigation pointing nowhere.
func checkDeadLinks(c *contentContext) []Issue {
	total := len(c.doc.Links)
	if total <= c.rules.MinLinksForDeadCheck {
		return nil
	}
	dead := 0
	for _, href := range c.doc.Links {
		if isDeadHref(href) {
			dead++
		}
	}
	ratio := float64(dead) / float64(total)
	if ratio <= c.rules.MaxDeadLinkRatio {
		return nil
	}
	return []Issue{{
		Kind:     KindHighDeadLinkRatio,
		Severity: 0.65,
		Detail:   fmt.Sprintf("%d%% of links are dead. Phishing sites often copy UI but leave links empty", int(ratio*100)),
		Evidence: Evidence{Count: dead},
	}}
}

// checkHiddenContent looks for CSS-hidden text stuffed with phishing
// phrasing or bank brand fragments, a trick used to slip past scanners.
func checkHiddenContent(c *contentContext) []Issue {
	if c.doc.HiddenCount <= c.rules.MinHiddenElements {
		return nil
	}

	hidden := strings.ToLower(c.doc.HiddenText)

	matched := ""
	for _, p := range c.rules.PhishingContentPatterns {
		if p.MatchesText(hidden) {
			matched = p.Keyword
			break
		}
	}
	if matched == "" {
		for _, needle := range c.rules.HiddenTextNeedles {
			if strings.Contains(hidden, needle) {
				matched = needle
				break
			}
		}
	}
	if matched == "" {
		return nil
	}

	return []Issue{{
		Kind:     KindHiddenSuspiciousContent,
		Severity: 0.90,
		Detail:   "Page deliberately hides phishing keywords or brand names using CSS",
		Evidence: Evidence{Matched: []string{matched}, Count: c.doc.HiddenCount},
	}}
}

func checkRightClickDisabled(c *contentContext) []Issue {
	for _, v := range c.doc.BodyHandlers {
		if strings.Contains(v, "return false") || strings.Contains(v, "preventdefault") {
			return []Issue{{
				Kind:     KindRightClickDisabled,
				Severity: 0.50,
				Detail:   "Page disables right-click or text selection. This is often used to prevent code inspection",
			}}
		}
	}
	return nil
}

// checkIframes flags full-size frames sourced from an unrelated domain;
// common embeds (video, maps, CAPTCHA) are exempt.
func checkIframes(c *contentContext) []Issue {
	var issues []Issue
	for _, frame := range c.doc.Iframes {
		if !strings.HasPrefix(strings.ToLower(frame.Src), "http") || !frame.FullScreen {
			continue
		}
		parsed, err := url.Parse(frame.Src)
		if err != nil || parsed.Host == "" {
			continue
		}
		srcHost := strings.ToLower(parsed.Hostname())

		if hostContainsAny(srcHost+parsed.Path, c.rules.TrustedIframeHosts) {
			continue
		}
		if strings.Contains(srcHost, c.page.Host) {
			continue
		}
		issues = append(issues, Issue{
			Kind:     KindSuspiciousIframe,
			Severity: 0.85,
			Detail:   fmt.Sprintf("Page loads a large external <iframe> from %s. This may hide malicious content", srcHost),
			Evidence: Evidence{Domain: srcHost},
		})
	}
	return issues
}

// checkAutoRedirects flags meta-refresh and script-driven redirects.
// Official brand domains are exempt: complex single-page apps redirect
// legitimately. Script redirects are deliberately scored low — the
// original calibration halved the value after false positives.
func checkAutoRedirects(c *contentContext) []Issue {
	if _, owned := c.brands.OwnerOf(c.page.Host); owned {
		return nil
	}

	var issues []Issue
	if strings.Contains(strings.ToLower(c.doc.MetaRefresh), "url=") {
		issues = append(issues, Issue{
			Kind:     KindMetaRefreshRedirect,
			Severity: 0.75,
			Detail:   "Page contains a meta-refresh tag to auto-redirect the user to another page",
		})
	}

	script := c.doc.ScriptText
	if (strings.Contains(script, "window.location.replace") || strings.Contains(script, "window.location.href")) &&
		strings.Contains(script, "http") {
		issues = append(issues, Issue{
			Kind:     KindJavascriptRedirect,
			Severity: 0.40,
			Detail:   "Page contains JavaScript that forces a redirect",
		})
	}
	return issues
}
