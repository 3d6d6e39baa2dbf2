// Copyright (c) 2024-2026 PhishGuard contributors.
// Analysis intelligence — heuristic detection engine.
package analyzer

// Verdict is the three-way outcome derived from a score. There is exactly
// one mapping from score to Verdict in the system; see Weights.VerdictFor.
type Verdict string

const (
	VerdictSafe       Verdict = "safe"
	VerdictSuspicious Verdict = "suspicious"
	VerdictPhishing   Verdict = "phishing"
)

// IssueKind is the closed set of finding types a detector can emit.
type IssueKind string

const (
	// URL structure
	KindBrandImpersonation IssueKind = "brand_impersonation"
	KindBrandInSubdomain   IssueKind = "brand_in_subdomain"
	KindBrandInPath        IssueKind = "brand_in_path"
	KindTyposquatting      IssueKind = "typosquatting"
	KindHomoglyphSpoof     IssueKind = "homoglyph_spoof"
	KindIPAddressDomain    IssueKind = "ip_address_domain"
	KindVeryLongURL        IssueKind = "very_long_url"
	KindExcessiveSubdomains IssueKind = "excessive_subdomains"
	KindAtSymbolRedirect   IssueKind = "at_symbol_redirect"
	KindExcessiveEncoding  IssueKind = "excessive_encoding"
	KindNoHTTPS            IssueKind = "no_https"
	KindSuspiciousPath     IssueKind = "suspicious_path"
	KindSuspiciousTLD      IssueKind = "suspicious_tld"
	KindExcessiveHyphens   IssueKind = "excessive_hyphens"
	KindMixedScripts       IssueKind = "mixed_scripts"
	KindDataURI            IssueKind = "data_uri"
	KindJavascriptURI      IssueKind = "javascript_uri"
	KindDoubleExtension    IssueKind = "double_extension"
	KindURLShortener       IssueKind = "url_shortener"
	KindPunycodeDomain     IssueKind = "punycode_domain"
	KindUnusualPort        IssueKind = "unusual_port"
	KindRedirectParameter  IssueKind = "redirect_parameter"
	KindManyDots           IssueKind = "many_dots"
	KindCasinoGambling     IssueKind = "casino_gambling"
	KindOsintBlacklist     IssueKind = "osint_blacklist"
	KindUnparseable        IssueKind = "unparseable"

	// Page content
	KindCasinoContent           IssueKind = "casino_content"
	KindPhishingContent         IssueKind = "phishing_content"
	KindExternalFormAction      IssueKind = "external_form_action"
	KindCreditCardFormDetected  IssueKind = "credit_card_form_detected"
	KindPasswordFormDetected    IssueKind = "password_form_detected"
	KindHighDeadLinkRatio       IssueKind = "high_dead_link_ratio"
	KindHiddenSuspiciousContent IssueKind = "hidden_suspicious_content"
	KindRightClickDisabled      IssueKind = "right_click_disabled"
	KindSuspiciousIframe        IssueKind = "suspicious_iframe"
	KindMetaRefreshRedirect     IssueKind = "meta_refresh_redirect"
	KindJavascriptRedirect      IssueKind = "javascript_redirect"

	// Phone
	KindInvalidLength     IssueKind = "invalid_length"
	KindHighRiskCountry   IssueKind = "high_risk_country"
	KindForeignNumber     IssueKind = "foreign_number"
	KindSpoofedBankNumber IssueKind = "spoofed_bank_number"
)

// Evidence carries the structured metadata backing a finding. Fields are
// populated per kind; zero values are omitted from JSON.
type Evidence struct {
	Brand           string   `json:"brand,omitempty"`
	OfficialDomains []string `json:"official_domains,omitempty"`
	SimilarTo       string   `json:"similar_to,omitempty"`
	Distance        int      `json:"distance,omitempty"`
	Matched         []string `json:"matched,omitempty"`
	Count           int      `json:"count,omitempty"`
	Domain          string   `json:"domain,omitempty"`
	Port            int      `json:"port,omitempty"`
}

// Issue is a single severity-scored finding from one detector. Issues are
// immutable once emitted; detectors append, nothing rewrites.
type Issue struct {
	Kind     IssueKind `json:"type"`
	Severity float64   `json:"severity"`
	Detail   string    `json:"detail"`
	Evidence Evidence  `json:"evidence,omitempty"`
}

// AnalysisResult is the engine's output for one URL, page, or phone
// analysis.
type AnalysisResult struct {
	Input           string    `json:"input"`
	Score           float64   `json:"score"`
	Verdict         Verdict   `json:"verdict"`
	HeuristicScore  float64   `json:"heuristic_score"`
	LearnedScore    *float64  `json:"learned_score,omitempty"`
	Issues          []Issue   `json:"issues"`
	ChecksPerformed []string  `json:"checks_performed"`
	ContentAnalyzed bool      `json:"content_analyzed"`
}

// HasCritical reports whether any issue reaches the given severity.
func HasCritical(issues []Issue, cutoff float64) bool {
	for _, i := range issues {
		if i.Severity >= cutoff {
			return true
		}
	}
	return false
}
