package analyzer

import (
	"context"
	"testing"
)

func analyze(t *testing.T, rawURL string) *AnalysisResult {
	t.Helper()
	result, err := New().AnalyzeURL(context.Background(), rawURL)
	if err != nil {
		t.Fatalf("AnalyzeURL(%q): %v", rawURL, err)
	}
	return result
}

func hasKind(issues []Issue, kind IssueKind) bool {
	for _, i := range issues {
		if i.Kind == kind {
			return true
		}
	}
	return false
}

func findKind(t *testing.T, issues []Issue, kind IssueKind) Issue {
	t.Helper()
	for _, i := range issues {
		if i.Kind == kind {
			return i
		}
	}
	t.Fatalf("no %q issue in %+v", kind, issues)
	return Issue{}
}

func TestCanonicalBrandDomainIsSafe(t *testing.T) {
	result := analyze(t, "https://kaspi.kz")
	if len(result.Issues) != 0 {
		t.Fatalf("issues = %+v, want none", result.Issues)
	}
	if !approxEq(result.Score, 0.05) || result.Verdict != VerdictSafe {
		t.Errorf("score = %v verdict = %q, want 0.05/safe", result.Score, result.Verdict)
	}
}

func TestBrandOnFreeTLD(t *testing.T) {
	result := analyze(t, "http://kaspi-secure-login.tk/verify")

	for _, kind := range []IssueKind{
		KindBrandImpersonation, KindSuspiciousTLD, KindExcessiveHyphens,
		KindNoHTTPS, KindSuspiciousPath,
	} {
		if !hasKind(result.Issues, kind) {
			t.Errorf("missing %q issue", kind)
		}
	}

	if result.Verdict != VerdictPhishing {
		t.Errorf("verdict = %q, want phishing", result.Verdict)
	}
	// 0.90 max, five issues: 0.9*0.6 + 0.6*0.25 + 0.15
	if !approxEq(result.Score, 0.84) {
		t.Errorf("score = %v, want 0.84", result.Score)
	}

	brand := findKind(t, result.Issues, KindBrandImpersonation)
	if brand.Evidence.Brand != "kaspi" {
		t.Errorf("brand = %q, want kaspi", brand.Evidence.Brand)
	}
	if len(brand.Evidence.OfficialDomains) == 0 {
		t.Error("official domains missing from evidence")
	}
}

func TestTyposquattedDomain(t *testing.T) {
	result := analyze(t, "http://gooogle.com/login")

	typo := findKind(t, result.Issues, KindTyposquatting)
	if typo.Evidence.Distance != 1 || !approxEq(typo.Severity, 0.95) {
		t.Errorf("typo issue = %+v, want distance 1 severity 0.95", typo)
	}
	if typo.Evidence.Brand != "google" {
		t.Errorf("brand = %q, want google", typo.Evidence.Brand)
	}

	if result.Verdict != VerdictPhishing || result.Score < 0.80 {
		t.Errorf("score = %v verdict = %q, want >=0.80/phishing", result.Score, result.Verdict)
	}
}

func TestUserinfoDisguise(t *testing.T) {
	result := analyze(t, "http://kaspi.kz@evil-site.tk/login")

	if !hasKind(result.Issues, KindAtSymbolRedirect) {
		t.Error("missing at_symbol_redirect issue")
	}
	// The brand sits in the userinfo, not the host; it still counts as
	// impersonation because the real destination is evil-site.tk.
	brand := findKind(t, result.Issues, KindBrandImpersonation)
	if brand.Evidence.Brand != "kaspi" {
		t.Errorf("brand = %q, want kaspi", brand.Evidence.Brand)
	}
	if result.Verdict != VerdictPhishing {
		t.Errorf("verdict = %q, want phishing", result.Verdict)
	}
}

func TestIPAddressHost(t *testing.T) {
	result := analyze(t, "http://203.0.113.7/login")
	issue := findKind(t, result.Issues, KindIPAddressDomain)
	if !approxEq(issue.Severity, 0.85) {
		t.Errorf("severity = %v, want 0.85", issue.Severity)
	}
	if hasKind(result.Issues, KindTyposquatting) {
		t.Error("typosquatting must not run on IP hosts")
	}
}

func TestMixedScriptHost(t *testing.T) {
	// Cyrillic о in an otherwise Latin host.
	result := analyze(t, "https://gооgle.com")
	if !hasKind(result.Issues, KindMixedScripts) {
		t.Errorf("missing mixed_scripts issue, got %+v", result.Issues)
	}
	issue := findKind(t, result.Issues, KindMixedScripts)
	if !approxEq(issue.Severity, 0.95) {
		t.Errorf("severity = %v, want 0.95", issue.Severity)
	}
}

func TestURLShortener(t *testing.T) {
	result := analyze(t, "https://bit.ly/3xYzAbC")
	issue := findKind(t, result.Issues, KindURLShortener)
	if !approxEq(issue.Severity, 0.40) {
		t.Errorf("severity = %v, want 0.40", issue.Severity)
	}
	if result.Verdict != VerdictSuspicious {
		t.Errorf("verdict = %q, want suspicious", result.Verdict)
	}
}

func TestJavascriptURIIsCritical(t *testing.T) {
	result := analyze(t, "https://example.com/?q=javascript:alert(1)")
	issue := findKind(t, result.Issues, KindJavascriptURI)
	if issue.Severity != 1.0 {
		t.Errorf("severity = %v, want 1.0", issue.Severity)
	}
	if result.Verdict != VerdictPhishing {
		t.Errorf("verdict = %q, want phishing", result.Verdict)
	}
}

func TestPunycodeHost(t *testing.T) {
	result := analyze(t, "https://xn--e1awd7f.com")
	if !hasKind(result.Issues, KindPunycodeDomain) {
		t.Errorf("missing punycode issue, got %+v", result.Issues)
	}
}

func TestUnusualPort(t *testing.T) {
	result := analyze(t, "https://example.com:8081/")
	issue := findKind(t, result.Issues, KindUnusualPort)
	if issue.Evidence.Port != 8081 {
		t.Errorf("port = %d, want 8081", issue.Evidence.Port)
	}
}

func TestStandardPortNotFlagged(t *testing.T) {
	result := analyze(t, "https://example.com:443/")
	if hasKind(result.Issues, KindUnusualPort) {
		t.Error("port 443 must not be flagged")
	}
}

func TestRedirectParameter(t *testing.T) {
	result := analyze(t, "https://example.com/page?redirect=https%3A%2F%2Fother.example")
	if !hasKind(result.Issues, KindRedirectParameter) {
		t.Errorf("missing redirect_parameter issue, got %+v", result.Issues)
	}
}

func TestExcessiveSubdomains(t *testing.T) {
	result := analyze(t, "https://a.b.c.example.com/")
	issue := findKind(t, result.Issues, KindExcessiveSubdomains)
	if issue.Evidence.Count != 3 {
		t.Errorf("count = %d, want 3", issue.Evidence.Count)
	}
}

func TestUnparseableInput(t *testing.T) {
	result := analyze(t, "http://%zz/")
	if !hasKind(result.Issues, KindUnparseable) {
		t.Fatalf("issues = %+v, want unparseable", result.Issues)
	}
	if result.Score != 1.0 || result.Verdict != VerdictPhishing {
		t.Errorf("score = %v verdict = %q, want 1.0/phishing", result.Score, result.Verdict)
	}
}

func TestSchemeDefaultedBeforeParsing(t *testing.T) {
	// Bare hosts are accepted the way users paste them.
	result := analyze(t, "kaspi.kz")
	if hasKind(result.Issues, KindUnparseable) {
		t.Fatalf("bare host treated as unparseable: %+v", result.Issues)
	}
	// Defaulting to http means the transport issue applies.
	if !hasKind(result.Issues, KindNoHTTPS) {
		t.Error("missing no_https issue for bare host")
	}
}

func TestChecksPerformedRecorded(t *testing.T) {
	result := analyze(t, "https://example.com/")
	want := map[string]bool{
		"url_parse":            false,
		"brand_impersonation":  false,
		"typosquatting":        false,
		"homograph_detection":  false,
		"url_pattern_analysis": false,
		"tld_check":            false,
	}
	for _, c := range result.ChecksPerformed {
		if _, ok := want[c]; ok {
			want[c] = true
		}
	}
	for tag, seen := range want {
		if !seen {
			t.Errorf("check %q not recorded", tag)
		}
	}
}
