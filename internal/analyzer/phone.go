// Copyright (c) 2024-2026 PhishGuard contributors.
// Analysis intelligence — heuristic detection engine.
package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

var nonDigitPattern = regexp.MustCompile(`\D`)

// NormalizePhone strips formatting and applies the regional dialing
// conventions: a bare 7… gets a plus, a leading 8 is the domestic form
// of +7.
func NormalizePhone(phone string) (cleaned string, digits string) {
	cleaned = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	digits = nonDigitPattern.ReplaceAllString(cleaned, "")

	if !strings.HasPrefix(cleaned, "+") {
		switch {
		case strings.HasPrefix(digits, "7"):
			cleaned = "+" + cleaned
		case strings.HasPrefix(digits, "8"):
			cleaned = "+7" + digits[1:]
		default:
			cleaned = "+" + cleaned
		}
	}
	return cleaned, digits
}

// phoneIssues runs the phone checks and returns the findings together
// with the additive heuristic score. Phone scoring is deliberately not
// the issue-aggregation formula: it accumulates from a small baseline so
// several weak signals stack up.
func phoneIssues(cleaned, digits string, rules *Ruleset, w Weights) (float64, []Issue) {
	score := w.PhoneBaseline
	var issues []Issue

	if len(digits) < 10 || len(digits) > 15 {
		issues = append(issues, Issue{
			Kind:     KindInvalidLength,
			Severity: 0.80,
			Detail:   fmt.Sprintf("Phone number length (%d) is unusual", len(digits)),
			Evidence: Evidence{Count: len(digits)},
		})
		score += 0.5
	}

	highRisk := false
	for prefix, country := range rules.HighRiskPhonePrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			issues = append(issues, Issue{
				Kind:     KindHighRiskCountry,
				Severity: 0.70,
				Detail:   fmt.Sprintf("Country code %s (%s) has a high incidence of scam calls", prefix, country),
				Evidence: Evidence{Matched: []string{prefix, country}},
			})
			score += 0.6
			highRisk = true
			break
		}
	}

	home := false
	for _, prefix := range rules.HomePhonePrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			home = true
			break
		}
	}
	if !home && !highRisk {
		issues = append(issues, Issue{
			Kind:     KindForeignNumber,
			Severity: 0.40,
			Detail:   "Number is from outside the standard home region. Be cautious if they claim to be local",
		})
		score += 0.3
	}

	for _, prefix := range rules.SpoofedBankPrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			issues = append(issues, Issue{
				Kind:     KindSpoofedBankNumber,
				Severity: 0.50,
				Detail:   "Banks typically do not make outgoing calls from toll-free or landline pool numbers. This could be spoofed",
				Evidence: Evidence{Matched: []string{prefix}},
			})
			score += 0.4
			break
		}
	}

	return clamp01(score), issues
}
