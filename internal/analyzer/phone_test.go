package analyzer

import (
	"context"
	"testing"
)

func analyzePhone(t *testing.T, phone string) *AnalysisResult {
	t.Helper()
	result, err := New().AnalyzePhone(context.Background(), phone)
	if err != nil {
		t.Fatalf("AnalyzePhone(%q): %v", phone, err)
	}
	return result
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+7 700 123 45 67", "+77001234567"},
		{"8 (700) 123-45-67", "+77001234567"},
		{"77001234567", "+77001234567"},
		{"+234 801 234 5678", "+2348012345678"},
	}
	for _, tt := range tests {
		if got, _ := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHomeMobileNumberIsSafe(t *testing.T) {
	result := analyzePhone(t, "+77001234567")
	if len(result.Issues) != 0 {
		t.Fatalf("issues = %+v, want none", result.Issues)
	}
	if !approxEq(result.Score, 0.1) || result.Verdict != VerdictSafe {
		t.Errorf("score = %v verdict = %q, want 0.1/safe", result.Score, result.Verdict)
	}
}

func TestDomesticFormatNormalizedBeforeScoring(t *testing.T) {
	result := analyzePhone(t, "8 (700) 123-45-67")
	if result.Input != "+77001234567" {
		t.Errorf("input = %q, want normalized +77001234567", result.Input)
	}
	if result.Verdict != VerdictSafe {
		t.Errorf("verdict = %q, want safe", result.Verdict)
	}
}

func TestHighRiskCountryPrefix(t *testing.T) {
	result := analyzePhone(t, "+2348012345678")

	issue := findKind(t, result.Issues, KindHighRiskCountry)
	if !approxEq(issue.Severity, 0.70) {
		t.Errorf("severity = %v, want 0.70", issue.Severity)
	}
	// 0.1 baseline + 0.6 prefix
	if !approxEq(result.Score, 0.7) || result.Verdict != VerdictPhishing {
		t.Errorf("score = %v verdict = %q, want 0.7/phishing", result.Score, result.Verdict)
	}
	// A high-risk number must not stack the generic foreign finding on top.
	if hasKind(result.Issues, KindForeignNumber) {
		t.Error("high-risk prefix also flagged as generic foreign number")
	}
}

func TestForeignNumber(t *testing.T) {
	result := analyzePhone(t, "+15551234567")

	if !hasKind(result.Issues, KindForeignNumber) {
		t.Fatalf("issues = %+v, want foreign_number", result.Issues)
	}
	// 0.1 baseline + 0.3 foreign
	if !approxEq(result.Score, 0.4) || result.Verdict != VerdictSuspicious {
		t.Errorf("score = %v verdict = %q, want 0.4/suspicious", result.Score, result.Verdict)
	}
}

func TestSpoofedBankPoolNumber(t *testing.T) {
	result := analyzePhone(t, "+78001234567")

	if !hasKind(result.Issues, KindSpoofedBankNumber) {
		t.Fatalf("issues = %+v, want spoofed_bank_number", result.Issues)
	}
	// 0.1 baseline + 0.4 spoofed pool; home prefix so no foreign penalty.
	if !approxEq(result.Score, 0.5) || result.Verdict != VerdictSuspicious {
		t.Errorf("score = %v verdict = %q, want 0.5/suspicious", result.Score, result.Verdict)
	}
}

func TestShortNumberFlagged(t *testing.T) {
	result := analyzePhone(t, "+7123456")

	issue := findKind(t, result.Issues, KindInvalidLength)
	if issue.Evidence.Count != 7 {
		t.Errorf("digit count = %d, want 7", issue.Evidence.Count)
	}
	// 0.1 baseline + 0.5 invalid length
	if !approxEq(result.Score, 0.6) {
		t.Errorf("score = %v, want 0.6", result.Score)
	}
}

func TestSignalsStackAndClamp(t *testing.T) {
	// Short and high-risk: 0.1 + 0.5 + 0.6 clamps to 1.0.
	result := analyzePhone(t, "+2341234")
	if result.Score != 1.0 || result.Verdict != VerdictPhishing {
		t.Errorf("score = %v verdict = %q, want 1.0/phishing", result.Score, result.Verdict)
	}
}

func TestEmptyPhoneInput(t *testing.T) {
	result := analyzePhone(t, "call me")
	if !hasKind(result.Issues, KindInvalidLength) {
		t.Fatalf("issues = %+v, want invalid_length", result.Issues)
	}
	if result.Verdict != VerdictPhishing {
		t.Errorf("verdict = %q, want phishing", result.Verdict)
	}
}
