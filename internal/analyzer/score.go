// Copyright (c) 2024-2026 PhishGuard contributors.
// Analysis intelligence — heuristic detection engine.
package analyzer

import "sort"

// Weights holds the empirically chosen scoring constants. They were tuned
// against labeled regional phishing data, not derived; keep them
// overridable so offline tuning can replace them without code changes.
type Weights struct {
	// Issue aggregation.
	Baseline      float64 // score when no issues were found
	TopIssues     int     // how many severities are kept, highest first
	MaxWeight     float64 // weight of the highest severity (multi-issue)
	AvgWeight     float64 // weight of the mean of kept severities
	SingleWeight  float64 // weight of the severity when only one was kept
	BonusPerIssue float64 // cumulative-evidence bonus per issue
	BonusCap      float64

	// Ensemble combination.
	CriticalSeverity float64 // an issue at or above this makes evidence "critical"
	CriticalHeuristicWeight float64 // heuristic share on the critical branch
	AgreementMaxWeight      float64 // max-score share when both signals exceed the agreement bar
	CautionMaxWeight        float64 // max-score share when only one signal is elevated
	AgreementBar            float64
	CautionBar              float64

	// Verdict thresholds.
	SafeBelow  float64
	PhishingAt float64

	// Phone additive scoring.
	PhoneBaseline float64
}

// DefaultWeights returns the production calibration.
func DefaultWeights() Weights {
	return Weights{
		Baseline:      0.05,
		TopIssues:     5,
		MaxWeight:     0.6,
		AvgWeight:     0.25,
		SingleWeight:  0.85,
		BonusPerIssue: 0.03,
		BonusCap:      0.15,

		CriticalSeverity:        0.85,
		CriticalHeuristicWeight: 0.7,
		AgreementMaxWeight:      0.9,
		CautionMaxWeight:        0.6,
		AgreementBar:            0.6,
		CautionBar:              0.5,

		SafeBelow:  0.30,
		PhishingAt: 0.65,

		PhoneBaseline: 0.1,
	}
}

// Score aggregates an issue set into a heuristic score in [0,1].
// Deterministic for a given issue set: severities are sorted descending,
// the top N kept, and blended with a capped per-issue bonus.
func (w Weights) Score(issues []Issue) float64 {
	if len(issues) == 0 {
		return w.Baseline
	}

	severities := make([]float64, len(issues))
	for i, iss := range issues {
		severities[i] = iss.Severity
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(severities)))

	top := severities
	if len(top) > w.TopIssues {
		top = top[:w.TopIssues]
	}

	maxSev := top[0]
	bonus := float64(len(issues)) * w.BonusPerIssue
	if bonus > w.BonusCap {
		bonus = w.BonusCap
	}

	var score float64
	if len(top) > 1 {
		var sum float64
		for _, s := range top {
			sum += s
		}
		avg := sum / float64(len(top))
		score = maxSev*w.MaxWeight + avg*w.AvgWeight + bonus
	} else {
		score = maxSev*w.SingleWeight + bonus
	}

	return clamp01(score)
}

// VerdictFor maps a score onto the three-way verdict. This is the only
// verdict function; heuristic-only and ensemble paths both end here.
func (w Weights) VerdictFor(score float64) Verdict {
	switch {
	case score < w.SafeBelow:
		return VerdictSafe
	case score < w.PhishingAt:
		return VerdictSuspicious
	default:
		return VerdictPhishing
	}
}

// CombineScores reconciles the heuristic score with a learned-model score.
// Four branches, most-specific first:
//
//  1. critical heuristic evidence present — trust the corroborated
//     heuristic more heavily;
//  2. both elevated — mutual corroboration, lean on the higher;
//  3. one elevated — asymmetric caution;
//  4. both low — plain average.
//
// No other code path may compute a final verdict.
func (w Weights) CombineScores(heuristic, learned float64, heuristicVerdict, learnedVerdict Verdict, issues []Issue) (float64, Verdict) {
	hi, lo := heuristic, learned
	if lo > hi {
		hi, lo = lo, hi
	}

	var final float64
	switch {
	case HasCritical(issues, w.CriticalSeverity):
		final = heuristic*w.CriticalHeuristicWeight + learned*(1-w.CriticalHeuristicWeight)
	case heuristic > w.AgreementBar && learned > w.AgreementBar:
		final = hi*w.AgreementMaxWeight + lo*(1-w.AgreementMaxWeight)
	case heuristic > w.CautionBar || learned > w.CautionBar:
		final = hi*w.CautionMaxWeight + lo*(1-w.CautionMaxWeight)
	default:
		final = heuristic*0.5 + learned*0.5
	}

	final = clamp01(final)
	return final, w.VerdictFor(final)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
