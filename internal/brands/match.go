package brands

import (
	"strings"

	"github.com/Zamiell/confusables"
	"github.com/agnivade/levenshtein"
)

const (
	// A typosquat is only reported within this edit distance.
	maxTypoDistance = 2
	// Canonical labels shorter than this are too generic to match against.
	minCanonicalLabelLen = 4
	// Candidate labels whose length differs by more than this are skipped
	// before computing the distance.
	lengthPrefilter = 3

	severityDistanceOne = 0.95
	severityDistanceTwo = 0.80
)

// TypoMatch is one brand's closest look-alike finding for a domain label.
type TypoMatch struct {
	Brand          string
	Canonical      string // full canonical domain, e.g. google.com
	CanonicalLabel string // label compared against, e.g. google
	Distance       int
	Severity       float64
}

// BestTypoMatches compares a domain's primary label against every
// registered brand and returns at most one match per brand: the canonical
// label with the smallest edit distance in (0, 2]. A domain whose
// registrable base is already one of the brand's canonical domains is
// never matched against that brand.
func (r *Registry) BestTypoMatches(primaryLabel, registrableBase string) []TypoMatch {
	label := strings.ToLower(primaryLabel)
	base := strings.ToLower(registrableBase)
	if label == "" {
		return nil
	}

	var matches []TypoMatch
	for _, e := range r.entries {
		if containsString(e.Domains, base) {
			continue
		}

		best := TypoMatch{Distance: maxTypoDistance + 1}
		for _, canonical := range e.Domains {
			canonicalLabel := strings.SplitN(canonical, ".", 2)[0]
			if len(canonicalLabel) < minCanonicalLabelLen {
				continue
			}
			if abs(len(label)-len(canonicalLabel)) > lengthPrefilter {
				continue
			}
			d := levenshtein.ComputeDistance(label, canonicalLabel)
			if d > 0 && d <= maxTypoDistance && d < best.Distance {
				best = TypoMatch{
					Brand:          e.Name,
					Canonical:      canonical,
					CanonicalLabel: canonicalLabel,
					Distance:       d,
				}
			}
		}

		if best.Brand != "" {
			if best.Distance == 1 {
				best.Severity = severityDistanceOne
			} else {
				best.Severity = severityDistanceTwo
			}
			matches = append(matches, best)
		}
	}
	return matches
}

// BrandSimilarity is a continuous closeness feature: 1/(1+d) over the
// minimum edit distance to any canonical label. It is not itself a
// finding; the learned model consumes it.
func (r *Registry) BrandSimilarity(label string) float64 {
	label = strings.ToLower(label)
	if label == "" {
		return 0
	}
	minDist := -1
	for _, e := range r.entries {
		for _, canonical := range e.Domains {
			canonicalLabel := strings.SplitN(canonical, ".", 2)[0]
			if abs(len(label)-len(canonicalLabel)) > lengthPrefilter {
				continue
			}
			d := levenshtein.ComputeDistance(label, canonicalLabel)
			if minDist < 0 || d < minDist {
				minDist = d
			}
		}
	}
	if minDist < 0 {
		return 0
	}
	return 1.0 / float64(1+minDist)
}

// SkeletonMatch catches homoglyph substitutions that edit distance misses:
// a label whose confusables skeleton equals a canonical label's skeleton
// while not being that label. Returns the first brand hit.
func (r *Registry) SkeletonMatch(label, registrableBase string) (TypoMatch, bool) {
	label = strings.ToLower(label)
	base := strings.ToLower(registrableBase)
	if label == "" || !confusables.ContainsHomoglyphs(label) {
		return TypoMatch{}, false
	}
	skeleton := strings.ToLower(confusables.Normalize(label))

	for _, e := range r.entries {
		if containsString(e.Domains, base) {
			continue
		}
		for _, canonical := range e.Domains {
			canonicalLabel := strings.SplitN(canonical, ".", 2)[0]
			if len(canonicalLabel) < minCanonicalLabelLen || canonicalLabel == label {
				continue
			}
			if skeleton == strings.ToLower(confusables.Normalize(canonicalLabel)) {
				return TypoMatch{
					Brand:          e.Name,
					Canonical:      canonical,
					CanonicalLabel: canonicalLabel,
					Distance:       0,
					Severity:       severityDistanceOne,
				}, true
			}
		}
	}
	return TypoMatch{}, false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
