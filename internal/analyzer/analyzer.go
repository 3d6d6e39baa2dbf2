// Copyright (c) 2024-2026 PhishGuard contributors.
// Analysis intelligence — heuristic detection engine.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Asizxs33/PHISHGUARD/internal/brands"
	"github.com/Asizxs33/PHISHGUARD/internal/urlinfo"
	"github.com/Asizxs33/PHISHGUARD/internal/webclient"
)

// BlacklistSource answers membership questions against the most recent
// threat-feed snapshot. Implementations must be safe for concurrent use.
type BlacklistSource interface {
	Contains(host, rawURL string) bool
}

// DocumentFetcher is the network collaborator that downloads and parses
// page content. Its failures are degradations, never analysis errors.
type DocumentFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*webclient.Document, error)
}

// Prediction is the opaque output of the externally trained classifier.
type Prediction struct {
	Score       float64        `json:"score"`
	Label       string         `json:"label"`
	Explanation map[string]any `json:"explanation,omitempty"`
}

// Predictor is the learned-model collaborator. How features are computed
// is the model service's business; the engine only consumes the
// probability.
type Predictor interface {
	Predict(ctx context.Context, target string) (*Prediction, error)
}

// Analyzer runs the detector catalog and scoring over URLs, page content,
// and phone numbers. Analyses are stateless; the only long-lived state is
// the injected collaborators, all read-only here.
type Analyzer struct {
	Brands  *brands.Registry
	Rules   *Ruleset
	Weights Weights

	Blacklist  BlacklistSource
	Fetcher    DocumentFetcher
	URLModel   Predictor
	PhoneModel Predictor

	maxConcurrent int
	semaphore     chan struct{}
}

type Option func(*Analyzer)

func WithMaxConcurrent(n int) Option {
	return func(a *Analyzer) {
		a.maxConcurrent = n
		a.semaphore = make(chan struct{}, n)
	}
}

func WithBlacklist(b BlacklistSource) Option {
	return func(a *Analyzer) { a.Blacklist = b }
}

func WithFetcher(f DocumentFetcher) Option {
	return func(a *Analyzer) { a.Fetcher = f }
}

func WithURLModel(p Predictor) Option {
	return func(a *Analyzer) { a.URLModel = p }
}

func WithPhoneModel(p Predictor) Option {
	return func(a *Analyzer) { a.PhoneModel = p }
}

func WithWeights(w Weights) Option {
	return func(a *Analyzer) { a.Weights = w }
}

func WithRuleset(r *Ruleset) Option {
	return func(a *Analyzer) { a.Rules = r }
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		Brands:        brands.Default(),
		Rules:         DefaultRuleset(),
		Weights:       DefaultWeights(),
		maxConcurrent: 8,
		semaphore:     make(chan struct{}, 8),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

type namedIssues struct {
	key    string
	issues []Issue
}

// AnalyzeURL runs every URL detector, the blacklist check, and — when a
// fetcher is configured — the content detectors, then aggregates the
// findings into a score and verdict. A configured URL model's probability
// is blended in through the ensemble combiner; its absence or failure
// degrades to the heuristic-only result.
func (a *Analyzer) AnalyzeURL(ctx context.Context, rawURL string) (*AnalysisResult, error) {
	select {
	case a.semaphore <- struct{}{}:
		defer func() { <-a.semaphore }()
	case <-time.After(10 * time.Second):
		slog.Warn("Backpressure: rejected analysis", "url", rawURL)
		return nil, fmt.Errorf("analysis capacity exhausted, try again shortly")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	toParse := strings.TrimSpace(rawURL)
	if !strings.Contains(toParse, "://") {
		toParse = "http://" + toParse
	}

	parsed, err := url.Parse(toParse)
	if err != nil || parsed.Hostname() == "" {
		// Fail toward suspicion: malformed input is itself the finding.
		issue := Issue{Kind: KindUnparseable, Severity: 1.0, Detail: "URL could not be parsed"}
		return &AnalysisResult{
			Input:           rawURL,
			Score:           1.0,
			Verdict:         a.Weights.VerdictFor(1.0),
			HeuristicScore:  1.0,
			Issues:          []Issue{issue},
			ChecksPerformed: []string{"url_parse"},
		}, nil
	}

	domain := urlinfo.FromURL(parsed)
	uctx := &urlContext{
		raw:    toParse,
		lower:  strings.ToLower(toParse),
		parsed: parsed,
		domain: domain,
		brands: a.Brands,
		rules:  a.Rules,
	}

	resultsCh := make(chan namedIssues, 8)
	var wg sync.WaitGroup
	run := func(key string, fn func() []Issue) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resultsCh <- namedIssues{key, runIsolated(key, fn)}
		}()
	}

	checks := []string{"url_parse"}
	for _, d := range urlDetectors() {
		checks = append(checks, d.tag)
	}
	run("url_checks", func() []Issue { return a.runURLDetectors(uctx) })
	if a.Blacklist != nil {
		checks = append(checks, "osint_blacklist")
		run("osint_blacklist", func() []Issue { return a.checkBlacklist(domain.Host, toParse) })
	}

	var contentMu sync.Mutex
	contentAnalyzed := false
	if a.Fetcher != nil {
		checks = append(checks, "content_analysis")
		run("content_analysis", func() []Issue {
			doc, ferr := a.Fetcher.Fetch(ctx, toParse)
			if ferr != nil {
				// Fail-open: no content signals, URL heuristics still count.
				slog.Info("Content fetch failed, URL-only analysis", "url", rawURL, "error", ferr)
				return nil
			}
			contentMu.Lock()
			contentAnalyzed = true
			contentMu.Unlock()
			return a.AnalyzeContent(doc, domain)
		})
	}

	var prediction *Prediction
	predDone := make(chan struct{})
	if a.URLModel != nil {
		go func() {
			defer close(predDone)
			p, perr := a.URLModel.Predict(ctx, toParse)
			if perr != nil {
				slog.Info("Model prediction unavailable, heuristic-only result", "url", rawURL, "error", perr)
				return
			}
			prediction = p
		}()
	} else {
		close(predDone)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	var issues []Issue
	for nr := range resultsCh {
		issues = append(issues, nr.issues...)
	}
	<-predDone
	SortIssues(issues)

	heuristic := a.Weights.Score(issues)
	result := &AnalysisResult{
		Input:           rawURL,
		Score:           heuristic,
		Verdict:         a.Weights.VerdictFor(heuristic),
		HeuristicScore:  heuristic,
		Issues:          issues,
		ChecksPerformed: checks,
		ContentAnalyzed: contentAnalyzed,
	}

	if prediction != nil {
		learned := clamp01(prediction.Score)
		final, verdict := a.Weights.CombineScores(
			heuristic, learned,
			result.Verdict, a.Weights.VerdictFor(learned),
			issues,
		)
		result.Score = final
		result.Verdict = verdict
		result.LearnedScore = &learned
	}

	return result, nil
}

// AnalyzeContent runs the content detectors over an already-parsed page.
// Exposed so callers holding their own HTML can analyze it directly.
func (a *Analyzer) AnalyzeContent(doc *webclient.Document, page *urlinfo.Domain) []Issue {
	cctx := &contentContext{doc: doc, page: page, brands: a.Brands, rules: a.Rules}
	var issues []Issue
	for _, d := range contentDetectors() {
		det := d
		issues = append(issues, runIsolated(det.tag, func() []Issue { return det.fn(cctx) })...)
	}
	return issues
}

// AnalyzePhone scores a phone number. Phone heuristics accumulate
// additively; when the phone model returns a probability the higher of
// the two wins — the most alarming signal decides.
func (a *Analyzer) AnalyzePhone(ctx context.Context, phone string) (*AnalysisResult, error) {
	cleaned, digits := NormalizePhone(phone)
	if digits == "" {
		issue := Issue{Kind: KindInvalidLength, Severity: 0.80, Detail: "No digits found in phone number"}
		return &AnalysisResult{
			Input:           phone,
			Score:           0.8,
			Verdict:         a.Weights.VerdictFor(0.8),
			HeuristicScore:  0.8,
			Issues:          []Issue{issue},
			ChecksPerformed: []string{"phone_normalize"},
		}, nil
	}

	heuristic, issues := phoneIssues(cleaned, digits, a.Rules, a.Weights)
	SortIssues(issues)

	result := &AnalysisResult{
		Input:           cleaned,
		Score:           heuristic,
		Verdict:         a.Weights.VerdictFor(heuristic),
		HeuristicScore:  heuristic,
		Issues:          issues,
		ChecksPerformed: []string{"phone_normalize", "phone_length", "phone_prefixes"},
	}

	if a.PhoneModel != nil {
		if p, err := a.PhoneModel.Predict(ctx, cleaned); err == nil && p != nil {
			learned := clamp01(p.Score)
			result.LearnedScore = &learned
			if learned > result.Score {
				result.Score = learned
			}
			result.Verdict = a.Weights.VerdictFor(result.Score)
		} else if err != nil {
			slog.Info("Phone model prediction unavailable", "error", err)
		}
	}

	return result, nil
}

func (a *Analyzer) runURLDetectors(uctx *urlContext) []Issue {
	var issues []Issue
	for _, d := range urlDetectors() {
		det := d
		issues = append(issues, runIsolated(det.tag, func() []Issue { return det.fn(uctx) })...)
	}
	return issues
}

func (a *Analyzer) checkBlacklist(host, rawURL string) []Issue {
	if !a.Blacklist.Contains(host, rawURL) {
		return nil
	}
	return []Issue{{
		Kind:     KindOsintBlacklist,
		Severity: 1.0,
		Detail:   fmt.Sprintf("Domain %s is listed in public OSINT phishing databases", host),
		Evidence: Evidence{Domain: host},
	}}
}

// runIsolated confines a detector fault to that detector: a panic is
// logged and yields no findings, and the remaining detectors still run.
func runIsolated(tag string, fn func() []Issue) (issues []Issue) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Detector panicked, skipping its findings", "detector", tag, "panic", r)
			issues = nil
		}
	}()
	return fn()
}

// SortIssues orders findings by severity, highest first, for stable
// presentation. The scoring itself never depends on input order.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity > issues[j].Severity
	})
}
