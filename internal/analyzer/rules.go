// Copyright (c) 2024-2026 PhishGuard contributors.
// Analysis intelligence — heuristic detection engine.
package analyzer

import "regexp"

// ContentPattern is one page-text keyword matched at word boundaries.
// The page tables are separate from the URL tables: URLs pack keywords
// into hostnames with no separators, while prose needs boundaries so
// "вулкан" does not fire inside "вулканизация". regexp's \b is
// ASCII-only, so boundaries are spelled with Unicode classes.
type ContentPattern struct {
	Keyword string
	re      *regexp.Regexp
}

// MatchesText reports whether the keyword occurs in text as a whole word.
func (p ContentPattern) MatchesText(text string) bool {
	return p.re.MatchString(text)
}

func wordPattern(fragment string) ContentPattern {
	return ContentPattern{
		Keyword: fragment,
		re:      regexp.MustCompile(`(?i)(?:\A|[^\p{L}\p{N}])(?:` + fragment + `)(?:[^\p{L}\p{N}]|\z)`),
	}
}

func wordPatterns(fragments ...string) []ContentPattern {
	out := make([]ContentPattern, len(fragments))
	for i, f := range fragments {
		out[i] = wordPattern(f)
	}
	return out
}

// Ruleset centralizes the keyword, TLD, and prefix tables the detectors
// match against, so severities and word lists can be tuned offline
// without touching detector logic. Values are the original calibration;
// construct with DefaultRuleset and override fields as needed.
type Ruleset struct {
	Version string

	// Free and heavily abused TLDs.
	SuspiciousTLDs []string

	// Login/verification words counted in URL paths.
	PathKeywords []string

	// Gambling keywords matched in hosts, paths, and queries.
	CasinoKeywords []string

	// Gambling phrasing matched as whole words in rendered page text.
	CasinoContentPatterns []ContentPattern

	// Credential/urgency phrasing matched as whole words in page text.
	PhishingContentPatterns []ContentPattern

	// Brand fragments scanned in CSS-hidden text alongside the phishing
	// phrasing. Kept deliberately short; generic brand names like "mail"
	// would fire on hidden boilerplate.
	HiddenTextNeedles []string

	// Known link shortener hosts.
	Shorteners []string

	// Query parameter names that carry a redirect target.
	RedirectParams []string

	// Executable extensions flagged in double-extension paths.
	DangerousExtensions []string

	// Large platforms exempt from the URL length check.
	TrustedLongURLHosts []string

	// Embeds exempt from the oversized-iframe check.
	TrustedIframeHosts []string

	// Input name fragments that indicate card-data collection.
	CardFieldNames []string

	// Phone: country prefixes with high scam incidence, and the home
	// region treated as expected.
	HighRiskPhonePrefixes map[string]string
	HomePhonePrefixes     []string
	SpoofedBankPrefixes   []string

	MaxURLLength        int
	MaxEncodedSequences int
	MaxDeadLinkRatio    float64
	MinLinksForDeadCheck int
	MinHiddenElements   int
}

// DefaultRuleset returns the built-in rule tables.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		Version: "2026.08",

		SuspiciousTLDs: []string{
			".tk", ".ml", ".ga", ".cf", ".gq",
			".xyz", ".top", ".win", ".bid", ".stream", ".racing",
			".download", ".loan", ".date", ".faith", ".review",
			".science", ".party", ".click", ".link", ".work", ".buzz",
			".rest", ".monster", ".surf", ".icu", ".cam", ".quest",
			".cfd", ".sbs", ".autos", ".boats",
		},

		PathKeywords: []string{
			"login", "signin", "sign-in", "log-in", "verify", "confirm",
			"update", "secure", "account", "banking", "password", "credential",
			"authenticate", "validate", "authorize", "restore", "recover",
			"suspend", "restrict", "unlock", "reactivate", "identity",
			"webscr", "cmd=login", "wp-admin", "admin/login",
		},

		CasinoKeywords: []string{
			"casino", "vulkan", "vulcan", "1xbet", "betting", "stavki", "azino",
			"joycasino", "sloty", "slots", "spin", "jackpot", "pinup", "1win",
			"melbet", "parimatch", "olimpbet", "fonbet", "казино", "вулкан",
			"ставка", "ставки", "рулетка", "автоматы", "азино", "win", "lotto",
			"lottery", "лотерея", "розыгрыш",
		},

		CasinoContentPatterns: wordPatterns(
			"казино", "рулетка", "игровые автоматы", "vulkan", "вулкан",
			"1xbet", "melbet", "olimpbet", "fonbet", "parimatch",
			"ставк[аи]", "betting", "slots?", "jackpot", "джекпот",
			"фриспин", "freespins?", "азартные игры", "pin-?up", "1win",
			"azino", "joycasino", "слоты", "лотерея", "lottery",
			"покер", "poker", "блэкджек", "играть на деньги",
		),

		PhishingContentPatterns: wordPatterns(
			"введите пароль", "подтвердите аккаунт", "ваша карта заблокирована",
			"verify identity", "secure login", "update your account",
			"сброс пароля", "вход в интернет-банк", "войти в аккаунт",
			"введите данные карты", "cvv", "пин-код", "pin code",
			"social security number", "обновить данные", "штраф оплатить",
		),

		HiddenTextNeedles: []string{"kaspi", "halyk", "bank"},

		Shorteners: []string{
			"bit.ly", "tinyurl.com", "goo.gl", "t.co", "ow.ly", "is.gd",
			"buff.ly", "rebrand.ly", "cutt.ly", "shorturl.at", "rb.gy",
			"tinycc.com", "short.io", "v.gd", "clck.ru", "qps.ru",
		},

		RedirectParams: []string{
			"redirect", "url", "next", "goto", "return", "dest", "link", "target",
		},

		DangerousExtensions: []string{
			"exe", "bat", "cmd", "scr", "js", "vbs", "ps1", "msi", "com",
		},

		TrustedLongURLHosts: []string{
			"canva.com", "figma.com", "google.com", "microsoft.com", "sharepoint.com",
		},

		TrustedIframeHosts: []string{
			"youtube.com", "google.com/maps", "vimeo.com", "recaptcha",
		},

		CardFieldNames: []string{
			"cc", "cvv", "card_number", "credit_card", "pin",
		},

		HighRiskPhonePrefixes: map[string]string{
			"+234": "Nigeria",
			"+91":  "India",
			"+44":  "UK (often virtual)",
			"+371": "Latvia (often virtual)",
			"+372": "Estonia (often virtual)",
			"+380": "Ukraine",
		},
		HomePhonePrefixes:   []string{"+7", "+996", "+998"},
		SpoofedBankPrefixes: []string{"+7800", "+7495", "+7499"},

		MaxURLLength:         150,
		MaxEncodedSequences:  5,
		MaxDeadLinkRatio:     0.4,
		MinLinksForDeadCheck: 5,
		MinHiddenElements:    3,
	}
}
