package webclient

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Form is one <form> found on a page.
type Form struct {
	Action string
	Method string
}

// Input is one <input> with the attributes the detectors care about.
type Input struct {
	Type string
	Name string
}

// Iframe is one <iframe>, with the size hints needed to tell a widget
// embed from a full-page overlay.
type Iframe struct {
	Src        string
	Style      string
	Width      string
	Height     string
	FullScreen bool
}

// Document is the pre-parsed page model consumed by the content
// detectors. The engine never fetches or parses on its own: a Document is
// always supplied by this collaborator (or constructed directly in tests).
type Document struct {
	URL             string
	Title           string
	MetaDescription string
	VisibleText     string // script/style stripped, lowercased
	Forms           []Form
	Inputs          []Input
	Links           []string // href attributes, raw
	Iframes         []Iframe
	HiddenText      string // concatenated text of display:none elements
	HiddenCount     int
	BodyHandlers    map[string]string // oncontextmenu etc. -> attribute value
	MetaRefresh     string            // content attr of http-equiv=refresh, empty when absent
	ScriptText      string            // concatenated inline script bodies, lowercased
}

var displayNonePattern = regexp.MustCompile(`(?i)display:\s*none`)

// ParseDocument builds the Document model from HTML. pageURL is kept on
// the document so detectors can compare form/iframe targets against the
// page's own host.
func ParseDocument(pageURL string, doc *goquery.Document) *Document {
	d := &Document{
		URL:          pageURL,
		BodyHandlers: make(map[string]string),
	}

	d.Title = strings.ToLower(strings.TrimSpace(doc.Find("title").First().Text()))
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		d.MetaDescription = strings.ToLower(desc)
	}

	// Visible text, with script/style removed the way a reader sees it.
	clone := doc.Selection.Clone()
	clone.Find("script,style").Remove()
	d.VisibleText = strings.ToLower(normalizeSpace(clone.Text()))

	doc.Find("form").Each(func(_ int, s *goquery.Selection) {
		action, _ := s.Attr("action")
		method, _ := s.Attr("method")
		d.Forms = append(d.Forms, Form{Action: action, Method: method})
	})

	doc.Find("input").Each(func(_ int, s *goquery.Selection) {
		typ, _ := s.Attr("type")
		name, _ := s.Attr("name")
		d.Inputs = append(d.Inputs, Input{
			Type: strings.ToLower(typ),
			Name: strings.ToLower(name),
		})
	})

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		d.Links = append(d.Links, href)
	})

	doc.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		style, _ := s.Attr("style")
		width, _ := s.Attr("width")
		height, _ := s.Attr("height")
		d.Iframes = append(d.Iframes, Iframe{
			Src:        src,
			Style:      strings.ToLower(style),
			Width:      width,
			Height:     height,
			FullScreen: strings.Contains(strings.ToLower(style), "100%") || width == "100%" || height == "100%",
		})
	})

	var hidden []string
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		if displayNonePattern.MatchString(style) {
			d.HiddenCount++
			hidden = append(hidden, s.Text())
		}
	})
	d.HiddenText = strings.ToLower(strings.Join(hidden, " "))

	if body := doc.Find("body").First(); body.Length() > 0 {
		for _, attr := range []string{"oncontextmenu", "ondragstart", "onselectstart"} {
			if v, ok := body.Attr(attr); ok {
				d.BodyHandlers[attr] = strings.ToLower(v)
			}
		}
	}

	doc.Find(`meta[http-equiv]`).Each(func(_ int, s *goquery.Selection) {
		if equiv, _ := s.Attr("http-equiv"); strings.EqualFold(equiv, "refresh") {
			content, _ := s.Attr("content")
			d.MetaRefresh = content
		}
	})

	var scripts []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if _, external := s.Attr("src"); !external {
			scripts = append(scripts, s.Text())
		}
	})
	d.ScriptText = strings.ToLower(strings.Join(scripts, "\n"))

	return d
}

// SearchableText is the haystack for keyword detectors: title, meta
// description, and visible body text.
func (d *Document) SearchableText() string {
	return d.Title + " " + d.MetaDescription + " " + d.VisibleText
}

var spacePattern = regexp.MustCompile(`\s+`)

func normalizeSpace(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
