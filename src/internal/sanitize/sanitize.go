package sanitize

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// CleanURL returns a validated http/https URL or empty string.
func CleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	// String re-escapes the decoded path, so literal spaces become %20 and
	// existing escapes are kept as written.
	return u.String()
}

// StripTags removes every markup tag and comment from s. Text is kept
// exactly as written: entities stay encoded, so escaped markup never turns
// back into tags, and script or style bodies remain as text.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF once the input is consumed; a strings.Reader yields nothing else
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}

var lineBreak = regexp.MustCompile(`\r?\n|\r`)

// CollapseLineBreaks replaces every CRLF, LF or CR with a single space.
func CollapseLineBreaks(s string) string {
	return lineBreak.ReplaceAllString(s, " ")
}

// PlainText strips markup and folds line breaks, producing a single-line
// description suitable for publication metadata.
func PlainText(s string) string {
	return CollapseLineBreaks(StripTags(s))
}
