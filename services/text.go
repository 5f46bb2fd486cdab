package services

import (
	"regexp"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ligatureReplacer = strings.NewReplacer(
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬀ", "ff",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬆ", "st",
)

var (
	inlineSpaceRE   = regexp.MustCompile("[ \t\f\v\u00A0]+")
	multiNewlinesRE = regexp.MustCompile(`\n{3,}`)
)

// normalizeText führt NFC-Normalisierung durch und ersetzt gängige Ligaturen.
func normalizeText(s string) string {
	s = ligatureReplacer.Replace(s)
	normalized, _, err := transform.String(norm.NFC, s)
	if err != nil {
		return s
	}
	return normalized
}

// cleanLine normalisiert einen einzeiligen Wert und fasst Leerraum zusammen.
func cleanLine(s string) string {
	s = normalizeText(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// cleanBlock normalisiert mehrzeiligen Text; Absätze bleiben erhalten.
func cleanBlock(s string) string {
	s = normalizeText(strings.ReplaceAll(s, "\r\n", "\n"))
	s = inlineSpaceRE.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = multiNewlinesRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
