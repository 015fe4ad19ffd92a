// Package normalize canonicalizes company names, country labels, and
// website domains for fingerprinting. All functions are pure and tolerate
// empty or malformed input by returning the empty string.
package normalize

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// dottedSuffixes matches dotted legal forms before punctuation folding
// destroys the dots. Anchored to whitespace so "masa" never loses "sa".
var dottedSuffixes = regexp.MustCompile(
	`(?:^|\s)(?:a\.ş\.|ltd\.şti\.|s\.a\.|s\.l\.|s\.p\.a\.|s\.r\.l\.|b\.v\.|n\.v\.|a\.s\.|a\.g\.|k\.g\.|co\.|ltd\.|inc\.|corp\.)(?:\s|$)`)

// suffixTokens are legal-form words dropped from normalized names as whole
// tokens. Covers the legal forms seen across the harvested markets (DACH,
// UK/US, Iberia, Turkey, Brazil, Nordics).
var suffixTokens = map[string]struct{}{
	"gmbh": {}, "ag": {}, "kg": {}, "kgaa": {},
	"bv": {}, "nv": {},
	"ltd": {}, "limited": {}, "llc": {}, "inc": {}, "corp": {},
	"co": {}, "company": {}, "plc": {}, "pty": {},
	"sa": {}, "sl": {}, "spa": {}, "sarl": {}, "srl": {},
	"oy": {}, "oyj": {}, "as": {}, "ab": {},
	"aş": {}, "anonim": {}, "şti": {}, "ltda": {}, "cia": {},
}

var (
	punctNoise = regexp.MustCompile(`["'.,()]`)
	multiSpace = regexp.MustCompile(`\s+`)

	foldCaser = cases.Fold()
)

// Company canonicalizes a company name: the input is case-folded, legal-form
// suffixes are removed as whole tokens, punctuation noise becomes spaces, and
// whitespace collapses. Idempotent; empty input yields "".
func Company(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	cleaned := foldCaser.String(name)
	for {
		replaced := dottedSuffixes.ReplaceAllString(cleaned, " ")
		if replaced == cleaned {
			break
		}
		cleaned = replaced
	}
	cleaned = punctNoise.ReplaceAllString(cleaned, " ")

	fields := strings.Fields(cleaned)
	kept := fields[:0]
	for _, f := range fields {
		if _, suffix := suffixTokens[f]; suffix {
			continue
		}
		kept = append(kept, f)
	}
	return strings.TrimSpace(multiSpace.ReplaceAllString(strings.Join(kept, " "), " "))
}

// countryAliases maps the label variants collectors emit to one canonical
// lowercase English label per country.
var countryAliases = map[string]string{
	"türkiye":        "turkey",
	"turkiye":        "turkey",
	"brasil":         "brazil",
	"méxico":         "mexico",
	"perú":           "peru",
	"mısır":          "egypt",
	"fas":            "morocco",
	"tunus":          "tunisia",
	"hindistan":      "india",
	"deutschland":    "germany",
	"españa":         "spain",
	"italia":         "italy",
	"viet nam":       "vietnam",
	"united states":  "usa",
	"u.s.a.":         "usa",
	"us":             "usa",
	"united kingdom": "uk",
	"great britain":  "uk",
}

// Country canonicalizes a free-form country label to a lowercase English
// name. Unknown labels pass through lowercased so they still group.
func Country(label string) string {
	c := strings.TrimSpace(foldCaser.String(label))
	if c == "" {
		return ""
	}
	if canonical, ok := countryAliases[c]; ok {
		return canonical
	}
	return c
}

// Domain extracts the lower-cased network host from a URL, with any
// leading "www." removed. Unparsable or missing input yields "".
func Domain(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	host = strings.TrimPrefix(host, "www.")
	// A host without a dot is noise, not a domain (stray words, localhost).
	if !strings.Contains(host, ".") {
		return ""
	}
	return host
}
