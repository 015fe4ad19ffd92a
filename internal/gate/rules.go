package gate

import (
	"regexp"
	"strings"
)

// Pattern sets are grouped by rule category so each category can be tested
// in isolation. Every predicate takes the trimmed company name (and, for
// domain rules, the source URL) and reports whether the rule fires.

// menuLiterals are website chrome captured by sloppy extractors.
var menuLiterals = map[string]struct{}{
	"about us": {}, "contact": {}, "contact us": {}, "home": {},
	"menu": {}, "header": {}, "footer": {}, "nav": {},
	"sign in": {}, "log in": {}, "register": {}, "subscribe": {}, "newsletter": {},
	"read more": {}, "learn more": {}, "click here": {}, "view all": {},
	"see more": {}, "show more": {}, "load more": {}, "view basket": {},
	"privacy policy": {}, "terms": {}, "cookie policy": {},
	"search results": {}, "no results": {}, "loading": {}, "please wait": {},
	"error": {}, "404": {}, "403": {}, "undefined": {}, "null": {},
}

// countryNames backs the bare-country-name rule.
var countryNames = map[string]struct{}{
	"turkey": {}, "brazil": {}, "argentina": {}, "peru": {}, "colombia": {},
	"ecuador": {}, "chile": {}, "mexico": {}, "uruguay": {}, "paraguay": {},
	"bolivia": {}, "venezuela": {}, "egypt": {}, "morocco": {}, "tunisia": {},
	"algeria": {}, "pakistan": {}, "india": {}, "bangladesh": {}, "vietnam": {},
	"indonesia": {}, "china": {}, "thailand": {}, "malaysia": {}, "philippines": {},
	"germany": {}, "italy": {}, "spain": {}, "portugal": {}, "france": {},
	"uk": {}, "usa": {}, "south africa": {}, "kenya": {}, "nigeria": {},
	"ethiopia": {}, "sri lanka": {}, "singapore": {}, "europe": {}, "asia": {},
}

var (
	// Title/headline shapes: colon headlines, listicles, how-tos.
	titlePatterns = regexp.MustCompile(`(?i)` +
		`^.{0,50}:\s|` +
		`\btypes?,\s|` +
		`\bmachine:\s|` +
		`\bguide\s+(to|for)\b|` +
		`\bhow\s+to\b|` +
		`\bwhat\s+is\b|` +
		`\bintroduction\s+to\b|` +
		`\b(top|best|latest)\s+\d+\b|` +
		`^the\s+(new|latest|best)\b|` +
		`\s(frame|machine)$`)

	// Sentence fragments: subject+verb openings, adverb phrases, years.
	sentencePatterns = regexp.MustCompile(`(?i)` +
		`^(we|they|our|it|this|that)\s+(are|is|was|were|have|has|will)\b|` +
		`\b(fully|now|recently|currently)\s+(supported|available|launched)\b|` +
		`^(here|there|now|also)\s|` +
		`\band\s+more\b|` +
		`\betc\.?($|\s)|` +
		`^\d+\s+years?\b|` +
		`\bsince\s+\d{4}\b`)

	// Job titles and person/role names.
	personPatterns = regexp.MustCompile(`(?i)` +
		`\b(technologist|manager|director|engineer|specialist|consultant|` +
		`expert|officer|head|chief|supervisor|coordinator|analyst|` +
		`ceo|cfo|cto|coo|owner|founder|president|vp|vice)\b|` +
		`\bfor\s+(dyeing|finishing|production|quality|sales|marketing)\b`)

	// OEM + machine-type compounds and bare product names.
	machinePatterns = regexp.MustCompile(`(?i)` +
		`^(brückner|bruckner|monforts|krantz|artos|santex|babcock|goller)\s+` +
		`(stenter|tenter|machine|ram|range|line|system|equipment)\b|` +
		`^stenter\s+(machine|frame|range|line)|` +
		`^(horizontal|vertical)\s+(chain|kette)|` +
		`\bgleitstein\b|\bkluppen\b|\bbuchse\b`)

	// Article fragment: preposition/article plus a single word.
	articleFragment = regexp.MustCompile(`(?i)^(the|of|in|a|an|to|for|with|from|by)\s+\w+$`)

	// Adjective + generic industry noun with no legal suffix.
	adjectiveNoun = regexp.MustCompile(`(?i)^(upcoming|new|latest|modern|advanced|sustainable|technical|home|quality|german|turkish|brazilian)\s+` +
		`(textile|textiles|machinery|machine|machines|fabric|fabrics|finishing|dyeing)s?$`)

	leadingDigit = regexp.MustCompile(`^\d+\s`)

	// Genuine legal-form or industry suffix, counted by the acceptance score.
	legalSuffix = regexp.MustCompile(`(?i)(?:^|[\s.,(])(` +
		`gmbh|ltd|llc|inc|corp|s\.?a\.?|a\.?g\.?|k\.?g\.?|co|company|limited|plc|pty|` +
		`b\.?v\.?|n\.?v\.?|srl|s\.?r\.?l\.?|spa|s\.?p\.?a\.?|a\.?s\.?|oy|ab|` +
		`anonim|a\.?ş\.?|ltd\.?şti\.?|ltda|cia|industries|group|holdings?|` +
		`tekstil|textile|textiles|fabrika|fabrics|mills?|` +
		`iplik|boya|terbiye|finishing` +
		`)(?:[\s.,)]|$)`)
)

// stenterOEMs is the fixed manufacturer/competitor list. A name that is or
// contains one of these is the machine vendor side of the market, never a
// buyer of parts.
var stenterOEMs = []string{
	"brückner", "bruckner", "monforts", "krantz", "artos", "santex",
	"babcock", "goller", "dilmenler", "benninger", "thies",
	"interspare", "elinmac",
}

// mediaOutlets reject news and magazine names that slip through as leads.
var mediaOutlets = []string{
	"fibre2fashion", "textile world", "textileworld", "apparel resources",
	"just-style", "ecotextile", "textile news", "innovation in textiles",
	"textilegence", "tekstil dünyası",
}

var mediaWords = regexp.MustCompile(`(?i)\b(news|magazine|journal|publication|media|gazette|tribune|bulletin|portal)\b`)

// genericTerms are industry nouns that alone never name a company.
var genericTerms = map[string]struct{}{
	"manufacturer": {}, "manufacturing": {}, "textile": {}, "textiles": {},
	"tekstil": {}, "makina": {}, "makine": {},
	"fabric": {}, "fabrics": {}, "finishing": {}, "dyeing": {}, "bleaching": {},
	"printing": {}, "processing": {}, "machine": {}, "machinery": {},
	"equipment": {}, "technology": {}, "process": {}, "industry": {},
	"industrial": {}, "production": {}, "products": {}, "product": {},
	"stenter": {}, "tenter": {}, "stenters": {}, "tenters": {}, "ram": {},
	"service": {}, "services": {}, "solutions": {}, "systems": {}, "system": {},
	"global": {}, "international": {}, "supplier": {}, "suppliers": {},
	"distributor": {}, "distributors": {}, "exhibitor": {}, "exhibition": {},
	"unknown": {}, "other": {}, "various": {}, "multiple": {}, "general": {},
}

// garbageWords catch truncated extractions and stray function words.
var garbageWords = map[string]struct{}{
	"what": {}, "does": {}, "how": {}, "when": {}, "where": {}, "why": {},
	"who": {}, "which": {}, "upcoming": {}, "new": {}, "latest": {},
	"best": {}, "top": {}, "modern": {}, "advanced": {}, "using": {},
	"used": {}, "uses": {}, "about": {}, "more": {}, "less": {}, "very": {},
	"much": {}, "also": {}, "even": {}, "just": {}, "only": {}, "some": {},
	"any": {}, "all": {}, "each": {}, "other": {}, "such": {}, "same": {},
	"different": {}, "various": {}, "several": {},
	// truncated OEM names seen in oem_customer extractions
	"ckner": {}, "nforts": {}, "antz": {}, "rtos": {}, "ntex": {},
}

// stopwords are ignored when deciding whether a short name is all-generic.
var stopwords = map[string]struct{}{
	"of": {}, "the": {}, "and": {}, "for": {}, "in": {}, "on": {}, "to": {},
}

// rejectDomains disqualify a lead by the source it was harvested from.
var rejectDomains = []string{
	// marketplaces
	"alibaba.com", "aliexpress.com", "indiamart.com", "made-in-china.com",
	"globalsources.com", "ec21.com", "tradekey.com", "dhgate.com",
	"exportersindia.com", "tradeindia.com",
	// academic
	"sciencedirect.com", "researchgate.net", "academia.edu", "springer.com",
	"mdpi.com", "ieee.org",
	// social / reference
	"wikipedia.org", "youtube.com", "facebook.com", "linkedin.com",
	"twitter.com", "instagram.com", "pinterest.com", "reddit.com",
	// industry news
	"textileworld.com", "fibre2fashion.com", "apparelresources.com",
}

// partsSupplierVocab flags (not rejects) parts/trading businesses; flagged
// leads are force-downgraded to C.
var partsSupplierVocab = []string{
	"spare parts", "spareparts", "yedek parça", "parts supplier",
	"machine parts", "replacement parts", "parts dealer", "parts shop",
	"machinery trading", "machine trading", "trading company",
	"import export", "trading house",
}

func hasLegalSuffix(company string) bool {
	return legalSuffix.MatchString(company)
}

func isMenuLiteral(lower string) bool {
	_, ok := menuLiterals[lower]
	return ok
}

// isBareCountryName fires when the non-suffix tokens of a name spell a
// country: "Chile", "Brazil Ltd". A real company keeps distinctive tokens
// beyond the geography.
func isBareCountryName(lower string) bool {
	if _, ok := countryNames[lower]; ok {
		return true
	}
	words := strings.Fields(lower)
	if len(words) < 2 || len(words) > 3 {
		return false
	}
	if _, ok := countryNames[words[0]]; !ok {
		return false
	}
	for _, w := range words[1:] {
		w = strings.Trim(w, ".,")
		if !isSuffixWord(w) {
			return false
		}
	}
	return true
}

func isSuffixWord(w string) bool {
	switch w {
	case "ltd", "llc", "inc", "corp", "co", "sa", "gmbh", "limited", "company",
		"tekstil", "textile", "textiles":
		return true
	}
	return false
}

func isStenterOEM(lower string) bool {
	for _, oem := range stenterOEMs {
		if strings.Contains(lower, oem) {
			return true
		}
	}
	return false
}

func isMediaOutlet(lower string) bool {
	for _, outlet := range mediaOutlets {
		if strings.Contains(lower, outlet) {
			return true
		}
	}
	return mediaWords.MatchString(lower)
}

// isAllGeneric fires for 1-3 word names whose every non-stopword token is
// an industry-generic noun.
func isAllGeneric(lower string) bool {
	words := strings.Fields(lower)
	if len(words) == 0 || len(words) > 3 {
		return false
	}
	checked := 0
	for _, w := range words {
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, generic := genericTerms[strings.Trim(w, ".,")]; !generic {
			return false
		}
		checked++
	}
	return checked > 0
}

func isRejectedSourceDomain(sourceURL string) (string, bool) {
	lower := strings.ToLower(sourceURL)
	if lower == "" {
		return "", false
	}
	for _, domain := range rejectDomains {
		if strings.Contains(lower, domain) {
			return domain, true
		}
	}
	return "", false
}

func matchesPartsSupplierVocab(text string) bool {
	for _, phrase := range partsSupplierVocab {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
