package model

// Known source types, ordered informally from most to least trusted.
const (
	SourceGOTS             = "gots"
	SourceOekoTex          = "oekotex"
	SourceBluesign         = "bluesign"
	SourceBetterCotton     = "bettercotton"
	SourceAssociationMember = "association_member"
	SourceDirectory        = "directory"
	SourceKnownManufacturer = "known_manufacturer"
	SourceFacilityVerified = "facility_verified"
	SourceFairExhibitor    = "fair_exhibitor"
	SourceOEMCustomer      = "oem_customer"
	SourcePrecisionSearch  = "precision_search"
	SourceBraveSearch      = "brave_search"
	SourceWebScrape        = "web_scrape"
	SourceTradeData        = "trade_data"
)

// sourcePriority ranks provenance for duplicate resolution: certification
// directories beat association directories beat known-target lists, down to
// trade-data rows. Unknown source types rank below everything listed.
var sourcePriority = map[string]int{
	SourceGOTS:             100,
	SourceOekoTex:          100,
	SourceBluesign:         95,
	SourceBetterCotton:     95,
	SourceAssociationMember: 85,
	SourceDirectory:        80,
	SourceKnownManufacturer: 75,
	SourceFacilityVerified: 70,
	SourceFairExhibitor:    60,
	SourceOEMCustomer:      50,
	SourcePrecisionSearch:  45,
	SourceBraveSearch:      30,
	SourceWebScrape:        25,
	SourceTradeData:        20,
}

// SourcePriority returns the trust rank for a source type, 0 when unknown.
func SourcePriority(sourceType string) int {
	return sourcePriority[sourceType]
}

// HighTrustSources earn the quality gate's +2 provenance bonus outright.
var HighTrustSources = map[string]struct{}{
	SourceGOTS:              {},
	SourceOekoTex:           {},
	SourceBluesign:          {},
	SourceBetterCotton:      {},
	SourceAssociationMember: {},
	SourceDirectory:         {},
	SourceKnownManufacturer: {},
	SourceFacilityVerified:  {},
}

// MediumTrustSources earn +1 only when a website or evidence URL backs the
// record up. oem_customer was demoted here after an audit found it produced
// garbage entities without corroboration; keep it out of the high set.
var MediumTrustSources = map[string]struct{}{
	SourceFairExhibitor:   {},
	SourceOEMCustomer:     {},
	SourcePrecisionSearch: {},
}

// AuditEntry records one merge decision for the drop/verify trail.
type AuditEntry struct {
	KeptCompany   string `json:"kept_company" db:"kept_company"`
	MergedCompany string `json:"merged_company" db:"merged_company"`
	Reason        string `json:"reason" db:"reason"`
}
