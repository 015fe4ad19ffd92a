// Package dedupe collapses duplicate lead records into one canonical lead
// per real-world company, keeping an audit trail of every merge.
package dedupe

import (
	"go.uber.org/zap"

	"github.com/texparts/leads-cli/internal/model"
	"github.com/texparts/leads-cli/internal/normalize"
	"github.com/texparts/leads-cli/internal/similarity"
)

// DefaultSimilarityThreshold is the fuzzy-match cutoff for the leftover
// pass, expressed as a 0..1 ratio over normalized names.
const DefaultSimilarityThreshold = 0.92

// Deduper merges duplicate leads. Leads are first bucketed by website
// domain, then by normalized name + country; only the remainder goes
// through the O(n²) fuzzy pass.
type Deduper struct {
	threshold float64
	matcher   similarity.Matcher
}

// New creates a Deduper. A nil matcher selects the Levenshtein backend;
// a non-positive threshold selects the default.
func New(threshold float64, matcher similarity.Matcher) *Deduper {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if matcher == nil {
		matcher = similarity.Levenshtein{}
	}
	return &Deduper{threshold: threshold, matcher: matcher}
}

// bucket is an ephemeral group of leads sharing one fingerprint.
type bucket struct {
	reason string
	leads  []*model.Lead
}

// Dedupe returns one lead per detected entity plus the merge audit trail.
// Input order decides tie-breaks, so output is deterministic for a given
// input sequence. An empty input yields empty output.
func (d *Deduper) Dedupe(leads []model.Lead) ([]model.Lead, []model.AuditEntry) {
	if len(leads) == 0 {
		return nil, nil
	}

	var (
		order     []string
		buckets   = make(map[string]*bucket)
		leftovers []*model.Lead
	)

	for i := range leads {
		lead := &leads[i]
		key, reason := fingerprint(lead)
		if key == "" {
			leftovers = append(leftovers, lead)
			continue
		}
		b, seen := buckets[key]
		if !seen {
			b = &bucket{reason: reason}
			buckets[key] = b
			order = append(order, key)
		}
		b.leads = append(b.leads, lead)
	}

	var (
		merged []model.Lead
		audit  []model.AuditEntry
	)
	for _, key := range order {
		b := buckets[key]
		kept := mergeBucket(b.leads, b.reason, &audit)
		merged = append(merged, *kept)
	}
	merged = append(merged, d.fuzzyPass(leftovers, &audit)...)

	zap.L().Info("dedupe complete",
		zap.Int("input", len(leads)),
		zap.Int("output", len(merged)),
		zap.Int("merges", len(audit)),
	)
	return merged, audit
}

// fingerprint returns the grouping key for a lead and the audit reason tag
// for merges inside its bucket. Domain takes priority over the name+country
// key so a lead can never be merged into two different groups.
func fingerprint(lead *model.Lead) (key, reason string) {
	if domain := normalize.Domain(lead.AnyWebsite()); domain != "" {
		return "domain|" + domain, "same_domain:" + domain
	}
	name := normalize.Company(lead.Company)
	country := normalize.Country(lead.Country)
	if name != "" && country != "" {
		k := name + "|" + country
		return "norm|" + k, "norm_country:" + k
	}
	return "", ""
}

// mergeBucket unions all members of a bucket into the member with the
// highest source trust priority (ties: first seen) and records one audit
// entry per absorbed lead.
func mergeBucket(members []*model.Lead, reason string, audit *[]model.AuditEntry) *model.Lead {
	kept := members[0]
	for _, m := range members[1:] {
		if model.SourcePriority(m.SourceType) > model.SourcePriority(kept.SourceType) {
			kept = m
		}
	}
	for _, m := range members {
		if m == kept {
			continue
		}
		*audit = append(*audit, model.AuditEntry{
			KeptCompany:   kept.Company,
			MergedCompany: m.Company,
			Reason:        reason,
		})
		absorb(kept, m)
	}
	return kept
}

// absorb unions other's list fields into kept and fills empty scalars.
// Field-set union is commutative, so the result is order-independent even
// though the kept identity is not.
func absorb(kept, other *model.Lead) {
	kept.Emails = model.CleanList(append(kept.Emails, other.Emails...))
	kept.Phones = model.CleanList(append(kept.Phones, other.Phones...))
	kept.CountryMentions = model.CleanList(append(kept.CountryMentions, other.CountryMentions...))

	websites := append([]string{}, kept.Websites...)
	if w := model.CleanString(kept.Website); w != "" {
		websites = append(websites, w)
	}
	websites = append(websites, other.Websites...)
	if w := model.CleanString(other.Website); w != "" {
		websites = append(websites, w)
	}
	kept.Websites = model.CleanList(websites)
	if model.CleanString(kept.Website) == "" && len(kept.Websites) > 0 {
		kept.Website = kept.Websites[0]
	}

	if model.CleanString(kept.Context) == "" {
		kept.Context = other.Context
	}
	if model.CleanString(kept.Country) == "" {
		kept.Country = other.Country
	}
	if model.CleanString(kept.EvidenceURL) == "" {
		kept.EvidenceURL = other.EvidenceURL
	}
	if other.Score > kept.Score {
		kept.Score = other.Score
	}
	// Supplier flags are sticky: one flagged duplicate taints the entity.
	kept.MachinerySupplier = kept.MachinerySupplier || other.MachinerySupplier
	kept.PartsSupplier = kept.PartsSupplier || other.PartsSupplier
	kept.TradingCompany = kept.TradingCompany || other.TradingCompany
	kept.Golden = kept.Golden || other.Golden
}

// fuzzyPass pairwise-merges leftovers whose normalized names are at or
// above the similarity threshold. Quadratic, but leftovers are a minority
// after the two exact-key passes.
func (d *Deduper) fuzzyPass(leftovers []*model.Lead, audit *[]model.AuditEntry) []model.Lead {
	var out []model.Lead
	consumed := make([]bool, len(leftovers))

	for i, lead := range leftovers {
		if consumed[i] {
			continue
		}
		consumed[i] = true
		kept := lead
		for j := i + 1; j < len(leftovers); j++ {
			if consumed[j] {
				continue
			}
			other := leftovers[j]
			if !d.similarName(kept.Company, other.Company) {
				continue
			}
			consumed[j] = true
			if model.SourcePriority(other.SourceType) > model.SourcePriority(kept.SourceType) {
				kept, other = other, kept
			}
			*audit = append(*audit, model.AuditEntry{
				KeptCompany:   kept.Company,
				MergedCompany: other.Company,
				Reason:        "name_similarity",
			})
			absorb(kept, other)
		}
		out = append(out, *kept)
	}
	return out
}

// similarName compares normalized company names; exact normalized equality
// short-circuits the ratio computation.
func (d *Deduper) similarName(a, b string) bool {
	na, nb := normalize.Company(a), normalize.Company(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	return d.matcher.Ratio(na, nb) >= d.threshold
}
