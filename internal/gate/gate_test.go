package gate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texparts/leads-cli/internal/model"
)

func TestGradeRejects(t *testing.T) {
	g := New()

	tests := []struct {
		name    string
		lead    model.Lead
		wantTag string
	}{
		{
			name:    "empty company",
			lead:    model.Lead{Company: "  "},
			wantTag: "Empty company name",
		},
		{
			name:    "menu literal",
			lead:    model.Lead{Company: "Contact Us"},
			wantTag: "Website menu item",
		},
		{
			name:    "bare country",
			lead:    model.Lead{Company: "Turkey"},
			wantTag: "Bare country name",
		},
		{
			name:    "bare country with suffix noise",
			lead:    model.Lead{Company: "Turkey Tekstil"},
			wantTag: "Bare country name",
		},
		{
			name:    "article fragment",
			lead:    model.Lead{Company: "The Future"},
			wantTag: "Article fragment",
		},
		{
			name:    "title with colon",
			lead:    model.Lead{Company: "Stenter Machine: Types,"},
			wantTag: "Title pattern",
		},
		{
			name:    "how-to title",
			lead:    model.Lead{Company: "How to Maintain Your Stenter Frame"},
			wantTag: "Title pattern",
		},
		{
			name:    "sentence fragment",
			lead:    model.Lead{Company: "We Offer Quality Fabrics and More"},
			wantTag: "Sentence fragment",
		},
		{
			name:    "job title",
			lead:    model.Lead{Company: "Production Manager for Dyeing"},
			wantTag: "Person/role pattern",
		},
		{
			name:    "truncated fragment",
			lead:    model.Lead{Company: "ckner Textile"},
			wantTag: "Truncated name",
		},
		{
			name:    "machine name",
			lead:    model.Lead{Company: "Stenter Machine Range"},
			wantTag: "Machine/product name",
		},
		{
			name:    "standalone OEM",
			lead:    model.Lead{Company: "Brückner"},
			wantTag: "Stenter OEM manufacturer",
		},
		{
			name:    "OEM with legal suffix",
			lead:    model.Lead{Company: "Monforts GmbH"},
			wantTag: "Stenter OEM manufacturer",
		},
		{
			name:    "media outlet",
			lead:    model.Lead{Company: "Textile World Magazine"},
			wantTag: "News/media outlet",
		},
		{
			name:    "single generic term",
			lead:    model.Lead{Company: "Tekstil"},
			wantTag: "Single generic term",
		},
		{
			name:    "all generic words",
			lead:    model.Lead{Company: "Textile Dyeing Finishing"},
			wantTag: "All generic terms",
		},
		{
			name:    "rejected source domain",
			lead:    model.Lead{Company: "Acme Tekstil", SourceURL: "https://en.wikipedia.org/wiki/Stenter"},
			wantTag: "Rejected source domain",
		},
		{
			name:    "name too long",
			lead:    model.Lead{Company: strings.Repeat("Uzun Tekstil Sanayi ", 5)},
			wantTag: "Name too long",
		},
		{
			name:    "pipe separator",
			lead:    model.Lead{Company: "Acme | Textile Machinery Supplier"},
			wantTag: "Multiple colons/pipes",
		},
		{
			name:    "embedded url",
			lead:    model.Lead{Company: "Acme www.acme.com"},
			wantTag: "Contains URL",
		},
		{
			name:    "leading number",
			lead:    model.Lead{Company: "5 Best Stenter Brands"},
			wantTag: "Starts with number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := g.Grade(&tt.lead)
			require.True(t, v.Rejected(), "expected rejection, got grade %s (%s)", v.Grade, v.Reason)
			assert.Contains(t, v.Reason, tt.wantTag)
		})
	}
}

func TestGradeAccepts(t *testing.T) {
	g := New()

	tests := []struct {
		name      string
		lead      model.Lead
		wantGrade string
	}{
		{
			name: "certified with suffix and website",
			lead: model.Lead{
				Company:    "Korteks Mensucat A.Ş.",
				SourceType: "gots",
				Website:    "korteks.com.tr",
			},
			wantGrade: model.QualityA,
		},
		{
			name: "suffix only",
			lead: model.Lead{
				Company:    "Acme Tekstil Ltd",
				SourceType: "web_scrape",
			},
			wantGrade: model.QualityB,
		},
		{
			name: "multi word no suffix no trust",
			lead: model.Lead{
				Company:    "Mavi Deniz Boyahane",
				SourceType: "trade_data",
			},
			wantGrade: model.QualityC,
		},
		{
			name: "high trust two words",
			lead: model.Lead{
				Company:    "Sanko Holding",
				SourceType: "directory",
			},
			wantGrade: model.QualityA,
		},
		{
			name: "very short single word",
			lead: model.Lead{
				Company:    "Aka",
				SourceType: "web_scrape",
			},
			wantGrade: model.QualityC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := g.Grade(&tt.lead)
			require.False(t, v.Rejected(), "unexpected rejection: %s", v.Reason)
			assert.Equal(t, tt.wantGrade, v.Grade)
		})
	}
}

// oem_customer self-certifies too easily: the medium trust bonus only
// counts when a website or evidence URL exists.
func TestMediumTrustNeedsCorroboration(t *testing.T) {
	g := New()

	bare := model.Lead{Company: "Denizli Basma Sanayi", SourceType: "oem_customer"}
	v := g.Grade(&bare)
	require.False(t, v.Rejected())
	assert.Equal(t, model.QualityC, v.Grade, "uncorroborated oem_customer must not reach B")

	backed := bare
	backed.EvidenceURL = "https://example.com/customer-story"
	v = g.Grade(&backed)
	require.False(t, v.Rejected())
	assert.Equal(t, model.QualityB, v.Grade)
	assert.Contains(t, v.Reason, "Corroborated medium trust source")
}

func TestPartsSupplierDowngrade(t *testing.T) {
	g := New()

	lead := model.Lead{
		Company:    "Yedek Parça Tekstil Makina Ltd",
		Context:    "spare parts supplier for stenter machines",
		SourceType: "directory",
		Website:    "yedekparca.com.tr",
	}
	v := g.Grade(&lead)
	require.False(t, v.Rejected())
	assert.Equal(t, model.QualityC, v.Grade)
	assert.True(t, lead.PartsSupplier)
	assert.Contains(t, v.Reason, "downgraded")
}

func TestApply(t *testing.T) {
	g := New()

	leads := []model.Lead{
		{Company: "Korteks Mensucat A.Ş.", SourceType: "gots", Website: "korteks.com.tr"},
		{Company: "Brückner"},
		{Company: "Stenter Machine: Types,"},
		{Company: "Mavi Deniz Boyahane", SourceType: "trade_data"},
	}

	qualified, stats := g.Apply(leads)

	require.Len(t, qualified, 2)
	assert.Equal(t, 4, stats.Graded)
	assert.Equal(t, 2, stats.Rejected)
	assert.Equal(t, model.QualityA, qualified[0].EntityQuality)
	assert.NotEmpty(t, qualified[0].GradeReason)
	assert.Equal(t, model.QualityC, qualified[1].EntityQuality)
	assert.Equal(t, 1, stats.Reasons["Stenter OEM manufacturer"])
	assert.Equal(t, 1, stats.Reasons["Title pattern"])
}

func TestAcceptanceGradeMonotonic(t *testing.T) {
	g := New()
	rank := map[string]int{model.QualityC: 0, model.QualityB: 1, model.QualityA: 2}

	// Each step adds one positive signal on top of the previous lead; the
	// grade must never worsen as signals accumulate.
	steps := []struct {
		name  string
		apply func(l *model.Lead)
	}{
		{"legal suffix", func(l *model.Lead) { l.Company += " Ltd" }},
		{"website", func(l *model.Lead) { l.Website = "denizlidokuma.com.tr" }},
		{"evidence", func(l *model.Lead) { l.EvidenceURL = "https://example.com/reference" }},
		{"higher trust source", func(l *model.Lead) { l.SourceType = "gots" }},
	}

	lead := model.Lead{Company: "Denizli Dokuma", SourceType: "trade_data"}
	prev := g.Grade(&lead)
	require.False(t, prev.Rejected())

	for _, step := range steps {
		next := lead
		step.apply(&next)
		v := g.Grade(&next)
		require.False(t, v.Rejected(), step.name)
		assert.GreaterOrEqual(t, rank[v.Grade], rank[prev.Grade], step.name)
		lead, prev = next, v
	}
	assert.Equal(t, model.QualityA, prev.Grade, "all signals together reach A")
}
