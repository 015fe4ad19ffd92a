// Package role separates leads into textile producers (CUSTOMER) and the
// machinery/chemical/trading businesses around them (INTERMEDIARY).
// Intermediaries look like strong leads on every other axis, so the split
// has to happen before scoring.
package role

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/texparts/leads-cli/internal/model"
)

// Keyword order is fixed so the reported signals are deterministic.
var customerKeywords = []string{
	// finishing processes
	"dyeing", "finishing", "stenter", "stentering", "tenter", "tentering",
	"sanforizing", "mercerizing", "bleaching", "printing", "coating",
	"laminating", "heat setting", "thermosol", "pad steam", "continuous dyeing",
	// pt/es
	"tinturaria", "acabamento", "acabamiento", "teñido", "estampado",
	"blanqueo", "tintura", "rama", "secador", "calandra",
	// tr
	"terbiye", "boya", "boyama", "apre", "fikse", "kurutma",
	// de
	"färberei", "ausrüstung", "veredlung", "bleicherei",
	// production types
	"mill", "fabric", "textile", "woven", "knitted", "denim",
	"cotton", "polyester", "synthetic", "garment", "apparel",
	"weaving", "knitting", "spinning",
	// company type
	"manufacturer", "producer", "factory", "fabrica", "usine",
	"industrial", "industria", "têxtil", "textil", "confecção",
}

var intermediaryKeywords = []string{
	// machinery and equipment
	"machinery", "machine", "equipment", "maschinen", "maquinaria",
	"spare parts", "parts supplier", "components", "ersatzteile",
	"automation", "controls", "systems integrator",
	// chemicals
	"chemicals", "chemical", "dyes", "dyestuff", "colorant",
	"sizing", "softener", "auxiliaries", "química", "kimya",
	// software and services
	"software", "erp", "mes", "plm", "consulting", "consultant",
	"laboratory", "testing", "certification", "inspection",
	// trading
	"trading", "trader", "distributor", "agent", "representative",
	"import", "export", "broker", "wholesale",
	// institutions
	"association", "federation", "institute", "university",
	"research", "academic", "government", "ministry",
}

// namedPattern pairs a compiled pattern with a stable signal label.
type namedPattern struct {
	name string
	re   *regexp.Regexp
}

var customerPatterns = []namedPattern{
	{"dyeing_finishing", regexp.MustCompile(`(?i)\b(dyeing|dying)\s*(and|&|,)?\s*(finishing|printing)\b`)},
	{"textile_mill", regexp.MustCompile(`(?i)\b(textile|fabric)\s*(mill|factory|plant)\b`)},
	{"fabric_mill", regexp.MustCompile(`(?i)\b(woven|knit|denim)\s*(fabric|mill)\b`)},
	{"tinturaria", regexp.MustCompile(`(?i)\btinturaria\b`)},
	{"terbiyehane", regexp.MustCompile(`(?i)\bterbiyehane\b`)},
	{"faerberei", regexp.MustCompile(`(?i)\bfärberei\b`)},
}

var intermediaryPatterns = []namedPattern{
	{"textile_machinery", regexp.MustCompile(`(?i)\b(textile|fabric)\s*machinery\b`)},
	{"spare_parts", regexp.MustCompile(`(?i)\b(spare|machine)\s*parts?\b`)},
	{"chemical_supplier", regexp.MustCompile(`(?i)\bchemical\s*(supplier|company|trader)\b`)},
	{"trading_co", regexp.MustCompile(`(?i)\b(trading|import.?export)\s*co\b`)},
	{"technical_service", regexp.MustCompile(`(?i)\btechnical\s*(service|support)\b`)},
}

// customerSources vouch for producer status on their own.
var customerSources = map[string]struct{}{
	"gots": {}, "oekotex": {}, "bettercotton": {}, "better_cotton": {},
	"wrap": {}, "known_manufacturer": {},
}

const maxSignals = 5

// Classifier assigns CUSTOMER/INTERMEDIARY roles. Zero value is usable.
type Classifier struct{}

// Classify annotates the lead with Role, RoleConfidence and up to five
// RoleSignals. Pattern matches weigh three (one as a signal, two extra),
// keyword and source matches weigh one.
func (c Classifier) Classify(lead *model.Lead) {
	text := lead.SearchText()
	sourceType := strings.ToLower(model.CleanString(lead.SourceType))

	var customerSignals, intermediarySignals []string
	customerPatternHits, intermediaryPatternHits := 0, 0

	for _, p := range customerPatterns {
		if p.re.MatchString(text) {
			customerSignals = append(customerSignals, "pattern:"+p.name)
			customerPatternHits++
		}
	}
	for _, p := range intermediaryPatterns {
		if p.re.MatchString(text) {
			intermediarySignals = append(intermediarySignals, "pattern:"+p.name)
			intermediaryPatternHits++
		}
	}

	for _, kw := range customerKeywords {
		if strings.Contains(text, kw) {
			customerSignals = append(customerSignals, "keyword:"+kw)
		}
	}
	for _, kw := range intermediaryKeywords {
		if strings.Contains(text, kw) {
			intermediarySignals = append(intermediarySignals, "keyword:"+kw)
		}
	}

	if _, ok := customerSources[sourceType]; ok {
		customerSignals = append(customerSignals, "source:"+sourceType)
	}

	customerScore := len(customerSignals) + customerPatternHits*2
	intermediaryScore := len(intermediarySignals) + intermediaryPatternHits*2

	var signals []string
	switch {
	case intermediaryScore > customerScore && intermediaryScore >= 2:
		lead.Role = model.RoleIntermediary
		lead.RoleConfidence = confidenceFor(intermediaryScore)
		signals = intermediarySignals
	case customerScore > intermediaryScore && customerScore >= 2:
		lead.Role = model.RoleCustomer
		lead.RoleConfidence = confidenceFor(customerScore)
		signals = customerSignals
	case customerScore > 0 || intermediaryScore > 0:
		// Weak or tied signal: lean CUSTOMER, flag low confidence.
		if customerScore >= intermediaryScore {
			lead.Role = model.RoleCustomer
			signals = customerSignals
		} else {
			lead.Role = model.RoleIntermediary
			signals = intermediarySignals
		}
		lead.RoleConfidence = model.ConfidenceLow
	default:
		lead.Role = model.RoleUnknown
		lead.RoleConfidence = model.ConfidenceLow
	}

	if len(signals) > maxSignals {
		signals = signals[:maxSignals]
	}
	lead.RoleSignals = signals
}

func confidenceFor(score int) string {
	if score >= 4 {
		return model.ConfidenceHigh
	}
	return model.ConfidenceMedium
}

// Apply classifies every lead in place and logs the role distribution.
func (c Classifier) Apply(leads []model.Lead) {
	counts := map[string]int{}
	for i := range leads {
		c.Classify(&leads[i])
		counts[leads[i].Role]++
	}
	zap.L().Info("role classification complete",
		zap.Int("leads", len(leads)),
		zap.Int("customers", counts[model.RoleCustomer]),
		zap.Int("intermediaries", counts[model.RoleIntermediary]),
		zap.Int("unknown", counts[model.RoleUnknown]),
	)
}

// SeparateByRole splits a classified batch into the three role buckets.
func SeparateByRole(leads []model.Lead) (customers, intermediaries, unknown []model.Lead) {
	for _, l := range leads {
		switch l.Role {
		case model.RoleCustomer:
			customers = append(customers, l)
		case model.RoleIntermediary:
			intermediaries = append(intermediaries, l)
		default:
			unknown = append(unknown, l)
		}
	}
	return customers, intermediaries, unknown
}
