// Package export writes scored leads as sales-ready CSV and XLSX files.
package export

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/texparts/leads-cli/internal/model"
)

// hsCode is the customs heading for stenter machine spare parts. Every
// exported row carries it so sales can quote duty upfront.
const hsCode = "8451.90"

// salesColumns defines the ordered sales export columns.
var salesColumns = []string{
	"Company",
	"Country",
	"Website",
	"Best Email",
	"Phone",
	"Role",
	"Role Confidence",
	"Entity Quality",
	"Grade",
	"Score",
	"Why Customer",
	"Sales Angle",
	"HS Code",
	"Evidence URL",
	"Source",
}

var auditColumns = []string{"Kept Company", "Merged Company", "Reason"}

// gradeRank orders the export so the hottest leads come first.
var gradeRank = map[string]int{
	model.GradeA:            0,
	model.GradeB:            1,
	model.GradeC:            2,
	model.GradeD:            3,
	model.GradeDisqualified: 4,
}

// Sort orders leads by grade, then score descending, in place.
func Sort(leads []model.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		ri, rj := gradeRank[leads[i].Grade], gradeRank[leads[j].Grade]
		if ri != rj {
			return ri < rj
		}
		return leads[i].Score > leads[j].Score
	})
}

// WriteCSV writes leads as a sales-ready CSV file, hottest grades first.
func WriteCSV(leads []model.Lead, path string) error {
	Sort(leads)

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create csv")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(salesColumns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for i := range leads {
		if err := w.Write(buildRow(&leads[i])); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}

	zap.L().Info("csv exported", zap.String("path", path), zap.Int("leads", len(leads)))
	return nil
}

// WriteXLSX writes leads to a "Leads" sheet and the merge trail to a
// "Merge Audit" sheet.
func WriteXLSX(leads []model.Lead, audit []model.AuditEntry, path string) error {
	Sort(leads)

	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add leads sheet")
	}
	addRow(sheet, salesColumns)
	for i := range leads {
		addRow(sheet, buildRow(&leads[i]))
	}

	auditSheet, err := f.AddSheet("Merge Audit")
	if err != nil {
		return eris.Wrap(err, "export: add audit sheet")
	}
	addRow(auditSheet, auditColumns)
	for _, a := range audit {
		addRow(auditSheet, []string{a.KeptCompany, a.MergedCompany, a.Reason})
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save xlsx")
	}

	zap.L().Info("xlsx exported", zap.String("path", path),
		zap.Int("leads", len(leads)), zap.Int("audit", len(audit)))
	return nil
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

func buildRow(lead *model.Lead) []string {
	return []string{
		lead.Company,
		lead.Country,
		lead.AnyWebsite(),
		firstOf(lead.Emails),
		firstOf(lead.Phones),
		lead.Role,
		lead.RoleConfidence,
		lead.EntityQuality,
		lead.Grade,
		strconv.FormatFloat(lead.Score, 'f', -1, 64),
		whyCustomer(lead),
		salesAngle(lead),
		hsCode,
		lead.EvidenceURL,
		lead.SourceType,
	}
}

func firstOf(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// oemBrand extracts the brand name from an oem_tier bonus, if any.
func oemBrand(lead *model.Lead) string {
	for _, b := range lead.Bonuses {
		if rest, ok := strings.CutPrefix(b, "oem_tier1_"); ok {
			return rest
		}
		if rest, ok := strings.CutPrefix(b, "oem_tier2_"); ok {
			return rest
		}
	}
	return ""
}

// whyCustomer writes the one-line pitch rationale. Sales reads these in
// Turkish, matching the rest of the outreach tooling.
func whyCustomer(lead *model.Lead) string {
	if brand := oemBrand(lead); brand != "" {
		return title(brand) + " referans listesinde görülüyor, stenter kullanımı doğrulanmış."
	}
	if len(lead.RoleSignals) > 0 {
		shown := lead.RoleSignals
		if len(shown) > 2 {
			shown = shown[:2]
		}
		return "Kayıtlarda " + strings.Join(shown, ", ") + " sinyalleri geçiyor."
	}
	return "Tekstil terbiye tesisi olarak tespit edildi."
}

// salesAngle suggests the opening pitch per brand and region.
func salesAngle(lead *model.Lead) string {
	switch oemBrand(lead) {
	case "monforts":
		return "Monforts zincir baklası ve gleitstein uyumluluğu vurgula"
	case "brückner", "bruckner":
		return "Brückner kluppen ve segment parçaları için teklif hazırla"
	}
	switch strings.ToLower(lead.Country) {
	case "brazil", "argentina":
		return "Hızlı teslimat ve yerel stok avantajı vurgula"
	case "turkey", "türkiye":
		return "Türkçe destek ve hızlı servis vurgula"
	}
	return "Orijinal kalitede, rekabetçi fiyat ve hızlı teslimat"
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
