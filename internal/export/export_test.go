package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/texparts/leads-cli/internal/model"
)

func testLeads() []model.Lead {
	return []model.Lead{
		{Company: "Cold Lead", Grade: model.GradeD, Score: 30},
		{
			Company: "Korteks Mensucat A.Ş.", Country: "Turkey", Grade: model.GradeA, Score: 95,
			Website: "korteks.com.tr", Emails: []string{"info@korteks.com.tr"},
			Role: model.RoleCustomer, RoleConfidence: "high",
			Bonuses: []string{"oem_tier1_monforts", "gots_certified"},
		},
		{Company: "Better B", Grade: model.GradeB, Score: 80},
		{Company: "Lesser B", Grade: model.GradeB, Score: 71},
	}
}

func TestSort(t *testing.T) {
	leads := testLeads()
	Sort(leads)

	var order []string
	for _, l := range leads {
		order = append(order, l.Company)
	}
	assert.Equal(t, []string{"Korteks Mensucat A.Ş.", "Better B", "Lesser B", "Cold Lead"}, order)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, WriteCSV(testLeads(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, salesColumns, rows[0])

	korteks := rows[1]
	assert.Equal(t, "Korteks Mensucat A.Ş.", korteks[0])
	assert.Equal(t, "korteks.com.tr", korteks[2])
	assert.Equal(t, "info@korteks.com.tr", korteks[3])
	assert.Equal(t, "A", korteks[8])
	assert.Equal(t, "95", korteks[9])
	assert.Contains(t, korteks[10], "Monforts referans listesinde")
	assert.Contains(t, korteks[11], "gleitstein")
	assert.Equal(t, "8451.90", korteks[12])
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	audit := []model.AuditEntry{
		{KeptCompany: "Korteks Mensucat A.Ş.", MergedCompany: "Korteks", Reason: "same_domain:korteks.com.tr"},
	}
	require.NoError(t, WriteXLSX(testLeads(), audit, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	leadsSheet, ok := f.Sheet["Leads"]
	require.True(t, ok)
	require.Len(t, leadsSheet.Rows, 5)
	assert.Equal(t, "Korteks Mensucat A.Ş.", leadsSheet.Rows[1].Cells[0].String())

	auditSheet, ok := f.Sheet["Merge Audit"]
	require.True(t, ok)
	require.Len(t, auditSheet.Rows, 2)
	assert.Equal(t, "same_domain:korteks.com.tr", auditSheet.Rows[1].Cells[2].String())
}

func TestSalesAngleByCountry(t *testing.T) {
	assert.Contains(t, salesAngle(&model.Lead{Country: "Brazil"}), "yerel stok")
	assert.Contains(t, salesAngle(&model.Lead{Country: "Türkiye"}), "Türkçe destek")
	assert.Contains(t, salesAngle(&model.Lead{Country: "Italy"}), "rekabetçi fiyat")
}

func TestWhyCustomerFallbacks(t *testing.T) {
	withSignals := &model.Lead{RoleSignals: []string{"keyword:boyahane", "keyword:apre", "keyword:ram"}}
	assert.Equal(t, "Kayıtlarda keyword:boyahane, keyword:apre sinyalleri geçiyor.", whyCustomer(withSignals))

	assert.Equal(t, "Tekstil terbiye tesisi olarak tespit edildi.", whyCustomer(&model.Lead{}))
}
