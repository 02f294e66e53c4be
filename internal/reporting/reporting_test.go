package reporting

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/modules/explorer"
)

func testView() *explorer.View {
	return &explorer.View{
		Weights:           domain.DefaultWeights(),
		NormalizedWeights: domain.DefaultWeights(),
		Granularity:       domain.GranularityContinent,
		Rankings: []domain.ScoredCompany{
			{Company: "Toyota Motor", Country: "Japan", Continent: "Asia", GrowthScore: 1234.56789, Latitude: 35.08, Longitude: 137.15},
			{Company: "日本電信電話", Country: "Japan", Continent: "Asia", GrowthScore: 0.5},
		},
		Regions: []domain.RegionGroup{
			{Region: "Asia", AvgScore: 617.5, CompanyCount: 2},
		},
		ContinentCounts: map[string]int{"Asia": 2, "Europe": 1},
	}
}

func TestTable_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RankingTable(testView().Rankings).Render(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "#  Company"))
	assert.True(t, strings.HasPrefix(lines[1], "-  ---"))
	assert.Contains(t, lines[2], "1,234.5679")
	assert.Contains(t, lines[3], "日本電信電話")

	// wide runes count double, so the country column starts at the same display offset
	col := func(line string) int {
		idx := strings.Index(line, "Japan")
		return runeWidthPrefix(line[:idx])
	}
	assert.Equal(t, col(lines[2]), col(lines[3]))
}

func runeWidthPrefix(s string) int {
	w := 0
	for _, r := range s {
		if r >= 0x3000 {
			w += 2
		} else {
			w++
		}
	}
	return w
}

func TestRegionTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RegionTable(testView().Regions, domain.GranularityCountry).Render(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "Country"))
	assert.Contains(t, buf.String(), "617.5000")
}

func TestContinentTable(t *testing.T) {
	table := ContinentTable(map[string]int{"Europe": 1, "Asia": 2, "Africa": 1})
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Asia", "2"}, table.Rows[0])
	assert.Equal(t, []string{"Africa", "1"}, table.Rows[1])
	assert.Equal(t, []string{"Europe", "1"}, table.Rows[2])
}

func TestTable_TruncatesLongCells(t *testing.T) {
	long := strings.Repeat("x", 60)
	table := &Table{Headers: []string{"Company"}, Rows: [][]string{{long}}}

	var buf bytes.Buffer
	require.NoError(t, table.Render(&buf))
	assert.NotContains(t, buf.String(), long)
	assert.Contains(t, buf.String(), "…")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "12,345", FormatCount(12345))
	assert.Equal(t, "0.2000", FormatScore(0.2))
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, testView()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetRankings, SheetRegions, SheetContinents, SheetWeights}, f.GetSheetList())

	rows, err := f.GetRows(SheetRankings)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Company", rows[0][1])
	assert.Equal(t, "Toyota Motor", rows[1][1])

	continents, err := f.GetRows(SheetContinents)
	require.NoError(t, err)
	require.Len(t, continents, 3)
	assert.Equal(t, []string{"Asia", "2"}, continents[1])

	regions, err := f.GetRows(SheetRegions)
	require.NoError(t, err)
	assert.Equal(t, "Continent", regions[0][0])
}

func TestSaveWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, SaveWorkbook(path, testView()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	weights, err := f.GetRows(SheetWeights)
	require.NoError(t, err)
	require.Len(t, weights, 4)
	assert.Equal(t, "Profit Margin", weights[1][0])
}
