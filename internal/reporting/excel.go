package reporting

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/aristath/growthmap/internal/modules/explorer"
)

// Sheet names of the exported workbook
const (
	SheetRankings   = "Rankings"
	SheetRegions    = "Regions"
	SheetContinents = "Continents"
	SheetWeights    = "Weights"
)

// WriteWorkbook exports one explorer view as an xlsx workbook
func WriteWorkbook(w io.Writer, view *explorer.View) error {
	f, err := buildWorkbook(view)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook exports one explorer view to an xlsx file
func SaveWorkbook(path string, view *explorer.View) error {
	f, err := buildWorkbook(view)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func buildWorkbook(view *explorer.View) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetRankings); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetRegions, SheetContinents, SheetWeights} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCE6F1"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	rankings := make([][]interface{}, 0, len(view.Rankings))
	for i, c := range view.Rankings {
		rankings = append(rankings, []interface{}{i + 1, c.Company, c.Country, c.Continent, c.GrowthScore, c.Latitude, c.Longitude})
	}

	regions := make([][]interface{}, 0, len(view.Regions))
	for _, g := range view.Regions {
		regions = append(regions, []interface{}{g.Region, g.AvgScore, g.CompanyCount})
	}

	continents := make([]string, 0, len(view.ContinentCounts))
	for c := range view.ContinentCounts {
		continents = append(continents, c)
	}
	sort.Strings(continents)
	counts := make([][]interface{}, 0, len(continents))
	for _, c := range continents {
		counts = append(counts, []interface{}{c, view.ContinentCounts[c]})
	}

	weights := [][]interface{}{
		{"Profit Margin", view.Weights.ProfitMargin, view.NormalizedWeights.ProfitMargin},
		{"Asset Leverage", view.Weights.AssetLeverage, view.NormalizedWeights.AssetLeverage},
		{"Undervaluation", view.Weights.Undervaluation, view.NormalizedWeights.Undervaluation},
	}

	sheets := []struct {
		name    string
		headers []interface{}
		rows    [][]interface{}
	}{
		{SheetRankings, []interface{}{"Rank", "Company", "Country", "Continent", "Growth Score", "Latitude", "Longitude"}, rankings},
		{SheetRegions, []interface{}{string(view.Granularity), "Avg Score", "Company Count"}, regions},
		{SheetContinents, []interface{}{"Continent", "Company Count"}, counts},
		{SheetWeights, []interface{}{"Ratio", "Weight", "Normalized"}, weights},
	}

	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.headers, s.rows, header); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headers []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to size %s columns: %w", sheet, err)
	}
	return nil
}
