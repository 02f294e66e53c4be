// Package reporting renders explorer results as terminal tables and workbooks.
package reporting

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aristath/growthmap/internal/domain"
)

// printer formats numbers with English digit grouping
var printer = message.NewPrinter(language.English)

// maxCellWidth truncates long company names so columns stay aligned
const maxCellWidth = 40

// Align is the horizontal alignment of a column
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table is a plain-text table with display-width aware padding
type Table struct {
	Headers []string
	Align   []Align
	Rows    [][]string
}

// Render writes the table with a header rule
func (t *Table) Render(w io.Writer) error {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i := range widths {
			if i < len(row) {
				if sw := runewidth.StringWidth(cell(row[i])); sw > widths[i] {
					widths[i] = sw
				}
			}
		}
	}

	if err := t.writeRow(w, t.Headers, widths); err != nil {
		return err
	}
	rule := make([]string, len(widths))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	if _, err := fmt.Fprintln(w, strings.Join(rule, "  ")); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := t.writeRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) writeRow(w io.Writer, row []string, widths []int) error {
	cells := make([]string, len(widths))
	for i, width := range widths {
		value := ""
		if i < len(row) {
			value = cell(row[i])
		}
		if i < len(t.Align) && t.Align[i] == AlignRight {
			cells[i] = padLeft(value, width)
		} else {
			cells[i] = padRight(value, width)
		}
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	return err
}

// cell truncates a value to maxCellWidth display columns
func cell(s string) string {
	return runewidth.Truncate(s, maxCellWidth, "…")
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func padLeft(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return strings.Repeat(" ", width-sw) + s
}

// FormatScore renders a growth score with four decimals and digit grouping
func FormatScore(v float64) string {
	return printer.Sprintf("%.4f", v)
}

// FormatCount renders an integer with digit grouping
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// RankingTable lists companies best first with their rank
func RankingTable(companies []domain.ScoredCompany) *Table {
	t := &Table{
		Headers: []string{"#", "Company", "Country", "Continent", "Growth Score"},
		Align:   []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignRight},
	}
	for i, c := range companies {
		t.Rows = append(t.Rows, []string{
			FormatCount(i + 1), c.Company, c.Country, c.Continent, FormatScore(c.GrowthScore),
		})
	}
	return t
}

// RegionTable lists region groups in the given order
func RegionTable(groups []domain.RegionGroup, g domain.Granularity) *Table {
	t := &Table{
		Headers: []string{string(g), "Avg Score", "Companies"},
		Align:   []Align{AlignLeft, AlignRight, AlignRight},
	}
	for _, group := range groups {
		t.Rows = append(t.Rows, []string{group.Region, FormatScore(group.AvgScore), FormatCount(group.CompanyCount)})
	}
	return t
}

// ContinentTable lists company counts by continent, largest first
func ContinentTable(counts map[string]int) *Table {
	continents := make([]string, 0, len(counts))
	for c := range counts {
		continents = append(continents, c)
	}
	sort.Slice(continents, func(i, j int) bool {
		if counts[continents[i]] != counts[continents[j]] {
			return counts[continents[i]] > counts[continents[j]]
		}
		return continents[i] < continents[j]
	})

	t := &Table{
		Headers: []string{"Continent", "Companies"},
		Align:   []Align{AlignLeft, AlignRight},
	}
	for _, c := range continents {
		t.Rows = append(t.Rows, []string{c, FormatCount(counts[c])})
	}
	return t
}
