package coverage

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

const exonSheet = "All canonical transcripts"

// ExonSummary is the per gene exon coverage of the canonical transcripts.
// The x-fraction fields are the fraction of exons strictly above or below
// the depth.
type ExonSummary struct {
	Gene           string
	MeanCov        float64
	Above20x       float64
	Above10x       float64
	Below20x       float64
	Below10x       float64
	Exons          int
	Below20Count   int
	Below10Count   int
	GeneOfInterest bool
}

// SummarizeExons groups exons by gene, sorted by gene name, and flags the
// genes of the panel.
func SummarizeExons(exons []Exon, panel []string) []ExonSummary {
	var rows []ExonSummary
	for _, g := range groupBy(exons, func(e Exon) string { return e.Gene }) {
		rows = append(rows, ExonSummary{
			Gene:           g.key,
			MeanCov:        meanCov(g.exons),
			Above20x:       fractionAbove(g.exons, 20),
			Above10x:       fractionAbove(g.exons, 10),
			Below20x:       fractionBelow(g.exons, 20),
			Below10x:       fractionBelow(g.exons, 10),
			Exons:          len(g.exons),
			Below20Count:   lo.CountBy(g.exons, func(e Exon) bool { return e.Below(20) }),
			Below10Count:   lo.CountBy(g.exons, func(e Exon) bool { return e.Below(10) }),
			GeneOfInterest: lo.Contains(panel, g.key),
		})
	}
	return rows
}

var exonHeader = []interface{}{
	"gene", "mean_cov", "above20x", "above10x", "below20x", "below10x",
	"nr_exons", "below20_count", "below10_count", "Gene of interest",
}

// WriteExonSummary saves rows as an Excel table at path.
func WriteExonSummary(path string, rows []ExonSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exonSheet)
	if err := f.SetSheetRow(exonSheet, "A1", &exonHeader); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.Gene, r.MeanCov, r.Above20x, r.Above10x, r.Below20x, r.Below10x,
			r.Exons, r.Below20Count, r.Below10Count, lo.Ternary(r.GeneOfInterest, 1, 0),
		}
		if err := f.SetSheetRow(exonSheet, cell, &values); err != nil {
			return err
		}
	}

	end, err := excelize.CoordinatesToCellName(len(exonHeader), len(rows)+1)
	if err != nil {
		return err
	}
	if err := f.AddTable(exonSheet, &excelize.Table{
		Range:     "A1:" + end,
		Name:      "transcripts",
		StyleName: "TableStyleLight11",
	}); err != nil {
		return fmt.Errorf("adding exon table: %w", err)
	}
	return f.SaveAs(path)
}
