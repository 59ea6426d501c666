package coverage

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/icope/leukngs/utils"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// GenePlots is the number of bar charts the genes are split over.
const GenePlots = 4

// Gene orderings of PlotGenes.
const (
	SortByValue    = "value"
	SortByAlphabet = "alphabet"
)

// PlotChromosomes draws the depth distribution of every chromosome.
func PlotChromosomes(summary []ChromosomeDepth, path string) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	for _, s := range summary {
		fmt.Printf("\r# Now plotting region: %s", s.Chromosome)
		depths := lo.Map(s.Bins, func(b DepthBin, _ int) string { return strconv.Itoa(b.Depth) })
		fractions := lo.Map(s.Bins, func(b DepthBin, _ int) float64 { return b.Fraction })
		title := fmt.Sprintf("Coverage distribution for chromosome / contig %s. Mean coverage=%.3f", s.Chromosome, s.MeanCov)
		page.AddCharts(utils.BarChart(depths, fractions, title, "cov", "frac"))
	}
	fmt.Println("\n # Done plotting ...")
	fmt.Println("# saving coverage pr. chromosome plot to", path)
	return utils.RenderPage(page, path)
}

// SortGenes orders genes by mean coverage or by name. Any other ordering
// keeps the input order.
func SortGenes(genes []GeneCoverage, order string) []GeneCoverage {
	sorted := slices.Clone(genes)
	switch order {
	case SortByValue:
		slices.SortStableFunc(sorted, func(a, b GeneCoverage) int {
			switch {
			case a.MeanCov < b.MeanCov:
				return -1
			case a.MeanCov > b.MeanCov:
				return 1
			}
			return 0
		})
	case SortByAlphabet:
		slices.SortStableFunc(sorted, func(a, b GeneCoverage) int {
			switch {
			case a.Gene < b.Gene:
				return -1
			case a.Gene > b.Gene:
				return 1
			}
			return 0
		})
	}
	return sorted
}

// GenePlotPath names the gene plot of name for an ordering.
func GenePlotPath(name, order string) string {
	return name + "_" + order[:1] + "sort_coverage_pr_gene.html"
}

// PlotGenes draws the mean coverage of genes over GenePlots bar charts.
func PlotGenes(genes []GeneCoverage, order, path string) error {
	sorted := SortGenes(genes, order)
	page := components.NewPage()
	if len(sorted) > 0 {
		size := int(math.Ceil(float64(len(sorted)) / GenePlots))
		for _, chunk := range lo.Chunk(sorted, size) {
			names := lo.Map(chunk, func(g GeneCoverage, _ int) string { return g.Gene })
			means := lo.Map(chunk, func(g GeneCoverage, _ int) float64 { return g.MeanCov })
			page.AddCharts(utils.BarChart(names, means, "Coverage pr. target gene", "Gene name", "Mean coverage"))
		}
	}
	fmt.Println("# Saving to", path)
	return utils.RenderPage(page, path)
}
