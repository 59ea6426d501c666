package coverage

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// GeneCoverage is the mean exon depth of a gene and the fraction of its
// exons above Threshold.
type GeneCoverage struct {
	Gene         string  `csv:"gene"`
	MeanCov      float64 `csv:"mean_cov"`
	Above20xFrac float64 `csv:"exons_above20x_frac"`
}

// ChromosomeCoverage is GeneCoverage per chromosome.
type ChromosomeCoverage struct {
	Chromosome   string  `csv:"chromosome"`
	MeanCov      float64 `csv:"mean_cov"`
	Above20xFrac float64 `csv:"exons_above20x_frac"`
}

// LowExon is a panel exon with a mean depth below Threshold.
type LowExon struct {
	Chromosome string  `csv:"chromosome"`
	Gene       string  `csv:"gene"`
	Exon       string  `csv:"exon"`
	MeanCov    float64 `csv:"mean_cov"`
}

// Summary is the coverage report of one bam.
type Summary struct {
	Genes       []GeneCoverage
	LowExons    []LowExon
	Chromosomes []ChromosomeCoverage
}

type group struct {
	key   string
	exons []Exon
}

// groupBy groups exons by key, sorted by key.
func groupBy(exons []Exon, key func(Exon) string) []group {
	byKey := lo.GroupBy(exons, key)
	keys := lo.Keys(byKey)
	slices.Sort(keys)
	groups := make([]group, len(keys))
	for i, k := range keys {
		groups[i] = group{key: k, exons: byKey[k]}
	}
	return groups
}

func meanCov(exons []Exon) float64 {
	return stat.Mean(lo.Map(exons, func(e Exon, _ int) float64 { return e.MeanCov }), nil)
}

// fractionAbove is the fraction of exons with a mean depth above x.
func fractionAbove(exons []Exon, x float64) float64 {
	return float64(lo.CountBy(exons, func(e Exon) bool { return e.Above(x) })) / float64(len(exons))
}

func fractionBelow(exons []Exon, x float64) float64 {
	return float64(lo.CountBy(exons, func(e Exon) bool { return e.Below(x) })) / float64(len(exons))
}

// InPanel keeps the exons of the panel genes.
func InPanel(exons []Exon, panel []string) []Exon {
	genes := lo.SliceToMap(panel, func(g string) (string, struct{}) { return g, struct{}{} })
	return lo.Filter(exons, func(e Exon, _ int) bool {
		_, ok := genes[e.Gene]
		return ok
	})
}

// GeneMeans returns the coverage of every gene of exons, sorted by gene.
func GeneMeans(exons []Exon) []GeneCoverage {
	var genes []GeneCoverage
	for _, g := range groupBy(exons, func(e Exon) string { return e.Gene }) {
		genes = append(genes, GeneCoverage{
			Gene:         g.key,
			MeanCov:      meanCov(g.exons),
			Above20xFrac: fractionAbove(g.exons, Threshold),
		})
	}
	return genes
}

// Stats computes the gene and low exon coverage of the panel genes and the
// coverage of every chromosome.
func Stats(exons []Exon, panel []string) Summary {
	var s Summary
	for _, g := range groupBy(exons, func(e Exon) string { return e.Chromosome }) {
		s.Chromosomes = append(s.Chromosomes, ChromosomeCoverage{
			Chromosome:   g.key,
			MeanCov:      meanCov(g.exons),
			Above20xFrac: fractionAbove(g.exons, Threshold),
		})
	}

	interest := InPanel(exons, panel)
	s.Genes = GeneMeans(interest)
	for _, e := range interest {
		if e.Below(Threshold) {
			s.LowExons = append(s.LowExons, LowExon{Chromosome: e.Chromosome, Gene: e.Gene, Exon: e.Exon, MeanCov: e.MeanCov})
		}
	}
	return s
}

// MergedGene is the gene coverage of a tumor and germline pair.
type MergedGene struct {
	Gene                 string  `csv:"gene"`
	MeanCovTumor         float64 `csv:"mean_cov_tumor"`
	Above20xFracTumor    float64 `csv:"exons_above20x_frac_tumor"`
	MeanCovGermline      float64 `csv:"mean_cov_germline"`
	Above20xFracGermline float64 `csv:"exons_above20x_frac_germline"`
}

// MergeGenes joins the genes present in both tumor and germline, in tumor order.
func MergeGenes(tumor, germline []GeneCoverage) []MergedGene {
	byGene := lo.KeyBy(germline, func(g GeneCoverage) string { return g.Gene })
	var merged []MergedGene
	for _, t := range tumor {
		g, ok := byGene[t.Gene]
		if !ok {
			continue
		}
		merged = append(merged, MergedGene{
			Gene:                 t.Gene,
			MeanCovTumor:         t.MeanCov,
			Above20xFracTumor:    t.Above20xFrac,
			MeanCovGermline:      g.MeanCov,
			Above20xFracGermline: g.Above20xFrac,
		})
	}
	return merged
}
