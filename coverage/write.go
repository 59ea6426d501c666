package coverage

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// writeTSV writes rows, a slice of csv tagged structs, as a tab separated
// table with a header.
func writeTSV(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// SummaryFiles are the tables written for one bam.
type SummaryFiles struct {
	Genes       string
	Chromosomes string
	LowExons    string
}

// SummaryPaths names the tables of prefix.
func SummaryPaths(prefix string) SummaryFiles {
	return SummaryFiles{
		Genes:       prefix + "_genes.tsv",
		Chromosomes: prefix + "_chromosomes.tsv",
		LowExons:    prefix + "_low_cov_exons.tsv",
	}
}

// WriteSummary writes the gene, chromosome and low exon tables of s next to
// prefix.
func WriteSummary(prefix string, s Summary) (SummaryFiles, error) {
	paths := SummaryPaths(prefix)
	if err := writeTSV(paths.Genes, s.Genes); err != nil {
		return paths, err
	}
	if err := writeTSV(paths.Chromosomes, s.Chromosomes); err != nil {
		return paths, err
	}
	if err := writeTSV(paths.LowExons, s.LowExons); err != nil {
		return paths, err
	}
	return paths, nil
}

// WriteMerged writes the merged tumor and germline gene table.
func WriteMerged(path string, genes []MergedGene) error {
	return writeTSV(path, genes)
}
