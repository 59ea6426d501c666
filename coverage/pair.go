package coverage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// BamPrefix is the output prefix of a bam inside dir. An empty dir keeps the
// bam's own directory.
func BamPrefix(bam, dir string) string {
	if dir == "" {
		dir = filepath.Dir(bam)
	}
	return filepath.Join(dir, strings.TrimSuffix(filepath.Base(bam), ".bam"))
}

// CoverBam writes the coverage summary of one bam to prefix.
func CoverBam(ctx context.Context, bam, bed, prefix string, panel []string) (Summary, error) {
	fmt.Printf("# Processing %s ... \n", bam)
	exons, err := RunBedcov(ctx, bam, bed)
	if err != nil {
		return Summary{}, err
	}
	fmt.Println("# Calculating coverage stats ... ")
	s := Stats(exons, panel)
	fmt.Printf("# Writing output to in %s\n", prefix)
	if _, err := WriteSummary(prefix, s); err != nil {
		return s, err
	}
	return s, nil
}

// PairReport is the coverage of a germline and tumor bam.
type PairReport struct {
	Germline Summary
	Tumor    Summary
	Merged   []MergedGene
}

// CoverPair computes the coverage of germline and tumor concurrently, writes
// each summary next to its bam and the merged gene table to merged.
func CoverPair(ctx context.Context, germline, tumor, bed, merged string, panel []string) (PairReport, error) {
	var report PairReport
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := CoverBam(ctx, germline, bed, BamPrefix(germline, ""), panel)
		report.Germline = s
		return err
	})
	g.Go(func() error {
		s, err := CoverBam(ctx, tumor, bed, BamPrefix(tumor, ""), panel)
		report.Tumor = s
		return err
	})
	if err := g.Wait(); err != nil {
		return report, err
	}

	fmt.Println("# Merging results ")
	report.Merged = MergeGenes(report.Tumor.Genes, report.Germline.Genes)
	fmt.Printf("# Writing output to in %s\n", merged)
	return report, WriteMerged(merged, report.Merged)
}
