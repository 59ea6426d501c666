package coverage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode"

	"github.com/go-gota/gota/dataframe"
	"github.com/icope/leukngs/utils"
)

// DefaultUpperLimit is the largest depth reported by genomecov and the
// default bound of the plotted depths.
const DefaultUpperLimit = 150

const initialUpperLimit = 50

var genomecovColumns = []string{"chr", "cov", "obs_bases", "total", "frac"}

// DepthBin is one row of a bedtools genomecov histogram.
type DepthBin struct {
	Chromosome string
	Depth      int
	Bases      int
	Total      int
	Fraction   float64
}

// GenomeCov runs bedtools genomecov on bam with depths capped at maxDepth.
func GenomeCov(ctx context.Context, bam string, maxDepth int) ([]DepthBin, error) {
	fmt.Println("# Input is a bam-file, we have to run genomecov ... ")
	out, err := utils.RunCapture(ctx, "bedtools", "genomecov", "-ibam", bam, "-max", strconv.Itoa(maxDepth))
	if err != nil {
		return nil, fmt.Errorf("could not run bedtools, try module load bedtools/2.28.0: %w", err)
	}
	return parseGenomeCov(bytes.NewReader(out))
}

// ReadGenomeCov reads a saved genomecov histogram. A header line is skipped.
func ReadGenomeCov(path string) ([]DepthBin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	bins, err := parseGenomeCov(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	fmt.Println("Succesfully read ", path)
	return bins, nil
}

func parseGenomeCov(r io.Reader) ([]DepthBin, error) {
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter('\t'),
		dataframe.HasHeader(false),
		dataframe.DetectTypes(false),
		dataframe.Names(genomecovColumns...),
	)
	if df.Err != nil {
		return nil, df.Err
	}

	var bins []DepthBin
	for i, rec := range df.Records()[1:] {
		depth, err := strconv.Atoi(rec[1])
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("line %d: depth %q: %w", i+1, rec[1], err)
		}
		b := DepthBin{Chromosome: rec[0], Depth: depth}
		if b.Bases, err = strconv.Atoi(rec[2]); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if b.Total, err = strconv.Atoi(rec[3]); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if b.Fraction, err = strconv.ParseFloat(rec[4], 64); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		bins = append(bins, b)
	}
	return bins, nil
}

// ChromosomeDepth is the depth distribution of one chromosome, truncated at
// UpperLimit for plotting.
type ChromosomeDepth struct {
	Chromosome string
	MeanCov    float64
	UpperLimit int
	Bins       []DepthBin
}

// plotted chromosomes: 1-22, X, Y and the genome total
func keepChromosome(name string) bool {
	if name == "" {
		return false
	}
	switch name[0] {
	case 'X', 'Y', 'g':
		return true
	}
	return unicode.IsDigit(rune(name[0]))
}

func coveredFraction(bins []DepthBin, limit int) float64 {
	var sum float64
	for _, b := range bins[:min(limit, len(bins))] {
		sum += b.Fraction
	}
	return sum
}

// ChromosomeSummary computes the mean depth of every plotted chromosome in
// order of appearance. The upper limit starts at 50 and grows until 90% of
// the bases are covered or it reaches upperLimit.
func ChromosomeSummary(bins []DepthBin, upperLimit int) []ChromosomeDepth {
	var order []string
	byChrom := map[string][]DepthBin{}
	for _, b := range bins {
		if _, ok := byChrom[b.Chromosome]; !ok {
			order = append(order, b.Chromosome)
		}
		byChrom[b.Chromosome] = append(byChrom[b.Chromosome], b)
	}

	var summary []ChromosomeDepth
	for _, chrom := range order {
		if !keepChromosome(chrom) {
			continue
		}
		rows := byChrom[chrom]
		limit := min(initialUpperLimit, upperLimit)
		for coveredFraction(rows, limit) < 0.90 && limit < upperLimit {
			limit++
		}

		var weighted float64
		for _, b := range rows {
			weighted += float64(b.Bases) * float64(b.Depth)
		}
		summary = append(summary, ChromosomeDepth{
			Chromosome: chrom,
			MeanCov:    weighted / float64(rows[0].Total),
			UpperLimit: limit,
			Bins:       rows[:min(limit, len(rows))],
		})
	}
	return summary
}

type chromosomeMean struct {
	Chromosome string  `csv:"chromosome"`
	Coverage   float64 `csv:"Coverage"`
}

// WriteChromosomeSummary writes the mean depth per chromosome.
func WriteChromosomeSummary(path string, summary []ChromosomeDepth) error {
	rows := make([]chromosomeMean, len(summary))
	for i, s := range summary {
		rows[i] = chromosomeMean{Chromosome: s.Chromosome, Coverage: s.MeanCov}
	}
	return writeTSV(path, rows)
}
