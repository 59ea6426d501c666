// Package coverage summarises exon and genome coverage computed by
// samtools bedcov and bedtools genomecov.
package coverage

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/icope/leukngs/utils"
)

// Threshold is the mean depth an exon needs to count as covered.
const Threshold = 20.0

// bedcov output of the 6 column exon bed followed by the summed depth
var bedcovColumns = []string{"chromosome", "start", "end", "gene", "exon", "strand", "coverage"}

// Exon is one bed interval with its summed and mean depth.
type Exon struct {
	Chromosome string
	Start      int
	End        int
	Gene       string
	Exon       string
	Coverage   float64
	MeanCov    float64
}

// Above reports whether the mean depth is strictly above x.
func (e Exon) Above(x float64) bool { return e.MeanCov > x }

// Below reports whether the mean depth is strictly below x.
func (e Exon) Below(x float64) bool { return e.MeanCov < x }

// ReadBedcov parses samtools bedcov output. The strand column is dropped and
// mean_cov = coverage / (end - start) is added.
func ReadBedcov(r io.Reader) ([]Exon, error) {
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter('\t'),
		dataframe.HasHeader(false),
		dataframe.Names(bedcovColumns...),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("reading bedcov table: %w", df.Err)
	}
	df = df.Drop("strand")

	starts, err := df.Col("start").Int()
	if err != nil {
		return nil, fmt.Errorf("bedcov start column: %w", err)
	}
	ends, err := df.Col("end").Int()
	if err != nil {
		return nil, fmt.Errorf("bedcov end column: %w", err)
	}
	coverage := df.Col("coverage").Float()

	meanCov := make([]float64, df.Nrow())
	for i := range meanCov {
		width := ends[i] - starts[i]
		if width <= 0 {
			return nil, fmt.Errorf("bedcov row %d: empty interval %d-%d", i+1, starts[i], ends[i])
		}
		meanCov[i] = coverage[i] / float64(width)
	}
	df = df.Mutate(series.New(meanCov, series.Float, "mean_cov"))
	if df.Err != nil {
		return nil, df.Err
	}

	chroms := df.Col("chromosome").Records()
	genes := df.Col("gene").Records()
	exonIDs := df.Col("exon").Records()
	means := df.Col("mean_cov").Float()
	exons := make([]Exon, df.Nrow())
	for i := range exons {
		exons[i] = Exon{
			Chromosome: chroms[i],
			Start:      starts[i],
			End:        ends[i],
			Gene:       genes[i],
			Exon:       exonIDs[i],
			Coverage:   coverage[i],
			MeanCov:    means[i],
		}
	}
	return exons, nil
}

// ReadBedcovFile parses a saved bedcov table.
func ReadBedcovFile(path string) ([]Exon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBedcov(f)
}

// RunBedcov runs samtools bedcov over the intervals of bed for bam.
func RunBedcov(ctx context.Context, bam, bed string) ([]Exon, error) {
	fmt.Println("# Running samtools for collecting coverage stats")
	for _, p := range []string{bam, bed} {
		if _, err := os.Stat(p); err != nil {
			return nil, err
		}
	}
	out, err := utils.RunCapture(ctx, "samtools", "bedcov", bed, bam)
	if err != nil {
		return nil, fmt.Errorf("could not run samtools, try module load samtools/1.9: %w", err)
	}
	fmt.Println("# Decoding bedcov output ... ")
	return ReadBedcov(bytes.NewReader(out))
}

// ReadPanel reads a gene panel, one gene per line after a header line.
func ReadPanel(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var genes []string
	scanner := bufio.NewScanner(f)
	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		gene := strings.TrimSpace(scanner.Text())
		if gene != "" {
			genes = append(genes, gene)
		}
	}
	return genes, scanner.Err()
}
