package variants

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

var statsReport = `# This file was produced by bcftools stats (1.9+htslib-1.9)
# Definition of sets:
# ID	[2]id	[3]tab-separated file names
ID	0	S1.filter.vcf.gz
# SN, Summary numbers:
# SN	[2]id	[3]key	[4]value
SN	0	number of samples:	1
SN	0	number of records:	120
SN	0	number of SNPs:	100
SN	0	number of indels:	20
# QUAL, Stats by quality:
# QUAL	[2]id	[3]Quality	[4]number of SNPs	[5]number of transitions (1st ALT)	[6]number of transversions (1st ALT)	[7]number of indels
QUAL	0	30	60	40	20	5
QUAL	0	50.5	40	30	10	15
# DP, Depth distribution
# DP	[2]id	[3]bin	[4]number of genotypes	[5]fraction of genotypes (%)	[6]number of sites	[7]fraction of sites (%)
DP	0	10	0	0.000000	70	58.3
DP	0	400	0	0.000000	45	37.5
DP	0	>500	0	0.000000	5	4.2
`

func writeStats(t *testing.T, path, text string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReadVcfStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "S1.vcf_summary.txt")
	writeStats(t, path, statsReport)

	stats, err := ReadVcfStats(path)
	if err != nil {
		t.Fatalf("ReadVcfStats() error: %v", err)
	}
	if stats.Name != "S1" {
		t.Errorf("Name = %q, want S1", stats.Name)
	}

	summary, err := stats.Summary()
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	if len(summary) != 4 || summary[1].Key != "number of records:" || summary[1].Value != 120 {
		t.Errorf("Summary() = %+v", summary)
	}

	quality, err := stats.Quality()
	if err != nil {
		t.Fatalf("Quality() error: %v", err)
	}
	want := []QualityCount{{"30", 60, 5}, {"50.5", 40, 15}}
	if len(quality) != 2 || quality[0] != want[0] || quality[1] != want[1] {
		t.Errorf("Quality() = %+v, want %+v", quality, want)
	}

	depth, err := stats.Depth()
	if err != nil {
		t.Fatalf("Depth() error: %v", err)
	}
	if len(depth) != 2 || depth[1] != (DepthCount{"400", 45}) {
		t.Errorf("Depth() = %+v, want the bins up to %d", depth, MaxDepthBin)
	}
}

func TestVcfStatsWithoutDepth(t *testing.T) {
	cut := statsReport[:strings.Index(statsReport, "# DP, Depth")]
	stats, err := parseVcfStats(strings.NewReader(cut), "S2")
	if err != nil {
		t.Fatal(err)
	}
	depth, err := stats.Depth()
	if err != nil || len(depth) != 0 {
		t.Errorf("Depth() = (%+v, %v), want empty", depth, err)
	}

	path := filepath.Join(t.TempDir(), "S2.html")
	if err := PlotVcfStats(stats, path); err != nil {
		t.Fatalf("PlotVcfStats() error: %v", err)
	}
	html, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), "Quality score distribution for Indels S2") {
		t.Errorf("plot misses the indel chart")
	}
	if strings.Contains(string(html), "Depth distribution") {
		t.Errorf("plot has a depth chart without DP data")
	}
}

func TestVcfStatsMissingColumn(t *testing.T) {
	text := "# QUAL\t[2]id\t[3]Quality\t[4]number of SNPs\nQUAL\t0\t30\t60\n"
	stats, err := parseVcfStats(strings.NewReader(text), "S3")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := stats.Quality(); err == nil {
		t.Errorf("Quality() without an indel column should fail")
	}
}

func TestWriteSummaryNumbers(t *testing.T) {
	first, err := parseVcfStats(strings.NewReader(statsReport), "S1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := parseVcfStats(strings.NewReader(
		"# SN\t[2]id\t[3]key\t[4]value\nSN\t0\tnumber of records:\t7\nSN\t0\tnumber of MNPs:\t2\n"), "S2")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := WriteSummaryNumbers(path, []*VcfStats{first, second}); err != nil {
		t.Fatalf("WriteSummaryNumbers() error: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 6 {
		t.Fatalf("sheet has %d rows, want 6: %q", len(rows), rows)
	}
	if strings.Join(rows[0], ",") != "key,S1,S2" {
		t.Errorf("header = %q", rows[0])
	}
	if strings.Join(rows[2], ",") != "number of records:,120,7" {
		t.Errorf("records row = %q", rows[2])
	}
	if rows[5][0] != "number of MNPs:" || rows[5][2] != "2" {
		t.Errorf("row of a key only the second report has = %q", rows[5])
	}
}

func TestPlotVcfStats(t *testing.T) {
	stats, err := parseVcfStats(strings.NewReader(statsReport), "S1")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "S1.vcf_summary.html")
	if err := PlotVcfStats(stats, path); err != nil {
		t.Fatalf("PlotVcfStats() error: %v", err)
	}
	html, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Quality score distribution for SNPs S1", "Depth distribution for Number of sites S1", `"log"`} {
		if !strings.Contains(string(html), want) {
			t.Errorf("plot is missing %s", want)
		}
	}
}
