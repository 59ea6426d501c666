package variants

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/icope/leukngs/utils"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

// MaxDepthBin is the largest DP bin drawn in the depth chart.
const MaxDepthBin = 500

const summarySheet = "SN"

// StatsSection is one block of a bcftools stats report, e.g. SN or QUAL.
// Columns come from the "# <ID>" header line with the [n] prefixes removed.
type StatsSection struct {
	Columns []string
	Rows    [][]string
}

// VcfStats holds the sections of one bcftools stats report.
type VcfStats struct {
	Name     string
	Sections map[string]*StatsSection
}

// SummaryNumber is one row of the SN section.
type SummaryNumber struct {
	Key   string
	Value int
}

// QualityCount is one row of the QUAL section.
type QualityCount struct {
	Quality string
	SNPs    int
	Indels  int
}

// DepthCount is one row of the DP section.
type DepthCount struct {
	Bin   string
	Sites int
}

// StatsName names a report after its file, "S1" for "dir/S1.vcf_summary.txt".
func StatsName(path string) string {
	return strings.SplitN(filepath.Base(path), ".", 2)[0]
}

// ReadVcfStats parses a plain or gzipped bcftools stats report.
func ReadVcfStats(path string) (*VcfStats, error) {
	if !xopen.Exists(path) {
		return nil, fmt.Errorf("%s does not exist", path)
	}
	rdr, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	return parseVcfStats(rdr, StatsName(path))
}

func parseVcfStats(r io.Reader, name string) (*VcfStats, error) {
	stats := &VcfStats{Name: name, Sections: map[string]*StatsSection{}}
	section := func(id string) *StatsSection {
		s, ok := stats.Sections[id]
		if !ok {
			s = &StatsSection{}
			stats.Sections[id] = s
		}
		return s
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if strings.HasPrefix(line, "# ") {
			// header lines look like "# SN\t[2]id\t[3]key\t[4]value"
			if len(fields) < 2 || !strings.HasPrefix(fields[1], "[") {
				continue
			}
			id := strings.TrimPrefix(fields[0], "# ")
			section(id).Columns = lo.Map(fields[1:], func(c string, _ int) string {
				return c[strings.Index(c, "]")+1:]
			})
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		s := section(fields[0])
		s.Rows = append(s.Rows, fields[1:])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

// column returns the values of a named column of section id.
func (v *VcfStats) column(id, name string) ([]string, error) {
	s, ok := v.Sections[id]
	if !ok {
		return nil, nil
	}
	i := lo.IndexOf(s.Columns, name)
	if i < 0 {
		return nil, fmt.Errorf("%s: %s section has no %q column", v.Name, id, name)
	}
	values := make([]string, len(s.Rows))
	for j, row := range s.Rows {
		if i >= len(row) {
			return nil, fmt.Errorf("%s: %s row %d has %d fields", v.Name, id, j+1, len(row))
		}
		values[j] = row[i]
	}
	return values, nil
}

func (v *VcfStats) counts(id, name string) ([]int, error) {
	values, err := v.column(id, name)
	if err != nil {
		return nil, err
	}
	counts := make([]int, len(values))
	for i, s := range values {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %s %s: %w", v.Name, id, name, err)
		}
		counts[i] = n
	}
	return counts, nil
}

// Summary returns the SN rows in file order.
func (v *VcfStats) Summary() ([]SummaryNumber, error) {
	keys, err := v.column("SN", "key")
	if err != nil {
		return nil, err
	}
	values, err := v.counts("SN", "value")
	if err != nil {
		return nil, err
	}
	return lo.Map(keys, func(k string, i int) SummaryNumber {
		return SummaryNumber{Key: k, Value: values[i]}
	}), nil
}

// Quality returns the SNP and indel counts per quality score.
func (v *VcfStats) Quality() ([]QualityCount, error) {
	quals, err := v.column("QUAL", "Quality")
	if err != nil {
		return nil, err
	}
	snps, err := v.counts("QUAL", "number of SNPs")
	if err != nil {
		return nil, err
	}
	indels, err := v.counts("QUAL", "number of indels")
	if err != nil {
		return nil, err
	}
	return lo.Map(quals, func(q string, i int) QualityCount {
		return QualityCount{Quality: q, SNPs: snps[i], Indels: indels[i]}
	}), nil
}

// Depth returns the number of sites per depth bin up to MaxDepthBin. Some
// VCFs carry no DP section, the result is then empty.
func (v *VcfStats) Depth() ([]DepthCount, error) {
	bins, err := v.column("DP", "bin")
	if err != nil {
		return nil, err
	}
	sites, err := v.counts("DP", "number of sites")
	if err != nil {
		return nil, err
	}
	var depth []DepthCount
	for i, b := range bins {
		// the last bin is ">500"
		if d, err := strconv.Atoi(b); err != nil || d > MaxDepthBin {
			continue
		}
		depth = append(depth, DepthCount{Bin: b, Sites: sites[i]})
	}
	return depth, nil
}

// WriteSummaryNumbers saves the SN rows of every report side by side, one
// column per report, keyed by the SN keys in order of first appearance.
func WriteSummaryNumbers(path string, reports []*VcfStats) error {
	var keys []string
	values := make([]map[string]int, len(reports))
	for i, r := range reports {
		summary, err := r.Summary()
		if err != nil {
			return err
		}
		values[i] = lo.SliceToMap(summary, func(s SummaryNumber) (string, int) { return s.Key, s.Value })
		keys = append(keys, lo.Map(summary, func(s SummaryNumber, _ int) string { return s.Key })...)
	}
	keys = lo.Uniq(keys)

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", summarySheet)

	header := []interface{}{"key"}
	for _, r := range reports {
		header = append(header, r.Name)
	}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return err
	}
	for i, k := range keys {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{k}
		for _, m := range values {
			if v, ok := m[k]; ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func logBarChart(x []string, y []int, title, xlabel, ylabel string) *charts.Bar {
	values := lo.Map(y, func(n int, _ int) float64 { return float64(n) })
	bar := utils.BarChart(x, values, title, xlabel, ylabel)
	bar.SetGlobalOptions(charts.WithYAxisOpts(opts.YAxis{Name: ylabel, Type: "log"}))
	return bar
}

// PlotVcfStats draws the quality distributions of SNPs and indels and the
// depth distribution of a report. The depth chart is left out when the
// report has no DP section.
func PlotVcfStats(stats *VcfStats, path string) error {
	quality, err := stats.Quality()
	if err != nil {
		return err
	}
	depth, err := stats.Depth()
	if err != nil {
		return err
	}

	page := components.NewPage()
	quals := lo.Map(quality, func(q QualityCount, _ int) string { return q.Quality })
	page.AddCharts(
		logBarChart(quals, lo.Map(quality, func(q QualityCount, _ int) int { return q.SNPs }),
			"Quality score distribution for SNPs "+stats.Name, "Quality score", "Number of SNPs"),
		logBarChart(quals, lo.Map(quality, func(q QualityCount, _ int) int { return q.Indels }),
			"Quality score distribution for Indels "+stats.Name, "Quality score", "Number of Indels"),
	)
	if len(depth) > 0 {
		page.AddCharts(logBarChart(
			lo.Map(depth, func(d DepthCount, _ int) string { return d.Bin }),
			lo.Map(depth, func(d DepthCount, _ int) int { return d.Sites }),
			"Depth distribution for Number of sites "+stats.Name, "Depth", "Number of sites"))
	}
	return utils.RenderPage(page, path)
}
