// Package variants collects VEP annotated variants of several VCFs into one
// overview table.
package variants

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
	"github.com/gocarina/gocsv"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// CSQFields are the VEP annotation fields of the CSQ info entry, in order.
var CSQFields = []string{
	"Allele", "Consequence", "IMPACT", "SYMBOL", "Gene", "Feature_type", "Feature", "BIOTYPE", "EXON",
	"INTRON", "HGVSc", "HGVSp", "cDNA_position", "CDS_position", "Protein_position", "Amino_acids",
	"Codons", "Existing_variation", "DISTANCE", "STRAND", "FLAGS", "SYMBOL_SOURCE", "HGNC_ID", "SIFT",
	"PolyPhen",
}

var siteColumns = []string{"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER"}

// IndexColumn names the variant index column of the written tables.
const IndexColumn = "Unique variant index"

// Annotation is one VEP consequence of a variant. Index is the position of
// the variant in its VCF, shared by all annotations of the variant.
type Annotation struct {
	Index  int
	Fields map[string]string
}

func (a Annotation) Get(field string) string { return a.Fields[field] }

// SampleName is the VCF path up to its first ".filter".
func SampleName(path string) string {
	name, _, _ := strings.Cut(path, ".filter")
	return name
}

// ParseVCF reads a plain or gzipped VEP annotated VCF into one annotation per
// CSQ entry. VCFs with a tumor column are read as TNScope output and their
// sample fields get _NORMAL and _TUMOR suffixes.
func ParseVCF(path string) ([]Annotation, error) {
	if !xopen.Exists(path) {
		return nil, fmt.Errorf("%s does not exist", path)
	}
	rdr, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	return parseVCF(rdr, SampleName(path))
}

func parseVCF(r io.Reader, sample string) ([]Annotation, error) {
	var annotations []Annotation
	br := bufio.NewReader(r)
	index := 0
	columns := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line != "" && !strings.HasPrefix(line, "#") {
			fields := strings.Split(line, "\t")
			if columns == 0 {
				columns = len(fields)
				if columns < 10 {
					return nil, fmt.Errorf("%s: variant line with %d columns, want at least 10", sample, columns)
				}
				if columns > 10 {
					fmt.Println("# Assuming TNSCope VCF-file")
				}
			}
			if len(fields) != columns {
				return nil, fmt.Errorf("%s: variant %d has %d columns, want %d", sample, index+1, len(fields), columns)
			}
			annotations = append(annotations, parseVariant(fields, sample, index)...)
			index++
		}
		if err == io.EOF {
			break
		}
	}
	return annotations, nil
}

func parseVariant(fields []string, sample string, index int) []Annotation {
	site := map[string]string{"Sample": sample}
	for i, c := range siteColumns {
		site[c] = fields[i]
	}

	format := strings.Split(fields[8], ":")
	if len(fields) > 10 {
		for i, value := range zipValues(format, fields[9]) {
			site[format[i]+"_NORMAL"] = value
		}
		for i, value := range zipValues(format, fields[10]) {
			site[format[i]+"_TUMOR"] = value
		}
	} else {
		for i, value := range zipValues(format, fields[9]) {
			site[format[i]] = value
		}
	}

	var annotations []Annotation
	for _, csq := range strings.Split(csqValue(fields[7]), ",") {
		a := Annotation{Index: index, Fields: make(map[string]string, len(site)+len(CSQFields))}
		for k, v := range site {
			a.Fields[k] = v
		}
		values := strings.Split(csq, "|")
		for i, f := range CSQFields {
			if i < len(values) {
				a.Fields[f] = values[i]
			} else {
				a.Fields[f] = ""
			}
		}
		annotations = append(annotations, a)
	}
	return annotations
}

// zipValues returns the sample values paired with the format keys.
func zipValues(format []string, sample string) []string {
	values := strings.Split(sample, ":")
	return values[:min(len(values), len(format))]
}

// csqValue returns the CSQ entry of an info column. An info column without
// CSQ gives a single empty annotation.
func csqValue(info string) string {
	for _, entry := range strings.Split(info, ";") {
		if v, ok := strings.CutPrefix(entry, "CSQ="); ok {
			return v
		}
	}
	return ""
}

// Filter drops low impact and synonymous annotations and those SIFT calls
// tolerated or PolyPhen calls benign.
func Filter(annotations []Annotation) []Annotation {
	return lo.Reject(annotations, func(a Annotation, _ int) bool {
		return a.Get("IMPACT") == "LOW" ||
			a.Get("Consequence") == "synonymous_variant" ||
			strings.HasPrefix(a.Get("SIFT"), "tolerated") ||
			strings.HasPrefix(a.Get("PolyPhen"), "benign")
	})
}

// Sites counts the distinct variants of annotations.
func Sites(annotations []Annotation) int {
	return len(lo.UniqBy(annotations, func(a Annotation) string {
		return a.Get("Sample") + "\x00" + strconv.Itoa(a.Index)
	}))
}

// ReportCounts prints the number of annotations and variant sites.
func ReportCounts(stage string, annotations []Annotation) {
	sites := Sites(annotations)
	fmt.Printf("# Number of annotations %s filtering:\t %d\n", stage, len(annotations))
	if sites == 0 {
		fmt.Printf("# Number of variant sites %s filtering:\t 0\n", stage)
		return
	}
	fmt.Printf("# Number of variant sites %s filtering:\t %d \t Approximately %.5f annotations pr. variant:\t\n",
		stage, sites, float64(len(annotations))/float64(sites))
}

// OutfileName adds .tsv to name unless present.
func OutfileName(name string) string {
	if strings.HasSuffix(name, ".tsv") {
		return name
	}
	return name + ".tsv"
}

// SelectedName is the name of the selected fields table next to outfile.
func SelectedName(outfile string) string {
	return strings.Replace(outfile, ".tsv", "_selected_fields.tsv", 1)
}

// WriteTable writes every field of annotations, columns sorted by name after
// the variant index.
func WriteTable(path string, annotations []Annotation) error {
	columns := lo.Uniq(lo.FlatMap(annotations, func(a Annotation, _ int) []string { return lo.Keys(a.Fields) }))
	slices.Sort(columns)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.Write(append([]string{IndexColumn}, columns...)); err != nil {
		f.Close()
		return err
	}
	row := make([]string, len(columns)+1)
	for _, a := range annotations {
		row[0] = strconv.Itoa(a.Index)
		for i, c := range columns {
			row[i+1] = a.Fields[c]
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Selected is the short overview row of an annotation.
type Selected struct {
	Index       int    `csv:"Unique variant index"`
	Sample      string `csv:"Sample"`
	Chrom       string `csv:"CHROM"`
	Pos         string `csv:"POS"`
	Ref         string `csv:"REF"`
	Alt         string `csv:"ALT"`
	Qual        string `csv:"QUAL"`
	Filter      string `csv:"FILTER"`
	ID          string `csv:"ID"`
	Impact      string `csv:"IMPACT"`
	Consequence string `csv:"Consequence"`
	Symbol      string `csv:"SYMBOL"`
	FeatureType string `csv:"Feature_type"`
	Feature     string `csv:"Feature"`
	Gene        string `csv:"Gene"`
	SIFT        string `csv:"SIFT"`
	PolyPhen    string `csv:"PolyPhen"`
}

// Select keeps the overview fields of annotations.
func Select(annotations []Annotation) []Selected {
	return lo.Map(annotations, func(a Annotation, _ int) Selected {
		return Selected{
			Index:       a.Index,
			Sample:      a.Get("Sample"),
			Chrom:       a.Get("CHROM"),
			Pos:         a.Get("POS"),
			Ref:         a.Get("REF"),
			Alt:         a.Get("ALT"),
			Qual:        a.Get("QUAL"),
			Filter:      a.Get("FILTER"),
			ID:          a.Get("ID"),
			Impact:      a.Get("IMPACT"),
			Consequence: a.Get("Consequence"),
			Symbol:      a.Get("SYMBOL"),
			FeatureType: a.Get("Feature_type"),
			Feature:     a.Get("Feature"),
			Gene:        a.Get("Gene"),
			SIFT:        a.Get("SIFT"),
			PolyPhen:    a.Get("PolyPhen"),
		}
	})
}

// WriteSelected writes the overview fields of annotations.
func WriteSelected(path string, annotations []Annotation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := gocsv.MarshalCSV(Select(annotations), gocsv.NewSafeCSVWriter(w)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Summarize collects the annotations of vcfs, writes them all to outfile and
// the filtered overview to its selected fields table.
func Summarize(vcfs []string, outfile string) error {
	var all []Annotation
	for _, vcf := range vcfs {
		annotations, err := ParseVCF(vcf)
		if err != nil {
			return err
		}
		all = append(all, annotations...)
	}
	if err := WriteTable(outfile, all); err != nil {
		return fmt.Errorf("writing %s: %w", outfile, err)
	}
	ReportCounts("before", all)
	filtered := Filter(all)
	ReportCounts("after", filtered)
	selected := SelectedName(outfile)
	if err := WriteSelected(selected, filtered); err != nil {
		return fmt.Errorf("writing %s: %w", selected, err)
	}
	return nil
}
