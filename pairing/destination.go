package pairing

import (
	"fmt"
	"path/filepath"
	"strings"
)

// BamName is a bam file name split as <sample>_<fragment>[.<anything>].bam.
type BamName struct {
	Sample   string
	Fragment string
}

// NameError reports a bam name that does not follow the naming convention.
type NameError struct {
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("bam name %q is not <sample>_<fragment>.bam", e.Name)
}

// ParseBamName parses "S12_tumor.sorted.bam" into {S12, tumor}.
func ParseBamName(name string) (BamName, error) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, ".bam") {
		return BamName{}, &NameError{Name: base}
	}
	stem := strings.TrimSuffix(base, ".bam")
	sample, rest, found := strings.Cut(stem, "_")
	if !found || sample == "" {
		return BamName{}, &NameError{Name: base}
	}
	fragment, _, _ := strings.Cut(rest, ".")
	if fragment == "" {
		return BamName{}, &NameError{Name: base}
	}
	return BamName{Sample: sample, Fragment: fragment}, nil
}

// DestinationFormat selects how the paired analysis folder is named. The
// naming changed between revisions of the pairing scripts.
type DestinationFormat int

const (
	// DashFormat gives <root>/<mrd>-<germline fragment>-<tumor fragment>-<PSP>.
	DashFormat DestinationFormat = iota
	// UnderscoreFormat gives <root>/<mrd>_<germline fragment>_<tumor fragment>_<PSP>.
	UnderscoreFormat
	// TumorDirFormat gives <tumor folder>/<PSP>.
	TumorDirFormat
)

var formatNames = map[string]DestinationFormat{
	"dash":       DashFormat,
	"underscore": UnderscoreFormat,
	"tumor-dir":  TumorDirFormat,
}

// ParseDestinationFormat maps "dash", "underscore" or "tumor-dir" to a format.
func ParseDestinationFormat(s string) (DestinationFormat, error) {
	f, ok := formatNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown destination format %q (dash, underscore or tumor-dir)", s)
	}
	return f, nil
}

func (f DestinationFormat) String() string {
	for name, v := range formatNames {
		if v == f {
			return name
		}
	}
	return fmt.Sprintf("DestinationFormat(%d)", int(f))
}

// Destination names the paired analysis folder of a sample.
func (f DestinationFormat) Destination(root, germline, tumor string, paired PipelineVersion) (string, error) {
	if f == TumorDirFormat {
		return filepath.Join(filepath.Dir(tumor), string(paired)), nil
	}
	g, err := ParseBamName(germline)
	if err != nil {
		return "", err
	}
	t, err := ParseBamName(tumor)
	if err != nil {
		return "", err
	}
	sep := "-"
	if f == UnderscoreFormat {
		sep = "_"
	}
	name := strings.Join([]string{t.Sample, g.Fragment, t.Fragment, string(paired)}, sep)
	return filepath.Join(root, name), nil
}
