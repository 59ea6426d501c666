// Package pairing locates the germline and tumor BAM files of a sample and
// names the folder receiving the paired (somatic) analysis.
//
// A sample root holds one folder per pipeline run, named
// <name>.<pipeline version>, e.g.
//
//	S12/S12.PSG01/S12_germline.bam
//	S12/S12.PST02/S12_tumor.bam
package pairing

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// PipelineVersion is a pipeline code like PSG01 (germline), PST02 (tumor)
// or PSP01 (paired).
type PipelineVersion string

// Versions holds the pipeline codes of one pairing run.
type Versions struct {
	Germline PipelineVersion
	Tumor    PipelineVersion
	Paired   PipelineVersion
}

// NewVersions builds the codes from pipeline numbers, "01" becomes "PSG01".
func NewVersions(germline, tumor, paired string) Versions {
	return Versions{
		Germline: PipelineVersion("PSG" + germline),
		Tumor:    PipelineVersion("PST" + tumor),
		Paired:   PipelineVersion("PSP" + paired),
	}
}

// SamplePair is the input and output of one paired analysis.
type SamplePair struct {
	Germline    string
	Tumor       string
	Destination string
}

var (
	ErrNotPaired  = errors.New("sample is not paired")
	ErrMissingBam = errors.New("no bam file found")
)

// StructureError reports a sample root without exactly two subdirectories.
type StructureError struct {
	Root    string
	Subdirs int
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s has %d subdirectories, expected 2: you are not submitting from the right destination or the sample is not paired", e.Root, e.Subdirs)
}

func (e *StructureError) Unwrap() error { return ErrNotPaired }

// MissingBamError reports a pipeline folder without a matching bam.
type MissingBamError struct {
	Dir    string
	Prefix string
}

func (e *MissingBamError) Error() string {
	return fmt.Sprintf("no %s*.bam in %s", e.Prefix, e.Dir)
}

func (e *MissingBamError) Unwrap() error { return ErrMissingBam }

// isDir reports whether the entry at path is a directory or a symlink to one.
func isDir(path string, d fs.DirEntry) bool {
	if d.IsDir() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func countSubdirs(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if isDir(filepath.Join(root, e.Name()), e) {
			n++
		}
	}
	return n, nil
}

// findBam returns the bam in dir whose name starts with prefix.
func findBam(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".bam") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", &MissingBamError{Dir: dir, Prefix: prefix}
	}
	slices.Sort(names)
	return filepath.Join(dir, names[0]), nil
}

// matchVersion returns the name part of a pipeline folder, "S12" for
// "S12.PSG01", and whether the folder belongs to version v.
func matchVersion(dir string, v PipelineVersion) (string, bool) {
	base := filepath.Base(dir)
	suffix := "." + string(v)
	if !strings.HasSuffix(base, suffix) {
		return "", false
	}
	return strings.TrimSuffix(base, suffix), true
}

// FindPair walks one sample root and returns its germline and tumor bam.
// ok is false when only one of them exists, the sample is then skipped.
// A root without exactly two subdirectories gives a *StructureError and a
// pipeline folder without a bam a *MissingBamError.
func FindPair(root string, v Versions, format DestinationFormat) (pair SamplePair, ok bool, err error) {
	n, err := countSubdirs(root)
	if err != nil {
		return pair, false, err
	}
	if n != 2 {
		return pair, false, &StructureError{Root: root, Subdirs: n}
	}

	var germline, tumor string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// symlinked pipeline folders are matched but not descended
		if !isDir(path, d) {
			return nil
		}
		if name, match := matchVersion(path, v.Germline); match {
			germline, err = findBam(path, name)
			if err != nil {
				return err
			}
			fmt.Println("# Found germline file", germline)
		}
		if name, match := matchVersion(path, v.Tumor); match {
			tumor, err = findBam(path, name)
			if err != nil {
				return err
			}
			fmt.Println("# Found tumor file", tumor)
		}
		if germline != "" && tumor != "" {
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		return pair, false, walkErr
	}
	if germline == "" || tumor == "" {
		return pair, false, nil
	}

	dest, err := format.Destination(root, germline, tumor, v.Paired)
	if err != nil {
		return pair, false, err
	}
	fmt.Println("# Defining destination for somatic variants:", dest)
	return SamplePair{Germline: germline, Tumor: tumor, Destination: dest}, true, nil
}

// FindPairs pairs every sample in order. Samples with only one of the two
// bams are logged and left out.
func FindPairs(samples []string, v Versions, format DestinationFormat) ([]SamplePair, error) {
	var pairs []SamplePair
	for _, s := range samples {
		fmt.Println("# Finding files for sample", s)
		pair, ok, err := FindPair(s, v, format)
		if err != nil {
			return pairs, err
		}
		if !ok {
			slog.Warn("sample skipped, germline or tumor bam not found", "SAMPLE", s, "GERMLINE", v.Germline, "TUMOR", v.Tumor)
			continue
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
