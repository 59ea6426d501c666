package pairing

import (
	"fmt"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/samber/lo"
)

var smTag = sam.NewTag("SM")

// SampleNames returns the distinct SM tags of the read groups in a bam header.
func SampleNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	br, err := bam.NewReader(f, 1)
	if err != nil {
		return nil, fmt.Errorf("reading bam header of %s: %w", path, err)
	}
	defer br.Close()

	var names []string
	for _, rg := range br.Header().RGs() {
		if v := rg.Get(smTag); v != "" {
			names = append(names, v)
		}
	}
	return lo.Uniq(names), nil
}

// SameSample reports whether the germline and tumor bams of a pair name a
// common sample in their read groups, which usually means a mix-up.
func SameSample(pair SamplePair) (bool, []string, error) {
	g, err := SampleNames(pair.Germline)
	if err != nil {
		return false, nil, err
	}
	t, err := SampleNames(pair.Tumor)
	if err != nil {
		return false, nil, err
	}
	shared := lo.Intersect(g, t)
	return len(shared) > 0, shared, nil
}
