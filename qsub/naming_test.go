package qsub

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, name string) {
	t.Helper()
	if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
		t.Fatalf("Error writing %s: %v", name, err)
	}
}

func TestPathSplitExtension(t *testing.T) {
	cases := []struct {
		in, root, ext string
	}{
		{".tsv", "", ".tsv"},
		{"sample.vcf.gz", "sample", ".vcf.gz"},
		{"name_2.fa", "name_2", ".fa"},
		{"archive.tar.gz", "archive", ".tar.gz"},
		{"reads.2.fq", "reads.2", ".fq"},
		{"/data/run.1/icope.qsub", "/data/run.1/icope", ".qsub"},
		{"noext", "noext", ""},
		{".bashrc.gz", ".bashrc", ".gz"},
	}
	for _, c := range cases {
		root, ext := PathSplitExtension(c.in)
		if root != c.root || ext != c.ext {
			t.Errorf("PathSplitExtension(%q) = (%q, %q), want (%q, %q)", c.in, root, ext, c.root, c.ext)
		}
	}
}

func TestFilenameSuffix(t *testing.T) {
	cases := []struct {
		name, suffix, want string
	}{
		{"sample.vcf.gz", "3", "sample_3.vcf.gz"},
		{"name_2.fa", "00", "name_2_00.fa"},
		{"dir/icope.qsub", "07", "dir/icope_07.qsub"},
		{"trailing__", "_1_", "trailing_1.fa"},
		{"plain", "1", "plain_1.fa"},
		{"table.tsv", "filtered.csv", "table_filtered.csv"},
		{"table.tsv", ".csv", "table.csv"},
		{"/dev/stdin", "out", "out.fa"},
		{"keep.txt", "__", "keep.txt"},
	}
	for _, c := range cases {
		if got := FilenameSuffix(c.name, c.suffix); got != c.want {
			t.Errorf("FilenameSuffix(%q, %q) = %q, want %q", c.name, c.suffix, got, c.want)
		}
	}
}

func TestNumberFilesEmptyDir(t *testing.T) {
	dir := t.TempDir()
	in := []string{filepath.Join(dir, "job.qsub"), filepath.Join(dir, "job.out")}
	got := NumberFiles(in, 99)
	want := []string{filepath.Join(dir, "job_00.qsub"), filepath.Join(dir, "job_00.out")}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NumberFiles()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNumberFilesSkipsTaken(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		touch(t, filepath.Join(dir, fmt.Sprintf("job_%03d.err", i)))
	}
	in := []string{filepath.Join(dir, "job.qsub"), filepath.Join(dir, "job.err")}
	got := NumberFiles(in, 100)
	if want := filepath.Join(dir, "job_003.qsub"); got[0] != want {
		t.Errorf("NumberFiles()[0] = %q, want %q", got[0], want)
	}
	if want := filepath.Join(dir, "job_003.err"); got[1] != want {
		t.Errorf("NumberFiles()[1] = %q, want %q", got[1], want)
	}
}

func TestNumberFilesIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "job_0.out"), 0755); err != nil {
		t.Fatal(err)
	}
	got := NumberFiles([]string{filepath.Join(dir, "job.out")}, 9)
	if want := filepath.Join(dir, "job_0.out"); got[0] != want {
		t.Errorf("NumberFiles()[0] = %q, want %q", got[0], want)
	}
}

func TestNumberFilesAllTaken(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i <= 3; i++ {
		touch(t, filepath.Join(dir, fmt.Sprintf("job_%d.out", i)))
	}
	got := NumberFiles([]string{filepath.Join(dir, "job.out")}, 3)
	if want := filepath.Join(dir, "job_3.out"); got[0] != want {
		t.Errorf("NumberFiles()[0] = %q, want %q", got[0], want)
	}
}

func TestJobName(t *testing.T) {
	dir := t.TempDir()
	if got := JobName(dir, "icope", true); got != "icope_00" {
		t.Errorf("JobName() = %q, want icope_00", got)
	}
	touch(t, filepath.Join(dir, "icope_00.out"))
	touch(t, filepath.Join(dir, "icope_01.qsub"))
	if got := JobName(dir, "icope", true); got != "icope_02" {
		t.Errorf("JobName() = %q, want icope_02", got)
	}
	touch(t, filepath.Join(dir, "fixed.qsub"))
	if got := JobName(dir, "fixed", false); got != "fixed" {
		t.Errorf("JobName() = %q, want fixed", got)
	}
}

func TestWalltime(t *testing.T) {
	cases := map[string][3]int{
		"2:05:00":  {2, 5, 0},
		"0:30:00":  {0, 30, 0},
		"10:00:09": {10, 0, 9},
		"48:59:59": {48, 59, 59},
	}
	for want, in := range cases {
		if got := Walltime(in[0], in[1], in[2]); got != want {
			t.Errorf("Walltime(%v) = %q, want %q", in, got, want)
		}
	}
}
