package qsub

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testSpec(dir string) JobSpec {
	return JobSpec{
		Name:        "icope_00",
		Script:      "echo hello",
		Workdir:     dir,
		OutBase:     dir,
		Nproc:       28,
		Memory:      "100",
		Walltime:    Walltime(10, 0, 0),
		Python:      3,
		Account:     "HT2_leukngs",
		Reservation: "HT2_leukngs.916947",
		NodeType:    "thinnode",
		Profile:     "/home/projects/HT2_leukngs/apps/github/shared_utils/shared_bash_profile",
	}
}

func TestRenderDirectives(t *testing.T) {
	dir := "/work"
	text, err := Render(testSpec(dir))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	for _, want := range []string{
		"#!/bin/sh\n",
		"#PBS -W group_list=HT2_leukngs -A HT2_leukngs\n",
		"#PBS -N icope_00\n",
		"#PBS -e /work/icope_00.err\n",
		"#PBS -o /work/icope_00.out\n",
		"#PBS -l nodes=1:ppn=28:thinnode\n",
		"#PBS -l walltime=10:00:00\n",
		"#PBS -l mem=100gb\n",
		"export NPROC=28\n",
		"source /home/projects/HT2_leukngs/apps/github/shared_utils/shared_bash_profile\n",
		"\necho hello\n",
		"exit 0\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered script is missing %q", want)
		}
	}
	for _, unwanted := range []string{"depend=afterok", "advres", "anaconda2", "set -vx", "mv $PBS_O_WORKDIR"} {
		if strings.Contains(text, unwanted) {
			t.Errorf("rendered script should not contain %q", unwanted)
		}
	}
}

func TestRenderOptionalSections(t *testing.T) {
	spec := testSpec("/work")
	spec.WaitFor = "12345"
	spec.Reserve = true
	spec.Python = 2
	spec.Verbose = true
	spec.MoveOutfiles = true
	spec.OutBase = "/work/S1.PSG01"
	spec.Memory = "20gb"
	spec.Array = "10-20"
	spec.MaxJobs = 48
	spec.ExtraPBS = TunnelDirectives("/home/u")
	spec.Script = "run.sh $PBS_ARRAYID"

	text, err := Render(spec)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	for _, want := range []string{
		"#PBS -W depend=afterok:12345\n#PBS -l advres=HT2_leukngs.916947\n### Job name",
		"#PBS -l mem=20gb\n",
		"#PBS -t 10-20%48\n#PBS -l prologue=/home/u/sentieonstart.sh\n#PBS -l epilogue=/home/u/sentieonstop.sh\n",
		"#PBS -e /work/S1.PSG01/icope_00.err\n",
		"module unload anaconda3\nmodule load anaconda2/4.0.0\n",
		"set -vx\nrun.sh $PBS_ARRAYID\n",
		"mv $PBS_O_WORKDIR/$PBS_JOBNAME.qsub /work/S1.PSG01\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered script is missing %q", want)
		}
	}
	if i, j := strings.Index(text, "depend=afterok"), strings.Index(text, "#PBS -N"); i > j {
		t.Errorf("dependency directive must precede the job name")
	}
}

func TestRenderRejectsEmptyName(t *testing.T) {
	spec := testSpec("/work")
	spec.Name = ""
	_, err := Render(spec)
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("Render() error = %v, want ArgumentError", err)
	}
}

func TestCheckArrayScript(t *testing.T) {
	err := CheckArrayScript("10-20", "echo no placeholder")
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("CheckArrayScript() error = %v, want ArgumentError", err)
	}
	if argErr.Flag != "--array" {
		t.Errorf("ArgumentError.Flag = %q, want --array", argErr.Flag)
	}
	if err := CheckArrayScript("10-20", "run.sh $PBS_ARRAYID"); err != nil {
		t.Errorf("CheckArrayScript() with placeholder: %v", err)
	}
	if err := CheckArrayScript("", "echo"); err != nil {
		t.Errorf("CheckArrayScript() without array: %v", err)
	}
}

func TestArrayDirective(t *testing.T) {
	if got := ArrayDirective("", 48); got != "" {
		t.Errorf("ArrayDirective(\"\") = %q, want empty", got)
	}
	if got := ArrayDirective("608-631", 10); got != "#PBS -t 608-631%10" {
		t.Errorf("ArrayDirective() = %q", got)
	}
}

func TestWriteQsub(t *testing.T) {
	dir := t.TempDir()
	fname, err := WriteQsub(testSpec(dir))
	if err != nil {
		t.Fatalf("WriteQsub() error: %v", err)
	}
	if want := filepath.Join(dir, "icope_00.qsub"); fname != want {
		t.Errorf("WriteQsub() = %q, want %q", fname, want)
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "#!/bin/sh\n") {
		t.Errorf("qsub file does not start with a shebang")
	}
}

func TestWriteQsubArrayWithoutIndex(t *testing.T) {
	dir := t.TempDir()
	spec := testSpec(dir)
	spec.Script = "echo no placeholder"
	spec.Array = "10-20"
	spec.MaxJobs = 48

	_, err := WriteQsub(spec)
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("WriteQsub() error = %v, want ArgumentError", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "icope_00.qsub")); !os.IsNotExist(err) {
		t.Errorf("WriteQsub() left a job script behind: %v", err)
	}
}

func TestRenderArrayOnly(t *testing.T) {
	spec := testSpec("/work")
	spec.Script = "run.sh $PBS_ARRAYID"
	spec.Array = "608-631"
	spec.MaxJobs = 10
	text, err := Render(spec)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(text, "#PBS -l mem=100gb\n#PBS -t 608-631%10\necho This is") {
		t.Errorf("array directive misplaced:\n%s", text)
	}
}

func TestConfigureOutfiles(t *testing.T) {
	dir := t.TempDir()
	pipelines := filepath.Join(dir, "pipeline")
	if err := os.Mkdir(pipelines, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("sentieon_germline_PSG03.sh", filepath.Join(pipelines, "germline.sh")); err != nil {
		t.Fatal(err)
	}

	out, err := ConfigureOutfiles("/work", "germline.sh S12 8", pipelines, true)
	if err != nil {
		t.Fatalf("ConfigureOutfiles() error: %v", err)
	}
	if out != "/work/S12.PSG03" {
		t.Errorf("ConfigureOutfiles() = %q, want /work/S12.PSG03", out)
	}

	out, err = ConfigureOutfiles("/work", "echo", pipelines, false)
	if err != nil || out != "/work" {
		t.Errorf("ConfigureOutfiles() without move = (%q, %v)", out, err)
	}

	if _, err := ConfigureOutfiles("/work", "missing.sh S12", pipelines, true); err == nil {
		t.Errorf("ConfigureOutfiles() with a missing pipeline link should fail")
	}
}

func TestSubmit(t *testing.T) {
	dir := t.TempDir()
	jobs := filepath.Join(dir, "jobs")
	if err := os.Mkdir(jobs, 0755); err != nil {
		t.Fatal(err)
	}
	record := filepath.Join(dir, "record.txt")
	fake := filepath.Join(dir, "fake-qsub")
	script := "#!/bin/sh\necho \"$PWD $1\" > " + record + "\n"
	if err := os.WriteFile(fake, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	fname, err := WriteQsub(testSpec(jobs))
	if err != nil {
		t.Fatal(err)
	}

	s := &Submitter{Command: fake, Throttle: time.Millisecond}
	if err := s.Submit(context.Background(), fname); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	data, err := os.ReadFile(record)
	if err != nil {
		t.Fatal(err)
	}
	jobsReal, _ := filepath.EvalSymlinks(jobs)
	fields := strings.Fields(string(data))
	if len(fields) != 2 {
		t.Fatalf("fake qsub recorded %q", data)
	}
	if got, _ := filepath.EvalSymlinks(fields[0]); got != jobsReal {
		t.Errorf("qsub ran in %q, want %q", fields[0], jobs)
	}
	if fields[1] != fname {
		t.Errorf("qsub got %q, want %q", fields[1], fname)
	}
}

func TestSubmitFailure(t *testing.T) {
	dir := t.TempDir()
	fname, err := WriteQsub(testSpec(dir))
	if err != nil {
		t.Fatal(err)
	}
	s := &Submitter{Command: "false"}
	if err := s.Submit(context.Background(), fname); err == nil {
		t.Errorf("Submit() with a failing scheduler should return an error")
	}
}
