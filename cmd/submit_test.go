package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/icope/leukngs/qsub"
	"github.com/icope/leukngs/utils"
)

func TestTunnelPBS(t *testing.T) {
	t.Setenv("HOME", "/home/user")
	extra, err := tunnelPBS(true)
	if err != nil {
		t.Fatal(err)
	}
	want := "#PBS -l prologue=/home/user/sentieonstart.sh\n#PBS -l epilogue=/home/user/sentieonstop.sh"
	if extra != want {
		t.Errorf("tunnelPBS() = %q, want %q", extra, want)
	}
	if extra, _ := tunnelPBS(false); extra != "" {
		t.Errorf("tunnelPBS() without tunnel = %q", extra)
	}
}

func TestSubmitRelativeWorkdir(t *testing.T) {
	{
		dir := t.TempDir()
		old, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { os.Chdir(old) })
	}
	t.Setenv("HOME", t.TempDir())
	if err := os.Mkdir("jobs", 0755); err != nil {
		t.Fatal(err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"submit", "echo hi", "-d", "jobs", "--test", "--no-numbering", "-n", "relative"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("submit error: %v", err)
	}
	text, err := os.ReadFile(filepath.Join("jobs", "relative.qsub"))
	if err != nil {
		t.Fatal(err)
	}
	jobs := filepath.Join(cwd, "jobs")
	for _, want := range []string{
		"#PBS -e " + jobs + "/relative.err\n",
		"#PBS -o " + jobs + "/relative.out\n",
	} {
		if !strings.Contains(string(text), want) {
			t.Errorf("job script is missing %q:\n%s", want, text)
		}
	}
}

func TestSubmitJob(t *testing.T) {
	dir := t.TempDir()
	record := filepath.Join(dir, "submitted.txt")
	fake := filepath.Join(dir, "fake-qsub")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\necho \"$1\" > "+record+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	cfg := utils.Config{Account: "acct", NodeType: "fatnode", Profile: "/etc/profile", QsubCommand: fake}
	spec := qsub.JobSpec{Name: "job", Script: "echo hi", Workdir: dir, OutBase: dir, Nproc: 2, Memory: "10", Walltime: "1:00:00"}

	fname, err := submitJob(context.Background(), cfg, spec, true)
	if err != nil {
		t.Fatalf("submitJob() dry run error: %v", err)
	}
	text, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), "#PBS -W group_list=acct -A acct") || !strings.Contains(string(text), "ppn=2:fatnode") {
		t.Errorf("job script misses site settings:\n%s", text)
	}
	if _, err := os.Stat(record); err == nil {
		t.Errorf("dry run submitted the job")
	}

	if _, err := submitJob(context.Background(), cfg, spec, false); err != nil {
		t.Fatalf("submitJob() error: %v", err)
	}
	got, err := os.ReadFile(record)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(got)) != fname {
		t.Errorf("submitted %q, want %q", got, fname)
	}
}
