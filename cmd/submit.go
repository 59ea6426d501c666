/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/icope/leukngs/qsub"
	"github.com/icope/leukngs/utils"
	"github.com/spf13/cobra"
)

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit <script>",
	Short: "Writes a PBS job script around a shell command and submits it with qsub",
	Long: `A general submitter. The script argument is the code to run, relative
filenames in it are relative to --workdir.

The job script is written to <workdir>/<name>.qsub. Unless --no-numbering is
given a number is appended to the name so no earlier .qsub, .out or .err files
are overwritten. With --test the job script is only written.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		script := args[0]
		cfg := siteConfig()

		name, nErr := cmd.Flags().GetString("name")
		if nErr != nil {
			log.Fatalf("Error getting name flag: %v", nErr)
		}
		noNumbering, _ := cmd.Flags().GetBool("no-numbering")
		minutes, mErr := cmd.Flags().GetInt("minutes")
		if mErr != nil {
			log.Fatalf("Error getting minutes flag: %v", mErr)
		}
		hours, hErr := cmd.Flags().GetInt("hours")
		if hErr != nil {
			log.Fatalf("Error getting hours flag: %v", hErr)
		}
		memory, _ := cmd.Flags().GetString("memory")
		workdir, _ := cmd.Flags().GetString("workdir")
		python2, _ := cmd.Flags().GetBool("python2")
		waitFor, _ := cmd.Flags().GetString("wait")
		tunnel, _ := cmd.Flags().GetBool("tunnel")
		reserve, _ := cmd.Flags().GetBool("reserve")
		array, _ := cmd.Flags().GetString("array")
		maxJobs, jErr := cmd.Flags().GetInt("max-jobs")
		if jErr != nil {
			log.Fatalf("Error getting max-jobs flag: %v", jErr)
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		nproc, pErr := cmd.Flags().GetInt("nproc")
		if pErr != nil {
			log.Fatalf("Error getting nproc flag: %v", pErr)
		}
		dryRun, _ := cmd.Flags().GetBool("test")
		move, _ := cmd.Flags().GetBool("move-outfiles")

		if err := qsub.CheckArrayScript(array, script); err != nil {
			log.Fatalf("%v", err)
		}
		if workdir == "" {
			wd, err := os.Getwd()
			if err != nil {
				log.Fatalf("Error getting working directory: %v", err)
			}
			workdir = wd
		}
		// PBS resolves the -e and -o paths against the job directory
		absWorkdir, err := filepath.Abs(workdir)
		if err != nil {
			log.Fatalf("Error resolving workdir: %v", err)
		}
		workdir = absWorkdir
		if hours == 0 && minutes == 0 {
			minutes = 30
		}

		name = qsub.JobName(workdir, name, !noNumbering)
		fmt.Println("# job name set to", name)
		fmt.Println(workdir)

		outBase, err := qsub.ConfigureOutfiles(workdir, script, cfg.PipelineDir, move)
		if err != nil {
			log.Fatalf("Error configuring outfiles: %v", err)
		}
		extra, err := tunnelPBS(tunnel)
		if err != nil {
			log.Fatalf("%v", err)
		}
		python := 3
		if python2 {
			python = 2
		}
		if reserve {
			fmt.Println("Submitting to nodes reserved for", cfg.Account)
		}

		spec := qsub.JobSpec{
			Name:         name,
			Script:       script,
			Workdir:      workdir,
			OutBase:      outBase,
			Nproc:        nproc,
			Memory:       memory,
			Walltime:     qsub.Walltime(hours, minutes, 0),
			Python:       python,
			WaitFor:      waitFor,
			Array:        array,
			MaxJobs:      maxJobs,
			ExtraPBS:     extra,
			Reserve:      reserve,
			Verbose:      verbose,
			Tunnel:       tunnel,
			MoveOutfiles: move,
		}
		if _, err := submitJob(cmd.Context(), cfg, spec, dryRun); err != nil {
			log.Fatalf("Error submitting job: %v", err)
		}
	},
}

// tunnelPBS returns the license tunnel directives when tunnel is set.
func tunnelPBS(tunnel bool) (string, error) {
	if !tunnel {
		return "", nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home for the tunnel scripts: %w", err)
	}
	return qsub.TunnelDirectives(home), nil
}

// submitJob fills in the site settings, writes the job script and hands it
// to the scheduler unless dryRun.
func submitJob(ctx context.Context, cfg utils.Config, spec qsub.JobSpec, dryRun bool) (string, error) {
	spec.Account = cfg.Account
	spec.Reservation = cfg.Reservation
	spec.NodeType = cfg.NodeType
	spec.Profile = cfg.Profile

	fname, err := qsub.WriteQsub(spec)
	if err != nil {
		return "", err
	}
	fmt.Println("# qsub file written to", fname)
	if dryRun {
		fmt.Println("# test run, job not submitted")
		return fname, nil
	}
	submitter := &qsub.Submitter{Command: cfg.QsubCommand, Throttle: cfg.Throttle}
	return fname, submitter.Submit(ctx, fname)
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringP("name", "n", "icope", "Name of the submission job, a number is appended unless --no-numbering")
	submitCmd.Flags().Bool("no-numbering", false, "Do not append a number to the job name")
	submitCmd.Flags().Int("minutes", 0, "Wall-time minutes (30 when neither hours nor minutes are given)")
	submitCmd.Flags().Int("hours", 10, "Wall-time hours")
	submitCmd.Flags().String("memory", "100", "Memory in gb, or with a unit e.g. 500mb")
	submitCmd.Flags().StringP("workdir", "d", "", "Directory of the submission files (default current directory)")
	submitCmd.Flags().Bool("python2", false, "Run the code with python2")
	submitCmd.Flags().StringP("wait", "w", "", "Job id to wait for before starting")
	submitCmd.Flags().BoolP("tunnel", "T", false, "Open and close the Sentieon license tunnel with $HOME/sentieonstart.sh and sentieonstop.sh")
	submitCmd.Flags().BoolP("reserve", "R", false, "Submit to the project's reserved nodes")
	submitCmd.Flags().StringP("array", "a", "", "Job array range, e.g. 608-631. The script must use $PBS_ARRAYID")
	submitCmd.Flags().Int("max-jobs", 48, "Maximum array jobs running at a time")
	submitCmd.Flags().Bool("verbose", false, "Run the script with set -vx")
	submitCmd.Flags().Int("nproc", 28, "Number of processors")
	submitCmd.Flags().Bool("test", false, "Only write the qsub file, do not submit")
	submitCmd.Flags().Bool("move-outfiles", false, "Write .out and .err files to the sample folder of the pipeline run")
}
