/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/icope/leukngs/pairing"
	"github.com/icope/leukngs/qsub"
	"github.com/icope/leukngs/utils"
	"github.com/spf13/cobra"
)

const somaticTool = "SOMATIC SETUP"

// somaticSetupCmd represents the somaticSetup command
var somaticSetupCmd = &cobra.Command{
	Use:   "somaticSetup",
	Short: "Submits paired tumor and germline analyses for somatic variants",
	Long: `Finds the germline (PSG) and tumor (PST) bam of every sample folder and
submits the Sentieon paired pipeline for it.

Every sample folder must hold exactly two pipeline folders. Only one bam is
used per folder. Submissions are recorded in a JSON log, pairs submitted by
an earlier run are skipped unless --force is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		cfg := siteConfig()

		samples, sErr := cmd.Flags().GetStringSlice("samples")
		if sErr != nil {
			log.Fatalf("Error getting samples flag: %v", sErr)
		}
		if len(samples) == 0 {
			log.Fatalf("You must provide at least one sample folder")
		}
		v, format := pairingFlags(cmd)
		force, _ := cmd.Flags().GetBool("force")
		dryRun, _ := cmd.Flags().GetBool("test")
		checkBams, _ := cmd.Flags().GetBool("check-bams")
		logFile, _ := cmd.Flags().GetString("log")

		fmt.Println("# Submitting paired jobs")
		pairs, err := pairing.FindPairs(samples, v, format)
		if err != nil {
			if errors.Is(err, pairing.ErrNotPaired) {
				log.Fatalf("Sample layout error: %v", err)
			}
			log.Fatalf("Error pairing samples: %v", err)
		}

		ledger, err := utils.OpenLedger(logFile, somaticTool)
		if err != nil {
			log.Fatalf("Error opening log file: %v", err)
		}
		defer ledger.Close()

		for _, pair := range pairs {
			if ledger.Completed("SUBMIT", pair.Destination) && !force {
				utils.Warn("%s was submitted by an earlier run, use --force to submit again", pair.Destination)
				continue
			}
			if checkBams {
				checkSampleNames(pair)
			}

			script := fmt.Sprintf("%s/pipeline/sentieon_paired.sh %s %s %s", cfg.AppsDir, pair.Germline, pair.Tumor, pair.Destination)
			workdir := filepath.Dir(pair.Destination)
			extra, err := tunnelPBS(true)
			if err != nil {
				log.Fatalf("%v", err)
			}
			spec := qsub.JobSpec{
				Name:     qsub.JobName(workdir, filepath.Base(pair.Destination), false),
				Script:   script,
				Workdir:  workdir,
				OutBase:  workdir,
				Nproc:    5,
				Memory:   "100",
				Walltime: qsub.Walltime(2, 0, 0),
				Python:   3,
				ExtraPBS: extra,
				Tunnel:   true,
			}

			if dryRun {
				if _, err := submitJob(cmd.Context(), cfg, spec, true); err != nil {
					log.Fatalf("Error writing job: %v", err)
				}
				continue
			}
			ledger.Record("SUBMIT", pair.Destination, utils.StatusStarted, script)
			if _, err := submitJob(cmd.Context(), cfg, spec, false); err != nil {
				ledger.Record("SUBMIT", pair.Destination, utils.StatusFailed, script)
				log.Fatalf("Error submitting %s: %v", pair.Destination, err)
			}
			ledger.Record("SUBMIT", pair.Destination, utils.StatusCompleted, script)
		}

		fmt.Println("# Done!")
		fmt.Printf("# Duration: %v\n", time.Since(start))
	},
}

// pairingFlags reads the pipeline numbers and the destination format.
func pairingFlags(cmd *cobra.Command) (pairing.Versions, pairing.DestinationFormat) {
	psg, _ := cmd.Flags().GetString("psg")
	pst, _ := cmd.Flags().GetString("pst")
	psp, _ := cmd.Flags().GetString("psp")
	formatName, _ := cmd.Flags().GetString("destination-format")
	format, err := pairing.ParseDestinationFormat(formatName)
	if err != nil {
		log.Fatalf("Error getting destination-format flag: %v", err)
	}
	return pairing.NewVersions(psg, pst, psp), format
}

func addPairingFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("samples", "s", []string{}, "Sample folders (can specify multiple)")
	cmd.Flags().String("psg", "01", "Germline pipeline number")
	cmd.Flags().String("pst", "02", "Tumor pipeline number")
	cmd.Flags().String("psp", "01", "Paired pipeline number, names the destination folder")
	cmd.Flags().String("destination-format", pairing.DashFormat.String(), "Destination naming: dash, underscore or tumor-dir")
}

// checkSampleNames warns when the read groups of a pair name the same sample.
func checkSampleNames(pair pairing.SamplePair) {
	same, names, err := pairing.SameSample(pair)
	if err != nil {
		utils.Warn("could not read bam headers of %s: %v", pair.Destination, err)
		return
	}
	if len(names) > 0 {
		fmt.Println("# Shared read group samples:", names)
	}
	if same {
		utils.Warn("germline %s and tumor %s share a sample name", pair.Germline, pair.Tumor)
	}
}

func init() {
	rootCmd.AddCommand(somaticSetupCmd)

	addPairingFlags(somaticSetupCmd)
	somaticSetupCmd.Flags().Bool("force", false, "Submit pairs that an earlier run submitted")
	somaticSetupCmd.Flags().Bool("test", false, "Only write the qsub files, do not submit")
	somaticSetupCmd.Flags().Bool("check-bams", false, "Compare the SM tags of the germline and tumor bam headers")
	somaticSetupCmd.Flags().String("log", "somatic_setup.log", "JSON log of the submissions")
}
