/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/icope/leukngs/coverage"
	"github.com/icope/leukngs/utils"
	"github.com/spf13/cobra"
)

// bamCoverageCmd represents the bamCoverage command
var bamCoverageCmd = &cobra.Command{
	Use:   "bamCoverage",
	Short: "Collects exon coverage stats of bam files with samtools bedcov",
	Long: `Runs samtools bedcov over the exon bed for every bam and writes

1. <sample>_genes.tsv: mean coverage of the panel genes
2. <sample>_chromosomes.tsv: mean coverage per chromosome
3. <sample>_low_cov_exons.tsv: panel exons below 20x`,
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		cfg := siteConfig()
		bams, bErr := cmd.Flags().GetStringSlice("bam")
		if bErr != nil {
			log.Fatalf("Error getting bam flag: %v", bErr)
		}
		if len(bams) == 0 {
			log.Fatalf("You must provide at least one bam file")
		}
		outDir, _ := cmd.Flags().GetString("out")
		bed, panel := coverageInputs(cmd, cfg)

		if err := utils.CheckDeps("samtools"); err != nil {
			log.Fatalf("%v", err)
		}
		for _, bam := range bams {
			if _, err := coverage.CoverBam(cmd.Context(), bam, bed, coverage.BamPrefix(bam, outDir), panel); err != nil {
				log.Fatalf("Error collecting coverage of %s: %v", bam, err)
			}
		}
		fmt.Println("# Done!")
		fmt.Printf("# Duration: %v\n", time.Since(start))
	},
}

// coverageInputs returns the exon bed and the gene panel, falling back on
// the site defaults.
func coverageInputs(cmd *cobra.Command, cfg utils.Config) (string, []string) {
	bed, _ := cmd.Flags().GetString("bed")
	if bed == "" {
		bed = cfg.Bed
	}
	return bed, readPanel(cmd, cfg)
}

func readPanel(cmd *cobra.Command, cfg utils.Config) []string {
	panelFile, _ := cmd.Flags().GetString("panel")
	if panelFile == "" {
		panelFile = cfg.Panel
	}
	panel, err := coverage.ReadPanel(panelFile)
	if err != nil {
		log.Fatalf("Error reading gene panel: %v", err)
	}
	return panel
}

func init() {
	rootCmd.AddCommand(bamCoverageCmd)

	bamCoverageCmd.Flags().StringSliceP("bam", "b", []string{}, "path to bam file (can specify multiple)")
	bamCoverageCmd.Flags().String("bed", "", "Bed file with the exon intervals (default from site config)")
	bamCoverageCmd.Flags().String("panel", "", "Genes of interest, one per line after a header (default from site config)")
	wd, _ := os.Getwd()
	bamCoverageCmd.Flags().StringP("out", "o", wd, "Output directory")
}
