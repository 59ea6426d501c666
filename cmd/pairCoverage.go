/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/icope/leukngs/coverage"
	"github.com/icope/leukngs/pairing"
	"github.com/icope/leukngs/utils"
	"github.com/spf13/cobra"
)

// pairCoverageCmd represents the pairCoverage command
var pairCoverageCmd = &cobra.Command{
	Use:   "pairCoverage",
	Short: "Collects and merges the exon coverage of paired tumor and germline bams",
	Long: `Pairs the germline and tumor bams of every sample folder like somaticSetup
and runs samtools bedcov on both at the same time. The per bam tables are
written next to the bams and the merged gene table to
<destination>/<pair>_merged.tsv.`,
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		cfg := siteConfig()
		samples, sErr := cmd.Flags().GetStringSlice("samples")
		if sErr != nil {
			log.Fatalf("Error getting samples flag: %v", sErr)
		}
		v, format := pairingFlags(cmd)
		destination, _ := cmd.Flags().GetString("destination")
		bed, panel := coverageInputs(cmd, cfg)

		if err := utils.CheckDeps("samtools"); err != nil {
			log.Fatalf("%v", err)
		}
		pairs, err := pairing.FindPairs(samples, v, format)
		if err != nil {
			log.Fatalf("Error pairing samples: %v", err)
		}
		for _, pair := range pairs {
			merged := filepath.Join(destination, filepath.Base(pair.Destination)+"_merged.tsv")
			if _, err := coverage.CoverPair(cmd.Context(), pair.Germline, pair.Tumor, bed, merged, panel); err != nil {
				log.Fatalf("Error collecting coverage of %s: %v", pair.Destination, err)
			}
		}
		fmt.Println("# Done!")
		fmt.Printf("# Duration: %v\n", time.Since(start))
	},
}

func init() {
	rootCmd.AddCommand(pairCoverageCmd)

	addPairingFlags(pairCoverageCmd)
	pairCoverageCmd.Flags().String("bed", "", "Bed file with the exon intervals (default from site config)")
	pairCoverageCmd.Flags().String("panel", "", "Genes of interest, one per line after a header (default from site config)")
	wd, _ := os.Getwd()
	pairCoverageCmd.Flags().String("destination", wd, "Directory of the merged tables")
}
