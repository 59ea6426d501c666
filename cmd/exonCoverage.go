/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/icope/leukngs/coverage"
	"github.com/spf13/cobra"
)

// exonCoverageCmd represents the exonCoverage command
var exonCoverageCmd = &cobra.Command{
	Use:   "exonCoverage <sample.bed>",
	Short: "Summarises exon coverage per gene into an Excel table",
	Long: `Reads a saved samtools bedcov table of the canonical transcripts and
writes <sample>.summary.xlsx with, per gene, the mean coverage, the fraction
of exons above and below 10x and 20x, the exon counts and whether the gene
is in the panel.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("# Running exon coverage function")
		panel := readPanel(cmd, siteConfig())
		exons, err := coverage.ReadBedcovFile(args[0])
		if err != nil {
			log.Fatalf("Error reading %s: %v", args[0], err)
		}
		out := strings.TrimSuffix(args[0], ".bed") + ".summary.xlsx"
		if err := coverage.WriteExonSummary(out, coverage.SummarizeExons(exons, panel)); err != nil {
			log.Fatalf("Error writing %s: %v", out, err)
		}
		fmt.Println("# Exon summary written to", out)
	},
}

func init() {
	rootCmd.AddCommand(exonCoverageCmd)

	exonCoverageCmd.Flags().String("panel", "", "Genes of interest, one per line after a header (default from site config)")
}
