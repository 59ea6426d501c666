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

// geneCoverageCmd represents the geneCoverage command
var geneCoverageCmd = &cobra.Command{
	Use:   "geneCoverage <sample.bed>",
	Short: "Plots the mean coverage of the panel genes from a bedcov table",
	Long: `Reads a saved samtools bedcov table and plots the mean exon coverage of
every panel gene, once sorted by coverage (<sample>_vsort_coverage_pr_gene.html)
and once by name (<sample>_asort_coverage_pr_gene.html).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("# plotting, ", args[0])
		panel := readPanel(cmd, siteConfig())
		exons, err := coverage.ReadBedcovFile(args[0])
		if err != nil {
			log.Fatalf("Error reading %s: %v", args[0], err)
		}
		genes := coverage.GeneMeans(coverage.InPanel(exons, panel))
		fmt.Println("# Number of unique genes plotted:", len(genes))

		name := strings.TrimSuffix(args[0], ".bed")
		for _, order := range []string{coverage.SortByValue, coverage.SortByAlphabet} {
			if err := coverage.PlotGenes(genes, order, coverage.GenePlotPath(name, order)); err != nil {
				log.Fatalf("Error plotting genes: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(geneCoverageCmd)

	geneCoverageCmd.Flags().String("panel", "", "Genes of interest, one per line after a header (default from site config)")
}
