/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/icope/leukngs/coverage"
	"github.com/icope/leukngs/utils"
	"github.com/spf13/cobra"
)

// chrCoverageCmd represents the chrCoverage command
var chrCoverageCmd = &cobra.Command{
	Use:   "chrCoverage <sample.bam|sample.cov>",
	Short: "Plots the coverage distribution of every chromosome",
	Long: `Reads a bedtools genomecov histogram (.cov) or computes it from a bam, and
writes the mean coverage per chromosome to <sample>.tsv and the depth
distributions to <sample>_coverage_pr_chromosome.html.

Only chromosomes 1-22, X, Y and the genome total are reported.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("# Running coverage pr. chromosome function")
		input := args[0]
		upperLimit, uErr := cmd.Flags().GetInt("upper-limit")
		if uErr != nil {
			log.Fatalf("Error getting upper-limit flag: %v", uErr)
		}
		fmt.Printf("# Input: %s \t  Upper limit: %d\n", input, upperLimit)

		var bins []coverage.DepthBin
		var err error
		switch filepath.Ext(input) {
		case ".bam":
			if err := utils.CheckDeps("bedtools"); err != nil {
				log.Fatalf("%v", err)
			}
			bins, err = coverage.GenomeCov(cmd.Context(), input, coverage.DefaultUpperLimit)
		case ".cov":
			bins, err = coverage.ReadGenomeCov(input)
		default:
			log.Fatalf("Input must be a .bam or .cov file: %s", input)
		}
		if err != nil {
			log.Fatalf("Error reading coverage: %v", err)
		}

		name := strings.TrimSuffix(input, filepath.Ext(input))
		summary := coverage.ChromosomeSummary(bins, upperLimit)
		if err := coverage.PlotChromosomes(summary, name+"_coverage_pr_chromosome.html"); err != nil {
			log.Fatalf("Error plotting chromosomes: %v", err)
		}
		if err := coverage.WriteChromosomeSummary(name+".tsv", summary); err != nil {
			log.Fatalf("Error writing summary: %v", err)
		}
		fmt.Println("# Done!")
	},
}

func init() {
	rootCmd.AddCommand(chrCoverageCmd)

	chrCoverageCmd.Flags().Int("upper-limit", coverage.DefaultUpperLimit, "Largest depth shown in the plots")
}
