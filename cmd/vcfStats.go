/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/icope/leukngs/variants"
	"github.com/spf13/cobra"
)

// vcfStatsCmd represents the vcfStats command
var vcfStatsCmd = &cobra.Command{
	Use:   "vcfStats <stats.txt>...",
	Short: "Reports bcftools stats output as an Excel sheet and bar charts",
	Long: `Reads one or more bcftools stats reports. The summary numbers (SN) of all
reports go to one Excel sheet with a column per report. For every report the
quality distribution of SNPs and indels (QUAL) and the depth distribution (DP)
are drawn to <report>.html.

The sheet is written to <report>.xlsx for a single report and to
vcf_stats_summary.xlsx otherwise, unless --out is given.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = statsWorkbook(args)
		}

		var reports []*variants.VcfStats
		for _, path := range args {
			fmt.Println("# Getting stats for", path)
			stats, err := variants.ReadVcfStats(path)
			if err != nil {
				log.Fatalf("Error reading %s: %v", path, err)
			}
			plot := strings.TrimSuffix(path, ".txt") + ".html"
			if err := variants.PlotVcfStats(stats, plot); err != nil {
				log.Fatalf("Error plotting %s: %v", path, err)
			}
			fmt.Println("# Saved plot to", plot)
			reports = append(reports, stats)
		}

		if err := variants.WriteSummaryNumbers(out, reports); err != nil {
			log.Fatalf("Error writing %s: %v", out, err)
		}
		fmt.Println("# Saved excel to", out)
	},
}

// statsWorkbook names the summary sheet of the reports.
func statsWorkbook(reports []string) string {
	if len(reports) == 1 {
		return strings.TrimSuffix(reports[0], ".txt") + ".xlsx"
	}
	return "vcf_stats_summary.xlsx"
}

func init() {
	rootCmd.AddCommand(vcfStatsCmd)

	vcfStatsCmd.Flags().StringP("out", "o", "", "Excel file of the summary numbers")
}
