/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/icope/leukngs/variants"
	"github.com/spf13/cobra"
)

// summarizeVepCmd represents the summarizeVep command
var summarizeVepCmd = &cobra.Command{
	Use:   "summarizeVep",
	Short: "Combines VEP annotated VCF files into one overview table",
	Long: `Reads VEP annotated VCFs (plain or gzipped, Haplotyper or TNScope) and writes

1. <outfile>: one row per annotation with every INFO, FORMAT and CSQ field
2. <outfile>_selected_fields.tsv: a few fields of the annotations left after
   dropping LOW impact, synonymous, SIFT tolerated and PolyPhen benign calls`,
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		vcfs, vErr := cmd.Flags().GetStringSlice("samples")
		if vErr != nil {
			log.Fatalf("Error getting samples flag: %v", vErr)
		}
		if len(vcfs) == 0 {
			log.Fatalf("You must provide at least one vcf file")
		}
		outfile, _ := cmd.Flags().GetString("outfile")
		outfile = variants.OutfileName(outfile)

		fmt.Println("# Summarizing variants")
		if err := variants.Summarize(vcfs, outfile); err != nil {
			log.Fatalf("Error summarizing variants: %v", err)
		}
		fmt.Println("# Done!")
		fmt.Printf("# Duration: %v\n", time.Since(start))
	},
}

func init() {
	rootCmd.AddCommand(summarizeVepCmd)

	summarizeVepCmd.Flags().StringSliceP("samples", "s", []string{}, "Annotated vcf files (can specify multiple)")
	summarizeVepCmd.Flags().StringP("outfile", "o", "variant_collection.tsv", "Name of the output table")
}
