/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"
	"os"

	"github.com/icope/leukngs/utils"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "leukngs",
	Short: "Job submission and QC tools for the leukemia NGS project on Computerome",
	Long: `Tools for running the leukemia NGS pipelines on a PBS/Torque cluster:
1.	Job submission: (submit, somaticSetup)
2.	Coverage reports: (bamCoverage, pairCoverage, geneCoverage, exonCoverage, chrCoverage)
3.	Variant overviews: (summarizeVep, vcfStats)
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.PrintModules(os.Stdout)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to site config file (default leukngs.yaml in . or $HOME/.config)")
}

// siteConfig reads the site settings or exits.
func siteConfig() utils.Config {
	cfg, err := utils.ReadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error reading config: %v", err)
	}
	return cfg
}
