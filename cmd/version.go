/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/icope/leukngs/utils"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version and the libraries it is built with",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("leukngs", utils.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
