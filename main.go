/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/icope/leukngs/cmd"

func main() {
	cmd.Execute()
}
