package utils

import (
	"fmt"
	"io"
)

// Version of the leukngs tools.
const Version = "0.3.0"

// Module is a library the tools are built with.
type Module struct {
	Name    string
	Version string
}

// Modules lists the libraries logged at startup, in place of walking
// loaded modules at runtime.
var Modules = []Module{
	{"leukngs", Version},
	{"github.com/spf13/cobra", "v1.9.1"},
	{"github.com/spf13/viper", "v1.9.0"},
	{"github.com/go-gota/gota", "v0.12.0"},
	{"github.com/go-echarts/go-echarts/v2", "v2.5.4"},
	{"github.com/biogo/hts", "v1.4.4"},
	{"github.com/xuri/excelize/v2", "v2.8.1"},
	{"gonum.org/v1/gonum", "v0.16.0"},
}

// PrintModules writes the module table.
func PrintModules(w io.Writer) {
	fmt.Fprintln(w, "# Loaded modules:\nModule \tVersion")
	for _, m := range Modules {
		fmt.Fprintf(w, "%s\t%s\n", m.Name, m.Version)
	}
}
