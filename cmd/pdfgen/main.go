// Command pdfgen renders a data document through a JSON template into a PDF.
//
// # Usage
//
//	pdfgen --template template.json --pages cover.json,items.json \
//	    --data data.json --output out/report.pdf [--draft]
//
// Page files are merged into the template in the order given; blank entries
// in --pages are ignored. Every input must exist and the output must not.
//
// # Environment
//
// Flags that are not given on the command line are read from PDFGEN_*
// variables, e.g. PDFGEN_LOG_LEVEL=debug or PDFGEN_PLACEHOLDER_SMALL.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pdfgen: %v\n", err)
		os.Exit(1)
	}
}
