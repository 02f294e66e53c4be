// Package main is the report CLI: it scores the company dataset once and
// prints rankings, writes charts or exports a workbook.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
