package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) < 2 {
		usage(args)
		return 1
	}

	switch args[1] {
	case "run":
		return runTransfer()
	case "serve":
		return runServe()
	}

	usage(args)
	return 1
}

func usage(args []string) {
	name := "blockestate"
	if len(args) > 0 && args[0] != "" {
		name = filepath.Base(args[0])
	}
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "  %s run    execute one land-title transfer run and print the report\n", name)
	fmt.Fprintf(os.Stderr, "  %s serve  start the HTTP API\n", name)
}
