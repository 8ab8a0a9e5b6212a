// Command pdfoutline prints the bookmark outline of a PDF file.
//
// Usage:
//
//	pdfoutline [-json] [-debug] [-lenient] [-max-depth N] file.pdf
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tsawler/pdfoutline"
	"github.com/tsawler/pdfoutline/outline"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the exit status: 0 on success, 1
// when extraction fails and 2 for usage errors.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pdfoutline", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var asJSON bool
	fs.BoolVar(&asJSON, "json", false, "print the outline as JSON")
	fs.BoolVar(&asJSON, "j", false, "shorthand for -json")
	debug := fs.Bool("debug", false, "trace visited objects and decoded titles to stderr")
	lenient := fs.Bool("lenient", false, "replace undecodable UTF-16 characters instead of failing")
	maxDepth := fs.Int("max-depth", outline.DefaultMaxDepth, "maximum outline nesting (0 for no limit)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: pdfoutline [options] file.pdf")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	logger := log.New(stderr, "pdfoutline: ", 0)

	ext := pdfoutline.Open(fs.Arg(0)).MaxDepth(*maxDepth)
	if *lenient {
		ext = ext.Lenient()
	}
	if *debug {
		ext = ext.Logger(log.New(stderr, "pdfoutline: debug: ", 0))
	}

	var out bytes.Buffer
	var err error
	if asJSON {
		err = ext.WriteJSON(&out)
	} else {
		err = ext.WriteText(&out)
	}
	if err != nil {
		logger.Print(err)
		return 1
	}

	if _, err := out.WriteTo(stdout); err != nil {
		logger.Printf("%v: %v", outline.ErrSerialization, err)
		return 1
	}
	return 0
}
