package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"bulist/bulist"
)

type cliOptions struct {
	inputPath  string
	memberCol  string
	emailCol   string
	outputPath string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("dedupemails: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("dedupemails: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.inputPath, "input", "", "CSV export with one row per member email")
	flag.StringVar(&opts.memberCol, "member-column", "", "Column name or #index identifying the member")
	flag.StringVar(&opts.emailCol, "email-column", "", "Column name or #index holding the email address")
	flag.StringVar(&opts.outputPath, "output", "", "CSV file for the deduplicated rows")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --input FILE --output FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.inputPath = strings.TrimSpace(opts.inputPath)
	opts.memberCol = strings.TrimSpace(opts.memberCol)
	opts.emailCol = strings.TrimSpace(opts.emailCol)
	opts.outputPath = strings.TrimSpace(opts.outputPath)

	if opts.inputPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --input file")
	}
	if opts.outputPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --output file")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	rows, err := bulist.LoadEmailRows(opts.inputPath, opts.memberCol, opts.emailCol)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	deduped, err := bulist.DedupeEmails(rows)
	if err != nil {
		return err
	}
	if err := bulist.WriteEmailRows(opts.outputPath, deduped); err != nil {
		return err
	}
	log.Printf("Kept %d of %d rows (one email per member), wrote %s", len(deduped), len(rows), opts.outputPath)
	return nil
}
