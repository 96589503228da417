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
	infile      string
	programCol  string
	fullnameCol string
	lfmCols     string
	mappingPath string
	outfile     string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("parsebu: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("parsebu: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.infile, "infile", "", "Employer BU list (.xlsx)")
	flag.StringVar(&opts.programCol, "program-column", "", "Column containing the program/field of study")
	flag.StringVar(&opts.fullnameCol, "fullname-column", "", "Column containing names as \"Last, First M.\" (mutually exclusive with --lfm-columns)")
	flag.StringVar(&opts.lfmCols, "lfm-columns", "", "Comma-separated last,first,middle column names (mutually exclusive with --fullname-column)")
	flag.StringVar(&opts.mappingPath, "mapping", "program_mapping.toml", "Program mapping file (.toml)")
	flag.StringVar(&opts.outfile, "outfile", "", "Output CSV path (default: data/<list id> made <timestamp>.csv)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --infile FILE --program-column NAME (--fullname-column NAME | --lfm-columns L,F,M) [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.infile = strings.TrimSpace(opts.infile)
	opts.programCol = strings.TrimSpace(opts.programCol)
	opts.fullnameCol = strings.TrimSpace(opts.fullnameCol)
	opts.lfmCols = strings.TrimSpace(opts.lfmCols)
	opts.mappingPath = strings.TrimSpace(opts.mappingPath)
	opts.outfile = strings.TrimSpace(opts.outfile)

	if opts.infile == "" {
		flag.Usage()
		return opts, errors.New("missing required --infile")
	}
	if opts.programCol == "" {
		flag.Usage()
		return opts, errors.New("missing required --program-column")
	}
	if (opts.fullnameCol == "") == (opts.lfmCols == "") {
		flag.Usage()
		return opts, errors.New("exactly one of --fullname-column or --lfm-columns must be given")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	parseOpts := bulist.ParseBUListOptions{
		Infile:      opts.infile,
		ProgramCol:  opts.programCol,
		FullNameCol: opts.fullnameCol,
		MappingPath: opts.mappingPath,
		Outfile:     opts.outfile,
	}
	if opts.lfmCols != "" {
		cols := strings.Split(opts.lfmCols, ",")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		parseOpts.LFMCols = cols
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	if _, err := bulist.ParseBUList(parseOpts, logger); err != nil {
		return err
	}
	return nil
}
