package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bulist/bulist"
)

type cliOptions struct {
	configPath   string
	contactsPath string
	skippedPath  string
	outputPath   string
	outputDir    string
	threshold    float64
	thresholdSet bool
	contactCols  bulist.ContactColumns
	skippedCols  bulist.NameColumns
	stdout       bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("checkskipped: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("checkskipped: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.contactsPath, "contacts", "", "CSV export of all existing Broadstripes contacts")
	flag.StringVar(&opts.skippedPath, "skipped", "", "CSV of skipped import rows to check")
	flag.StringVar(&opts.outputPath, "output", "", "CSV file to write the match report (default uses --output-dir/matches_*.csv)")
	flag.StringVar(&opts.outputDir, "output-dir", "data", "Directory for the report when --output is omitted")
	flag.Float64Var(&opts.threshold, "threshold", -1, "Fuzzy matching threshold in [0,1] (overrides config)")
	flag.StringVar(&opts.contactCols.ID, "contact-id-column", "", "Column name or #index for the contact identifier")
	flag.StringVar(&opts.contactCols.Last, "contact-last-column", "", "Column name or #index for contact last names")
	flag.StringVar(&opts.contactCols.First, "contact-first-column", "", "Column name or #index for contact first names")
	flag.StringVar(&opts.contactCols.Middle, "contact-middle-column", "", "Column name or #index for contact middle names")
	flag.StringVar(&opts.contactCols.FullName, "contact-fullname-column", "", "Column name or #index for a combined contact name")
	flag.StringVar(&opts.skippedCols.Last, "skipped-last-column", "", "Column name or #index for skipped last names")
	flag.StringVar(&opts.skippedCols.First, "skipped-first-column", "", "Column name or #index for skipped first names")
	flag.StringVar(&opts.skippedCols.Middle, "skipped-middle-column", "", "Column name or #index for skipped middle names")
	flag.StringVar(&opts.skippedCols.FullName, "skipped-fullname-column", "", "Column name or #index for a combined skipped name")
	flag.BoolVar(&opts.stdout, "stdout", false, "Print a grouped summary to STDOUT")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --contacts FILE --skipped FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.contactsPath = strings.TrimSpace(opts.contactsPath)
	opts.skippedPath = strings.TrimSpace(opts.skippedPath)
	opts.outputPath = strings.TrimSpace(opts.outputPath)
	opts.outputDir = strings.TrimSpace(opts.outputDir)
	opts.thresholdSet = opts.threshold >= 0

	if opts.contactsPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --contacts file")
	}
	if opts.skippedPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --skipped file")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := bulist.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.thresholdSet {
		cfg.Threshold = opts.threshold
	}
	mergeColumns(&cfg, opts)

	logger := log.New(os.Stdout, "", log.LstdFlags)
	matcher, err := bulist.NewMatcher(cfg, logger)
	if err != nil {
		return err
	}

	contacts, err := bulist.LoadContacts(opts.contactsPath, cfg.Contacts)
	if err != nil {
		return fmt.Errorf("read contacts: %w", err)
	}
	logger.Printf("Loaded %d existing contacts from %s", len(contacts), opts.contactsPath)

	skipped, err := bulist.LoadSkipped(opts.skippedPath, cfg.Skipped)
	if err != nil {
		return fmt.Errorf("read skipped entries: %w", err)
	}
	logger.Printf("Loaded %d skipped entries from %s", len(skipped), opts.skippedPath)

	candidates, err := matcher.FindCandidates(skipped, contacts)
	if err != nil {
		return err
	}

	outputPath, err := resolveOutputPath(opts.outputPath, opts.outputDir)
	if err != nil {
		return err
	}
	if err := bulist.WriteMatchReport(outputPath, candidates); err != nil {
		return err
	}
	logger.Printf("Found %d potential matches, wrote report to %s", len(candidates), outputPath)

	if opts.stdout {
		bulist.PrintMatchSummary(os.Stdout, candidates)
	}
	return nil
}

// mergeColumns lets CLI flags override the config file's column mappings.
func mergeColumns(cfg *bulist.Config, opts cliOptions) {
	if opts.contactCols.ID != "" {
		cfg.Contacts.ID = opts.contactCols.ID
	}
	overrideNames(&cfg.Contacts.NameColumns, opts.contactCols.NameColumns)
	overrideNames(&cfg.Skipped, opts.skippedCols)
}

func overrideNames(dst *bulist.NameColumns, src bulist.NameColumns) {
	if src.Last != "" {
		dst.Last = src.Last
	}
	if src.First != "" {
		dst.First = src.First
	}
	if src.Middle != "" {
		dst.Middle = src.Middle
	}
	if src.FullName != "" {
		dst.FullName = src.FullName
	}
}

func resolveOutputPath(path, dir string) (string, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		return absPath, nil
	}
	if dir == "" {
		dir = "data"
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	filename := fmt.Sprintf("matches_%s.csv", time.Now().Format("20060102150405"))
	return filepath.Join(absDir, filename), nil
}
