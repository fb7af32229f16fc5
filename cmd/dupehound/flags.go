package main

import (
	"fmt"
	"strings"

	"github.com/IvanShishkin/dupehound/internal/config"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// scanFlags are shared by every command that walks a folder
type scanFlags struct {
	days         int
	prefix       string
	subfolders   bool
	reportFormat string
	outputFile   string

	// Duplicate criteria
	withCriteria bool
	hash         bool
	size         bool
	name         bool
	mtime        bool
	mime         bool
	caseFold     bool
	hashMax      string
}

// bind registers the flags on cmd; criteria flags only for duplicate commands
func (f *scanFlags) bind(cmd *cobra.Command, criteria bool) {
	f.withCriteria = criteria

	cmd.Flags().IntVar(&f.days, "days", 7, "Only files modified in the last N days (0: all)")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "Only files whose name starts with this (case-insensitive)")
	cmd.Flags().BoolVar(&f.subfolders, "subfolders", true, "Descend into subfolders")
	cmd.Flags().StringVarP(&f.reportFormat, "report", "r", "", "Report format: json, text, md (default: console output)")
	cmd.Flags().StringVarP(&f.outputFile, "output", "o", "", "Output file path")

	if !criteria {
		return
	}
	cmd.Flags().BoolVar(&f.hash, "hash", true, "Compare SHA-256 content hashes")
	cmd.Flags().BoolVar(&f.size, "size", false, "Compare file sizes")
	cmd.Flags().BoolVar(&f.name, "name", false, "Compare file names")
	cmd.Flags().BoolVar(&f.mtime, "mtime", false, "Compare modification times (whole seconds)")
	cmd.Flags().BoolVar(&f.mime, "mime", false, "Compare sniffed MIME types")
	cmd.Flags().BoolVar(&f.caseFold, "ignore-case", false, "Compare names case-insensitively")
	cmd.Flags().StringVar(&f.hashMax, "hash-max", "", "Skip hashing files larger than this, e.g. 500MB (0: no limit)")
}

// apply copies the flags the user set onto cfg
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		cfg.Folder = args[0]
	}

	changed := cmd.Flags().Changed
	if changed("days") {
		cfg.Days = f.days
	}
	if changed("prefix") {
		cfg.NamePrefix = f.prefix
	}
	if changed("subfolders") {
		cfg.IncludeSubfolders = f.subfolders
	}
	if f.reportFormat != "" {
		cfg.ReportFormat = f.reportFormat
	}
	if f.outputFile != "" {
		cfg.OutputFile = f.outputFile
	}

	if !f.withCriteria {
		return nil
	}
	if changed("hash") {
		cfg.UseHash = f.hash
	}
	if changed("size") {
		cfg.UseSize = f.size
	}
	if changed("name") {
		cfg.UseName = f.name
	}
	if changed("mtime") {
		cfg.UseMtime = f.mtime
	}
	if changed("mime") {
		cfg.UseMime = f.mime
	}
	if changed("ignore-case") {
		cfg.CaseInsensitiveNames = f.caseFold
	}
	if f.hashMax != "" {
		if _, err := parseHashMax(f.hashMax); err != nil {
			return err
		}
	}
	return nil
}

// parseHashMax parses a size such as "650MB"; 0 disables the ceiling
func parseHashMax(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "0" || strings.EqualFold(s, "off") {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("--hash-max must be a size like 500MB (got: %s)", s)
	}
	return n, nil
}
