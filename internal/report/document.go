package report

import (
	"fmt"

	"github.com/IvanShishkin/dupehound/internal/core"
	"github.com/dustin/go-humanize"
)

// Field is one summary line
type Field struct {
	Label string
	Value string
}

// Item is one entry of a section; Mark flags entries to highlight
type Item struct {
	Text   string
	Detail string
	Mark   bool
}

// Section is a titled list of items
type Section struct {
	Title string
	Items []Item
}

// Document is a report rendered by every format. Data is what the JSON
// format serializes.
type Document struct {
	Kind     string
	Title    string
	Fields   []Field
	Sections []Section
	Empty    string // shown instead of sections when there are none
	Data     any
}

// FromScan builds the duplicate scan report
func FromScan(r *core.ScanReport) *Document {
	doc := &Document{
		Kind:  "SCAN",
		Title: "Duplicate Scan",
		Fields: []Field{
			{"Folder", r.Folder},
			{"Start Time", r.StartTime.Format(core.TimeLayout)},
			{"Duration", FormatDuration(r.Duration)},
			{"Files Scanned", humanize.Comma(int64(r.TotalFilesScanned))},
			{"Scan Skipped", skipSummary(r.ScanSkipped, r.SkipReasons.PermissionDenied, r.SkipReasons.NotFound, r.SkipReasons.TransientIO)},
			{"Hash Skipped", humanize.Comma(int64(r.HashSkipped))},
			{"Duplicate Groups", humanize.Comma(int64(len(r.Groups)))},
			{"Duplicate Files", humanize.Comma(int64(r.DuplicateFiles()))},
			{"Reclaimable", humanize.IBytes(r.WastedBytes())},
		},
		Empty: "No duplicates found",
		Data:  r,
	}

	for i, g := range r.Groups {
		s := Section{Title: fmt.Sprintf("[%d] %s", i+1, g.Description)}
		for _, f := range g.Files {
			s.Items = append(s.Items, Item{
				Text:   f.Path,
				Detail: fmt.Sprintf("%s, %s", f.SizeHuman, f.MtimeFormatted),
			})
		}
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

// FromCandidates builds the rename candidate listing
func FromCandidates(r *core.CandidateReport) *Document {
	doc := &Document{
		Kind:  "CANDIDATES",
		Title: "Rename Candidates",
		Fields: []Field{
			{"Folder", r.Folder},
			{"Preset", r.Preset},
			{"Duration", FormatDuration(r.Duration)},
			{"Files Scanned", humanize.Comma(int64(r.TotalFilesScanned))},
			{"Scan Skipped", skipSummary(r.ScanSkipped, r.SkipReasons.PermissionDenied, r.SkipReasons.NotFound, r.SkipReasons.TransientIO)},
			{"Candidates", humanize.Comma(int64(len(r.Candidates)))},
		},
		Empty: "No matching files",
		Data:  r,
	}

	if len(r.Candidates) > 0 {
		s := Section{Title: "Files"}
		for _, c := range r.Candidates {
			s.Items = append(s.Items, Item{
				Text:   c.Path,
				Detail: fmt.Sprintf("%s, %s", c.SizeHuman, c.MtimeFormatted),
			})
		}
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

// FromRename builds the rename or undo batch report
func FromRename(r *core.RenameReport) *Document {
	title := "Rename Batch"
	if r.DryRun {
		title = "Rename Plan (dry run)"
	}
	doc := &Document{
		Kind:  "RENAME",
		Title: title,
		Fields: []Field{
			{"Batch", r.BatchID},
			{"Duration", FormatDuration(r.Duration)},
			{"Renamed", humanize.Comma(int64(r.Outcome.RenamedCount()))},
			{"Skipped", humanize.Comma(int64(r.Outcome.SkippedCount))},
			{"Errors", humanize.Comma(int64(r.Outcome.ErrorCount()))},
		},
		Empty: "Nothing to rename",
		Data:  r,
	}
	if r.JournalPath != "" {
		doc.Fields = append(doc.Fields, Field{"Journal", r.JournalPath})
	}
	if r.JournalError != "" {
		doc.Fields = append(doc.Fields, Field{"Journal Error", r.JournalError})
	}

	if len(r.Outcome.Renamed) > 0 {
		s := Section{Title: "Renamed"}
		for _, it := range r.Outcome.Renamed {
			s.Items = append(s.Items, Item{Text: it.From, Detail: "-> " + it.To})
		}
		doc.Sections = append(doc.Sections, s)
	}
	if len(r.Outcome.Errors) > 0 {
		s := Section{Title: "Errors"}
		for _, e := range r.Outcome.Errors {
			s.Items = append(s.Items, Item{Text: e.Path, Detail: e.Message, Mark: true})
		}
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

// FromClean builds the cleanup report
func FromClean(r *core.CleanReport) *Document {
	title := "Cleanup"
	if r.DryRun {
		title = "Cleanup Plan (dry run)"
	}
	doc := &Document{
		Kind:  "CLEAN",
		Title: title,
		Fields: []Field{
			{"Keep Policy", r.Policy},
			{"Duration", FormatDuration(r.Duration)},
			{"Groups", humanize.Comma(int64(len(r.Plans)))},
			{"Reclaimable", humanize.IBytes(r.ReclaimBytes)},
		},
		Empty: "No duplicates to clean",
		Data:  r,
	}
	if !r.DryRun {
		doc.Fields = append(doc.Fields,
			Field{"Deleted", humanize.Comma(int64(r.Result.Deleted))},
			Field{"Errors", humanize.Comma(int64(len(r.Result.Errors)))})
	}

	for i, p := range r.Plans {
		s := Section{Title: fmt.Sprintf("[%d] keep %s", i+1, p.Keep)}
		for _, path := range p.Remove {
			s.Items = append(s.Items, Item{Text: path, Detail: "remove"})
		}
		doc.Sections = append(doc.Sections, s)
	}
	if len(r.Result.Errors) > 0 {
		s := Section{Title: "Errors"}
		for _, e := range r.Result.Errors {
			s.Items = append(s.Items, Item{Text: e.Path, Detail: e.Message, Mark: true})
		}
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

func skipSummary(total, denied, missing, transient int) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%s (permission denied %d, not found %d, io %d)",
		humanize.Comma(int64(total)), denied, missing, transient)
}
