package core

import (
	"path/filepath"
	"time"

	"github.com/IvanShishkin/dupehound/internal/cleaner"
	"github.com/IvanShishkin/dupehound/pkg/models"
)

// TimeLayout is used for every timestamp shown to users
const TimeLayout = "2006-01-02 15:04:05"

// FileReport describes one file in a report
type FileReport struct {
	Path           string  `json:"path"`
	Name           string  `json:"name"`
	Folder         string  `json:"folder"`
	Size           uint64  `json:"size"`
	SizeHuman      string  `json:"size_human"`
	Mtime          float64 `json:"mtime"`
	MtimeFormatted string  `json:"mtime_formatted"`
}

func newFileReport(r models.FileRecord) FileReport {
	return FileReport{
		Path:           r.Path,
		Name:           filepath.Base(r.Path),
		Folder:         filepath.Dir(r.Path),
		Size:           r.Size,
		SizeHuman:      models.HumanSize(r.Size),
		Mtime:          r.ModifiedAt(),
		MtimeFormatted: r.ModTime.Local().Format(TimeLayout),
	}
}

// GroupReport is one duplicate group
type GroupReport struct {
	Description string                `json:"key_description"`
	Files       []FileReport          `json:"files"`
	Group       models.DuplicateGroup `json:"-"`
}

func newGroupReport(g models.DuplicateGroup) GroupReport {
	gr := GroupReport{
		Description: g.Key.Describe(),
		Files:       make([]FileReport, 0, len(g.Members)),
		Group:       g,
	}
	for _, m := range g.Members {
		gr.Files = append(gr.Files, newFileReport(m))
	}
	return gr
}

// WastedBytes is the space held by every member but one
func (g GroupReport) WastedBytes() uint64 {
	var total uint64
	if len(g.Files) < 2 {
		return 0
	}
	for _, f := range g.Files[1:] {
		total += f.Size
	}
	return total
}

// ScanReport is the result of a duplicate scan
type ScanReport struct {
	Folder            string           `json:"folder"`
	StartTime         time.Time        `json:"start_time"`
	EndTime           time.Time        `json:"end_time"`
	Duration          time.Duration    `json:"-"`
	ElapsedSeconds    float64          `json:"elapsed_seconds"`
	Groups            []GroupReport    `json:"groups"`
	TotalFilesScanned int              `json:"total_files_scanned"`
	HashSkipped       int              `json:"hash_skipped"`
	ScanSkipped       int              `json:"scan_skipped"`
	SkipReasons       models.SkipTally `json:"scan_skip_reasons"`
}

// DuplicateGroups returns the groups for cleanup
func (r *ScanReport) DuplicateGroups() []models.DuplicateGroup {
	groups := make([]models.DuplicateGroup, 0, len(r.Groups))
	for _, g := range r.Groups {
		groups = append(groups, g.Group)
	}
	return groups
}

// DuplicateFiles counts files in all groups
func (r *ScanReport) DuplicateFiles() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Files)
	}
	return n
}

// WastedBytes sums the reclaimable space over all groups
func (r *ScanReport) WastedBytes() uint64 {
	var total uint64
	for _, g := range r.Groups {
		total += g.WastedBytes()
	}
	return total
}

func (r *ScanReport) finish(start time.Time) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(start)
	r.ElapsedSeconds = r.Duration.Seconds()
}

// Candidate is a file eligible for auto-rename
type Candidate struct {
	FileReport
	Extension string  `json:"extension"`
	Created   float64 `json:"created"` // 0 when the platform has no creation time
}

// CandidateReport lists rename candidates
type CandidateReport struct {
	Folder            string           `json:"folder"`
	Preset            string           `json:"preset"`
	StartTime         time.Time        `json:"start_time"`
	Duration          time.Duration    `json:"-"`
	ElapsedSeconds    float64          `json:"elapsed_seconds"`
	Candidates        []Candidate      `json:"candidates"`
	TotalFilesScanned int              `json:"total_files_scanned"`
	ScanSkipped       int              `json:"scan_skipped"`
	SkipReasons       models.SkipTally `json:"scan_skip_reasons"`
}

// Paths returns the candidate paths in scan order
func (r *CandidateReport) Paths() []string {
	paths := make([]string, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		paths = append(paths, c.Path)
	}
	return paths
}

func (r *CandidateReport) finish(start time.Time) {
	r.Duration = time.Since(start)
	r.ElapsedSeconds = r.Duration.Seconds()
}

// RenameReport is the result of a rename or undo batch
type RenameReport struct {
	BatchID        string               `json:"batch_id"`
	DryRun         bool                 `json:"dry_run"`
	StartTime      time.Time            `json:"start_time"`
	Duration       time.Duration        `json:"-"`
	ElapsedSeconds float64              `json:"elapsed_seconds"`
	Outcome        models.RenameOutcome `json:"outcome"`
	JournalPath    string               `json:"journal_path,omitempty"`
	JournalError   string               `json:"journal_error,omitempty"`
}

func (r *RenameReport) finish(start time.Time) {
	r.Duration = time.Since(start)
	r.ElapsedSeconds = r.Duration.Seconds()
}

// CleanPlan is the keep/remove split of one group
type CleanPlan struct {
	Keep   string   `json:"keep"`
	Remove []string `json:"remove"`
}

// CleanReport is the result of a cleanup
type CleanReport struct {
	Policy         string               `json:"policy"`
	DryRun         bool                 `json:"dry_run"`
	StartTime      time.Time            `json:"start_time"`
	Duration       time.Duration        `json:"-"`
	ElapsedSeconds float64              `json:"elapsed_seconds"`
	Plans          []CleanPlan          `json:"plans"`
	ReclaimBytes   uint64               `json:"reclaim_bytes"`
	Result         cleaner.DeleteResult `json:"result"`
}

func (r *CleanReport) finish(start time.Time) {
	r.Duration = time.Since(start)
	r.ElapsedSeconds = r.Duration.Seconds()
}
