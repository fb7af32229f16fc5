package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IvanShishkin/dupehound/internal/cleaner"
	"github.com/IvanShishkin/dupehound/internal/config"
	"github.com/IvanShishkin/dupehound/internal/filesystem"
	"github.com/IvanShishkin/dupehound/internal/grouper"
	"github.com/IvanShishkin/dupehound/internal/renamer"
	"github.com/IvanShishkin/dupehound/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrRootNotFound is returned when the requested folder is missing
var ErrRootNotFound = errors.New("folder does not exist")

// Progress phases
const (
	PhaseScanning = "scanning"
	PhaseHashing  = "hashing"
)

// ProgressCallback is called to report progress
type ProgressCallback func(phase string, current, total int, message string)

// progressBuffer is how many updates may queue before new ones are dropped
const progressBuffer = 64

// Engine runs duplicate scans, cleanups and rename batches
type Engine struct {
	fs               afero.Fs
	logger           *zap.Logger
	walker           *filesystem.Walker
	grouper          *grouper.Grouper
	renamer          *renamer.Renamer
	journal          *renamer.Journal
	progressCallback ProgressCallback
}

// NewEngine creates a new engine over fs
func NewEngine(fs afero.Fs, logger *zap.Logger) *Engine {
	return &Engine{
		fs:      fs,
		logger:  logger,
		walker:  filesystem.NewWalker(fs, logger),
		grouper: grouper.NewGrouper(fs, logger),
		renamer: renamer.NewRenamer(fs, logger),
	}
}

// SetProgressCallback sets the progress callback function
func (e *Engine) SetProgressCallback(cb ProgressCallback) {
	e.progressCallback = cb
}

// SetJournal enables recording of rename batches
func (e *Engine) SetJournal(j *renamer.Journal) {
	e.journal = j
}

// ScanRequest selects which files a scan accepts
type ScanRequest struct {
	Folder            string
	Days              int
	NamePrefix        string
	IncludeSubfolders bool
}

// DuplicateRequest describes a duplicate search
type DuplicateRequest struct {
	ScanRequest
	Criteria             grouper.Criteria
	HashMaxBytes         uint64
	CaseInsensitiveNames bool
}

// CandidateRequest describes a rename candidate listing
type CandidateRequest struct {
	ScanRequest
	FileTypePreset string
}

// NewDuplicateRequest builds a duplicate request from settings
func NewDuplicateRequest(cfg *config.Config) DuplicateRequest {
	return DuplicateRequest{
		ScanRequest: scanRequest(cfg),
		Criteria: grouper.Criteria{
			Hash:  cfg.UseHash,
			Size:  cfg.UseSize,
			Name:  cfg.UseName,
			Mtime: cfg.UseMtime,
			Mime:  cfg.UseMime,
		},
		HashMaxBytes:         cfg.HashMaxBytes(),
		CaseInsensitiveNames: cfg.CaseInsensitiveNames,
	}
}

// NewCandidateRequest builds a candidate request from settings
func NewCandidateRequest(cfg *config.Config) CandidateRequest {
	return CandidateRequest{
		ScanRequest:    scanRequest(cfg),
		FileTypePreset: cfg.FileTypePreset,
	}
}

func scanRequest(cfg *config.Config) ScanRequest {
	return ScanRequest{
		Folder:            cfg.Folder,
		Days:              cfg.Days,
		NamePrefix:        cfg.NamePrefix,
		IncludeSubfolders: cfg.IncludeSubfolders,
	}
}

// FindDuplicates scans the folder and groups duplicate files
func (e *Engine) FindDuplicates(ctx context.Context, req DuplicateRequest) (*ScanReport, error) {
	start := time.Now()
	e.logger.Info("Starting duplicate scan",
		zap.String("folder", req.Folder),
		zap.Int("days", req.Days),
		zap.Any("criteria", req.Criteria))

	records, tally, err := e.scan(ctx, req.ScanRequest)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hashProgress, stop := forward(e.progressCallback, func(p grouper.HashProgress) (string, int, int, string) {
		return PhaseHashing, p.Done, p.Total, fmt.Sprintf("Hashing file %d / %d...", p.Done, p.Total)
	})
	groups, hashSkipped := e.grouper.Group(records, req.Criteria, grouper.Options{
		HashMaxBytes:         req.HashMaxBytes,
		CaseInsensitiveNames: req.CaseInsensitiveNames,
		Progress:             hashProgress,
	})
	stop()

	report := &ScanReport{
		Folder:            req.Folder,
		StartTime:         start,
		Groups:            make([]GroupReport, 0, len(groups)),
		TotalFilesScanned: len(records),
		HashSkipped:       hashSkipped,
		ScanSkipped:       tally.Total(),
		SkipReasons:       tally,
	}
	for _, g := range groups {
		report.Groups = append(report.Groups, newGroupReport(g))
	}
	report.finish(start)

	e.logger.Info("Duplicate scan completed",
		zap.Duration("duration", report.Duration),
		zap.Int("groups", len(report.Groups)),
		zap.Int("files_scanned", report.TotalFilesScanned))

	return report, nil
}

// RenameCandidates lists scanned files matching the file-type preset
func (e *Engine) RenameCandidates(ctx context.Context, req CandidateRequest) (*CandidateReport, error) {
	start := time.Now()

	records, tally, err := e.scan(ctx, req.ScanRequest)
	if err != nil {
		return nil, err
	}

	preset := renamer.NormalizePreset(req.FileTypePreset)
	report := &CandidateReport{
		Folder:            req.Folder,
		Preset:            string(preset),
		StartTime:         start,
		Candidates:        []Candidate{},
		TotalFilesScanned: len(records),
		ScanSkipped:       tally.Total(),
		SkipReasons:       tally,
	}
	for _, r := range records {
		if !renamer.MatchesPreset(r.Path, string(preset)) {
			continue
		}
		report.Candidates = append(report.Candidates, e.newCandidate(r))
	}
	report.finish(start)

	return report, nil
}

// AutoRename applies schema to paths and records the batch in the journal
func (e *Engine) AutoRename(ctx context.Context, paths []string, schema models.RenameSchema, opts renamer.Options) (*RenameReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	batchID := renamer.NewBatchID()
	e.logger.Info("Starting rename batch",
		zap.String("batch_id", batchID),
		zap.Int("files", len(paths)),
		zap.Bool("dry_run", opts.DryRun))

	outcome := e.renamer.RenameBatch(paths, schema, opts)

	report := &RenameReport{
		BatchID:   batchID,
		DryRun:    opts.DryRun,
		StartTime: start,
		Outcome:   outcome,
	}
	if e.journal != nil {
		if err := e.journal.Record(batchID, outcome, opts.DryRun); err != nil {
			// The renames already happened; report the batch anyway
			e.logger.Error("Failed to write rename journal", zap.Error(err))
			report.JournalError = err.Error()
		} else {
			report.JournalPath = e.journal.Path()
		}
	}
	report.finish(start)

	return report, nil
}

// UndoRename reverts a journaled rename batch
func (e *Engine) UndoRename(ctx context.Context, batchID string) (*RenameReport, error) {
	if e.journal == nil {
		return nil, errors.New("rename journal is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	items, err := e.journal.Batch(batchID)
	if err != nil {
		return nil, err
	}

	report := &RenameReport{
		BatchID:   batchID,
		StartTime: start,
		Outcome:   e.renamer.Undo(items),
	}
	report.finish(start)
	return report, nil
}

// Clean keeps one member of every group and removes the rest.
// With dryRun nothing is removed and the plan is returned.
func (e *Engine) Clean(ctx context.Context, groups []models.DuplicateGroup, policy cleaner.KeepPolicy, c *cleaner.Cleaner, dryRun bool) (*CleanReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &CleanReport{
		Policy:    string(policy),
		DryRun:    dryRun,
		StartTime: start,
		Plans:     make([]CleanPlan, 0, len(groups)),
		Result:    cleaner.DeleteResult{Errors: []cleaner.DeleteError{}},
	}

	var remove []string
	for _, g := range groups {
		keep, dups := cleaner.SelectKeep(g, policy)
		plan := CleanPlan{Keep: keep.Path}
		for _, d := range dups {
			plan.Remove = append(plan.Remove, d.Path)
			report.ReclaimBytes += d.Size
		}
		remove = append(remove, plan.Remove...)
		report.Plans = append(report.Plans, plan)
	}

	if !dryRun {
		report.Result = c.Delete(remove)
	}
	report.finish(start)

	return report, nil
}

// scan validates the folder and walks it, reporting progress
func (e *Engine) scan(ctx context.Context, req ScanRequest) ([]models.FileRecord, models.SkipTally, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.SkipTally{}, err
	}

	info, err := e.fs.Stat(req.Folder)
	if err != nil || !info.IsDir() {
		return nil, models.SkipTally{}, fmt.Errorf("%w: %s", ErrRootNotFound, req.Folder)
	}

	scanProgress, stop := forward(e.progressCallback, func(count int) (string, int, int, string) {
		return PhaseScanning, count, 0, fmt.Sprintf("Found %d files...", count)
	})
	defer stop()

	return e.walker.Scan(req.Folder, filesystem.ScanOptions{
		RecencyDays:       req.Days,
		NamePrefix:        req.NamePrefix,
		IncludeSubfolders: req.IncludeSubfolders,
		Progress:          scanProgress,
	})
}

func (e *Engine) newCandidate(r models.FileRecord) Candidate {
	c := Candidate{
		FileReport: newFileReport(r),
		Extension:  lowerExt(r.Path),
	}
	if info, err := e.fs.Stat(r.Path); err == nil {
		if created, ok := filesystem.CreationTime(r.Path, info); ok {
			c.Created = float64(created.UnixNano()) / 1e9
		}
	}
	return c
}

// forward relays engine progress to cb on a separate goroutine.
// stop closes the relay and waits for it to drain.
func forward[T any](cb ProgressCallback, convert func(T) (string, int, int, string)) (chan<- T, func()) {
	if cb == nil {
		return nil, func() {}
	}

	ch := make(chan T, progressBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for v := range ch {
			cb(convert(v))
		}
	}()

	return ch, func() {
		close(ch)
		<-done
	}
}

func lowerExt(path string) string {
	return strings.ToLower(filesystem.Extension(path))
}
