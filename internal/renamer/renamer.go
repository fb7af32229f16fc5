// Package renamer moves files to names derived from a rename schema.
package renamer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/IvanShishkin/dupehound/internal/filesystem"
	"github.com/IvanShishkin/dupehound/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// MaxSequence is the highest sequence number tried when resolving collisions
const MaxSequence = 10000

type resolution int

const (
	resolved resolution = iota
	skipped
	exhausted
)

// Options tunes a rename batch
type Options struct {
	DryRun bool // plan targets without touching the filesystem
}

// Renamer applies a rename schema to batches of files
type Renamer struct {
	fs           afero.Fs
	logger       *zap.Logger
	now          func() time.Time
	creationTime func(path string, info os.FileInfo) (time.Time, bool)
}

// NewRenamer creates a renamer operating on fs
func NewRenamer(fs afero.Fs, logger *zap.Logger) *Renamer {
	return &Renamer{
		fs:           fs,
		logger:       logger,
		now:          time.Now,
		creationTime: filesystem.CreationTime,
	}
}

// RenameBatch renames each path in order. Targets chosen earlier in the
// batch are reserved, so no two files in one call share a target even if
// the filesystem has not caught up yet.
func (r *Renamer) RenameBatch(paths []string, schema models.RenameSchema, opts Options) models.RenameOutcome {
	outcome := models.RenameOutcome{
		Renamed: []models.RenamedItem{},
		Errors:  []models.RenameError{},
	}
	reserved := make(map[string]struct{})

	for _, source := range paths {
		source = filepath.Clean(source)
		target, res := r.resolveTarget(source, schema, reserved)
		switch res {
		case skipped:
			outcome.SkippedCount++
			continue
		case exhausted:
			outcome.Errors = append(outcome.Errors, models.RenameError{
				Path:    source,
				Message: fmt.Sprintf("Could not find a free target name after %d attempts", MaxSequence),
			})
			continue
		}

		if !opts.DryRun {
			if err := r.fs.Rename(source, target); err != nil {
				r.logger.Debug("Rename failed", zap.String("path", source), zap.Error(err))
				outcome.Errors = append(outcome.Errors, models.RenameError{
					Path:    source,
					Message: fmt.Sprintf("Rename failed: %v", err),
				})
				continue
			}
		}

		reserved[target] = struct{}{}
		outcome.Renamed = append(outcome.Renamed, models.RenamedItem{From: source, To: target})
	}

	r.logger.Info("Rename batch finished",
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("renamed", outcome.RenamedCount()),
		zap.Int("skipped", outcome.SkippedCount),
		zap.Int("errors", outcome.ErrorCount()))

	return outcome
}

// resolveTarget picks a free target for source, or reports a skip
func (r *Renamer) resolveTarget(source string, schema models.RenameSchema, reserved map[string]struct{}) (string, resolution) {
	info, err := r.fs.Stat(source)
	if err != nil || !info.Mode().IsRegular() {
		return "", skipped
	}

	dir := filepath.Dir(source)
	if dir == source {
		return "", skipped
	}

	parts := r.nameParts(source, dir, info)

	base := filepath.Join(dir, BuildName(schema, parts, 0))
	if base == source {
		return "", skipped
	}
	if r.free(base, reserved) {
		return base, resolved
	}

	for seq := 1; seq <= MaxSequence; seq++ {
		candidate := filepath.Join(dir, BuildName(schema, parts, seq))
		if candidate == source {
			continue
		}
		if r.free(candidate, reserved) {
			return candidate, resolved
		}
	}
	return "", exhausted
}

func (r *Renamer) nameParts(source, dir string, info os.FileInfo) NameParts {
	now := r.now()

	// Roots and "." carry no usable folder name
	folder := filepath.Base(dir)
	if folder == "." || folder == string(filepath.Separator) {
		folder = ""
	}

	stem := filesystem.Stem(source)
	if stem == "" {
		stem = "file"
	}

	created, ok := r.creationTime(source, info)
	if !ok {
		created = now
	}
	modified := info.ModTime()
	if modified.IsZero() {
		modified = now
	}

	return NameParts{
		Folder:   folder,
		Stem:     stem,
		Ext:      filesystem.Extension(source),
		Created:  created,
		Modified: modified,
	}
}

// free reports whether candidate is neither reserved nor present on disk
func (r *Renamer) free(candidate string, reserved map[string]struct{}) bool {
	if _, ok := reserved[candidate]; ok {
		return false
	}
	_, err := r.fs.Stat(candidate)
	return err != nil
}

// Undo moves renamed files back to their original paths, newest first.
// Items whose original path is taken again or whose target is gone are reported as errors.
func (r *Renamer) Undo(items []models.RenamedItem) models.RenameOutcome {
	outcome := models.RenameOutcome{
		Renamed: []models.RenamedItem{},
		Errors:  []models.RenameError{},
	}

	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if _, err := r.fs.Stat(item.To); err != nil {
			outcome.Errors = append(outcome.Errors, models.RenameError{Path: item.To, Message: fmt.Sprintf("Renamed file missing: %v", err)})
			continue
		}
		if _, err := r.fs.Stat(item.From); err == nil {
			outcome.Errors = append(outcome.Errors, models.RenameError{Path: item.To, Message: fmt.Sprintf("Original path is taken: %s", item.From)})
			continue
		}
		if err := r.fs.Rename(item.To, item.From); err != nil {
			outcome.Errors = append(outcome.Errors, models.RenameError{Path: item.To, Message: fmt.Sprintf("Rename failed: %v", err)})
			continue
		}
		outcome.Renamed = append(outcome.Renamed, models.RenamedItem{From: item.To, To: item.From})
	}

	return outcome
}
