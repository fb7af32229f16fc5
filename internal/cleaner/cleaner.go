// Package cleaner removes redundant members of duplicate groups.
package cleaner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/dupehound/internal/filesystem"
	"github.com/IvanShishkin/dupehound/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// KeepPolicy decides which member of a group survives
type KeepPolicy string

const (
	KeepFirst        KeepPolicy = "first"
	KeepOldest       KeepPolicy = "oldest"
	KeepNewest       KeepPolicy = "newest"
	KeepShortestPath KeepPolicy = "shortest-path"
)

// KeepPolicies lists every supported policy
var KeepPolicies = []KeepPolicy{KeepFirst, KeepOldest, KeepNewest, KeepShortestPath}

// ParseKeepPolicy validates a policy name
func ParseKeepPolicy(s string) (KeepPolicy, error) {
	for _, p := range KeepPolicies {
		if string(p) == strings.ToLower(strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown keep policy: %s", s)
}

// SelectKeep returns the member to keep and the members to remove.
// Ties keep the earliest member.
func SelectKeep(group models.DuplicateGroup, policy KeepPolicy) (models.FileRecord, []models.FileRecord) {
	if len(group.Members) == 0 {
		return models.FileRecord{}, nil
	}

	keep := 0
	for i, m := range group.Members[1:] {
		cur := group.Members[keep]
		better := false
		switch policy {
		case KeepOldest:
			better = m.ModTime.Before(cur.ModTime)
		case KeepNewest:
			better = m.ModTime.After(cur.ModTime)
		case KeepShortestPath:
			better = len(m.Path) < len(cur.Path)
		}
		if better {
			keep = i + 1
		}
	}

	remove := make([]models.FileRecord, 0, len(group.Members)-1)
	for i, m := range group.Members {
		if i != keep {
			remove = append(remove, m)
		}
	}
	return group.Members[keep], remove
}

// Remover takes a single file out of its folder
type Remover interface {
	Remove(path string) error
	Name() string
}

// PermanentRemover deletes files outright
type PermanentRemover struct {
	fs afero.Fs
}

// NewPermanentRemover creates a remover that deletes from fs
func NewPermanentRemover(fs afero.Fs) *PermanentRemover {
	return &PermanentRemover{fs: fs}
}

func (r *PermanentRemover) Name() string { return "permanent" }

func (r *PermanentRemover) Remove(path string) error {
	return r.fs.Remove(path)
}

// QuarantineRemover moves files into a holding folder instead of deleting them
type QuarantineRemover struct {
	fs  afero.Fs
	dir string
}

// NewQuarantineRemover creates a remover that moves files into dir
func NewQuarantineRemover(fs afero.Fs, dir string) *QuarantineRemover {
	return &QuarantineRemover{fs: fs, dir: dir}
}

func (r *QuarantineRemover) Name() string { return "quarantine" }

// Remove moves path into the quarantine folder, suffixing the name on collision
func (r *QuarantineRemover) Remove(path string) error {
	if err := r.fs.MkdirAll(r.dir, 0755); err != nil {
		return err
	}

	stem, ext := filesystem.Stem(path), filesystem.Extension(path)
	target := filepath.Join(r.dir, stem+ext)
	for n := 1; ; n++ {
		if _, err := r.fs.Stat(target); err != nil {
			break
		}
		target = filepath.Join(r.dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
	return r.fs.Rename(path, target)
}

// DeleteError records a file that could not be removed
type DeleteError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// DeleteResult aggregates a delete batch
type DeleteResult struct {
	Deleted int           `json:"deleted"`
	Errors  []DeleteError `json:"errors"`
}

// Cleaner removes files with a primary remover and an optional fallback
type Cleaner struct {
	primary  Remover
	fallback Remover
	logger   *zap.Logger
}

// NewCleaner creates a cleaner; fallback may be nil
func NewCleaner(primary, fallback Remover, logger *zap.Logger) *Cleaner {
	return &Cleaner{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Delete removes every path, continuing past failures
func (c *Cleaner) Delete(paths []string) DeleteResult {
	result := DeleteResult{Errors: []DeleteError{}}

	for _, path := range paths {
		err := c.primary.Remove(path)
		if err != nil && c.fallback != nil {
			c.logger.Debug("Primary remover failed, falling back",
				zap.String("path", path),
				zap.String("remover", c.primary.Name()),
				zap.Error(err))
			err = c.fallback.Remove(path)
		}
		if err != nil {
			result.Errors = append(result.Errors, DeleteError{
				Path:    path,
				Message: fmt.Sprintf("Could not delete %s:\n%v", path, err),
			})
			continue
		}
		result.Deleted++
	}

	c.logger.Info("Delete finished",
		zap.Int("deleted", result.Deleted),
		zap.Int("errors", len(result.Errors)))

	return result
}
