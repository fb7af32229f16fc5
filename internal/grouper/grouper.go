// Package grouper finds duplicate files among scanned records.
package grouper

import (
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/dupehound/internal/filesystem"
	"github.com/IvanShishkin/dupehound/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Criteria selects which file properties must match
type Criteria struct {
	Hash  bool `json:"hash"`
	Size  bool `json:"size"`
	Name  bool `json:"name"`
	Mtime bool `json:"mtime"`
	Mime  bool `json:"mime"`
}

// Any reports whether at least one criterion is enabled
func (c Criteria) Any() bool {
	return c.Hash || c.Size || c.Name || c.Mtime || c.Mime
}

// HashProgress reports how many hash candidates have been considered
type HashProgress struct {
	Done  int
	Total int
}

// Options tunes a grouping pass
type Options struct {
	HashMaxBytes         uint64              // 0 means no ceiling
	CaseInsensitiveNames bool                // fold names before comparing
	Progress             chan<- HashProgress // optional
}

// Grouper groups file records into duplicate sets
type Grouper struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewGrouper creates a new grouper reading file contents from fs
func NewGrouper(fs afero.Fs, logger *zap.Logger) *Grouper {
	return &Grouper{
		fs:     fs,
		logger: logger,
	}
}

// Group returns every set of two or more records sharing the key built from
// the enabled criteria, plus the number of records too large to hash.
// Groups come back in the order their first member was encountered.
func (g *Grouper) Group(records []models.FileRecord, criteria Criteria, opts Options) ([]models.DuplicateGroup, int) {
	if !criteria.Any() {
		return nil, 0
	}

	// Size buckets: a file with a unique size cannot share content with anything
	bucketSize := make(map[uint64]int)
	total := 0
	if criteria.Hash {
		for _, r := range records {
			bucketSize[r.Size]++
		}
		for _, n := range bucketSize {
			if n > 1 {
				total += n
			}
		}
	}

	var (
		order       []string
		groups      = make(map[string]*models.DuplicateGroup)
		hashSkipped int
		done        int
	)

	for _, r := range records {
		key := make(models.DuplicateKey, 0, 5)

		if criteria.Hash {
			eligible := bucketSize[r.Size] > 1
			switch {
			case opts.HashMaxBytes > 0 && r.Size > opts.HashMaxBytes:
				hashSkipped++
				if eligible {
					done++
					filesystem.SendProgress(opts.Progress, HashProgress{Done: done, Total: total})
				}
			case !eligible:
				continue
			default:
				digest, err := filesystem.Digest(g.fs, r.Path)
				done++
				filesystem.SendProgress(opts.Progress, HashProgress{Done: done, Total: total})
				if err != nil {
					g.logger.Debug("Failed to hash file", zap.String("path", r.Path), zap.Error(err))
					continue
				}
				key = append(key, models.HashValue(digest))
			}
		}

		if criteria.Size {
			key = append(key, models.SizeValue(r.Size))
		}
		if criteria.Name {
			name := filepath.Base(r.Path)
			if opts.CaseInsensitiveNames {
				name = strings.ToLower(name)
			}
			key = append(key, models.NameValue(name))
		}
		if criteria.Mtime {
			key = append(key, models.MtimeValue(r.ModTime.Unix()))
		}
		if criteria.Mime {
			key = append(key, models.MimeValue(DetectMime(g.fs, r.Path)))
		}

		if len(key) == 0 {
			continue
		}

		fp := key.Fingerprint()
		group, ok := groups[fp]
		if !ok {
			group = &models.DuplicateGroup{Key: key}
			groups[fp] = group
			order = append(order, fp)
		}
		group.Members = append(group.Members, r)
	}

	var result []models.DuplicateGroup
	for _, fp := range order {
		if group := groups[fp]; len(group.Members) > 1 {
			result = append(result, *group)
		}
	}

	g.logger.Info("Grouping finished",
		zap.Int("records", len(records)),
		zap.Int("groups", len(result)),
		zap.Int("hash_skipped", hashSkipped))

	return result, hashSkipped
}
