package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/IvanShishkin/dupehound/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ProgressEvery is how many accepted files pass between scan progress updates
const ProgressEvery = 100

// ErrNotDirectory is returned when the scan root is not a folder
var ErrNotDirectory = errors.New("not a directory")

// maxLinkHops bounds symlink resolution of the scan root
const maxLinkHops = 40

// ScanOptions filters what a scan accepts
type ScanOptions struct {
	RecencyDays       int        // 0 disables the recency filter
	NamePrefix        string     // case-insensitive base name prefix
	IncludeSubfolders bool       // descend below the root
	Progress          chan<- int // running count of accepted files, optional
}

// Walker walks a folder tree and collects regular files
type Walker struct {
	fs     afero.Fs
	logger *zap.Logger
	now    func() time.Time
}

// NewWalker creates a new filesystem walker
func NewWalker(fs afero.Fs, logger *zap.Logger) *Walker {
	return &Walker{
		fs:     fs,
		logger: logger,
		now:    time.Now,
	}
}

// Scan walks root and returns the accepted files along with a tally of
// the entries it could not inspect. Directories, symlinks and other
// non-regular entries are never returned.
func (w *Walker) Scan(root string, opts ScanOptions) ([]models.FileRecord, models.SkipTally, error) {
	var tally models.SkipTally

	info, err := w.fs.Stat(root)
	if err != nil {
		return nil, tally, fmt.Errorf("folder does not exist: %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, tally, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	var cutoff time.Time
	if opts.RecencyDays > 0 {
		cutoff = w.now().Add(-time.Duration(opts.RecencyDays) * 24 * time.Hour)
	}
	prefix := strings.ToLower(opts.NamePrefix)

	// A symlinked root is followed; links below it are not
	walkRoot, err := w.resolveRoot(root)
	if err != nil {
		return nil, tally, err
	}

	var records []models.FileRecord
	err = afero.Walk(w.fs, walkRoot, func(path string, info os.FileInfo, err error) error {
		isRoot := path == walkRoot
		if walkRoot != root {
			path = rebase(root, walkRoot, path)
		}

		if err != nil {
			// Entries the prefix rules out are never counted
			if info == nil && prefix != "" && !strings.HasPrefix(strings.ToLower(filepath.Base(path)), prefix) {
				return nil
			}
			tally.Add(err)
			w.logger.Debug("Skipping unreadable entry", zap.String("path", path), zap.Error(err))
			return nil // Continue walking
		}

		if info.IsDir() {
			if !isRoot && !opts.IncludeSubfolders {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		if prefix != "" && !strings.HasPrefix(strings.ToLower(info.Name()), prefix) {
			return nil
		}

		if !cutoff.IsZero() && info.ModTime().Before(cutoff) {
			return nil
		}

		records = append(records, models.FileRecord{
			Path:    path,
			Size:    uint64(info.Size()),
			ModTime: info.ModTime(),
		})
		if len(records)%ProgressEvery == 0 {
			SendProgress(opts.Progress, len(records))
		}
		return nil
	})
	if err != nil {
		return records, tally, fmt.Errorf("walk %s: %w", root, err)
	}

	SendProgress(opts.Progress, len(records))

	w.logger.Info("Scan finished",
		zap.String("root", root),
		zap.Int("files", len(records)),
		zap.Int("skipped", tally.Total()))

	return records, tally, nil
}

// resolveRoot follows root while it is a symlink. Filesystems that cannot
// report links return root unchanged.
func (w *Walker) resolveRoot(root string) (string, error) {
	lstater, ok := w.fs.(afero.Lstater)
	if !ok {
		return root, nil
	}
	reader, ok := w.fs.(afero.LinkReader)
	if !ok {
		return root, nil
	}

	resolved := root
	for i := 0; i < maxLinkHops; i++ {
		info, lstatCalled, err := lstater.LstatIfPossible(resolved)
		if err != nil {
			return "", fmt.Errorf("folder does not exist: %s: %w", root, err)
		}
		if !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
			return resolved, nil
		}

		target, err := reader.ReadlinkIfPossible(resolved)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", root, err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(resolved), target)
		}
		resolved = target
	}
	return "", fmt.Errorf("too many levels of symbolic links: %s", root)
}

// rebase moves path from under walkRoot to under root
func rebase(root, walkRoot, path string) string {
	rel, err := filepath.Rel(walkRoot, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}

// SendProgress delivers v without blocking; a nil or full channel drops it
func SendProgress[T any](ch chan<- T, v T) {
	if ch == nil {
		return
	}
	select {
	case ch <- v:
	default:
	}
}

// Extension returns the file extension including the dot, case preserved.
// A leading dot alone (".profile") is not an extension.
func Extension(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	return ext
}

// Stem returns the base name without its extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, Extension(base))
}
