package models

import (
	"errors"
	"io/fs"
	"time"
)

// FileRecord is a regular file accepted by a scan
type FileRecord struct {
	Path    string    `json:"path"`     // Full file path
	Size    uint64    `json:"size"`     // File size in bytes
	ModTime time.Time `json:"mod_time"` // Modification time
}

// ModifiedAt returns the modification time as seconds since the epoch
func (r FileRecord) ModifiedAt() float64 {
	return float64(r.ModTime.Unix()) + float64(r.ModTime.Nanosecond())/1e9
}

// SkipTally counts entries a scan could not inspect, by cause
type SkipTally struct {
	PermissionDenied int `json:"permission_denied"`
	NotFound         int `json:"not_found"`
	TransientIO      int `json:"transient_io"`
}

// Total returns the number of skipped entries
func (t SkipTally) Total() int {
	return t.PermissionDenied + t.NotFound + t.TransientIO
}

// Add classifies one failure and counts it
func (t *SkipTally) Add(err error) {
	switch {
	case errors.Is(err, fs.ErrPermission):
		t.PermissionDenied++
	case errors.Is(err, fs.ErrNotExist):
		t.NotFound++
	default:
		t.TransientIO++
	}
}

// Merge adds the counts of other
func (t *SkipTally) Merge(other SkipTally) {
	t.PermissionDenied += other.PermissionDenied
	t.NotFound += other.NotFound
	t.TransientIO += other.TransientIO
}
