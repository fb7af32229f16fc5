package renamer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/IvanShishkin/dupehound/pkg/models"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// JournalFile is the journal file name inside the journal folder
const JournalFile = "rename-journal.csv"

// Journal row statuses
const (
	StatusRenamed = "renamed"
	StatusPlanned = "planned"
	StatusError   = "error"
)

var journalHeader = []string{"batch_id", "timestamp", "from_path", "to_path", "status", "message"}

// Journal appends rename batches to a CSV file so they can be undone
type Journal struct {
	fs   afero.Fs
	path string
	now  func() time.Time
}

// NewJournal creates a journal stored in dir
func NewJournal(fs afero.Fs, dir string) *Journal {
	return &Journal{
		fs:   fs,
		path: filepath.Join(dir, JournalFile),
		now:  time.Now,
	}
}

// Path returns the journal file path
func (j *Journal) Path() string {
	return j.path
}

// NewBatchID returns a fresh identifier for a rename batch
func NewBatchID() string {
	return uuid.NewString()
}

// Record appends one row per renamed and failed item of outcome
func (j *Journal) Record(batchID string, outcome models.RenameOutcome, dryRun bool) error {
	if err := j.fs.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return fmt.Errorf("failed to create journal folder: %w", err)
	}

	_, statErr := j.fs.Stat(j.path)
	writeHeader := statErr != nil

	f, err := j.fs.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if writeHeader {
		_ = cw.Write(journalHeader)
	}

	status := StatusRenamed
	if dryRun {
		status = StatusPlanned
	}
	ts := j.now().Format(time.RFC3339)
	for _, it := range outcome.Renamed {
		_ = cw.Write([]string{batchID, ts, it.From, it.To, status, ""})
	}
	for _, e := range outcome.Errors {
		_ = cw.Write([]string{batchID, ts, e.Path, "", StatusError, e.Message})
	}

	cw.Flush()
	return cw.Error()
}

// Batch returns the renamed items recorded for batchID, in journal order
func (j *Journal) Batch(batchID string) ([]models.RenamedItem, error) {
	f, err := j.fs.Open(j.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(journalHeader)

	var items []models.RenamedItem
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read journal: %w", err)
		}
		if row[0] != batchID || row[4] != StatusRenamed {
			continue
		}
		items = append(items, models.RenamedItem{From: row[2], To: row[3]})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("batch %s not found in %s", batchID, j.path)
	}
	return items, nil
}
