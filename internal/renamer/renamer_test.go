package renamer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/IvanShishkin/dupehound/internal/testutil"
	"github.com/IvanShishkin/dupehound/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	testCreated = time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	testNow     = time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
)

func newTestRenamer(fs afero.Fs) *Renamer {
	r := NewRenamer(fs, zap.NewNop())
	r.now = func() time.Time { return testNow }
	r.creationTime = func(string, os.FileInfo) (time.Time, bool) { return testCreated, true }
	return r
}

func folderSeqSchema() models.RenameSchema {
	return models.RenameSchema{
		Components: []models.RenameComponent{
			{Kind: models.ComponentFolderName},
			{Kind: models.ComponentSequence, PadWidth: 3},
		},
		Separator: "_",
	}
}

func folderStemSchema() models.RenameSchema {
	return models.RenameSchema{
		Components: []models.RenameComponent{
			{Kind: models.ComponentFolderName},
			{Kind: models.ComponentOriginalStem},
		},
		Separator: "_",
	}
}

func mustWrite(t *testing.T, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := testutil.WriteFile(fs, p, []byte(p)); err != nil {
			t.Fatal(err)
		}
	}
}

func exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

func TestRenameBatch_CollisionUsesNextSequence(t *testing.T) {
	fs := afero.NewMemMapFs()
	mustWrite(t, fs, "/photos/photos.jpg", "/photos/photos_001.jpg", "/photos/a.jpg")

	outcome := newTestRenamer(fs).RenameBatch([]string{"/photos/a.jpg"}, folderSeqSchema(), Options{})
	if outcome.RenamedCount() != 1 || outcome.ErrorCount() != 0 {
		t.Fatalf("RenameBatch() = %+v", outcome)
	}
	if got := filepath.Base(outcome.Renamed[0].To); got != "photos_002.jpg" {
		t.Errorf("target = %v, want photos_002.jpg", got)
	}
	if exists(fs, "/photos/a.jpg") || !exists(fs, "/photos/photos_002.jpg") {
		t.Error("file was not moved")
	}
}

func TestRenameBatch_BaseNameWhenFree(t *testing.T) {
	fs := afero.NewMemMapFs()
	mustWrite(t, fs, "/Invoices/old_name.TXT")

	outcome := newTestRenamer(fs).RenameBatch([]string{"/Invoices/old_name.TXT"}, folderStemSchema(), Options{})
	if outcome.RenamedCount() != 1 {
		t.Fatalf("RenameBatch() = %+v", outcome)
	}
	if got := filepath.Base(outcome.Renamed[0].To); got != "Invoices_old_name.TXT" {
		t.Errorf("target = %v, want Invoices_old_name.TXT", got)
	}
}

func TestRenameBatch_AlreadyNamedIsSkipped(t *testing.T) {
	fs := afero.NewMemMapFs()
	mustWrite(t, fs, "/photos/photos.jpg", "/Invoices/Invoices_bill.pdf")

	tests := []struct {
		name   string
		path   string
		schema models.RenameSchema
	}{
		{"Folder and sequence", "/photos/photos.jpg", folderSeqSchema()},
		{"Uncleaned path", "/photos/./photos.jpg", folderSeqSchema()},
		{"Folder and stem", "/Invoices/Invoices_bill.pdf", models.RenameSchema{
			Components: []models.RenameComponent{{Kind: models.ComponentFolderName}, {Kind: models.ComponentLiteral, Value: "bill"}},
			Separator:  "_",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := newTestRenamer(fs).RenameBatch([]string{tt.path}, tt.schema, Options{})
			if outcome.SkippedCount != 1 || outcome.RenamedCount() != 0 || outcome.ErrorCount() != 0 {
				t.Errorf("RenameBatch() = %+v, want one skip", outcome)
			}
			if !exists(fs, tt.path) {
				t.Error("skipped file was moved")
			}
		})
	}
}

func TestRenameBatch_ReservesTargetsWithinBatch(t *testing.T) {
	for _, dryRun := range []bool{false, true} {
		t.Run(map[bool]string{false: "Apply", true: "Dry run"}[dryRun], func(t *testing.T) {
			fs := afero.NewMemMapFs()
			mustWrite(t, fs, "/photos/a.jpg", "/photos/b.jpg", "/photos/c.jpg")

			paths := []string{"/photos/a.jpg", "/photos/b.jpg", "/photos/c.jpg"}
			outcome := newTestRenamer(fs).RenameBatch(paths, folderSeqSchema(), Options{DryRun: dryRun})
			if outcome.RenamedCount() != 3 {
				t.Fatalf("RenameBatch() = %+v", outcome)
			}

			var got []string
			for _, it := range outcome.Renamed {
				got = append(got, filepath.Base(it.To))
			}
			if strings.Join(got, ",") != "photos.jpg,photos_001.jpg,photos_002.jpg" {
				t.Errorf("targets = %v", got)
			}
			if exists(fs, "/photos/a.jpg") == !dryRun {
				t.Errorf("source present = %v with dry run %v", !dryRun, dryRun)
			}
		})
	}
}

func TestRenameBatch_Skips(t *testing.T) {
	fs := afero.NewMemMapFs()
	mustWrite(t, fs, "/docs/a.txt")
	if err := fs.MkdirAll("/docs/sub", 0755); err != nil {
		t.Fatal(err)
	}

	paths := []string{"/docs/missing.txt", "/docs/sub", "/docs/a.txt"}
	outcome := newTestRenamer(fs).RenameBatch(paths, folderStemSchema(), Options{})
	if outcome.SkippedCount != 2 {
		t.Errorf("SkippedCount = %d, want 2", outcome.SkippedCount)
	}
	if outcome.RenamedCount() != 1 || filepath.Base(outcome.Renamed[0].To) != "docs_a.txt" {
		t.Errorf("Renamed = %+v", outcome.Renamed)
	}
}

func TestRenameBatch_UnreadableMetadataIsSkipped(t *testing.T) {
	base := afero.NewMemMapFs()
	mustWrite(t, base, "/docs/locked.txt")
	fs := testutil.NewFaultFs(base)
	fs.Deny("/docs/locked.txt")

	outcome := newTestRenamer(fs).RenameBatch([]string{"/docs/locked.txt"}, folderStemSchema(), Options{})
	if outcome.SkippedCount != 1 || outcome.ErrorCount() != 0 {
		t.Errorf("RenameBatch() = %+v, want one skip", outcome)
	}
}

func TestRenameBatch_ExhaustedSequence(t *testing.T) {
	fs := afero.NewMemMapFs()
	mustWrite(t, fs, "/d/fixed.txt", "/d/a.txt")

	// Without a sequence component every candidate is the taken base name
	schema := models.RenameSchema{
		Components: []models.RenameComponent{{Kind: models.ComponentLiteral, Value: "fixed"}},
		Separator:  "_",
	}
	outcome := newTestRenamer(fs).RenameBatch([]string{"/d/a.txt"}, schema, Options{})
	if outcome.ErrorCount() != 1 {
		t.Fatalf("RenameBatch() = %+v, want one error", outcome)
	}
	if got := outcome.Errors[0].Message; got != "Could not find a free target name after 10000 attempts" {
		t.Errorf("message = %q", got)
	}
	if outcome.SkippedCount != 0 {
		t.Errorf("SkippedCount = %d, want 0", outcome.SkippedCount)
	}
}

func TestRenameBatch_RenameFailureContinues(t *testing.T) {
	base := afero.NewMemMapFs()
	mustWrite(t, base, "/docs/a.txt", "/docs/b.txt")
	fs := testutil.NewFaultFs(base)
	fs.RenameErr["/docs/a.txt"] = errors.New("device busy")

	outcome := newTestRenamer(fs).RenameBatch([]string{"/docs/a.txt", "/docs/b.txt"}, folderStemSchema(), Options{})
	if outcome.ErrorCount() != 1 || outcome.RenamedCount() != 1 {
		t.Fatalf("RenameBatch() = %+v", outcome)
	}
	if outcome.Errors[0].Path != "/docs/a.txt" || outcome.Errors[0].Message != "Rename failed: device busy" {
		t.Errorf("error = %+v", outcome.Errors[0])
	}
	if filepath.Base(outcome.Renamed[0].To) != "docs_b.txt" {
		t.Errorf("renamed = %+v", outcome.Renamed[0])
	}
}

func TestRenameBatch_DateComponents(t *testing.T) {
	fs := afero.NewMemMapFs()
	mustWrite(t, fs, "/cam/x.png")
	modified := time.Date(2020, 2, 3, 4, 5, 6, 0, time.Local)
	if err := fs.Chtimes("/cam/x.png", modified, modified); err != nil {
		t.Fatal(err)
	}

	schema := models.RenameSchema{
		Components: []models.RenameComponent{
			{Kind: models.ComponentDateCreated},
			{Kind: models.ComponentTimeModified},
		},
		Separator: "-",
	}

	r := newTestRenamer(fs)
	outcome := r.RenameBatch([]string{"/cam/x.png"}, schema, Options{DryRun: true})
	if got := filepath.Base(outcome.Renamed[0].To); got != "20240506-040506.png" {
		t.Errorf("target = %v, want 20240506-040506.png", got)
	}

	// Missing creation time falls back to now
	r.creationTime = func(string, os.FileInfo) (time.Time, bool) { return time.Time{}, false }
	outcome = r.RenameBatch([]string{"/cam/x.png"}, schema, Options{DryRun: true})
	if got := filepath.Base(outcome.Renamed[0].To); got != "20250101-040506.png" {
		t.Errorf("target = %v, want 20250101-040506.png", got)
	}
}

func TestUndo(t *testing.T) {
	fs := afero.NewMemMapFs()
	mustWrite(t, fs, "/photos/a.jpg", "/photos/b.jpg")
	r := newTestRenamer(fs)

	outcome := r.RenameBatch([]string{"/photos/a.jpg", "/photos/b.jpg"}, folderSeqSchema(), Options{})
	if outcome.RenamedCount() != 2 {
		t.Fatalf("RenameBatch() = %+v", outcome)
	}

	undone := r.Undo(outcome.Renamed)
	if undone.RenamedCount() != 2 || undone.ErrorCount() != 0 {
		t.Fatalf("Undo() = %+v", undone)
	}
	for _, p := range []string{"/photos/a.jpg", "/photos/b.jpg"} {
		if !exists(fs, p) {
			t.Errorf("%s not restored", p)
		}
	}

	again := r.Undo(outcome.Renamed)
	if again.ErrorCount() != 2 {
		t.Errorf("second Undo() errors = %d, want 2", again.ErrorCount())
	}
}
