package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// runCLI runs the dupehound command with an isolated home and config folder
func runCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../cmd/dupehound"}, args...)...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, "config"),
		"APPDATA="+filepath.Join(home, "config"),
		"DUPEHOUND_JOURNAL_DIR="+filepath.Join(home, "state"),
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", path, err)
		}
	}
}

func TestScanCommand_FolderNotFound(t *testing.T) {
	_, stderr, err := runCLI(t, t.TempDir(), "scan", "/nonexistent/folder")
	if err == nil {
		t.Error("Expected error for nonexistent folder, got nil")
	}
	if !strings.Contains(stderr, "folder does not exist") {
		t.Errorf("Expected 'folder does not exist' error, got: %s", stderr)
	}
}

func TestScanCommand_NoCriteria(t *testing.T) {
	_, stderr, err := runCLI(t, t.TempDir(), "scan", "--hash=false", t.TempDir())
	if err == nil {
		t.Error("Expected error with every criterion disabled, got nil")
	}
	if !strings.Contains(stderr, "at least one duplicate criterion") {
		t.Errorf("Unexpected error output: %s", stderr)
	}
}

func TestScanCommand_JSONReport(t *testing.T) {
	home := t.TempDir()
	data := t.TempDir()
	writeFiles(t, data, map[string]string{
		"a.txt":     "duplicate",
		"b.txt":     "duplicate",
		"sub/c.txt": "duplicate",
		"d.txt":     "unique",
	})
	out := filepath.Join(home, "report.json")

	if _, stderr, err := runCLI(t, home, "scan", "--days", "0", "--report", "json", "--output", out, data); err != nil {
		t.Fatalf("Command failed: %v, stderr: %s", err, stderr)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Report not written: %v", err)
	}
	var report struct {
		Groups []struct {
			KeyDescription string `json:"key_description"`
			Files          []struct {
				Path string `json:"path"`
			} `json:"files"`
		} `json:"groups"`
		TotalFilesScanned int `json:"total_files_scanned"`
	}
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("Invalid JSON report: %v", err)
	}

	if report.TotalFilesScanned != 4 {
		t.Errorf("total_files_scanned = %d, want 4", report.TotalFilesScanned)
	}
	if len(report.Groups) != 1 || len(report.Groups[0].Files) != 3 {
		t.Fatalf("groups = %+v", report.Groups)
	}
	if !strings.HasPrefix(report.Groups[0].KeyDescription, "sha256 ") {
		t.Errorf("key_description = %s", report.Groups[0].KeyDescription)
	}
}

func TestCleanCommand_Quarantine(t *testing.T) {
	home := t.TempDir()
	data := t.TempDir()
	quarantine := filepath.Join(home, "quarantine")
	writeFiles(t, data, map[string]string{"a.txt": "same", "b.txt": "same"})

	if _, stderr, err := runCLI(t, home, "clean", "--days", "0", "--quarantine", quarantine, "--apply", data); err != nil {
		t.Fatalf("Command failed: %v, stderr: %s", err, stderr)
	}

	if _, err := os.Stat(filepath.Join(data, "a.txt")); err != nil {
		t.Errorf("kept file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(data, "b.txt")); !os.IsNotExist(err) {
		t.Errorf("duplicate still in place: %v", err)
	}
	if _, err := os.Stat(filepath.Join(quarantine, "b.txt")); err != nil {
		t.Errorf("duplicate not quarantined: %v", err)
	}
}

func TestRenameAndUndo(t *testing.T) {
	home := t.TempDir()
	data := filepath.Join(t.TempDir(), "Trip")
	writeFiles(t, data, map[string]string{"x.jpg": "1", "y.jpg": "2", "notes.txt": "3"})

	stdout, stderr, err := runCLI(t, home, "rename", "--days", "0", "--preset", "images",
		"--schema", "folder_name,sequence:2", data)
	if err != nil {
		t.Fatalf("Command failed: %v, stderr: %s", err, stderr)
	}

	for _, name := range []string{"Trip.jpg", "Trip_01.jpg", "notes.txt"} {
		if _, err := os.Stat(filepath.Join(data, name)); err != nil {
			t.Errorf("%s missing after rename: %v", name, err)
		}
	}

	batch := regexp.MustCompile(`dupehound undo ([0-9a-f-]{36})`).FindStringSubmatch(stdout)
	if batch == nil {
		t.Fatalf("No undo hint in output: %s", stdout)
	}

	if _, stderr, err := runCLI(t, home, "undo", batch[1]); err != nil {
		t.Fatalf("Undo failed: %v, stderr: %s", err, stderr)
	}
	for _, name := range []string{"x.jpg", "y.jpg", "notes.txt"} {
		if _, err := os.Stat(filepath.Join(data, name)); err != nil {
			t.Errorf("%s not restored: %v", name, err)
		}
	}
}
