package renamer

import (
	"testing"
	"time"

	"github.com/IvanShishkin/dupehound/pkg/models"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Photos", "Photos"},
		{"a<b>c:d", "a_b_c_d"},
		{`q"w/e\r|t?y*`, "q_w_e_r_t_y_"},
		{"tab\there", "tab_here"},
		{"bell\x07\x7f", "bell__"},
		{"  padded  ", "padded"},
		{"trailing...", "trailing"},
		{"report. ", "report"},
		{".hidden", ".hidden"},
		{"", "folder"},
		{"   ", "folder"},
		{"...", "folder"},
		{"Фото", "Фото"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuildName(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	modified := time.Date(2023, 12, 31, 23, 59, 58, 0, time.Local)
	parts := NameParts{Folder: "Photos", Stem: "img001", Ext: ".jpg", Created: created, Modified: modified}

	comp := func(kind models.ComponentKind) models.RenameComponent {
		return models.RenameComponent{Kind: kind}
	}
	seq := func(pad int) models.RenameComponent {
		return models.RenameComponent{Kind: models.ComponentSequence, PadWidth: pad}
	}
	literal := func(v string) models.RenameComponent {
		return models.RenameComponent{Kind: models.ComponentLiteral, Value: v}
	}

	tests := []struct {
		name       string
		components []models.RenameComponent
		separator  string
		parts      NameParts
		seq        int
		expected   string
	}{
		{"Base pass omits sequence", []models.RenameComponent{comp(models.ComponentFolderName), seq(3)}, "_", parts, 0, "Photos.jpg"},
		{"Sequence padded", []models.RenameComponent{comp(models.ComponentFolderName), seq(3)}, "_", parts, 7, "Photos_007.jpg"},
		{"Sequence wider than pad", []models.RenameComponent{comp(models.ComponentFolderName), seq(2)}, "_", parts, 123, "Photos_123.jpg"},
		{"Sequence unpadded", []models.RenameComponent{seq(0)}, "_", parts, 5, "5.jpg"},
		{"Literal and stem", []models.RenameComponent{literal("backup"), comp(models.ComponentOriginalStem)}, "-", parts, 0, "backup-img001.jpg"},
		{"Empty literal dropped", []models.RenameComponent{literal(" .. "), comp(models.ComponentOriginalStem)}, "-", parts, 0, "img001.jpg"},
		{"Literal sanitized", []models.RenameComponent{literal("a/b")}, "_", parts, 0, "a_b.jpg"},
		{"Created date and time", []models.RenameComponent{comp(models.ComponentDateCreated), comp(models.ComponentTimeCreated)}, "_", parts, 0, "20240102_030405.jpg"},
		{"Modified date and time", []models.RenameComponent{comp(models.ComponentDateModified), comp(models.ComponentTimeModified)}, "", parts, 0, "20231231235958.jpg"},
		{"Default schema", []models.RenameComponent{comp(models.ComponentFolderName), comp(models.ComponentDateCreated), comp(models.ComponentTimeCreated), seq(3)}, "_", parts, 2, "Photos_20240102_030405_002.jpg"},
		{"Nothing left falls back to stem", []models.RenameComponent{seq(3)}, "_", parts, 0, "img001.jpg"},
		{"No components", nil, "_", parts, 0, "img001.jpg"},
		{"Folder sanitized", []models.RenameComponent{comp(models.ComponentFolderName)}, "_", NameParts{Folder: "a:b", Ext: ".png"}, 0, "a_b.png"},
		{"Empty folder", []models.RenameComponent{comp(models.ComponentFolderName)}, "_", NameParts{Ext: ".png"}, 0, "folder.png"},
		{"Extension verbatim", []models.RenameComponent{comp(models.ComponentOriginalStem)}, "_", NameParts{Stem: "x", Ext: ".TXT"}, 0, "x.TXT"},
		{"No extension", []models.RenameComponent{comp(models.ComponentFolderName)}, "_", NameParts{Folder: "docs"}, 0, "docs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := models.RenameSchema{Components: tt.components, Separator: tt.separator}
			if got := BuildName(schema, tt.parts, tt.seq); got != tt.expected {
				t.Errorf("BuildName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMatchesPreset(t *testing.T) {
	tests := []struct {
		path     string
		preset   string
		expected bool
	}{
		{"/a/photo.JPG", "images", true},
		{"/a/photo.jpg", " Images ", true},
		{"/a/clip.mkv", "images", false},
		{"/a/clip.mkv", "videos", true},
		{"/a/song.opus", "audio", true},
		{"/a/notes.md", "documents", true},
		{"/a/backup.tgz", "archives", true},
		{"/a/README", "documents", false},
		{"/a/README", "all", true},
		{"/a/anything.xyz", "all", true},
		{"/a/anything.xyz", "bogus", true},
		{"/a/.profile", "documents", false},
	}

	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.preset, func(t *testing.T) {
			if got := MatchesPreset(tt.path, tt.preset); got != tt.expected {
				t.Errorf("MatchesPreset(%q, %q) = %v, want %v", tt.path, tt.preset, got, tt.expected)
			}
		})
	}
}

func TestNormalizePreset(t *testing.T) {
	tests := []struct {
		token    string
		expected Preset
	}{
		{"images", PresetImages},
		{"VIDEOS", PresetVideos},
		{" audio", PresetAudio},
		{"Documents", PresetDocuments},
		{"archives", PresetArchives},
		{"all", PresetAll},
		{"", PresetAll},
		{"pictures", PresetAll},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := NormalizePreset(tt.token); got != tt.expected {
				t.Errorf("NormalizePreset(%q) = %v, want %v", tt.token, got, tt.expected)
			}
		})
	}
}
