package renamer

import (
	"strings"

	"github.com/IvanShishkin/dupehound/internal/filesystem"
)

// Preset names a file-type category used to pick rename candidates
type Preset string

const (
	PresetAll       Preset = "all"
	PresetImages    Preset = "images"
	PresetVideos    Preset = "videos"
	PresetAudio     Preset = "audio"
	PresetDocuments Preset = "documents"
	PresetArchives  Preset = "archives"
)

// Presets lists every preset in display order
var Presets = []Preset{PresetAll, PresetImages, PresetVideos, PresetAudio, PresetDocuments, PresetArchives}

var presetExtensions = map[Preset][]string{
	PresetImages:    {"jpg", "jpeg", "png", "gif", "bmp", "webp", "tif", "tiff", "heic", "heif", "svg"},
	PresetVideos:    {"mp4", "mov", "avi", "mkv", "webm", "m4v", "mpg", "mpeg", "wmv"},
	PresetAudio:     {"mp3", "wav", "flac", "aac", "m4a", "ogg", "opus", "wma"},
	PresetDocuments: {"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "txt", "rtf", "odt", "ods", "odp", "csv", "md"},
	PresetArchives:  {"zip", "rar", "7z", "tar", "gz", "bz2", "xz", "tgz"},
}

// NormalizePreset maps a user token to a known preset, defaulting to all
func NormalizePreset(token string) Preset {
	p := Preset(strings.ToLower(strings.TrimSpace(token)))
	if _, ok := presetExtensions[p]; ok {
		return p
	}
	return PresetAll
}

// MatchesPreset reports whether the file extension belongs to the preset.
// Files without an extension only match all.
func MatchesPreset(path, token string) bool {
	preset := NormalizePreset(token)
	if preset == PresetAll {
		return true
	}

	ext := strings.ToLower(strings.TrimPrefix(filesystem.Extension(path), "."))
	if ext == "" {
		return false
	}
	for _, e := range presetExtensions[preset] {
		if e == ext {
			return true
		}
	}
	return false
}
