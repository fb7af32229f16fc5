package grouper

import (
	"github.com/IvanShishkin/dupehound/internal/filesystem"
	"github.com/h2non/filetype"
	"github.com/spf13/afero"
)

// SniffBytes is how much of a file is read to detect its type
const SniffBytes = 8 * 1024

// UnknownMime is reported when the content matches no known signature
const UnknownMime = "unknown"

// DetectMime classifies a file by the magic bytes at its start
func DetectMime(fs afero.Fs, path string) string {
	head, err := filesystem.ReadHead(fs, path, SniffBytes)
	if err != nil {
		return UnknownMime
	}
	return MimeOf(head)
}

// MimeOf classifies a header buffer
func MimeOf(head []byte) string {
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return UnknownMime
	}
	return kind.MIME.Value
}
