package renamer

import (
	"fmt"
	"strings"
	"time"

	"github.com/IvanShishkin/dupehound/pkg/models"
)

// FallbackName replaces a name component that sanitizes to nothing
const FallbackName = "folder"

// forbiddenChars may not appear in a file name on common filesystems
const forbiddenChars = `<>:"/\|?*`

// NameParts carries the per-file values a schema can refer to
type NameParts struct {
	Folder   string    // parent folder name, unsanitized
	Stem     string    // original base name without extension
	Ext      string    // original extension including the dot, verbatim
	Created  time.Time // creation time, already resolved
	Modified time.Time // modification time, already resolved
}

// Sanitize makes s safe to use as part of a file name
func Sanitize(s string) string {
	if out := sanitizeText(s); out != "" {
		return out
	}
	return FallbackName
}

func sanitizeText(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(forbiddenChars, r) {
			sb.WriteByte('_')
			continue
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(strings.TrimSpace(sb.String()), ".")
}

// BuildName renders the target file name for schema. A seq of 0 omits
// sequence components; a positive seq fills them zero-padded.
func BuildName(schema models.RenameSchema, p NameParts, seq int) string {
	created := p.Created.Local()
	modified := p.Modified.Local()

	parts := make([]string, 0, len(schema.Components))
	for _, c := range schema.Components {
		var part string
		switch c.Kind {
		case models.ComponentFolderName:
			part = Sanitize(p.Folder)
		case models.ComponentDateCreated:
			part = created.Format("20060102")
		case models.ComponentDateModified:
			part = modified.Format("20060102")
		case models.ComponentTimeCreated:
			part = created.Format("150405")
		case models.ComponentTimeModified:
			part = modified.Format("150405")
		case models.ComponentOriginalStem:
			part = Sanitize(p.Stem)
		case models.ComponentLiteral:
			part = sanitizeText(c.Value)
		case models.ComponentSequence:
			if seq > 0 {
				part = fmt.Sprintf("%0*d", c.PadWidth, seq)
			}
		}
		if part != "" {
			parts = append(parts, part)
		}
	}

	stem := strings.Join(parts, schema.Separator)
	if len(parts) == 0 {
		stem = Sanitize(p.Stem)
	}
	return stem + p.Ext
}
