package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Criterion names a file property used to decide duplication
type Criterion string

const (
	CriterionHash  Criterion = "hash"
	CriterionSize  Criterion = "size"
	CriterionName  Criterion = "name"
	CriterionMtime Criterion = "mtime"
	CriterionMime  Criterion = "mime"
)

// CriterionValue is one component of a duplicate key.
// Hash, Name and Mime use Text; Size and Mtime use Number.
type CriterionValue struct {
	Criterion Criterion `json:"criterion"`
	Text      string    `json:"text,omitempty"`
	Number    int64     `json:"number,omitempty"`
}

// HashValue is a content digest component
func HashValue(hex string) CriterionValue {
	return CriterionValue{Criterion: CriterionHash, Text: hex}
}

// SizeValue is a byte size component
func SizeValue(size uint64) CriterionValue {
	return CriterionValue{Criterion: CriterionSize, Number: int64(size)}
}

// NameValue is a base name component, already folded when names compare case-insensitively
func NameValue(name string) CriterionValue {
	return CriterionValue{Criterion: CriterionName, Text: name}
}

// MtimeValue is a modification time component in whole seconds
func MtimeValue(sec int64) CriterionValue {
	return CriterionValue{Criterion: CriterionMtime, Number: sec}
}

// MimeValue is a sniffed MIME type component
func MimeValue(mime string) CriterionValue {
	return CriterionValue{Criterion: CriterionMime, Text: mime}
}

// Describe renders the component for display
func (v CriterionValue) Describe() string {
	switch v.Criterion {
	case CriterionHash:
		short := v.Text
		if len(short) > 8 {
			short = short[:8]
		}
		return fmt.Sprintf("sha256 %s...", short)
	case CriterionSize:
		return "size " + HumanSize(uint64(v.Number))
	case CriterionName:
		return "name " + v.Text
	case CriterionMtime:
		return "mtime " + time.Unix(v.Number, 0).Local().Format("2006-01-02 15:04:05")
	case CriterionMime:
		return "mime " + v.Text
	default:
		return string(v.Criterion)
	}
}

// DuplicateKey is the ordered list of components two files must share.
// Components always appear in the order hash, size, name, mtime, mime.
type DuplicateKey []CriterionValue

// Describe joins the component descriptions with " | "
func (k DuplicateKey) Describe() string {
	parts := make([]string, 0, len(k))
	for _, v := range k {
		parts = append(parts, v.Describe())
	}
	return strings.Join(parts, " | ")
}

// Fingerprint returns a string that is equal for equal keys
func (k DuplicateKey) Fingerprint() string {
	var sb strings.Builder
	for _, v := range k {
		sb.WriteString(string(v.Criterion))
		sb.WriteByte('=')
		switch v.Criterion {
		case CriterionSize, CriterionMtime:
			sb.WriteString(strconv.FormatInt(v.Number, 10))
		default:
			sb.WriteString(strconv.Quote(v.Text))
		}
		sb.WriteByte(';')
	}
	return sb.String()
}

// Has reports whether the key carries a component for c
func (k DuplicateKey) Has(c Criterion) bool {
	for _, v := range k {
		if v.Criterion == c {
			return true
		}
	}
	return false
}

// DuplicateGroup is a set of at least two files sharing one key
type DuplicateGroup struct {
	Key     DuplicateKey `json:"key"`
	Members []FileRecord `json:"members"`
}

// HumanSize formats a byte count with binary steps and two decimals
func HumanSize(bytes uint64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", size, units[unit])
}
