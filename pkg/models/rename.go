package models

// ComponentKind identifies one building block of a rename schema
type ComponentKind string

const (
	ComponentFolderName   ComponentKind = "folder_name"
	ComponentDateCreated  ComponentKind = "date_created"
	ComponentDateModified ComponentKind = "date_modified"
	ComponentTimeCreated  ComponentKind = "time_created"
	ComponentTimeModified ComponentKind = "time_modified"
	ComponentOriginalStem ComponentKind = "original_stem"
	ComponentLiteral      ComponentKind = "literal"
	ComponentSequence     ComponentKind = "sequence"
)

// ComponentKinds lists every kind in declaration order
var ComponentKinds = []ComponentKind{
	ComponentFolderName,
	ComponentDateCreated,
	ComponentDateModified,
	ComponentTimeCreated,
	ComponentTimeModified,
	ComponentOriginalStem,
	ComponentLiteral,
	ComponentSequence,
}

// RenameComponent is one part of a target file name.
// PadWidth applies to sequence components, Value to literals.
type RenameComponent struct {
	Kind     ComponentKind `json:"kind" yaml:"kind" mapstructure:"kind"`
	PadWidth int           `json:"pad_width,omitempty" yaml:"pad_width,omitempty" mapstructure:"pad_width"`
	Value    string        `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
}

// RenameSchema is an ordered sequence of components joined by Separator
type RenameSchema struct {
	Components []RenameComponent `json:"components" yaml:"components"`
	Separator  string            `json:"separator" yaml:"separator"`
}

// HasSequence reports whether the schema places an explicit sequence
func (s RenameSchema) HasSequence() bool {
	for _, c := range s.Components {
		if c.Kind == ComponentSequence {
			return true
		}
	}
	return false
}

// RenamedItem records one successful (or planned) rename
type RenamedItem struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RenameError records one failed rename
type RenameError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// RenameOutcome aggregates the result of a rename batch
type RenameOutcome struct {
	Renamed      []RenamedItem `json:"renamed"`
	SkippedCount int           `json:"skipped_count"`
	Errors       []RenameError `json:"errors"`
}

// RenamedCount returns the number of renamed files
func (o RenameOutcome) RenamedCount() int {
	return len(o.Renamed)
}

// ErrorCount returns the number of failed files
func (o RenameOutcome) ErrorCount() int {
	return len(o.Errors)
}
