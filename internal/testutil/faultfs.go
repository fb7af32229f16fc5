// Package testutil provides filesystem fakes for package tests.
package testutil

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FaultFs wraps an afero.Fs and fails selected calls for selected paths.
// It hides Lstat from the wrapped filesystem so walkers fall back to Stat.
type FaultFs struct {
	afero.Fs

	StatErr   map[string]error
	OpenErr   map[string]error
	RenameErr map[string]error // keyed by source path
	RemoveErr map[string]error
}

// NewFaultFs wraps base with no faults configured
func NewFaultFs(base afero.Fs) *FaultFs {
	return &FaultFs{
		Fs:        base,
		StatErr:   map[string]error{},
		OpenErr:   map[string]error{},
		RenameErr: map[string]error{},
		RemoveErr: map[string]error{},
	}
}

// Deny makes Stat and Open on path fail with a permission error
func (f *FaultFs) Deny(path string) {
	path = filepath.Clean(path)
	f.StatErr[path] = &os.PathError{Op: "stat", Path: path, Err: os.ErrPermission}
	f.OpenErr[path] = &os.PathError{Op: "open", Path: path, Err: os.ErrPermission}
}

func (f *FaultFs) Stat(name string) (os.FileInfo, error) {
	if err, ok := f.StatErr[filepath.Clean(name)]; ok {
		return nil, err
	}
	return f.Fs.Stat(name)
}

func (f *FaultFs) Open(name string) (afero.File, error) {
	if err, ok := f.OpenErr[filepath.Clean(name)]; ok {
		return nil, err
	}
	return f.Fs.Open(name)
}

func (f *FaultFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if err, ok := f.OpenErr[filepath.Clean(name)]; ok {
		return nil, err
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *FaultFs) Rename(oldname, newname string) error {
	if err, ok := f.RenameErr[filepath.Clean(oldname)]; ok {
		return err
	}
	return f.Fs.Rename(oldname, newname)
}

func (f *FaultFs) Remove(name string) error {
	if err, ok := f.RemoveErr[filepath.Clean(name)]; ok {
		return err
	}
	return f.Fs.Remove(name)
}

// WriteFile creates parent folders and writes data into fs
func WriteFile(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0644)
}
