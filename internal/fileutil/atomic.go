// Package fileutil writes files by staging them next to their target and
// renaming them into place.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Staged is a fully written temp file waiting to replace its target.
type Staged struct {
	target string
	tmp    string
}

// Target returns the path the staged file will be renamed to.
func (s *Staged) Target() string {
	return s.target
}

// Stage writes data to a temp file in the target's directory, creating the
// directory (0700) if needed. Nothing at path changes until Commit.
func Stage(path string, data []byte, perm os.FileMode) (*Staged, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to write temp file for %s: %w", path, err)
	}
	// OpenFile applies the umask; the final mode must be exactly perm.
	if err := f.Chmod(perm); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to set mode on %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to sync temp file for %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}

	return &Staged{target: path, tmp: tmp}, nil
}

// Discard removes the temp file. Safe to call after Commit.
func (s *Staged) Discard() {
	if s == nil || s.tmp == "" {
		return
	}
	os.Remove(s.tmp)
	s.tmp = ""
}

// Commit renames every staged file onto its target in order. If a rename
// fails, the remaining temp files are removed and the error is returned;
// targets already renamed stay replaced.
func Commit(staged ...*Staged) error {
	for i, s := range staged {
		if err := os.Rename(s.tmp, s.target); err != nil {
			for _, rest := range staged[i:] {
				rest.Discard()
			}
			return fmt.Errorf("failed to replace %s: %w", s.target, err)
		}
		s.tmp = ""
	}
	return nil
}

// WriteFile stages and commits a single file.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	s, err := Stage(path, data, perm)
	if err != nil {
		return err
	}
	return Commit(s)
}
